package types

import "fmt"

// Role is the role claim carried by an authenticated identity. Values come
// from an external trust boundary (the auth token) and are validated into
// this closed set; unknown strings are rejected rather than treated as
// "no role".
type Role string

const (
	RoleNone       Role = ""
	RolePosek      Role = "Posek"
	RoleEditor     Role = "Editor"
	RoleSuperAdmin Role = "SuperAdmin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleNone, RolePosek, RoleEditor, RoleSuperAdmin:
		return Role(s), nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// ApprovalLevel grades how much an individual approval counts for.
type ApprovalLevel string

const (
	LevelUser        ApprovalLevel = "user"
	LevelExperienced ApprovalLevel = "experienced"
	LevelScholar     ApprovalLevel = "scholar"
	LevelRabbi       ApprovalLevel = "rabbi"
	LevelChiefRabbi  ApprovalLevel = "chief_rabbi"
)

// ApprovalWeights is the fixed level-to-weight lookup table.
var ApprovalWeights = map[ApprovalLevel]int{
	LevelUser:        1,
	LevelExperienced: 3,
	LevelScholar:     10,
	LevelRabbi:       50,
	LevelChiefRabbi:  100,
}

func ParseApprovalLevel(s string) (ApprovalLevel, error) {
	if _, ok := ApprovalWeights[ApprovalLevel(s)]; !ok {
		return "", fmt.Errorf("unknown approval level %q", s)
	}
	return ApprovalLevel(s), nil
}
