package types

import "testing"

func TestParseRole(t *testing.T) {
	for _, r := range []Role{RoleNone, RolePosek, RoleEditor, RoleSuperAdmin} {
		parsed, err := ParseRole(string(r))
		if err != nil {
			t.Fatalf("known role %q rejected: %v", r, err)
		}
		if parsed != r {
			t.Fatalf("parsed %q != %q", parsed, r)
		}
	}

	// Unknown role strings fail parsing instead of degrading to RoleNone.
	for _, bad := range []string{"posek", "admin", "SUPERADMIN", "Rabbi"} {
		if _, err := ParseRole(bad); err == nil {
			t.Fatalf("expected rejection for %q", bad)
		}
	}
}

func TestRoleIn(t *testing.T) {
	if !RolePosek.In(RolePosek, RoleSuperAdmin) {
		t.Fatal("posek should match itself")
	}
	if RoleEditor.In(RolePosek, RoleSuperAdmin) {
		t.Fatal("editor should not match the approval set")
	}
	if RoleNone.In() {
		t.Fatal("empty allow list matches nothing")
	}
}

func TestParseApprovalLevel(t *testing.T) {
	expected := map[ApprovalLevel]int{
		LevelUser:        1,
		LevelExperienced: 3,
		LevelScholar:     10,
		LevelRabbi:       50,
		LevelChiefRabbi:  100,
	}
	for level, weight := range expected {
		parsed, err := ParseApprovalLevel(string(level))
		if err != nil {
			t.Fatalf("known level %q rejected: %v", level, err)
		}
		if ApprovalWeights[parsed] != weight {
			t.Fatalf("weight for %q = %d, want %d", level, ApprovalWeights[parsed], weight)
		}
	}
	if _, err := ParseApprovalLevel("gadol"); err == nil {
		t.Fatal("expected rejection of unknown level")
	}
}
