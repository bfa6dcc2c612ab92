package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapseRe = regexp.MustCompile(`\s+`)
)

// BuildSlug derives the human-readable slug for a question title. The
// 8-hex hash suffix of "title:seed" keeps slugs unique even when two
// titles normalize to the same base, or to nothing at all (common for
// Hebrew-only titles, which strip to empty).
func BuildSlug(title, seed string) string {
	base := strings.ToLower(title)
	base = slugStripRe.ReplaceAllString(base, "")
	base = strings.TrimSpace(base)
	base = slugCollapseRe.ReplaceAllString(base, "-")
	if len(base) > 60 {
		base = base[:60]
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", title, seed)))
	suffix := hex.EncodeToString(sum[:])[:8]

	if base == "" {
		return "q-" + suffix
	}
	return base + "-" + suffix
}

// BuildContentHash fingerprints a submission for duplicate detection. The
// hash is exposed, not enforced: what to do with a duplicate is a
// moderator decision.
func BuildContentHash(title, body, anonSessionID string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", title, body, anonSessionID)))
	return hex.EncodeToString(sum[:])
}
