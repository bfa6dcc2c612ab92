package types

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseQuestionCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseQuestionCategory(string(c))
		if err != nil {
			t.Fatalf("known category %q rejected: %v", c, err)
		}
		if parsed != c {
			t.Fatalf("parsed %q != %q", parsed, c)
		}
		if c.Label() == "" {
			t.Fatalf("category %q has no label", c)
		}
	}

	for _, bad := range []string{"", "Shabbat", "astrology", "kashrut "} {
		if _, err := ParseQuestionCategory(bad); err == nil {
			t.Fatalf("expected rejection for %q", bad)
		}
	}
}

func TestLoadCategoryLabels(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid override", func(t *testing.T) {
		path := filepath.Join(dir, "taxonomy.yaml")
		if err := os.WriteFile(path, []byte("shabbat: \"דיני שבת קודש\"\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := LoadCategoryLabels(path); err != nil {
			t.Fatalf("load: %v", err)
		}
		if got := CategoryShabbat.Label(); got != "דיני שבת קודש" {
			t.Fatalf("label = %q", got)
		}
	})

	t.Run("unknown category in file is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("astrology: stars\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := LoadCategoryLabels(path); err == nil {
			t.Fatal("expected rejection of unknown category")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if err := LoadCategoryLabels(filepath.Join(dir, "absent.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
