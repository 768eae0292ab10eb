package layout

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfileOverlaysDefaults(t *testing.T) {
	path := writeProfile(t, `{"row_tolerance": 3.5}`)
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.RowTolerance != 3.5 {
		t.Errorf("row tolerance = %v, want 3.5", p.RowTolerance)
	}
	// fields absent from the file keep their defaults
	def := DefaultProfile()
	if p.GapThreshold != def.GapThreshold || p.MinTextLen != def.MinTextLen {
		t.Errorf("defaults not preserved: %+v", p)
	}
}

func TestLoadProfileRejectsInvalidValues(t *testing.T) {
	for _, content := range []string{
		`{"row_tolerance": -1}`,
		`{"min_text_len": 0}`,
		`{"unknown_field": true}`,
	} {
		path := writeProfile(t, content)
		if _, err := LoadProfile(path); err == nil {
			t.Errorf("LoadProfile(%s) succeeded, want schema error", content)
		}
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("LoadProfile on a missing file succeeded")
	}
}
