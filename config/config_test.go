package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PARKEDIT_DB", "PARKEDIT_SEED", "PARKEDIT_LANG", "PARKEDIT_ROW_HEIGHT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	want := Config{DB: "parkedit.db", Seed: 0, Lang: "en", RowHeight: 12}
	if !cmp.Equal(want, cfg) {
		t.Errorf("Diff: %v", cmp.Diff(want, cfg))
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PARKEDIT_DB", "/tmp/x.db")
	t.Setenv("PARKEDIT_SEED", "99")
	t.Setenv("PARKEDIT_LANG", "de")
	t.Setenv("PARKEDIT_ROW_HEIGHT", "10")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	want := Config{DB: "/tmp/x.db", Seed: 99, Lang: "de", RowHeight: 10}
	if !cmp.Equal(want, cfg) {
		t.Errorf("Diff: %v", cmp.Diff(want, cfg))
	}
	if cfg.Language().String() != "de" {
		t.Errorf("Language() = %v", cfg.Language())
	}
}

func TestLoadRejects(t *testing.T) {
	t.Setenv("PARKEDIT_ROW_HEIGHT", "0")
	if _, err := Load(); err == nil {
		t.Error("zero row height accepted")
	}
	t.Setenv("PARKEDIT_ROW_HEIGHT", "12")
	t.Setenv("PARKEDIT_SEED", "abc")
	if _, err := Load(); err == nil {
		t.Error("bad seed accepted")
	}
}
