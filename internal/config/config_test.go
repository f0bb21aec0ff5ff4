package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("KPIBOARD_CONFIG", "")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Dashboard.Title != "Indicadores Seven" {
		t.Errorf("title = %q, want %q", c.Dashboard.Title, "Indicadores Seven")
	}
	if c.HTTP.Timeout != 30*time.Second {
		t.Errorf("http.timeout = %v, want 30s", c.HTTP.Timeout)
	}
	if c.Submit.Delay != 100*time.Millisecond {
		t.Errorf("submit.delay = %v, want 100ms", c.Submit.Delay)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("server.addr = %q, want :8080", c.Server.Addr)
	}
	if c.Source.AppsScriptURL != "" {
		t.Errorf("apps_script_url = %q, want empty", c.Source.AppsScriptURL)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.toml")
	data := []byte(`
[source]
apps_script_url = "https://script.example/exec"

[source.sheets]
spreadsheet_id = "abc"

[dashboard]
timezone = "UTC"

[server]
refresh_interval = "1m"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KPIBOARD_SUBMIT_DELAY", "250ms")
	t.Setenv("KPIBOARD_SOURCE_SHEETS_RANGE", "Dados!A:Q")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Source.AppsScriptURL != "https://script.example/exec" {
		t.Errorf("apps_script_url = %q", c.Source.AppsScriptURL)
	}
	if c.Source.Sheets.SpreadsheetID != "abc" {
		t.Errorf("spreadsheet_id = %q, want abc", c.Source.Sheets.SpreadsheetID)
	}
	if c.Source.Sheets.Range != "Dados!A:Q" {
		t.Errorf("range = %q, want env override", c.Source.Sheets.Range)
	}
	if c.Submit.Delay != 250*time.Millisecond {
		t.Errorf("submit.delay = %v, want 250ms", c.Submit.Delay)
	}
	if c.Server.RefreshInterval != time.Minute {
		t.Errorf("refresh_interval = %v, want 1m", c.Server.RefreshInterval)
	}
	loc, err := c.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("Location() = %v, %v; want UTC", loc, err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("KPIBOARD_CONFIG", "")
	// registers the restore, then unset so the .env value applies
	t.Setenv("KPIBOARD_DASHBOARD_TITLE", "")
	os.Unsetenv("KPIBOARD_DASHBOARD_TITLE")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("KPIBOARD_DASHBOARD_TITLE=Painel\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Dashboard.Title != "Painel" {
		t.Errorf("title = %q, want Painel from .env", c.Dashboard.Title)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLocationInvalid(t *testing.T) {
	c := Config{Dashboard: DashboardConfig{Timezone: "Mars/Olympus"}}
	if _, err := c.Location(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Chdir back: %v", err)
		}
	})
}
