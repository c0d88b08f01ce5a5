package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses environment overrides", func(t *testing.T) {
		t.Setenv("SHELF_CONFIG_PATH", "/etc/shelf/shelf.toml")
		t.Setenv("SHELF_HOME", "/srv/shelf")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/etc/shelf/shelf.toml" {
			t.Errorf("config_path = %q, want env override", defaults["config_path"])
		}
		if defaults["base_dir"] != "/srv/shelf" {
			t.Errorf("base_dir = %q, want env override", defaults["base_dir"])
		}
		if defaults["log_dir"] != filepath.Join("/srv/shelf", "log") {
			t.Errorf("log_dir = %q, want under base dir", defaults["log_dir"])
		}
	})

	t.Run("falls back to home-relative paths", func(t *testing.T) {
		t.Setenv("SHELF_CONFIG_PATH", "")
		t.Setenv("SHELF_HOME", "")
		t.Setenv("HOME", "/home/reader")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/home/reader/.config/shelf.toml" {
			t.Errorf("config_path = %q, want XDG default", defaults["config_path"])
		}
		if defaults["base_dir"] != "/home/reader/.local/share/shelf" {
			t.Errorf("base_dir = %q, want XDG default", defaults["base_dir"])
		}
	})
}
