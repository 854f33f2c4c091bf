package identity

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ramborogers/bandlock/radio"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "bandlock", "config.toml"))
}

func writeFile(t *testing.T, s *Store, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0700); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte(content), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	bssid, _ := radio.ParseBSSID("aa:bb:cc:dd:ee:ff")

	tests := []struct {
		name string
		id   Identity
	}{
		{"with bssid", Identity{Name: "Home", Password: "hunter2", BSSID: bssid}},
		{"without bssid", Identity{Name: "Home", Password: "hunter2"}},
		{"quoting", Identity{Name: `My "Wi-Fi" = best`, Password: `p#ss\word`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := s.Save(tt.id); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := s.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got.Name != tt.id.Name || got.Password != tt.id.Password {
				t.Errorf("Expected %+v, got %+v", tt.id, got)
			}
			if radio.FormatBSSID(got.BSSID) != radio.FormatBSSID(tt.id.BSSID) {
				t.Errorf("Expected BSSID %q, got %q", radio.FormatBSSID(tt.id.BSSID), radio.FormatBSSID(got.BSSID))
			}
			if tt.id.BSSID == nil && got.HasBSSID() {
				t.Error("Expected absent BSSID to stay absent")
			}
		})
	}
}

func TestSavePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions only")
	}
	s := newTestStore(t)
	if err := s.Save(Identity{Name: "Home", Password: "hunter2"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected mode 0600, got %o", perm)
	}
}

func TestSaveRejectsIncompleteIdentity(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(Identity{Name: "Home"}); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("Expected ErrConfigInvalid, got %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("Expected no file to be written")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("Expected ErrConfigInvalid, got %v", err)
	}
}

func TestLoadHandWrittenFile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   bool
		wantBSSID string
	}{
		{
			name:    "comments blanks and unknown keys",
			content: "# bandlock\n\nssid = \"Home\"\n  # indented comment\npassword = \"hunter2\"\ntheme = \"dark\"\n",
		},
		{
			name:    "empty bssid is absent",
			content: "ssid = \"Home\"\npassword = \"hunter2\"\nbssid = \"\"\n",
		},
		{
			name:      "lower case bssid",
			content:   "ssid = \"Home\"\npassword = \"hunter2\"\nbssid = \"aa:bb:cc:dd:ee:ff\"\n",
			wantBSSID: "AA:BB:CC:DD:EE:FF",
		},
		{
			name:    "missing password",
			content: "ssid = \"Home\"\n",
			wantErr: true,
		},
		{
			name:    "missing ssid",
			content: "password = \"hunter2\"\n",
			wantErr: true,
		},
		{
			name:    "malformed bssid",
			content: "ssid = \"Home\"\npassword = \"hunter2\"\nbssid = \"zz\"\n",
			wantErr: true,
		},
		{
			name:    "unquoted value",
			content: "ssid = Home\npassword = \"hunter2\"\n",
			wantErr: true,
		},
		{
			name:    "invalid escape in quoted value",
			content: "ssid = \"Home\"\npassword = \"p\\ss\"\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			writeFile(t, s, tt.content)

			id, err := s.Load()
			if tt.wantErr {
				if !errors.Is(err, ErrConfigInvalid) {
					t.Errorf("Expected ErrConfigInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if id.Name != "Home" || id.Password != "hunter2" {
				t.Errorf("Unexpected identity %+v", id)
			}
			if got := radio.FormatBSSID(id.BSSID); got != tt.wantBSSID {
				t.Errorf("Expected BSSID %q, got %q", tt.wantBSSID, got)
			}
		})
	}
}

func TestBackslashPassword(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s, "ssid = \"Home\"\npassword = 'p\\ss'\n")
	id, err := s.Load()
	if err != nil {
		t.Fatalf("Load of literal string failed: %v", err)
	}
	if id.Password != `p\ss` {
		t.Errorf("Expected password %q, got %q", `p\ss`, id.Password)
	}

	if err := s.Save(id); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	again, err := s.Load()
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if again.Password != `p\ss` {
		t.Errorf("Expected saved password %q, got %q", `p\ss`, again.Password)
	}
}

func TestSaveReplacesPreviousIdentity(t *testing.T) {
	s := newTestStore(t)
	bssid, _ := radio.ParseBSSID("AA:BB:CC:DD:EE:FF")
	if err := s.Save(Identity{Name: "Old", Password: "one", BSSID: bssid}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(Identity{Name: "New", Password: "two"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	id, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if id.Name != "New" || id.HasBSSID() {
		t.Errorf("Expected replaced identity without BSSID, got %+v", id)
	}

	entries, _ := os.ReadDir(filepath.Dir(s.Path()))
	if len(entries) != 1 {
		t.Errorf("Expected only the config file in the directory, got %d entries", len(entries))
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("BANDLOCK_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath failed: %v", err)
	}
	if p != filepath.Join("/tmp/xdg", "bandlock", "config.toml") {
		t.Errorf("Unexpected path %s", p)
	}

	t.Setenv("BANDLOCK_CONFIG", "/etc/bandlock.toml")
	if p, _ := DefaultPath(); p != "/etc/bandlock.toml" {
		t.Errorf("Expected override path, got %s", p)
	}
}
