// Package identity persists the network bandlock keeps the host on: its
// SSID, its password and optionally the BSSID of its 5GHz radio.
package identity

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ramborogers/bandlock/radio"
)

// ErrConfigInvalid means no usable identity is stored. Callers treat it as
// "not set up yet".
var ErrConfigInvalid = errors.New("no usable network identity")

const (
	appDir   = "bandlock"
	fileName = "config.toml"
)

// Identity is the target network
type Identity struct {
	Name     string
	Password string
	BSSID    net.HardwareAddr // nil when no preferred radio is known
}

// Validate checks that both the name and the password are present.
func (id Identity) Validate() error {
	if id.Name == "" {
		return fmt.Errorf("%w: ssid is missing", ErrConfigInvalid)
	}
	if id.Password == "" {
		return fmt.Errorf("%w: password is missing", ErrConfigInvalid)
	}
	return nil
}

// Credential returns what the radio driver needs to join the network.
func (id Identity) Credential() radio.Credential {
	return radio.Credential{SSID: id.Name, Password: id.Password}
}

// HasBSSID reports whether a preferred radio is configured.
func (id Identity) HasBSSID() bool {
	return len(id.BSSID) > 0
}

// fileFormat mirrors the on-disk keys. Unknown keys are ignored on load.
type fileFormat struct {
	SSID     string `toml:"ssid"`
	Password string `toml:"password"`
	BSSID    string `toml:"bssid,omitempty"`
}

// Store reads and writes the identity file.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the identity file.
func (s *Store) Path() string {
	return s.path
}

// DefaultPath returns BANDLOCK_CONFIG when set, otherwise
// $XDG_CONFIG_HOME/bandlock/config.toml falling back to ~/.config.
func DefaultPath() (string, error) {
	if p := os.Getenv("BANDLOCK_CONFIG"); p != "" {
		return p, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the identity. A missing file, a malformed file or a missing
// required key all yield an error wrapping ErrConfigInvalid.
func (s *Store) Load() (Identity, error) {
	var f fileFormat
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Identity{}, fmt.Errorf("%w: %s does not exist", ErrConfigInvalid, s.path)
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	bssid, err := radio.ParseBSSID(f.BSSID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bssid %q: %v", ErrConfigInvalid, f.BSSID, err)
	}

	id := Identity{Name: f.SSID, Password: f.Password, BSSID: bssid}
	if err := id.Validate(); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Save replaces the stored identity. The file holds a plaintext password so
// it is written owner-only (0600); the parent directory is created if needed.
func (s *Store) Save(id Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+fileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	f := fileFormat{
		SSID:     id.Name,
		Password: id.Password,
		BSSID:    radio.FormatBSSID(id.BSSID),
	}
	if err := toml.NewEncoder(tmp).Encode(f); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
