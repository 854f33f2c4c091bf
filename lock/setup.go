package lock

import (
	"errors"

	"github.com/ramborogers/bandlock/engine"
	"github.com/ramborogers/bandlock/identity"
	"github.com/ramborogers/bandlock/radio"
)

// ErrEmptyPassword is returned when setup is given no password.
var ErrEmptyPassword = errors.New("password must not be empty")

// SetupResult is the outcome of a discovery scan.
type SetupResult struct {
	Identity  identity.Identity
	Discovery engine.Discovery
}

// Locked reports whether a BSSID was discovered and will be pinned.
func (r SetupResult) Locked() bool {
	return r.Identity.HasBSSID()
}

// Setup scans once and builds the identity to persist. Inputs are checked
// before the radio is touched. The caller saves the identity.
func Setup(gw radio.Gateway, name, password string) (SetupResult, error) {
	if name == "" {
		return SetupResult{}, engine.ErrEmptyTarget
	}
	if password == "" {
		return SetupResult{}, ErrEmptyPassword
	}

	scan, err := gw.Scan(true)
	if err != nil {
		return SetupResult{}, err
	}

	d, err := engine.Discover(name, scan)
	if err != nil {
		return SetupResult{}, err
	}

	return SetupResult{
		Identity: identity.Identity{
			Name:     name,
			Password: password,
			BSSID:    d.PreferredBSSID(),
		},
		Discovery: d,
	}, nil
}
