package engine

import (
	"errors"
	"net"
	"sort"

	"github.com/ramborogers/bandlock/band"
	"github.com/ramborogers/bandlock/radio"
)

// ErrEmptyTarget is returned when discovery is asked to look for no name.
var ErrEmptyTarget = errors.New("network name must not be empty")

// Discovery is what setup learned from one scan.
type Discovery struct {
	// Matches are 5GHz radios broadcasting the target name, in scan order.
	Matches []radio.Network
	// AllFiveGHz lists every 5GHz radio by ascending channel. It is only
	// filled when Matches is empty, so an operator can spot their router.
	AllFiveGHz []radio.Network
}

// PreferredBSSID returns the BSSID of the first match, or nil.
func (d Discovery) PreferredBSSID() net.HardwareAddr {
	if len(d.Matches) == 0 {
		return nil
	}
	return d.Matches[0].BSSID
}

// Discover classifies a scan for setup. It never selects a radio from
// AllFiveGHz; that list is informational.
func Discover(targetName string, scan []radio.Network) (Discovery, error) {
	if targetName == "" {
		return Discovery{}, ErrEmptyTarget
	}

	// 5GHz radios that either carry the name or at least expose a BSSID,
	// which keeps hidden-SSID radios on the right band in view.
	var candidates []radio.Network
	for _, n := range scan {
		if band.IsFiveGHz(n.Channel) && (n.SSID == targetName || n.HasBSSID()) {
			candidates = append(candidates, n)
		}
	}

	var d Discovery
	for _, n := range candidates {
		if n.SSID == targetName {
			d.Matches = append(d.Matches, n)
		}
	}
	if len(d.Matches) > 0 {
		return d, nil
	}

	for _, n := range scan {
		if band.IsFiveGHz(n.Channel) {
			d.AllFiveGHz = append(d.AllFiveGHz, n)
		}
	}
	sort.SliceStable(d.AllFiveGHz, func(i, j int) bool {
		return d.AllFiveGHz[i].Channel < d.AllFiveGHz[j].Channel
	})
	return d, nil
}
