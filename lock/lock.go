// Package lock runs one bandlock invocation: load the identity, read the
// radio, decide, and act at most once. Retrying is left to whoever runs
// bandlock again.
package lock

import (
	"errors"
	"fmt"

	"github.com/ramborogers/bandlock/band"
	"github.com/ramborogers/bandlock/engine"
	"github.com/ramborogers/bandlock/eventlog"
	"github.com/ramborogers/bandlock/identity"
	"github.com/ramborogers/bandlock/radio"
)

// State is a step of a reconnection run.
type State int

const (
	Idle State = iota
	Loaded
	Scanned
	Decided
	Associated
	NotFound
	NoOpTerminal
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Scanned:
		return "scanned"
	case Decided:
		return "decided"
	case Associated:
		return "associated"
	case NotFound:
		return "not-found"
	case NoOpTerminal:
		return "noop"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Opener connects to the wireless driver. It is called only after the
// identity has loaded.
type Opener func() (radio.Gateway, error)

// Outcome is where a run stopped and what it decided.
type Outcome struct {
	State  State
	Action engine.Action
}

// Guidance shown when the router hides or steers away from its 5GHz radio.
var (
	SteeringTip = "Tip: temporarily disable 2.4GHz on your router, then re-enable it."

	SteeringWorkaround = []string{
		"Your router may hide the 5GHz BSSID via band steering.",
		"",
		"Try this workaround:",
		"  1. Temporarily disable 2.4GHz on your router",
		"  2. Run 'bandlock setup' again",
		"  3. Re-enable 2.4GHz, the router will remember your band preference",
	}

	ScanRemediation = []string{
		"Make sure NetworkManager is running and allowed to scan:",
		"  nmcli general permissions   (org.freedesktop.NetworkManager.wifi.scan should be 'yes')",
		"  nmcli radio wifi on",
	}
)

// Reconnect performs one reconnection attempt. Errors wrap
// identity.ErrConfigInvalid, radio.ErrInterfaceUnavailable,
// radio.ErrScanFailed or radio.ErrAssociationFailed; every one of them has
// already been written to elog. NotFound is not an error.
func Reconnect(store *identity.Store, open Opener, elog *eventlog.Log) (Outcome, error) {
	out := Outcome{State: Idle}
	elog.Printf("bandlock: connecting to 5GHz")

	id, err := store.Load()
	if err != nil {
		if errors.Is(err, identity.ErrConfigInvalid) {
			elog.Printf("No config found. Run 'bandlock setup' first.")
			elog.Printf("Config expected at: %s (%v)", store.Path(), err)
		}
		return out, err
	}
	out.State = Loaded

	gw, err := open()
	if err != nil {
		elog.Printf("No WiFi interface found: %v", err)
		return out, err
	}

	current, err := gw.CurrentAssociation()
	if err != nil {
		elog.Printf("Could not read the current association: %v", err)
		return out, err
	}
	ssid := current.SSID
	if ssid == "" {
		ssid = "none"
	}
	elog.Printf("Current: channel %d (%s), SSID: %s", current.Channel, band.Classify(current.Channel), ssid)

	if engine.Satisfied(current, id) {
		out.Action = engine.Decide(current, id, nil)
		out.State = NoOpTerminal
		elog.Printf("Already on 5GHz, nothing to do!")
		return out, nil
	}

	elog.Printf("Scanning for 5GHz radio...")
	scan, err := gw.Scan(true)
	if err != nil {
		elog.Printf("Error: %v", err)
		for _, line := range ScanRemediation {
			elog.Printf("%s", line)
		}
		return out, err
	}
	out.State = Scanned

	out.Action = engine.Decide(current, id, scan)
	out.State = Decided

	switch out.Action.Kind {
	case engine.NoOp:
		out.State = NoOpTerminal
		return out, nil
	case engine.NotFound:
		out.State = NotFound
		elog.Printf("5GHz radio not found for '%s'.", id.Name)
		if out.Action.PreferredConfigured {
			elog.Printf("BSSID %s not visible, router may be hiding it.", radio.FormatBSSID(id.BSSID))
		}
		elog.Printf("%s", SteeringTip)
		return out, nil
	}

	target := out.Action.Target
	elog.Printf("Found: Ch %d, BSSID: %s, RSSI: %d dBm", target.Channel, bssidOrUnknown(target), target.Signal)
	elog.Printf("Connecting...")
	if err := gw.Associate(target, id.Credential()); err != nil {
		elog.Printf("Error: %v", err)
		return out, err
	}
	out.State = Associated
	elog.Printf("Connected to 5GHz on channel %d!", target.Channel)
	return out, nil
}

func bssidOrUnknown(n radio.Network) string {
	if !n.HasBSSID() {
		return "??"
	}
	return radio.FormatBSSID(n.BSSID)
}
