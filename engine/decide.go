// Package engine holds bandlock's decision logic. Everything here is pure:
// callers read the radio state, pass it in, and carry out the result.
package engine

import (
	"fmt"

	"github.com/ramborogers/bandlock/band"
	"github.com/ramborogers/bandlock/identity"
	"github.com/ramborogers/bandlock/radio"
)

// Kind enumerates the outcomes of Decide.
type Kind int

const (
	// NoOp means the host is already on the target network's 5GHz band.
	NoOp Kind = iota
	// Associate means Target should be joined.
	Associate
	// NotFound means no eligible radio was visible.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case NoOp:
		return "noop"
	case Associate:
		return "associate"
	case NotFound:
		return "not-found"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is the result of Decide.
type Action struct {
	Kind Kind
	// Target is the radio to join; set only for Associate.
	Target radio.Network
	// PreferredConfigured records, for NotFound, whether the identity carried
	// a BSSID. It selects the guidance shown to the user.
	PreferredConfigured bool
}

func (a Action) String() string {
	switch a.Kind {
	case Associate:
		return fmt.Sprintf("associate with %s on channel %d", describe(a.Target), a.Target.Channel)
	case NotFound:
		if a.PreferredConfigured {
			return "not found (preferred BSSID not visible)"
		}
		return "not found (no 5GHz broadcast)"
	default:
		return a.Kind.String()
	}
}

// Satisfied reports whether current is already the target network on 5GHz.
func Satisfied(current radio.Association, id identity.Identity) bool {
	return band.IsFiveGHz(current.Channel) && current.SSID == id.Name
}

// Decide picks what to do given the live association, the stored identity
// and a scan. When the host is already satisfied the scan is not consulted
// and may be nil.
//
// Candidates are tried in order, first match wins, scan order preserved:
//  1. the radio whose BSSID equals the stored one, whatever band it reports
//     (drivers misreport channels of non-associated scan entries)
//  2. a 5GHz radio broadcasting the identity's name
func Decide(current radio.Association, id identity.Identity, scan []radio.Network) Action {
	if Satisfied(current, id) {
		return Action{Kind: NoOp}
	}

	if id.HasBSSID() {
		for _, n := range scan {
			if n.MatchesBSSID(id.BSSID) {
				return Action{Kind: Associate, Target: n}
			}
		}
	}

	for _, n := range scan {
		if n.SSID == id.Name && band.IsFiveGHz(n.Channel) {
			return Action{Kind: Associate, Target: n}
		}
	}

	return Action{Kind: NotFound, PreferredConfigured: id.HasBSSID()}
}

func describe(n radio.Network) string {
	name := n.SSID
	if n.Hidden() {
		name = "(hidden)"
	}
	if n.HasBSSID() {
		return fmt.Sprintf("%s [%s]", name, radio.FormatBSSID(n.BSSID))
	}
	return name
}
