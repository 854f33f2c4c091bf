// Package radio abstracts the host's wireless interface: reading the current
// association, scanning for visible radios and associating with one of them.
package radio

import (
	"bytes"
	"errors"
	"net"
)

var (
	// ErrInterfaceUnavailable means no wireless hardware or driver was found.
	ErrInterfaceUnavailable = errors.New("no Wi-Fi interface found")
	// ErrScanFailed means the driver refused or failed to scan.
	ErrScanFailed = errors.New("scan failed")
	// ErrAssociationFailed means the driver rejected the credential or the
	// radio vanished while associating.
	ErrAssociationFailed = errors.New("association failed")
)

// Network is a single radio observed in a scan
type Network struct {
	SSID    string           // empty for hidden networks
	BSSID   net.HardwareAddr // nil when the driver did not report one
	Channel int              // 0 when unknown
	Signal  int              // dBm
}

// Hidden reports whether the radio does not broadcast its name.
func (n Network) Hidden() bool {
	return n.SSID == ""
}

// HasBSSID reports whether the radio's hardware address is known.
func (n Network) HasBSSID() bool {
	return len(n.BSSID) > 0
}

// MatchesBSSID reports whether the radio's hardware address equals addr.
func (n Network) MatchesBSSID(addr net.HardwareAddr) bool {
	return n.HasBSSID() && len(addr) > 0 && bytes.Equal(n.BSSID, addr)
}

// Association is the live status of the wireless interface
type Association struct {
	Interface string
	SSID      string // empty when not associated
	BSSID     net.HardwareAddr
	Channel   int
	Signal    int // dBm
	Rate      int // Mbit/s
}

// Connected reports whether the interface is associated with any network.
func (a Association) Connected() bool {
	return a.SSID != "" || len(a.BSSID) > 0
}

// Credential is what the driver needs to join a network.
type Credential struct {
	SSID     string
	Password string
}

// Gateway is the set of operations bandlock needs from the wireless driver.
// All calls block until the driver answers.
type Gateway interface {
	CurrentAssociation() (Association, error)
	Scan(includeHidden bool) ([]Network, error)
	Associate(target Network, cred Credential) error
}
