package lock

import (
	"log"
	"time"

	"github.com/jackpal/gateway"
	"github.com/ramborogers/bandlock/band"
	"github.com/ramborogers/bandlock/radio"
)

// discoverGateway is replaced in tests.
var discoverGateway = gateway.DiscoverGateway

// Snapshot is a read-only view of the wireless link
type Snapshot struct {
	Interface string    `json:"interface"`
	Connected bool      `json:"connected"`
	SSID      string    `json:"ssid"`
	BSSID     string    `json:"bssid"`
	Band      string    `json:"band"`
	Channel   int       `json:"channel"`
	Signal    int       `json:"rssi_dbm"`
	Rate      int       `json:"rate_mbps"`
	Gateway   string    `json:"gateway"`
	Taken     time.Time `json:"taken"`
}

// OnFiveGHz reports whether the snapshot shows a 5GHz association.
func (s Snapshot) OnFiveGHz() bool {
	return s.Connected && band.IsFiveGHz(s.Channel)
}

// TakeSnapshot reads the current association and the default gateway.
// A missing default route is not an error.
func TakeSnapshot(gw radio.Gateway) (Snapshot, error) {
	assoc, err := gw.CurrentAssociation()
	if err != nil {
		return Snapshot{}, err
	}

	s := Snapshot{
		Interface: assoc.Interface,
		Connected: assoc.Connected(),
		SSID:      assoc.SSID,
		BSSID:     radio.FormatBSSID(assoc.BSSID),
		Band:      band.Classify(assoc.Channel).String(),
		Channel:   assoc.Channel,
		Signal:    assoc.Signal,
		Rate:      assoc.Rate,
		Taken:     time.Now(),
	}

	if ip, err := discoverGateway(); err != nil {
		log.Printf("Error discovering gateway: %v", err)
	} else {
		s.Gateway = ip.String()
	}
	return s, nil
}
