package views

import (
	"fmt"
	"strings"

	"github.com/ramborogers/bandlock/band"
	"github.com/ramborogers/bandlock/lock"
)

// StatusView renders a one-shot snapshot of the wireless link
type StatusView struct {
	styles   *Styles
	snapshot lock.Snapshot
}

// NewStatusView creates a new status view
func NewStatusView(styles *Styles) *StatusView {
	return &StatusView{styles: styles}
}

// SetSnapshot updates the snapshot being displayed
func (v *StatusView) SetSnapshot(s lock.Snapshot) {
	v.snapshot = s
}

// Render generates the view
func (v *StatusView) Render() string {
	s := v.snapshot
	value := v.styles.Value.Render

	ssid := s.SSID
	if !s.Connected {
		ssid = "not connected"
	} else if ssid == "" {
		ssid = "(hidden)"
	}
	bssid := s.BSSID
	if bssid == "" {
		bssid = "unknown"
	}
	gw := s.Gateway
	if gw == "" {
		gw = "Not detected"
	}

	var bandText string
	switch band.Classify(s.Channel) {
	case band.FiveGHz:
		bandText = v.styles.Good.Render(s.Band)
	case band.TwoPointFourGHz:
		bandText = v.styles.Warn.Render(s.Band)
	default:
		bandText = v.styles.Muted.Render(s.Band)
	}

	rows := []string{
		v.styles.Row("Network", value(ssid)),
		v.styles.Row("Band", bandText),
		v.styles.Row("Channel", value(fmt.Sprintf("%d", s.Channel))),
		v.styles.Row("BSSID", value(bssid)),
		v.styles.Row("RSSI", value(fmt.Sprintf("%d dBm", s.Signal))),
		v.styles.Row("Link speed", value(fmt.Sprintf("%d Mbps", s.Rate))),
		v.styles.Row("Interface", value(s.Interface)),
		v.styles.Row("Gateway", value(gw)),
	}

	return v.styles.Box.Render(strings.Join(rows, "\n"))
}
