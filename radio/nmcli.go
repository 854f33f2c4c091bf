package radio

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
)

// runFunc executes an external command, feeding it stdin, and returns its
// standard output.
type runFunc func(stdin string, name string, args ...string) ([]byte, error)

// NMCLI drives NetworkManager through its command line client.
type NMCLI struct {
	iface string
	run   runFunc
}

// NewNMCLI returns a gateway bound to the named Wi-Fi device. When iface is
// empty the first Wi-Fi device NetworkManager reports is used.
func NewNMCLI(iface string) (*NMCLI, error) {
	return newNMCLI(iface, execRun)
}

func newNMCLI(iface string, run runFunc) (*NMCLI, error) {
	n := &NMCLI{run: run}
	device, err := n.findDevice(iface)
	if err != nil {
		return nil, err
	}
	n.iface = device
	log.Printf("DEBUG: using Wi-Fi device %s", device)
	return n, nil
}

// Interface returns the device name the gateway is bound to.
func (n *NMCLI) Interface() string {
	return n.iface
}

func execRun(stdin string, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%v: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, err
	}
	return out, nil
}

func (n *NMCLI) findDevice(want string) (string, error) {
	out, err := n.run("", "nmcli", "-t", "-f", "DEVICE,TYPE,STATE", "device", "status")
	if err != nil {
		return "", fmt.Errorf("%w: nmcli device status: %v", ErrInterfaceUnavailable, err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		fields := splitTerse(line)
		if len(fields) < 2 || fields[1] != "wifi" {
			continue
		}
		if want == "" || fields[0] == want {
			return fields[0], nil
		}
	}

	if want != "" {
		return "", fmt.Errorf("%w: %s is not a Wi-Fi device", ErrInterfaceUnavailable, want)
	}
	return "", ErrInterfaceUnavailable
}

// CurrentAssociation reports what the device is associated with right now.
// The cached scan list is read without triggering a rescan.
func (n *NMCLI) CurrentAssociation() (Association, error) {
	out, err := n.run("", "nmcli", "-t", "-f", "IN-USE,SSID,BSSID,CHAN,SIGNAL,RATE",
		"device", "wifi", "list", "ifname", n.iface, "--rescan", "no")
	if err != nil {
		return Association{}, fmt.Errorf("%w: %v", ErrInterfaceUnavailable, err)
	}

	assoc := Association{Interface: n.iface}
	for _, line := range strings.Split(string(out), "\n") {
		fields := splitTerse(line)
		if len(fields) < 6 || fields[0] != "*" {
			continue
		}
		assoc.SSID = parseSSID(fields[1])
		assoc.BSSID, _ = ParseBSSID(fields[2])
		assoc.Channel = parseInt(fields[3])
		assoc.Signal = percentToDBm(parseInt(fields[4]))
		assoc.Rate = parseRate(fields[5])
		break
	}
	return assoc, nil
}

// Scan asks NetworkManager for a fresh scan and returns the visible radios in
// the order nmcli lists them.
func (n *NMCLI) Scan(includeHidden bool) ([]Network, error) {
	out, err := n.run("", "nmcli", "-t", "-f", "SSID,BSSID,CHAN,SIGNAL",
		"device", "wifi", "list", "ifname", n.iface, "--rescan", "yes")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	networks := parseScan(string(out), includeHidden)
	log.Printf("DEBUG: scan on %s returned %d networks", n.iface, len(networks))
	return networks, nil
}

// Associate joins target using cred. Hidden targets are joined by name with
// the BSSID pinned. The password is answered on stdin to nmcli's --ask
// prompt so it never shows up in the process list.
func (n *NMCLI) Associate(target Network, cred Credential) error {
	ssid := cred.SSID
	if ssid == "" {
		ssid = target.SSID
	}
	if ssid == "" && !target.HasBSSID() {
		return fmt.Errorf("%w: target has neither SSID nor BSSID", ErrAssociationFailed)
	}
	if ssid == "" {
		ssid = FormatBSSID(target.BSSID)
	}

	args := []string{"--ask", "device", "wifi", "connect", ssid, "ifname", n.iface}
	if target.HasBSSID() {
		args = append(args, "bssid", FormatBSSID(target.BSSID))
	}
	if target.Hidden() {
		args = append(args, "hidden", "yes")
	}

	log.Printf("DEBUG: nmcli device wifi connect %s ifname %s bssid %s", ssid, n.iface, FormatBSSID(target.BSSID))
	if _, err := n.run(cred.Password+"\n", "nmcli", args...); err != nil {
		return fmt.Errorf("%w: %v", ErrAssociationFailed, err)
	}
	return nil
}

func parseScan(out string, includeHidden bool) []Network {
	var networks []Network
	for _, line := range strings.Split(out, "\n") {
		fields := splitTerse(line)
		if len(fields) < 4 {
			continue
		}
		bssid, err := ParseBSSID(fields[1])
		if err != nil {
			log.Printf("DEBUG: ignoring malformed BSSID %q: %v", fields[1], err)
		}
		nw := Network{
			SSID:    parseSSID(fields[0]),
			BSSID:   bssid,
			Channel: parseInt(fields[2]),
			Signal:  percentToDBm(parseInt(fields[3])),
		}
		if nw.Hidden() && !includeHidden {
			continue
		}
		networks = append(networks, nw)
	}
	return networks
}

// splitTerse splits one line of nmcli terse output. Field separators are
// colons; literal colons and backslashes inside values are escaped.
func splitTerse(line string) []string {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return nil
	}

	var fields []string
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, cur.String())
}

func parseSSID(s string) string {
	if s == "--" {
		return ""
	}
	return s
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// parseRate reads values like "540 Mbit/s".
func parseRate(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return int(v)
}

// percentToDBm maps NetworkManager's 0-100 signal quality onto dBm.
func percentToDBm(pct int) int {
	if pct <= 0 {
		return -100
	}
	if pct > 100 {
		pct = 100
	}
	return pct/2 - 100
}
