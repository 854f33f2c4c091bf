package radio

import (
	"net"
	"regexp"
	"strings"
)

var bssidPattern = regexp.MustCompile(`([0-9A-Fa-f]{1,2}[:-]){5}([0-9A-Fa-f]{1,2})`)

// NormalizeBSSID converts a hardware address to upper-case colon notation.
// Leading zeros dropped by some tools ("a:b:c:d:e:f") are restored.
func NormalizeBSSID(mac string) string {
	mac = strings.TrimSpace(mac)
	if mac == "" {
		return ""
	}

	sep := ":"
	if !strings.Contains(mac, ":") && strings.Contains(mac, "-") {
		sep = "-"
	}

	parts := strings.Split(mac, sep)
	if len(parts) == 6 {
		for i, p := range parts {
			if len(p) == 1 {
				parts[i] = "0" + p
			}
		}
		return strings.ToUpper(strings.Join(parts, ":"))
	}

	// No usable separators: insert colons every 2 characters
	mac = strings.ToUpper(mac)
	mac = strings.ReplaceAll(mac, ":", "")
	mac = strings.ReplaceAll(mac, "-", "")
	mac = strings.ReplaceAll(mac, ".", "")

	var result strings.Builder
	for i, char := range mac {
		if i > 0 && i%2 == 0 {
			result.WriteRune(':')
		}
		result.WriteRune(char)
	}
	return result.String()
}

// ParseBSSID parses a hardware address in any notation NormalizeBSSID
// understands. An empty string yields a nil address and no error.
func ParseBSSID(s string) (net.HardwareAddr, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return nil, nil
	}
	if m := bssidPattern.FindString(s); m != "" {
		s = m
	}
	return net.ParseMAC(NormalizeBSSID(s))
}

// FormatBSSID renders addr in upper-case colon notation, or "" when absent.
func FormatBSSID(addr net.HardwareAddr) string {
	if len(addr) == 0 {
		return ""
	}
	return strings.ToUpper(addr.String())
}
