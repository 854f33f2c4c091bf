package radio

import "testing"

func TestNormalizeBSSID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"aa:bb:cc:dd:ee:ff", "AA:BB:CC:DD:EE:FF"},
		{"a:b:c:d:e:f", "0A:0B:0C:0D:0E:0F"},
		{"AA-BB-CC-DD-EE-FF", "AA:BB:CC:DD:EE:FF"},
		{"aabb.ccdd.eeff", "AA:BB:CC:DD:EE:FF"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeBSSID(tt.in); got != tt.want {
			t.Errorf("NormalizeBSSID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseBSSID(t *testing.T) {
	addr, err := ParseBSSID("a:b:c:d:e:f")
	if err != nil {
		t.Fatalf("ParseBSSID failed: %v", err)
	}
	if FormatBSSID(addr) != "0A:0B:0C:0D:0E:0F" {
		t.Errorf("Unexpected address %s", FormatBSSID(addr))
	}

	for _, empty := range []string{"", "  ", "--"} {
		addr, err := ParseBSSID(empty)
		if err != nil || addr != nil {
			t.Errorf("ParseBSSID(%q) = %v, %v; want nil, nil", empty, addr, err)
		}
	}

	if _, err := ParseBSSID("not-a-mac"); err == nil {
		t.Error("Expected error for malformed BSSID")
	}
}

func TestNetworkMatchesBSSID(t *testing.T) {
	a, _ := ParseBSSID("AA:BB:CC:DD:EE:01")
	b, _ := ParseBSSID("aa:bb:cc:dd:ee:01")
	c, _ := ParseBSSID("AA:BB:CC:DD:EE:02")

	n := Network{SSID: "Home", BSSID: a}
	if !n.MatchesBSSID(b) {
		t.Error("Expected case-insensitive BSSID match")
	}
	if n.MatchesBSSID(c) {
		t.Error("Expected mismatch for different BSSID")
	}
	if n.MatchesBSSID(nil) {
		t.Error("Expected nil address never to match")
	}
	if (Network{}).MatchesBSSID(nil) {
		t.Error("Expected absent BSSIDs never to match")
	}
}
