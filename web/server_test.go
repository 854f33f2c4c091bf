package web

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ramborogers/bandlock/lock"
	"github.com/ramborogers/bandlock/radio"
)

type fakeGateway struct {
	current radio.Association
	err     error
}

func (f *fakeGateway) CurrentAssociation() (radio.Association, error) {
	return f.current, f.err
}

func (f *fakeGateway) Scan(bool) ([]radio.Network, error) {
	return nil, errors.New("scan not expected")
}

func (f *fakeGateway) Associate(radio.Network, radio.Credential) error {
	return errors.New("associate not expected")
}

func connected() *fakeGateway {
	return &fakeGateway{current: radio.Association{
		Interface: "wlan0",
		SSID:      "Home",
		BSSID:     net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		Channel:   149,
		Signal:    -48,
		Rate:      866,
	}}
}

func TestStatusJSON(t *testing.T) {
	s := NewServer(connected(), 0, "", "test", time.Second)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var snap lock.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if snap.SSID != "Home" || snap.Band != "5GHz" || snap.Channel != 149 {
		t.Errorf("Unexpected snapshot: %+v", snap)
	}
	if snap.BSSID != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Expected formatted BSSID, got %q", snap.BSSID)
	}
}

func TestStatusUnavailable(t *testing.T) {
	gw := &fakeGateway{err: radio.ErrInterfaceUnavailable}
	s := NewServer(gw, 0, "", "test", time.Second)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/status", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("Expected error body, got %q", rec.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	s := NewServer(connected(), 0, "secret", "test", time.Second)
	h := s.Handler()

	tests := []struct {
		path string
		want int
	}{
		{"/api/status", http.StatusUnauthorized},
		{"/api/status?auth=wrong", http.StatusUnauthorized},
		{"/metrics", http.StatusUnauthorized},
		{"/ws", http.StatusUnauthorized},
		{"/api/status?auth=secret", http.StatusOK},
		{"/metrics?auth=secret", http.StatusOK},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.want, rec.Code)
		}
	}
}

func TestMetrics(t *testing.T) {
	s := NewServer(connected(), 0, "", "test", time.Second)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	out := string(body)

	for _, want := range []string{
		"bandlock_up 1",
		`bandlock_on_5ghz{interface="wlan0"} 1`,
		`bandlock_link_channel{band="5GHz",interface="wlan0"} 149`,
		`bandlock_link_signal_dbm{interface="wlan0"} -48`,
		`bandlock_link_rate_mbps{interface="wlan0"} 866`,
		`bandlock_link_info{bssid="AA:BB:CC:DD:EE:FF",interface="wlan0",ssid="Home"} 1`,
		"bandlock_scrapes_total 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected metrics to contain %q\n%s", want, out)
		}
	}
}

func TestMetricsDown(t *testing.T) {
	s := NewServer(&fakeGateway{err: radio.ErrInterfaceUnavailable}, 0, "", "test", time.Second)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	out := rec.Body.String()
	if !strings.Contains(out, "bandlock_up 0") {
		t.Errorf("Expected bandlock_up 0, got\n%s", out)
	}
	if strings.Contains(out, "bandlock_link_channel") {
		t.Errorf("Expected no link metrics when the interface is down")
	}
}

func TestWebSocketInitialStatus(t *testing.T) {
	s := NewServer(connected(), 0, "secret", "v1", time.Hour)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?auth=secret"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	var msg struct {
		Type    string        `json:"type"`
		Version string        `json:"version"`
		Status  lock.Snapshot `json:"status"`
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if msg.Type != "status" || msg.Version != "v1" || msg.Status.SSID != "Home" {
		t.Errorf("Unexpected message: %+v", msg)
	}
}

func TestNewServerNonPositiveInterval(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		s := NewServer(connected(), 0, "", "test", d)
		if s.interval != DefaultInterval {
			t.Errorf("NewServer(%s): expected interval %s, got %s", d, DefaultInterval, s.interval)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			s.broadcastLoop()
		}()
		close(s.stopChan)
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("broadcastLoop did not stop")
		}
	}
}
