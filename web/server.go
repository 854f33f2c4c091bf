// Package web serves the live status of the Wi-Fi link over HTTP: a JSON
// snapshot, a websocket stream of snapshots and Prometheus metrics. It only
// ever reads the radio.
package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ramborogers/bandlock/lock"
	"github.com/ramborogers/bandlock/radio"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorWhite  = "\033[37m"
)

// Server represents the status web server
type Server struct {
	port         int
	upgrader     websocket.Upgrader
	clients      map[*websocket.Conn]bool
	clientsMutex sync.RWMutex
	writeMutex   sync.Map // Per-connection write mutex
	gw           radio.Gateway
	gwMutex      sync.Mutex
	authToken    string
	version      string
	interval     time.Duration
	registry     *prometheus.Registry
	stopChan     chan struct{}
}

// DefaultInterval is used when NewServer is given a non-positive interval.
const DefaultInterval = 5 * time.Second

// NewServer creates a new status server. An empty authToken disables
// authentication.
func NewServer(gw radio.Gateway, port int, authToken, version string, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Server{
		port:      port,
		upgrader:  websocket.Upgrader{},
		clients:   make(map[*websocket.Conn]bool),
		gw:        gw,
		authToken: authToken,
		version:   version,
		interval:  interval,
		registry:  prometheus.NewRegistry(),
		stopChan:  make(chan struct{}),
	}
	s.registry.MustRegister(NewCollector(s.snapshot))
	return s
}

// snapshot serializes radio reads; nmcli calls from concurrent requests
// would otherwise race each other.
func (s *Server) snapshot() (lock.Snapshot, error) {
	s.gwMutex.Lock()
	defer s.gwMutex.Unlock()
	return lock.TakeSnapshot(s.gw)
}

// authenticateRequest checks if the request has a valid auth token
func (s *Server) authenticateRequest(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}
	return r.URL.Query().Get("auth") == s.authToken
}

func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticateRequest(r) {
			log.Printf("%s[DENIED]%s Access attempt from %s - Invalid token%s",
				colorRed, colorWhite, clientAddr(r), colorReset)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.authMiddleware(s.handleStatus))
	mux.HandleFunc("/ws", s.authMiddleware(s.handleWebSocket))
	mux.Handle("/metrics", s.authMiddleware(
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP))
	return mux
}

// Start serves until the listener fails, pushing a status update to every
// websocket client each interval.
func (s *Server) Start() error {
	go s.broadcastLoop()
	defer close(s.stopChan)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Status server listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.clientCount() == 0 {
				continue
			}
			s.BroadcastUpdate(s.statusMessage())
		case <-s.stopChan:
			return
		}
	}
}

func (s *Server) clientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

func (s *Server) statusMessage() map[string]interface{} {
	snap, err := s.snapshot()
	if err != nil {
		return map[string]interface{}{
			"type":  "error",
			"error": err.Error(),
		}
	}
	return map[string]interface{}{
		"type":    "status",
		"version": s.version,
		"status":  snap,
	}
}

// handleStatus serves a single snapshot as JSON
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		log.Printf("Error reading Wi-Fi status: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Printf("Error encoding status: %v", err)
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := clientAddr(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("%s[WS-ERROR]%s WebSocket upgrade failed from %s: %v%s",
			colorRed, colorWhite, clientIP, err, colorReset)
		return
	}
	defer conn.Close()

	log.Printf("%s[WS-CONNECT]%s New WebSocket connection from %s%s",
		colorGreen, colorWhite, clientIP, colorReset)

	s.clientsMutex.Lock()
	s.clients[conn] = true
	s.clientsMutex.Unlock()

	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.writeMutex.Delete(conn)
		s.clientsMutex.Unlock()
		log.Printf("%s[WS-DISCONNECT]%s Client disconnected: %s%s",
			colorYellow, colorWhite, clientIP, colorReset)
	}()

	// Send the current status right away
	s.writeJSON(conn, s.statusMessage())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func (s *Server) writeJSON(conn *websocket.Conn, v interface{}) error {
	mutex, _ := s.writeMutex.LoadOrStore(conn, &sync.Mutex{})
	writeMutex := mutex.(*sync.Mutex)

	writeMutex.Lock()
	defer writeMutex.Unlock()
	return conn.WriteJSON(v)
}

// BroadcastUpdate sends an update to all connected WebSocket clients
func (s *Server) BroadcastUpdate(update interface{}) {
	s.clientsMutex.RLock()
	var failed []*websocket.Conn
	for client := range s.clients {
		if err := s.writeJSON(client, update); err != nil {
			log.Printf("Failed to send update to client: %v", err)
			failed = append(failed, client)
		}
	}
	s.clientsMutex.RUnlock()

	if len(failed) == 0 {
		return
	}
	s.clientsMutex.Lock()
	for _, client := range failed {
		delete(s.clients, client)
		s.writeMutex.Delete(client)
		client.Close()
	}
	s.clientsMutex.Unlock()
}
