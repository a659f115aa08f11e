// Package server bridges browser websocket sessions to remote BBS hosts,
// running each session's bytes through the internal/term emulator core and
// shipping the resulting Screen back as structured Frames rather than
// forwarding raw ANSI bytes for a client-side emulator to reinterpret.
// Adapted from the teacher's main.go/api.go, which served exactly this role
// but for a plain net/http + xterm.js pairing.
package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wxmodem/retroterm/internal/bbsdir"
	"github.com/wxmodem/retroterm/internal/capture"
	"github.com/wxmodem/retroterm/internal/config"
	"github.com/wxmodem/retroterm/internal/transport"
)

// Hub owns the state shared by every session: configuration, the curated
// BBS allowlist, and the capture subsystem. One Hub serves the whole
// process, mirroring the teacher's package-level globals but collected
// into a value that can be constructed and tested without a running server.
type Hub struct {
	Config  *config.Config
	BBSDir  *bbsdir.Cache
	Capture *capture.Manager

	// BBSCSVPath is the file BBSDir was built from; re-imports overwrite it.
	BBSCSVPath string

	upgrader websocket.Upgrader
}

// NewHub wires a Hub from a loaded configuration, a BBS directory cache and
// a capture manager (either may be nil: an empty directory and disabled
// capture respectively). csvPath is the backing file for dir, used when
// re-importing a guide dump.
func NewHub(cfg *config.Config, dir *bbsdir.Cache, cap *capture.Manager, csvPath string) *Hub {
	return &Hub{
		Config:     cfg,
		BBSDir:     dir,
		Capture:    cap,
		BBSCSVPath: csvPath,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients only; this bridge isn't meant to be embedded
			// cross-origin, but the teacher never restricted this either.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes registers the HTTP handlers on mux: the websocket endpoint, the
// public config/BBS-directory JSON endpoints, and a static file server for
// the browser frontend, mirroring the teacher's setupRoutes.
func (h *Hub) Routes(mux *http.ServeMux, staticDir string) {
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/api/config", h.handleGetConfig)
	mux.HandleFunc("/api/bbs-directory", h.handleGetBBSDirectory)
	mux.HandleFunc("/api/import-bbs-guide", h.handleImportBBSGuide)
	mux.HandleFunc("/api/captures", h.handleListCaptures)
	mux.HandleFunc("/api/captures/", h.handleGetCapture)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found"}`))
	})

	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
}

// approvedBBSList returns the current curated allowlist as BBSInfo values,
// refreshing from disk if the cache's mtime has moved.
func (h *Hub) approvedBBSList() []BBSInfo {
	if h.BBSDir == nil {
		return nil
	}
	entries, err := h.BBSDir.Entries()
	if err != nil {
		log.Printf("bbs directory refresh failed: %v", err)
		return nil
	}
	out := make([]BBSInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, BBSInfo{
			ID:          e.ID,
			Name:        e.Name,
			Host:        e.Host,
			Port:        e.Port,
			Protocol:    strings.ToLower(e.Protocol),
			Description: e.Description,
			Encoding:    e.Encoding,
			Location:    e.Location,
		})
	}
	return out
}

func (h *Hub) isApproved(host string, port int, protocol string) bool {
	for _, bbs := range h.approvedBBSList() {
		if strings.EqualFold(bbs.Host, host) && bbs.Port == port && strings.EqualFold(bbs.Protocol, protocol) {
			return true
		}
	}
	return false
}

func (h *Hub) proxyConfig() transport.ProxyConfig {
	if h.Config == nil {
		return transport.ProxyConfig{}
	}
	return transport.ProxyConfig{
		Enabled:  h.Config.Proxy.Enabled,
		Type:     h.Config.Proxy.Type,
		Host:     h.Config.Proxy.Host,
		Port:     h.Config.Proxy.Port,
		Username: h.Config.Proxy.Username,
		Password: h.Config.Proxy.Password,
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	client := newClient(h, conn)
	client.run()
}

const pingInterval = 30 * time.Second
const readTimeout = 180 * time.Second
