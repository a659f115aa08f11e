package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/wxmodem/retroterm/internal/bbsdir"
)

// configResponse is a deliberately minimal, public-safe view of server
// configuration, matching the teacher's stateless ConfigResponse.
type configResponse struct {
	ScrollbackMaxLines int  `json:"scrollbackMaxLines"`
	LineWrap           bool `json:"lineWrap"`
	Assume80Columns    bool `json:"assume80Columns"`
}

func (h *Hub) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := configResponse{}
	if h.Config != nil {
		resp.ScrollbackMaxLines = h.Config.Emulation.ScrollbackMaxLines
		resp.LineWrap = h.Config.Emulation.LineWrap
		resp.Assume80Columns = h.Config.Emulation.Assume80Columns
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Hub) handleGetBBSDirectory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if h.BBSDir == nil {
		json.NewEncoder(w).Encode([]bbsdir.Entry{})
		return
	}
	entries, err := h.BBSDir.Entries()
	if err != nil {
		json.NewEncoder(w).Encode([]bbsdir.Entry{})
		return
	}
	json.NewEncoder(w).Encode(entries)
}

// handleImportBBSGuide accepts a raw "Telnet BBS Guide" text dump, parses
// it, and regenerates bbs.csv as the single source of truth, matching the
// teacher's directory_handlers.go.
func (h *Hub) handleImportBBSGuide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		http.Error(w, "no data provided", http.StatusBadRequest)
		return
	}

	entries := bbsdir.ParseGuide(string(body))
	if len(entries) == 0 {
		http.Error(w, "no entries parsed", http.StatusBadRequest)
		return
	}

	if h.BBSDir == nil {
		http.Error(w, "bbs directory not configured", http.StatusInternalServerError)
		return
	}
	if err := bbsdir.WriteCSV(h.BBSCSVPath, entries); err != nil {
		http.Error(w, "failed to write bbs directory", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "count": len(entries)})
}

func (h *Hub) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if h.Capture == nil {
		json.NewEncoder(w).Encode([]any{})
		return
	}
	infos, err := h.Capture.List()
	if err != nil {
		json.NewEncoder(w).Encode([]any{})
		return
	}
	json.NewEncoder(w).Encode(infos)
}

func (h *Hub) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/captures/")
	if name == "" || h.Capture == nil {
		http.NotFound(w, r)
		return
	}
	data, err := h.Capture.Get(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}
