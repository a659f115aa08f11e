// Package capture records raw remote byte streams to disk for later replay
// or comparison, adapted from the teacher's capture_manager.go. Listing
// scans the capture directory's metadata files, as the teacher did; in
// addition, each capture is recorded in a small sqlite index
// (internal/capture/index.go) that can be queried by host.
package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Metadata describes one capture session.
type Metadata struct {
	Filename      string    `json:"filename"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime,omitempty"`
	Host          string    `json:"host"`
	Port          int       `json:"port"`
	Protocol      string    `json:"protocol"`
	Charset       string    `json:"charset"`
	BytesCaptured int64     `json:"bytesCaptured"`
}

// Info is the directory-listing view of a capture: file stat plus metadata.
type Info struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Manager owns the capture directory and the currently active capture, if
// any. One Manager is shared by all sessions; captures don't overlap
// because each session runs its own single outbound connection at a time.
type Manager struct {
	mu         sync.RWMutex
	baseDir    string
	activePath string
	metadata   *Metadata
	index      *Index // nil when no sqlite index is configured
}

// NewManager creates the capture directory if needed and returns a Manager.
// index may be nil to run without the sqlite-backed session index.
func NewManager(baseDir string, index *Index) *Manager {
	os.MkdirAll(baseDir, 0755)
	return &Manager{baseDir: baseDir, index: index}
}

// Start begins a new capture session, writing an empty .bin file and a
// sidecar .json metadata file.
func (m *Manager) Start(host string, port int, protocol, charset string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	timestamp := time.Now().Format("20060102_150405")
	sanitizedHost := strings.ReplaceAll(host, ".", "_")
	filename := fmt.Sprintf("%s_%s_%d_%s.bin", timestamp, sanitizedHost, port, charset)
	fullPath := filepath.Join(m.baseDir, filename)

	m.metadata = &Metadata{
		Filename:  filename,
		StartTime: time.Now(),
		Host:      host,
		Port:      port,
		Protocol:  protocol,
		Charset:   charset,
	}
	m.writeMetadataLocked(fullPath)
	m.activePath = fullPath
	os.WriteFile(fullPath, nil, 0644)

	if m.index != nil {
		m.index.Insert(*m.metadata)
	}
	return filename, nil
}

// Write appends data to the active capture.
func (m *Manager) Write(data []byte) error {
	m.mu.RLock()
	path := m.activePath
	m.mu.RUnlock()
	if path == "" {
		return fmt.Errorf("no active capture")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := f.Write(data)
	if err == nil {
		m.mu.Lock()
		if m.metadata != nil {
			m.metadata.BytesCaptured += int64(n)
		}
		m.mu.Unlock()
	}
	return err
}

// Stop closes out the active capture, finalizing its metadata.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activePath == "" {
		return fmt.Errorf("no active capture")
	}
	if m.metadata != nil {
		m.metadata.EndTime = time.Now()
		m.writeMetadataLocked(m.activePath)
		if m.index != nil {
			m.index.Update(*m.metadata)
		}
	}
	m.activePath = ""
	m.metadata = nil
	return nil
}

func (m *Manager) writeMetadataLocked(binPath string) {
	metaPath := strings.TrimSuffix(binPath, ".bin") + ".json"
	if data, err := json.MarshalIndent(m.metadata, "", "  "); err == nil {
		os.WriteFile(metaPath, data, 0644)
	}
}

// List enumerates capture files alongside their metadata, newest-first
// ordering left to the caller.
func (m *Manager) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return nil, err
	}

	var out []Info
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".bin") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		info := Info{Filename: e.Name(), Size: fi.Size(), ModTime: fi.ModTime()}
		metaPath := filepath.Join(m.baseDir, strings.TrimSuffix(e.Name(), ".bin")+".json")
		if data, err := os.ReadFile(metaPath); err == nil {
			var meta Metadata
			if json.Unmarshal(data, &meta) == nil {
				info.Metadata = &meta
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// Get returns a capture's raw bytes, rejecting any filename that could
// escape the capture directory.
func (m *Manager) Get(filename string) ([]byte, error) {
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return nil, fmt.Errorf("invalid filename")
	}
	return os.ReadFile(filepath.Join(m.baseDir, filename))
}

// Delete removes a capture's .bin and .json files, and its index row.
func (m *Manager) Delete(filename string) error {
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("invalid filename")
	}
	binPath := filepath.Join(m.baseDir, filename)
	os.Remove(binPath)
	os.Remove(strings.TrimSuffix(binPath, ".bin") + ".json")
	if m.index != nil {
		m.index.Delete(filename)
	}
	return nil
}

// Latest returns the path of the most recently modified capture file, or
// "" if none exist.
func (m *Manager) Latest() string {
	infos, err := m.List()
	if err != nil || len(infos) == 0 {
		return ""
	}
	best := infos[0]
	for _, i := range infos[1:] {
		if i.ModTime.After(best.ModTime) {
			best = i
		}
	}
	return filepath.Join(m.baseDir, best.Filename)
}
