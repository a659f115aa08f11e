// Package bbsdir loads and caches the curated BBS directory, the CSV-backed
// allowlist the server checks every outbound connection against (adapted
// from the teacher's bbs_directory.go, the same defensive single-source-of-
// truth design).
package bbsdir

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Entry is a single BBS listing parsed from bbs.csv.
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Protocol    string `json:"protocol"`
	Description string `json:"description"`
	Encoding    string `json:"encoding"`
	Software    string `json:"software"`
	Location    string `json:"location"`
	Active      bool   `json:"active"`
}

// LoadFromCSV loads entries from a CSV file with header
// [Name, Software, Telnet Server Address]. Address may be host or host:port;
// a missing port defaults to 23. Malformed rows are skipped rather than
// aborting the whole load.
func LoadFromCSV(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if len(header) < 3 || header[0] != "Name" || header[1] != "Software" || header[2] != "Telnet Server Address" {
		return nil, fmt.Errorf("invalid CSV header format")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, record := range records {
		if len(record) < 3 {
			continue
		}
		name := strings.TrimSpace(record[0])
		software := strings.TrimSpace(record[1])
		address := strings.TrimSpace(record[2])
		if name == "" || address == "" {
			continue
		}

		host := address
		port := 23
		if idx := strings.LastIndex(address, ":"); idx != -1 {
			host = address[:idx]
			if p, err := strconv.Atoi(address[idx+1:]); err == nil {
				port = p
			}
		}

		entries = append(entries, Entry{
			ID:          GenerateSlug(name),
			Name:        name,
			Host:        host,
			Port:        port,
			Protocol:    "telnet",
			Description: name + " BBS",
			Encoding:    "CP437",
			Software:    software,
			Active:      true,
		})
	}
	return entries, nil
}

// Cache memoizes the CSV load keyed on the file's mtime, avoiding a re-parse
// on every directory request.
type Cache struct {
	mu    sync.RWMutex
	path  string
	mtime time.Time
	rows  []Entry
}

// NewCache returns a cache reading from the given CSV path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Entries returns the current directory contents, reloading from disk only
// when the file's mtime has advanced since the last read. The returned
// slice is a defensive copy.
func (c *Cache) Entries() ([]Entry, error) {
	fi, err := os.Stat(c.path)
	if err != nil {
		return nil, err
	}
	mtime := fi.ModTime()

	c.mu.RLock()
	if len(c.rows) > 0 && mtime.Equal(c.mtime) {
		out := make([]Entry, len(c.rows))
		copy(out, c.rows)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	rows, err := LoadFromCSV(c.path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.rows = rows
	c.mtime = mtime
	c.mu.Unlock()

	out := make([]Entry, len(rows))
	copy(out, rows)
	return out, nil
}

// WriteCSV regenerates bbs.csv from a freshly imported entry list, matching
// the header LoadFromCSV expects.
func WriteCSV(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Name", "Software", "Telnet Server Address"}); err != nil {
		return err
	}
	for _, e := range entries {
		addr := e.Host
		if e.Port > 0 {
			addr = addr + ":" + strconv.Itoa(e.Port)
		}
		if err := w.Write([]string{e.Name, e.Software, addr}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
