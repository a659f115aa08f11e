// Package config loads the server's JSON configuration file and applies
// defaults where appropriate, in the same defensive style as the teacher
// program: a missing or invalid file never aborts startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Emulation holds the options spec.md §6.4 says the core consumes.
type Emulation struct {
	Answerback         string `json:"answerback"`
	ScrollbackMaxLines int    `json:"scrollbackMaxLines"`

	AvatarColor        bool `json:"avatarColor"`
	AvatarANSIFallback bool `json:"avatarAnsiFallback"`

	PETSCIIColor        bool `json:"petsciiColor"`
	PETSCIIANSIFallback bool `json:"petsciiAnsiFallback"`
	PETSCIIIsC64        bool `json:"petsciiIsC64"`
	PETSCIIWideFont     bool `json:"petsciiWideFont"`
	ATASCIIWideFont     bool `json:"atasciiWideFont"`

	VT52Color  bool `json:"vt52Color"`
	VT100Color bool `json:"vt100Color"`

	HardBackspace bool `json:"hardBackspace"`
	LineWrap      bool `json:"lineWrap"`
	OriginMode    bool `json:"originMode"`
	InsertMode    bool `json:"insertMode"`
	DisplayNull   bool `json:"displayNull"`

	BracketedPasteMode bool `json:"bracketedPasteMode"`
	LineFeedOnCR       bool `json:"lineFeedOnCr"`
	Assume80Columns    bool `json:"assume80Columns"`
}

// DefaultEmulation returns the documented post-reset defaults (spec.md §4.4).
func DefaultEmulation() Emulation {
	return Emulation{
		Answerback:         "",
		ScrollbackMaxLines: 2000,
		AvatarANSIFallback: true,
		PETSCIIANSIFallback: true,
		PETSCIIIsC64:       true,
		LineWrap:           true,
		Assume80Columns:    true,
	}
}

// Config holds server and proxy settings loaded from config.json.
type Config struct {
	Server struct {
		Port            int    `json:"port"`
		UseCuratedList  bool   `json:"useCuratedList"`
		ExternalBaseURL string `json:"externalBaseURL"`
	} `json:"server"`
	Proxy struct {
		Enabled  bool   `json:"enabled"`
		Type     string `json:"type"` // "socks5" or "tor"
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"proxy"`
	Emulation Emulation `json:"emulation"`
}

// Load reads and parses a JSON config file, returning an error if the file
// is missing or invalid. Callers (see cmd/retroterm) fall back to defaults
// on error rather than treating it as fatal.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Emulation.ScrollbackMaxLines == 0 {
		cfg.Emulation.ScrollbackMaxLines = DefaultEmulation().ScrollbackMaxLines
	}

	return &cfg, nil
}

// Default returns a minimal configuration usable when no config.json exists.
func Default() *Config {
	cfg := &Config{Emulation: DefaultEmulation()}
	cfg.Server.Port = 8080
	return cfg
}
