// Package transport dials remote BBS hosts (telnet or SSH), optionally
// through a SOCKS5 or Tor proxy, and speaks the telnet IAC option
// negotiation the core terminal emulator never needs to know about (spec.md
// §1 names "serial/modem/telnet/rlogin/ssh transports" as an explicit
// core non-goal; this package is the external collaborator that owns them).
package transport

import (
	"fmt"
	"net"
	"time"

	"golang.org/x/net/proxy"
)

// ProxyConfig mirrors the teacher's config.json "proxy" section.
type ProxyConfig struct {
	Enabled  bool
	Type     string // "socks5" or "tor"
	Host     string
	Port     int
	Username string
	Password string
}

// Dialer builds a proxy.Dialer for a given proxy configuration, falling
// back to a plain net.Dialer when no proxy is enabled.
func Dialer(cfg ProxyConfig) (proxy.Dialer, error) {
	if !cfg.Enabled {
		return &net.Dialer{Timeout: 10 * time.Second}, nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth *proxy.Auth
	if cfg.Username != "" {
		auth = &proxy.Auth{User: cfg.Username, Password: cfg.Password}
	}

	timeout := 10 * time.Second
	if cfg.Type == "tor" {
		timeout = 30 * time.Second // Tor circuit setup is slower than a direct SOCKS5 hop.
	}

	dialer, err := proxy.SOCKS5("tcp", addr, auth, &net.Dialer{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	return dialer, nil
}

// Dial connects to address, routing through the proxy configuration when
// enabled.
func Dial(cfg ProxyConfig, network, address string) (net.Conn, error) {
	dialer, err := Dialer(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := dialer.Dial(network, address)
	if err != nil {
		return nil, fmt.Errorf("proxy dial failed: %w", err)
	}
	return conn, nil
}
