// Package zmodem bridges a raw telnet/SSH byte stream to the external `rz`
// binary (from lrzsz) so a browser session can receive ZMODEM file transfers
// without the terminal core ever seeing binary transfer data. File transfer
// protocols are an explicit core non-goal (spec.md §1); this is the external
// collaborator the core hands clean bytes to and receives clean bytes from,
// adapted from the teacher's zmodem_lrzsz.go LrzszReceiver.
package zmodem

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Sink receives the side-effects of a transfer: bytes that must go back to
// the remote host, status notifications, and completed files. A caller
// (internal/server's Client) implements this to bridge to its websocket.
type Sink interface {
	WriteRemote(data []byte)
	Notify(kind, message string)
	FileReceived(name string, data []byte)
}

var headerPatterns = [][]byte{
	{0x2A, 0x2A, 0x18, 0x42, 0x30, 0x30}, // **\x18B00 (ZRQINIT)
	{0x2A, 0x2A, 0x18, 0x41},             // **\x18A (ZBIN)
	{0x2A, 0x2A, 0x18, 0x43},             // **\x18C (ZBIN32)
	{0x18, 0x42, 0x30, 0x30},
	{0x18, 0x43, 0x04},
}

// HasSignature reports whether data contains a recognizable ZMODEM start
// sequence, used by the caller to pre-suppress terminal output before a
// Receiver has actually activated.
func HasSignature(data []byte) bool {
	patterns := append(append([][]byte{}, headerPatterns...), []byte("rz\r"))
	for _, p := range patterns {
		if bytes.Contains(data, p) {
			return true
		}
	}
	return false
}

// Receiver manages the lifecycle of one ZMODEM download via an external
// `rz -v -b` process: detecting the start signature, piping the telnet/SSH
// byte stream to and from the process, and delivering any received files.
type Receiver struct {
	sink Sink

	mu           sync.Mutex
	active       bool
	tempDir      string
	cmd          *exec.Cmd
	stdin        io.WriteCloser
	buffer       []byte
	startTime    time.Time
	lastActivity time.Time
}

// New returns a Receiver that reports to sink.
func New(sink Sink) *Receiver {
	return &Receiver{sink: sink, buffer: make([]byte, 0, 256)}
}

// Active reports whether a transfer is in progress.
func (r *Receiver) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// ProcessData consumes remote bytes after telnet IAC processing. It returns any
// bytes that should still be shown on the terminal, and whether data was
// consumed by the ZMODEM pipeline.
func (r *Receiver) ProcessData(data []byte) (remaining []byte, consumed bool) {
	r.mu.Lock()
	active := r.active
	r.mu.Unlock()

	if !active {
		r.buffer = append(r.buffer, data...)
		if start, ok := findStartIndex(r.buffer); ok {
			if err := r.start(); err != nil {
				r.buffer = r.buffer[:0]
				return data, false
			}
			r.mu.Lock()
			r.active = true
			r.startTime = time.Now()
			r.lastActivity = time.Now()
			r.mu.Unlock()

			r.sink.Notify("zmodemStatus", "File transfer started (using rz)...")

			if r.stdin != nil && len(r.buffer) > start {
				if _, err := r.stdin.Write(r.buffer[start:]); err != nil {
					r.completeTransfer()
				}
			}
			r.buffer = r.buffer[:0]
			return nil, true
		}
		if len(r.buffer) > 1024 {
			r.buffer = r.buffer[512:]
		}
		return data, false
	}

	r.mu.Lock()
	r.lastActivity = time.Now()
	stdin := r.stdin
	r.mu.Unlock()

	if stdin != nil {
		if _, err := stdin.Write(data); err != nil {
			r.completeTransfer()
		}
	}
	return nil, true
}

func findStartIndex(data []byte) (int, bool) {
	first := -1
	for _, p := range headerPatterns {
		if idx := bytes.Index(data, p); idx != -1 && (first == -1 || idx < first) {
			first = idx
		}
	}
	if first >= 0 {
		return first, true
	}
	return 0, false
}

func (r *Receiver) start() error {
	tempDir, err := os.MkdirTemp("", "zmodem_*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}

	cmd := exec.Command("rz", "-v", "-b")
	cmd.Dir = tempDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		os.RemoveAll(tempDir)
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.RemoveAll(tempDir)
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		os.RemoveAll(tempDir)
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		os.RemoveAll(tempDir)
		return fmt.Errorf("failed to start rz: %w", err)
	}

	r.mu.Lock()
	r.tempDir = tempDir
	r.cmd = cmd
	r.stdin = stdin
	r.mu.Unlock()

	go r.monitorExit()
	go r.monitorProgress(stderr)
	go r.forwardStdoutToRemote(stdout)
	go r.watchdog()

	r.sink.Notify("downloadStart", "ZMODEM transfer starting...")
	return nil
}

// Cancel aborts an active transfer: sends a CAN burst to the remote,
// terminates the rz process, and removes its temp directory.
func (r *Receiver) Cancel() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	r.active = false
	stdin := r.stdin
	cmd := r.cmd
	tempDir := r.tempDir
	r.stdin, r.cmd, r.tempDir = nil, nil, ""
	r.mu.Unlock()

	r.sink.WriteRemote(bytes.Repeat([]byte{0x18}, 8))
	if stdin != nil {
		stdin.Close()
	}
	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
	if tempDir != "" {
		os.RemoveAll(tempDir)
	}
	r.buffer = r.buffer[:0]
}

func (r *Receiver) monitorExit() {
	r.mu.Lock()
	cmd := r.cmd
	r.mu.Unlock()
	if cmd == nil {
		return
	}
	cmd.Wait()

	r.mu.Lock()
	active := r.active
	r.mu.Unlock()
	if active {
		r.completeTransfer()
	}
}

var percentRe = regexp.MustCompile(`(\d{1,3})%`)

func (r *Receiver) monitorProgress(stderr io.ReadCloser) {
	defer stderr.Close()
	buf := make([]byte, 1024)
	for {
		n, err := stderr.Read(buf)
		if n > 0 {
			text := string(buf[:n])
			if idx := strings.Index(text, "Receiving:"); idx >= 0 {
				line := text[idx:]
				if nl := strings.Index(line, "\n"); nl >= 0 {
					line = line[:nl]
				}
				if parts := strings.SplitN(line, ":", 2); len(parts) == 2 {
					if name := strings.TrimSpace(parts[1]); name != "" {
						r.sink.Notify("downloadInfo", name)
					}
				}
			}
			if m := percentRe.FindStringSubmatch(text); len(m) == 2 {
				r.sink.Notify("downloadProgress", m[1])
			}
		}
		if err != nil {
			return
		}
	}
}

// forwardStdoutToRemote bridges rz's own protocol handshake bytes back to
// the remote host, escaping IAC per RFC 854 so telnet doesn't reinterpret
// them as option negotiation.
func (r *Receiver) forwardStdoutToRemote(stdout io.ReadCloser) {
	defer stdout.Close()
	buf := make([]byte, 4096)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			escaped := make([]byte, 0, n+8)
			for _, b := range buf[:n] {
				escaped = append(escaped, b)
				if b == 0xFF {
					escaped = append(escaped, 0xFF)
				}
			}
			r.sink.WriteRemote(escaped)
		}
		if err != nil {
			return
		}
	}
}

func (r *Receiver) completeTransfer() {
	r.mu.Lock()
	r.active = false
	stdin := r.stdin
	cmd := r.cmd
	tempDir := r.tempDir
	r.stdin, r.cmd, r.tempDir = nil, nil, ""
	r.mu.Unlock()

	r.buffer = r.buffer[:0]
	if stdin != nil {
		stdin.Close()
	}
	time.Sleep(500 * time.Millisecond) // let rz finish flushing its last writes

	if tempDir != "" {
		files, err := os.ReadDir(tempDir)
		if err == nil {
			for _, f := range files {
				if f.IsDir() {
					continue
				}
				if data, err := os.ReadFile(filepath.Join(tempDir, f.Name())); err == nil {
					r.sink.FileReceived(f.Name(), data)
				}
			}
		}
		os.RemoveAll(tempDir)
	}
	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
}

func (r *Receiver) watchdog() {
	const maxDuration = 30 * time.Minute
	const idleLimit = 90 * time.Second

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if !r.Active() {
			return
		}
		r.mu.Lock()
		start, last := r.startTime, r.lastActivity
		r.mu.Unlock()

		if time.Since(start) > maxDuration || time.Since(last) > idleLimit {
			r.Cancel()
			return
		}
	}
}
