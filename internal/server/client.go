package server

import (
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wxmodem/retroterm/internal/capture"
	"github.com/wxmodem/retroterm/internal/config"
	"github.com/wxmodem/retroterm/internal/term"
	"github.com/wxmodem/retroterm/internal/term/codepage"
	"github.com/wxmodem/retroterm/internal/transport"
	"github.com/wxmodem/retroterm/internal/zmodem"
)

// Client bridges one browser websocket to one remote BBS connection. It
// owns the terminal core instance for that session plus the external
// collaborators (telnet negotiation, SSH, ZMODEM, capture) the core itself
// never touches, mirroring the teacher's Client but replacing its ANSI text
// pipeline with a *term.Terminal and structured Frame output.
type Client struct {
	hub *Hub
	ws  *websocket.Conn

	// SessionID identifies this bridge session in logs and capture
	// metadata; the teacher's go.mod carried google/uuid as an indirect
	// dependency but never called it, so session logging had no stable
	// per-connection identifier to grep by.
	SessionID string

	mu   sync.Mutex
	done chan struct{}

	// termMu guards every access to term: FeedBytes runs on the remote-read
	// goroutine while Encode/SwitchEmulation run on the websocket-read
	// goroutine in response to key/charset messages.
	termMu sync.Mutex
	term   *term.Terminal

	charset string // "CP437", "PETSCIIU", "PETSCIIL", or "ATASCII"

	telnetConn net.Conn
	telnetNeg  *transport.Negotiator

	sshSess *transport.SSHSession

	zmodemRx *zmodem.Receiver
	music    *MusicFilter

	captureManager *capture.Manager
	capturing      bool

	termCols, termRows int
}

func newClient(h *Hub, ws *websocket.Conn) *Client {
	c := &Client{
		hub:            h,
		ws:             ws,
		SessionID:      uuid.NewString(),
		done:           make(chan struct{}),
		charset:        "CP437",
		termCols:       80,
		termRows:       25,
		captureManager: h.Capture,
	}
	c.music = NewMusicFilter(func(payload string) {
		c.sendJSON(Message{Type: "music", Message: payload})
	})
	c.zmodemRx = zmodem.New(c)

	emuCfg := config.DefaultEmulation()
	if h.Config != nil {
		emuCfg = h.Config.Emulation
	}
	c.term = term.NewTerminal(c.termCols, c.termRows, emuCfg, func() {
		c.sendJSON(Message{Type: "bell"})
	})
	c.term.SwitchEmulation(term.EmuLinuxXterm)
	c.term.Codepage = codepage.CP437
	return c
}

// run drives the websocket read loop until the browser disconnects or an
// unrecoverable read error occurs, mirroring the teacher's handleWebSocket.
func (c *Client) run() {
	defer c.ws.Close()

	c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-c.done:
				return
			}
		}
	}()

	for {
		var msg Message
		c.ws.SetReadDeadline(time.Now().Add(readTimeout))
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close: %v", err)
			}
			c.disconnect()
			return
		}
		if c.handle(msg) {
			return
		}
	}
}

// handle dispatches one inbound message, returning true if the session
// loop should stop.
func (c *Client) handle(msg Message) (stop bool) {
	switch msg.Type {
	case "connect":
		if !c.hub.isApproved(msg.Host, msg.Port, msg.Protocol) {
			log.Printf("security: blocked unapproved connection to %s://%s:%d", msg.Protocol, msg.Host, msg.Port)
			c.sendMessage("error", "Connection blocked: host not in approved list")
			return false
		}
		if msg.Charset != "" {
			c.setCharset(msg.Charset)
		}
		switch msg.Protocol {
		case "telnet":
			go c.connectTelnet(msg.Host, msg.Port)
		case "ssh":
			go c.connectSSH(msg.Host, msg.Port, msg.Username, msg.Password)
		}
	case "key":
		if msg.Key != nil {
			c.sendKey(*msg.Key)
		}
	case "resize":
		c.resize(msg.Cols, msg.Rows)
	case "setCharset":
		c.setCharset(msg.Charset)
	case "getBBSList":
		c.sendBBSList()
	case "connectToBBS":
		log.Printf("security: BBS connection via id %s", msg.BBSID)
		c.connectToBBS(msg.BBSID)
	case "playCapture":
		go c.playCapture(msg.Filename)
	case "cancelDownload":
		if c.zmodemRx != nil {
			c.zmodemRx.Cancel()
		}
	case "disconnect":
		c.disconnect()
		return true
	}
	return false
}

func (c *Client) sendBBSList() {
	c.sendJSON(Message{Type: "bbsList", BBSList: c.hub.approvedBBSList()})
}

func (c *Client) connectToBBS(id string) {
	for _, bbs := range c.hub.approvedBBSList() {
		if bbs.ID != id {
			continue
		}
		if bbs.Encoding != "" {
			c.setCharset(bbs.Encoding)
		}
		switch bbs.Protocol {
		case "telnet":
			go c.connectTelnet(bbs.Host, bbs.Port)
		case "ssh":
			go c.connectSSH(bbs.Host, bbs.Port, "", "")
		}
		return
	}
	c.sendMessage("error", fmt.Sprintf("BBS not found: %s", id))
}

// setCharset maps a wire charset name onto an emulation and codepage,
// replacing the teacher's runtime-switchable ConvertUTF8ToPETSCIIx/
// ConvertUTF8ToCP437Enhanced family, which main.go called but never
// defined anywhere in the source tree. Grounded instead on the already
// built term.Terminal.SwitchEmulation and codepage.Map.
func (c *Client) setCharset(charset string) {
	c.mu.Lock()
	c.charset = charset
	c.mu.Unlock()

	c.termMu.Lock()
	switch strings.ToUpper(charset) {
	case "PETSCIIU", "PETSCIIL":
		c.term.SwitchEmulation(term.EmuPETSCII)
	case "ATASCII":
		c.term.SwitchEmulation(term.EmuATASCII)
	default: // "CP437" and anything unrecognised
		c.term.SwitchEmulation(term.EmuLinuxXterm)
		c.term.Codepage = codepage.CP437
	}
	c.termMu.Unlock()
	c.pushFrame()
}

func (c *Client) sendKey(w WireKeyEvent) {
	ev, ok := w.ToKeyEvent()
	if !ok {
		return
	}
	c.termMu.Lock()
	out := c.term.Encode(ev, nil, nil, c.telnetASCII())
	c.termMu.Unlock()
	c.sendToRemote(out)
}

func (c *Client) telnetASCII() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.telnetConn != nil && c.telnetNeg != nil && !c.telnetNeg.BinaryTX
}

// resize tracks the browser's chosen viewport and relays it to whichever
// transport cares: SSH gets a pty WindowChange, telnet gets a NAWS update
// if negotiated. The core's own Screen is not resized mid-session; BBS
// sessions run at whatever fixed size they were created with (spec.md
// doesn't require or assume the ability to reflow scrollback on resize).
func (c *Client) resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	c.mu.Lock()
	c.termCols, c.termRows = cols, rows
	sshSess := c.sshSess
	telnetConn := c.telnetConn
	neg := c.telnetNeg
	c.mu.Unlock()

	if sshSess != nil && sshSess.Session != nil {
		sshSess.Session.WindowChange(rows, cols)
	}
	if telnetConn != nil && neg != nil {
		if resp := neg.Resize(cols, rows); len(resp) > 0 {
			telnetConn.Write(resp)
		}
	}
}

func (c *Client) connectTelnet(host string, port int) {
	address := fmt.Sprintf("%s:%d", host, port)
	log.Printf("[%s] connecting telnet://%s", c.SessionID, address)

	conn, err := transport.Dial(c.hub.proxyConfig(), "tcp", address)
	if err != nil {
		c.sendMessage("error", err.Error())
		return
	}

	c.mu.Lock()
	c.telnetConn = conn
	c.telnetNeg = transport.NewNegotiator("xterm")
	c.telnetNeg.Cols, c.telnetNeg.Rows = c.termCols, c.termRows
	charset := c.charset
	c.mu.Unlock()

	if c.captureManager != nil {
		if name, err := c.captureManager.Start(host, port, "telnet", charset); err == nil {
			log.Printf("capture started: %s", name)
		}
		c.capturing = true
	}

	c.sendMessage("connected", fmt.Sprintf("Connected to %s", address))
	go c.readRemote(conn)
}

func (c *Client) connectSSH(host string, port int, username, password string) {
	address := fmt.Sprintf("%s:%d", host, port)
	log.Printf("[%s] connecting ssh://%s", c.SessionID, address)

	sess, err := transport.DialSSH(c.hub.proxyConfig(), host, port, username, password)
	if err != nil {
		c.sendMessage("error", err.Error())
		return
	}

	c.mu.Lock()
	c.sshSess = sess
	charset := c.charset
	c.mu.Unlock()

	if c.captureManager != nil {
		if name, err := c.captureManager.Start(host, port, "ssh", charset); err == nil {
			log.Printf("capture started: %s", name)
		}
		c.capturing = true
	}

	c.sendMessage("connected", fmt.Sprintf("Connected to %s", address))
	go c.readRemote(sess.Stdout)
}

// readRemote pumps bytes from the remote connection through telnet IAC
// stripping, ZMODEM detection, the ANSI-music pre-filter and finally the
// terminal core, pushing a Frame to the browser after each read.
func (c *Client) readRemote(r io.Reader) {
	buf := make([]byte, 8192)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)

			c.mu.Lock()
			neg := c.telnetNeg
			conn := c.telnetConn
			c.mu.Unlock()
			if neg != nil {
				clean, resp := neg.Process(data)
				if len(resp) > 0 && conn != nil {
					conn.Write(resp)
				}
				data = clean
			}

			if c.captureManager != nil && c.capturing {
				c.captureManager.Write(data)
			}

			if c.zmodemRx.Active() || zmodem.HasSignature(data) {
				remaining, consumed := c.zmodemRx.ProcessData(data)
				if consumed {
					data = remaining
				}
			}

			if len(data) > 0 {
				clean, consumed := c.music.Process(data)
				if consumed {
					data = clean
				}
			}

			if len(data) > 0 {
				c.termMu.Lock()
				c.term.FeedBytes(data)
				reply := c.term.Status.DrainReply()
				c.termMu.Unlock()
				if len(reply) > 0 {
					c.sendToRemote(reply)
				}
				c.pushFrame()
			}
		}
		if err != nil {
			c.disconnect()
			return
		}
	}
}

func (c *Client) pushFrame() {
	c.termMu.Lock()
	f := BuildFrame(c.term)
	c.termMu.Unlock()
	c.sendJSON(Message{Type: "frame", Frame: &f})
}

// sendToRemote writes raw bytes to whichever transport is active, used by
// both sendKey and the ZMODEM Sink implementation below.
func (c *Client) sendToRemote(data []byte) {
	c.mu.Lock()
	conn := c.telnetConn
	sshSess := c.sshSess
	c.mu.Unlock()

	if conn != nil {
		conn.Write(data)
	} else if sshSess != nil {
		sshSess.Stdin.Write(data)
	}
}

// WriteRemote implements zmodem.Sink.
func (c *Client) WriteRemote(data []byte) { c.sendToRemote(data) }

// Notify implements zmodem.Sink.
func (c *Client) Notify(kind, message string) { c.sendMessage(kind, message) }

// FileReceived implements zmodem.Sink: it tells the browser the name of the
// received file; the file's bytes are not stored or forwarded.
func (c *Client) FileReceived(name string, data []byte) {
	c.sendMessage("downloadComplete", name)
}

func (c *Client) playCapture(filename string) {
	if c.captureManager == nil {
		c.sendMessage("error", "capture replay unavailable")
		return
	}
	data, err := c.captureManager.Get(filename)
	if err != nil {
		c.sendMessage("error", err.Error())
		return
	}
	// Replay at a readable pace rather than dumping the whole buffer into
	// FeedBytes at once, so scrollback/bell/music behave as they did live.
	const chunk = 256
	for i := 0; i < len(data); i += chunk {
		end := i + chunk
		if end > len(data) {
			end = len(data)
		}
		c.termMu.Lock()
		c.term.FeedBytes(data[i:end])
		c.termMu.Unlock()
		c.pushFrame()
		time.Sleep(15 * time.Millisecond)
	}
}

func (c *Client) disconnect() {
	c.mu.Lock()
	conn := c.telnetConn
	sshSess := c.sshSess
	c.telnetConn = nil
	c.sshSess = nil
	capturing := c.capturing
	c.capturing = false
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if sshSess != nil {
		sshSess.Close()
	}
	if capturing && c.captureManager != nil {
		c.captureManager.Stop()
	}
	if c.zmodemRx != nil && c.zmodemRx.Active() {
		c.zmodemRx.Cancel()
	}

	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *Client) sendMessage(kind, message string) {
	c.sendJSON(Message{Type: kind, Message: message})
}

func (c *Client) sendJSON(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.ws.WriteJSON(msg); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}
