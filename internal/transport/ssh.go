package transport

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHSession bundles the pieces a caller needs to pump bytes to/from a
// freshly dialed interactive SSH shell.
type SSHSession struct {
	Client  *ssh.Client
	Session *ssh.Session
	Stdin   io.WriteCloser
	Stdout  io.Reader
}

// DialSSH opens a proxied TCP connection, performs the SSH handshake with
// password auth, and starts an interactive shell on a 80x25 pty — the same
// shape of session the teacher's connectSSH sets up. Host key verification
// is intentionally not performed (spec.md's domain is disposable BBS
// sessions, not key-pinned production hosts), matching the teacher's use of
// ssh.InsecureIgnoreHostKey.
func DialSSH(proxyCfg ProxyConfig, host string, port int, username, password string) (*SSHSession, error) {
	address := fmt.Sprintf("%s:%d", host, port)

	conn, err := Dial(proxyCfg, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("proxy connection failed: %w", err)
	}

	cfg := &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, err
	}

	if err := session.RequestPty("xterm-256color", 25, 80, ssh.TerminalModes{}); err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	in, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	out, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	return &SSHSession{Client: client, Session: session, Stdin: in, Stdout: out}, nil
}

// Close tears the session and underlying client connection down.
func (s *SSHSession) Close() {
	if s.Session != nil {
		s.Session.Close()
	}
	if s.Client != nil {
		s.Client.Close()
	}
}
