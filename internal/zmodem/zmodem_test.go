package zmodem

import "testing"

func TestHasSignatureDetectsZRQINIT(t *testing.T) {
	data := []byte("some telnet preamble **\x18B00000000000000\r\n")
	if !HasSignature(data) {
		t.Fatal("expected ZRQINIT signature to be detected")
	}
}

func TestHasSignatureDetectsRzPrompt(t *testing.T) {
	if !HasSignature([]byte("Give your local XMODEM receive command now.\r\nrz\r")) {
		t.Fatal("expected rz prompt to be detected")
	}
}

func TestHasSignatureFalseOnPlainText(t *testing.T) {
	if HasSignature([]byte("Welcome to the BBS!\r\nLogin: ")) {
		t.Fatal("expected no signature in plain text")
	}
}

func TestNewReceiverStartsInactive(t *testing.T) {
	sink := &fakeSink{}
	r := New(sink)
	if r.Active() {
		t.Fatal("expected new receiver to be inactive")
	}
}

type fakeSink struct {
	written  [][]byte
	notified []string
	files    map[string][]byte
}

func (f *fakeSink) WriteRemote(data []byte) {
	f.written = append(f.written, append([]byte(nil), data...))
}

func (f *fakeSink) Notify(kind, message string) {
	f.notified = append(f.notified, kind+":"+message)
}

func (f *fakeSink) FileReceived(name string, data []byte) {
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[name] = data
}
