package server

import (
	"testing"

	"github.com/wxmodem/retroterm/internal/term"
)

func TestWireKeyEventNamedKey(t *testing.T) {
	w := WireKeyEvent{Name: "ArrowUp", Ctrl: true}
	ev, ok := w.ToKeyEvent()
	if !ok {
		t.Fatal("expected named key to be recognised")
	}
	if !ev.IsNamed || ev.Named != term.KeyUp || !ev.Ctrl {
		t.Fatalf("ev = %+v", ev)
	}
}

func TestWireKeyEventRune(t *testing.T) {
	w := WireKeyEvent{Rune: "é", Unicode: true}
	ev, ok := w.ToKeyEvent()
	if !ok {
		t.Fatal("expected rune key to be recognised")
	}
	if ev.IsNamed || ev.Rune != 'é' || !ev.Unicode {
		t.Fatalf("ev = %+v", ev)
	}
}

func TestWireKeyEventUnknownName(t *testing.T) {
	w := WireKeyEvent{Name: "NotAKey"}
	if _, ok := w.ToKeyEvent(); ok {
		t.Fatal("expected unknown key name to be rejected")
	}
}

func TestWireKeyEventEmpty(t *testing.T) {
	w := WireKeyEvent{}
	if _, ok := w.ToKeyEvent(); ok {
		t.Fatal("expected empty event to be rejected")
	}
}
