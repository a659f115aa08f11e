package capture

import (
	"testing"
)

func TestManagerStartWriteStop(t *testing.T) {
	m := NewManager(t.TempDir(), nil)

	name, err := m.Start("bbs.example.com", 23, "telnet", "CP437")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if name == "" {
		t.Fatal("expected non-empty capture filename")
	}

	if err := m.Write([]byte("hello world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	data, err := m.Get(name)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("Get returned %q, want %q", data, "hello world")
	}

	infos, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Filename != name {
		t.Fatalf("List = %+v, want one entry named %q", infos, name)
	}
	if infos[0].Metadata == nil || infos[0].Metadata.BytesCaptured != int64(len("hello world")) {
		t.Fatalf("metadata = %+v", infos[0].Metadata)
	}
}

func TestManagerRejectsPathTraversal(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	if _, err := m.Get("../../etc/passwd"); err == nil {
		t.Fatal("expected error for path traversal filename")
	}
	if err := m.Delete("foo/../bar"); err == nil {
		t.Fatal("expected error for path traversal filename")
	}
}

func TestManagerWriteWithoutStartFails(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	if err := m.Write([]byte("x")); err == nil {
		t.Fatal("expected error writing without an active capture")
	}
}
