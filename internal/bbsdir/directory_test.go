package bbsdir

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bbs.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing test csv: %v", err)
	}
	return path
}

func TestLoadFromCSV(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "Name,Software,Telnet Server Address\n"+
		"Level 29,Synchronet,bbs.example.com:2323\n"+
		"No Port BBS,Mystic,noport.example.com\n")

	entries, err := LoadFromCSV(path)
	if err != nil {
		t.Fatalf("LoadFromCSV: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Host != "bbs.example.com" || entries[0].Port != 2323 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Port != 23 {
		t.Errorf("entries[1] should default to port 23, got %d", entries[1].Port)
	}
	if entries[0].ID != GenerateSlug("Level 29") {
		t.Errorf("entries[0].ID = %q, want slug of name", entries[0].ID)
	}
}

func TestLoadFromCSVRejectsBadHeader(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "Wrong,Header,Format\nfoo,bar,baz\n")
	if _, err := LoadFromCSV(path); err == nil {
		t.Fatal("expected error for malformed header")
	}
}

func TestCacheReloadsOnMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "Name,Software,Telnet Server Address\nFirst,Soft,first.example.com\n")
	cache := NewCache(path)

	entries, err := cache.Entries()
	if err != nil || len(entries) != 1 {
		t.Fatalf("initial load: entries=%v err=%v", entries, err)
	}

	// Rewrite with new content; mtime should advance since it's a fresh write.
	writeCSV(t, dir, "Name,Software,Telnet Server Address\nFirst,Soft,first.example.com\nSecond,Soft,second.example.com\n")

	entries, err = cache.Entries()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries after update, want 2", len(entries))
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	in := []Entry{
		{Name: "Level 29", Software: "Synchronet", Host: "bbs.example.com", Port: 2323},
	}
	if err := WriteCSV(path, in); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out, err := LoadFromCSV(path)
	if err != nil {
		t.Fatalf("LoadFromCSV after WriteCSV: %v", err)
	}
	if len(out) != 1 || out[0].Host != "bbs.example.com" || out[0].Port != 2323 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
