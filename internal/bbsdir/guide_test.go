package bbsdir

import "testing"

const sampleGuide = `Telnet BBS Guide
Last Updated: 2024-01-01
--------------------------------
  Level 29
Software: Synchronet
Telnet: bbs.example.com:2323
Location: USA
--------------------------------
  The Underground
Software: Mystic
Telnet: underground.example.net
SSH: ssh.example.net:2222
--------------------------------
`

func TestParseGuide(t *testing.T) {
	entries := ParseGuide(sampleGuide)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}

	first := entries[0]
	if first.Name != "Level 29" || first.Host != "bbs.example.com" || first.Port != 2323 {
		t.Errorf("first entry = %+v, want Level 29 @ bbs.example.com:2323", first)
	}
	if first.Software != "Synchronet" || first.Protocol != "telnet" {
		t.Errorf("first entry software/protocol = %q/%q", first.Software, first.Protocol)
	}

	second := entries[1]
	if second.Name != "The Underground" || second.Host != "underground.example.net" || second.Port != 23 {
		t.Errorf("second entry = %+v, want The Underground @ underground.example.net:23", second)
	}
}

func TestParseGuideSkipsIncompleteBlocks(t *testing.T) {
	text := "  No Telnet Here\nSoftware: Mystic\n---\n"
	entries := ParseGuide(text)
	if len(entries) != 0 {
		t.Fatalf("expected no entries without a Telnet: line, got %+v", entries)
	}
}
