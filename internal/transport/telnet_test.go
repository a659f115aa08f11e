package transport

import "testing"

func TestNegotiatorStripsIAC(t *testing.T) {
	n := NewNegotiator("xterm")
	data := []byte{'h', 'i', iacByte, iacByte, '!'} // escaped 0xFF byte literal
	clean, resp := n.Process(data)
	want := []byte{'h', 'i', iacByte, '!'}
	if string(clean) != string(want) {
		t.Fatalf("clean = %v, want %v", clean, want)
	}
	if resp != nil {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestNegotiatorDoBinary(t *testing.T) {
	n := NewNegotiator("xterm")
	data := []byte{iacByte, do, telOptBinary}
	clean, resp := n.Process(data)
	if len(clean) != 0 {
		t.Fatalf("expected no clean bytes, got %v", clean)
	}
	want := []byte{iacByte, will, telOptBinary}
	if string(resp) != string(want) {
		t.Fatalf("resp = %v, want %v", resp, want)
	}
	if !n.BinaryTX {
		t.Fatal("expected BinaryTX to be set")
	}
}

func TestNegotiatorDoNAWSRespondsWithSubnegotiation(t *testing.T) {
	n := NewNegotiator("xterm")
	n.Cols, n.Rows = 80, 25
	_, resp := n.Process([]byte{iacByte, do, telOptNAWS})
	if !n.NAWS {
		t.Fatal("expected NAWS negotiated")
	}
	want := append([]byte{iacByte, will, telOptNAWS}, n.nawsSubnegotiation()...)
	if string(resp) != string(want) {
		t.Fatalf("resp = %v, want %v", resp, want)
	}
}

func TestNegotiatorTTypeSubnegotiation(t *testing.T) {
	n := NewNegotiator("xterm-256color")
	// IAC DO TTYPE, then IAC SB TTYPE SEND IAC SE
	msg := []byte{iacByte, do, telOptTType}
	_, resp := n.Process(msg)
	if string(resp) != string([]byte{iacByte, will, telOptTType}) {
		t.Fatalf("resp to DO TTYPE = %v", resp)
	}

	sbMsg := []byte{iacByte, sb, telOptTType, telQualSend, iacByte, se}
	_, resp = n.Process(sbMsg)
	want := append([]byte{iacByte, sb, telOptTType, telQualIS}, []byte("xterm-256color")...)
	want = append(want, iacByte, se)
	if string(resp) != string(want) {
		t.Fatalf("resp to SB TTYPE SEND = %v, want %v", resp, want)
	}
}

func TestNegotiatorResizeSendsNAWSOnlyWhenNegotiated(t *testing.T) {
	n := NewNegotiator("xterm")
	if resp := n.Resize(80, 24); resp != nil {
		t.Fatalf("expected nil resize response before NAWS negotiated, got %v", resp)
	}
	n.NAWS = true
	resp := n.Resize(100, 31)
	if resp == nil {
		t.Fatal("expected resize response once NAWS negotiated")
	}
	if n.Cols != 100 || n.Rows != 31 {
		t.Fatalf("Cols/Rows = %d/%d, want 100/31", n.Cols, n.Rows)
	}
}
