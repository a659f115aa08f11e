package server

// Message is the websocket envelope exchanged with the browser. Unlike the
// teacher's Message, which carried raw bytes destined for a client-side
// xterm.js, this dialect's "frame" and "key" fields carry the structured
// Frame/KeyEvent payloads the core already produces and consumes — see
// frame.go and keys.go.
type Message struct {
	Type string `json:"type"`

	// outbound: rendered screen state
	Frame *Frame `json:"frame,omitempty"`

	// inbound: structured key event (see keys.go for field meanings)
	Key *WireKeyEvent `json:"key,omitempty"`

	// connection parameters (inbound "connect")
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Protocol string `json:"protocol,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	Cols int `json:"cols,omitempty"`
	Rows int `json:"rows,omitempty"`

	Charset   string `json:"charset,omitempty"`
	Emulation string `json:"emulation,omitempty"`

	Message string    `json:"message,omitempty"`
	BBSID   string    `json:"bbsId,omitempty"`
	BBSList []BBSInfo `json:"bbsList,omitempty"`

	Filename string `json:"filename,omitempty"`
}

// BBSInfo is the directory entry shape sent to the browser's BBS picker.
type BBSInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Protocol    string `json:"protocol"`
	Description string `json:"description"`
	Encoding    string `json:"encoding,omitempty"`
	Location    string `json:"location,omitempty"`
}
