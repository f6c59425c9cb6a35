package ipc

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	OK      bool    `json:"ok"`
	State   string  `json:"state,omitempty"`
	Words   int     `json:"words,omitempty"`
	Letters int     `json:"letters,omitempty"`
	WPM     float64 `json:"wpm,omitempty"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
}
