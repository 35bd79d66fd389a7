package screen

// OSC implements vtparse.Sink. Window title (0/1/2) is tracked; every
// other OSC command is accepted and discarded — OSC 8 hyperlinks, OSC 52
// clipboard, and OSC 133 shell integration are outside the ECMA-48 subset
// this engine emulates.
func (s *Screen) OSC(command int, data []byte) {
	switch command {
	case 0, 1, 2:
		s.title = string(data)
	}
}

// DCS implements vtparse.Sink. DCS payloads (e.g. DECRQSS) are not
// interpreted; the engine only needs to consume them without corrupting
// the parser state.
func (s *Screen) DCS(data []byte) {}

// APC implements vtparse.Sink; APC/PM/SOS payloads are consumed and
// discarded for the same reason as DCS.
func (s *Screen) APC(data []byte) {}

// Title returns the last window title set via OSC 0/1/2.
func (s *Screen) Title() string { return s.title }
