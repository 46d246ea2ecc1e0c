package models

// Delay is the signed offset between scheduled and predicted arrival.
type Delay struct {
	// Sign is +1 when running ahead (early), -1 when behind (late), 0 when on time.
	Sign int `json:"sign"`
	// Magnitude is "H:MM".
	Magnitude string `json:"magnitude,omitempty"`
	// Raw is the server text the delay was parsed from.
	Raw string `json:"raw"`
	// Parsed is false when Raw did not match the delay grammar.
	Parsed bool `json:"parsed"`
}

// Text renders the delay for display. Unparsed delays show the raw text.
func (d Delay) Text() string {
	if !d.Parsed {
		return d.Raw
	}
	switch {
	case d.Sign > 0:
		return "+" + d.Magnitude
	case d.Sign < 0:
		return "-" + d.Magnitude
	default:
		return "On time"
	}
}

// Tone is the display color convention: green on time or ahead, red behind.
func (d Delay) Tone() string {
	if !d.Parsed {
		return "neutral"
	}
	if d.Sign < 0 {
		return "red"
	}
	return "green"
}
