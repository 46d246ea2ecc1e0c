package models

// ColorClass groups routes by service type for display.
type ColorClass string

const (
	ColorStandard ColorClass = "standard"
	ColorExpress  ColorClass = "express"
	ColorNight    ColorClass = "night"
	ColorLimited  ColorClass = "limited"
)

// Hex is the display color for the class.
func (c ColorClass) Hex() string {
	switch c {
	case ColorExpress:
		return "#007AFF"
	case ColorNight:
		return "#34C759"
	case ColorLimited:
		return "#8E8E93"
	default:
		return "#FF1717"
	}
}

// RouteRef is a route as surfaced by the transit service, e.g. "504-King" or "35 Jane".
type RouteRef struct {
	Raw    string     `json:"raw"`
	Number string     `json:"number"`
	Name   string     `json:"name"`
	Color  ColorClass `json:"colorClass"`
}

// Title is the number and name joined for display.
func (r RouteRef) Title() string {
	if r.Name == "" {
		return r.Number
	}
	return r.Number + " " + r.Name
}
