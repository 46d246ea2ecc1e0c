package models

// Arrival is the display form of a minutes-until-arrival prediction.
type Arrival struct {
	Display   string `json:"display"`
	ClockTime string `json:"clockTime"`
}
