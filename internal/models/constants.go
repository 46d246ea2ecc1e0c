package models

// Common constants used across the application
const (
	// UnknownArrivalDisplay is shown when a prediction is missing or unparseable.
	UnknownArrivalDisplay = "Time unknown"
	// UnknownClockTime is the clock placeholder paired with UnknownArrivalDisplay.
	UnknownClockTime = "--:--"
)
