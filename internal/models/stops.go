package models

// StopRecord is a physical stop resolved from the static stop table.
type StopRecord struct {
	StopID    string  `json:"stopId"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func NewStopRecord(stopID, name string, lat, lon float64) StopRecord {
	return StopRecord{
		StopID:    stopID,
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
	}
}
