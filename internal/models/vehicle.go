package models

import (
	"bytes"
	"encoding/json"
)

// Location is a vehicle position with its reported occupancy.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Occupancy Occupancy `json:"occupancy_status,omitempty"`
}

// Known reports whether the location carries usable coordinates.
func (l Location) Known() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

func (l *Location) UnmarshalJSON(b []byte) error {
	var wire struct {
		Latitude  OptionalFloat `json:"latitude"`
		Longitude OptionalFloat `json:"longitude"`
		Occupancy Occupancy     `json:"occupancy_status"`
	}
	*l = Location{Occupancy: OccupancyUnknown}
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil
	}
	*l = Location{Occupancy: wire.Occupancy}
	if l.Occupancy == "" {
		l.Occupancy = OccupancyUnknown
	}
	if wire.Latitude.Valid && wire.Longitude.Valid {
		l.Latitude = wire.Latitude.Value
		l.Longitude = wire.Longitude.Value
	}
	return nil
}

// VehicleRecord is one real-time vehicle observation for a stop. Records are
// replaced wholesale on every poll and never patched.
type VehicleRecord struct {
	// ID is "<routeNumber>_<sequence>".
	ID            string      `json:"id"`
	VehicleNumber FlexString  `json:"vehicle_number"`
	Minutes       OptionalInt `json:"minutes"`
	DelayText     *string     `json:"delay,omitempty"`
	Location      *Location   `json:"location,omitempty"`
	Destination   string      `json:"destination,omitempty"`
}

func (v *VehicleRecord) UnmarshalJSON(b []byte) error {
	var wire struct {
		ID            FlexString      `json:"id"`
		VehicleNumber FlexString      `json:"vehicle_number"`
		Minutes       OptionalInt     `json:"minutes"`
		DelayText     *FlexString     `json:"delay"`
		Location      json.RawMessage `json:"location"`
		Destination   FlexString      `json:"destination"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	*v = VehicleRecord{
		ID:            wire.ID.String(),
		VehicleNumber: wire.VehicleNumber,
		Minutes:       wire.Minutes,
		Destination:   wire.Destination.String(),
	}
	if wire.DelayText != nil && *wire.DelayText != "" {
		text := wire.DelayText.String()
		v.DelayText = &text
	}
	// Only an object is a location; strings such as "n/a" mean none.
	if raw := bytes.TrimSpace(wire.Location); len(raw) > 0 && raw[0] == '{' {
		var loc Location
		if err := json.Unmarshal(raw, &loc); err == nil {
			v.Location = &loc
		}
	}
	return nil
}

// Branch returns the branch letter the service encodes as the second
// character of the destination, or "" when there is none.
func (v VehicleRecord) Branch() string {
	d := []rune(v.Destination)
	if len(d) < 2 {
		return ""
	}
	if c := d[1]; c >= 'A' && c <= 'Z' {
		return string(c)
	}
	return ""
}
