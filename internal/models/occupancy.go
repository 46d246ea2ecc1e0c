package models

import (
	"strconv"
	"strings"
)

// Occupancy is the coarse crowding level shown for a vehicle.
type Occupancy string

const (
	OccupancyEmpty    Occupancy = "empty"
	OccupancyFewSeats Occupancy = "few_seats"
	OccupancyFull     Occupancy = "full"
	OccupancyUnknown  Occupancy = "unknown"
)

// gtfsOccupancy indexes the GTFS-realtime OccupancyStatus enum by its numeric value.
var gtfsOccupancy = []string{
	"EMPTY",
	"MANY_SEATS_AVAILABLE",
	"FEW_SEATS_AVAILABLE",
	"STANDING_ROOM_ONLY",
	"CRUSHED_STANDING_ROOM_ONLY",
	"FULL",
	"NOT_ACCEPTING_PASSENGERS",
	"NO_DATA_AVAILABLE",
	"NOT_BOARDABLE",
}

// ParseOccupancy maps a server occupancy value, either a GTFS-realtime name or
// its numeric code, onto the coarse levels. Unrecognised input is unknown.
func ParseOccupancy(raw string) Occupancy {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(gtfsOccupancy) {
			return OccupancyUnknown
		}
		s = gtfsOccupancy[n]
	}
	s = strings.ReplaceAll(s, " ", "_")

	switch s {
	case "EMPTY", "MANY_SEATS_AVAILABLE":
		return OccupancyEmpty
	case "FEW_SEATS", "FEW_SEATS_AVAILABLE", "STANDING_ROOM_ONLY":
		return OccupancyFewSeats
	case "FULL", "CRUSHED_STANDING_ROOM_ONLY", "NOT_ACCEPTING_PASSENGERS":
		return OccupancyFull
	default:
		return OccupancyUnknown
	}
}

// Label is the rider-facing text for the level.
func (o Occupancy) Label() string {
	switch o {
	case OccupancyEmpty:
		return "Empty"
	case OccupancyFewSeats:
		return "Few seats"
	case OccupancyFull:
		return "Full"
	default:
		return "Unknown"
	}
}

func (o *Occupancy) UnmarshalJSON(b []byte) error {
	s, ok := scalarText(b)
	if !ok {
		*o = OccupancyUnknown
		return nil
	}
	*o = ParseOccupancy(s)
	return nil
}
