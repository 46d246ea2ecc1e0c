package transit

import (
	"encoding/json"

	"stoplens.dev/internal/models"
)

// SeekResponse is the reply to a stop lookup.
type SeekResponse struct {
	Routes   []string               `json:"routes"`
	Vehicles []models.VehicleRecord `json:"vehicles"`
}

// VehicleLocation is one entry of a /vehicles reply.
type VehicleLocation struct {
	VehicleID models.FlexString    `json:"vehicle_id"`
	Latitude  models.OptionalFloat `json:"latitude"`
	Longitude models.OptionalFloat `json:"longitude"`
	Occupancy models.Occupancy     `json:"occupancy_status"`
}

// Location converts the entry into a model location, or nil when the
// service sent no usable coordinates.
func (v VehicleLocation) Location() *models.Location {
	if !v.Latitude.Valid || !v.Longitude.Valid {
		return nil
	}
	occ := v.Occupancy
	if occ == "" {
		occ = models.OccupancyUnknown
	}
	return &models.Location{
		Latitude:  v.Latitude.Value,
		Longitude: v.Longitude.Value,
		Occupancy: occ,
	}
}

// VehicleInfo is the reply to a single vehicle lookup.
type VehicleInfo struct {
	Delay    *string          `json:"delay,omitempty"`
	Location *models.Location `json:"location,omitempty"`
}

func (v *VehicleInfo) UnmarshalJSON(b []byte) error {
	var wire struct {
		Delay    *models.FlexString `json:"delay"`
		Location *models.Location   `json:"location"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*v = VehicleInfo{Location: wire.Location}
	if wire.Delay != nil && *wire.Delay != "" {
		text := wire.Delay.String()
		v.Delay = &text
	}
	return nil
}

// UploadResponse is the stop recognised in an uploaded photo.
type UploadResponse struct {
	Stop   models.FlexString `json:"stop"`
	Routes []string          `json:"routes"`
}

type seekRequest struct {
	Stop string `json:"stop"`
}

type vehiclesRequest struct {
	VehicleNumbers []string `json:"vehicle_numbers"`
}

type vehiclesResponse struct {
	Vehicles []VehicleLocation `json:"vehicles"`
}

type vehicleInfoRequest struct {
	VehicleNumber string `json:"vehicle_number"`
}
