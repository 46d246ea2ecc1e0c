// Package stops holds the static stop table used to resolve a stop number to
// its name and position.
package stops

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jamespfennell/gtfs"

	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/models"
	"stoplens.dev/internal/utils"
)

var ErrStopNotFound = errors.New("stop not found")

// Table is an immutable stop id to StopRecord index.
type Table struct {
	stops map[string]models.StopRecord
}

// NewTable indexes records by StopID. Later duplicates are ignored.
func NewTable(records []models.StopRecord) *Table {
	t := &Table{stops: make(map[string]models.StopRecord, len(records))}
	for _, r := range records {
		id := strings.TrimSpace(r.StopID)
		if id == "" {
			continue
		}
		if _, ok := t.stops[id]; ok {
			continue
		}
		r.StopID = id
		t.stops[id] = r
	}
	return t
}

// Lookup returns the stop with the given id.
func (t *Table) Lookup(stopID string) (models.StopRecord, bool) {
	if t == nil {
		return models.StopRecord{}, false
	}
	r, ok := t.stops[strings.TrimSpace(stopID)]
	return r, ok
}

// Get is Lookup returning ErrStopNotFound for unknown ids.
func (t *Table) Get(stopID string) (models.StopRecord, error) {
	if err := utils.ValidateID(strings.TrimSpace(stopID)); err != nil {
		return models.StopRecord{}, fmt.Errorf("invalid stop id %q: %w", stopID, err)
	}
	r, ok := t.Lookup(stopID)
	if !ok {
		return models.StopRecord{}, fmt.Errorf("%w: %s", ErrStopNotFound, stopID)
	}
	return r, nil
}

// Len returns the number of stops in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.stops)
}

// Records returns every stop sorted by id.
func (t *Table) Records() []models.StopRecord {
	if t == nil {
		return nil
	}
	out := make([]models.StopRecord, 0, len(t.stops))
	for _, r := range t.stops {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StopID < out[j].StopID })
	return out
}

type jsonStop struct {
	Name      string               `json:"stop_name"`
	Latitude  models.OptionalFloat `json:"stop_lat"`
	Longitude models.OptionalFloat `json:"stop_lon"`
}

// LoadJSON reads a table in the form {"<stopId>": {"stop_name", "stop_lat",
// "stop_lon"}}. Entries with missing or out of range coordinates are skipped.
func LoadJSON(r io.Reader, logger *slog.Logger) (*Table, error) {
	var raw map[string]jsonStop
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode stop table: %w", err)
	}

	records := make([]models.StopRecord, 0, len(raw))
	skipped := 0
	for id, s := range raw {
		if !validCoordinates(s.Latitude, s.Longitude) {
			skipped++
			continue
		}
		records = append(records, models.NewStopRecord(id, s.Name, s.Latitude.Value, s.Longitude.Value))
	}
	if skipped > 0 && logger != nil {
		logger.Warn("skipped stops with invalid coordinates", slog.Int("count", skipped))
	}
	return NewTable(records), nil
}

// LoadGTFS builds a table from a GTFS static zip. Stops are keyed by their
// rider-facing stop code, falling back to the stop id.
func LoadGTFS(data []byte) (*Table, error) {
	static, err := gtfs.ParseStatic(data, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("parse GTFS feed: %w", err)
	}

	records := make([]models.StopRecord, 0, len(static.Stops))
	for _, s := range static.Stops {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		lat := models.FloatOf(*s.Latitude)
		lon := models.FloatOf(*s.Longitude)
		if !validCoordinates(lat, lon) {
			continue
		}
		id := s.Code
		if id == "" {
			id = s.Id
		}
		records = append(records, models.NewStopRecord(id, s.Name, lat.Value, lon.Value))
	}
	return NewTable(records), nil
}

// Load reads a stop table from path. Files ending in .zip are treated as
// GTFS feeds and everything else as the JSON table.
func Load(path string, logger *slog.Logger) (table *Table, err error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read GTFS feed: %w", err)
		}
		return LoadGTFS(data)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stop table: %w", err)
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "close_stop_table")

	return LoadJSON(f, logger)
}

func validCoordinates(lat, lon models.OptionalFloat) bool {
	if !lat.Valid || !lon.Valid {
		return false
	}
	return utils.ValidateLatitude(lat.Value) == nil && utils.ValidateLongitude(lon.Value) == nil
}
