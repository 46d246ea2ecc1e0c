package stops

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stoplens.dev/internal/models"
)

func TestLoadJSON(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "stops.json"), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())

	stop, ok := table.Lookup("14225")
	require.True(t, ok)
	assert.Equal(t, "King St West at Spadina Ave", stop.Name)
	assert.InDelta(t, 43.64514, stop.Latitude, 1e-9)
	assert.InDelta(t, -79.39501, stop.Longitude, 1e-9)

	stop, ok = table.Lookup(" 8812 ")
	require.True(t, ok)
	assert.Equal(t, "8812", stop.StopID)

	_, ok = table.Lookup("9999")
	assert.False(t, ok, "entries without coordinates are skipped")
	_, ok = table.Lookup("9998")
	assert.False(t, ok, "entries with out of range coordinates are skipped")
}

func TestLoadJSONMalformed(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"14225": [`), nil)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	table := NewTable([]models.StopRecord{models.NewStopRecord("14225", "King St West at Spadina Ave", 43.6, -79.3)})

	stop, err := table.Get("14225")
	require.NoError(t, err)
	assert.Equal(t, "14225", stop.StopID)

	_, err = table.Get("1")
	assert.True(t, errors.Is(err, ErrStopNotFound))

	_, err = table.Get("../etc")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStopNotFound))
}

func TestNewTableKeepsFirstDuplicate(t *testing.T) {
	table := NewTable([]models.StopRecord{
		models.NewStopRecord("1", "first", 1, 1),
		models.NewStopRecord("1", "second", 2, 2),
		models.NewStopRecord("", "nameless", 3, 3),
	})

	assert.Equal(t, 1, table.Len())
	stop, _ := table.Lookup("1")
	assert.Equal(t, "first", stop.Name)
}

func TestNilTable(t *testing.T) {
	var table *Table
	_, ok := table.Lookup("1")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}

var gtfsFiles = map[string]string{
	"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
		"TTC,Toronto Transit Commission,https://www.ttc.ca,America/Toronto\n",
	"routes.txt": "route_id,agency_id,route_short_name,route_long_name,route_type\n" +
		"504,TTC,504,King,0\n",
	"stops.txt": "stop_id,stop_code,stop_name,stop_lat,stop_lon\n" +
		"100,14225,King St West at Spadina Ave,43.64514,-79.39501\n" +
		"101,,Spadina Station,43.66729,-79.40369\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"WEEK,1,1,1,1,1,1,1,20250101,20261231\n",
	"trips.txt": "route_id,service_id,trip_id\n" +
		"504,WEEK,T1\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,08:00:00,08:00:00,100,1\n" +
		"T1,08:05:00,08:05:00,101,2\n",
}

func buildFeed(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range gtfsFiles {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLoadGTFS(t *testing.T) {
	table, err := LoadGTFS(buildFeed(t))
	require.NoError(t, err)

	stop, ok := table.Lookup("14225")
	require.True(t, ok, "stops are keyed by stop code")
	assert.Equal(t, "King St West at Spadina Ave", stop.Name)

	stop, ok = table.Lookup("101")
	require.True(t, ok, "stops without a code fall back to the stop id")
	assert.Equal(t, "Spadina Station", stop.Name)
	assert.InDelta(t, 43.66729, stop.Latitude, 1e-9)
}

func TestLoadDispatchesOnZipExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(path, buildFeed(t), 0o600))

	table, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoadGTFSInvalidArchive(t *testing.T) {
	_, err := LoadGTFS([]byte("not a zip"))
	assert.Error(t, err)
}

func TestRecordsSortedByID(t *testing.T) {
	table := NewTable([]models.StopRecord{
		models.NewStopRecord("8812", "Jane St at Wilson Ave", 43.72219, -79.50474),
		models.NewStopRecord("14225", "King St West at Spadina Ave", 43.64514, -79.39501),
	})

	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "14225", records[0].StopID)
	assert.Equal(t, "8812", records[1].StopID)

	var nilTable *Table
	assert.Empty(t, nilTable.Records())
}
