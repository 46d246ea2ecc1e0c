package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransitServer answers the calls the lookup and upload commands make.
func fakeTransitServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /seek", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Stop string `json:"stop"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Stop != "14225" {
			http.Error(w, "unknown stop", http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{
			"routes": ["510-Spadina", "504-King"],
			"vehicles": [
				{"id": "504_0", "vehicle_number": 4401, "minutes": "3"},
				{"id": "504_1", "vehicle_number": "4401", "minutes": 7},
				{"id": "510_0", "vehicle_number": "4520", "minutes": null}
			]
		}`)
	})
	mux.HandleFunc("POST /vehicles", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"vehicles": [{"vehicle_id": "4401", "latitude": "43.645", "longitude": -79.395, "occupancy_status": "FULL"}]}`)
	})
	mux.HandleFunc("POST /vehicleinfo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"delay": "0:45 ahead"}`)
	})
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		_, _, err := r.FormFile("image")
		require.NoError(t, err)
		_, _ = io.WriteString(w, `{"stop": 14225, "routes": ["510-Spadina", "304 King Night"]}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	server := fakeTransitServer(t)

	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args,
		"--base-url", server.URL,
		"--stops", "../../internal/stops/testdata/stops.json",
		"--env", "test",
		"--log-level", "error",
		"--timezone", "UTC",
	))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLookupCommand(t *testing.T) {
	out, err := runCommand(t, "lookup", "14225")
	require.NoError(t, err)

	assert.Contains(t, out, "King St West at Spadina Ave")
	assert.Contains(t, out, "504 King")
	assert.Contains(t, out, "In 3 minutes")
	assert.Contains(t, out, "Full")
	assert.Contains(t, out, "510 Spadina")
	assert.Contains(t, out, "Time unknown")
	assert.NotContains(t, out, "In 7 minutes", "the duplicate vehicle is dropped")
}

func TestLookupCommandRoute(t *testing.T) {
	out, err := runCommand(t, "lookup", "14225", "--route", "504")
	require.NoError(t, err)

	assert.Contains(t, out, "Route 504 King [standard]")
	assert.Contains(t, out, "+0:45")
	assert.NotContains(t, out, "4520")
}

func TestLookupCommandVehicle(t *testing.T) {
	out, err := runCommand(t, "lookup", "14225", "--vehicle", "4401")
	require.NoError(t, err)
	assert.Contains(t, out, "43.64500, -79.39500")

	_, err = runCommand(t, "lookup", "14225", "--vehicle", "1111")
	assert.ErrorContains(t, err, "vehicle not found")
}

func TestLookupCommandErrors(t *testing.T) {
	_, err := runCommand(t, "lookup", "8812")
	assert.ErrorContains(t, err, "unexpected status 404")

	_, err = runCommand(t, "lookup", "<b></b>")
	assert.Error(t, err)
}

func TestUploadCommand(t *testing.T) {
	image := filepath.Join(t.TempDir(), "sign.jpg")
	require.NoError(t, os.WriteFile(image, []byte("\xff\xd8\xff fake"), 0o600))

	out, err := runCommand(t, "upload", image)
	require.NoError(t, err)

	assert.Contains(t, out, "Stop 14225  King St West at Spadina Ave")
	assert.Less(t, bytes.Index([]byte(out), []byte("304")), bytes.Index([]byte(out), []byte("510")))
	assert.Contains(t, out, "express")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCommandPrintsUpdatesUntilCancelled(t *testing.T) {
	server := fakeTransitServer(t)
	out := &syncBuffer{}
	cmd := newRootCommand(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"watch", "14225", "--route", "504",
		"--base-url", server.URL, "--env", "test", "--log-level", "error"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Route 504 King")
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not exit after cancel")
	}
}
