package transit

import (
	"context"
	"io"
	"sync"
)

// MockClient is an in-memory Client for tests of the packages built on top
// of the transit service.
type MockClient struct {
	mu        sync.Mutex
	stops     map[string]SeekResponse
	locations map[string]VehicleLocation
	infos     map[string]VehicleInfo
	upload    UploadResponse
	failures  map[string]error
	calls     map[string]int
}

var _ Client = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{
		stops:     make(map[string]SeekResponse),
		locations: make(map[string]VehicleLocation),
		infos:     make(map[string]VehicleInfo),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (m *MockClient) MockSetStop(stopID string, resp SeekResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops[stopID] = resp
}

func (m *MockClient) MockSetLocation(loc VehicleLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[loc.VehicleID.String()] = loc
}

func (m *MockClient) MockSetInfo(vehicleNumber string, info VehicleInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos[vehicleNumber] = info
}

func (m *MockClient) MockSetUpload(resp UploadResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upload = resp
}

// MockFail makes every call to endpoint return err. A nil err clears it.
func (m *MockClient) MockFail(endpoint string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, endpoint)
		return
	}
	m.failures[endpoint] = err
}

// Calls returns how many times endpoint was called.
func (m *MockClient) Calls(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[endpoint]
}

func (m *MockClient) enter(endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[endpoint]++
	return m.failures[endpoint]
}

func (m *MockClient) Seek(ctx context.Context, stopID string) (*SeekResponse, error) {
	if err := m.enter("seek"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	resp, ok := m.stops[stopID]
	if !ok {
		return &SeekResponse{}, nil
	}
	return &resp, nil
}

func (m *MockClient) VehicleLocations(ctx context.Context, vehicleNumbers []string) ([]VehicleLocation, error) {
	if len(vehicleNumbers) == 0 {
		return nil, nil
	}
	if err := m.enter("vehicles"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []VehicleLocation
	for _, n := range vehicleNumbers {
		if loc, ok := m.locations[n]; ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (m *MockClient) VehicleInfo(ctx context.Context, vehicleNumber string) (*VehicleInfo, error) {
	if err := m.enter("vehicleinfo"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	info := m.infos[vehicleNumber]
	return &info, nil
}

func (m *MockClient) Upload(ctx context.Context, filename string, image io.Reader) (*UploadResponse, error) {
	if err := m.enter("upload"); err != nil {
		return nil, err
	}
	if _, err := io.Copy(io.Discard, image); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	resp := m.upload
	return &resp, nil
}
