package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestExtractIDFromParams(t *testing.T) {
	testCases := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "Basic ID",
			id:   "14225",
			want: "14225",
		},
		{
			name: "ID with JSON extension",
			id:   "14225.json",
			want: "14225",
		},
		{
			name: "ID with multiple dots",
			id:   "789.data.json",
			want: "789.data",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()

			var result string
			router.HandlerFunc(http.MethodGet, "/api/stops/:stopID", func(w http.ResponseWriter, r *http.Request) {
				result = ExtractIDFromParams(r, "stopID")
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/stops/"+tc.id, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", ClientIP(req, false))
	assert.Equal(t, "10.0.0.7", ClientIP(req, true))

	req.Header.Set("X-Forwarded-For", "1.2.3.4, 203.0.113.9")
	assert.Equal(t, "10.0.0.7", ClientIP(req, false), "forwarded header ignored without a trusted proxy")
	assert.Equal(t, "203.0.113.9", ClientIP(req, true), "last hop is the one the proxy appended")

	req.Header.Add("X-Forwarded-For", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(req, true))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", ClientIP(req, false))
}
