package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping() error { return p.err }

func TestSystemHandler_Health(t *testing.T) {
	svc := newTestService(&fakeDirectory{}, &fakeSource{})

	tests := []struct {
		name     string
		db       Pinger
		code     int
		status   string
		database string
	}{
		{name: "no database", db: nil, code: http.StatusOK, status: "healthy"},
		{name: "database up", db: fakePinger{}, code: http.StatusOK, status: "healthy", database: "connected"},
		{name: "database down", db: fakePinger{err: errors.New("closed")}, code: http.StatusServiceUnavailable, status: "unhealthy", database: "disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("resolver", tt.db, svc)
			r := setupRouter(h)
			r.GET("/health", h.Health)

			w := performRequest(r, http.MethodGet, "/health", nil)
			require.Equal(t, tt.code, w.Code)

			var resp HealthResponse
			decodeData(t, w, &resp)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, "resolver", resp.Service)
			assert.Equal(t, tt.database, resp.Database)
			require.NotNil(t, resp.Cache)
		})
	}
}

func TestSystemHandler_Ping(t *testing.T) {
	r := setupRouter(NewSystemHandler("resolver", nil, nil))

	w := performRequest(r, http.MethodGet, "/api/v1/system/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PingResponse
	decodeData(t, w, &resp)
	assert.Equal(t, "pong", resp.Message)
	assert.NotEmpty(t, resp.Timestamp)
}
