package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/resolver/internal/application/resolver"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
	"github.com/erp/resolver/internal/domain/shared"
	"github.com/erp/resolver/internal/interfaces/http/dto"
	"github.com/erp/resolver/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 9, 10, 12, 0, 0, 0, time.Local)

type fakeDirectory struct {
	names map[matching.EntityType][]string
	err   error
}

func (f *fakeDirectory) ListNames(_ context.Context, entity matching.EntityType) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.names[entity], nil
}

type fakeSource struct {
	checks []ledger.Check
	err    error
}

func (f *fakeSource) ListChecks(_ context.Context, from, to time.Time) ([]ledger.Check, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []ledger.Check
	for _, c := range f.checks {
		d, ok := c.ParsedDate()
		if ok && !d.Before(from) && d.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeWriter writes imports straight into the fake directory and source
type fakeWriter struct {
	dir *fakeDirectory
	src *fakeSource
	err error
}

func (f *fakeWriter) SaveNames(_ context.Context, entity matching.EntityType, names []string) error {
	if f.err != nil {
		return f.err
	}
	if f.dir.names == nil {
		f.dir.names = map[matching.EntityType][]string{}
	}
	f.dir.names[entity] = append(f.dir.names[entity], names...)
	return nil
}

func (f *fakeWriter) SaveChecks(_ context.Context, checks []ledger.Check) error {
	if f.err != nil {
		return f.err
	}
	f.src.checks = append(f.src.checks, checks...)
	return nil
}

var errBookkeeping = errors.New("bookkeeping unavailable")

func newCheck(id, payee, date string) ledger.Check {
	return ledger.Check{TxnID: id, Payee: payee, Amount: decimal.NewFromInt(25), Date: date}
}

func newTestService(dir *fakeDirectory, src *fakeSource, opts ...resolver.Option) *resolver.Service {
	opts = append([]resolver.Option{
		resolver.WithClock(shared.NewFakeClock(testNow)),
		resolver.WithLocation(time.Local),
	}, opts...)
	return resolver.NewService(dir, src, opts...)
}

func setupRouter(registrar interface{ RegisterRoutes(*gin.RouterGroup) }) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	r := gin.New()
	r.Use(middleware.RequestID())
	registrar.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the success envelope's data into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}
