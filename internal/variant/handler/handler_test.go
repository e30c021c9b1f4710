package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/petstack/catalog-service/internal/variant"
	"github.com/petstack/catalog-service/internal/variant/dto"
	"github.com/petstack/catalog-service/pkg/apperr"
	"github.com/petstack/catalog-service/pkg/logger"
)

type fakeUseCase struct {
	availability map[string][]variant.OptionValue
	result       *dto.ResolveResult
	err          error

	gotSelections map[string]string
}

func (f *fakeUseCase) Availability(_ context.Context, _ string, selections map[string]string) (map[string][]variant.OptionValue, error) {
	f.gotSelections = selections
	return f.availability, f.err
}

func (f *fakeUseCase) Resolve(_ context.Context, _ string, selections map[string]string) (*dto.ResolveResult, error) {
	f.gotSelections = selections
	return f.result, f.err
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field) {}
func (nopLogger) Info(string, ...zap.Field)  {}
func (nopLogger) Warn(string, ...zap.Field)  {}
func (nopLogger) Error(string, ...zap.Field) {}
func (nopLogger) Fatal(string, ...zap.Field) {}
func (nopLogger) Sync() error                { return nil }

var _ logger.ZapLogger = nopLogger{}

func newRouter(uc variant.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewVariantHandler(uc, nopLogger{}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolveEmptyBodyReachesUseCase(t *testing.T) {
	uc := &fakeUseCase{err: apperr.InvalidInput("incomplete selections")}
	r := newRouter(uc)

	// no body at all is not a malformed request; the usecase decides
	w := doRequest(r, http.MethodPost, "/api/v1/variants/COL-BLK-M/resolve", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"found":false`)
	assert.Contains(t, w.Body.String(), "incomplete selections")
}

func TestResolveMalformedBody(t *testing.T) {
	uc := &fakeUseCase{}
	r := newRouter(uc)

	w := doRequest(r, http.MethodPost, "/api/v1/variants/COL-BLK-M/resolve", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"found":false`)
}

func TestResolveNotFoundEnvelope(t *testing.T) {
	uc := &fakeUseCase{err: apperr.NotFound("no matching variant")}
	r := newRouter(uc)

	w := doRequest(r, http.MethodPost, "/api/v1/variants/COL-BLK-M/resolve", `{"selections":{"Size":"M"}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"found":false`)
}

func TestResolveInternalErrorEnvelope(t *testing.T) {
	uc := &fakeUseCase{err: errors.New("boom")}
	r := newRouter(uc)

	w := doRequest(r, http.MethodPost, "/api/v1/variants/COL-BLK-M/resolve", `{"selections":{"Size":"M"}}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"found":false`)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestAvailabilityEmptyBody(t *testing.T) {
	uc := &fakeUseCase{availability: map[string][]variant.OptionValue{
		"Size": {{Value: "M", Available: true}},
	}}
	r := newRouter(uc)

	w := doRequest(r, http.MethodPost, "/api/v1/variants/COL-BLK-M/availability", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"byOption"`)
	assert.Nil(t, uc.gotSelections)
}

func TestAvailabilitySelectedAlias(t *testing.T) {
	uc := &fakeUseCase{availability: map[string][]variant.OptionValue{}}
	r := newRouter(uc)

	w := doRequest(r, http.MethodPost, "/api/v1/variants/COL-BLK-M/availability", `{"selected":{"Color":"Red"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"Color": "Red"}, uc.gotSelections)
}
