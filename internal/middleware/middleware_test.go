package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/metrics"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
	"github.com/pageza/recipeshare/backend/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// newValidator accepts only the token "good" for userID.
func newValidator(userID uuid.UUID) *testhelpers.MockTokenValidator {
	v := &testhelpers.MockTokenValidator{}
	v.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: userID}, nil)
	v.On("ValidateToken", mock.Anything).Return(nil, errors.New("bad token"))
	return v
}

func init() {
	gin.SetMode(gin.TestMode)
}

func whoAmI(c *gin.Context) {
	id, ok := UserID(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.String())
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	v := newValidator(userID)
	r := gin.New()
	r.GET("/me", AuthMiddleware(v), whoAmI)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/me", tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			} else {
				assert.JSONEq(t, `{"error":"`+errorMessage(tt.header)+`","code":"UNAUTHORIZED"}`, w.Body.String())
			}
		})
	}
}

func errorMessage(header string) string {
	if header == "Bearer nope" {
		return "invalid or expired token"
	}
	return "missing or malformed authorization header"
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	v := newValidator(userID)
	r := gin.New()
	r.GET("/recipes", OptionalAuth(v), whoAmI)

	w := serve(r, http.MethodGet, "/recipes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = serve(r, http.MethodGet, "/recipes", "Bearer good")
	assert.Equal(t, userID.String(), w.Body.String())

	w = serve(r, http.MethodGet, "/recipes", "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	v.AssertCalled(t, "ValidateToken", "expired")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"SERVER_ERROR"}`, w.Body.String())
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/ok", "").Code)
}

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/v1/recipes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/recipes/:id", "200")
	before := testutil.ToFloat64(counter)
	serve(r, http.MethodGet, "/api/v1/recipes/"+uuid.NewString(), "")
	serve(r, http.MethodGet, "/api/v1/recipes/"+uuid.NewString(), "")
	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	unmatched := metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	serve(r, http.MethodGet, "/nowhere", "")
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:8081"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8081", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
