package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := map[service.ErrorKind]int{
		service.KindNotFound:         http.StatusNotFound,
		service.KindAccessDenied:     http.StatusForbidden,
		service.KindValidationFailed: http.StatusBadRequest,
		service.KindAlreadyLiked:     http.StatusConflict,
		service.KindNotLiked:         http.StatusConflict,
		service.KindAlreadyFavorited: http.StatusConflict,
		service.KindNotFavorited:     http.StatusConflict,
		service.KindConflict:         http.StatusConflict,
		service.KindUnauthorized:     http.StatusUnauthorized,
		service.KindServerError:      http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, statusFor(kind), kind)
	}
}

func TestRespondErrorHidesCauses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"SERVER_ERROR"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondError(c, &service.Error{Kind: service.KindServerError, Message: "failed to load recipe", Err: errors.New("disk full")})
	assert.JSONEq(t, `{"error":"failed to load recipe","code":"SERVER_ERROR"}`, w.Body.String())
}
