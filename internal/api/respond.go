package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindAccessDenied:
		return http.StatusForbidden
	case service.KindValidationFailed:
		return http.StatusBadRequest
	case service.KindAlreadyLiked, service.KindNotLiked,
		service.KindAlreadyFavorited, service.KindNotFavorited,
		service.KindConflict:
		return http.StatusConflict
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code", "fields"}. Causes of server
// errors are never exposed.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	body := gin.H{"code": kind, "error": "internal server error"}
	var e *service.Error
	if errors.As(err, &e) && e.Message != "" {
		body["error"] = e.Message
		if len(e.Fields) > 0 {
			body["fields"] = e.Fields
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(kind), body)
}

func badRequest(c *gin.Context, message string, fields map[string]string) {
	respondError(c, &service.Error{Kind: service.KindValidationFailed, Message: message, Fields: fields})
}

// pathID parses a uuid path parameter, answering 404 for anything malformed
// since no such resource can exist.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, &service.Error{Kind: service.KindNotFound, Message: "resource not found"})
		return uuid.Nil, false
	}
	return id, true
}

// requester returns the authenticated user, or nil for anonymous requests.
func requester(c *gin.Context) *uuid.UUID {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	return &id
}

// currentUser returns the authenticated user on routes behind AuthMiddleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		respondError(c, &service.Error{Kind: service.KindUnauthorized, Message: "authentication required"})
	}
	return id, ok
}
