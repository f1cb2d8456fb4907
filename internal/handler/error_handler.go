package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peerchat-service/internal/domain"
)

// badRequest writes a 400 validation response.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   gin.H{"code": "VALIDATION_ERROR", "message": message},
	})
}

// intQuery reads an integer query parameter, falling back to def.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return def
	}
	return val
}

// uuidParam parses a path parameter as a UUID, responding 400 on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps service layer errors to HTTP responses. Every
// handler funnels errors through here so the status mapping lives in
// one place.
func handleServiceError(c *gin.Context, err error) {
	code, status := classify(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrInvitationNotFound),
		errors.Is(err, domain.ErrRequestNotFound):
		return "NOT_FOUND", http.StatusNotFound

	case errors.Is(err, domain.ErrRoomFull):
		return "ROOM_FULL", http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyMember):
		return "ALREADY_MEMBER", http.StatusBadRequest
	case errors.Is(err, domain.ErrNotMember):
		return "NOT_A_PARTICIPANT", http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateInvitation):
		return "DUPLICATE_INVITE", http.StatusBadRequest
	case errors.Is(err, domain.ErrInvitationExpired):
		return "INVITATION_EXPIRED", http.StatusBadRequest
	case errors.Is(err, domain.ErrInvitationResponded):
		return "ALREADY_RESPONDED", http.StatusBadRequest

	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrMessageTooLong),
		errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrInvalidRoomKind),
		errors.Is(err, domain.ErrInvalidMessageKind),
		errors.Is(err, domain.ErrInvalidReactionKind),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrReplyOtherRoom):
		return "VALIDATION_ERROR", http.StatusBadRequest

	case errors.Is(err, domain.ErrNotAuthenticated):
		return "UNAUTHORIZED", http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return "FORBIDDEN", http.StatusForbidden

	default:
		return "INTERNAL_ERROR", http.StatusInternalServerError
	}
}
