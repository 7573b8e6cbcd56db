package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ritualhq/backend/internal/apierror"
	"github.com/ritualhq/backend/internal/logger"
	"github.com/ritualhq/backend/internal/models"
	"github.com/ritualhq/backend/internal/service"
)

// ConversationHandler handles cached chat transcript requests
type ConversationHandler struct {
	conversations service.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// GetTranscript returns the user's cached transcript window, oldest
// turn first. An expired or absent cache reads as an empty transcript.
// GET /api/v1/conversation
func (h *ConversationHandler) GetTranscript(c *gin.Context) {
	userID := c.GetString("user_id")
	log := logger.Ctx(c.Request.Context())

	turns, err := h.conversations.GetTranscript(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to read transcript", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

// AppendTurn appends one turn and returns the updated window
// POST /api/v1/conversation/turns
func (h *ConversationHandler) AppendTurn(c *gin.Context) {
	userID := c.GetString("user_id")
	log := logger.Ctx(c.Request.Context())

	var req models.AppendTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fieldErrs := bindingFieldErrors(err); len(fieldErrs) > 0 {
			apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrs))
			return
		}
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
			"Request body is not valid JSON", "Please check the request format"))
		return
	}

	turns, err := h.conversations.AppendTurn(c.Request.Context(), userID, req)
	if err != nil {
		log.Error("failed to append turn", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"turns": turns})
}

// bindingFieldErrors converts validator failures into per-field errors
// so clients see every invalid field, not just the first
func bindingFieldErrors(err error) []apierror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]apierror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())
		default:
			msg = fmt.Sprintf("failed %s validation", fe.Tag())
		}
		out = append(out, apierror.FieldError{Field: field, Message: msg, Code: fe.Tag()})
	}
	return out
}
