package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ritualhq/backend/internal/models"
)

type stubConversationService struct {
	turns []models.ConversationTurn
	err   error
}

func (s *stubConversationService) GetTranscript(ctx context.Context, userID string) ([]models.ConversationTurn, error) {
	return s.turns, s.err
}

func (s *stubConversationService) AppendTurn(ctx context.Context, userID string, req models.AppendTurnRequest) ([]models.ConversationTurn, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.turns = append(s.turns, models.ConversationTurn{Role: req.Role, Content: req.Content})
	return s.turns, nil
}

func postTurn(t *testing.T, handler *ConversationHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/conversation/turns", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", "user-1")

	handler.AppendTurn(c)
	return w
}

func TestAppendTurnValidationErrors(t *testing.T) {
	handler := NewConversationHandler(&stubConversationService{})

	w := postTurn(t, handler, `{"role": "narrator", "content": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var problem map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if problem["type"] != "urn:ritual:error:validation" {
		t.Errorf("problem type = %v, want urn:ritual:error:validation", problem["type"])
	}

	// both the bad role and the missing content must be reported
	errs, ok := problem["errors"].([]interface{})
	if !ok || len(errs) != 2 {
		t.Errorf("errors = %v, want 2 field errors", problem["errors"])
	}
}

func TestAppendTurnMalformedJSON(t *testing.T) {
	handler := NewConversationHandler(&stubConversationService{})

	w := postTurn(t, handler, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var problem map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if problem["type"] != "urn:ritual:error:bad_request" {
		t.Errorf("problem type = %v, want urn:ritual:error:bad_request", problem["type"])
	}
}

func TestAppendTurnSuccess(t *testing.T) {
	handler := NewConversationHandler(&stubConversationService{})

	w := postTurn(t, handler, `{"role": "user", "content": "how is my water streak?"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Turns []models.ConversationTurn `json:"turns"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response shape: %v", err)
	}
	if len(resp.Turns) != 1 || resp.Turns[0].Content != "how is my water streak?" {
		t.Errorf("turns = %+v", resp.Turns)
	}
}
