package server

import (
	"encoding/json"
	"time"
)

// HTTPError is the unified error envelope for all API responses.
type HTTPError struct {
	Error string `json:"error"`
}

// AuthSignupRequest creates a new account.
type AuthSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthLoginRequest exchanges credentials for a JWT.
type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the signed JWT; the same token is also set as an
// auth cookie.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateThreadResponse returns the identifier of a freshly created
// conversation thread.
type CreateThreadResponse struct {
	ThreadID string `json:"thread_id"`
}

// PostMessageRequest is one user turn.
type PostMessageRequest struct {
	Message string `json:"message"`
}

// TurnResponse is the agent's settled reply for one turn. IsFinal reports
// whether the turn ended in a finalized marketing media plan; FinalPlan then
// carries the same canonical JSON document as Message.
type TurnResponse struct {
	Message   string          `json:"message"`
	IsFinal   bool            `json:"is_final"`
	FinalPlan json.RawMessage `json:"final_plan,omitempty"`
}

// TranscriptMessage is one entry of a thread transcript.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// TranscriptResponse is the full message history of a thread in append order.
type TranscriptResponse struct {
	ThreadID string              `json:"thread_id"`
	Messages []TranscriptMessage `json:"messages"`
}

// PlanResponse is an archived plan document.
type PlanResponse struct {
	ThreadID  string          `json:"thread_id"`
	Plan      json.RawMessage `json:"plan"`
	UpdatedAt time.Time       `json:"updated_at"`
}
