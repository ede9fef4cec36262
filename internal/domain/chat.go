package domain

import (
	"encoding/json"
	"time"
)

// Session represents one persona conversation for a user
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PersonaID int64     `json:"persona_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is one prompt/response pair recorded within a session
type Transcript struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptRow is a transcript joined with its session and persona
type TranscriptRow struct {
	Prompt           string
	Response         string
	Timestamp        time.Time
	Persona          string
	SessionCreatedAt time.Time
	// Zoned is set when the store keeps timestamps with a UTC offset
	Zoned bool
}

// TranscriptEntry is a single entry inside a grouped transcript bucket
type TranscriptEntry struct {
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// StartSessionRequest is the request to start a session
type StartSessionRequest struct {
	Email   string `json:"email" binding:"required"`
	Persona string `json:"persona" binding:"required"`
}

// StartSessionResponse is returned after a session is created
type StartSessionResponse struct {
	SessionID        int64     `json:"sessionId"`
	SessionCreatedAt time.Time `json:"sessionCreatedAt"`
}

// SaveTranscriptRequest is the request to record a transcript entry
type SaveTranscriptRequest struct {
	SessionID int64  `json:"sessionId"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
}

// SaveTranscriptResponse is returned after a transcript entry is stored
type SaveTranscriptResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// TranscriptsResponse groups transcript entries by persona and session minute
type TranscriptsResponse struct {
	Transcripts map[string][]TranscriptEntry `json:"transcripts"`
}

// ChatPayload is an opaque inference request or response body, relayed as-is
type ChatPayload = json.RawMessage

// ChatResult is the relayed upstream answer
type ChatResult struct {
	StatusCode int
	Body       ChatPayload
}
