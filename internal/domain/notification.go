package domain

// ReportIssueRequest is the request to email an issue report to the maintainer.
// Prompt and Response may be empty.
type ReportIssueRequest struct {
	Email    string  `json:"email" binding:"required"`
	Persona  string  `json:"persona" binding:"required"`
	Prompt   string  `json:"prompt"`
	Response string  `json:"response"`
	Comment  *string `json:"comment,omitempty"`
}

// SendTranscriptRequest is the request to email a transcript to the user
type SendTranscriptRequest struct {
	Email      string `json:"email" binding:"required"`
	Persona    string `json:"persona" binding:"required"`
	Transcript string `json:"transcript"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
