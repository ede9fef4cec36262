package domain

import "strings"

// User is identified by a normalized email address
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// UserSessionRow is one row of the debug lookup; session fields are nil
// when the user has no sessions
type UserSessionRow struct {
	UserID    int64   `json:"user_id"`
	Email     string  `json:"email"`
	SessionID *int64  `json:"session_id"`
	Persona   *string `json:"persona"`
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
