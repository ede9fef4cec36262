package domain

import "strings"

// Persona is a named AI character configuration
type Persona struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	InteractionCount int64  `json:"interaction_count"`
}

// NormalizePersona trims a persona name
func NormalizePersona(name string) string {
	return strings.TrimSpace(name)
}
