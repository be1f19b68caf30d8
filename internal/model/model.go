package model

import "time"

// AuditEvent is a single record emitted by the audit log. It is
// transport-agnostic so file and database sinks can fan out from the
// same value.
type AuditEvent struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Kind      string            `json:"kind"`       // request, security, error
	EventType string            `json:"event_type"` // e.g. login_success, token_redeemed
	Subject   string            `json:"subject,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// GenerationResult is the outcome of a successful generation pipeline run.
type GenerationResult struct {
	Document      string `json:"response"`
	ArtifactName  string `json:"-"`
	DownloadToken string `json:"-"`
}
