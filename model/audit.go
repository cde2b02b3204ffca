package model

import "time"

// Audit actions recorded by the workflow engine and the orchestrator.
const (
	ActionStageTransition = "STAGE_TRANSITION"
	ActionIdentityCheck   = "IDENTITY_VERIFICATION"
	ActionEnrichmentCall  = "ENRICHMENT_CALL"
	ActionManualDecision  = "MANUAL_DECISION"
)

// AuditLog is an append-only audit entry keyed to an application.
type AuditLog struct {
	LogID         string    `json:"log_id"`
	ApplicationID string    `json:"application_id"`
	Action        string    `json:"action"`
	Details       string    `json:"details"`
	CreatedAt     time.Time `json:"created_at"`
}
