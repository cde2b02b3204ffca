package registry

import (
	"context"
	"time"
)

// Service names in their fixed call order. NORQ is the credit/identity
// registry, EKENG the state income registry, ACRA the company registry and
// DMS the scoring aggregator that receives the earlier calls' output.
const (
	ServiceNorq  = "norq"
	ServiceEkeng = "ekeng"
	ServiceAcra  = "acra"
	ServiceDms   = "dms"
)

// CallParams is the applicant identifying triple every registry receives.
type CallParams struct {
	NationalID string `json:"nationalId"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// PriorResults maps service name to the successful payload it returned,
// accumulated in call order and handed to later services as context.
type PriorResults map[string]map[string]interface{}

// CallResult is the outcome of a single registry call. Failure is a value,
// not an error: adapters only return a Go error for conditions the
// orchestrator could not record as a failed result.
type CallResult struct {
	Success      bool                   `json:"success"`
	Data         map[string]interface{} `json:"data,omitempty"`
	ErrorMessage string                 `json:"error,omitempty"`
	TimedOut     bool                   `json:"timed_out,omitempty"`
	RequestedAt  time.Time              `json:"requested_at"`
	RespondedAt  time.Time              `json:"responded_at"`
}

// ServiceAdapter is the uniform contract to one external registry. Adapters
// are stateless; the per-service timeout budget lives inside the adapter so
// the orchestrator stays transport-agnostic.
type ServiceAdapter interface {
	Name() string
	SequenceOrder() int
	Call(ctx context.Context, params CallParams, prior PriorResults) *CallResult
}
