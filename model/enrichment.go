/*
Copyright 2024 Vistos Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import "time"

// EnrichmentRequest statuses. The aggregate status is a pure function of the
// per-service result set, independent of the owning application's status.
const (
	EnrichmentPending    = "PENDING"
	EnrichmentInProgress = "IN_PROGRESS"
	EnrichmentCompleted  = "COMPLETED"
	EnrichmentPartial    = "PARTIAL"
	EnrichmentFailed     = "FAILED"
)

// EnrichmentResult statuses for a single external call.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultTimeout = "timeout"
)

// EnrichmentRequest tracks one enrichment pipeline run. Exactly one exists
// per application.
type EnrichmentRequest struct {
	EnrichmentRequestID string             `json:"enrichment_request_id"`
	NationalID          string             `json:"national_id"`
	Phone               string             `json:"phone"`
	Email               string             `json:"email"`
	Status              string             `json:"status"`
	Results             []EnrichmentResult `json:"results,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// IsSettled reports whether the request has reached a final aggregate
// status. An IN_PROGRESS request is not settled: a worker may have died
// mid-pipeline and the run must be repeatable.
func (r *EnrichmentRequest) IsSettled() bool {
	switch r.Status {
	case EnrichmentCompleted, EnrichmentPartial, EnrichmentFailed:
		return true
	}
	return false
}

// EnrichmentResult is the immutable audit record of one external call.
// Rows are append-only and never mutated after creation.
type EnrichmentResult struct {
	EnrichmentResultID  string                 `json:"enrichment_result_id"`
	EnrichmentRequestID string                 `json:"enrichment_request_id"`
	ServiceName         string                 `json:"service_name"`
	SequenceOrder       int                    `json:"sequence_order"`
	Status              string                 `json:"status"`
	ResponseData        map[string]interface{} `json:"response_data,omitempty"`
	ErrorMessage        string                 `json:"error_message,omitempty"`
	RequestedAt         time.Time              `json:"requested_at"`
	RespondedAt         time.Time              `json:"responded_at"`
}

// ResponseTime returns the call duration derived from the recorded
// request/response timestamps.
func (r *EnrichmentResult) ResponseTime() time.Duration {
	return r.RespondedAt.Sub(r.RequestedAt)
}

// AggregateStatus derives the request status from per-service outcomes:
// no successes is FAILED, all successes is COMPLETED, anything in between
// is PARTIAL.
func AggregateStatus(results []EnrichmentResult, total int) string {
	successes := 0
	for _, r := range results {
		if r.Status == ResultSuccess {
			successes++
		}
	}
	switch {
	case successes == 0:
		return EnrichmentFailed
	case successes == total:
		return EnrichmentCompleted
	default:
		return EnrichmentPartial
	}
}
