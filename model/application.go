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

import (
	"fmt"
	"time"
)

// Application statuses. DISBURSED and REJECTED are terminal.
const (
	StatusSubmitted       = "SUBMITTED"
	StatusEnriching       = "ENRICHING"
	StatusOfferReady      = "OFFER_READY"
	StatusOfferSelected   = "OFFER_SELECTED"
	StatusSigning         = "SIGNING"
	StatusSigningComplete = "SIGNING_COMPLETE"
	StatusOTPVerified     = "OTP_VERIFIED"
	StatusManualReview    = "MANUAL_REVIEW"
	StatusApproved        = "APPROVED"
	StatusDisbursed       = "DISBURSED"
	StatusRejected        = "REJECTED"
)

// Application is the central aggregate of the origination pipeline. It is
// created at submission, mutated by every lifecycle transition and terminal
// at DISBURSED or REJECTED. Amounts are kept in currency minor units.
type Application struct {
	ApplicationID       string     `json:"application_id"`
	ProductID           string     `json:"product_id"`
	EnrichmentRequestID string     `json:"enrichment_request_id"`
	PartnerID           string     `json:"partner_id,omitempty"`
	Status              string     `json:"status"`
	CurrentStageID      string     `json:"current_stage_id,omitempty"`
	Currency            string     `json:"currency"`
	AmountRequested     int64      `json:"amount_requested"`
	TermRequested       int        `json:"term_requested"`
	ApprovedLimit       int64      `json:"approved_limit,omitempty"`
	ApprovedTerm        int        `json:"approved_term,omitempty"`
	InterestRate        float64    `json:"interest_rate,omitempty"`
	SelectedAmount      int64      `json:"selected_amount,omitempty"`
	SelectedTerm        int        `json:"selected_term,omitempty"`
	OTPHash             string     `json:"-"`
	OTPExpiresAt        *time.Time `json:"-"`
	BankName            string     `json:"bank_name,omitempty"`
	AccountNumber       string     `json:"account_number,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	MetaData            map[string]interface{} `json:"meta_data,omitempty"`
}

// IsTerminal reports whether the application can no longer move.
func (a *Application) IsTerminal() bool {
	return a.Status == StatusDisbursed || a.Status == StatusRejected
}

// GuardStatus checks the precondition for a lifecycle transition. It returns
// an error naming both statuses so guard failures are self-explanatory to the
// client; callers must not mutate anything when it fails.
func (a *Application) GuardStatus(required string) error {
	if a.Status != required {
		return fmt.Errorf("application %s is %s, action requires %s", a.ApplicationID, a.Status, required)
	}
	return nil
}

// Participant roles.
const (
	RoleApplicant   = "APPLICANT"
	RoleCoApplicant = "CO_APPLICANT"
	RoleGuarantor   = "GUARANTOR"
)

// Participant links an Entity to an Application with a role.
type Participant struct {
	ParticipantID string    `json:"participant_id"`
	ApplicationID string    `json:"application_id"`
	EntityID      string    `json:"entity_id"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}
