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

// Stage is one named step in the global pipeline catalog. Products reference
// stages through ProductStage links that carry the per-product order.
type Stage struct {
	StageID     string    `json:"stage_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductStage links a Stage into a Product's ordered pipeline. TargetStatus
// is the application status the workflow engine derives when an application
// enters this stage; it is stored with the configuration rather than inferred
// from the stage display name.
type ProductStage struct {
	ProductStageID string `json:"product_stage_id"`
	ProductID      string `json:"product_id"`
	StageID        string `json:"stage_id"`
	StageName      string `json:"stage_name,omitempty"`
	Order          int    `json:"order"`
	TargetStatus   string `json:"target_status,omitempty"`
	IsRequired     bool   `json:"is_required"`
}

// ProductEntity declares a participant role a Product allows or requires.
type ProductEntity struct {
	ProductEntityID string `json:"product_entity_id"`
	ProductID       string `json:"product_id"`
	EntityType      string `json:"entity_type"`
	Role            string `json:"role"`
	IsRequired      bool   `json:"is_required"`
}

// Product defines a loan configuration: currency, bounds, rate and the
// ordered stage pipeline every application of this product walks through.
// Live applications treat product configuration as immutable.
type Product struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Currency     string          `json:"currency"`
	MinAmount    int64           `json:"min_amount"`
	MaxAmount    int64           `json:"max_amount"`
	InterestRate float64         `json:"interest_rate"`
	MinTerm      int             `json:"min_term"`
	MaxTerm      int             `json:"max_term"`
	Stages       []ProductStage  `json:"stages,omitempty"`
	Entities     []ProductEntity `json:"entities,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// legacy stage-name fallback, used only when a ProductStage was stored
// without a target status
var stageNameToStatus = map[string]string{
	"Entities":         StatusEnriching,
	"Documents":        StatusEnriching,
	"Credit Bureau":    StatusEnriching,
	"Salary Source":    StatusEnriching,
	"Scoring":          StatusOfferReady,
	"Manual Review":    StatusManualReview,
	"Internal Signing": StatusSigning,
	"Approval":         StatusApproved,
	"Disbursement":     StatusDisbursed,
}

// DeriveStatus resolves the application status for entering this stage.
// Configured target status wins; unknown stage names default to SUBMITTED.
func (ps *ProductStage) DeriveStatus() string {
	if ps.TargetStatus != "" {
		return ps.TargetStatus
	}
	if status, ok := stageNameToStatus[ps.StageName]; ok {
		return status
	}
	return StatusSubmitted
}

// ValidateStageOrder checks that stage orders form a contiguous 1..N sequence
// with no gaps or duplicates. Stages must already be sorted by order.
func (p *Product) ValidateStageOrder() error {
	for i, ps := range p.Stages {
		if ps.Order != i+1 {
			return fmt.Errorf("product %s stage order broken at position %d: got order %d", p.ProductID, i+1, ps.Order)
		}
	}
	return nil
}

// ValidateAmount checks a requested amount against the product bounds.
func (p *Product) ValidateAmount(amount int64) error {
	if amount < p.MinAmount || amount > p.MaxAmount {
		return fmt.Errorf("amount %d outside product bounds [%d, %d] %s", amount, p.MinAmount, p.MaxAmount, p.Currency)
	}
	return nil
}

// ValidateTerm checks a requested term against the product bounds.
func (p *Product) ValidateTerm(term int) error {
	if term < p.MinTerm || term > p.MaxTerm {
		return fmt.Errorf("term %d outside product bounds [%d, %d] months", term, p.MinTerm, p.MaxTerm)
	}
	return nil
}
