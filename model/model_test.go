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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("app")
	assert.True(t, strings.HasPrefix(id, "app_"))
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("app"))
}

func TestValidateStageOrder(t *testing.T) {
	product := &Product{
		ProductID: "prd_1",
		Stages: []ProductStage{
			{Order: 1}, {Order: 2}, {Order: 3},
		},
	}
	assert.NoError(t, product.ValidateStageOrder())
}

func TestValidateStageOrderGap(t *testing.T) {
	product := &Product{
		ProductID: "prd_1",
		Stages: []ProductStage{
			{Order: 1}, {Order: 3},
		},
	}
	assert.Error(t, product.ValidateStageOrder())
}

func TestValidateStageOrderDuplicate(t *testing.T) {
	product := &Product{
		ProductID: "prd_1",
		Stages: []ProductStage{
			{Order: 1}, {Order: 1}, {Order: 2},
		},
	}
	assert.Error(t, product.ValidateStageOrder())
}

func TestValidateStageOrderEmpty(t *testing.T) {
	product := &Product{ProductID: "prd_1"}
	assert.NoError(t, product.ValidateStageOrder())
}

func TestValidateAmountBounds(t *testing.T) {
	product := &Product{MinAmount: 100_000, MaxAmount: 5_000_000}

	assert.NoError(t, product.ValidateAmount(100_000))
	assert.NoError(t, product.ValidateAmount(5_000_000))
	assert.Error(t, product.ValidateAmount(99_999))
	assert.Error(t, product.ValidateAmount(5_000_001))
}

func TestValidateTermBounds(t *testing.T) {
	product := &Product{MinTerm: 12, MaxTerm: 60}

	assert.NoError(t, product.ValidateTerm(12))
	assert.NoError(t, product.ValidateTerm(60))
	assert.Error(t, product.ValidateTerm(11))
	assert.Error(t, product.ValidateTerm(61))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, (&Application{Status: StatusDisbursed}).IsTerminal())
	assert.True(t, (&Application{Status: StatusRejected}).IsTerminal())
	assert.False(t, (&Application{Status: StatusEnriching}).IsTerminal())
	assert.False(t, (&Application{Status: StatusOfferReady}).IsTerminal())
}

func TestIsSettled(t *testing.T) {
	assert.True(t, (&EnrichmentRequest{Status: EnrichmentCompleted}).IsSettled())
	assert.True(t, (&EnrichmentRequest{Status: EnrichmentPartial}).IsSettled())
	assert.True(t, (&EnrichmentRequest{Status: EnrichmentFailed}).IsSettled())
	assert.False(t, (&EnrichmentRequest{Status: EnrichmentPending}).IsSettled())
	assert.False(t, (&EnrichmentRequest{Status: EnrichmentInProgress}).IsSettled())
}

func TestGuardStatus(t *testing.T) {
	app := &Application{ApplicationID: "app_1", Status: StatusOfferReady}

	assert.NoError(t, app.GuardStatus(StatusOfferReady))
	err := app.GuardStatus(StatusSigningComplete)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is OFFER_READY")
	assert.Contains(t, err.Error(), "requires SIGNING_COMPLETE")
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "armenpoghosyan", NormalizeName("  Armen  Poghosyan "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Armen Poghosyan", " armen  POGHOSYAN"))
	assert.False(t, SameName("Armen", "Aram"))
	// Non-Latin scripts compare byte for byte after case folding.
	assert.True(t, SameName("Արմեն", "Արմեն"))
}

func TestSameBirthDate(t *testing.T) {
	utc := time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC)
	yerevan := time.Date(1990, 5, 14, 23, 45, 0, 0, time.FixedZone("AMT", 4*3600))

	assert.True(t, SameBirthDate(utc, yerevan))
	assert.False(t, SameBirthDate(utc, utc.AddDate(0, 0, 1)))
}

func TestAggregateStatus(t *testing.T) {
	success := EnrichmentResult{Status: ResultSuccess}
	failed := EnrichmentResult{Status: ResultFailed}
	timeout := EnrichmentResult{Status: ResultTimeout}

	assert.Equal(t, EnrichmentCompleted, AggregateStatus([]EnrichmentResult{success, success, success, success}, 4))
	assert.Equal(t, EnrichmentFailed, AggregateStatus([]EnrichmentResult{failed, failed, timeout, failed}, 4))
	assert.Equal(t, EnrichmentPartial, AggregateStatus([]EnrichmentResult{success, failed, success, timeout}, 4))
	assert.Equal(t, EnrichmentFailed, AggregateStatus(nil, 4))
}

func TestResponseTime(t *testing.T) {
	start := time.Now()
	result := &EnrichmentResult{RequestedAt: start, RespondedAt: start.Add(250 * time.Millisecond)}
	assert.Equal(t, 250*time.Millisecond, result.ResponseTime())
}
