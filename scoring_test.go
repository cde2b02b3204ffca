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

package vistos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOfferDeterministic(t *testing.T) {
	input := ScoringInput{CreditScore: 720, RiskLevel: "LOW", MonthlyIncome: 850000, RequestedTerm: 24}

	first := CalculateOffer(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CalculateOffer(input))
	}
}

func TestCalculateOfferLowCreditScore(t *testing.T) {
	offer := CalculateOffer(ScoringInput{CreditScore: 300, RiskLevel: "LOW", MonthlyIncome: 850000, RequestedTerm: 24})

	assert.False(t, offer.Approved)
	assert.Equal(t, "credit score below minimum threshold", offer.RejectionReason)
	assert.Zero(t, offer.ApprovedLimit)
}

func TestCalculateOfferLowIncome(t *testing.T) {
	offer := CalculateOffer(ScoringInput{CreditScore: 700, RiskLevel: "LOW", MonthlyIncome: 99999, RequestedTerm: 24})

	assert.False(t, offer.Approved)
	assert.Equal(t, "income below minimum threshold", offer.RejectionReason)
}

func TestCalculateOfferMissingDataRejects(t *testing.T) {
	offer := CalculateOffer(ScoringInput{RequestedTerm: 24})

	assert.False(t, offer.Approved)
}

func TestCalculateOfferIncomeMultiple(t *testing.T) {
	// 850000 * 4 = 3,400,000 with a 720 score, LOW risk
	offer := CalculateOffer(ScoringInput{CreditScore: 720, RiskLevel: "LOW", MonthlyIncome: 850000, RequestedTerm: 24})

	assert.True(t, offer.Approved)
	assert.Equal(t, int64(3_400_000), offer.ApprovedLimit)
	assert.Equal(t, 12.5, offer.InterestRate)
	assert.Equal(t, 24, offer.TermMonths)
}

func TestCalculateOfferMultiplierBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  int64
	}{
		{"score 651 gets four times income", 651, 800_000},
		{"score 650 gets three times income", 650, 600_000},
		{"score 751 gets six times income", 751, 1_200_000},
		{"score 750 gets four times income", 750, 800_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := CalculateOffer(ScoringInput{CreditScore: tt.score, RiskLevel: "LOW", MonthlyIncome: 200_000, RequestedTerm: 12})
			assert.True(t, offer.Approved)
			assert.Equal(t, tt.want, offer.ApprovedLimit)
		})
	}
}

func TestCalculateOfferLimitCap(t *testing.T) {
	offer := CalculateOffer(ScoringInput{CreditScore: 800, RiskLevel: "LOW", MonthlyIncome: 2_000_000, RequestedTerm: 12})

	assert.True(t, offer.Approved)
	assert.Equal(t, MaxApprovedLimit, offer.ApprovedLimit)
}

func TestCalculateOfferLimitRounding(t *testing.T) {
	// 123456 * 3 = 370368, rounded down to 370000
	offer := CalculateOffer(ScoringInput{CreditScore: 600, RiskLevel: "MEDIUM", MonthlyIncome: 123_456, RequestedTerm: 12})

	assert.True(t, offer.Approved)
	assert.Equal(t, int64(370_000), offer.ApprovedLimit)
}

func TestCalculateOfferRateByRisk(t *testing.T) {
	tests := []struct {
		risk string
		want float64
	}{
		{"LOW", 12.5},
		{"MEDIUM", 15.0},
		{"HIGH", 18.0},
		{"", 18.0},
		{"UNKNOWN", 18.0},
	}
	for _, tt := range tests {
		offer := CalculateOffer(ScoringInput{CreditScore: 700, RiskLevel: tt.risk, MonthlyIncome: 500_000, RequestedTerm: 12})
		assert.Equal(t, tt.want, offer.InterestRate, "risk %q", tt.risk)
	}
}

func TestCalculateOfferTermClamp(t *testing.T) {
	offer := CalculateOffer(ScoringInput{CreditScore: 700, RiskLevel: "LOW", MonthlyIncome: 500_000, RequestedTerm: 60})
	assert.Equal(t, MaxTermMonths, offer.TermMonths)

	offer = CalculateOffer(ScoringInput{CreditScore: 700, RiskLevel: "LOW", MonthlyIncome: 500_000, RequestedTerm: 12})
	assert.Equal(t, 12, offer.TermMonths)
}
