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

// Scoring thresholds and caps. Amounts are in currency minor units.
const (
	MinCreditScore   = 500
	MinMonthlyIncome = int64(100_000)
	MaxApprovedLimit = int64(5_000_000)
	MaxTermMonths    = 36
	LimitRounding    = int64(1_000)
)

// ScoringInput is everything the offer calculation looks at. Scoring is a
// pure function of this struct, so identical inputs always produce the same
// offer.
type ScoringInput struct {
	CreditScore   int
	RiskLevel     string
	MonthlyIncome int64
	RequestedTerm int
}

// Offer is the scoring outcome: either a rejection with a reason, or an
// approved limit, rate and term.
type Offer struct {
	Approved        bool    `json:"approved"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	ApprovedLimit   int64   `json:"approved_limit,omitempty"`
	InterestRate    float64 `json:"interest_rate,omitempty"`
	TermMonths      int     `json:"term_months,omitempty"`
}

// CalculateOffer derives a loan offer from the enrichment outcome. The income
// multiple grows with the credit score, the limit is capped and rounded down
// to the nearest thousand, and the rate follows the reported risk level.
func CalculateOffer(input ScoringInput) Offer {
	if input.CreditScore < MinCreditScore {
		return Offer{RejectionReason: "credit score below minimum threshold"}
	}
	if input.MonthlyIncome < MinMonthlyIncome {
		return Offer{RejectionReason: "income below minimum threshold"}
	}

	var multiplier int64
	switch {
	case input.CreditScore > 750:
		multiplier = 6
	case input.CreditScore > 650:
		multiplier = 4
	default:
		multiplier = 3
	}

	limit := input.MonthlyIncome * multiplier
	if limit > MaxApprovedLimit {
		limit = MaxApprovedLimit
	}
	limit = (limit / LimitRounding) * LimitRounding

	var rate float64
	switch input.RiskLevel {
	case "LOW":
		rate = 12.5
	case "MEDIUM":
		rate = 15.0
	default:
		rate = 18.0
	}

	term := input.RequestedTerm
	if term > MaxTermMonths {
		term = MaxTermMonths
	}

	return Offer{
		Approved:      true,
		ApprovedLimit: limit,
		InterestRate:  rate,
		TermMonths:    term,
	}
}
