package registry

import (
	"context"
	"fmt"
	"time"
)

// MockAdapter is a deterministic in-process registry used in mock mode and
// in tests. Its payloads mirror the shapes the real registries return.
type MockAdapter struct {
	ServiceName string
	Order       int
	ShouldFail  bool
	Delay       time.Duration
	// Data overrides the canned payload when set.
	Data map[string]interface{}
}

func NewMockAdapter(name string, order int) *MockAdapter {
	return &MockAdapter{ServiceName: name, Order: order}
}

func (m *MockAdapter) Name() string {
	return m.ServiceName
}

func (m *MockAdapter) SequenceOrder() int {
	return m.Order
}

func (m *MockAdapter) Call(ctx context.Context, params CallParams, prior PriorResults) *CallResult {
	result := &CallResult{RequestedAt: time.Now()}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			result.RespondedAt = time.Now()
			result.ErrorMessage = fmt.Sprintf("%s service call timed out", m.ServiceName)
			result.TimedOut = true
			return result
		}
	}

	result.RespondedAt = time.Now()

	if m.ShouldFail {
		result.ErrorMessage = fmt.Sprintf("%s service temporarily unavailable", m.ServiceName)
		return result
	}

	result.Success = true
	if m.Data != nil {
		result.Data = m.Data
	} else {
		result.Data = cannedPayload(m.ServiceName, prior)
	}
	return result
}

// cannedPayload returns a representative response for each registry. The DMS
// payload folds in an enrichment summary built from the prior results, the
// same way the real aggregator does.
func cannedPayload(service string, prior PriorResults) map[string]interface{} {
	switch service {
	case ServiceNorq:
		return map[string]interface{}{
			"creditScore": float64(720),
			"riskLevel":   "LOW",
			"creditHistory": map[string]interface{}{
				"totalLoans":     float64(3),
				"activeLoans":    float64(1),
				"closedLoans":    float64(2),
				"totalDebt":      float64(2500000),
				"paymentHistory": "GOOD",
			},
		}
	case ServiceEkeng:
		return map[string]interface{}{
			"employmentStatus": "EMPLOYED",
			"employer": map[string]interface{}{
				"name":     "Tech Solutions LLC",
				"taxId":    "01234567",
				"industry": "IT",
			},
			"salary": map[string]interface{}{
				"amount":   float64(850000),
				"currency": "AMD",
				"verified": true,
			},
		}
	case ServiceAcra:
		return map[string]interface{}{
			"companyRegistration": map[string]interface{}{
				"registered": false,
				"message":    "Individual applicant - no company registration",
			},
			"directorships":    []interface{}{},
			"businessActivity": "NONE",
		}
	case ServiceDms:
		payload := map[string]interface{}{
			"aggregatedRiskScore": float64(75),
			"recommendation":      "APPROVE",
			"documentVerification": map[string]interface{}{
				"idCard": map[string]interface{}{
					"verified": true,
					"status":   "VALID",
				},
			},
		}
		if prior != nil {
			summary := map[string]interface{}{}
			if norq, ok := prior[ServiceNorq]; ok {
				summary["creditScore"] = norq["creditScore"]
			}
			if ekeng, ok := prior[ServiceEkeng]; ok {
				if salary, ok := ekeng["salary"].(map[string]interface{}); ok {
					summary["employmentVerified"] = salary["verified"]
				}
			}
			payload["enrichmentSummary"] = summary
		}
		return payload
	}
	return map[string]interface{}{"message": "mock data not available"}
}
