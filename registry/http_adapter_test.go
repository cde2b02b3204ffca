package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/herbertavetisyan/vist0s/config"
)

func newTestAdapter(t *testing.T, timeoutSeconds int) *HTTPAdapter {
	t.Helper()
	adapter := NewHTTPAdapter(ServiceNorq, 1, config.RegistryService{
		URL:            "http://norq.test",
		APIKey:         "test-key",
		TimeoutSeconds: timeoutSeconds,
	})
	httpmock.ActivateNonDefault(adapter.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return adapter
}

func TestHTTPAdapterCallSuccess(t *testing.T) {
	adapter := newTestAdapter(t, 10)

	var gotAuth string
	var gotBody map[string]interface{}
	httpmock.RegisterResponder("POST", "http://norq.test/enrich",
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			if err := json.NewDecoder(req.Body).Decode(&gotBody); err != nil {
				return nil, err
			}
			return httpmock.NewJsonResponse(200, map[string]interface{}{
				"creditScore": 720,
				"riskLevel":   "LOW",
			})
		})

	result := adapter.Call(context.Background(), CallParams{
		NationalID: "1234567890",
		Phone:      "+37491000000",
		Email:      "applicant@example.com",
	}, nil)

	assert.True(t, result.Success)
	assert.Equal(t, float64(720), result.Data["creditScore"])
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "1234567890", gotBody["nationalId"])
	// No prior results for the first service in the chain.
	assert.NotContains(t, gotBody, "enrichmentData")
	assert.False(t, result.RespondedAt.Before(result.RequestedAt))
}

func TestHTTPAdapterForwardsPriorResults(t *testing.T) {
	adapter := newTestAdapter(t, 10)

	var gotBody map[string]interface{}
	httpmock.RegisterResponder("POST", "http://norq.test/enrich",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&gotBody); err != nil {
				return nil, err
			}
			return httpmock.NewJsonResponse(200, map[string]interface{}{"ok": true})
		})

	prior := PriorResults{
		ServiceNorq:  {"creditScore": float64(720)},
		ServiceEkeng: {"employmentStatus": "EMPLOYED"},
	}
	result := adapter.Call(context.Background(), CallParams{NationalID: "1234567890"}, prior)

	assert.True(t, result.Success)
	enrichment, ok := gotBody["enrichmentData"].(map[string]interface{})
	assert.True(t, ok)
	assert.Contains(t, enrichment, ServiceNorq)
	assert.Contains(t, enrichment, ServiceEkeng)
}

func TestHTTPAdapterNon2xxIsFailure(t *testing.T) {
	adapter := newTestAdapter(t, 10)
	httpmock.RegisterResponder("POST", "http://norq.test/enrich",
		httpmock.NewStringResponder(503, "service unavailable"))

	result := adapter.Call(context.Background(), CallParams{NationalID: "1234567890"}, nil)

	assert.False(t, result.Success)
	assert.False(t, result.TimedOut)
	assert.Contains(t, result.ErrorMessage, "status 503")
}

func TestHTTPAdapterMalformedPayloadIsFailure(t *testing.T) {
	adapter := newTestAdapter(t, 10)
	httpmock.RegisterResponder("POST", "http://norq.test/enrich",
		httpmock.NewStringResponder(200, "not json at all"))

	result := adapter.Call(context.Background(), CallParams{NationalID: "1234567890"}, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "malformed norq payload")
}

func TestHTTPAdapterTimeout(t *testing.T) {
	adapter := newTestAdapter(t, 10)
	httpmock.RegisterResponder("POST", "http://norq.test/enrich",
		func(req *http.Request) (*http.Response, error) {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(time.Second):
				return httpmock.NewJsonResponse(200, map[string]interface{}{})
			}
		})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	result := adapter.Call(ctx, CallParams{NationalID: "1234567890"}, nil)

	assert.False(t, result.Success)
	assert.True(t, result.TimedOut)
	assert.NotEmpty(t, result.ErrorMessage)
}
