package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/herbertavetisyan/vist0s/config"
)

// enrichPayload is the request body the registries accept. EnrichmentData is
// only populated for services that consume earlier calls' output.
type enrichPayload struct {
	NationalID     string       `json:"nationalId"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	EnrichmentData PriorResults `json:"enrichmentData,omitempty"`
}

// HTTPAdapter calls one registry over its real HTTP transport. Each adapter
// owns a client carrying the per-service timeout budget.
type HTTPAdapter struct {
	name          string
	sequenceOrder int
	url           string
	apiKey        string
	client        *http.Client
}

// NewHTTPAdapter builds an adapter from the registry's service config.
func NewHTTPAdapter(name string, sequenceOrder int, svc config.RegistryService) *HTTPAdapter {
	return &HTTPAdapter{
		name:          name,
		sequenceOrder: sequenceOrder,
		url:           svc.URL,
		apiKey:        svc.APIKey,
		client:        &http.Client{Timeout: time.Duration(svc.TimeoutSeconds) * time.Second},
	}
}

func (a *HTTPAdapter) Name() string {
	return a.name
}

func (a *HTTPAdapter) SequenceOrder() int {
	return a.sequenceOrder
}

// Call posts the applicant triple to the registry's enrich endpoint. A
// timeout or non-2xx response becomes a failed CallResult, never an error:
// the orchestrator records it and moves on to the next service.
func (a *HTTPAdapter) Call(ctx context.Context, params CallParams, prior PriorResults) *CallResult {
	result := &CallResult{RequestedAt: time.Now()}

	payload := enrichPayload{
		NationalID:     params.NationalID,
		Phone:          params.Phone,
		Email:          params.Email,
		EnrichmentData: prior,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		result.RespondedAt = time.Now()
		result.ErrorMessage = err.Error()
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+"/enrich", bytes.NewBuffer(body))
	if err != nil {
		result.RespondedAt = time.Now()
		result.ErrorMessage = err.Error()
		return result
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	result.RespondedAt = time.Now()
	if err != nil {
		result.ErrorMessage = err.Error()
		result.TimedOut = errors.Is(err, context.DeadlineExceeded) || isTimeout(err)
		logrus.Warnf("registry %s call failed: %v", a.name, err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.ErrorMessage = fmt.Sprintf("%s responded with status %d", a.name, resp.StatusCode)
		return result
	}

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		result.ErrorMessage = fmt.Sprintf("malformed %s payload: %v", a.name, err)
		return result
	}

	result.Success = true
	result.Data = data
	return result
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	if t, ok := err.(timeout); ok {
		return t.Timeout()
	}
	return false
}
