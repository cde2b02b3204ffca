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
	"context"
	"strings"
	"testing"
	"time"

	"github.com/herbertavetisyan/vist0s/config"
	"github.com/herbertavetisyan/vist0s/database/mocks"
	"github.com/herbertavetisyan/vist0s/model"
	"github.com/herbertavetisyan/vist0s/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// priorCapture wraps a mock adapter and records the prior results it was
// handed, so tests can verify which services saw accumulated context.
type priorCapture struct {
	*registry.MockAdapter
	gotPrior registry.PriorResults
	called   bool
}

func (p *priorCapture) Call(ctx context.Context, params registry.CallParams, prior registry.PriorResults) *registry.CallResult {
	p.called = true
	p.gotPrior = prior
	return p.MockAdapter.Call(ctx, params, prior)
}

func mockAdapters() []registry.ServiceAdapter {
	return []registry.ServiceAdapter{
		registry.NewMockAdapter(registry.ServiceNorq, 1),
		registry.NewMockAdapter(registry.ServiceEkeng, 2),
		registry.NewMockAdapter(registry.ServiceAcra, 3),
		registry.NewMockAdapter(registry.ServiceDms, 4),
	}
}

func enrichmentFixtures(mockDS *mocks.MockDataSource) (*model.EnrichmentRequest, *model.Application) {
	req := &model.EnrichmentRequest{
		EnrichmentRequestID: "enr_test",
		NationalID:          "1234567890",
		Phone:               "+37491000000",
		Email:               "applicant@example.com",
		Status:              model.EnrichmentPending,
	}
	app := &model.Application{
		ApplicationID:       "app_test",
		ProductID:           "prd_test",
		EnrichmentRequestID: "enr_test",
		Status:              model.StatusEnriching,
		Currency:            "AMD",
		AmountRequested:     1_000_000,
		TermRequested:       24,
	}
	mockDS.On("GetEnrichmentRequest", mock.Anything, "enr_test").Return(req, nil)
	mockDS.On("GetApplicationByEnrichmentRequest", mock.Anything, "enr_test").Return(app, nil)
	mockDS.On("GetProductByID", "prd_test").Return(testProduct(), nil)
	return req, app
}

// expectResult wires RecordEnrichmentResult for one service and asserts the
// status it is recorded with.
func expectResult(mockDS *mocks.MockDataSource, service, status string) {
	mockDS.On("RecordEnrichmentResult", mock.Anything, mock.MatchedBy(func(r model.EnrichmentResult) bool {
		return r.ServiceName == service && r.Status == status
	})).Return(model.EnrichmentResult{ServiceName: service, Status: status}, nil)
}

func TestProcessEnrichmentAllSuccess(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS, adapters: mockAdapters()}
	_, app := enrichmentFixtures(mockDS)

	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", model.EnrichmentInProgress).Return(nil)
	mockDS.On("UpdateApplicationStage", mock.Anything, "app_test", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("RecordAuditLog", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("GetApplicationParticipants", mock.Anything, "app_test").Return([]model.Participant{}, nil)
	for _, service := range []string{registry.ServiceNorq, registry.ServiceEkeng, registry.ServiceAcra, registry.ServiceDms} {
		expectResult(mockDS, service, model.ResultSuccess)
	}
	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", model.EnrichmentCompleted).Return(nil)
	// Canned data scores 720 / LOW / 850000, which approves 3,400,000 at 12.5.
	mockDS.On("UpdateApplicationOffer", mock.Anything, "app_test", int64(3_400_000), 24, 12.5).Return(nil)

	err := engine.ProcessEnrichment(context.Background(), "enr_test")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusOfferReady, app.Status)
	assert.Equal(t, int64(3_400_000), app.ApprovedLimit)
	assert.Equal(t, 24, app.ApprovedTerm)
	mockDS.AssertExpectations(t)
	mockDS.AssertNotCalled(t, "TransitionApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessEnrichmentAllFailRejects(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	adapters := mockAdapters()
	for _, a := range adapters {
		a.(*registry.MockAdapter).ShouldFail = true
	}
	engine := &Vistos{datasource: mockDS, adapters: adapters}
	_, app := enrichmentFixtures(mockDS)

	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", model.EnrichmentInProgress).Return(nil)
	mockDS.On("UpdateApplicationStage", mock.Anything, "app_test", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("RecordAuditLog", mock.Anything, mock.Anything).Return(nil)
	for _, service := range []string{registry.ServiceNorq, registry.ServiceEkeng, registry.ServiceAcra, registry.ServiceDms} {
		expectResult(mockDS, service, model.ResultFailed)
	}
	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", model.EnrichmentFailed).Return(nil)
	mockDS.On("TransitionApplication", mock.Anything, "app_test", model.StatusEnriching, model.StatusRejected, mock.Anything).Return(nil)

	err := engine.ProcessEnrichment(context.Background(), "enr_test")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusRejected, app.Status)
	mockDS.AssertExpectations(t)
	mockDS.AssertNotCalled(t, "UpdateApplicationOffer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessEnrichmentPartialStillScores(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	adapters := mockAdapters()
	// The income registry is down; the run is PARTIAL and scoring sees no
	// verified income.
	adapters[1].(*registry.MockAdapter).ShouldFail = true
	engine := &Vistos{datasource: mockDS, adapters: adapters}
	_, app := enrichmentFixtures(mockDS)

	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", model.EnrichmentInProgress).Return(nil)
	mockDS.On("UpdateApplicationStage", mock.Anything, "app_test", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("RecordAuditLog", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("GetApplicationParticipants", mock.Anything, "app_test").Return([]model.Participant{}, nil)
	expectResult(mockDS, registry.ServiceNorq, model.ResultSuccess)
	expectResult(mockDS, registry.ServiceEkeng, model.ResultFailed)
	expectResult(mockDS, registry.ServiceAcra, model.ResultSuccess)
	expectResult(mockDS, registry.ServiceDms, model.ResultSuccess)
	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", model.EnrichmentPartial).Return(nil)
	mockDS.On("TransitionApplication", mock.Anything, "app_test", model.StatusEnriching, model.StatusRejected, mock.Anything).Return(nil)

	err := engine.ProcessEnrichment(context.Background(), "enr_test")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusRejected, app.Status)
	mockDS.AssertExpectations(t)
}

func TestProcessEnrichmentPriorResultsGating(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	norq := &priorCapture{MockAdapter: registry.NewMockAdapter(registry.ServiceNorq, 1)}
	ekeng := &priorCapture{MockAdapter: registry.NewMockAdapter(registry.ServiceEkeng, 2)}
	acra := &priorCapture{MockAdapter: registry.NewMockAdapter(registry.ServiceAcra, 3)}
	dms := &priorCapture{MockAdapter: registry.NewMockAdapter(registry.ServiceDms, 4)}
	engine := &Vistos{datasource: mockDS, adapters: []registry.ServiceAdapter{norq, ekeng, acra, dms}}
	enrichmentFixtures(mockDS)

	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", mock.Anything).Return(nil)
	mockDS.On("UpdateApplicationStage", mock.Anything, "app_test", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("RecordAuditLog", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("GetApplicationParticipants", mock.Anything, "app_test").Return([]model.Participant{}, nil)
	mockDS.On("RecordEnrichmentResult", mock.Anything, mock.Anything).Return(model.EnrichmentResult{Status: model.ResultSuccess}, nil)
	mockDS.On("UpdateApplicationOffer", mock.Anything, "app_test", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := engine.ProcessEnrichment(context.Background(), "enr_test")

	assert.NoError(t, err)
	assert.True(t, norq.called)
	assert.Nil(t, norq.gotPrior)
	assert.Nil(t, ekeng.gotPrior)
	assert.Contains(t, acra.gotPrior, registry.ServiceNorq)
	assert.Contains(t, acra.gotPrior, registry.ServiceEkeng)
	assert.Contains(t, dms.gotPrior, registry.ServiceNorq)
	assert.Contains(t, dms.gotPrior, registry.ServiceEkeng)
	assert.Contains(t, dms.gotPrior, registry.ServiceAcra)
}

func TestProcessEnrichmentSkipsSettledRequest(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS, adapters: mockAdapters()}
	mockDS.On("GetEnrichmentRequest", mock.Anything, "enr_done").Return(&model.EnrichmentRequest{
		EnrichmentRequestID: "enr_done",
		Status:              model.EnrichmentCompleted,
	}, nil)

	err := engine.ProcessEnrichment(context.Background(), "enr_done")

	assert.NoError(t, err)
	mockDS.AssertNotCalled(t, "UpdateEnrichmentStatus", mock.Anything, mock.Anything, mock.Anything)
	mockDS.AssertNotCalled(t, "RecordEnrichmentResult", mock.Anything, mock.Anything)
}

func TestProcessEnrichmentRerunsInProgressRequest(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS, adapters: mockAdapters()}
	req, app := enrichmentFixtures(mockDS)
	// A worker died mid-pipeline; the redelivered task finds the request
	// still IN_PROGRESS and must run the pipeline again.
	req.Status = model.EnrichmentInProgress

	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", model.EnrichmentInProgress).Return(nil)
	mockDS.On("UpdateApplicationStage", mock.Anything, "app_test", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("RecordAuditLog", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("GetApplicationParticipants", mock.Anything, "app_test").Return([]model.Participant{}, nil)
	for _, service := range []string{registry.ServiceNorq, registry.ServiceEkeng, registry.ServiceAcra, registry.ServiceDms} {
		expectResult(mockDS, service, model.ResultSuccess)
	}
	mockDS.On("UpdateEnrichmentStatus", mock.Anything, "enr_test", model.EnrichmentCompleted).Return(nil)
	mockDS.On("UpdateApplicationOffer", mock.Anything, "app_test", int64(3_400_000), 24, 12.5).Return(nil)

	err := engine.ProcessEnrichment(context.Background(), "enr_test")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusOfferReady, app.Status)
	mockDS.AssertExpectations(t)
}

func TestProcessEnrichmentSkipsTerminalApplication(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS, adapters: mockAdapters()}
	mockDS.On("GetEnrichmentRequest", mock.Anything, "enr_test").Return(&model.EnrichmentRequest{
		EnrichmentRequestID: "enr_test",
		Status:              model.EnrichmentPending,
	}, nil)
	mockDS.On("GetApplicationByEnrichmentRequest", mock.Anything, "enr_test").Return(&model.Application{
		ApplicationID: "app_test",
		Status:        model.StatusRejected,
	}, nil)

	err := engine.ProcessEnrichment(context.Background(), "enr_test")

	assert.NoError(t, err)
	mockDS.AssertNotCalled(t, "UpdateEnrichmentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyIdentityMatch(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS}
	app := &model.Application{ApplicationID: "app_test"}
	dob := time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC)

	mockDS.On("GetApplicationParticipants", mock.Anything, "app_test").Return([]model.Participant{
		{ParticipantID: "par_1", ApplicationID: "app_test", EntityID: "ent_1", Role: model.RoleApplicant},
	}, nil)
	mockDS.On("GetEntityByID", mock.Anything, "ent_1").Return(&model.Entity{
		EntityID:  "ent_1",
		FirstName: "Aram",
		LastName:  "Petrosyan",
		DOB:       dob,
	}, nil)

	var details string
	mockDS.On("RecordAuditLog", mock.Anything, mock.MatchedBy(func(entry model.AuditLog) bool {
		return entry.Action == model.ActionIdentityCheck
	})).Run(func(args mock.Arguments) {
		details = args.Get(1).(model.AuditLog).Details
	}).Return(nil)

	engine.verifyIdentity(context.Background(), app, map[string]interface{}{
		"identity": map[string]interface{}{
			"firstName": "  aram ",
			"lastName":  "PETROSYAN",
			"birthDate": "1990-05-14",
		},
	})

	assert.Contains(t, details, "firstName=MATCH")
	assert.Contains(t, details, "lastName=MATCH")
	assert.Contains(t, details, "birthDate=MATCH")
	mockDS.AssertExpectations(t)
}

func TestVerifyIdentityMismatchIsNonFatal(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS}
	app := &model.Application{ApplicationID: "app_test"}

	mockDS.On("GetApplicationParticipants", mock.Anything, "app_test").Return([]model.Participant{
		{ParticipantID: "par_1", ApplicationID: "app_test", EntityID: "ent_1", Role: model.RoleApplicant},
	}, nil)
	mockDS.On("GetEntityByID", mock.Anything, "ent_1").Return(&model.Entity{
		EntityID:  "ent_1",
		FirstName: "Aram",
		LastName:  "Petrosyan",
		DOB:       time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
	}, nil)

	var details string
	mockDS.On("RecordAuditLog", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		details = args.Get(1).(model.AuditLog).Details
	}).Return(nil)

	engine.verifyIdentity(context.Background(), app, map[string]interface{}{
		"identity": map[string]interface{}{
			"firstName": "Someone",
			"lastName":  "Else",
			"birthDate": "1985-01-01",
		},
	})

	assert.Contains(t, details, "firstName=MISMATCH")
	assert.Contains(t, details, "lastName=MISMATCH")
	assert.Contains(t, details, "birthDate=MISMATCH")
}

func TestVerifyIdentityAbsentFields(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS}
	app := &model.Application{ApplicationID: "app_test"}

	mockDS.On("GetApplicationParticipants", mock.Anything, "app_test").Return([]model.Participant{
		{ParticipantID: "par_1", ApplicationID: "app_test", EntityID: "ent_1", Role: model.RoleApplicant},
	}, nil)
	mockDS.On("GetEntityByID", mock.Anything, "ent_1").Return(&model.Entity{EntityID: "ent_1"}, nil)

	var details string
	mockDS.On("RecordAuditLog", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		details = args.Get(1).(model.AuditLog).Details
	}).Return(nil)

	engine.verifyIdentity(context.Background(), app, map[string]interface{}{"creditScore": float64(720)})

	assert.True(t, strings.Contains(details, "identity fields absent"), "got %q", details)
}

func TestScoringInputFromPrior(t *testing.T) {
	prior := registry.PriorResults{
		registry.ServiceNorq: {
			"creditScore": float64(685),
			"riskLevel":   "MEDIUM",
		},
		registry.ServiceEkeng: {
			"salary": map[string]interface{}{
				"amount":   float64(450000),
				"currency": "AMD",
			},
		},
	}

	input := scoringInputFromPrior(prior)

	assert.Equal(t, 685, input.CreditScore)
	assert.Equal(t, "MEDIUM", input.RiskLevel)
	assert.Equal(t, int64(450000), input.MonthlyIncome)
}

func TestScoringInputFromPriorMissingServices(t *testing.T) {
	input := scoringInputFromPrior(registry.PriorResults{})

	assert.Zero(t, input.CreditScore)
	assert.Zero(t, input.MonthlyIncome)
	assert.Empty(t, input.RiskLevel)
}

func TestGetEnrichmentStatusProgress(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS, adapters: mockAdapters()}
	mockDS.On("GetEnrichmentRequest", mock.Anything, "enr_test").Return(&model.EnrichmentRequest{
		EnrichmentRequestID: "enr_test",
		Status:              model.EnrichmentPartial,
		Results: []model.EnrichmentResult{
			{ServiceName: registry.ServiceNorq, Status: model.ResultSuccess},
			{ServiceName: registry.ServiceEkeng, Status: model.ResultFailed},
			{ServiceName: registry.ServiceAcra, Status: model.ResultSuccess},
		},
	}, nil)

	progress, err := engine.GetEnrichmentStatus(context.Background(), "enr_test")

	assert.NoError(t, err)
	assert.Equal(t, 3, progress.Attempted)
	assert.Equal(t, 2, progress.Succeeded)
	assert.Equal(t, 75, progress.ProgressPercent)
}
