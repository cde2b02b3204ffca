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
package mocks

import (
	"context"

	"github.com/herbertavetisyan/vist0s/model"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Product and stage methods

func (m *MockDataSource) CreateStage(stage model.Stage) (model.Stage, error) {
	args := m.Called(stage)
	return args.Get(0).(model.Stage), args.Error(1)
}

func (m *MockDataSource) GetAllStages() ([]model.Stage, error) {
	args := m.Called()
	return args.Get(0).([]model.Stage), args.Error(1)
}

func (m *MockDataSource) GetStageByName(name string) (*model.Stage, error) {
	args := m.Called(name)
	return args.Get(0).(*model.Stage), args.Error(1)
}

func (m *MockDataSource) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockDataSource) GetProductByID(id string) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockDataSource) GetAllProducts(limit, offset int) ([]model.Product, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]model.Product), args.Error(1)
}

// Application methods

func (m *MockDataSource) CreateApplication(ctx context.Context, app model.Application) (model.Application, error) {
	args := m.Called(ctx, app)
	return args.Get(0).(model.Application), args.Error(1)
}

func (m *MockDataSource) SubmitApplication(ctx context.Context, entity model.Entity, app model.Application) (*model.Application, *model.Entity, error) {
	args := m.Called(ctx, entity, app)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Application), args.Get(1).(*model.Entity), args.Error(2)
}

func (m *MockDataSource) GetApplicationByID(ctx context.Context, id string) (*model.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockDataSource) GetAllApplications(ctx context.Context, limit, offset int) ([]model.Application, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]model.Application), args.Error(1)
}

func (m *MockDataSource) UpdateApplicationStage(ctx context.Context, id, stageID, status string) error {
	args := m.Called(ctx, id, stageID, status)
	return args.Error(0)
}

func (m *MockDataSource) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDataSource) UpdateApplicationOffer(ctx context.Context, id string, limit int64, term int, rate float64) error {
	args := m.Called(ctx, id, limit, term, rate)
	return args.Error(0)
}

func (m *MockDataSource) TransitionApplication(ctx context.Context, id, fromStatus, toStatus string, set map[string]interface{}) error {
	args := m.Called(ctx, id, fromStatus, toStatus, set)
	return args.Error(0)
}

// Enrichment methods

func (m *MockDataSource) CreateEnrichmentRequest(ctx context.Context, req model.EnrichmentRequest) (model.EnrichmentRequest, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.EnrichmentRequest), args.Error(1)
}

func (m *MockDataSource) GetEnrichmentRequest(ctx context.Context, id string) (*model.EnrichmentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EnrichmentRequest), args.Error(1)
}

func (m *MockDataSource) GetAllEnrichmentRequests(ctx context.Context, limit, offset int) ([]model.EnrichmentRequest, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]model.EnrichmentRequest), args.Error(1)
}

func (m *MockDataSource) UpdateEnrichmentStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDataSource) RecordEnrichmentResult(ctx context.Context, result model.EnrichmentResult) (model.EnrichmentResult, error) {
	args := m.Called(ctx, result)
	return args.Get(0).(model.EnrichmentResult), args.Error(1)
}

func (m *MockDataSource) GetApplicationByEnrichmentRequest(ctx context.Context, enrichmentRequestID string) (*model.Application, error) {
	args := m.Called(ctx, enrichmentRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

// Entity methods

func (m *MockDataSource) UpsertEntityByNationalID(ctx context.Context, entity model.Entity) (model.Entity, error) {
	args := m.Called(ctx, entity)
	return args.Get(0).(model.Entity), args.Error(1)
}

func (m *MockDataSource) GetEntityByNationalID(ctx context.Context, nationalID string) (*model.Entity, error) {
	args := m.Called(ctx, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entity), args.Error(1)
}

func (m *MockDataSource) GetEntityByID(ctx context.Context, id string) (*model.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entity), args.Error(1)
}

func (m *MockDataSource) CreateParticipant(ctx context.Context, participant model.Participant) (model.Participant, error) {
	args := m.Called(ctx, participant)
	return args.Get(0).(model.Participant), args.Error(1)
}

func (m *MockDataSource) GetApplicationParticipants(ctx context.Context, applicationID string) ([]model.Participant, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]model.Participant), args.Error(1)
}

// Partner methods

func (m *MockDataSource) CreatePartner(partner model.Partner) (model.Partner, error) {
	args := m.Called(partner)
	return args.Get(0).(model.Partner), args.Error(1)
}

func (m *MockDataSource) GetPartnerByAPIKey(key string) (*model.Partner, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Partner), args.Error(1)
}

func (m *MockDataSource) GetAllPartners() ([]model.Partner, error) {
	args := m.Called()
	return args.Get(0).([]model.Partner), args.Error(1)
}

func (m *MockDataSource) RotatePartnerKey(id, newKey string) error {
	args := m.Called(id, newKey)
	return args.Error(0)
}

func (m *MockDataSource) RevokePartner(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// Audit methods

func (m *MockDataSource) RecordAuditLog(ctx context.Context, entry model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDataSource) GetAuditLogs(ctx context.Context, applicationID string) ([]model.AuditLog, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]model.AuditLog), args.Error(1)
}
