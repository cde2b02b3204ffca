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
	"testing"

	"github.com/herbertavetisyan/vist0s/database/mocks"
	"github.com/herbertavetisyan/vist0s/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testProduct() *model.Product {
	return &model.Product{
		ProductID: "prd_test",
		Name:      "Personal Loan",
		Currency:  "AMD",
		MinAmount: 100_000,
		MaxAmount: 5_000_000,
		MinTerm:   12,
		MaxTerm:   60,
		Stages: []model.ProductStage{
			{ProductStageID: "pst_1", StageID: "stg_1", StageName: "Entities", Order: 1, TargetStatus: model.StatusEnriching},
			{ProductStageID: "pst_2", StageID: "stg_2", StageName: "Documents", Order: 2, TargetStatus: model.StatusEnriching},
			{ProductStageID: "pst_3", StageID: "stg_3", StageName: "Credit Bureau", Order: 3, TargetStatus: model.StatusEnriching},
			{ProductStageID: "pst_4", StageID: "stg_4", StageName: "Salary Source", Order: 4, TargetStatus: model.StatusEnriching},
			{ProductStageID: "pst_5", StageID: "stg_5", StageName: "Scoring", Order: 5, TargetStatus: model.StatusOfferReady},
		},
	}
}

func TestNextStageFromEmpty(t *testing.T) {
	product := testProduct()
	app := &model.Application{ApplicationID: "app_1"}

	next := NextStage(product, app)

	assert.NotNil(t, next)
	assert.Equal(t, "pst_1", next.ProductStageID)
}

func TestNextStageMiddle(t *testing.T) {
	product := testProduct()
	app := &model.Application{ApplicationID: "app_1", CurrentStageID: "pst_2"}

	next := NextStage(product, app)

	assert.NotNil(t, next)
	assert.Equal(t, "pst_3", next.ProductStageID)
}

func TestNextStageAtLast(t *testing.T) {
	product := testProduct()
	app := &model.Application{ApplicationID: "app_1", CurrentStageID: "pst_5"}

	assert.Nil(t, NextStage(product, app))
}

func TestNextStageUnknownCurrent(t *testing.T) {
	product := testProduct()
	app := &model.Application{ApplicationID: "app_1", CurrentStageID: "pst_unrelated"}

	assert.Nil(t, NextStage(product, app))
}

func TestAdvanceStageDerivesStatus(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS}
	product := testProduct()
	app := &model.Application{ApplicationID: "app_1", Status: model.StatusSubmitted}

	mockDS.On("UpdateApplicationStage", mock.Anything, "app_1", "pst_1", model.StatusEnriching).Return(nil)
	mockDS.On("RecordAuditLog", mock.Anything, mock.MatchedBy(func(entry model.AuditLog) bool {
		return entry.ApplicationID == "app_1" && entry.Action == model.ActionStageTransition
	})).Return(nil)

	next, err := engine.AdvanceStage(context.Background(), app, product)

	assert.NoError(t, err)
	assert.NotNil(t, next)
	assert.Equal(t, "pst_1", app.CurrentStageID)
	assert.Equal(t, model.StatusEnriching, app.Status)
	mockDS.AssertExpectations(t)
}

func TestAdvanceStageIdempotentAtLast(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS}
	product := testProduct()
	app := &model.Application{ApplicationID: "app_1", CurrentStageID: "pst_5", Status: model.StatusOfferReady}

	for i := 0; i < 3; i++ {
		next, err := engine.AdvanceStage(context.Background(), app, product)
		assert.NoError(t, err)
		assert.Nil(t, next)
	}

	assert.Equal(t, "pst_5", app.CurrentStageID)
	assert.Equal(t, model.StatusOfferReady, app.Status)
	mockDS.AssertNotCalled(t, "UpdateApplicationStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvanceStageBrokenOrder(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := &Vistos{datasource: mockDS}
	product := testProduct()
	product.Stages[2].Order = 7
	app := &model.Application{ApplicationID: "app_1"}

	_, err := engine.AdvanceStage(context.Background(), app, product)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stage order broken")
}

func TestDeriveStatusPrefersTargetStatus(t *testing.T) {
	ps := &model.ProductStage{StageName: "Entities", TargetStatus: model.StatusManualReview}
	assert.Equal(t, model.StatusManualReview, ps.DeriveStatus())
}

func TestDeriveStatusStageNameFallback(t *testing.T) {
	tests := []struct {
		stageName string
		want      string
	}{
		{"Entities", model.StatusEnriching},
		{"Documents", model.StatusEnriching},
		{"Credit Bureau", model.StatusEnriching},
		{"Salary Source", model.StatusEnriching},
		{"Scoring", model.StatusOfferReady},
		{"Manual Review", model.StatusManualReview},
		{"Internal Signing", model.StatusSigning},
		{"Approval", model.StatusApproved},
		{"Disbursement", model.StatusDisbursed},
		{"Something Custom", model.StatusSubmitted},
	}
	for _, tt := range tests {
		ps := &model.ProductStage{StageName: tt.stageName}
		assert.Equal(t, tt.want, ps.DeriveStatus(), "stage %q", tt.stageName)
	}
}
