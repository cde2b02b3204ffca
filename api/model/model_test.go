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
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func validSubmission() SubmitApplication {
	return SubmitApplication{
		ProductID: "prd_1",
		Applicant: Applicant{
			NationalID:  gofakeit.SSN(),
			FirstName:   gofakeit.FirstName(),
			LastName:    gofakeit.LastName(),
			BirthDate:   "1990-05-14",
			PhoneNumber: "+37491000000",
			Email:       gofakeit.Email(),
		},
		AmountRequested: 1_000_000,
		TermRequested:   24,
	}
}

func TestValidateSubmitApplication(t *testing.T) {
	s := validSubmission()
	assert.NoError(t, s.ValidateSubmitApplication())
}

func TestValidateSubmitApplicationMissingProduct(t *testing.T) {
	s := validSubmission()
	s.ProductID = ""
	assert.Error(t, s.ValidateSubmitApplication())
}

func TestValidateSubmitApplicationBadBirthDate(t *testing.T) {
	s := validSubmission()
	s.Applicant.BirthDate = "14/05/1990"
	err := s.ValidateSubmitApplication()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestValidateSubmitApplicationOptionalBirthDate(t *testing.T) {
	s := validSubmission()
	s.Applicant.BirthDate = ""
	assert.NoError(t, s.ValidateSubmitApplication())
}

func TestValidateSubmitApplicationBadEmail(t *testing.T) {
	s := validSubmission()
	s.Applicant.Email = "not-an-email"
	assert.Error(t, s.ValidateSubmitApplication())
}

func TestToNewApplication(t *testing.T) {
	s := validSubmission()
	input := s.ToNewApplication()

	assert.Equal(t, s.ProductID, input.ProductID)
	assert.Equal(t, s.Applicant.NationalID, input.Applicant.NationalID)
	assert.Equal(t, time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC), input.Applicant.DOB)
	assert.Equal(t, s.AmountRequested, input.AmountRequested)
}

func TestValidateSelectOffer(t *testing.T) {
	assert.NoError(t, (&SelectOffer{Amount: 1_000_000, Term: 24}).ValidateSelectOffer())
	assert.Error(t, (&SelectOffer{Amount: 0, Term: 24}).ValidateSelectOffer())
	assert.Error(t, (&SelectOffer{Amount: 1_000_000}).ValidateSelectOffer())
}

func TestValidateVerifyOTP(t *testing.T) {
	assert.NoError(t, (&VerifyOTP{Code: "123456"}).ValidateVerifyOTP())
	assert.Error(t, (&VerifyOTP{Code: ""}).ValidateVerifyOTP())
	assert.Error(t, (&VerifyOTP{Code: "12345"}).ValidateVerifyOTP())
	assert.Error(t, (&VerifyOTP{Code: "1234567"}).ValidateVerifyOTP())
	assert.Error(t, (&VerifyOTP{Code: "12345a"}).ValidateVerifyOTP())
}

func TestValidateDisburse(t *testing.T) {
	assert.NoError(t, (&Disburse{BankName: "Ameriabank", AccountNumber: "1570001234567890"}).ValidateDisburse())
	assert.Error(t, (&Disburse{BankName: "Ameriabank"}).ValidateDisburse())
	assert.Error(t, (&Disburse{AccountNumber: "1570001234567890"}).ValidateDisburse())
}

func TestValidateManualDecision(t *testing.T) {
	assert.NoError(t, (&ManualDecision{Reviewer: "reviewer@bank.am"}).ValidateManualDecision())
	assert.Error(t, (&ManualDecision{Reason: "missing documents"}).ValidateManualDecision())
}

func TestValidateCreateProduct(t *testing.T) {
	p := CreateProduct{
		Name:         "Personal Loan",
		Currency:     "AMD",
		MinAmount:    100_000,
		MaxAmount:    5_000_000,
		InterestRate: 12.5,
		MinTerm:      12,
		MaxTerm:      60,
		Stages:       []ProductStageLink{{StageID: "stg_1"}},
	}
	assert.NoError(t, p.ValidateCreateProduct())

	p.Currency = "DRAM"
	assert.Error(t, p.ValidateCreateProduct())

	p.Currency = "AMD"
	p.Stages = nil
	assert.Error(t, p.ValidateCreateProduct())
}

func TestValidateCreatePartner(t *testing.T) {
	assert.NoError(t, (&CreatePartner{Name: "Acme Brokers", Type: "BROKER"}).ValidateCreatePartner())
	assert.NoError(t, (&CreatePartner{Name: "Acme Brokers"}).ValidateCreatePartner())
	assert.Error(t, (&CreatePartner{Type: "AGENT"}).ValidateCreatePartner())
	assert.Error(t, (&CreatePartner{Name: "Acme", Type: "RESELLER"}).ValidateCreatePartner())
}
