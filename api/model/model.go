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
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	vistos "github.com/herbertavetisyan/vist0s"
	"github.com/herbertavetisyan/vist0s/model"
)

// Applicant is the identity block of a submission. BirthDate is accepted as
// YYYY-MM-DD.
type Applicant struct {
	NationalID  string `json:"national_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	BirthDate   string `json:"birth_date"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

// SubmitApplication is the request body for a loan application submission.
type SubmitApplication struct {
	ProductID       string                 `json:"product_id"`
	Applicant       Applicant              `json:"applicant"`
	AmountRequested int64                  `json:"amount_requested"`
	TermRequested   int                    `json:"term_requested"`
	MetaData        map[string]interface{} `json:"meta_data"`
}

func (s *SubmitApplication) ValidateSubmitApplication() error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.ProductID, validation.Required),
		validation.Field(&s.AmountRequested, validation.Required, validation.Min(1)),
		validation.Field(&s.TermRequested, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return err
	}
	return validation.ValidateStruct(&s.Applicant,
		validation.Field(&s.Applicant.NationalID, validation.Required),
		validation.Field(&s.Applicant.FirstName, validation.Required),
		validation.Field(&s.Applicant.LastName, validation.Required),
		validation.Field(&s.Applicant.PhoneNumber, validation.Required),
		validation.Field(&s.Applicant.Email, validation.Required, is.Email),
		validation.Field(&s.Applicant.BirthDate, validation.By(func(value interface{}) error {
			birthDate, _ := value.(string)
			if birthDate == "" {
				return nil
			}
			if _, err := time.Parse("2006-01-02", birthDate); err != nil {
				return errors.New("please format the birth date as 'YYYY-MM-DD' (e.g., 1990-04-22)")
			}
			return nil
		})),
	)
}

func (s *SubmitApplication) ToNewApplication() vistos.NewApplication {
	var dob time.Time
	if s.Applicant.BirthDate != "" {
		dob, _ = time.Parse("2006-01-02", s.Applicant.BirthDate)
	}
	return vistos.NewApplication{
		ProductID: s.ProductID,
		Applicant: vistos.ApplicantInput{
			NationalID:  s.Applicant.NationalID,
			FirstName:   s.Applicant.FirstName,
			LastName:    s.Applicant.LastName,
			DOB:         dob,
			PhoneNumber: s.Applicant.PhoneNumber,
			Email:       s.Applicant.Email,
		},
		AmountRequested: s.AmountRequested,
		TermRequested:   s.TermRequested,
		MetaData:        s.MetaData,
	}
}

// SelectOffer is the request body for choosing an amount and term from an
// approved offer.
type SelectOffer struct {
	Amount int64 `json:"amount"`
	Term   int   `json:"term"`
}

func (s *SelectOffer) ValidateSelectOffer() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Amount, validation.Required, validation.Min(1)),
		validation.Field(&s.Term, validation.Required, validation.Min(1)),
	)
}

// VerifyOTP is the request body for one-time code verification.
type VerifyOTP struct {
	Code string `json:"code"`
}

func (v *VerifyOTP) ValidateVerifyOTP() error {
	return validation.ValidateStruct(v,
		validation.Field(&v.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

// Disburse is the request body for the final transfer.
type Disburse struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

func (d *Disburse) ValidateDisburse() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.BankName, validation.Required),
		validation.Field(&d.AccountNumber, validation.Required),
	)
}

// ManualDecision is the request body for resolving a manual review.
type ManualDecision struct {
	Reviewer string `json:"reviewer"`
	Reason   string `json:"reason"`
}

func (m *ManualDecision) ValidateManualDecision() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Reviewer, validation.Required),
	)
}

// CreateStage is the request body for adding a stage to the catalog.
type CreateStage struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *CreateStage) ValidateCreateStage() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
	)
}

func (c *CreateStage) ToStage() model.Stage {
	return model.Stage{Name: c.Name, Description: c.Description}
}

// ProductStageLink references a catalog stage at its position in a product
// pipeline. Order is the position in the submitted list.
type ProductStageLink struct {
	StageID      string `json:"stage_id"`
	TargetStatus string `json:"target_status"`
	IsRequired   bool   `json:"is_required"`
}

// CreateProduct is the request body for product configuration.
type CreateProduct struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Currency     string             `json:"currency"`
	MinAmount    int64              `json:"min_amount"`
	MaxAmount    int64              `json:"max_amount"`
	InterestRate float64            `json:"interest_rate"`
	MinTerm      int                `json:"min_term"`
	MaxTerm      int                `json:"max_term"`
	Stages       []ProductStageLink `json:"stages"`
}

func (c *CreateProduct) ValidateCreateProduct() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Currency, validation.Required, validation.Length(3, 3)),
		validation.Field(&c.MinAmount, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxAmount, validation.Required, validation.Min(1)),
		validation.Field(&c.MinTerm, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxTerm, validation.Required, validation.Min(1)),
		validation.Field(&c.Stages, validation.Required, validation.Length(1, 0)),
	)
}

func (c *CreateProduct) ToProduct() model.Product {
	stages := make([]model.ProductStage, 0, len(c.Stages))
	for _, link := range c.Stages {
		stages = append(stages, model.ProductStage{
			StageID:      link.StageID,
			TargetStatus: link.TargetStatus,
			IsRequired:   link.IsRequired,
		})
	}
	return model.Product{
		Name:         c.Name,
		Description:  c.Description,
		Currency:     c.Currency,
		MinAmount:    c.MinAmount,
		MaxAmount:    c.MaxAmount,
		InterestRate: c.InterestRate,
		MinTerm:      c.MinTerm,
		MaxTerm:      c.MaxTerm,
		Stages:       stages,
	}
}

// CreatePartner is the request body for registering an origination channel.
type CreatePartner struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (c *CreatePartner) ValidateCreatePartner() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Type, validation.In("AGENT", "BROKER", "")),
	)
}
