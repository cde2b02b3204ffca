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
	"fmt"
	"time"

	"github.com/herbertavetisyan/vist0s/config"
	"github.com/herbertavetisyan/vist0s/internal/notification"
	"github.com/herbertavetisyan/vist0s/model"
	"github.com/sirupsen/logrus"
)

// ApplicantInput carries the applicant identity exactly as submitted,
// non-Latin scripts included.
type ApplicantInput struct {
	NationalID  string
	FirstName   string
	LastName    string
	DOB         time.Time
	PhoneNumber string
	Email       string
}

// NewApplication is the submission payload for a loan application.
type NewApplication struct {
	ProductID       string
	PartnerID       string
	Applicant       ApplicantInput
	AmountRequested int64
	TermRequested   int
	MetaData        map[string]interface{}
}

// SubmitApplication validates the request against the product bounds, writes
// the submission bundle in one transaction and enqueues the enrichment
// pipeline. It returns immediately with the application already ENRICHING;
// the pipeline runs in the background workers.
func (l *Vistos) SubmitApplication(ctx context.Context, input NewApplication) (*model.Application, error) {
	product, err := l.datasource.GetProductByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.ValidateStageOrder(); err != nil {
		return nil, err
	}
	if err := product.ValidateAmount(input.AmountRequested); err != nil {
		return nil, err
	}
	if err := product.ValidateTerm(input.TermRequested); err != nil {
		return nil, err
	}

	entity := model.Entity{
		NationalID:  input.Applicant.NationalID,
		EntityType:  model.EntityIndividual,
		FirstName:   input.Applicant.FirstName,
		LastName:    input.Applicant.LastName,
		DOB:         input.Applicant.DOB,
		PhoneNumber: input.Applicant.PhoneNumber,
		Email:       input.Applicant.Email,
	}
	application := model.Application{
		ProductID:       product.ProductID,
		PartnerID:       input.PartnerID,
		Status:          model.StatusEnriching,
		Currency:        product.Currency,
		AmountRequested: input.AmountRequested,
		TermRequested:   input.TermRequested,
		MetaData:        input.MetaData,
	}

	app, _, err := l.datasource.SubmitApplication(ctx, entity, application)
	if err != nil {
		return nil, err
	}

	err = l.queue.queueEnrichment(EnrichmentTaskPayload{
		EnrichmentRequestID: app.EnrichmentRequestID,
		ApplicationID:       app.ApplicationID,
	})
	if err != nil {
		// The bundle is committed; a stuck PENDING request is visible in the
		// enrichment status surface and can be requeued.
		notification.NotifyError(err)
		return nil, err
	}

	logrus.Infof("application %s submitted for product %s", app.ApplicationID, product.ProductID)
	l.notifyLifecycle(EventApplicationSubmitted, app)
	return app, nil
}

// SelectOffer records the applicant's chosen amount and term. The amount may
// not exceed the approved limit nor the term the approved term.
func (l *Vistos) SelectOffer(ctx context.Context, applicationID string, amount int64, term int) (*model.Application, error) {
	app, err := l.datasource.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.GuardStatus(model.StatusOfferReady); err != nil {
		return nil, err
	}
	if amount <= 0 || amount > app.ApprovedLimit {
		return nil, fmt.Errorf("selected amount %d exceeds approved limit %d", amount, app.ApprovedLimit)
	}
	if term <= 0 || term > app.ApprovedTerm {
		return nil, fmt.Errorf("selected term %d exceeds approved term %d", term, app.ApprovedTerm)
	}

	err = l.datasource.TransitionApplication(ctx, applicationID, model.StatusOfferReady, model.StatusOfferSelected, map[string]interface{}{
		"selected_amount": amount,
		"selected_term":   term,
	})
	if err != nil {
		return nil, err
	}
	app.Status = model.StatusOfferSelected
	app.SelectedAmount = amount
	app.SelectedTerm = term
	l.advanceKeepingStatus(ctx, app)
	return app, nil
}

// SignAgreement completes the internal signing step.
func (l *Vistos) SignAgreement(ctx context.Context, applicationID string) (*model.Application, error) {
	app, err := l.datasource.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.GuardStatus(model.StatusOfferSelected); err != nil {
		return nil, err
	}

	err = l.datasource.TransitionApplication(ctx, applicationID, model.StatusOfferSelected, model.StatusSigningComplete, nil)
	if err != nil {
		return nil, err
	}
	app.Status = model.StatusSigningComplete
	l.advanceKeepingStatus(ctx, app)
	return app, nil
}

// RequestOTP generates a fresh one-time code for a signed application, stores
// only its hash and expiry, and delivers the code over SMS. Calling it again
// replaces the previous code.
func (l *Vistos) RequestOTP(ctx context.Context, applicationID string) error {
	app, err := l.datasource.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := app.GuardStatus(model.StatusSigningComplete); err != nil {
		return err
	}

	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	otp, err := GenerateOTP(conf.OTP.ExpiryMinutes)
	if err != nil {
		return err
	}

	err = l.datasource.TransitionApplication(ctx, applicationID, model.StatusSigningComplete, model.StatusSigningComplete, map[string]interface{}{
		"otp_hash":       otp.Hash,
		"otp_expires_at": otp.ExpiresAt,
	})
	if err != nil {
		return err
	}

	entity := l.applicantEntity(ctx, applicationID)
	if entity == nil {
		return fmt.Errorf("application %s has no applicant to deliver the code to", applicationID)
	}
	return l.sms.SendSMS(ctx, entity.PhoneNumber, fmt.Sprintf("Your loan verification code is %s", otp.Code))
}

// VerifyOTP checks the submitted code against the stored hash and expiry and
// moves the application to OTP_VERIFIED.
func (l *Vistos) VerifyOTP(ctx context.Context, applicationID, code string) (*model.Application, error) {
	app, err := l.datasource.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.GuardStatus(model.StatusSigningComplete); err != nil {
		return nil, err
	}
	if !VerifyOTPCode(code, app.OTPHash, app.OTPExpiresAt) {
		return nil, fmt.Errorf("invalid or expired verification code for application %s", applicationID)
	}

	err = l.datasource.TransitionApplication(ctx, applicationID, model.StatusSigningComplete, model.StatusOTPVerified, nil)
	if err != nil {
		return nil, err
	}
	app.Status = model.StatusOTPVerified
	l.advanceKeepingStatus(ctx, app)
	return app, nil
}

// Disburse claims the application with a guarded transition, then transfers
// the selected amount through core banking. Claiming first means a lost race
// can never move money twice; a failed transfer rolls the status back.
func (l *Vistos) Disburse(ctx context.Context, applicationID, bankName, accountNumber string) (*model.Application, error) {
	app, err := l.datasource.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.GuardStatus(model.StatusOTPVerified); err != nil {
		return nil, err
	}
	if bankName == "" || accountNumber == "" {
		return nil, fmt.Errorf("disbursement requires bank name and account number")
	}

	err = l.datasource.TransitionApplication(ctx, applicationID, model.StatusOTPVerified, model.StatusDisbursed, map[string]interface{}{
		"bank_name":      bankName,
		"account_number": accountNumber,
	})
	if err != nil {
		return nil, err
	}
	app.Status = model.StatusDisbursed
	app.BankName = bankName
	app.AccountNumber = accountNumber

	result, err := l.banking.DisburseLoan(ctx, app)
	if err != nil {
		notification.NotifyError(err)
		if revertErr := l.datasource.UpdateApplicationStatus(ctx, applicationID, model.StatusOTPVerified); revertErr != nil {
			notification.NotifyError(revertErr)
		}
		app.Status = model.StatusOTPVerified
		return nil, err
	}

	if auditErr := l.datasource.RecordAuditLog(ctx, model.AuditLog{
		LogID:         model.GenerateUUIDWithSuffix("log"),
		ApplicationID: applicationID,
		Action:        model.ActionStageTransition,
		Details:       fmt.Sprintf("disbursed %d %s, core banking reference %s", app.SelectedAmount, app.Currency, result.TransactionID),
		CreatedAt:     time.Now(),
	}); auditErr != nil {
		notification.NotifyError(auditErr)
	}

	l.advanceKeepingStatus(ctx, app)
	if entity := l.applicantEntity(ctx, applicationID); entity != nil {
		if smsErr := l.sms.SendSMS(ctx, entity.PhoneNumber, fmt.Sprintf("Your loan of %d %s has been disbursed", app.SelectedAmount, app.Currency)); smsErr != nil {
			notification.NotifyError(smsErr)
		}
	}
	l.notifyLifecycle(EventApplicationDisbursed, app)
	return app, nil
}

// Approve resolves the manual review branch in the applicant's favor.
func (l *Vistos) Approve(ctx context.Context, applicationID, reviewer string) (*model.Application, error) {
	return l.resolveManualReview(ctx, applicationID, reviewer, model.StatusApproved, "")
}

// RejectApplication resolves the manual review branch against the applicant.
func (l *Vistos) RejectApplication(ctx context.Context, applicationID, reviewer, reason string) (*model.Application, error) {
	return l.resolveManualReview(ctx, applicationID, reviewer, model.StatusRejected, reason)
}

func (l *Vistos) resolveManualReview(ctx context.Context, applicationID, reviewer, decision, reason string) (*model.Application, error) {
	app, err := l.datasource.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.GuardStatus(model.StatusManualReview); err != nil {
		return nil, err
	}

	err = l.datasource.TransitionApplication(ctx, applicationID, model.StatusManualReview, decision, nil)
	if err != nil {
		return nil, err
	}
	app.Status = decision

	details := fmt.Sprintf("manual review decision %s by %s", decision, reviewer)
	if reason != "" {
		details += ": " + reason
	}
	if auditErr := l.datasource.RecordAuditLog(ctx, model.AuditLog{
		LogID:         model.GenerateUUIDWithSuffix("log"),
		ApplicationID: applicationID,
		Action:        model.ActionManualDecision,
		Details:       details,
		CreatedAt:     time.Now(),
	}); auditErr != nil {
		notification.NotifyError(auditErr)
	}

	l.advanceKeepingStatus(ctx, app)
	if decision == model.StatusRejected {
		l.notifyLifecycle(EventApplicationRejected, app)
	}
	return app, nil
}

// advanceKeepingStatus moves the stage pointer one step forward after a
// guarded transition without letting the stage's target status overwrite the
// status the transition just set. Failures are reported, not returned; the
// guarded status change already took effect.
func (l *Vistos) advanceKeepingStatus(ctx context.Context, app *model.Application) {
	product, err := l.datasource.GetProductByID(app.ProductID)
	if err != nil {
		notification.NotifyError(err)
		return
	}
	next := NextStage(product, app)
	if next == nil {
		return
	}
	if err := l.datasource.UpdateApplicationStage(ctx, app.ApplicationID, next.ProductStageID, app.Status); err != nil {
		notification.NotifyError(err)
		return
	}
	previousStage := app.CurrentStageID
	app.CurrentStageID = next.ProductStageID

	if auditErr := l.datasource.RecordAuditLog(ctx, model.AuditLog{
		LogID:         model.GenerateUUIDWithSuffix("log"),
		ApplicationID: app.ApplicationID,
		Action:        model.ActionStageTransition,
		Details:       fmt.Sprintf("stage %q -> %q (%s), status %s", previousStage, next.ProductStageID, next.StageName, app.Status),
		CreatedAt:     time.Now(),
	}); auditErr != nil {
		notification.NotifyError(auditErr)
	}
}

// GetApplication retrieves an application by ID.
func (l *Vistos) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	return l.datasource.GetApplicationByID(ctx, id)
}

// GetAllApplications retrieves applications newest first.
func (l *Vistos) GetAllApplications(ctx context.Context, limit, offset int) ([]model.Application, error) {
	return l.datasource.GetAllApplications(ctx, limit, offset)
}

// GetAuditTrail retrieves an application's audit log oldest first.
func (l *Vistos) GetAuditTrail(ctx context.Context, applicationID string) ([]model.AuditLog, error) {
	return l.datasource.GetAuditLogs(ctx, applicationID)
}
