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

	"github.com/herbertavetisyan/vist0s/internal/notification"
	"github.com/herbertavetisyan/vist0s/model"
	"github.com/herbertavetisyan/vist0s/registry"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("Enrichment pipeline")

// logAndRecordError records an error on the current span and notifies it.
func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	wrapped := fmt.Errorf("%s: %w", msg, err)
	notification.NotifyError(wrapped)
	return wrapped
}

// ProcessEnrichment runs the sequential registry pipeline for one enrichment
// request. Every registry is attempted exactly once in its fixed order,
// individual failures are recorded as failed results rather than propagated,
// and after the final attempt the aggregate outcome drives the owning
// application to REJECTED or through scoring to OFFER_READY.
//
// Redelivered tasks are detected by the request already being in a settled
// status and return without side effects. An IN_PROGRESS request re-runs
// from the top: result rows are append-only and this run aggregates only
// the results it produced, so a crashed worker leaves nothing to undo.
func (l *Vistos) ProcessEnrichment(ctx context.Context, enrichmentRequestID string) error {
	ctx, span := tracer.Start(ctx, "Running enrichment pipeline")
	defer span.End()

	req, err := l.datasource.GetEnrichmentRequest(ctx, enrichmentRequestID)
	if err != nil {
		return logAndRecordError(span, "fetch enrichment request error", err)
	}
	if req.IsSettled() {
		logrus.Infof("enrichment request %s already %s, skipping", enrichmentRequestID, req.Status)
		return nil
	}

	app, err := l.datasource.GetApplicationByEnrichmentRequest(ctx, enrichmentRequestID)
	if err != nil {
		return logAndRecordError(span, "fetch application error", err)
	}
	if app.IsTerminal() {
		logrus.Infof("application %s is terminal, skipping enrichment", app.ApplicationID)
		return nil
	}

	product, err := l.datasource.GetProductByID(app.ProductID)
	if err != nil {
		return logAndRecordError(span, "fetch product error", err)
	}

	if err := l.datasource.UpdateEnrichmentStatus(ctx, enrichmentRequestID, model.EnrichmentInProgress); err != nil {
		return logAndRecordError(span, "mark enrichment in progress error", err)
	}

	params := registry.CallParams{NationalID: req.NationalID, Phone: req.Phone, Email: req.Email}
	prior := registry.PriorResults{}
	var results []model.EnrichmentResult

	for _, adapter := range l.adapters {
		span.AddEvent(fmt.Sprintf("calling %s registry", adapter.Name()))

		// The visible stage tracks the registry currently being contacted.
		if _, err := l.AdvanceStage(ctx, app, product); err != nil {
			return logAndRecordError(span, "advance stage error", err)
		}

		// Only the credit bureau and the scoring aggregator see the
		// accumulated output of the calls before them.
		var callPrior registry.PriorResults
		if adapter.SequenceOrder() >= 3 {
			callPrior = prior
		}

		callResult := adapter.Call(ctx, params, callPrior)
		result := l.recordCallResult(ctx, enrichmentRequestID, adapter, callResult)
		results = append(results, result)

		if callResult.Success {
			prior[adapter.Name()] = callResult.Data
			if adapter.Name() == registry.ServiceNorq {
				l.verifyIdentity(ctx, app, callResult.Data)
			}
		}
	}

	aggregate := model.AggregateStatus(results, len(l.adapters))
	if err := l.datasource.UpdateEnrichmentStatus(ctx, enrichmentRequestID, aggregate); err != nil {
		return logAndRecordError(span, "update enrichment status error", err)
	}
	logrus.Infof("enrichment request %s finished with status %s", enrichmentRequestID, aggregate)

	if aggregate == model.EnrichmentFailed {
		if err := l.datasource.TransitionApplication(ctx, app.ApplicationID, app.Status, model.StatusRejected, nil); err != nil {
			return logAndRecordError(span, "reject application error", err)
		}
		app.Status = model.StatusRejected
		l.notifyLifecycle(EventApplicationRejected, app)
		return nil
	}

	l.notifyLifecycle(EventEnrichmentCompleted, req)
	return l.scoreApplication(ctx, span, app, product, prior)
}

// scoreApplication runs the offer calculation on the collected registry data
// and settles the application into OFFER_READY or REJECTED.
func (l *Vistos) scoreApplication(ctx context.Context, span trace.Span, app *model.Application, product *model.Product, prior registry.PriorResults) error {
	input := scoringInputFromPrior(prior)
	input.RequestedTerm = app.TermRequested
	offer := CalculateOffer(input)

	if !offer.Approved {
		if err := l.datasource.TransitionApplication(ctx, app.ApplicationID, app.Status, model.StatusRejected, nil); err != nil {
			return logAndRecordError(span, "reject application error", err)
		}
		app.Status = model.StatusRejected
		if err := l.datasource.RecordAuditLog(ctx, model.AuditLog{
			LogID:         model.GenerateUUIDWithSuffix("log"),
			ApplicationID: app.ApplicationID,
			Action:        model.ActionManualDecision,
			Details:       fmt.Sprintf("scoring rejected application: %s", offer.RejectionReason),
			CreatedAt:     time.Now(),
		}); err != nil {
			notification.NotifyError(err)
		}
		l.notifyLifecycle(EventApplicationRejected, app)
		return nil
	}

	// Move past the scoring stage before parking in OFFER_READY.
	if _, err := l.AdvanceStage(ctx, app, product); err != nil {
		return logAndRecordError(span, "advance past scoring error", err)
	}
	if err := l.datasource.UpdateApplicationOffer(ctx, app.ApplicationID, offer.ApprovedLimit, offer.TermMonths, offer.InterestRate); err != nil {
		return logAndRecordError(span, "store offer error", err)
	}
	app.Status = model.StatusOfferReady
	app.ApprovedLimit = offer.ApprovedLimit
	app.ApprovedTerm = offer.TermMonths
	app.InterestRate = offer.InterestRate

	logrus.Infof("application %s offer ready: limit %d, rate %.2f, term %d",
		app.ApplicationID, offer.ApprovedLimit, offer.InterestRate, offer.TermMonths)
	l.notifyLifecycle(EventOfferReady, app)
	return nil
}

// recordCallResult persists one immutable result row for an attempted
// registry call and mirrors it to the audit log.
func (l *Vistos) recordCallResult(ctx context.Context, enrichmentRequestID string, adapter registry.ServiceAdapter, callResult *registry.CallResult) model.EnrichmentResult {
	status := model.ResultFailed
	if callResult.Success {
		status = model.ResultSuccess
	} else if callResult.TimedOut {
		status = model.ResultTimeout
	}

	result := model.EnrichmentResult{
		EnrichmentResultID:  model.GenerateUUIDWithSuffix("res"),
		EnrichmentRequestID: enrichmentRequestID,
		ServiceName:         adapter.Name(),
		SequenceOrder:       adapter.SequenceOrder(),
		Status:              status,
		ResponseData:        callResult.Data,
		ErrorMessage:        callResult.ErrorMessage,
		RequestedAt:         callResult.RequestedAt,
		RespondedAt:         callResult.RespondedAt,
	}

	saved, err := l.datasource.RecordEnrichmentResult(ctx, result)
	if err != nil {
		// A missing result row loses audit detail but not the pipeline
		// outcome, which is derived from the in-memory result set.
		notification.NotifyError(err)
		return result
	}

	app, err := l.datasource.GetApplicationByEnrichmentRequest(ctx, enrichmentRequestID)
	if err == nil {
		if auditErr := l.datasource.RecordAuditLog(ctx, model.AuditLog{
			LogID:         model.GenerateUUIDWithSuffix("log"),
			ApplicationID: app.ApplicationID,
			Action:        model.ActionEnrichmentCall,
			Details:       fmt.Sprintf("%s call %s in %s", adapter.Name(), status, saved.ResponseTime()),
			CreatedAt:     time.Now(),
		}); auditErr != nil {
			notification.NotifyError(auditErr)
		}
	}
	return saved
}

// verifyIdentity cross-checks the identity registry payload against the
// stored applicant entity. Names compare case and whitespace insensitive,
// birth dates compare date-only. A mismatch is recorded for manual review and
// never aborts the pipeline.
func (l *Vistos) verifyIdentity(ctx context.Context, app *model.Application, payload map[string]interface{}) {
	entity := l.applicantEntity(ctx, app.ApplicationID)
	if entity == nil {
		return
	}

	identity, ok := payload["identity"].(map[string]interface{})
	if !ok {
		l.auditIdentity(ctx, app.ApplicationID, "identity fields absent from registry payload")
		return
	}

	details := "identity check:"
	if first, ok := identity["firstName"].(string); ok {
		details += fmt.Sprintf(" firstName=%s", matchLabel(model.SameName(first, entity.FirstName)))
	}
	if last, ok := identity["lastName"].(string); ok {
		details += fmt.Sprintf(" lastName=%s", matchLabel(model.SameName(last, entity.LastName)))
	}
	if birth, ok := identity["birthDate"].(string); ok {
		if parsed, err := parseBirthDate(birth); err == nil {
			details += fmt.Sprintf(" birthDate=%s", matchLabel(model.SameBirthDate(parsed, entity.DOB)))
		} else {
			details += " birthDate=UNPARSEABLE"
		}
	}
	l.auditIdentity(ctx, app.ApplicationID, details)
}

func (l *Vistos) auditIdentity(ctx context.Context, applicationID, details string) {
	err := l.datasource.RecordAuditLog(ctx, model.AuditLog{
		LogID:         model.GenerateUUIDWithSuffix("log"),
		ApplicationID: applicationID,
		Action:        model.ActionIdentityCheck,
		Details:       details,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		notification.NotifyError(err)
	}
}

// applicantEntity resolves the APPLICANT participant's entity, or nil when
// the application has none yet.
func (l *Vistos) applicantEntity(ctx context.Context, applicationID string) *model.Entity {
	participants, err := l.datasource.GetApplicationParticipants(ctx, applicationID)
	if err != nil {
		notification.NotifyError(err)
		return nil
	}
	for _, p := range participants {
		if p.Role == model.RoleApplicant {
			entity, err := l.datasource.GetEntityByID(ctx, p.EntityID)
			if err != nil {
				notification.NotifyError(err)
				return nil
			}
			return entity
		}
	}
	return nil
}

func matchLabel(matched bool) string {
	if matched {
		return "MATCH"
	}
	return "MISMATCH"
}

func parseBirthDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized birth date format %q", s)
}

// EnrichmentProgress summarizes a pipeline run for the status surface.
type EnrichmentProgress struct {
	Request         *model.EnrichmentRequest `json:"request"`
	Attempted       int                      `json:"attempted"`
	Succeeded       int                      `json:"succeeded"`
	ProgressPercent int                      `json:"progress_percent"`
}

// GetEnrichmentStatus retrieves a pipeline run with its per-call results and
// derived progress.
func (l *Vistos) GetEnrichmentStatus(ctx context.Context, enrichmentRequestID string) (*EnrichmentProgress, error) {
	req, err := l.datasource.GetEnrichmentRequest(ctx, enrichmentRequestID)
	if err != nil {
		return nil, err
	}

	progress := &EnrichmentProgress{Request: req, Attempted: len(req.Results)}
	for _, r := range req.Results {
		if r.Status == model.ResultSuccess {
			progress.Succeeded++
		}
	}
	total := len(l.adapters)
	if total > 0 {
		progress.ProgressPercent = progress.Attempted * 100 / total
	}
	return progress, nil
}

// GetAllEnrichmentRequests retrieves pipeline runs newest first.
func (l *Vistos) GetAllEnrichmentRequests(ctx context.Context, limit, offset int) ([]model.EnrichmentRequest, error) {
	return l.datasource.GetAllEnrichmentRequests(ctx, limit, offset)
}

// scoringInputFromPrior pulls the credit score, risk level and verified
// monthly income out of the accumulated registry payloads. Missing values
// stay zero and fall through scoring's minimum thresholds.
func scoringInputFromPrior(prior registry.PriorResults) ScoringInput {
	var input ScoringInput
	if norq, ok := prior[registry.ServiceNorq]; ok {
		if score, ok := norq["creditScore"].(float64); ok {
			input.CreditScore = int(score)
		}
		if risk, ok := norq["riskLevel"].(string); ok {
			input.RiskLevel = risk
		}
	}
	if ekeng, ok := prior[registry.ServiceEkeng]; ok {
		if salary, ok := ekeng["salary"].(map[string]interface{}); ok {
			if amount, ok := salary["amount"].(float64); ok {
				input.MonthlyIncome = int64(amount)
			}
		}
	}
	return input
}
