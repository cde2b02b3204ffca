package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/herbertavetisyan/vist0s/model"
)

// CreateApplication inserts a new Application into the database
func (d Datasource) CreateApplication(ctx context.Context, app model.Application) (model.Application, error) {
	metaDataJSON, err := json.Marshal(app.MetaData)
	if err != nil {
		return app, err
	}

	app.ApplicationID = model.GenerateUUIDWithSuffix("app")
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO applications (application_id, product_id, enrichment_request_id, partner_id, status, current_stage_id, currency, amount_requested, term_requested, created_at, updated_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12)
	`, app.ApplicationID, app.ProductID, app.EnrichmentRequestID, app.PartnerID, app.Status, app.CurrentStageID, app.Currency, app.AmountRequested, app.TermRequested, app.CreatedAt, app.UpdatedAt, metaDataJSON)

	return app, err
}

// SubmitApplication creates the whole submission bundle in one transaction:
// the applicant entity upserted by national id, a PENDING enrichment request
// carrying the applicant's identifying triple, the application itself and the
// APPLICANT participant link. Either every row lands or none does.
func (d Datasource) SubmitApplication(ctx context.Context, entity model.Entity, app model.Application) (*model.Application, *model.Entity, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	entityMetaJSON, err := json.Marshal(entity.MetaData)
	if err != nil {
		return nil, nil, err
	}
	entity.EntityID = model.GenerateUUIDWithSuffix("ent")
	entity.CreatedAt = time.Now()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO entities (entity_id, national_id, entity_type, first_name, last_name, dob, phone_number, email, created_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '0001-01-01T00:00:00Z'::timestamp), $7, $8, $9, $10)
		ON CONFLICT (national_id) DO UPDATE SET
			phone_number = EXCLUDED.phone_number,
			email = EXCLUDED.email,
			first_name = CASE WHEN entities.first_name = '' THEN EXCLUDED.first_name ELSE entities.first_name END,
			last_name = CASE WHEN entities.last_name = '' THEN EXCLUDED.last_name ELSE entities.last_name END,
			dob = COALESCE(entities.dob, EXCLUDED.dob)
		RETURNING entity_id
	`, entity.EntityID, entity.NationalID, entity.EntityType, entity.FirstName, entity.LastName, entity.DOB, entity.PhoneNumber, entity.Email, entity.CreatedAt, entityMetaJSON)
	if err = row.Scan(&entity.EntityID); err != nil {
		return nil, nil, errors.Wrap(err, "failed to upsert applicant entity")
	}

	enrichmentRequestID := model.GenerateUUIDWithSuffix("enr")
	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO enrichment_requests (enrichment_request_id, national_id, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, enrichmentRequestID, entity.NationalID, entity.PhoneNumber, entity.Email, model.EnrichmentPending, now, now)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create enrichment request")
	}

	appMetaJSON, err := json.Marshal(app.MetaData)
	if err != nil {
		return nil, nil, err
	}
	app.ApplicationID = model.GenerateUUIDWithSuffix("app")
	app.EnrichmentRequestID = enrichmentRequestID
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO applications (application_id, product_id, enrichment_request_id, partner_id, status, current_stage_id, currency, amount_requested, term_requested, created_at, updated_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12)
	`, app.ApplicationID, app.ProductID, app.EnrichmentRequestID, app.PartnerID, app.Status, app.CurrentStageID, app.Currency, app.AmountRequested, app.TermRequested, app.CreatedAt, app.UpdatedAt, appMetaJSON)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create application")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participants (participant_id, application_id, entity_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, model.GenerateUUIDWithSuffix("par"), app.ApplicationID, entity.EntityID, model.RoleApplicant, now)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to link applicant participant")
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to commit submission")
	}
	return &app, &entity, nil
}

// GetApplicationByID retrieves an application from the database by ID
func (d Datasource) GetApplicationByID(ctx context.Context, id string) (*model.Application, error) {
	row := d.Conn.QueryRowContext(ctx, `
	SELECT application_id, product_id, enrichment_request_id, COALESCE(partner_id, ''), status, COALESCE(current_stage_id, ''), currency, amount_requested, term_requested,
		COALESCE(approved_limit, 0), COALESCE(approved_term, 0), COALESCE(interest_rate, 0),
		COALESCE(selected_amount, 0), COALESCE(selected_term, 0),
		COALESCE(otp_hash, ''), otp_expires_at, COALESCE(bank_name, ''), COALESCE(account_number, ''), created_at, updated_at, meta_data
	FROM applications
	WHERE application_id = $1
`, id)

	return scanApplication(row)
}

func scanApplication(row *sql.Row) (*model.Application, error) {
	app := &model.Application{}
	var metaDataJSON []byte
	err := row.Scan(
		&app.ApplicationID, &app.ProductID, &app.EnrichmentRequestID, &app.PartnerID, &app.Status, &app.CurrentStageID, &app.Currency,
		&app.AmountRequested, &app.TermRequested,
		&app.ApprovedLimit, &app.ApprovedTerm, &app.InterestRate,
		&app.SelectedAmount, &app.SelectedTerm,
		&app.OTPHash, &app.OTPExpiresAt, &app.BankName, &app.AccountNumber, &app.CreatedAt, &app.UpdatedAt, &metaDataJSON,
	)
	if err != nil {
		return nil, err
	}

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &app.MetaData); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// GetAllApplications retrieves applications newest first
func (d Datasource) GetAllApplications(ctx context.Context, limit, offset int) ([]model.Application, error) {
	rows, err := d.Conn.QueryContext(ctx, `
	SELECT application_id, product_id, enrichment_request_id, COALESCE(partner_id, ''), status, COALESCE(current_stage_id, ''), currency, amount_requested, term_requested,
		COALESCE(approved_limit, 0), COALESCE(approved_term, 0), COALESCE(interest_rate, 0),
		COALESCE(selected_amount, 0), COALESCE(selected_term, 0), created_at, updated_at
	FROM applications
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		app := model.Application{}
		err = rows.Scan(
			&app.ApplicationID, &app.ProductID, &app.EnrichmentRequestID, &app.PartnerID, &app.Status, &app.CurrentStageID, &app.Currency,
			&app.AmountRequested, &app.TermRequested,
			&app.ApprovedLimit, &app.ApprovedTerm, &app.InterestRate,
			&app.SelectedAmount, &app.SelectedTerm, &app.CreatedAt, &app.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

// UpdateApplicationStage sets the current stage and the status derived from it
func (d Datasource) UpdateApplicationStage(ctx context.Context, id, stageID, status string) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE applications
		SET current_stage_id = $2, status = $3, updated_at = NOW()
		WHERE application_id = $1
	`, id, stageID, status)
	return err
}

// UpdateApplicationStatus sets the status unconditionally
func (d Datasource) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, updated_at = NOW()
		WHERE application_id = $1
	`, id, status)
	return err
}

// UpdateApplicationOffer stores the scored offer and marks the application OFFER_READY
func (d Datasource) UpdateApplicationOffer(ctx context.Context, id string, limit int64, term int, rate float64) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, approved_limit = $3, approved_term = $4, interest_rate = $5, updated_at = NOW()
		WHERE application_id = $1
	`, id, model.StatusOfferReady, limit, term, rate)
	return err
}

// transition columns clients may set alongside a guarded status change
var allowedTransitionColumns = map[string]bool{
	"selected_amount": true,
	"selected_term":   true,
	"otp_hash":        true,
	"otp_expires_at":  true,
	"bank_name":       true,
	"account_number":  true,
}

// TransitionApplication performs a guarded compare-and-set status change.
// The WHERE clause carries the expected current status, so two concurrent
// client actions cannot both race past the same guard; the loser sees zero
// rows affected and gets a conflict error.
func (d Datasource) TransitionApplication(ctx context.Context, id, fromStatus, toStatus string, set map[string]interface{}) error {
	query := `UPDATE applications SET status = $3, updated_at = NOW()`
	args := []interface{}{id, fromStatus, toStatus}

	cols := make([]string, 0, len(set))
	for col := range set {
		if !allowedTransitionColumns[col] {
			return errors.Errorf("column %s may not be set by a transition", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		args = append(args, set[col])
		query += fmt.Sprintf(", %s = $%d", col, len(args))
	}
	query += ` WHERE application_id = $1 AND status = $2`

	result, err := d.Conn.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Errorf("application %s is no longer %s, transition to %s aborted", id, fromStatus, toStatus)
	}
	return nil
}
