package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/herbertavetisyan/vist0s/model"
)

// CreateEnrichmentRequest inserts a new pipeline run record
func (d Datasource) CreateEnrichmentRequest(ctx context.Context, req model.EnrichmentRequest) (model.EnrichmentRequest, error) {
	req.EnrichmentRequestID = model.GenerateUUIDWithSuffix("enr")
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO enrichment_requests (enrichment_request_id, national_id, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, req.EnrichmentRequestID, req.NationalID, req.Phone, req.Email, req.Status, req.CreatedAt, req.UpdatedAt)

	return req, err
}

// GetEnrichmentRequest retrieves a request and its results in call order
func (d Datasource) GetEnrichmentRequest(ctx context.Context, id string) (*model.EnrichmentRequest, error) {
	row := d.Conn.QueryRowContext(ctx, `
	SELECT enrichment_request_id, national_id, phone, email, status, created_at, updated_at
	FROM enrichment_requests
	WHERE enrichment_request_id = $1
`, id)

	req := &model.EnrichmentRequest{}
	err := row.Scan(&req.EnrichmentRequestID, &req.NationalID, &req.Phone, &req.Email, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := d.Conn.QueryContext(ctx, `
	SELECT enrichment_result_id, enrichment_request_id, service_name, sequence_order, status, response_data, COALESCE(error_message, ''), requested_at, responded_at
	FROM enrichment_results
	WHERE enrichment_request_id = $1
	ORDER BY sequence_order ASC
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		result := model.EnrichmentResult{}
		var responseJSON []byte
		err = rows.Scan(&result.EnrichmentResultID, &result.EnrichmentRequestID, &result.ServiceName, &result.SequenceOrder, &result.Status, &responseJSON, &result.ErrorMessage, &result.RequestedAt, &result.RespondedAt)
		if err != nil {
			return nil, err
		}
		if len(responseJSON) > 0 {
			if err := json.Unmarshal(responseJSON, &result.ResponseData); err != nil {
				return nil, err
			}
		}
		req.Results = append(req.Results, result)
	}

	return req, rows.Err()
}

// GetAllEnrichmentRequests retrieves requests newest first, without results
func (d Datasource) GetAllEnrichmentRequests(ctx context.Context, limit, offset int) ([]model.EnrichmentRequest, error) {
	rows, err := d.Conn.QueryContext(ctx, `
	SELECT enrichment_request_id, national_id, phone, email, status, created_at, updated_at
	FROM enrichment_requests
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []model.EnrichmentRequest
	for rows.Next() {
		req := model.EnrichmentRequest{}
		err = rows.Scan(&req.EnrichmentRequestID, &req.NationalID, &req.Phone, &req.Email, &req.Status, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// UpdateEnrichmentStatus updates the aggregate status of a pipeline run
func (d Datasource) UpdateEnrichmentStatus(ctx context.Context, id, status string) error {
	_, err := d.Conn.ExecContext(ctx, `
		UPDATE enrichment_requests
		SET status = $2, updated_at = NOW()
		WHERE enrichment_request_id = $1
	`, id, status)
	return err
}

// RecordEnrichmentResult appends one immutable call result. Rows written here
// are never updated or deleted.
func (d Datasource) RecordEnrichmentResult(ctx context.Context, result model.EnrichmentResult) (model.EnrichmentResult, error) {
	responseJSON, err := json.Marshal(result.ResponseData)
	if err != nil {
		return result, err
	}

	result.EnrichmentResultID = model.GenerateUUIDWithSuffix("res")

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO enrichment_results (enrichment_result_id, enrichment_request_id, service_name, sequence_order, status, response_data, error_message, requested_at, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, result.EnrichmentResultID, result.EnrichmentRequestID, result.ServiceName, result.SequenceOrder, result.Status, responseJSON, result.ErrorMessage, result.RequestedAt, result.RespondedAt)

	return result, err
}

// GetApplicationByEnrichmentRequest resolves the application owning a pipeline run
func (d Datasource) GetApplicationByEnrichmentRequest(ctx context.Context, enrichmentRequestID string) (*model.Application, error) {
	row := d.Conn.QueryRowContext(ctx, `
	SELECT application_id, product_id, enrichment_request_id, COALESCE(partner_id, ''), status, COALESCE(current_stage_id, ''), currency, amount_requested, term_requested,
		COALESCE(approved_limit, 0), COALESCE(approved_term, 0), COALESCE(interest_rate, 0),
		COALESCE(selected_amount, 0), COALESCE(selected_term, 0),
		COALESCE(otp_hash, ''), otp_expires_at, COALESCE(bank_name, ''), COALESCE(account_number, ''), created_at, updated_at, meta_data
	FROM applications
	WHERE enrichment_request_id = $1
`, enrichmentRequestID)

	return scanApplication(row)
}
