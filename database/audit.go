package database

import (
	"context"
	"time"

	"github.com/herbertavetisyan/vist0s/model"
)

// RecordAuditLog appends an audit entry for an application
func (d Datasource) RecordAuditLog(ctx context.Context, entry model.AuditLog) error {
	entry.LogID = model.GenerateUUIDWithSuffix("log")
	entry.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO audit_logs (log_id, application_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.LogID, entry.ApplicationID, entry.Action, entry.Details, entry.CreatedAt)
	return err
}

// GetAuditLogs retrieves the audit trail of an application oldest first
func (d Datasource) GetAuditLogs(ctx context.Context, applicationID string) ([]model.AuditLog, error) {
	rows, err := d.Conn.QueryContext(ctx, `
	SELECT log_id, application_id, action, details, created_at
	FROM audit_logs
	WHERE application_id = $1
	ORDER BY created_at ASC
`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.AuditLog
	for rows.Next() {
		entry := model.AuditLog{}
		err = rows.Scan(&entry.LogID, &entry.ApplicationID, &entry.Action, &entry.Details, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}
