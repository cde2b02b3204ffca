package database

import (
	"github.com/herbertavetisyan/vist0s/model"
)

// CreatePartner inserts a new Partner into the database
func (d Datasource) CreatePartner(partner model.Partner) (model.Partner, error) {
	_, err := d.Conn.Exec(`
		INSERT INTO partners (partner_id, name, app_id, api_key, type, is_revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, partner.PartnerID, partner.Name, partner.AppID, partner.APIKey, partner.Type, partner.IsRevoked, partner.CreatedAt)

	return partner, err
}

// GetPartnerByAPIKey retrieves a partner by its api key
func (d Datasource) GetPartnerByAPIKey(key string) (*model.Partner, error) {
	row := d.Conn.QueryRow(`
	SELECT partner_id, name, app_id, api_key, type, is_revoked, revoked_at, created_at
	FROM partners
	WHERE api_key = $1
`, key)

	partner := &model.Partner{}
	err := row.Scan(&partner.PartnerID, &partner.Name, &partner.AppID, &partner.APIKey, &partner.Type, &partner.IsRevoked, &partner.RevokedAt, &partner.CreatedAt)
	if err != nil {
		return nil, err
	}
	return partner, nil
}

// GetAllPartners retrieves all partners newest first
func (d Datasource) GetAllPartners() ([]model.Partner, error) {
	rows, err := d.Conn.Query(`
	SELECT partner_id, name, app_id, api_key, type, is_revoked, revoked_at, created_at
	FROM partners
	ORDER BY created_at DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []model.Partner
	for rows.Next() {
		partner := model.Partner{}
		err = rows.Scan(&partner.PartnerID, &partner.Name, &partner.AppID, &partner.APIKey, &partner.Type, &partner.IsRevoked, &partner.RevokedAt, &partner.CreatedAt)
		if err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}

	return partners, rows.Err()
}

// RotatePartnerKey replaces a partner's api key
func (d Datasource) RotatePartnerKey(id, newKey string) error {
	_, err := d.Conn.Exec(`
		UPDATE partners
		SET api_key = $2
		WHERE partner_id = $1
	`, id, newKey)
	return err
}

// RevokePartner revokes partner access without deleting the record
func (d Datasource) RevokePartner(id string) error {
	_, err := d.Conn.Exec(`
		UPDATE partners
		SET is_revoked = TRUE, revoked_at = NOW()
		WHERE partner_id = $1
	`, id)
	return err
}
