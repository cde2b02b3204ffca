package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Partner is an external origination channel (agent, broker) that submits
// applications through the partner API using its api key.
type Partner struct {
	PartnerID string     `json:"partner_id"`
	Name      string     `json:"name"`
	AppID     string     `json:"app_id"`
	APIKey    string     `json:"api_key"`
	Type      string     `json:"type"`
	IsRevoked bool       `json:"is_revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// GeneratePartnerKey creates a new partner api key (pk_ + 48 hex chars).
func GeneratePartnerKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "pk_" + hex.EncodeToString(b), nil
}

// GenerateAppID creates a partner app identifier (app_ + 16 hex chars).
func GenerateAppID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "app_" + hex.EncodeToString(b), nil
}

// NewPartner creates a partner with freshly generated credentials.
func NewPartner(name, partnerType string) (*Partner, error) {
	key, err := GeneratePartnerKey()
	if err != nil {
		return nil, err
	}
	appID, err := GenerateAppID()
	if err != nil {
		return nil, err
	}
	return &Partner{
		PartnerID: GenerateUUIDWithSuffix("ptn"),
		Name:      name,
		AppID:     appID,
		APIKey:    key,
		Type:      partnerType,
		CreatedAt: time.Now(),
	}, nil
}

// IsValid reports whether the partner key may be used.
func (p *Partner) IsValid() bool {
	return !p.IsRevoked
}
