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
	"fmt"

	"github.com/herbertavetisyan/vist0s/model"
	"github.com/sirupsen/logrus"
)

// CreatePartner registers an external origination channel and returns its
// freshly generated credentials. The api key is only ever shown once.
func (l *Vistos) CreatePartner(name, partnerType string) (*model.Partner, error) {
	if name == "" {
		return nil, fmt.Errorf("partner name is required")
	}
	partner, err := model.NewPartner(name, partnerType)
	if err != nil {
		return nil, err
	}
	created, err := l.datasource.CreatePartner(*partner)
	if err != nil {
		return nil, err
	}
	logrus.Infof("partner %s created with app id %s", created.PartnerID, created.AppID)
	return &created, nil
}

// AuthenticatePartner resolves an api key to an active partner. Revoked keys
// fail the same way unknown keys do.
func (l *Vistos) AuthenticatePartner(apiKey string) (*model.Partner, error) {
	partner, err := l.datasource.GetPartnerByAPIKey(apiKey)
	if err != nil {
		return nil, fmt.Errorf("invalid partner api key")
	}
	if !partner.IsValid() {
		return nil, fmt.Errorf("invalid partner api key")
	}
	return partner, nil
}

// GetAllPartners retrieves all registered partners.
func (l *Vistos) GetAllPartners() ([]model.Partner, error) {
	return l.datasource.GetAllPartners()
}

// RotatePartnerKey replaces a partner's api key and returns the new key.
// The old key stops working immediately.
func (l *Vistos) RotatePartnerKey(partnerID string) (string, error) {
	newKey, err := model.GeneratePartnerKey()
	if err != nil {
		return "", err
	}
	if err := l.datasource.RotatePartnerKey(partnerID, newKey); err != nil {
		return "", err
	}
	logrus.Infof("partner %s api key rotated", partnerID)
	return newKey, nil
}

// RevokePartner permanently disables a partner's access.
func (l *Vistos) RevokePartner(partnerID string) error {
	return l.datasource.RevokePartner(partnerID)
}
