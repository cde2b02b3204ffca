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

	"github.com/herbertavetisyan/vist0s/model"
	"github.com/sirupsen/logrus"
)

// Agreement document types signed in order during the signing step.
const (
	DocAgreementPrimary   = "agreement-1"
	DocAgreementSecondary = "agreement-2"
)

// RenderAgreement produces the agreement text for digital signing. Documents
// only exist once an offer has been selected.
func (l *Vistos) RenderAgreement(ctx context.Context, applicationID, docType string) ([]byte, error) {
	if docType != DocAgreementPrimary && docType != DocAgreementSecondary {
		return nil, fmt.Errorf("unknown document type %q", docType)
	}

	app, err := l.datasource.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	switch app.Status {
	case model.StatusOfferSelected, model.StatusSigning, model.StatusSigningComplete:
	default:
		return nil, fmt.Errorf("application %s is %s, no agreement to render yet", applicationID, app.Status)
	}

	content := fmt.Sprintf(`LOAN AGREEMENT - %s
Application ID: %s
Amount: %d %s
Term: %d months
Interest Rate: %.2f%%

This is a legally binding document generated for digital signing.
Timestamp: %s
`, docType, app.ApplicationID, app.SelectedAmount, app.Currency, app.SelectedTerm, app.InterestRate, time.Now().Format(time.RFC3339))

	return []byte(content), nil
}

// SignDocument records the digital signature of one agreement document. The
// first document moves the application into SIGNING, the second completes the
// signing step.
func (l *Vistos) SignDocument(ctx context.Context, applicationID, docType string) (*model.Application, error) {
	app, err := l.datasource.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	var from, to string
	switch docType {
	case DocAgreementPrimary:
		from, to = model.StatusOfferSelected, model.StatusSigning
	case DocAgreementSecondary:
		from, to = model.StatusSigning, model.StatusSigningComplete
	default:
		return nil, fmt.Errorf("unknown document type %q", docType)
	}
	if err := app.GuardStatus(from); err != nil {
		return nil, err
	}

	if err := l.datasource.TransitionApplication(ctx, applicationID, from, to, nil); err != nil {
		return nil, err
	}
	app.Status = to
	logrus.Infof("document %s signed for application %s", docType, applicationID)

	if to == model.StatusSigningComplete {
		l.advanceKeepingStatus(ctx, app)
	}
	return app, nil
}
