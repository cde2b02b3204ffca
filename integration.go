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
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/herbertavetisyan/vist0s/model"
	"github.com/sirupsen/logrus"
)

// SMSSender delivers short messages to applicants. The default implementation
// only logs the send.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

// EmailSender delivers email notifications to applicants.
type EmailSender interface {
	SendEmail(ctx context.Context, email, subject, body string) error
}

// DisbursementResult is the core banking confirmation of a transfer.
type DisbursementResult struct {
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// CoreBanking executes the final money movement for an approved application.
type CoreBanking interface {
	DisburseLoan(ctx context.Context, app *model.Application) (*DisbursementResult, error)
}

// mockIntegration is the stand-in collaborator used until real transports are
// wired. It logs every call and always succeeds.
type mockIntegration struct{}

// NewMockIntegration returns a logging implementation of all the external
// collaborator interfaces.
func NewMockIntegration() *mockIntegration {
	return &mockIntegration{}
}

func (m *mockIntegration) SendSMS(_ context.Context, phoneNumber, message string) error {
	logrus.Infof("sending SMS to %s: %q", phoneNumber, message)
	return nil
}

func (m *mockIntegration) SendEmail(_ context.Context, email, subject, _ string) error {
	logrus.Infof("sending email to %s: [%s]", email, subject)
	return nil
}

func (m *mockIntegration) DisburseLoan(_ context.Context, app *model.Application) (*DisbursementResult, error) {
	logrus.Infof("core banking transfer: %d %s to %s (%s)",
		app.SelectedAmount, app.Currency, app.AccountNumber, app.BankName)

	ref, err := transactionReference()
	if err != nil {
		return nil, err
	}
	return &DisbursementResult{TransactionID: ref, Timestamp: time.Now()}, nil
}

// transactionReference produces a core-banking styled reference like
// AS-3F9A1C04D.
func transactionReference() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("AS-%s", strings.ToUpper(hex.EncodeToString(b)[:9])), nil
}
