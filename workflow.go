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
)

// NextStage returns the stage the application should move to next, or nil
// when the application is already at the last stage of its product pipeline.
// An application with no current stage moves to the first stage.
func NextStage(product *model.Product, app *model.Application) *model.ProductStage {
	if len(product.Stages) == 0 {
		return nil
	}
	if app.CurrentStageID == "" {
		return &product.Stages[0]
	}
	for i := range product.Stages {
		if product.Stages[i].ProductStageID == app.CurrentStageID {
			if i+1 < len(product.Stages) {
				return &product.Stages[i+1]
			}
			return nil
		}
	}
	return nil
}

// AdvanceStage moves the application one stage forward and derives its status
// from the entered stage. Calling it at the last stage is a no-op, so the
// orchestrator can advance unconditionally before each pipeline step. The
// application is mutated in place on success.
func (l *Vistos) AdvanceStage(ctx context.Context, app *model.Application, product *model.Product) (*model.ProductStage, error) {
	if err := product.ValidateStageOrder(); err != nil {
		return nil, err
	}

	next := NextStage(product, app)
	if next == nil {
		return nil, nil
	}

	status := next.DeriveStatus()
	if err := l.datasource.UpdateApplicationStage(ctx, app.ApplicationID, next.ProductStageID, status); err != nil {
		return nil, err
	}

	previousStage := app.CurrentStageID
	app.CurrentStageID = next.ProductStageID
	app.Status = status

	err := l.datasource.RecordAuditLog(ctx, model.AuditLog{
		LogID:         model.GenerateUUIDWithSuffix("log"),
		ApplicationID: app.ApplicationID,
		Action:        model.ActionStageTransition,
		Details:       fmt.Sprintf("stage %q -> %q (%s), status %s", previousStage, next.ProductStageID, next.StageName, status),
		CreatedAt:     time.Now(),
	})
	if err != nil {
		notification.NotifyError(err)
	}

	return next, nil
}
