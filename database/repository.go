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

package database

import (
	"context"

	"github.com/herbertavetisyan/vist0s/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	product    // Product and stage configuration operations
	application // Application lifecycle operations
	enrichment  // Enrichment request/result operations
	entity      // Entity and participant operations
	partner     // Partner credential operations
	audit       // Append-only audit log operations
}

// product defines methods for handling product and stage configuration.
type product interface {
	CreateStage(stage model.Stage) (model.Stage, error)                             // Creates a catalog stage
	GetAllStages() ([]model.Stage, error)                                           // Retrieves the stage catalog
	GetStageByName(name string) (*model.Stage, error)                               // Retrieves a stage by its unique name
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error) // Creates a product with its ordered stage links in one transaction
	GetProductByID(id string) (*model.Product, error)                               // Retrieves a product with its ordered stages
	GetAllProducts(limit, offset int) ([]model.Product, error)                      // Retrieves all products
}

// application defines methods for handling loan applications.
type application interface {
	CreateApplication(ctx context.Context, app model.Application) (model.Application, error)       // Creates a new application
	SubmitApplication(ctx context.Context, entity model.Entity, app model.Application) (*model.Application, *model.Entity, error) // Creates entity, enrichment request, application and applicant link in one transaction
	GetApplicationByID(ctx context.Context, id string) (*model.Application, error)                 // Retrieves an application by ID
	GetAllApplications(ctx context.Context, limit, offset int) ([]model.Application, error)        // Retrieves applications newest first
	UpdateApplicationStage(ctx context.Context, id, stageID, status string) error                  // Sets the current stage and derived status
	UpdateApplicationStatus(ctx context.Context, id, status string) error                          // Sets the status unconditionally
	UpdateApplicationOffer(ctx context.Context, id string, limit int64, term int, rate float64) error // Stores the scored offer and marks OFFER_READY
	TransitionApplication(ctx context.Context, id, fromStatus, toStatus string, set map[string]interface{}) error // Atomic guarded status transition
}

// enrichment defines methods for handling enrichment requests and results.
type enrichment interface {
	CreateEnrichmentRequest(ctx context.Context, req model.EnrichmentRequest) (model.EnrichmentRequest, error) // Creates a pipeline run record
	GetEnrichmentRequest(ctx context.Context, id string) (*model.EnrichmentRequest, error)                     // Retrieves a request with its ordered results
	GetAllEnrichmentRequests(ctx context.Context, limit, offset int) ([]model.EnrichmentRequest, error)        // Retrieves requests newest first
	UpdateEnrichmentStatus(ctx context.Context, id, status string) error                                       // Updates the aggregate status
	RecordEnrichmentResult(ctx context.Context, result model.EnrichmentResult) (model.EnrichmentResult, error) // Appends one immutable call result
	GetApplicationByEnrichmentRequest(ctx context.Context, enrichmentRequestID string) (*model.Application, error) // Resolves the owning application
}

// entity defines methods for handling entities and participants.
type entity interface {
	UpsertEntityByNationalID(ctx context.Context, entity model.Entity) (model.Entity, error) // Creates or enriches an entity keyed by national id
	GetEntityByNationalID(ctx context.Context, nationalID string) (*model.Entity, error)     // Retrieves an entity by national id
	GetEntityByID(ctx context.Context, id string) (*model.Entity, error)                     // Retrieves an entity by ID
	CreateParticipant(ctx context.Context, participant model.Participant) (model.Participant, error) // Links an entity to an application
	GetApplicationParticipants(ctx context.Context, applicationID string) ([]model.Participant, error) // Retrieves an application's participants
}

// partner defines methods for handling partner credentials.
type partner interface {
	CreatePartner(partner model.Partner) (model.Partner, error) // Creates a partner with its credentials
	GetPartnerByAPIKey(key string) (*model.Partner, error)      // Retrieves a partner by api key
	GetAllPartners() ([]model.Partner, error)                   // Retrieves all partners
	RotatePartnerKey(id, newKey string) error                   // Replaces a partner's api key
	RevokePartner(id string) error                              // Revokes partner access
}

// audit defines methods for the append-only audit log.
type audit interface {
	RecordAuditLog(ctx context.Context, entry model.AuditLog) error                          // Appends an audit entry
	GetAuditLogs(ctx context.Context, applicationID string) ([]model.AuditLog, error)        // Retrieves an application's audit trail
}
