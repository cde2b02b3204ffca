package database

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"

	"github.com/herbertavetisyan/vist0s/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}

	// the database container may still be starting, retry the ping briefly
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	err = backoff.Retry(db.Ping, policy)
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}

	for _, create := range []func(*sql.DB) error{
		createStageTable,
		createProductTable,
		createProductStageTable,
		createProductEntityTable,
		createEntityTable,
		createEnrichmentRequestTable,
		createEnrichmentResultTable,
		createApplicationTable,
		createParticipantTable,
		createPartnerTable,
		createAuditLogTable,
	} {
		if err := create(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// createStageTable creates a PostgreSQL table for the Stage struct
func createStageTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS stages (
			id SERIAL PRIMARY KEY,
			stage_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// createProductTable creates a PostgreSQL table for the Product struct
func createProductTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			product_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			currency TEXT NOT NULL,
			min_amount BIGINT NOT NULL,
			max_amount BIGINT NOT NULL,
			interest_rate DOUBLE PRECISION NOT NULL,
			min_term INT NOT NULL,
			max_term INT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// createProductStageTable creates the ordered product-to-stage link table.
// target_status is the application status derived when entering the stage.
func createProductStageTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS product_stages (
			id SERIAL PRIMARY KEY,
			product_stage_id TEXT NOT NULL UNIQUE,
			product_id TEXT NOT NULL REFERENCES products(product_id),
			stage_id TEXT NOT NULL REFERENCES stages(stage_id),
			stage_order INT NOT NULL,
			target_status TEXT,
			is_required BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE (product_id, stage_order),
			UNIQUE (product_id, stage_id)
		)
	`)
	return err
}

func createProductEntityTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS product_entities (
			id SERIAL PRIMARY KEY,
			product_entity_id TEXT NOT NULL UNIQUE,
			product_id TEXT NOT NULL REFERENCES products(product_id),
			entity_type TEXT NOT NULL,
			role TEXT NOT NULL,
			is_required BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	return err
}

// createEntityTable creates a PostgreSQL table for the Entity struct
func createEntityTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entities (
			id SERIAL PRIMARY KEY,
			entity_id TEXT NOT NULL UNIQUE,
			national_id TEXT NOT NULL UNIQUE,
			entity_type TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			dob TIMESTAMP,
			phone_number TEXT,
			email TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	return err
}

func createEnrichmentRequestTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS enrichment_requests (
			id SERIAL PRIMARY KEY,
			enrichment_request_id TEXT NOT NULL UNIQUE,
			national_id TEXT NOT NULL,
			phone TEXT,
			email TEXT,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// createEnrichmentResultTable creates the append-only per-call audit table.
func createEnrichmentResultTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS enrichment_results (
			id SERIAL PRIMARY KEY,
			enrichment_result_id TEXT NOT NULL UNIQUE,
			enrichment_request_id TEXT NOT NULL REFERENCES enrichment_requests(enrichment_request_id),
			service_name TEXT NOT NULL,
			sequence_order INT NOT NULL,
			status TEXT NOT NULL,
			response_data JSONB,
			error_message TEXT,
			requested_at TIMESTAMP NOT NULL,
			responded_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func createApplicationTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id SERIAL PRIMARY KEY,
			application_id TEXT NOT NULL UNIQUE,
			product_id TEXT NOT NULL REFERENCES products(product_id),
			enrichment_request_id TEXT NOT NULL UNIQUE REFERENCES enrichment_requests(enrichment_request_id),
			partner_id TEXT,
			status TEXT NOT NULL,
			current_stage_id TEXT,
			currency TEXT NOT NULL,
			amount_requested BIGINT NOT NULL,
			term_requested INT NOT NULL,
			approved_limit BIGINT,
			approved_term INT,
			interest_rate DOUBLE PRECISION,
			selected_amount BIGINT,
			selected_term INT,
			otp_hash TEXT,
			otp_expires_at TIMESTAMP,
			bank_name TEXT,
			account_number TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	return err
}

func createParticipantTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS participants (
			id SERIAL PRIMARY KEY,
			participant_id TEXT NOT NULL UNIQUE,
			application_id TEXT NOT NULL REFERENCES applications(application_id),
			entity_id TEXT NOT NULL REFERENCES entities(entity_id),
			role TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createPartnerTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS partners (
			id SERIAL PRIMARY KEY,
			partner_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE,
			app_id TEXT NOT NULL UNIQUE,
			api_key TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			is_revoked BOOLEAN NOT NULL DEFAULT FALSE,
			revoked_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createAuditLogTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id SERIAL PRIMARY KEY,
			log_id TEXT NOT NULL UNIQUE,
			application_id TEXT NOT NULL,
			action TEXT NOT NULL,
			details TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}
