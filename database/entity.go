package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/herbertavetisyan/vist0s/model"
)

// UpsertEntityByNationalID creates an entity or enriches the existing one
// keyed by the unique national id. Contact fields are refreshed on conflict;
// name and birth date are only filled when previously empty so a repeat
// submission cannot blank out verified identity data.
func (d Datasource) UpsertEntityByNationalID(ctx context.Context, entity model.Entity) (model.Entity, error) {
	metaDataJSON, err := json.Marshal(entity.MetaData)
	if err != nil {
		return entity, err
	}

	entity.EntityID = model.GenerateUUIDWithSuffix("ent")
	entity.CreatedAt = time.Now()

	row := d.Conn.QueryRowContext(ctx, `
		INSERT INTO entities (entity_id, national_id, entity_type, first_name, last_name, dob, phone_number, email, created_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '0001-01-01T00:00:00Z'::timestamp), $7, $8, $9, $10)
		ON CONFLICT (national_id) DO UPDATE SET
			phone_number = EXCLUDED.phone_number,
			email = EXCLUDED.email,
			first_name = CASE WHEN entities.first_name = '' THEN EXCLUDED.first_name ELSE entities.first_name END,
			last_name = CASE WHEN entities.last_name = '' THEN EXCLUDED.last_name ELSE entities.last_name END,
			dob = COALESCE(entities.dob, EXCLUDED.dob)
		RETURNING entity_id, national_id, entity_type, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(dob, '0001-01-01T00:00:00Z'::timestamp), COALESCE(phone_number, ''), COALESCE(email, ''), created_at
	`, entity.EntityID, entity.NationalID, entity.EntityType, entity.FirstName, entity.LastName, entity.DOB, entity.PhoneNumber, entity.Email, entity.CreatedAt, metaDataJSON)

	saved := model.Entity{MetaData: entity.MetaData}
	err = row.Scan(&saved.EntityID, &saved.NationalID, &saved.EntityType, &saved.FirstName, &saved.LastName, &saved.DOB, &saved.PhoneNumber, &saved.Email, &saved.CreatedAt)
	if err != nil {
		return entity, err
	}
	return saved, nil
}

// GetEntityByNationalID retrieves an entity by its unique national id
func (d Datasource) GetEntityByNationalID(ctx context.Context, nationalID string) (*model.Entity, error) {
	return d.getEntity(ctx, `national_id`, nationalID)
}

// GetEntityByID retrieves an entity by ID
func (d Datasource) GetEntityByID(ctx context.Context, id string) (*model.Entity, error) {
	return d.getEntity(ctx, `entity_id`, id)
}

func (d Datasource) getEntity(ctx context.Context, column, value string) (*model.Entity, error) {
	row := d.Conn.QueryRowContext(ctx, `
	SELECT entity_id, national_id, entity_type, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(dob, '0001-01-01T00:00:00Z'::timestamp), COALESCE(phone_number, ''), COALESCE(email, ''), created_at, meta_data
	FROM entities
	WHERE `+column+` = $1
`, value)

	entity := &model.Entity{}
	var metaDataJSON []byte
	err := row.Scan(&entity.EntityID, &entity.NationalID, &entity.EntityType, &entity.FirstName, &entity.LastName, &entity.DOB, &entity.PhoneNumber, &entity.Email, &entity.CreatedAt, &metaDataJSON)
	if err != nil {
		return nil, err
	}

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &entity.MetaData); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

// CreateParticipant links an entity to an application with a role
func (d Datasource) CreateParticipant(ctx context.Context, participant model.Participant) (model.Participant, error) {
	participant.ParticipantID = model.GenerateUUIDWithSuffix("par")
	participant.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO participants (participant_id, application_id, entity_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, participant.ParticipantID, participant.ApplicationID, participant.EntityID, participant.Role, participant.CreatedAt)

	return participant, err
}

// GetApplicationParticipants retrieves the participants of an application
func (d Datasource) GetApplicationParticipants(ctx context.Context, applicationID string) ([]model.Participant, error) {
	rows, err := d.Conn.QueryContext(ctx, `
	SELECT participant_id, application_id, entity_id, role, created_at
	FROM participants
	WHERE application_id = $1
	ORDER BY created_at ASC
`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		p := model.Participant{}
		err = rows.Scan(&p.ParticipantID, &p.ApplicationID, &p.EntityID, &p.Role, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}
