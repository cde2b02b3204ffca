package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/herbertavetisyan/vist0s/model"
)

// CreateStage inserts a new catalog Stage into the database
func (d Datasource) CreateStage(stage model.Stage) (model.Stage, error) {
	stage.StageID = model.GenerateUUIDWithSuffix("stg")
	stage.CreatedAt = time.Now()

	_, err := d.Conn.Exec(`
		INSERT INTO stages (stage_id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`, stage.StageID, stage.Name, stage.Description, stage.CreatedAt)

	return stage, err
}

// GetAllStages retrieves the stage catalog from the database
func (d Datasource) GetAllStages() ([]model.Stage, error) {
	rows, err := d.Conn.Query(`
	SELECT stage_id, name, description, created_at
	FROM stages
	ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []model.Stage
	for rows.Next() {
		stage := model.Stage{}
		err = rows.Scan(&stage.StageID, &stage.Name, &stage.Description, &stage.CreatedAt)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	return stages, rows.Err()
}

// GetStageByName retrieves a stage by its unique name
func (d Datasource) GetStageByName(name string) (*model.Stage, error) {
	row := d.Conn.QueryRow(`
	SELECT stage_id, name, description, created_at
	FROM stages
	WHERE name = $1
`, name)

	stage := &model.Stage{}
	err := row.Scan(&stage.StageID, &stage.Name, &stage.Description, &stage.CreatedAt)
	if err != nil {
		return nil, err
	}
	return stage, nil
}

// CreateProduct inserts a product together with its ordered stage links and
// allowed participant roles in a single transaction. Stage orders are
// assigned from the slice position, so they are contiguous by construction.
func (d Datasource) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return product, err
	}

	product.ProductID = model.GenerateUUIDWithSuffix("prd")
	product.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (product_id, name, description, currency, min_amount, max_amount, interest_rate, min_term, max_term, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, product.ProductID, product.Name, product.Description, product.Currency, product.MinAmount, product.MaxAmount, product.InterestRate, product.MinTerm, product.MaxTerm, product.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		return product, errors.Wrap(err, "creating product")
	}

	for i := range product.Stages {
		ps := &product.Stages[i]
		ps.ProductStageID = model.GenerateUUIDWithSuffix("pst")
		ps.ProductID = product.ProductID
		ps.Order = i + 1
		_, err = tx.ExecContext(ctx, `
			INSERT INTO product_stages (product_stage_id, product_id, stage_id, stage_order, target_status, is_required)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, ps.ProductStageID, ps.ProductID, ps.StageID, ps.Order, ps.TargetStatus, ps.IsRequired)
		if err != nil {
			_ = tx.Rollback()
			return product, errors.Wrap(err, "linking product stage")
		}
	}

	for i := range product.Entities {
		pe := &product.Entities[i]
		pe.ProductEntityID = model.GenerateUUIDWithSuffix("pen")
		pe.ProductID = product.ProductID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO product_entities (product_entity_id, product_id, entity_type, role, is_required)
			VALUES ($1, $2, $3, $4, $5)
		`, pe.ProductEntityID, pe.ProductID, pe.EntityType, pe.Role, pe.IsRequired)
		if err != nil {
			_ = tx.Rollback()
			return product, errors.Wrap(err, "linking product entity")
		}
	}

	if err := tx.Commit(); err != nil {
		return product, err
	}
	return product, nil
}

// GetProductByID retrieves a product and its stage pipeline ordered by
// stage_order ascending.
func (d Datasource) GetProductByID(id string) (*model.Product, error) {
	row := d.Conn.QueryRow(`
	SELECT product_id, name, description, currency, min_amount, max_amount, interest_rate, min_term, max_term, created_at
	FROM products
	WHERE product_id = $1
`, id)

	product := &model.Product{}
	err := row.Scan(
		&product.ProductID, &product.Name, &product.Description, &product.Currency,
		&product.MinAmount, &product.MaxAmount, &product.InterestRate,
		&product.MinTerm, &product.MaxTerm, &product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rows, err := d.Conn.Query(`
	SELECT ps.product_stage_id, ps.product_id, ps.stage_id, s.name, ps.stage_order, COALESCE(ps.target_status, ''), ps.is_required
	FROM product_stages ps
	JOIN stages s ON s.stage_id = ps.stage_id
	WHERE ps.product_id = $1
	ORDER BY ps.stage_order ASC
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		ps := model.ProductStage{}
		err = rows.Scan(&ps.ProductStageID, &ps.ProductID, &ps.StageID, &ps.StageName, &ps.Order, &ps.TargetStatus, &ps.IsRequired)
		if err != nil {
			return nil, err
		}
		product.Stages = append(product.Stages, ps)
	}

	return product, rows.Err()
}

// GetAllProducts retrieves products without their stage pipelines
func (d Datasource) GetAllProducts(limit, offset int) ([]model.Product, error) {
	rows, err := d.Conn.Query(`
	SELECT product_id, name, description, currency, min_amount, max_amount, interest_rate, min_term, max_term, created_at
	FROM products
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product := model.Product{}
		err = rows.Scan(
			&product.ProductID, &product.Name, &product.Description, &product.Currency,
			&product.MinAmount, &product.MaxAmount, &product.InterestRate,
			&product.MinTerm, &product.MaxTerm, &product.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return products, nil
}
