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

	"github.com/herbertavetisyan/vist0s/model"
)

// CreateStage adds a stage to the global pipeline catalog.
func (l *Vistos) CreateStage(stage model.Stage) (model.Stage, error) {
	if stage.Name == "" {
		return model.Stage{}, fmt.Errorf("stage name is required")
	}
	return l.datasource.CreateStage(stage)
}

// GetStageByName retrieves a catalog stage by its unique name.
func (l *Vistos) GetStageByName(name string) (*model.Stage, error) {
	return l.datasource.GetStageByName(name)
}

// GetAllStages retrieves the stage catalog.
func (l *Vistos) GetAllStages() ([]model.Stage, error) {
	return l.datasource.GetAllStages()
}

// CreateProduct creates a product with its ordered stage links in one
// transaction. Stage order is the position in the given list; product bounds
// must form non-empty ranges. Live applications treat the configuration as
// immutable afterwards.
func (l *Vistos) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	if product.Name == "" {
		return model.Product{}, fmt.Errorf("product name is required")
	}
	if product.Currency == "" {
		return model.Product{}, fmt.Errorf("product currency is required")
	}
	if product.MinAmount <= 0 || product.MaxAmount < product.MinAmount {
		return model.Product{}, fmt.Errorf("product amount bounds [%d, %d] are invalid", product.MinAmount, product.MaxAmount)
	}
	if product.MinTerm <= 0 || product.MaxTerm < product.MinTerm {
		return model.Product{}, fmt.Errorf("product term bounds [%d, %d] are invalid", product.MinTerm, product.MaxTerm)
	}
	if len(product.Stages) == 0 {
		return model.Product{}, fmt.Errorf("product needs at least one stage")
	}
	return l.datasource.CreateProduct(ctx, product)
}

// GetProduct retrieves a product with its ordered stages.
func (l *Vistos) GetProduct(id string) (*model.Product, error) {
	return l.datasource.GetProductByID(id)
}

// GetAllProducts retrieves all products.
func (l *Vistos) GetAllProducts(limit, offset int) ([]model.Product, error) {
	return l.datasource.GetAllProducts(limit, offset)
}
