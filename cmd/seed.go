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

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/herbertavetisyan/vist0s/model"
	"github.com/spf13/cobra"
)

// stage catalog with the application status each stage drives
var seedStages = []struct {
	Name         string
	TargetStatus string
}{
	{"Entities", model.StatusEnriching},
	{"Documents", model.StatusEnriching},
	{"Credit Bureau", model.StatusEnriching},
	{"Salary Source", model.StatusEnriching},
	{"Scoring", model.StatusOfferReady},
	{"Manual Review", model.StatusManualReview},
	{"Internal Signing", model.StatusSigning},
	{"Approval", model.StatusApproved},
	{"Disbursement", model.StatusDisbursed},
}

type seedProduct struct {
	Name         string
	Description  string
	Currency     string
	MinAmount    int64
	MaxAmount    int64
	InterestRate float64
	MinTerm      int
	MaxTerm      int
	Stages       []string
	Entities     []model.ProductEntity
}

var seedProducts = []seedProduct{
	{
		Name:         "Personal Loan",
		Description:  "Unsecured consumer loan",
		Currency:     "AMD",
		MinAmount:    100_000,
		MaxAmount:    5_000_000,
		InterestRate: 12.5,
		MinTerm:      12,
		MaxTerm:      60,
		Stages:       []string{"Entities", "Documents", "Credit Bureau", "Scoring", "Manual Review", "Approval", "Disbursement"},
		Entities: []model.ProductEntity{
			{EntityType: model.EntityIndividual, Role: model.RoleApplicant, IsRequired: true},
		},
	},
	{
		Name:         "Mortgage",
		Description:  "Residential mortgage loan",
		Currency:     "USD",
		MinAmount:    20_000,
		MaxAmount:    200_000,
		InterestRate: 8.5,
		MinTerm:      60,
		MaxTerm:      240,
		Stages:       []string{"Entities", "Documents", "Credit Bureau", "Salary Source", "Manual Review", "Approval", "Disbursement"},
		Entities: []model.ProductEntity{
			{EntityType: model.EntityIndividual, Role: model.RoleApplicant, IsRequired: true},
			{EntityType: model.EntityIndividual, Role: model.RoleCoApplicant, IsRequired: false},
		},
	},
}

func seedCatalog(v *vistosInstance) error {
	ctx := context.Background()

	targets := make(map[string]string, len(seedStages))
	stageIDs := make(map[string]string, len(seedStages))
	for _, s := range seedStages {
		targets[s.Name] = s.TargetStatus

		existing, err := v.vistos.GetStageByName(s.Name)
		if err == nil {
			stageIDs[s.Name] = existing.StageID
			continue
		}

		created, err := v.vistos.CreateStage(model.Stage{Name: s.Name, Description: s.Name + " stage"})
		if err != nil {
			return fmt.Errorf("seeding stage %s: %v", s.Name, err)
		}
		stageIDs[s.Name] = created.StageID
	}

	for _, p := range seedProducts {
		stages := make([]model.ProductStage, 0, len(p.Stages))
		for _, name := range p.Stages {
			stages = append(stages, model.ProductStage{
				StageID:      stageIDs[name],
				StageName:    name,
				TargetStatus: targets[name],
				IsRequired:   true,
			})
		}

		created, err := v.vistos.CreateProduct(ctx, model.Product{
			Name:         p.Name,
			Description:  p.Description,
			Currency:     p.Currency,
			MinAmount:    p.MinAmount,
			MaxAmount:    p.MaxAmount,
			InterestRate: p.InterestRate,
			MinTerm:      p.MinTerm,
			MaxTerm:      p.MaxTerm,
			Stages:       stages,
			Entities:     p.Entities,
		})
		if err != nil {
			return fmt.Errorf("seeding product %s: %v", p.Name, err)
		}
		log.Printf(" [*] Seeded product %s (%s)", created.Name, created.ProductID)
	}

	return nil
}

// seedCommands defines the "seed" command that loads the default stage
// catalog and products.
func seedCommands(v *vistosInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "seed the stage catalog and default products",
		Run: func(cmd *cobra.Command, args []string) {
			if err := seedCatalog(v); err != nil {
				log.Fatal(err)
			}
			log.Println(" [*] Seeding complete")
		},
	}

	return cmd
}
