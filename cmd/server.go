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
	"log"

	"github.com/gin-gonic/gin"
	"github.com/herbertavetisyan/vist0s/api"
	"github.com/herbertavetisyan/vist0s/config"
	"github.com/spf13/cobra"
)

func initializeRouter(v *vistosInstance) *gin.Engine {
	return api.NewAPI(v.vistos).Router()
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

// serverCommands returns the command that starts the REST surface.
func serverCommands(v *vistosInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start vistos server",
		Run: func(cmd *cobra.Command, args []string) {
			router := initializeRouter(v)

			cfg, err := config.Fetch()
			if err != nil {
				log.Fatal(err)
			}

			if err := startServer(router, cfg.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
