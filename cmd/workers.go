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
	"encoding/json"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	vistos "github.com/herbertavetisyan/vist0s"
	"github.com/herbertavetisyan/vist0s/config"
	redis_db "github.com/herbertavetisyan/vist0s/internal/redis-db"

	"github.com/hibiken/asynq"
)

// processEnrichment runs the enrichment pipeline for a queued submission. The
// pipeline itself never retries individual registry calls; a task error here
// only means the pipeline could not start or finish bookkeeping.
func (v *vistosInstance) processEnrichment(ctx context.Context, t *asynq.Task) error {
	ctx, span := otel.Tracer("vistos.enrichment.worker").Start(ctx, "Process Enrichment From Redis Queue")
	defer span.End()

	var payload vistos.EnrichmentTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.Error(err)
		return err
	}

	if err := v.vistos.ProcessEnrichment(ctx, payload.EnrichmentRequestID); err != nil {
		logrus.Errorf("enrichment pipeline failed for %s: %v", payload.EnrichmentRequestID, err)
		return err
	}

	log.Println(" [*] Enrichment Processed", payload.EnrichmentRequestID)
	return nil
}

func initializeQueues() map[string]int {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return nil
	}

	queues := make(map[string]int)
	queues[cfg.Queue.EnrichmentQueue] = 1
	queues[cfg.Queue.WebhookQueue] = 3
	return queues
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisOption.Addr,
			Password: redisOption.Password,
			DB:       redisOption.DB,
		},
		asynq.Config{
			Concurrency: 1,
			Queues:      queues,
		},
	), nil
}

func initializeTaskHandlers(v *vistosInstance, mux *asynq.ServeMux) {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return
	}

	mux.HandleFunc(cfg.Queue.EnrichmentQueue, v.processEnrichment)
	mux.HandleFunc(cfg.Queue.WebhookQueue, vistos.ProcessWebhook)
}

// workerCommands defines the "workers" command that starts the background
// task server.
func workerCommands(v *vistosInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start vistos workers",
		Run: func(cmd *cobra.Command, args []string) {
			queues := initializeQueues()

			srv, err := initializeWorkerServer(v.cnf, queues)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(v, mux)

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run worker server: %v", err)
			}
		},
	}

	return cmd
}
