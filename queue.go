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
	"encoding/json"
	"log"

	"github.com/herbertavetisyan/vist0s/config"
	redis_db "github.com/herbertavetisyan/vist0s/internal/redis-db"

	"github.com/hibiken/asynq"
)

// Queue wraps the asynq client used to hand work to the background workers.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// EnrichmentTaskPayload is the payload of a queued enrichment pipeline run.
type EnrichmentTaskPayload struct {
	EnrichmentRequestID string `json:"enrichment_request_id"`
	ApplicationID       string `json:"application_id"`
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// queueEnrichment enqueues an enrichment pipeline run for a freshly submitted
// application. The task id is the enrichment request id, so a resubmitted
// task cannot run the pipeline twice.
func (q *Queue) queueEnrichment(payload EnrichmentTaskPayload) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	taskOptions := []asynq.Option{
		asynq.TaskID(payload.EnrichmentRequestID),
		asynq.Queue(cfg.Queue.EnrichmentQueue),
	}
	task := asynq.NewTask(cfg.Queue.EnrichmentQueue, data, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued enrichment: %+v", payload.EnrichmentRequestID)
	return nil
}
