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
	"fmt"

	"github.com/herbertavetisyan/vist0s/config"
	"github.com/herbertavetisyan/vist0s/database"
	redis_db "github.com/herbertavetisyan/vist0s/internal/redis-db"
	"github.com/herbertavetisyan/vist0s/registry"
	"github.com/redis/go-redis/v9"
)

// Vistos is the main struct of the origination engine. It owns the
// datasource, the task queue, the redis client and the ordered registry
// adapter sequence used by the enrichment orchestrator.
type Vistos struct {
	queue      *Queue
	redis      redis.UniversalClient
	datasource database.IDataSource
	adapters   []registry.ServiceAdapter
	sms        SMSSender
	email      EmailSender
	banking    CoreBanking
}

// NewVistos initializes a new instance of Vistos with the provided datasource.
// It fetches the configuration and initializes the Redis client, the task
// queue and the registry adapters.
func NewVistos(db database.IDataSource) (*Vistos, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	adapters := registry.BuildAdapters(configuration.Enrichment)
	integrations := NewMockIntegration()

	newVistos := &Vistos{
		datasource: db,
		queue:      newQueue,
		redis:      redisClient.Client(),
		adapters:   adapters,
		sms:        integrations,
		email:      integrations,
		banking:    integrations,
	}
	return newVistos, nil
}
