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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5002"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"VISTOS_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"VISTOS_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"VISTOS_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"VISTOS_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"VISTOS_REDIS_DNS"`
}

type QueueConfig struct {
	EnrichmentQueue string `json:"enrichment_queue" envconfig:"VISTOS_QUEUE_ENRICHMENT"`
	WebhookQueue    string `json:"webhook_queue" envconfig:"VISTOS_QUEUE_WEBHOOK"`
}

// RegistryService configures one external registry call: endpoint, auth key
// and the per-service timeout budget in seconds.
type RegistryService struct {
	URL            string `json:"url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// EnrichmentConfig holds the four registry endpoints in call order. MockMode
// swaps the HTTP transport for deterministic in-process adapters.
type EnrichmentConfig struct {
	MockMode bool            `json:"mock_mode" envconfig:"VISTOS_ENRICHMENT_MOCK_MODE"`
	Norq     RegistryService `json:"norq"`
	Ekeng    RegistryService `json:"ekeng"`
	Acra     RegistryService `json:"acra"`
	Dms      RegistryService `json:"dms"`
}

type OTPConfig struct {
	ExpiryMinutes int `json:"expiry_minutes" envconfig:"VISTOS_OTP_EXPIRY_MINUTES"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type WebhookConfig struct {
	Url     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

type Notification struct {
	Slack   SlackWebhook  `json:"slack"`
	Webhook WebhookConfig `json:"webhook"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"VISTOS_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Queue        QueueConfig      `json:"queue"`
	Enrichment   EnrichmentConfig `json:"enrichment"`
	OTP          OTPConfig        `json:"otp"`
	Notification Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("vistos", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called vistos.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Vistos Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Queue.EnrichmentQueue == "" {
		cnf.Queue.EnrichmentQueue = "new:enrichment"
	}
	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "new:webhook"
	}

	if cnf.OTP.ExpiryMinutes <= 0 {
		cnf.OTP.ExpiryMinutes = 5
	}

	cnf.Enrichment.applyDefaults()

	return nil
}

// applyDefaults fills registry endpoints and timeout budgets that were left
// out of the config file. DMS gets a longer budget because it aggregates the
// other registries' output.
func (e *EnrichmentConfig) applyDefaults() {
	defaultService := func(s *RegistryService, url string, timeout int) {
		if s.URL == "" {
			s.URL = url
		}
		if s.TimeoutSeconds <= 0 {
			s.TimeoutSeconds = timeout
		}
	}
	defaultService(&e.Norq, "https://api.norq.example.com", 10)
	defaultService(&e.Ekeng, "https://api.ekeng.example.com", 10)
	defaultService(&e.Acra, "https://api.acra.example.com", 10)
	defaultService(&e.Dms, "https://api.dms.example.com", 15)
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
