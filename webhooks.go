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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/herbertavetisyan/vist0s/config"
	"github.com/herbertavetisyan/vist0s/internal/notification"
	"github.com/herbertavetisyan/vist0s/internal/request"

	"github.com/hibiken/asynq"
)

// Lifecycle webhook events.
const (
	EventApplicationSubmitted = "application.submitted"
	EventEnrichmentCompleted  = "enrichment.completed"
	EventOfferReady           = "offer.ready"
	EventApplicationRejected  = "application.rejected"
	EventApplicationDisbursed = "application.disbursed"
)

// NewWebhook is the wire payload of a lifecycle notification.
type NewWebhook struct {
	Event   string      `json:"event"`
	SentAt  time.Time   `json:"sent_at"`
	Payload interface{} `json:"data"`
}

// notifyLifecycle enqueues a lifecycle event webhook without blocking the
// caller. Delivery failures are reported, never returned.
func (l *Vistos) notifyLifecycle(event string, payload interface{}) {
	go func() {
		if err := SendWebhook(NewWebhook{Event: event, SentAt: time.Now(), Payload: payload}); err != nil {
			notification.NotifyError(err)
		}
	}()
}

// deliver posts one notification to the configured partner endpoint.
// Non-2xx responses count as delivery failures so the retry policy applies.
func deliver(hook config.WebhookConfig, data NewWebhook) error {
	payload, err := request.ToJsonReq(data)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, hook.Url, payload)
	if err != nil {
		return err
	}
	for key, value := range hook.Headers {
		req.Header.Set(key, value)
	}

	var body interface{}
	resp, err := request.Call(nil, req, &body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d for %s", resp.StatusCode, data.Event)
	}

	logrus.Infof("webhook delivered: %s", data.Event)
	return nil
}

// SendWebhook enqueues a webhook notification task. A blank webhook URL
// disables delivery entirely.
func SendWebhook(newWebhook NewWebhook) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	payload, err := json.Marshal(newWebhook)
	if err != nil {
		return err
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: conf.Redis.Dns})
	defer client.Close()
	task := asynq.NewTask(conf.Queue.WebhookQueue, payload, asynq.Queue(conf.Queue.WebhookQueue))
	if _, err := client.Enqueue(task); err != nil {
		logrus.Errorf("failed to enqueue webhook %s: %v", newWebhook.Event, err)
		return err
	}
	return nil
}

// ProcessWebhook is the worker handler for queued webhook notifications.
// Transient endpoint failures are retried with exponential backoff before
// the task is handed back to asynq.
func ProcessWebhook(ctx context.Context, task *asynq.Task) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	var payload NewWebhook
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logrus.Errorf("malformed webhook task payload: %v", err)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(func() error {
		return deliver(conf.Notification.Webhook, payload)
	}, policy)
}
