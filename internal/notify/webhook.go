package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Webhook mirrors every processed notification to an ops endpoint so that
// support tooling can surface unanswered enquiries. Failures here are reported
// to the caller but must not fail the job itself.
type Webhook struct {
	client *resty.Client
	url    string
}

func NewWebhook(url string) *Webhook {
	c := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Webhook{client: c, url: url}
}

func (w *Webhook) Post(ctx context.Context, n Notification) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(n).
		Post(w.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook status %d", resp.StatusCode())
	}
	return nil
}
