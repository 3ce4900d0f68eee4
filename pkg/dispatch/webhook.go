package dispatch

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"golang.org/x/time/rate"
)

// a repeating alert with a one minute interval must not flood the receiver
const (
	webhookRate  = rate.Limit(1)
	webhookBurst = 5
)

// WebhookNotifier posts every firing to an HTTP endpoint
type WebhookNotifier struct {
	url     string
	secret  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewWebhookNotifier creates a webhook sink.
// If secret is non-empty, requests are signed with HMAC-SHA256.
func NewWebhookNotifier(url, secret string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(webhookRate, webhookBurst),
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) Send(ctx context.Context, f models.Firing, a models.Alert) error {
	payload := webhookPayload{
		Event:     "alert_fired",
		Timestamp: f.FiredAt.UTC().Format(time.RFC3339),
		Firing:    f,
		Alert:     a,
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "soc-alerts/1.0")

	if w.secret != "" {
		req.Header.Set("X-Signature-256", "sha256="+computeHMAC(body, []byte(w.secret)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

type webhookPayload struct {
	Event     string        `json:"event"`
	Timestamp string        `json:"timestamp"`
	Firing    models.Firing `json:"firing"`
	Alert     models.Alert  `json:"alert"`
}

func computeHMAC(message, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
