package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/reminders"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/httpclient"
)

// WebhookNotifier hace POST JSON del recordatorio a una URL configurada
// (Slack/ntfy/Home Assistant aceptan este formato con un campo "text").
type WebhookNotifier struct {
	url    string
	client *httpclient.Client
}

type webhookPayload struct {
	Text       string `json:"text"`
	PatientID  string `json:"patient_id"`
	Patient    string `json:"patient"`
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Slot       string `json:"slot"`
	Date       string `json:"date"`
}

func NewWebhookNotifier(url string, client *httpclient.Client) (*WebhookNotifier, error) {
	url = strings.TrimSpace(url)
	if err := httpclient.ValidateURL(url); err != nil {
		return nil, fmt.Errorf("notify: webhook: %w", err)
	}
	if client == nil {
		client = httpclient.New(5 * time.Second)
	}
	return &WebhookNotifier{url: url, client: client}, nil
}

func (n *WebhookNotifier) Name() string { return "webhook" }

func (n *WebhookNotifier) Notify(ctx context.Context, r reminders.Reminder) error {
	payload := webhookPayload{
		Text:       r.Message(),
		PatientID:  r.PatientID,
		Patient:    r.PatientName,
		Medication: r.MedicationName,
		Dosage:     r.Dosage,
		Slot:       string(r.Slot),
		Date:       r.Date,
	}
	if err := n.client.PostJSON(ctx, n.url, nil, payload); err != nil {
		return fmt.Errorf("notify: webhook: %w", err)
	}
	return nil
}
