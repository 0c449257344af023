package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/reminders"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/httpclient"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/logger"
)

var sample = reminders.Reminder{
	PatientID:      "p-1",
	PatientName:    "Rosa",
	MedicationID:   "m-1",
	MedicationName: "Aspirin",
	Dosage:         "1 pill",
	Slot:           medications.Morning,
	Date:           "2024-01-01",
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(logger.Options{Format: logger.FormatJSON, Output: &buf}))

	require.NoError(t, n.Notify(context.Background(), sample))
	assert.Equal(t, "log", n.Name())
	assert.Contains(t, buf.String(), "REMINDER: Take Aspirin at Morning")
	assert.Contains(t, buf.String(), `"patient":"Rosa"`)
}

func TestWebhookNotifier(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier(srv.URL, nil)
	require.NoError(t, err)
	require.NoError(t, n.Notify(context.Background(), sample))

	assert.Equal(t, "REMINDER: Take Aspirin at Morning", got.Text)
	assert.Equal(t, "morning", got.Slot)
	assert.Equal(t, "Rosa", got.Patient)
}

func TestWebhookNotifier_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n, err := NewWebhookNotifier(srv.URL, nil)
	require.NoError(t, err)

	err = n.Notify(context.Background(), sample)
	var httpErr *httpclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}

func TestNewWebhookNotifier_InvalidURL(t *testing.T) {
	_, err := NewWebhookNotifier("not a url", nil)
	assert.Error(t, err)
}
