package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/George1161/the-legit-website/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendNotifierSendsEscapedEmail(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	notifier := NewResendNotifier("re_test", "Legit <noreply@legit.example>", []string{"mod@legit.example"})
	notifier.endpoint = server.URL

	project := models.Project{ID: uuid.New(), Title: "<script>x</script>", ShortDescription: "a & b"}
	require.NoError(t, notifier.NotifySubmission(context.Background(), project))

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, []string{"mod@legit.example"}, got.To)
	assert.Contains(t, got.Subject, project.Title)
	assert.Contains(t, got.Html, "&lt;script&gt;")
	assert.Contains(t, got.Html, "a &amp; b")
	assert.Contains(t, got.Html, project.ID.String())
}

func TestResendNotifierReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	notifier := NewResendNotifier("re_test", "bad", []string{"mod@legit.example"})
	notifier.endpoint = server.URL

	err := notifier.NotifySubmission(context.Background(), models.Project{Title: "P"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestNewNotifierFromConfig(t *testing.T) {
	assert.Nil(t, NewNotifierFromConfig(map[string]string{"RESEND_API_KEY": "re_test"}))

	notifier := NewNotifierFromConfig(map[string]string{
		"RESEND_API_KEY":      "re_test",
		"RESEND_FROM_EMAIL":   "noreply@legit.example",
		"ADMIN_NOTIFY_EMAILS": "a@legit.example, b@legit.example",
	})
	require.NotNil(t, notifier)
	assert.Equal(t, []string{"a@legit.example", "b@legit.example"}, notifier.(*ResendNotifier).recipients)
}
