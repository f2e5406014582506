package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/George1161/the-legit-website/config"
	"github.com/George1161/the-legit-website/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// Notifier tells moderators that a project is waiting for review.
type Notifier interface {
	NotifySubmission(ctx context.Context, project models.Project) error
}

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendNotifier emails new submissions to the configured admins.
type ResendNotifier struct {
	apiKey     string
	from       string
	recipients []string
	endpoint   string
	client     *http.Client
	logger     zerolog.Logger
}

func NewResendNotifier(apiKey, from string, recipients []string) *ResendNotifier {
	return &ResendNotifier{
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		endpoint:   resendEndpoint,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     log.With().Str("service", "resendNotifier").Logger(),
	}
}

// NewNotifierFromConfig returns nil unless RESEND_API_KEY, RESEND_FROM_EMAIL
// and ADMIN_NOTIFY_EMAILS are all set.
func NewNotifierFromConfig(c map[string]string) Notifier {
	apiKey := config.GetString(c, "RESEND_API_KEY", "")
	from := config.GetString(c, "RESEND_FROM_EMAIL", "")
	recipients := config.GetList(c, "ADMIN_NOTIFY_EMAILS")
	if apiKey == "" || from == "" || len(recipients) == 0 {
		return nil
	}
	return NewResendNotifier(apiKey, from, recipients)
}

func (n *ResendNotifier) NotifySubmission(ctx context.Context, project models.Project) error {
	payload := ResendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: fmt.Sprintf("New project awaiting review: %s", project.Title),
		Html: fmt.Sprintf("<p><strong>%s</strong></p><p>%s</p><p>Project id: %s</p>",
			html.EscapeString(project.Title),
			html.EscapeString(project.ShortDescription),
			project.ID),
	}
	return n.send(ctx, payload)
}

func (n *ResendNotifier) send(ctx context.Context, payload ResendEmailRequest) error {
	if len(payload.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		n.logger.Info().Str("emailId", emailResponse.ID).Msg("Sent submission notification")
	}

	return nil
}
