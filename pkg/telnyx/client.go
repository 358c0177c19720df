package telnyx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/revitawellness/voiceai-hub/pkg/config"
)

// APIError is a non-success response from the Telnyx API
type APIError struct {
	Action     string
	StatusCode int
	Body       string
}

// Error implements error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("telnyx %s returned status %d: %s", e.Action, e.StatusCode, e.Body)
}

// Client is a minimal client for the Telnyx Call Control and Messaging APIs.
// Every operation is a one-shot request with bearer auth and a bounded
// timeout; callers decide what a failure means for call state.
type Client struct {
	apiKey             string
	connectionID       string
	phoneNumber        string
	assistantID        string
	messagingProfileID string
	transferNumber     string
	baseURL            string
	webhookBaseURL     string
	client             *http.Client
}

// NewClient creates a Telnyx client from the application config
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Telnyx.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		apiKey:             cfg.Telnyx.APIKey,
		connectionID:       cfg.Telnyx.ConnectionID,
		phoneNumber:        cfg.Telnyx.PhoneNumber,
		assistantID:        cfg.Telnyx.AssistantID,
		messagingProfileID: cfg.Telnyx.MessagingProfileID,
		transferNumber:     cfg.Telnyx.TransferNumber,
		baseURL:            cfg.Telnyx.APIBaseURL,
		webhookBaseURL:     cfg.Server.BaseURL,
		client:             &http.Client{Timeout: timeout},
	}
}

// Answer answers a ringing inbound call leg
func (c *Client) Answer(ctx context.Context, callControlID string) error {
	return c.callAction(ctx, callControlID, "answer", struct{}{})
}

// assistantTool declares one webhook tool the AI assistant may invoke mid-call
type assistantTool struct {
	Type     string            `json:"type"`
	Function assistantFunction `json:"function"`
	Webhook  assistantWebhook  `json:"webhook"`
}

type assistantFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type assistantWebhook struct {
	URL string `json:"url"`
}

// StartAssistant attaches the configured AI assistant to an answered call,
// declaring the send-info-SMS tool so the assistant can text the caller
// relevant links during the conversation.
func (c *Client) StartAssistant(ctx context.Context, callControlID string) error {
	body := struct {
		Assistant struct {
			ID string `json:"id"`
		} `json:"assistant"`
		Tools []assistantTool `json:"tools"`
	}{}
	body.Assistant.ID = c.assistantID
	body.Tools = []assistantTool{
		{
			Type: "webhook",
			Function: assistantFunction{
				Name:        "send_info_sms",
				Description: "Envía un mensaje de texto SMS al cliente con un enlace relevante. Usa esta herramienta cuando el cliente pregunte por ubicación, citas, productos, pérdida de peso o precios.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"message_type": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"location", "appointment", "weight_loss", "prices", "product"},
							"description": "Tipo de información a enviar por SMS",
						},
						"custom_text": map[string]interface{}{
							"type":        "string",
							"description": "Texto adicional opcional para incluir en el SMS",
						},
					},
					"required": []string{"message_type"},
				},
			},
			Webhook: assistantWebhook{URL: c.webhookBaseURL + "/webhooks/tools/send-sms"},
		},
	}

	return c.callAction(ctx, callControlID, "ai_assistant_start", body)
}

// Transfer transfers the call to a human; an empty destination falls back to
// the configured transfer number
func (c *Client) Transfer(ctx context.Context, callControlID, to string) error {
	if to == "" {
		to = c.transferNumber
	}
	body := struct {
		To string `json:"to"`
	}{To: to}
	return c.callAction(ctx, callControlID, "transfer", body)
}

// Hangup terminates the call leg
func (c *Client) Hangup(ctx context.Context, callControlID string) error {
	return c.callAction(ctx, callControlID, "hangup", struct{}{})
}

// DialResult describes the outbound call leg the provider created
type DialResult struct {
	CallControlID string `json:"call_control_id"`
	CallLegID     string `json:"call_leg_id"`
	CallSessionID string `json:"call_session_id"`
	IsAlive       bool   `json:"is_alive"`
}

// Dial initiates an outbound call; lifecycle events for it arrive on the
// given webhook URL (default: this service's voice webhook)
func (c *Client) Dial(ctx context.Context, to, webhookURL string) (*DialResult, error) {
	if webhookURL == "" {
		webhookURL = c.webhookBaseURL + "/webhooks/voice"
	}

	body := struct {
		ConnectionID string `json:"connection_id"`
		From         string `json:"from"`
		To           string `json:"to"`
		WebhookURL   string `json:"webhook_url"`
	}{
		ConnectionID: c.connectionID,
		From:         c.phoneNumber,
		To:           to,
		WebhookURL:   webhookURL,
	}

	var out struct {
		Data DialResult `json:"data"`
	}
	if err := c.post(ctx, "/v2/calls", "dial", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// SendMessage sends an SMS to the given number. Transport failures are
// retried briefly with exponential backoff because the AI session waits
// synchronously on the result; a non-success API response is permanent.
func (c *Client) SendMessage(ctx context.Context, to, text string) error {
	body := struct {
		From               string `json:"from"`
		To                 string `json:"to"`
		Text               string `json:"text"`
		MessagingProfileID string `json:"messaging_profile_id,omitempty"`
	}{
		From:               c.phoneNumber,
		To:                 to,
		Text:               text,
		MessagingProfileID: c.messagingProfileID,
	}

	op := func() error {
		err := c.post(ctx, "/v2/messages", "send message", body, nil)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second

	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

// callAction posts to a call control action endpoint
func (c *Client) callAction(ctx context.Context, callControlID, action string, body interface{}) error {
	path := fmt.Sprintf("/v2/calls/%s/actions/%s", callControlID, action)
	return c.post(ctx, path, action, body, nil)
}

// post issues one authenticated JSON request and decodes the response into
// out when it is non-nil
func (c *Client) post(ctx context.Context, path, action string, body, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{Action: action, StatusCode: resp.StatusCode, Body: string(detail)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", action, err)
		}
	}
	return nil
}
