package telnyx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/revitawellness/voiceai-hub/pkg/config"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]interface{}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Telnyx.APIKey = "test-key"
	cfg.Telnyx.ConnectionID = "conn-1"
	cfg.Telnyx.PhoneNumber = "+15550001111"
	cfg.Telnyx.AssistantID = "assistant-1"
	cfg.Telnyx.TransferNumber = "+15552223333"
	cfg.Telnyx.APIBaseURL = server.URL
	cfg.Telnyx.RequestTimeout = 2 * time.Second
	cfg.Server.BaseURL = "https://hub.example.com"

	return NewClient(cfg), server
}

func captureRequest(t *testing.T, captured *recordedRequest) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")

		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &captured.body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":{}}`))
	}
}

func TestClientAnswer(t *testing.T) {
	var captured recordedRequest
	client, _ := newTestClient(t, captureRequest(t, &captured))

	if err := client.Answer(context.Background(), "cc-1"); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if captured.method != http.MethodPost {
		t.Errorf("method = %s, want POST", captured.method)
	}
	if captured.path != "/v2/calls/cc-1/actions/answer" {
		t.Errorf("path = %s, want /v2/calls/cc-1/actions/answer", captured.path)
	}
	if captured.auth != "Bearer test-key" {
		t.Errorf("authorization = %q, want bearer token", captured.auth)
	}
}

func TestClientStartAssistantDeclaresSMSTool(t *testing.T) {
	var captured recordedRequest
	client, _ := newTestClient(t, captureRequest(t, &captured))

	if err := client.StartAssistant(context.Background(), "cc-2"); err != nil {
		t.Fatalf("StartAssistant: %v", err)
	}

	if captured.path != "/v2/calls/cc-2/actions/ai_assistant_start" {
		t.Errorf("path = %s", captured.path)
	}

	assistant, ok := captured.body["assistant"].(map[string]interface{})
	if !ok || assistant["id"] != "assistant-1" {
		t.Errorf("assistant = %v, want id assistant-1", captured.body["assistant"])
	}

	tools, ok := captured.body["tools"].([]interface{})
	if !ok || len(tools) != 1 {
		t.Fatalf("tools = %v, want one declared tool", captured.body["tools"])
	}
	tool := tools[0].(map[string]interface{})
	function := tool["function"].(map[string]interface{})
	if function["name"] != "send_info_sms" {
		t.Errorf("tool name = %v, want send_info_sms", function["name"])
	}
	webhook := tool["webhook"].(map[string]interface{})
	if webhook["url"] != "https://hub.example.com/webhooks/tools/send-sms" {
		t.Errorf("tool webhook url = %v", webhook["url"])
	}
}

func TestClientTransferFallsBackToConfiguredNumber(t *testing.T) {
	var captured recordedRequest
	client, _ := newTestClient(t, captureRequest(t, &captured))

	if err := client.Transfer(context.Background(), "cc-3", ""); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if captured.body["to"] != "+15552223333" {
		t.Errorf("to = %v, want configured transfer number", captured.body["to"])
	}
}

func TestClientDial(t *testing.T) {
	var captured recordedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &captured.body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":{"call_control_id":"cc-out","call_leg_id":"leg-out","call_session_id":"sess-1","is_alive":true}}`))
	})

	result, err := client.Dial(context.Background(), "+15557778888", "")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	if captured.path != "/v2/calls" {
		t.Errorf("path = %s, want /v2/calls", captured.path)
	}
	if captured.body["connection_id"] != "conn-1" {
		t.Errorf("connection_id = %v", captured.body["connection_id"])
	}
	if captured.body["from"] != "+15550001111" || captured.body["to"] != "+15557778888" {
		t.Errorf("from/to = %v/%v", captured.body["from"], captured.body["to"])
	}
	if captured.body["webhook_url"] != "https://hub.example.com/webhooks/voice" {
		t.Errorf("webhook_url = %v, want default voice webhook", captured.body["webhook_url"])
	}
	if result.CallControlID != "cc-out" || !result.IsAlive {
		t.Errorf("result = %+v", result)
	}
}

func TestClientAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{"detail":"invalid call state"}]}`))
	})

	err := client.Answer(context.Background(), "cc-4")
	if err == nil {
		t.Fatal("expected error for 422 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", apiErr.StatusCode)
	}
	if apiErr.Action != "answer" {
		t.Errorf("action = %q, want answer", apiErr.Action)
	}
}

func TestClientSendMessageDoesNotRetryAPIErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"detail":"invalid destination"}]}`))
	})

	err := client.SendMessage(context.Background(), "+1555", "hola")
	if err == nil {
		t.Fatal("expected error for rejected message")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (API rejections are permanent)", attempts)
	}
}

func TestClientSendMessageSuccess(t *testing.T) {
	var captured recordedRequest
	client, _ := newTestClient(t, captureRequest(t, &captured))

	if err := client.SendMessage(context.Background(), "+15557778888", "Su cita fue agendada."); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if captured.path != "/v2/messages" {
		t.Errorf("path = %s, want /v2/messages", captured.path)
	}
	if captured.body["text"] != "Su cita fue agendada." {
		t.Errorf("text = %v", captured.body["text"])
	}
}
