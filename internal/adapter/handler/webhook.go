package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	callDto "github.com/revitawellness/voiceai-hub/internal/adapter/dto/call"
	"github.com/revitawellness/voiceai-hub/internal/domain/repositories"
	"github.com/revitawellness/voiceai-hub/internal/usecase/lifecycle"
)

// WebhookEnvelope is the JSON envelope the voice platform delivers
type WebhookEnvelope struct {
	Data struct {
		EventType string          `json:"event_type"`
		Payload   json.RawMessage `json:"payload"`
	} `json:"data"`
}

// Messenger dispatches a one-shot text message to a caller
type Messenger interface {
	SendMessage(ctx context.Context, to, text string) error
}

// WebhookHandler receives lifecycle events and AI tool invocations from the
// voice platform
type WebhookHandler struct {
	svc       lifecycle.Service
	calls     repositories.CallRepository
	messenger Messenger
	logger    *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(svc lifecycle.Service, calls repositories.CallRepository, messenger Messenger, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, calls: calls, messenger: messenger, logger: logger}
}

// HandleVoiceWebhook receives lifecycle events. The provider retries on
// non-success status and requires a fast acknowledgment, so the handler
// always answers 200 and processes the event on its own goroutine; whatever
// happens during processing never reaches the event source.
func (h *WebhookHandler) HandleVoiceWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		return c.NoContent(http.StatusOK)
	}

	var env WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Data.EventType == "" {
		h.logger.Warn("malformed webhook envelope, acknowledging anyway", zap.Error(err))
		return c.NoContent(http.StatusOK)
	}

	go h.process(env.Data.EventType, env.Data.Payload)

	return c.NoContent(http.StatusOK)
}

// process runs one event to completion. Panics and errors are contained
// here: the acknowledgment is already on the wire and the process must not
// die over a single bad event.
func (h *WebhookHandler) process(eventType string, payload json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while processing webhook event",
				zap.String("event_type", eventType),
				zap.Any("panic", r))
		}
	}()

	if err := h.svc.HandleEvent(context.Background(), eventType, payload); err != nil {
		h.logger.Error("event processing failed, event dropped",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

// HandleSendInfoSMS is invoked by the AI assistant mid-call to text the
// caller an informational message. It always returns a success-shaped body
// so the assistant can tell the caller how it went.
func (h *WebhookHandler) HandleSendInfoSMS(c echo.Context) error {
	var req callDto.SendInfoSMSRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("send-sms tool: bad payload", zap.Error(err))
		return c.JSON(http.StatusOK, callDto.ToolResponse{Success: false, Message: "Solicitud inválida."})
	}

	call, err := h.calls.FindByControlID(c.Request().Context(), req.CallControlID)
	if err != nil || call == nil || call.FromNumber == "" {
		h.logger.Error("send-sms tool: no caller number for call",
			zap.String("call_control_id", req.CallControlID),
			zap.Error(err))
		return c.JSON(http.StatusOK, callDto.ToolResponse{Success: false, Message: "No se encontró el número del llamante."})
	}

	text := infoMessage(req.MessageType, req.CustomText)
	if err := h.messenger.SendMessage(c.Request().Context(), call.FromNumber, text); err != nil {
		h.logger.Error("send-sms tool: dispatch failed",
			zap.String("call_control_id", req.CallControlID),
			zap.String("message_type", req.MessageType),
			zap.Error(err))
		return c.JSON(http.StatusOK, callDto.ToolResponse{Success: false, Message: "Error al enviar el SMS."})
	}

	h.logger.Info("info SMS sent",
		zap.String("call_control_id", req.CallControlID),
		zap.String("message_type", req.MessageType))
	return c.JSON(http.StatusOK, callDto.ToolResponse{
		Success: true,
		Message: fmt.Sprintf("SMS de %s enviado exitosamente.", req.MessageType),
	})
}

// HandleBookAppointment records an appointment request made through the AI
// assistant.
// TODO: connect to the clinic's scheduling system instead of only logging.
func (h *WebhookHandler) HandleBookAppointment(c echo.Context) error {
	var req callDto.BookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("book-appointment tool: bad payload", zap.Error(err))
		return c.JSON(http.StatusOK, callDto.ToolResponse{Success: false, Message: "Solicitud inválida."})
	}

	h.logger.Info("appointment request",
		zap.String("client_name", req.ClientName),
		zap.String("service", req.Service),
		zap.String("preferred_date", req.PreferredDate))

	return c.JSON(http.StatusOK, callDto.ToolResponse{
		Success: true,
		Message: fmt.Sprintf("Cita registrada para %s: %s", req.ClientName, req.Service),
	})
}

// infoMessage picks the static informational text for a tool SMS category
func infoMessage(messageType, customText string) string {
	switch messageType {
	case "location":
		return "📍 Revita Wellness - Villas de San Francisco Plaza II, Ave. De Diego #87, Suite 214, San Juan PR\n\nGoogle Maps: https://maps.app.goo.gl/revitawellness"
	case "appointment":
		return "📅 Agenda tu cita en Revita Wellness:\nhttps://booking.setmore.com/scheduleappointment/revitawellness"
	case "weight_loss":
		return "⚖️ Completa tu evaluación para el programa de pérdida de peso:\nhttps://revitawellnesspr.com/weight-loss-evaluation"
	case "prices":
		return "💰 Consulta nuestros precios y servicios:\nhttps://revitawellnesspr.com/prices"
	case "product":
		if customText != "" {
			return "🛒 Información del producto: " + customText
		}
		return "🛒 Conoce nuestros productos:\nhttps://revitawellnesspr.com/products"
	default:
		if customText != "" {
			return customText
		}
		return "Gracias por contactar a Revita Wellness."
	}
}
