// Package webhook delivers operator messages to the external automation via
// one outbound POST. The automation persists the message record; this service
// never writes mensagens rows itself.
package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/chatimovel/painel-server/internal/config"
	"github.com/chatimovel/painel-server/internal/infrastructure/metrics"
	"github.com/chatimovel/painel-server/internal/utils/idgen"
)

// OutboundMessage is the webhook payload. Field names are part of the
// automation's contract.
type OutboundMessage struct {
	ConversationID string `json:"conversa_id"`
	Text           string `json:"mensagem"`
	Channel        string `json:"canal"`
	OperatorID     string `json:"operador_id"`
}

// Sender posts operator messages to the configured webhook endpoint.
type Sender struct {
	http     *resty.Client
	endpoint string
	log      zerolog.Logger
}

// NewSender creates a webhook sender for the configured endpoint.
func NewSender(cfg *config.Config, log zerolog.Logger) *Sender {
	return &Sender{
		http:     resty.New().SetTimeout(15 * time.Second),
		endpoint: cfg.WebhookEndpoint(),
		log:      log.With().Str("component", "webhook-sender").Logger(),
	}
}

// Send delivers one message. There is no response contract beyond
// success/failure; any non-2xx or transport error is a delivery failure.
func (s *Sender) Send(ctx context.Context, msg OutboundMessage) error {
	deliveryID, _ := idgen.GenerateSecureID("whd", 12)
	start := time.Now()

	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(s.endpoint)

	metrics.WebhookDeliveryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("transport_error").Inc()
		s.log.Error().Err(err).Str("delivery_id", deliveryID).Msg("webhook delivery failed")
		return fmt.Errorf("webhook delivery: %w", err)
	}
	if resp.IsError() {
		metrics.WebhookDeliveries.WithLabelValues("rejected").Inc()
		s.log.Error().
			Int("status", resp.StatusCode()).
			Str("delivery_id", deliveryID).
			Msg("webhook rejected delivery")
		return fmt.Errorf("webhook responded %d", resp.StatusCode())
	}

	metrics.WebhookDeliveries.WithLabelValues("delivered").Inc()
	s.log.Info().
		Str("delivery_id", deliveryID).
		Str("conversation_id", msg.ConversationID).
		Dur("latency", time.Since(start)).
		Msg("message delivered to automation")
	return nil
}
