// Package dashboard reads the precomputed indicator view the backend
// maintains for the panel's metrics page.
package dashboard

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Metrics is the single row of the indicadores_dashboard view. The nested
// aggregates are shaped by the view itself and passed through untouched.
type Metrics struct {
	TotalConversations int             `json:"total_conversas"`
	AvgMessagesPerConv float64         `json:"media_msgs_por_conversa"`
	AvgFirstResponse   float64         `json:"tempo_medio_primeira_resposta"`
	Abandonment        json.RawMessage `json:"abandono,omitempty"`
	MonthlyComparison  json.RawMessage `json:"comparativo_mensal,omitempty"`
	ByOperator         json.RawMessage `json:"atendimentos_por_operador,omitempty"`
	ByUserType         json.RawMessage `json:"distribuicao_por_tipo_usuario,omitempty"`
}

// Gateway is the slice of the REST client the service needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
}

// Service fetches dashboard metrics.
type Service struct {
	gw  Gateway
	log zerolog.Logger
}

// NewService creates a dashboard service.
func NewService(gw Gateway, log zerolog.Logger) *Service {
	return &Service{gw: gw, log: log.With().Str("component", "dashboard").Logger()}
}

// Metrics returns the current indicators. The view always holds at most one
// row; an empty view yields zero metrics rather than an error.
func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	var rows []Metrics
	if err := s.gw.Get(ctx, "indicadores_dashboard?select=*", &rows); err != nil {
		return Metrics{}, err
	}
	if len(rows) == 0 {
		return Metrics{}, nil
	}
	return rows[0], nil
}
