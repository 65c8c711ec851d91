// Package paymentprovider описывает интерфейс платёжного шлюза для
// оформления подписок. В приложении используется мок-реализация:
// реальная интеграция с эквайрингом вынесена за рамки сервиса.
package paymentprovider

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChargeRequest — запрос на списание стоимости тарифа.
type ChargeRequest struct {
	UserID      string
	PlanID      string
	Amount      float64
	Description string
}

// ChargeResult — результат обработки платежа.
type ChargeResult struct {
	Success     bool      `json:"success"`
	ReferenceID string    `json:"referenceId"`
	ProcessedAt time.Time `json:"processedAt"`
	Message     string    `json:"message,omitempty"`
}

// Processor обрабатывает платежи за подписку.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// MockProcessor одобряет любой платёж и выдаёт уникальный
// идентификатор транзакции. Используется в разработке и тестах.
type MockProcessor struct {
	Latency time.Duration
}

// NewMockProcessor создаёт новый мок платёжного шлюза.
func NewMockProcessor() *MockProcessor {
	return &MockProcessor{}
}

// Charge имитирует успешное списание средств.
func (p *MockProcessor) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if p.Latency > 0 {
		select {
		case <-time.After(p.Latency):
		case <-ctx.Done():
			return ChargeResult{}, ctx.Err()
		}
	}
	return ChargeResult{
		Success:     true,
		ReferenceID: "pay_" + uuid.NewString(),
		ProcessedAt: time.Now().UTC(),
	}, nil
}
