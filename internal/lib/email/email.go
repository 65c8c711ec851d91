// Package email предоставляет интерфейс отправки писем с кодами подтверждения.
//
// Реальной доставки нет: приложение по дизайну работает без внешних сервисов,
// поэтому коды "отправляются" в лог. LogSender можно заменить на SMTP-реализацию,
// не трогая сервис идентификации.
package email

import "log/slog"

// Sender описывает контракт доставки кода пользователю.
type Sender interface {
	// SendCode доставляет одноразовый код на указанный адрес.
	SendCode(to, subject, code string) error
}

// LogSender пишет код в лог вместо отправки письма.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender создает LogSender поверх переданного логгера.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

// SendCode логирует код; возвращаемая ошибка всегда nil.
func (s *LogSender) SendCode(to, subject, code string) error {
	s.log.Info("simulated email delivery",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("code", code),
	)
	return nil
}
