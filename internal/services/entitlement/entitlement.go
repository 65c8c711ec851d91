// Package entitlement содержит логику тарифных планов, пробного периода и
// решений о доступе к платным функциям.
//
// Сервис отвечает на вопрос "доступна ли функция F прямо сейчас". Решение
// выводится из сохраненного плана и метки старта пробного периода при каждом
// чтении: фоновых таймеров нет, просроченный план считается отсутствующим
// лениво. Активность и завершенность пробного периода вычисляются из метки
// времени, поэтому порядок вызовов на результат не влияет; флаг
// premium_trial_active сохраняется в хранилище только ради совместимости
// раскладки ключей.
package entitlement

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/khatoa-app/khatoa/internal/kvstore"
	"github.com/khatoa-app/khatoa/internal/lib/sl"
	"github.com/khatoa-app/khatoa/internal/models"
)

// DefaultTrialPeriodDays длительность пробного периода по умолчанию.
const DefaultTrialPeriodDays = 3

// Service реализует движок подписок и пробного периода.
type Service struct {
	store           kvstore.Store
	log             *slog.Logger
	trialPeriodDays int
	now             func() time.Time // подменяется в тестах
}

// New создает новый экземпляр Service. При periodDays <= 0 берется значение
// по умолчанию.
func New(store kvstore.Store, log *slog.Logger, periodDays int) *Service {
	if periodDays <= 0 {
		periodDays = DefaultTrialPeriodDays
	}
	return &Service{
		store:           store,
		log:             log,
		trialPeriodDays: periodDays,
		now:             time.Now,
	}
}

// ActivateSubscription активирует план по идентификатору, перезаписывая любой
// прежний план. Неизвестный идентификатор — тихий отказ (false).
func (s *Service) ActivateSubscription(ctx context.Context, planID string) bool {
	const op = "entitlement.ActivateSubscription"

	plan, ok := planDefinition(planID, s.now())
	if !ok {
		return false
	}
	if err := s.store.Set(ctx, kvstore.KeySubscription, plan); err != nil {
		s.log.Error("failed to persist plan", slog.String("op", op), sl.Err(err))
		return false
	}
	s.log.Info("subscription activated", slog.String("op", op), slog.String("plan", planID))
	return true
}

// CancelSubscription удаляет запись плана. Пробный период не затрагивается.
func (s *Service) CancelSubscription(ctx context.Context) error {
	return s.store.Delete(ctx, kvstore.KeySubscription)
}

// HasActiveSubscription истинно при наличии плана, который либо пожизненный,
// либо еще не истек. Просроченный план удаляется как побочный эффект чтения.
func (s *Service) HasActiveSubscription(ctx context.Context) bool {
	plan, err := s.activePlan(ctx)
	return err == nil && plan != nil
}

// HasFeatureAccess истинно, когда активный план включает функцию.
func (s *Service) HasFeatureAccess(ctx context.Context, featureID string) bool {
	plan, err := s.activePlan(ctx)
	if err != nil || plan == nil {
		return false
	}
	return slices.Contains(plan.Features, featureID)
}

// ActivateTrial включает пробный период. Срабатывает не более одного раза
// за всю историю хранилища: сам факт существования метки старта блокирует
// повторную активацию, в том числе после истечения.
func (s *Service) ActivateTrial(ctx context.Context) bool {
	const op = "entitlement.ActivateTrial"

	if _, started := s.trialStart(ctx); started {
		return false
	}
	if err := s.store.Set(ctx, kvstore.KeyTrialStart, s.now().UTC().Format(time.RFC3339)); err != nil {
		s.log.Error("failed to persist trial start", slog.String("op", op), sl.Err(err))
		return false
	}
	if err := s.store.Set(ctx, kvstore.KeyTrialActive, "true"); err != nil {
		s.log.Error("failed to persist trial flag", slog.String("op", op), sl.Err(err))
		return false
	}
	s.log.Info("premium trial activated", slog.String("op", op))
	return true
}

// IsTrialActive истинно, пока не истек пробный период. На границе (ровно
// N дней) период считается завершенным. Истечение сбрасывает сохраненный
// флаг активности как побочный эффект чтения.
func (s *Service) IsTrialActive(ctx context.Context) bool {
	start, started := s.trialStart(ctx)
	if !started {
		return false
	}
	if !s.now().Before(s.trialEnd(start)) {
		s.expireTrialFlag(ctx)
		return false
	}
	return true
}

// IsTrialEnded истинно, когда пробный период был начат и уже истек.
// Чистое чтение, от порядка вызовов не зависит.
func (s *Service) IsTrialEnded(ctx context.Context) bool {
	start, started := s.trialStart(ctx)
	return started && !s.now().Before(s.trialEnd(start))
}

// FeatureAccessWithTrial объединяет оплаченный доступ и пробный период.
// Для оплаченной функции TrialEnded подавляется: платящий пользователь
// не должен видеть сообщение об истекшей пробе.
func (s *Service) FeatureAccessWithTrial(ctx context.Context, featureID string) models.FeatureAccess {
	paid := s.HasFeatureAccess(ctx, featureID)
	active := s.IsTrialActive(ctx)
	ended := s.IsTrialEnded(ctx)
	return models.FeatureAccess{
		Access:        paid || active,
		IsTrialActive: active,
		TrialEnded:    ended && !paid,
	}
}

// Status возвращает единое представление состояния подписки. Оплаченный план
// всегда имеет приоритет над пробным периодом.
func (s *Service) Status(ctx context.Context) models.SubscriptionStatus {
	now := s.now()
	plan, err := s.activePlan(ctx)
	if err != nil {
		plan = nil
	}
	start, started := s.trialStart(ctx)
	trialEnded := started && !now.Before(s.trialEnd(start))

	if plan != nil && plan.ExpiryDate != nil {
		days := daysUntil(now, *plan.ExpiryDate)
		if days < 0 {
			days = 0
		}
		return models.SubscriptionStatus{
			IsPremium:  true,
			DaysLeft:   models.DaysLeft{Days: days},
			ExpiresAt:  plan.ExpiryDate,
			TrialEnded: trialEnded,
		}
	}
	if plan != nil {
		return models.SubscriptionStatus{
			IsPremium:  true,
			DaysLeft:   models.DaysLeft{Unbounded: true},
			TrialEnded: trialEnded,
		}
	}
	if started && !trialEnded {
		expiresAt := s.trialEnd(start)
		return models.SubscriptionStatus{
			IsPremium: true,
			IsTrial:   true,
			DaysLeft:  models.DaysLeft{Days: daysUntil(now, expiresAt)},
			ExpiresAt: &expiresAt,
		}
	}
	if trialEnded {
		s.expireTrialFlag(ctx)
	}
	return models.SubscriptionStatus{TrialEnded: trialEnded}
}

// DaysRemaining возвращает остаток оплаченной подписки в днях.
func (s *Service) DaysRemaining(ctx context.Context) models.DaysLeft {
	plan, err := s.activePlan(ctx)
	if err != nil || plan == nil {
		return models.DaysLeft{}
	}
	if plan.ExpiryDate == nil {
		return models.DaysLeft{Unbounded: true}
	}
	days := daysUntil(s.now(), *plan.ExpiryDate)
	if days < 0 {
		days = 0
	}
	return models.DaysLeft{Days: days}
}

// IsExpiringSoon истинно, когда подписка истекает в ближайшие 7 дней.
func (s *Service) IsExpiringSoon(ctx context.Context) bool {
	left := s.DaysRemaining(ctx)
	return !left.Unbounded && left.Days > 0 && left.Days <= 7
}

// AvailableFeatures возвращает функции активного плана; без подписки — пусто.
func (s *Service) AvailableFeatures(ctx context.Context) []string {
	plan, err := s.activePlan(ctx)
	if err != nil || plan == nil {
		return []string{}
	}
	return plan.Features
}

// PlanByID возвращает описание тарифа со сроком действия, рассчитанным
// от текущего момента.
func (s *Service) PlanByID(planID string) (models.Plan, bool) {
	return planDefinition(planID, s.now())
}

// Plans возвращает все доступные тарифы.
func (s *Service) Plans() []models.Plan {
	ids := []string{models.PlanMonthly, models.PlanYearly, models.PlanLifetime}
	plans := make([]models.Plan, 0, len(ids))
	for _, id := range ids {
		if plan, ok := planDefinition(id, s.now()); ok {
			plans = append(plans, plan)
		}
	}
	return plans
}

// Projection собирает встраиваемую в запись пользователя проекцию состояния
// подписки. Только чтение: обратно эта структура никогда не сохраняется.
func (s *Service) Projection(ctx context.Context) models.UserSubscription {
	proj := models.UserSubscription{Features: []string{}}

	if start, started := s.trialStart(ctx); started {
		proj.TrialUsed = true
		end := s.trialEnd(start)
		proj.TrialEndDate = &end
	}

	plan, err := s.activePlan(ctx)
	if err != nil || plan == nil {
		return proj
	}
	proj.PlanID = &plan.ID
	proj.PlanName = &plan.Name
	proj.IsActive = true
	proj.EndDate = plan.ExpiryDate
	proj.Features = plan.Features
	return proj
}

// activePlan читает запись плана с ленивой проверкой срока. Просроченный
// план удаляется и трактуется как отсутствующий.
func (s *Service) activePlan(ctx context.Context) (*models.Plan, error) {
	const op = "entitlement.activePlan"

	var plan models.Plan
	found, err := s.store.Get(ctx, kvstore.KeySubscription, &plan)
	if err != nil {
		s.log.Error("failed to read plan", slog.String("op", op), sl.Err(err))
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if plan.ID == models.PlanLifetime {
		return &plan, nil
	}
	if plan.ExpiryDate == nil || !s.now().Before(*plan.ExpiryDate) {
		if err := s.store.Delete(ctx, kvstore.KeySubscription); err != nil {
			s.log.Error("failed to drop expired plan", slog.String("op", op), sl.Err(err))
		}
		return nil, nil
	}
	return &plan, nil
}

// trialStart возвращает метку старта пробного периода, если он был начат.
// Неразбираемая метка трактуется как отсутствие пробного периода.
func (s *Service) trialStart(ctx context.Context) (time.Time, bool) {
	const op = "entitlement.trialStart"

	var raw string
	found, err := s.store.Get(ctx, kvstore.KeyTrialStart, &raw)
	if err != nil || !found {
		return time.Time{}, false
	}
	start, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		s.log.Warn("unparsable trial start", slog.String("op", op), sl.Err(err))
		return time.Time{}, false
	}
	return start, true
}

func (s *Service) trialEnd(start time.Time) time.Time {
	return start.Add(time.Duration(s.trialPeriodDays) * 24 * time.Hour)
}

func (s *Service) expireTrialFlag(ctx context.Context) {
	const op = "entitlement.expireTrialFlag"
	if err := s.store.Set(ctx, kvstore.KeyTrialActive, "false"); err != nil {
		s.log.Error("failed to reset trial flag", slog.String("op", op), sl.Err(err))
	}
}

// daysUntil считает календарные дни до момента until округлением вверх,
// как в клиентской версии: план, истекающий в 23:59 сегодня, и план,
// истекающий в 00:01 завтра, дают разные значения.
func daysUntil(now, until time.Time) int {
	return int(math.Ceil(until.Sub(now).Hours() / 24))
}
