package models

import "time"

// Идентификаторы тарифных планов.
const (
	PlanMonthly  = "monthly"
	PlanYearly   = "yearly"
	PlanLifetime = "lifetime"
)

// Plan запись активного тарифного плана, хранится под ключом user_subscription.
// У пожизненного плана ExpiryDate отсутствует.
type Plan struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Price      int        `json:"price"`
	Duration   string     `json:"duration"`
	Features   []string   `json:"features"`
	IsActive   bool       `json:"isActive"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

// PremiumFeature описание платной функции для каталога.
type PremiumFeature struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	IsPremium     bool     `json:"isPremium"`
	RequiredPlans []string `json:"requiredPlan,omitempty"`
}

// FeatureAccess составное решение о доступе к функции: подписка или пробный
// период. TrialEnded подавляется при действующей оплаченной подписке.
type FeatureAccess struct {
	Access        bool `json:"access"`
	IsTrialActive bool `json:"isTrialActive"`
	TrialEnded    bool `json:"trialEnded"`
}

// DaysLeft количество оставшихся дней подписки. Для пожизненного плана
// вместо числового значения взводится Unbounded.
type DaysLeft struct {
	Days      int  `json:"days"`
	Unbounded bool `json:"unbounded"`
}

// SubscriptionStatus единое представление состояния подписки и пробного
// периода. Оплаченный план всегда имеет приоритет над пробным в IsTrial.
type SubscriptionStatus struct {
	IsPremium  bool       `json:"isPremium"`
	IsTrial    bool       `json:"isTrial"`
	DaysLeft   DaysLeft   `json:"daysLeft"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	TrialEnded bool       `json:"trialEnded"`
}
