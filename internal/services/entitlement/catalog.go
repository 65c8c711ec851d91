package entitlement

import (
	"fmt"
	"time"

	"github.com/khatoa-app/khatoa/internal/models"
)

// planDefinition возвращает определение плана с абсолютной датой истечения,
// вычисленной от момента активации. Пожизненный план даты не имеет.
func planDefinition(planID string, now time.Time) (models.Plan, bool) {
	switch planID {
	case models.PlanMonthly:
		expiry := now.Add(30 * 24 * time.Hour)
		return models.Plan{
			ID:         models.PlanMonthly,
			Name:       "الاشتراك الشهري",
			Price:      29,
			Duration:   "شهر",
			Features:   []string{"analytics", "social", "ai_assistant", "themes"},
			IsActive:   true,
			ExpiryDate: &expiry,
		}, true
	case models.PlanYearly:
		expiry := now.Add(365 * 24 * time.Hour)
		return models.Plan{
			ID:         models.PlanYearly,
			Name:       "الاشتراك السنوي",
			Price:      199,
			Duration:   "سنة",
			Features:   []string{"analytics", "social", "ai_assistant", "themes", "backup", "spiritual"},
			IsActive:   true,
			ExpiryDate: &expiry,
		}, true
	case models.PlanLifetime:
		return models.Plan{
			ID:       models.PlanLifetime,
			Name:     "الاشتراك مدى الحياة",
			Price:    499,
			Duration: "مدى الحياة",
			Features: []string{"analytics", "social", "ai_assistant", "themes", "backup", "spiritual", "vip_support"},
			IsActive: true,
		}, true
	default:
		return models.Plan{}, false
	}
}

// PremiumFeatures каталог платных функций приложения.
var PremiumFeatures = map[string]models.PremiumFeature{
	"analytics": {
		ID:            "analytics",
		Name:          "تحليلات ذكية",
		Description:   "تقارير مفصلة وإحصائيات متقدمة",
		Category:      "analytics",
		IsPremium:     true,
		RequiredPlans: []string{models.PlanMonthly, models.PlanYearly, models.PlanLifetime},
	},
	"social": {
		ID:            "social",
		Name:          "ميزات اجتماعية",
		Description:   "تحديات جماعية ولوحة المتصدرين",
		Category:      "social",
		IsPremium:     true,
		RequiredPlans: []string{models.PlanMonthly, models.PlanYearly, models.PlanLifetime},
	},
	"ai_assistant": {
		ID:            "ai_assistant",
		Name:          "المساعد الذكي",
		Description:   "نصائح مخصصة بالذكاء الاصطناعي",
		Category:      "ai",
		IsPremium:     true,
		RequiredPlans: []string{models.PlanMonthly, models.PlanYearly, models.PlanLifetime},
	},
	"themes": {
		ID:            "themes",
		Name:          "ثيمات متقدمة",
		Description:   "خلفيات متحركة وثيمات مخصصة",
		Category:      "customization",
		IsPremium:     true,
		RequiredPlans: []string{models.PlanMonthly, models.PlanYearly, models.PlanLifetime},
	},
	"backup": {
		ID:            "backup",
		Name:          "نسخ احتياطي آمن",
		Description:   "حفظ البيانات في السحابة",
		Category:      "security",
		IsPremium:     true,
		RequiredPlans: []string{models.PlanYearly, models.PlanLifetime},
	},
	"spiritual": {
		ID:            "spiritual",
		Name:          "الميزات الروحانية",
		Description:   "تذكيرات الصلاة وعداد الأذكار",
		Category:      "spiritual",
		IsPremium:     true,
		RequiredPlans: []string{models.PlanYearly, models.PlanLifetime},
	},
	"vip_support": {
		ID:            "vip_support",
		Name:          "دعم VIP",
		Description:   "دعم فني مخصص وأولوية في الرد",
		Category:      "support",
		IsPremium:     true,
		RequiredPlans: []string{models.PlanLifetime},
	},
}

// UpgradeMessage возвращает текст приглашения к апгрейду для функции.
func UpgradeMessage(featureID string) string {
	if feature, ok := PremiumFeatures[featureID]; ok {
		return fmt.Sprintf("feature %q is available to premium subscribers only", feature.Name)
	}
	return "this feature is available to premium subscribers only"
}
