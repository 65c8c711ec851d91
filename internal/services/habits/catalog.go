package habits

import "github.com/khatoa-app/khatoa/internal/models"

// catalog статический список привычек, из которого пользователь выбирает
// отслеживаемые. Контент приложения, пользователем не редактируется.
var catalog = []models.Habit{
	{
		ID:          "reading",
		Name:        "قراءة كتاب",
		Icon:        "📚",
		Category:    "تطوير ذاتي",
		Description: "قراءة 10 صفحات يومياً",
		Points:      15,
		Difficulty:  models.DifficultyMedium,
	},
	{
		ID:          "prayer",
		Name:        "الصلاة في وقتها",
		Icon:        "🤲",
		Category:    "روحانيات",
		Description: "أداء الصلوات الخمس",
		Points:      25,
		Difficulty:  models.DifficultyEasy,
	},
	{
		ID:          "water",
		Name:        "شرب الماء",
		Icon:        "💧",
		Category:    "صحة",
		Description: "شرب 8 أكواب ماء يومياً",
		Points:      10,
		Difficulty:  models.DifficultyEasy,
	},
	{
		ID:          "exercise",
		Name:        "التمرين",
		Icon:        "🏃‍♀️",
		Category:    "صحة",
		Description: "30 دقيقة نشاط بدني",
		Points:      20,
		Difficulty:  models.DifficultyHard,
	},
	{
		ID:          "meditation",
		Name:        "التأمل",
		Icon:        "🧘‍♀️",
		Category:    "تطوير ذاتي",
		Description: "10 دقائق تأمل وتنفس",
		Points:      15,
		Difficulty:  models.DifficultyMedium,
	},
	{
		ID:          "gratitude",
		Name:        "الامتنان",
		Icon:        "🙏",
		Category:    "روحانيات",
		Description: "كتابة 3 أشياء تشعر بالامتنان لها",
		Points:      12,
		Difficulty:  models.DifficultyEasy,
	},
	{
		ID:          "learning",
		Name:        "تعلم مهارة جديدة",
		Icon:        "🎓",
		Category:    "تطوير ذاتي",
		Description: "قضاء 30 دقيقة في تعلم شيء جديد",
		Points:      18,
		Difficulty:  models.DifficultyMedium,
	},
	{
		ID:          "organization",
		Name:        "ترتيب المكان",
		Icon:        "🏠",
		Category:    "تنظيم",
		Description: "ترتيب مكان واحد في البيت",
		Points:      10,
		Difficulty:  models.DifficultyEasy,
	},
	{
		ID:          "family",
		Name:        "وقت مع الأهل",
		Icon:        "👨‍👩‍👧‍👦",
		Category:    "علاقات",
		Description: "قضاء وقت ممتع مع الأهل",
		Points:      15,
		Difficulty:  models.DifficultyEasy,
	},
	{
		ID:          "sleep",
		Name:        "النوم المبكر",
		Icon:        "🌙",
		Category:    "صحة",
		Description: "النوم قبل الساعة 11 مساءً",
		Points:      12,
		Difficulty:  models.DifficultyMedium,
	},
}
