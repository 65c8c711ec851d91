package models

// Difficulty сложность привычки.
type Difficulty string

// Допустимые уровни сложности.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Habit запись каталога привычек.
type Habit struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Difficulty  Difficulty `json:"difficulty"`
}

// Progress ежедневный прогресс пользователя: дата (2006-01-02) — множество
// отмеченных привычек. Хранится под ключом khatoa_progress_<userID>.
type Progress struct {
	UserID string              `json:"userId"`
	Days   map[string][]string `json:"days"`
}

// HabitStat агрегат по одной привычке для сводки.
type HabitStat struct {
	HabitID   string `json:"habitId"`
	Completed int    `json:"completed"` // Сколько дней привычка была отмечена
	Points    int    `json:"points"`    // Суммарные начисленные очки
}

// HabitsSummary сводка прогресса пользователя: простые агрегаты
// (сумма, доля, сортировка) для экранов статистики.
type HabitsSummary struct {
	TotalPoints    int         `json:"totalPoints"`
	Streak         int         `json:"streak"`         // Непрерывные дни с хотя бы одной отметкой, заканчивая сегодня
	TodayCompleted int         `json:"todayCompleted"` // Отмечено сегодня
	TodaySelected  int         `json:"todaySelected"`  // Всего отслеживаемых привычек
	TodayRate      float64     `json:"todayRate"`      // Доля выполненного сегодня, 0..1
	ByHabit        []HabitStat `json:"byHabit"`        // Отсортировано по убыванию отметок
}
