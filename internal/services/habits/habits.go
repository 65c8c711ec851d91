// Package habits содержит логику ежедневного трекинга привычек: каталог,
// отметки выполнения по дням и агрегаты для экранов статистики.
package habits

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/khatoa-app/khatoa/internal/kvstore"
	"github.com/khatoa-app/khatoa/internal/models"
)

// DateLayout формат ключа дня в записи прогресса.
const DateLayout = "2006-01-02"

// ErrUnknownHabit идентификатор привычки отсутствует в каталоге.
var ErrUnknownHabit = errors.New("unknown habit")

// Service реализует трекинг привычек поверх хранилища.
type Service struct {
	store kvstore.Store
	log   *slog.Logger
	now   func() time.Time // подменяется в тестах
}

// New создает новый экземпляр Service.
func New(store kvstore.Store, log *slog.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Catalog возвращает полный каталог привычек.
func (s *Service) Catalog() []models.Habit {
	return slices.Clone(catalog)
}

// HabitByID возвращает привычку каталога по идентификатору.
func (s *Service) HabitByID(id string) (models.Habit, bool) {
	for _, h := range catalog {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}

// ValidateSelection проверяет, что все идентификаторы есть в каталоге.
func (s *Service) ValidateSelection(ids []string) error {
	for _, id := range ids {
		if _, ok := s.HabitByID(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownHabit, id)
		}
	}
	return nil
}

// ToggleToday переключает отметку привычки за сегодня: отмеченная снимается,
// неотмеченная ставится. Возвращает новое состояние отметки.
func (s *Service) ToggleToday(ctx context.Context, userID, habitID string) (bool, error) {
	const op = "habits.ToggleToday"

	if _, ok := s.HabitByID(habitID); !ok {
		return false, fmt.Errorf("%s: %w: %s", op, ErrUnknownHabit, habitID)
	}

	progress, err := s.progress(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	day := s.now().UTC().Format(DateLayout)
	completed := progress.Days[day]
	idx := slices.Index(completed, habitID)
	var nowCompleted bool
	if idx == -1 {
		completed = append(completed, habitID)
		nowCompleted = true
	} else {
		completed = slices.Delete(completed, idx, idx+1)
	}
	if len(completed) == 0 {
		delete(progress.Days, day)
	} else {
		progress.Days[day] = completed
	}

	if err = s.store.Set(ctx, kvstore.ProgressKey(userID), progress); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return nowCompleted, nil
}

// Progress возвращает запись прогресса пользователя; отсутствие записи
// эквивалентно пустому прогрессу.
func (s *Service) Progress(ctx context.Context, userID string) (models.Progress, error) {
	const op = "habits.Progress"
	progress, err := s.progress(ctx, userID)
	if err != nil {
		return models.Progress{}, fmt.Errorf("%s: %w", op, err)
	}
	return progress, nil
}

// Summary собирает агрегаты прогресса: суммарные очки, текущую серию дней,
// выполнение за сегодня и разбивку по привычкам, отсортированную по убыванию
// числа отметок.
func (s *Service) Summary(ctx context.Context, userID string, selected []string) (models.HabitsSummary, error) {
	const op = "habits.Summary"

	progress, err := s.progress(ctx, userID)
	if err != nil {
		return models.HabitsSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	counts := make(map[string]int)
	totalPoints := 0
	for _, completed := range progress.Days {
		for _, habitID := range completed {
			counts[habitID]++
			if habit, ok := s.HabitByID(habitID); ok {
				totalPoints += habit.Points
			}
		}
	}

	byHabit := make([]models.HabitStat, 0, len(counts))
	for habitID, count := range counts {
		points := 0
		if habit, ok := s.HabitByID(habitID); ok {
			points = habit.Points * count
		}
		byHabit = append(byHabit, models.HabitStat{HabitID: habitID, Completed: count, Points: points})
	}
	sort.Slice(byHabit, func(i, j int) bool {
		if byHabit[i].Completed != byHabit[j].Completed {
			return byHabit[i].Completed > byHabit[j].Completed
		}
		return byHabit[i].HabitID < byHabit[j].HabitID
	})

	today := s.now().UTC()
	todayKey := today.Format(DateLayout)
	summary := models.HabitsSummary{
		TotalPoints:    totalPoints,
		Streak:         s.streak(progress, today),
		TodayCompleted: len(progress.Days[todayKey]),
		TodaySelected:  len(selected),
		ByHabit:        byHabit,
	}
	if summary.TodaySelected > 0 {
		summary.TodayRate = float64(summary.TodayCompleted) / float64(summary.TodaySelected)
	}
	return summary, nil
}

// streak считает непрерывные дни с хотя бы одной отметкой, двигаясь назад
// от сегодня. Пустой сегодняшний день серию не обнуляет: отсчет начинается
// со вчерашнего.
func (s *Service) streak(progress models.Progress, today time.Time) int {
	day := today
	if len(progress.Days[day.Format(DateLayout)]) == 0 {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for len(progress.Days[day.Format(DateLayout)]) > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func (s *Service) progress(ctx context.Context, userID string) (models.Progress, error) {
	progress := models.Progress{UserID: userID, Days: make(map[string][]string)}
	if _, err := s.store.Get(ctx, kvstore.ProgressKey(userID), &progress); err != nil {
		return models.Progress{}, err
	}
	if progress.Days == nil {
		progress.Days = make(map[string][]string)
	}
	return progress, nil
}
