package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"tasktrack/internal/models"
	"tasktrack/internal/timecalc"
)

type summaryServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	now    func() time.Time
}

func NewSummaryService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) SummaryService {
	return &summaryServiceImpl{
		logger: logger,
		pgPool: pgPool,
		now:    time.Now,
	}
}

// sumElapsedHours totals the per-task elapsed hours. Tasks missing either
// timestamp contribute 0. The total is rounded to 2 decimals again so the
// sum doesn't accumulate float noise.
func sumElapsedHours(tasks []*models.Task) float64 {
	var total float64
	for _, t := range tasks {
		total += timecalc.ElapsedHours(t.StartTime, t.EndTime)
	}
	return math.Round(total*100) / 100
}

func countCompleted(tasks []*models.Task) int {
	var count int
	for _, t := range tasks {
		if t.Completed {
			count++
		}
	}
	return count
}

// tasksStartedSince fetches the owner's tasks whose start_time falls on or
// after the window start. Tasks that were never started don't qualify.
func (s *summaryServiceImpl) tasksStartedSince(ctx context.Context, userID string, since time.Time) ([]*models.Task, error) {
	const selectStartedTasksQuery = `
SELECT start_time,
       end_time,
       completed
FROM tasks
WHERE user_id = $1 AND
      start_time >= $2
`
	rows, err := s.pgPool.Query(
		ctx,
		selectStartedTasksQuery,
		userID,
		since,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select started tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.StartTime,
			&task.EndTime,
			&task.Completed,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return tasks, nil
}

// completedEndedSince counts the owner's tasks that are completed and
// whose end_time falls on or after the window start. A completed task
// with no end_time never counts.
func (s *summaryServiceImpl) completedEndedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	const countCompletedTasksQuery = `
SELECT COUNT(*)
FROM tasks
WHERE user_id = $1 AND
      completed = TRUE AND
      end_time >= $2
`
	var count int
	err := s.pgPool.QueryRow(
		ctx,
		countCompletedTasksQuery,
		userID,
		since,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count completed tasks")
		return 0, err
	}
	return count, nil
}

func (s *summaryServiceImpl) hoursSince(ctx context.Context, userID string, since time.Time) (*HoursSummary, error) {
	tasks, err := s.tasksStartedSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	summary := &HoursSummary{
		WindowStart: since,
		TotalHours:  sumElapsedHours(tasks),
	}
	s.logger.Debug().
		Str("user_id", userID).
		Time("window_start", since).
		Float64("total_hours", summary.TotalHours).
		Msg("computed hours summary")
	return summary, nil
}

func (s *summaryServiceImpl) DailyHours(ctx context.Context, userID string) (*HoursSummary, error) {
	return s.hoursSince(ctx, userID, timecalc.DayStart(s.now()))
}

func (s *summaryServiceImpl) WeeklyHours(ctx context.Context, userID string) (*HoursSummary, error) {
	return s.hoursSince(ctx, userID, timecalc.WeekStart(s.now()))
}

func (s *summaryServiceImpl) completedSince(ctx context.Context, userID string, since time.Time) (*CompletedSummary, error) {
	count, err := s.completedEndedSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	summary := &CompletedSummary{
		WindowStart: since,
		TotalTasks:  count,
	}
	s.logger.Debug().
		Str("user_id", userID).
		Time("window_start", since).
		Int("total_tasks", count).
		Msg("computed completed summary")
	return summary, nil
}

func (s *summaryServiceImpl) DailyCompleted(ctx context.Context, userID string) (*CompletedSummary, error) {
	return s.completedSince(ctx, userID, timecalc.DayStart(s.now()))
}

func (s *summaryServiceImpl) WeeklyCompleted(ctx context.Context, userID string) (*CompletedSummary, error) {
	return s.completedSince(ctx, userID, timecalc.WeekStart(s.now()))
}

func (s *summaryServiceImpl) WeeklyReport(ctx context.Context, userID string) (*WeeklyReport, error) {
	since := timecalc.RollingWeekAgo(s.now())
	tasks, err := s.tasksStartedSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		Since:          since,
		TotalCompleted: countCompleted(tasks),
		TotalHours:     sumElapsedHours(tasks),
	}
	s.logger.Info().
		Str("user_id", userID).
		Int("total_completed", report.TotalCompleted).
		Float64("total_hours", report.TotalHours).
		Msg("computed weekly report")
	return report, nil
}

func (s *summaryServiceImpl) ChartData(ctx context.Context, userID string) (*ChartData, error) {
	now := s.now()
	dayStart := timecalc.DayStart(now)
	weekStart := timecalc.WeekStart(now)

	daily, err := s.hoursSince(ctx, userID, dayStart)
	if err != nil {
		return nil, err
	}
	weekly, err := s.hoursSince(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	dailyDone, err := s.completedEndedSince(ctx, userID, dayStart)
	if err != nil {
		return nil, err
	}
	weeklyDone, err := s.completedEndedSince(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	return &ChartData{
		Date:            dayStart,
		WeekStart:       weekStart,
		DailyHours:      daily.TotalHours,
		WeeklyHours:     weekly.TotalHours,
		DailyCompleted:  dailyDone,
		WeeklyCompleted: weeklyDone,
	}, nil
}
