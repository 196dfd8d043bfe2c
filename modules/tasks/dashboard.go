package tasks

import (
	"context"
	"math"

	"github.com/example/taskboard/domain/todo"
)

const (
	recentTaskLimit    = 10
	recentActivityDays = 7
)

// Dashboard aggregates the caller's workload with indexed count queries.
// Concurrent requests for the same user are collapsed into one
// computation via singleflight.
func (s *Service) Dashboard(ctx context.Context, userID string) (*DashboardSummary, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	v, err, _ := s.dashboards.Do(userID, func() (any, error) {
		return s.buildDashboard(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*DashboardSummary), nil
}

func (s *Service) buildDashboard(ctx context.Context, userID string) (*DashboardSummary, error) {
	now := s.now()

	byStatus, err := s.repos.tasks.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.repos.tasks.CountByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repos.tasks.CountOverdue(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	highPriority, err := s.repos.tasks.CountHighPriorityActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repos.categories.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recentActivity, err := s.repos.activities.CountSince(ctx, userID, now.AddDate(0, 0, -recentActivityDays))
	if err != nil {
		return nil, err
	}
	recentTasks, err := s.repos.tasks.Recent(ctx, userID, recentTaskLimit)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	// Archived tasks are excluded from the completion denominator so an
	// old archive does not drag the rate down.
	completed := byStatus[todo.StatusCompleted]
	denominator := total - byStatus[todo.StatusArchived]
	var completionRate float64
	if denominator > 0 {
		completionRate = math.Round(100 * float64(completed) / float64(denominator))
	}

	return &DashboardSummary{
		TotalTasks:     total,
		ByStatus:       byStatus,
		ByPriority:     byPriority,
		Overdue:        overdue,
		HighPriority:   highPriority,
		CompletionRate: completionRate,
		Categories:     categories,
		RecentActivity: recentActivity,
		RecentTasks:    recentTasks,
	}, nil
}
