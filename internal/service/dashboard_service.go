package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/repository"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DashboardStats is the admin landing page.
type DashboardStats struct {
	ActiveMembers        int64            `json:"activeMembers"`        // Member status active
	ActiveMemberships    int64            `json:"activeMemberships"`    // Stored status active
	MembersWithValidPlan int              `json:"membersWithValidPlan"` // Current membership not expired
	StaleActive          int              `json:"staleActive"`          // Stored active but past end date
	MonthRevenue         float64          `json:"monthRevenue"`
	ExpiringSoon         []MembershipView `json:"expiringSoon"`
	TodaySessions        int64            `json:"todaySessions"`
	ThresholdDays        int              `json:"thresholdDays"`
	GeneratedAt          time.Time        `json:"generatedAt"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

// dashboardService implements the DashboardService interface.
type dashboardService struct {
	memberRepo     repository.MemberRepository
	membershipRepo repository.MembershipRepository
	sessionRepo    repository.TrainingSessionRepository
	memberships    MembershipService
	engine         *lifecycle.Engine
	logger         *zap.Logger
}

// NewDashboardService creates a new instance of dashboardService.
func NewDashboardService(
	memberRepo repository.MemberRepository,
	membershipRepo repository.MembershipRepository,
	sessionRepo repository.TrainingSessionRepository,
	memberships MembershipService,
	engine *lifecycle.Engine,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		memberRepo:     memberRepo,
		membershipRepo: membershipRepo,
		sessionRepo:    sessionRepo,
		memberships:    memberships,
		engine:         engine,
		logger:         logger,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ThresholdDays: s.engine.Threshold(),
		GeneratedAt:   s.engine.Now(),
	}
	var err error

	if stats.ActiveMembers, err = s.memberRepo.Count(ctx, repository.MemberFilter{Status: domain.MemberActive}); err != nil {
		return nil, fmt.Errorf("count active members: %w", err)
	}
	if stats.ActiveMemberships, err = s.membershipRepo.Count(ctx, repository.MembershipFilter{Status: domain.MembershipActive}); err != nil {
		return nil, fmt.Errorf("count active memberships: %w", err)
	}

	members, err := s.memberRepo.List(ctx, repository.MemberFilter{})
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	withMemberships, err := attachMemberships(ctx, s.membershipRepo, members)
	if err != nil {
		return nil, err
	}
	summary := s.engine.Summarize(withMemberships, -1)
	stats.MembersWithValidPlan = summary.WithValidMembership
	stats.StaleActive = summary.StaleActive

	from, to := monthBounds(s.engine.Now())
	if stats.MonthRevenue, err = s.membershipRepo.SumAmountCreatedBetween(ctx, from, to); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	if stats.ExpiringSoon, err = s.memberships.ExpiringMemberships(ctx, -1); err != nil {
		return nil, fmt.Errorf("expiring memberships: %w", err)
	}

	today := s.engine.Today()
	if stats.TodaySessions, err = s.sessionRepo.Count(ctx, repository.SessionFilter{Date: &today}); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	return stats, nil
}

// monthBounds returns [first instant of now's month, first instant of the next
// month) in now's location, as UTC instants for comparing with createdAt.
func monthBounds(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	from := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return from.UTC(), from.AddDate(0, 1, 0).UTC()
}
