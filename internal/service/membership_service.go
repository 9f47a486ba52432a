package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PlanInput carries the editable fields of a plan.
type PlanInput struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Description  string  `json:"description"`
	DurationDays int     `json:"durationDays" validate:"min=1,max=3650"`
	Price        float64 `json:"price" validate:"gte=0"`
	IsActive     *bool   `json:"isActive"` // Defaults to true on create, unchanged on update
}

// SaleInput describes a membership sale. Both new sales and renewals use it.
// StartDate defaults to today and is ignored by renewals; AmountPaid defaults
// to the plan price.
type SaleInput struct {
	MemberID      primitive.ObjectID   `json:"memberId"`
	PlanID        primitive.ObjectID   `json:"planId"`
	StartDate     *time.Time           `json:"startDate"`
	AmountPaid    *float64             `json:"amountPaid" validate:"omitempty,gte=0"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash card transfer"`
	Notes         string               `json:"notes"`
	CreatedBy     *primitive.ObjectID  `json:"-"`
}

// MembershipView is a joined membership plus its date-derived status.
type MembershipView struct {
	domain.MembershipDetails
	Temporal lifecycle.StatusView `json:"temporal"`
}

type MembershipService interface {
	ListActivePlans(ctx context.Context) ([]domain.MembershipPlan, error) // Cheapest first
	ListPlans(ctx context.Context) ([]domain.MembershipPlan, error)
	GetPlan(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPlan, error)
	CreatePlan(ctx context.Context, in PlanInput) (*domain.MembershipPlan, error)
	UpdatePlan(ctx context.Context, id primitive.ObjectID, in PlanInput) (*domain.MembershipPlan, error)
	DeactivatePlan(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPlan, error)

	CreateMembership(ctx context.Context, in SaleInput) (*MembershipView, error)
	// RenewMembership sells a new period that starts the day after the current
	// one ends, or today when the member holds no valid membership.
	RenewMembership(ctx context.Context, in SaleInput) (*MembershipView, error)
	CancelMembership(ctx context.Context, id primitive.ObjectID) (*MembershipView, error)
	ExpireMembership(ctx context.Context, id primitive.ObjectID) (*MembershipView, error)
	GetMembership(ctx context.Context, id primitive.ObjectID) (*MembershipView, error)
	ListMemberships(ctx context.Context, filter repository.MembershipFilter) ([]MembershipView, error) // Newest first
	// ExpiringMemberships is the renewal worklist; threshold < 0 uses the configured default.
	ExpiringMemberships(ctx context.Context, threshold int) ([]MembershipView, error)
	CurrentForMember(ctx context.Context, memberID primitive.ObjectID) (*MembershipView, error)
}

// membershipService implements the MembershipService interface.
type membershipService struct {
	planRepo       repository.MembershipPlanRepository
	membershipRepo repository.MembershipRepository
	memberRepo     repository.MemberRepository
	engine         *lifecycle.Engine
	logger         *zap.Logger
}

// NewMembershipService creates a new instance of membershipService.
func NewMembershipService(
	planRepo repository.MembershipPlanRepository,
	membershipRepo repository.MembershipRepository,
	memberRepo repository.MemberRepository,
	engine *lifecycle.Engine,
	logger *zap.Logger,
) MembershipService {
	return &membershipService{
		planRepo:       planRepo,
		membershipRepo: membershipRepo,
		memberRepo:     memberRepo,
		engine:         engine,
		logger:         logger,
	}
}

// === Plans ===

func (s *membershipService) ListActivePlans(ctx context.Context) ([]domain.MembershipPlan, error) {
	return s.planRepo.List(ctx, true)
}

func (s *membershipService) ListPlans(ctx context.Context) ([]domain.MembershipPlan, error) {
	return s.planRepo.List(ctx, false)
}

func (s *membershipService) GetPlan(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *membershipService) CreatePlan(ctx context.Context, in PlanInput) (*domain.MembershipPlan, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	plan := &domain.MembershipPlan{
		Name:         in.Name,
		Description:  in.Description,
		DurationDays: in.DurationDays,
		Price:        in.Price,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	id, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

// UpdatePlan edits a plan. Duration and price are frozen once any membership
// references the plan, since existing end dates and payments were derived from them.
func (s *membershipService) UpdatePlan(ctx context.Context, id primitive.ObjectID, in PlanInput) (*domain.MembershipPlan, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if plan.DurationDays != in.DurationDays || plan.Price != in.Price {
		used, err := s.membershipRepo.CountByPlan(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("count plan usage: %w", err)
		}
		if used > 0 {
			return nil, ErrPlanInUse
		}
	}

	plan.Name = in.Name
	plan.Description = in.Description
	plan.DurationDays = in.DurationDays
	plan.Price = in.Price
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *membershipService) DeactivatePlan(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPlan, error) {
	if err := s.planRepo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return s.GetPlan(ctx, id)
}

// === Memberships ===

func (s *membershipService) CreateMembership(ctx context.Context, in SaleInput) (*MembershipView, error) {
	if err := validateSale(in); err != nil {
		return nil, err
	}
	start := s.engine.Today()
	if in.StartDate != nil {
		start = domain.DateOf(*in.StartDate)
	}
	return s.sell(ctx, in, start)
}

func (s *membershipService) RenewMembership(ctx context.Context, in SaleInput) (*MembershipView, error) {
	if err := validateSale(in); err != nil {
		return nil, err
	}

	history, err := s.membershipRepo.List(ctx, repository.MembershipFilter{MemberIDs: []primitive.ObjectID{in.MemberID}})
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}

	start := s.engine.Today()
	if current := lifecycle.SelectCurrent(history); current != nil && !s.engine.IsExpired(current.EndDate) {
		start = domain.DateOf(current.EndDate).AddDate(0, 0, 1)
	}
	return s.sell(ctx, in, start)
}

// sell writes one new active membership row for an active plan.
func (s *membershipService) sell(ctx context.Context, in SaleInput, start time.Time) (*MembershipView, error) {
	if _, err := s.memberRepo.GetByID(ctx, in.MemberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	plan, err := s.GetPlan(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	end, err := lifecycle.ComputeEndDate(start, plan.DurationDays)
	if err != nil {
		return nil, invalid("durationDays", err.Error())
	}

	amount := plan.Price
	if in.AmountPaid != nil {
		amount = *in.AmountPaid
	}
	planID := plan.ID
	membership := &domain.Membership{
		MemberID:      in.MemberID,
		PlanID:        &planID,
		StartDate:     start,
		EndDate:       end,
		AmountPaid:    amount,
		PaymentMethod: in.PaymentMethod,
		Status:        domain.MembershipActive,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedBy:     in.CreatedBy,
	}

	id, err := s.membershipRepo.Create(ctx, membership)
	if err != nil {
		return nil, err
	}

	s.logger.Info("membership sold",
		zap.String("membershipId", id.Hex()),
		zap.String("memberId", in.MemberID.Hex()),
		zap.String("start", domain.FormatDate(start)),
		zap.String("end", domain.FormatDate(end)),
	)
	return s.GetMembership(ctx, id)
}

func (s *membershipService) CancelMembership(ctx context.Context, id primitive.ObjectID) (*MembershipView, error) {
	return s.setStatus(ctx, id, domain.MembershipCancelled)
}

func (s *membershipService) ExpireMembership(ctx context.Context, id primitive.ObjectID) (*MembershipView, error) {
	return s.setStatus(ctx, id, domain.MembershipExpired)
}

func (s *membershipService) setStatus(ctx context.Context, id primitive.ObjectID, status domain.MembershipStatus) (*MembershipView, error) {
	if err := s.membershipRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return s.GetMembership(ctx, id)
}

func (s *membershipService) GetMembership(ctx context.Context, id primitive.ObjectID) (*MembershipView, error) {
	row, err := s.membershipRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	view := s.view(*row)
	return &view, nil
}

func (s *membershipService) ListMemberships(ctx context.Context, filter repository.MembershipFilter) ([]MembershipView, error) {
	rows, err := s.membershipRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(rows), nil
}

func (s *membershipService) ExpiringMemberships(ctx context.Context, threshold int) ([]MembershipView, error) {
	if threshold < 0 {
		threshold = s.engine.Threshold()
	}
	today := s.engine.Today()
	until := today.AddDate(0, 0, threshold)

	rows, err := s.membershipRepo.List(ctx, repository.MembershipFilter{
		Status:  domain.MembershipActive,
		EndFrom: &today,
		EndTo:   &until,
	})
	if err != nil {
		return nil, err
	}
	return s.views(s.engine.FilterExpiring(rows, threshold)), nil
}

func (s *membershipService) CurrentForMember(ctx context.Context, memberID primitive.ObjectID) (*MembershipView, error) {
	rows, err := s.membershipRepo.List(ctx, repository.MembershipFilter{MemberIDs: []primitive.ObjectID{memberID}})
	if err != nil {
		return nil, err
	}
	current := lifecycle.SelectCurrent(rows)
	if current == nil {
		return nil, ErrNoCurrentMembership
	}
	view := s.view(*current)
	return &view, nil
}

func (s *membershipService) view(row domain.MembershipDetails) MembershipView {
	return MembershipView{
		MembershipDetails: row,
		Temporal:          s.engine.Describe(row.Membership, -1),
	}
}

func (s *membershipService) views(rows []domain.MembershipDetails) []MembershipView {
	out := make([]MembershipView, len(rows))
	for i, row := range rows {
		out[i] = s.view(row)
	}
	return out
}

func validateSale(in SaleInput) error {
	if in.MemberID.IsZero() {
		return invalid("memberId", "is required")
	}
	if in.PlanID.IsZero() {
		return invalid("planId", "is required")
	}
	return validateStruct(in)
}
