package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TrainerService interface {
	// AssignTrainer makes trainerID the only trainer of memberID. Repeating
	// the call with the same trainer leaves a single link.
	AssignTrainer(ctx context.Context, memberID, trainerID primitive.ObjectID) (*domain.TrainerMember, error)
	// UnassignTrainer removes the member's link; a member without one is not an error.
	UnassignTrainer(ctx context.Context, memberID primitive.ObjectID) error
	TrainerForMember(ctx context.Context, memberID primitive.ObjectID) (*domain.Staff, error)
	// MembersForTrainer lists the trainer's members by name with their current membership.
	MembersForTrainer(ctx context.Context, trainerID primitive.ObjectID) (*lifecycle.Summary, error)
	ListTrainers(ctx context.Context) ([]domain.Staff, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	linkRepo       repository.TrainerMemberRepository
	staffRepo      repository.StaffRepository
	memberRepo     repository.MemberRepository
	membershipRepo repository.MembershipRepository
	engine         *lifecycle.Engine
	logger         *zap.Logger
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	linkRepo repository.TrainerMemberRepository,
	staffRepo repository.StaffRepository,
	memberRepo repository.MemberRepository,
	membershipRepo repository.MembershipRepository,
	engine *lifecycle.Engine,
	logger *zap.Logger,
) TrainerService {
	return &trainerService{
		linkRepo:       linkRepo,
		staffRepo:      staffRepo,
		memberRepo:     memberRepo,
		membershipRepo: membershipRepo,
		engine:         engine,
		logger:         logger,
	}
}

func (s *trainerService) AssignTrainer(ctx context.Context, memberID, trainerID primitive.ObjectID) (*domain.TrainerMember, error) {
	if memberID.IsZero() || trainerID.IsZero() {
		return nil, invalid("trainerId", "member and trainer are required")
	}

	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if _, err := s.getTrainer(ctx, trainerID); err != nil {
		return nil, err
	}

	link := &domain.TrainerMember{MemberID: memberID, TrainerID: trainerID}
	if err := s.linkRepo.Upsert(ctx, link); err != nil {
		return nil, fmt.Errorf("assign trainer: %w", err)
	}

	s.logger.Info("trainer assigned", zap.String("memberId", memberID.Hex()), zap.String("trainerId", trainerID.Hex()))
	return s.linkRepo.GetByMember(ctx, memberID)
}

func (s *trainerService) UnassignTrainer(ctx context.Context, memberID primitive.ObjectID) error {
	if _, err := s.linkRepo.DeleteByMember(ctx, memberID); err != nil {
		return fmt.Errorf("unassign trainer: %w", err)
	}
	return nil
}

func (s *trainerService) TrainerForMember(ctx context.Context, memberID primitive.ObjectID) (*domain.Staff, error) {
	link, err := s.linkRepo.GetByMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoTrainerAssigned
		}
		return nil, err
	}
	staff, err := s.staffRepo.GetByID(ctx, link.TrainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	staff.PasswordHash = ""
	return staff, nil
}

func (s *trainerService) MembersForTrainer(ctx context.Context, trainerID primitive.ObjectID) (*lifecycle.Summary, error) {
	links, err := s.linkRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return &lifecycle.Summary{Members: []lifecycle.MemberStanding{}}, nil
	}

	ids := make([]primitive.ObjectID, len(links))
	for i, l := range links {
		ids[i] = l.MemberID
	}
	members, err := s.memberRepo.List(ctx, repository.MemberFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	withMemberships, err := attachMemberships(ctx, s.membershipRepo, members)
	if err != nil {
		return nil, err
	}
	summary := s.engine.Summarize(withMemberships, -1)
	return &summary, nil
}

func (s *trainerService) ListTrainers(ctx context.Context) ([]domain.Staff, error) {
	trainers, err := s.staffRepo.ListByRole(ctx, domain.RoleTrainer)
	if err != nil {
		return nil, err
	}
	for i := range trainers {
		trainers[i].PasswordHash = ""
	}
	return trainers, nil
}

func (s *trainerService) getTrainer(ctx context.Context, id primitive.ObjectID) (*domain.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if !staff.IsTrainer() {
		return nil, ErrNotATrainer
	}
	return staff, nil
}
