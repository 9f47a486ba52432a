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

// SessionExerciseInput records what was done for one exercise.
type SessionExerciseInput struct {
	ExerciseID    primitive.ObjectID `json:"exerciseId"`
	SetsCompleted *int               `json:"setsCompleted" validate:"omitempty,gte=0"`
	RepsCompleted string             `json:"repsCompleted" validate:"max=50"`
	Weight        *float64           `json:"weight" validate:"omitempty,gte=0"`
	Notes         string             `json:"notes"`
}

// SessionInput describes a training session. Date defaults to today.
type SessionInput struct {
	MemberID  primitive.ObjectID     `json:"memberId"`
	TrainerID *primitive.ObjectID    `json:"trainerId"`
	Date      *time.Time             `json:"date"`
	Notes     string                 `json:"notes"`
	Exercises []SessionExerciseInput `json:"exercises" validate:"dive"`
}

// SessionExerciseUpdate replaces the recorded results of one session exercise.
type SessionExerciseUpdate struct {
	SetsCompleted *int     `json:"setsCompleted" validate:"omitempty,gte=0"`
	RepsCompleted string   `json:"repsCompleted" validate:"max=50"`
	Weight        *float64 `json:"weight" validate:"omitempty,gte=0"`
	Notes         string   `json:"notes"`
}

type TrainingService interface {
	CreateSession(ctx context.Context, in SessionInput) (*domain.SessionDetails, error)
	GetSession(ctx context.Context, id primitive.ObjectID) (*domain.SessionDetails, error)
	ListSessionsByDate(ctx context.Context, date time.Time) ([]domain.SessionDetails, error)
	TodaySessions(ctx context.Context) ([]domain.SessionDetails, error)
	ListMemberSessions(ctx context.Context, memberID primitive.ObjectID) ([]domain.SessionDetails, error) // Most recent first
	UpdateSessionExercise(ctx context.Context, id primitive.ObjectID, in SessionExerciseUpdate) (*domain.SessionExercise, error)
	DeleteSessionExercise(ctx context.Context, id primitive.ObjectID) error
	// DeleteSession removes the exercises first, then the session.
	DeleteSession(ctx context.Context, id primitive.ObjectID) error
}

// trainingService implements the TrainingService interface.
type trainingService struct {
	sessionRepo  repository.TrainingSessionRepository
	memberRepo   repository.MemberRepository
	staffRepo    repository.StaffRepository
	exerciseRepo repository.ExerciseRepository
	engine       *lifecycle.Engine
	logger       *zap.Logger
}

// NewTrainingService creates a new instance of trainingService.
func NewTrainingService(
	sessionRepo repository.TrainingSessionRepository,
	memberRepo repository.MemberRepository,
	staffRepo repository.StaffRepository,
	exerciseRepo repository.ExerciseRepository,
	engine *lifecycle.Engine,
	logger *zap.Logger,
) TrainingService {
	return &trainingService{
		sessionRepo:  sessionRepo,
		memberRepo:   memberRepo,
		staffRepo:    staffRepo,
		exerciseRepo: exerciseRepo,
		engine:       engine,
		logger:       logger,
	}
}

func (s *trainingService) CreateSession(ctx context.Context, in SessionInput) (*domain.SessionDetails, error) {
	if in.MemberID.IsZero() {
		return nil, invalid("memberId", "is required")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	for i, item := range in.Exercises {
		if err := requireExercise(ctx, s.exerciseRepo, item.ExerciseID, fmt.Sprintf("exercises[%d].exerciseId", i)); err != nil {
			return nil, err
		}
	}

	if _, err := s.memberRepo.GetByID(ctx, in.MemberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if in.TrainerID != nil {
		if _, err := s.staffRepo.GetByID(ctx, *in.TrainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTrainerNotFound
			}
			return nil, err
		}
	}

	date := s.engine.Today()
	if in.Date != nil {
		date = domain.DateOf(*in.Date)
	}
	session := &domain.TrainingSession{
		MemberID:  in.MemberID,
		TrainerID: in.TrainerID,
		Date:      date,
		Notes:     strings.TrimSpace(in.Notes),
	}
	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	items := make([]domain.SessionExercise, len(in.Exercises))
	for i, e := range in.Exercises {
		exerciseID := e.ExerciseID
		items[i] = domain.SessionExercise{
			SessionID:     id,
			ExerciseID:    &exerciseID,
			SetsCompleted: e.SetsCompleted,
			RepsCompleted: strings.TrimSpace(e.RepsCompleted),
			Weight:        e.Weight,
			Notes:         e.Notes,
			OrderIndex:    i,
		}
	}
	if err := s.sessionRepo.CreateExercises(ctx, items); err != nil {
		s.logger.Error("session created without exercises", zap.String("sessionId", id.Hex()), zap.Error(err))
		return nil, fmt.Errorf("create session exercises: %w", err)
	}
	return s.GetSession(ctx, id)
}

func (s *trainingService) GetSession(ctx context.Context, id primitive.ObjectID) (*domain.SessionDetails, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	items, err := s.sessionRepo.ListExercises(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session exercises: %w", err)
	}
	session.Exercises = items
	return session, nil
}

func (s *trainingService) ListSessionsByDate(ctx context.Context, date time.Time) ([]domain.SessionDetails, error) {
	day := domain.DateOf(date)
	return s.sessionRepo.List(ctx, repository.SessionFilter{Date: &day})
}

func (s *trainingService) TodaySessions(ctx context.Context) ([]domain.SessionDetails, error) {
	return s.ListSessionsByDate(ctx, s.engine.Today())
}

func (s *trainingService) ListMemberSessions(ctx context.Context, memberID primitive.ObjectID) ([]domain.SessionDetails, error) {
	return s.sessionRepo.List(ctx, repository.SessionFilter{MemberID: &memberID})
}

func (s *trainingService) UpdateSessionExercise(ctx context.Context, id primitive.ObjectID, in SessionExerciseUpdate) (*domain.SessionExercise, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	item, err := s.sessionRepo.GetExercise(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExerciseNotFound
		}
		return nil, err
	}
	item.SetsCompleted = in.SetsCompleted
	item.RepsCompleted = strings.TrimSpace(in.RepsCompleted)
	item.Weight = in.Weight
	item.Notes = in.Notes

	if err := s.sessionRepo.UpdateExercise(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExerciseNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *trainingService) DeleteSessionExercise(ctx context.Context, id primitive.ObjectID) error {
	if err := s.sessionRepo.DeleteExercise(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionExerciseNotFound
		}
		return err
	}
	return nil
}

func (s *trainingService) DeleteSession(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.sessionRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if _, err := s.sessionRepo.DeleteExercises(ctx, id); err != nil {
		return fmt.Errorf("delete session exercises: %w", err)
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}
