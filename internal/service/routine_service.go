package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RoutineLineInput is one exercise of a routine, in display order.
type RoutineLineInput struct {
	ExerciseID  primitive.ObjectID `json:"exerciseId"`
	Sets        *int               `json:"sets" validate:"omitempty,gte=0"`
	Reps        string             `json:"reps" validate:"max=50"`
	RestSeconds *int               `json:"restSeconds" validate:"omitempty,gte=0"`
	Notes       string             `json:"notes"`
}

// RoutineInput describes a routine template and its lines.
type RoutineInput struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Description string             `json:"description"`
	Difficulty  domain.Difficulty  `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Exercises   []RoutineLineInput `json:"exercises" validate:"dive"`
}

type RoutineService interface {
	CreateRoutine(ctx context.Context, createdBy primitive.ObjectID, in RoutineInput) (*domain.RoutineWithExercises, error)
	GetRoutine(ctx context.Context, id primitive.ObjectID) (*domain.RoutineWithExercises, error)
	ListRoutines(ctx context.Context) ([]domain.RoutineTemplate, error) // Ordered by name
	// UpdateRoutine rewrites the header; the lines are replaced only when replaceExercises is set.
	UpdateRoutine(ctx context.Context, id primitive.ObjectID, in RoutineInput, replaceExercises bool) (*domain.RoutineWithExercises, error)
	// DeleteRoutine removes the lines first, then the template.
	DeleteRoutine(ctx context.Context, id primitive.ObjectID) error
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo  repository.RoutineRepository
	exerciseRepo repository.ExerciseRepository
	logger       *zap.Logger
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(routineRepo repository.RoutineRepository, exerciseRepo repository.ExerciseRepository, logger *zap.Logger) RoutineService {
	return &routineService{
		routineRepo:  routineRepo,
		exerciseRepo: exerciseRepo,
		logger:       logger,
	}
}

func (s *routineService) CreateRoutine(ctx context.Context, createdBy primitive.ObjectID, in RoutineInput) (*domain.RoutineWithExercises, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validateRoutine(ctx, in); err != nil {
		return nil, err
	}

	template := &domain.RoutineTemplate{
		Name:        in.Name,
		Description: in.Description,
		Difficulty:  in.Difficulty,
	}
	if !createdBy.IsZero() {
		template.CreatedBy = &createdBy
	}

	id, err := s.routineRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = id

	// The header exists even if the lines fail; the error tells the caller to retry or delete.
	if err := s.routineRepo.CreateExercises(ctx, routineLines(id, in.Exercises)); err != nil {
		s.logger.Error("routine created without exercises", zap.String("routineId", id.Hex()), zap.Error(err))
		return nil, fmt.Errorf("create routine exercises: %w", err)
	}
	return s.GetRoutine(ctx, id)
}

func (s *routineService) GetRoutine(ctx context.Context, id primitive.ObjectID) (*domain.RoutineWithExercises, error) {
	template, err := s.routineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}

	lines, err := s.routineRepo.ListExercises(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load routine exercises: %w", err)
	}
	return &domain.RoutineWithExercises{RoutineTemplate: *template, Exercises: lines}, nil
}

func (s *routineService) ListRoutines(ctx context.Context) ([]domain.RoutineTemplate, error) {
	return s.routineRepo.List(ctx)
}

func (s *routineService) UpdateRoutine(ctx context.Context, id primitive.ObjectID, in RoutineInput, replaceExercises bool) (*domain.RoutineWithExercises, error) {
	in.Name = strings.TrimSpace(in.Name)
	if !replaceExercises {
		in.Exercises = nil
	}
	if err := s.validateRoutine(ctx, in); err != nil {
		return nil, err
	}

	template, err := s.routineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	template.Name = in.Name
	template.Description = in.Description
	template.Difficulty = in.Difficulty

	if err := s.routineRepo.Update(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}

	if replaceExercises {
		if _, err := s.routineRepo.DeleteExercises(ctx, id); err != nil {
			return nil, fmt.Errorf("clear routine exercises: %w", err)
		}
		if err := s.routineRepo.CreateExercises(ctx, routineLines(id, in.Exercises)); err != nil {
			return nil, fmt.Errorf("create routine exercises: %w", err)
		}
	}
	return s.GetRoutine(ctx, id)
}

func (s *routineService) DeleteRoutine(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.routineRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	if _, err := s.routineRepo.DeleteExercises(ctx, id); err != nil {
		return fmt.Errorf("delete routine exercises: %w", err)
	}
	if err := s.routineRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	return nil
}

// validateRoutine checks the input shape and that every referenced exercise exists.
func (s *routineService) validateRoutine(ctx context.Context, in RoutineInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	for i, line := range in.Exercises {
		if err := requireExercise(ctx, s.exerciseRepo, line.ExerciseID, fmt.Sprintf("exercises[%d].exerciseId", i)); err != nil {
			return err
		}
	}
	return nil
}

// routineLines numbers the lines by their position in the input.
func routineLines(templateID primitive.ObjectID, in []RoutineLineInput) []domain.RoutineTemplateExercise {
	lines := make([]domain.RoutineTemplateExercise, len(in))
	for i, l := range in {
		exerciseID := l.ExerciseID
		lines[i] = domain.RoutineTemplateExercise{
			TemplateID:  templateID,
			ExerciseID:  &exerciseID,
			Sets:        l.Sets,
			Reps:        strings.TrimSpace(l.Reps),
			RestSeconds: l.RestSeconds,
			OrderIndex:  i,
			Notes:       l.Notes,
		}
	}
	return lines
}

// requireExercise reports a validation error naming field when id is missing or unknown.
func requireExercise(ctx context.Context, repo repository.ExerciseRepository, id primitive.ObjectID, field string) error {
	if id.IsZero() {
		return invalid(field, "is required")
	}
	if _, err := repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid(field, "references an unknown exercise")
		}
		return err
	}
	return nil
}
