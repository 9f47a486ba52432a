package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/repository"
	"bunker/gym-admin/internal/storage"
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// muscleGroupOrder is the order groups appear in pickers; other groups follow alphabetically.
var muscleGroupOrder = []string{"Chest", "Back", "Shoulders", "Biceps", "Triceps", "Legs", "Glutes", "Core"}

// ExerciseInput carries the editable fields of a catalog exercise.
type ExerciseInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscleGroup" validate:"max=100"`
	Equipment   string `json:"equipment" validate:"max=100"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
}

// ExerciseGroup is one muscle group bucket of the catalog.
type ExerciseGroup struct {
	MuscleGroup string            `json:"muscleGroup"`
	Exercises   []domain.Exercise `json:"exercises"`
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error) // Ordered by name
	GroupExercises(ctx context.Context) ([]ExerciseGroup, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error

	VideoUploadURL(ctx context.Context, id primitive.ObjectID, contentType string) (*UploadTicket, error)
	ConfirmVideo(ctx context.Context, id primitive.ObjectID, key string) (*domain.Exercise, error)
	VideoURL(ctx context.Context, id primitive.ObjectID) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo  repository.ExerciseRepository
	files         storage.FileStorage
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, files storage.FileStorage, presignExpiry time.Duration, logger *zap.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo:  exerciseRepo,
		files:         files,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

func (s *exerciseService) CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	in = normalizeExerciseInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:        in.Name,
		Description: in.Description,
		MuscleGroup: in.MuscleGroup,
		Equipment:   in.Equipment,
		VideoURL:    in.VideoURL,
	}
	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// GroupExercises buckets the catalog by muscle group. Exercises without a
// group land in the Uncategorized bucket, which always comes last.
func (s *exerciseService) GroupExercises(ctx context.Context) ([]ExerciseGroup, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return groupByMuscle(exercises), nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	in = normalizeExerciseInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	exercise, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	exercise.Name = in.Name
	exercise.Description = in.Description
	exercise.MuscleGroup = in.MuscleGroup
	exercise.Equipment = in.Equipment
	exercise.VideoURL = in.VideoURL

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	exercise, err := s.GetExercise(ctx, id)
	if err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	if exercise.VideoKey != "" {
		if err := s.files.DeleteObject(ctx, exercise.VideoKey); err != nil {
			s.logger.Warn("orphaned exercise video", zap.String("exerciseId", id.Hex()), zap.Error(err))
		}
	}
	return nil
}

func (s *exerciseService) VideoUploadURL(ctx context.Context, id primitive.ObjectID, contentType string) (*UploadTicket, error) {
	if _, err := s.GetExercise(ctx, id); err != nil {
		return nil, err
	}
	return issueUpload(ctx, s.files, s.presignExpiry, func() (string, error) {
		return storage.ExerciseVideoKey(id, contentType)
	}, contentType)
}

func (s *exerciseService) ConfirmVideo(ctx context.Context, id primitive.ObjectID, key string) (*domain.Exercise, error) {
	if !storage.IsExerciseVideoKey(id, key) {
		return nil, ErrForeignUpload
	}
	exercise, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := exercise.VideoKey

	if err := s.exerciseRepo.SetVideoKey(ctx, id, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	exercise.VideoKey = key

	if previous != "" && previous != key {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("failed to delete replaced video", zap.String("key", previous), zap.Error(err))
		}
	}
	return exercise, nil
}

func (s *exerciseService) VideoURL(ctx context.Context, id primitive.ObjectID) (string, error) {
	exercise, err := s.GetExercise(ctx, id)
	if err != nil {
		return "", err
	}
	if exercise.VideoKey == "" {
		return "", ErrVideoNotFound
	}
	return s.files.GeneratePresignedDownloadURL(ctx, exercise.VideoKey, s.presignExpiry)
}

func normalizeExerciseInput(in ExerciseInput) ExerciseInput {
	in.Name = strings.TrimSpace(in.Name)
	in.MuscleGroup = strings.TrimSpace(in.MuscleGroup)
	in.Equipment = strings.TrimSpace(in.Equipment)
	in.VideoURL = strings.TrimSpace(in.VideoURL)
	return in
}

// groupByMuscle keeps the input order inside each group.
func groupByMuscle(exercises []domain.Exercise) []ExerciseGroup {
	byGroup := map[string][]domain.Exercise{}
	for _, ex := range exercises {
		group := ex.MuscleGroup
		if group == "" {
			group = domain.UncategorizedMuscleGroup
		}
		byGroup[group] = append(byGroup[group], ex)
	}

	rank := make(map[string]int, len(muscleGroupOrder))
	for i, g := range muscleGroupOrder {
		rank[g] = i
	}
	names := make([]string, 0, len(byGroup))
	for g := range byGroup {
		names = append(names, g)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if (a == domain.UncategorizedMuscleGroup) != (b == domain.UncategorizedMuscleGroup) {
			return b == domain.UncategorizedMuscleGroup
		}
		ra, aKnown := rank[a]
		rb, bKnown := rank[b]
		switch {
		case aKnown && bKnown:
			return ra < rb
		case aKnown != bKnown:
			return aKnown
		}
		return a < b
	})

	groups := make([]ExerciseGroup, len(names))
	for i, g := range names {
		groups[i] = ExerciseGroup{MuscleGroup: g, Exercises: byGroup[g]}
	}
	return groups
}
