package repository

import (
	"bunker/gym-admin/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrConflict     = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// StaffRepository stores staff accounts.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Staff, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Staff, error) // Ordered by name
}

// MemberFilter narrows member listings. Zero values match everything.
type MemberFilter struct {
	IDs    []primitive.ObjectID
	Status domain.MemberStatus
	Search string // Case-insensitive substring of the name
}

// MemberRepository stores gym members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	List(ctx context.Context, filter MemberFilter) ([]domain.Member, error) // Ordered by name
	Update(ctx context.Context, member *domain.Member) error
	SetPhotoKey(ctx context.Context, id primitive.ObjectID, key string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, filter MemberFilter) (int64, error)
}

// MembershipPlanRepository stores sellable plans.
type MembershipPlanRepository interface {
	Create(ctx context.Context, plan *domain.MembershipPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPlan, error)
	List(ctx context.Context, activeOnly bool) ([]domain.MembershipPlan, error) // Ordered by price
	Update(ctx context.Context, plan *domain.MembershipPlan) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// MembershipFilter narrows membership listings. Zero values match everything.
type MembershipFilter struct {
	MemberIDs []primitive.ObjectID
	Status    domain.MembershipStatus
	EndFrom   *time.Time // Inclusive
	EndTo     *time.Time // Inclusive
}

// MembershipRepository stores membership periods. Reads join the plan and member.
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipDetails, error)
	List(ctx context.Context, filter MembershipFilter) ([]domain.MembershipDetails, error) // Newest first
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MembershipStatus) error
	Count(ctx context.Context, filter MembershipFilter) (int64, error)
	CountByPlan(ctx context.Context, planID primitive.ObjectID) (int64, error)
	SumAmountCreatedBetween(ctx context.Context, from, to time.Time) (float64, error) // [from, to)
	DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error)
}

// ExerciseRepository stores the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error) // Ordered by name
	Update(ctx context.Context, exercise *domain.Exercise) error
	SetVideoKey(ctx context.Context, id primitive.ObjectID, key string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoutineRepository stores routine templates and their ordered lines.
type RoutineRepository interface {
	Create(ctx context.Context, template *domain.RoutineTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineTemplate, error)
	List(ctx context.Context) ([]domain.RoutineTemplate, error) // Ordered by name
	Update(ctx context.Context, template *domain.RoutineTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	CreateExercises(ctx context.Context, lines []domain.RoutineTemplateExercise) error
	ListExercises(ctx context.Context, templateID primitive.ObjectID) ([]domain.RoutineTemplateExercise, error) // By orderIndex, exercise joined
	DeleteExercises(ctx context.Context, templateID primitive.ObjectID) (int64, error)
}

// SessionFilter narrows training session listings. Zero values match everything.
type SessionFilter struct {
	Date      *time.Time
	MemberID  *primitive.ObjectID
	TrainerID *primitive.ObjectID
}

// TrainingSessionRepository stores logged sessions and what was done in them.
type TrainingSessionRepository interface {
	Create(ctx context.Context, session *domain.TrainingSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionDetails, error) // Member and trainer joined, no exercises
	List(ctx context.Context, filter SessionFilter) ([]domain.SessionDetails, error)   // Date desc
	Count(ctx context.Context, filter SessionFilter) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) // Exercises first

	CreateExercises(ctx context.Context, items []domain.SessionExercise) error
	ListExercises(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) // By orderIndex, exercise joined
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error)
	UpdateExercise(ctx context.Context, item *domain.SessionExercise) error
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error
	DeleteExercises(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
}

// TrainerMemberRepository stores the 0..1 trainer link of each member.
type TrainerMemberRepository interface {
	// Upsert replaces whatever link the member has with link in one write.
	Upsert(ctx context.Context, link *domain.TrainerMember) error
	GetByMember(ctx context.Context, memberID primitive.ObjectID) (*domain.TrainerMember, error)
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerMember, error)
	DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error)
}
