package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/repository"
	"bunker/gym-admin/internal/storage"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MemberInput carries the editable fields of a member.
type MemberInput struct {
	Name             string              `json:"name" validate:"required,max=200"`
	Email            string              `json:"email" validate:"omitempty,email"`
	Phone            string              `json:"phone" validate:"max=50"`
	EmergencyContact string              `json:"emergencyContact" validate:"max=200"`
	BirthDate        *time.Time          `json:"birthDate"`
	Notes            string              `json:"notes"`
	Status           domain.MemberStatus `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// MemberProfile is everything the member detail page shows.
type MemberProfile struct {
	lifecycle.MemberStanding
	Memberships []domain.MembershipDetails `json:"memberships"` // Newest first
	Trainer     *domain.Staff              `json:"trainer,omitempty"`
}

type MemberService interface {
	CreateMember(ctx context.Context, in MemberInput) (*domain.Member, error)
	GetMember(ctx context.Context, id primitive.ObjectID) (*MemberProfile, error)
	// ListMembers returns members ordered by name with their current membership.
	ListMembers(ctx context.Context, filter repository.MemberFilter) (*lifecycle.Summary, error)
	UpdateMember(ctx context.Context, id primitive.ObjectID, in MemberInput) (*domain.Member, error)
	// DeleteMember removes the member with memberships, sessions, trainer link and photo.
	DeleteMember(ctx context.Context, id primitive.ObjectID) error

	PhotoUploadURL(ctx context.Context, id primitive.ObjectID, contentType string) (*UploadTicket, error)
	ConfirmPhoto(ctx context.Context, id primitive.ObjectID, key string) (*domain.Member, error)
	PhotoURL(ctx context.Context, id primitive.ObjectID) (string, error)
}

// memberService implements the MemberService interface.
type memberService struct {
	memberRepo     repository.MemberRepository
	membershipRepo repository.MembershipRepository
	sessionRepo    repository.TrainingSessionRepository
	linkRepo       repository.TrainerMemberRepository
	staffRepo      repository.StaffRepository
	files          storage.FileStorage
	engine         *lifecycle.Engine
	presignExpiry  time.Duration
	logger         *zap.Logger
}

// NewMemberService creates a new instance of memberService.
func NewMemberService(
	memberRepo repository.MemberRepository,
	membershipRepo repository.MembershipRepository,
	sessionRepo repository.TrainingSessionRepository,
	linkRepo repository.TrainerMemberRepository,
	staffRepo repository.StaffRepository,
	files storage.FileStorage,
	engine *lifecycle.Engine,
	presignExpiry time.Duration,
	logger *zap.Logger,
) MemberService {
	return &memberService{
		memberRepo:     memberRepo,
		membershipRepo: membershipRepo,
		sessionRepo:    sessionRepo,
		linkRepo:       linkRepo,
		staffRepo:      staffRepo,
		files:          files,
		engine:         engine,
		presignExpiry:  presignExpiry,
		logger:         logger,
	}
}

func (s *memberService) CreateMember(ctx context.Context, in MemberInput) (*domain.Member, error) {
	in = normalizeMemberInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	member := &domain.Member{
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		EmergencyContact: in.EmergencyContact,
		BirthDate:        in.BirthDate,
		Notes:            in.Notes,
		Status:           in.Status,
	}
	if member.Status == "" {
		member.Status = domain.MemberActive
	}

	id, err := s.memberRepo.Create(ctx, member)
	if err != nil {
		return nil, err
	}
	member.ID = id
	return member, nil
}

func (s *memberService) GetMember(ctx context.Context, id primitive.ObjectID) (*MemberProfile, error) {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}

	memberships, err := s.membershipRepo.List(ctx, repository.MembershipFilter{MemberIDs: []primitive.ObjectID{id}})
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}

	profile := &MemberProfile{
		MemberStanding: s.engine.Standing(domain.MemberWithMemberships{Member: *member, Memberships: memberships}, -1),
		Memberships:    memberships,
	}

	link, err := s.linkRepo.GetByMember(ctx, id)
	switch {
	case err == nil:
		trainer, err := s.staffRepo.GetByID(ctx, link.TrainerID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load trainer: %w", err)
		}
		if trainer != nil {
			trainer.PasswordHash = ""
			profile.Trainer = trainer
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("load trainer link: %w", err)
	}
	return profile, nil
}

func (s *memberService) ListMembers(ctx context.Context, filter repository.MemberFilter) (*lifecycle.Summary, error) {
	members, err := s.memberRepo.List(ctx, filter)
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

func (s *memberService) UpdateMember(ctx context.Context, id primitive.ObjectID, in MemberInput) (*domain.Member, error) {
	in = normalizeMemberInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	member, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}
	member.Name = in.Name
	member.Email = in.Email
	member.Phone = in.Phone
	member.EmergencyContact = in.EmergencyContact
	member.BirthDate = in.BirthDate
	member.Notes = in.Notes
	if in.Status != "" {
		member.Status = in.Status
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// DeleteMember removes dependents first so a failed step leaves the member in
// place and the delete can be retried.
func (s *memberService) DeleteMember(ctx context.Context, id primitive.ObjectID) error {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.sessionRepo.DeleteByMember(ctx, id); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if _, err := s.membershipRepo.DeleteByMember(ctx, id); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if _, err := s.linkRepo.DeleteByMember(ctx, id); err != nil {
		return fmt.Errorf("delete trainer link: %w", err)
	}
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if member.PhotoKey != "" {
		if err := s.files.DeleteObject(ctx, member.PhotoKey); err != nil {
			s.logger.Warn("orphaned member photo", zap.String("memberId", id.Hex()), zap.String("key", member.PhotoKey), zap.Error(err))
		}
	}
	s.logger.Info("member deleted", zap.String("memberId", id.Hex()))
	return nil
}

func (s *memberService) PhotoUploadURL(ctx context.Context, id primitive.ObjectID, contentType string) (*UploadTicket, error) {
	if _, err := s.getMember(ctx, id); err != nil {
		return nil, err
	}
	return issueUpload(ctx, s.files, s.presignExpiry, func() (string, error) {
		return storage.MemberPhotoKey(id, contentType)
	}, contentType)
}

// ConfirmPhoto records an uploaded photo and removes the one it replaces.
func (s *memberService) ConfirmPhoto(ctx context.Context, id primitive.ObjectID, key string) (*domain.Member, error) {
	if !storage.IsMemberPhotoKey(id, key) {
		return nil, ErrForeignUpload
	}
	member, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := member.PhotoKey

	if err := s.memberRepo.SetPhotoKey(ctx, id, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	member.PhotoKey = key

	if previous != "" && previous != key {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("failed to delete replaced photo", zap.String("key", previous), zap.Error(err))
		}
	}
	return member, nil
}

func (s *memberService) PhotoURL(ctx context.Context, id primitive.ObjectID) (string, error) {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return "", err
	}
	if member.PhotoKey == "" {
		return "", ErrPhotoNotFound
	}
	return s.files.GeneratePresignedDownloadURL(ctx, member.PhotoKey, s.presignExpiry)
}

func (s *memberService) getMember(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func normalizeMemberInput(in MemberInput) MemberInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.BirthDate != nil {
		d := domain.DateOf(*in.BirthDate)
		in.BirthDate = &d
	}
	return in
}

// attachMemberships loads the memberships of all members in one query and
// groups them per member, preserving member order.
func attachMemberships(ctx context.Context, repo repository.MembershipRepository, members []domain.Member) ([]domain.MemberWithMemberships, error) {
	out := make([]domain.MemberWithMemberships, len(members))
	if len(members) == 0 {
		return out, nil
	}

	ids := make([]primitive.ObjectID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	rows, err := repo.List(ctx, repository.MembershipFilter{MemberIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}

	byMember := make(map[primitive.ObjectID][]domain.MembershipDetails, len(members))
	for _, row := range rows {
		byMember[row.MemberID] = append(byMember[row.MemberID], row)
	}
	for i, m := range members {
		out[i] = domain.MemberWithMemberships{Member: m, Memberships: byMember[m.ID]}
	}
	return out, nil
}
