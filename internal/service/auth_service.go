package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrStaffAlreadyExists   = errors.New("staff member with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// TokenIssuer is the JWT issuer claim.
const TokenIssuer = "gym-admin"

// RegisterInput is a new staff account.
type RegisterInput struct {
	Name      string      `json:"name" validate:"required,max=200"`
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=8"`
	Role      domain.Role `json:"role" validate:"required,oneof=admin trainer"`
	AvatarURL string      `json:"avatarUrl" validate:"omitempty,url"`
}

// Claims is the JWT payload shared with the HTTP middleware.
type Claims struct {
	StaffID string      `json:"uid"`
	Role    domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Staff, error)
	Login(ctx context.Context, email, password string) (token string, staff *domain.Staff, err error)
	// CurrentStaff resolves the staff record behind a verified token.
	CurrentStaff(ctx context.Context, staffID primitive.ObjectID) (*domain.Staff, error)
	ListStaff(ctx context.Context, role domain.Role) ([]domain.Staff, error)
	// EnsureAdmin registers an admin account unless one with that email exists.
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Staff, error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	staffRepo     repository.StaffRepository
	jwtSecret     string
	jwtExpiration time.Duration
	logger        *zap.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(staffRepo repository.StaffRepository, jwtSecret string, jwtExpiration time.Duration, logger *zap.Logger) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		staffRepo:     staffRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		logger:        logger,
	}
}

// Register creates a staff account with a bcrypt-hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.Staff, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	_, err := s.staffRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrStaffAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	staff := &domain.Staff{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		Role:         in.Role,
		AvatarURL:    in.AvatarURL,
	}

	staffID, err := s.staffRepo.Create(ctx, staff)
	if err != nil {
		// Lost a race against another registration with the same email.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrStaffAlreadyExists
		}
		return nil, err
	}
	staff.ID = staffID

	s.logger.Info("staff registered", zap.String("staffId", staffID.Hex()), zap.String("role", string(in.Role)))
	staff.PasswordHash = ""
	return staff, nil
}

// Login checks the credentials and issues a signed JWT.
func (s *authService) Login(ctx context.Context, email, password string) (token string, staff *domain.Staff, err error) {
	if email == "" || password == "" {
		return "", nil, invalid("credentials", "email and password are required")
	}

	staff, err = s.staffRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(staff)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	staff.PasswordHash = ""
	return token, staff, nil
}

// CurrentStaff loads the staff record of an authenticated request.
func (s *authService) CurrentStaff(ctx context.Context, staffID primitive.ObjectID) (*domain.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	staff.PasswordHash = ""
	return staff, nil
}

// ListStaff returns staff of one role, or of every role when role is empty.
func (s *authService) ListStaff(ctx context.Context, role domain.Role) ([]domain.Staff, error) {
	roles := []domain.Role{role}
	if role == "" {
		roles = []domain.Role{domain.RoleAdmin, domain.RoleTrainer}
	} else if !role.Valid() {
		return nil, invalid("role", "must be one of: admin trainer")
	}

	out := []domain.Staff{}
	for _, r := range roles {
		staff, err := s.staffRepo.ListByRole(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("list %s staff: %w", r, err)
		}
		for i := range staff {
			staff[i].PasswordHash = ""
		}
		out = append(out, staff...)
	}
	return out, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Staff, error) {
	existing, err := s.staffRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		existing.PasswordHash = ""
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.Register(ctx, RegisterInput{Name: name, Email: email, Password: password, Role: domain.RoleAdmin})
}

// --- JWT Helper ---

// generateJWT creates a new JWT token for the given staff member.
func (s *authService) generateJWT(staff *domain.Staff) (string, error) {
	now := time.Now()
	claims := &Claims{
		StaffID: staff.ID.Hex(),
		Role:    staff.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
