package api

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// Stubs embed the service interface and override only what a test calls.
// Calling anything else panics on the nil embedded interface.

type stubAuth struct {
	service.AuthService
	staff    *domain.Staff
	token    string
	loginErr error
}

func (s *stubAuth) Login(_ context.Context, email, password string) (string, *domain.Staff, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return s.token, s.staff, nil
}

func (s *stubAuth) CurrentStaff(_ context.Context, id primitive.ObjectID) (*domain.Staff, error) {
	if s.staff == nil || s.staff.ID != id {
		return nil, service.ErrStaffNotFound
	}
	return s.staff, nil
}

type stubMembers struct {
	service.MemberService
	created *service.MemberInput
}

func (s *stubMembers) CreateMember(_ context.Context, in service.MemberInput) (*domain.Member, error) {
	s.created = &in
	return &domain.Member{ID: primitive.NewObjectID(), Name: in.Name, BirthDate: in.BirthDate, Status: domain.MemberActive}, nil
}

type stubMembership struct {
	service.MembershipService
	threshold int
	sale      *service.SaleInput
}

func (s *stubMembership) ExpiringMemberships(_ context.Context, threshold int) ([]service.MembershipView, error) {
	s.threshold = threshold
	return []service.MembershipView{}, nil
}

func (s *stubMembership) CreateMembership(_ context.Context, in service.SaleInput) (*service.MembershipView, error) {
	s.sale = &in
	start := domain.DateOf(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	return &service.MembershipView{
		MembershipDetails: domain.MembershipDetails{Membership: domain.Membership{
			ID:        primitive.NewObjectID(),
			MemberID:  in.MemberID,
			PlanID:    &in.PlanID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 29),
			Status:    domain.MembershipActive,
			CreatedBy: in.CreatedBy,
		}},
		Temporal: lifecycle.StatusView{Status: lifecycle.StatusActive, DaysLeft: 29, Label: "29 days left"},
	}, nil
}

type stubTrainers struct {
	service.TrainerService
	assignErr error
	asked     primitive.ObjectID
}

func (s *stubTrainers) AssignTrainer(_ context.Context, memberID, trainerID primitive.ObjectID) (*domain.TrainerMember, error) {
	if s.assignErr != nil {
		return nil, s.assignErr
	}
	return &domain.TrainerMember{ID: primitive.NewObjectID(), MemberID: memberID, TrainerID: trainerID}, nil
}

func (s *stubTrainers) MembersForTrainer(_ context.Context, trainerID primitive.ObjectID) (*lifecycle.Summary, error) {
	s.asked = trainerID
	return &lifecycle.Summary{Members: []lifecycle.MemberStanding{}}, nil
}

type stubTraining struct {
	service.TrainingService
	created *service.SessionInput
}

func (s *stubTraining) CreateSession(_ context.Context, in service.SessionInput) (*domain.SessionDetails, error) {
	s.created = &in
	return &domain.SessionDetails{TrainingSession: domain.TrainingSession{
		ID:        primitive.NewObjectID(),
		MemberID:  in.MemberID,
		TrainerID: in.TrainerID,
		Date:      domain.DateOf(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
	}}, nil
}

type stubDashboard struct {
	service.DashboardService
	err error
}

func (s *stubDashboard) Stats(context.Context) (*service.DashboardStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.DashboardStats{ActiveMembers: 3, ThresholdDays: 7}, nil
}

func newTestRouter(svc Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, testSecret, zap.NewNop(), svc)
	return router
}

func tokenFor(t *testing.T, id primitive.ObjectID, role domain.Role, ttl time.Duration) string {
	t.Helper()
	claims := service.Claims{
		StaffID: id.Hex(),
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    service.TokenIssuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

// doRequestWithHeader sends a GET with a raw Authorization header when header is set,
// otherwise with the bearer token when token is set.
func doRequestWithHeader(t *testing.T, router http.Handler, path, header, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	switch {
	case header != "":
		req.Header.Set("Authorization", header)
	case token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
