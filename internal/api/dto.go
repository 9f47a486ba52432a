package api

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/service"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Calendar dates travel as YYYY-MM-DD strings; timestamps stay RFC 3339.

// parseOptionalDate parses a YYYY-MM-DD field. An empty string means unset.
func parseOptionalDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", service.ErrInvalidDate, field)
	}
	return &d, nil
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDate(*t)
	return &s
}

func hexOrNil(id *primitive.ObjectID) *string {
	if id == nil || id.IsZero() {
		return nil
	}
	s := id.Hex()
	return &s
}

// --- Staff ---

// StaffResponse excludes the password hash.
type StaffResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      domain.Role    `json:"role"`
	AvatarURL string         `json:"avatarUrl,omitempty"`
	Panels    []domain.Panel `json:"panels"`
	CreatedAt time.Time      `json:"createdAt"`
}

func MapStaffToResponse(s *domain.Staff) StaffResponse {
	if s == nil {
		return StaffResponse{}
	}
	return StaffResponse{
		ID:        s.ID.Hex(),
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.Role,
		AvatarURL: s.AvatarURL,
		Panels:    s.Panels(),
		CreatedAt: s.CreatedAt,
	}
}

func MapStaffListToResponse(staff []domain.Staff) []StaffResponse {
	out := make([]StaffResponse, len(staff))
	for i := range staff {
		out[i] = MapStaffToResponse(&staff[i])
	}
	return out
}

// --- Members ---

// MemberRequest is the body of member create and update.
type MemberRequest struct {
	Name             string              `json:"name"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	EmergencyContact string              `json:"emergencyContact"`
	BirthDate        string              `json:"birthDate"` // YYYY-MM-DD
	Notes            string              `json:"notes"`
	Status           domain.MemberStatus `json:"status"`
}

func (r MemberRequest) toInput() (service.MemberInput, error) {
	birth, err := parseOptionalDate("birthDate", r.BirthDate)
	if err != nil {
		return service.MemberInput{}, err
	}
	return service.MemberInput{
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		EmergencyContact: r.EmergencyContact,
		BirthDate:        birth,
		Notes:            r.Notes,
		Status:           r.Status,
	}, nil
}

type MemberResponse struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Email            string              `json:"email,omitempty"`
	Phone            string              `json:"phone,omitempty"`
	EmergencyContact string              `json:"emergencyContact,omitempty"`
	BirthDate        *string             `json:"birthDate,omitempty"`
	HasPhoto         bool                `json:"hasPhoto"`
	Notes            string              `json:"notes,omitempty"`
	Status           domain.MemberStatus `json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func MapMemberToResponse(m *domain.Member) MemberResponse {
	if m == nil {
		return MemberResponse{}
	}
	return MemberResponse{
		ID:               m.ID.Hex(),
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		EmergencyContact: m.EmergencyContact,
		BirthDate:        formatOptionalDate(m.BirthDate),
		HasPhoto:         m.PhotoKey != "",
		Notes:            m.Notes,
		Status:           m.Status,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// MemberRef is the short form of a member embedded in other rows.
type MemberRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func memberRef(m *domain.Member) *MemberRef {
	if m == nil {
		return nil
	}
	return &MemberRef{ID: m.ID.Hex(), Name: m.Name}
}

// StandingResponse is a member with its current membership, if any.
type StandingResponse struct {
	Member            MemberResponse      `json:"member"`
	CurrentMembership *MembershipResponse `json:"currentMembership,omitempty"`
}

func MapStandingToResponse(st lifecycle.MemberStanding) StandingResponse {
	resp := StandingResponse{Member: MapMemberToResponse(&st.Member)}
	if st.Current != nil {
		m := MapMembershipToResponse(*st.Current, st.View)
		resp.CurrentMembership = &m
	}
	return resp
}

// MemberListResponse is a member listing with its validity counts.
type MemberListResponse struct {
	Members             []StandingResponse `json:"members"`
	WithValidMembership int                `json:"withValidMembership"`
	ExpiringSoon        int                `json:"expiringSoon"`
	StaleActive         int                `json:"staleActive"`
	WithoutMembership   int                `json:"withoutMembership"`
}

func MapSummaryToResponse(s *lifecycle.Summary) MemberListResponse {
	resp := MemberListResponse{Members: make([]StandingResponse, 0, len(s.Members))}
	for _, st := range s.Members {
		resp.Members = append(resp.Members, MapStandingToResponse(st))
	}
	resp.WithValidMembership = s.WithValidMembership
	resp.ExpiringSoon = s.ExpiringSoon
	resp.StaleActive = s.StaleActive
	resp.WithoutMembership = s.WithoutMembership
	return resp
}

// MemberProfileResponse is the member detail page.
type MemberProfileResponse struct {
	StandingResponse
	Memberships []MembershipResponse `json:"memberships"`
	Trainer     *StaffResponse       `json:"trainer,omitempty"`
}

func MapProfileToResponse(p *service.MemberProfile) MemberProfileResponse {
	resp := MemberProfileResponse{
		StandingResponse: MapStandingToResponse(p.MemberStanding),
		Memberships:      make([]MembershipResponse, len(p.Memberships)),
	}
	for i, m := range p.Memberships {
		resp.Memberships[i] = MapMembershipToResponse(m, nil)
	}
	if p.Trainer != nil {
		t := MapStaffToResponse(p.Trainer)
		resp.Trainer = &t
	}
	return resp
}

// --- Memberships ---

// SaleRequest is the body of membership create and renew.
type SaleRequest struct {
	MemberID      primitive.ObjectID   `json:"memberId"`
	PlanID        primitive.ObjectID   `json:"planId"`
	StartDate     string               `json:"startDate"` // YYYY-MM-DD, defaults to today
	AmountPaid    *float64             `json:"amountPaid"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Notes         string               `json:"notes"`
}

func (r SaleRequest) toInput(createdBy primitive.ObjectID) (service.SaleInput, error) {
	start, err := parseOptionalDate("startDate", r.StartDate)
	if err != nil {
		return service.SaleInput{}, err
	}
	in := service.SaleInput{
		MemberID:      r.MemberID,
		PlanID:        r.PlanID,
		StartDate:     start,
		AmountPaid:    r.AmountPaid,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
	if !createdBy.IsZero() {
		in.CreatedBy = &createdBy
	}
	return in, nil
}

type MembershipResponse struct {
	ID            string                  `json:"id"`
	MemberID      string                  `json:"memberId"`
	PlanID        *string                 `json:"planId,omitempty"`
	StartDate     string                  `json:"startDate"`
	EndDate       string                  `json:"endDate"`
	AmountPaid    float64                 `json:"amountPaid"`
	PaymentMethod domain.PaymentMethod    `json:"paymentMethod,omitempty"`
	Status        domain.MembershipStatus `json:"status"`
	Notes         string                  `json:"notes,omitempty"`
	CreatedBy     *string                 `json:"createdBy,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	Plan          *domain.MembershipPlan  `json:"plan,omitempty"`
	Member        *MemberRef              `json:"member,omitempty"`
	Temporal      *lifecycle.StatusView   `json:"temporal,omitempty"`
}

func MapMembershipToResponse(d domain.MembershipDetails, view *lifecycle.StatusView) MembershipResponse {
	return MembershipResponse{
		ID:            d.ID.Hex(),
		MemberID:      d.MemberID.Hex(),
		PlanID:        hexOrNil(d.PlanID),
		StartDate:     domain.FormatDate(d.StartDate),
		EndDate:       domain.FormatDate(d.EndDate),
		AmountPaid:    d.AmountPaid,
		PaymentMethod: d.PaymentMethod,
		Status:        d.Status,
		Notes:         d.Notes,
		CreatedBy:     hexOrNil(d.CreatedBy),
		CreatedAt:     d.CreatedAt,
		Plan:          d.Plan,
		Member:        memberRef(d.Member),
		Temporal:      view,
	}
}

func MapMembershipViewToResponse(v *service.MembershipView) MembershipResponse {
	view := v.Temporal
	return MapMembershipToResponse(v.MembershipDetails, &view)
}

func MapMembershipViewsToResponse(views []service.MembershipView) []MembershipResponse {
	out := make([]MembershipResponse, len(views))
	for i := range views {
		out[i] = MapMembershipViewToResponse(&views[i])
	}
	return out
}

// --- Training sessions ---

// SessionRequest is the body of session create.
type SessionRequest struct {
	MemberID  primitive.ObjectID             `json:"memberId"`
	TrainerID *primitive.ObjectID            `json:"trainerId"`
	Date      string                         `json:"date"` // YYYY-MM-DD, defaults to today
	Notes     string                         `json:"notes"`
	Exercises []service.SessionExerciseInput `json:"exercises"`
}

func (r SessionRequest) toInput() (service.SessionInput, error) {
	date, err := parseOptionalDate("date", r.Date)
	if err != nil {
		return service.SessionInput{}, err
	}
	return service.SessionInput{
		MemberID:  r.MemberID,
		TrainerID: r.TrainerID,
		Date:      date,
		Notes:     r.Notes,
		Exercises: r.Exercises,
	}, nil
}

type SessionResponse struct {
	ID        string                   `json:"id"`
	MemberID  string                   `json:"memberId"`
	TrainerID *string                  `json:"trainerId,omitempty"`
	Date      string                   `json:"date"`
	Notes     string                   `json:"notes,omitempty"`
	CreatedAt time.Time                `json:"createdAt"`
	Member    *MemberRef               `json:"member,omitempty"`
	Trainer   *StaffResponse           `json:"trainer,omitempty"`
	Exercises []domain.SessionExercise `json:"exercises,omitempty"`
}

func MapSessionToResponse(s *domain.SessionDetails) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID.Hex(),
		MemberID:  s.MemberID.Hex(),
		TrainerID: hexOrNil(s.TrainerID),
		Date:      domain.FormatDate(s.Date),
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		Member:    memberRef(s.Member),
		Exercises: s.Exercises,
	}
	if s.Trainer != nil {
		t := MapStaffToResponse(s.Trainer)
		resp.Trainer = &t
	}
	return resp
}

func MapSessionsToResponse(sessions []domain.SessionDetails) []SessionResponse {
	out := make([]SessionResponse, len(sessions))
	for i := range sessions {
		out[i] = MapSessionToResponse(&sessions[i])
	}
	return out
}

// --- Dashboard ---

type DashboardResponse struct {
	ActiveMembers        int64                `json:"activeMembers"`
	ActiveMemberships    int64                `json:"activeMemberships"`
	MembersWithValidPlan int                  `json:"membersWithValidPlan"`
	StaleActive          int                  `json:"staleActive"`
	MonthRevenue         float64              `json:"monthRevenue"`
	ExpiringSoon         []MembershipResponse `json:"expiringSoon"`
	TodaySessions        int64                `json:"todaySessions"`
	ThresholdDays        int                  `json:"thresholdDays"`
	GeneratedAt          time.Time            `json:"generatedAt"`
}

func MapDashboardToResponse(s *service.DashboardStats) DashboardResponse {
	return DashboardResponse{
		ActiveMembers:        s.ActiveMembers,
		ActiveMemberships:    s.ActiveMemberships,
		MembersWithValidPlan: s.MembersWithValidPlan,
		StaleActive:          s.StaleActive,
		MonthRevenue:         s.MonthRevenue,
		ExpiringSoon:         MapMembershipViewsToResponse(s.ExpiringSoon),
		TodaySessions:        s.TodaySessions,
		ThresholdDays:        s.ThresholdDays,
		GeneratedAt:          s.GeneratedAt,
	}
}

// --- Uploads ---

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	Key string `json:"key" binding:"required"`
}

// DownloadURLResponse carries a short-lived presigned GET URL.
type DownloadURLResponse struct {
	URL string `json:"url"`
}
