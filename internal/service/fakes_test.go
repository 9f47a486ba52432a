package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/repository"
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- MOCKS ---
// memStore is the shared state behind the in-memory repositories. Calls
// records every mutating call in order so cascades can be asserted.
type memStore struct {
	staff           map[primitive.ObjectID]domain.Staff
	members         map[primitive.ObjectID]domain.Member
	plans           map[primitive.ObjectID]domain.MembershipPlan
	memberships     []domain.Membership
	exercises       map[primitive.ObjectID]domain.Exercise
	routines        map[primitive.ObjectID]domain.RoutineTemplate
	routineLines    []domain.RoutineTemplateExercise
	sessions        map[primitive.ObjectID]domain.TrainingSession
	sessionItems    []domain.SessionExercise
	links           []domain.TrainerMember
	calls           []string
	tick            time.Time
	errOn           map[string]error
	membershipLists int
}

func newMemStore() *memStore {
	return &memStore{
		staff:     map[primitive.ObjectID]domain.Staff{},
		members:   map[primitive.ObjectID]domain.Member{},
		plans:     map[primitive.ObjectID]domain.MembershipPlan{},
		exercises: map[primitive.ObjectID]domain.Exercise{},
		routines:  map[primitive.ObjectID]domain.RoutineTemplate{},
		sessions:  map[primitive.ObjectID]domain.TrainingSession{},
		tick:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		errOn:     map[string]error{},
	}
}

// record logs a call and returns the error injected for it, if any.
func (s *memStore) record(call string) error {
	s.calls = append(s.calls, call)
	return s.errOn[call]
}

// now hands out strictly increasing timestamps.
func (s *memStore) now() time.Time {
	s.tick = s.tick.Add(time.Minute)
	return s.tick
}

type fakeStaffRepo struct{ *memStore }

func (r fakeStaffRepo) Create(ctx context.Context, staff *domain.Staff) (primitive.ObjectID, error) {
	if err := r.record("staff.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	for _, existing := range r.staff {
		if existing.Email == staff.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	staff.ID = primitive.NewObjectID()
	staff.CreatedAt = r.now()
	r.staff[staff.ID] = *staff
	return staff.ID, nil
}

func (r fakeStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	for _, s := range r.staff {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeStaffRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Staff, error) {
	s, ok := r.staff[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r fakeStaffRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.Staff, error) {
	out := []domain.Staff{}
	for _, s := range r.staff {
		if s.Role == role {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeMemberRepo struct{ *memStore }

func (r fakeMemberRepo) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if err := r.record("members.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	member.ID = primitive.NewObjectID()
	member.CreatedAt = r.now()
	member.UpdatedAt = member.CreatedAt
	r.members[member.ID] = *member
	return member.ID, nil
}

func (r fakeMemberRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r fakeMemberRepo) List(ctx context.Context, filter repository.MemberFilter) ([]domain.Member, error) {
	if err := r.errOn["members.List"]; err != nil {
		return nil, err
	}
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range filter.IDs {
		wanted[id] = true
	}
	out := []domain.Member{}
	for _, m := range r.members {
		if len(wanted) > 0 && !wanted[m.ID] {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	if err := r.record("members.Update"); err != nil {
		return err
	}
	if _, ok := r.members[member.ID]; !ok {
		return repository.ErrNotFound
	}
	r.members[member.ID] = *member
	return nil
}

func (r fakeMemberRepo) SetPhotoKey(ctx context.Context, id primitive.ObjectID, key string) error {
	if err := r.record("members.SetPhotoKey"); err != nil {
		return err
	}
	m, ok := r.members[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.PhotoKey = key
	r.members[id] = m
	return nil
}

func (r fakeMemberRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := r.record("members.Delete"); err != nil {
		return err
	}
	if _, ok := r.members[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

func (r fakeMemberRepo) Count(ctx context.Context, filter repository.MemberFilter) (int64, error) {
	members, err := r.List(ctx, filter)
	return int64(len(members)), err
}

type fakePlanRepo struct{ *memStore }

func (r fakePlanRepo) Create(ctx context.Context, plan *domain.MembershipPlan) (primitive.ObjectID, error) {
	if err := r.record("plans.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = r.now()
	r.plans[plan.ID] = *plan
	return plan.ID, nil
}

func (r fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r fakePlanRepo) List(ctx context.Context, activeOnly bool) ([]domain.MembershipPlan, error) {
	out := []domain.MembershipPlan{}
	for _, p := range r.plans {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (r fakePlanRepo) Update(ctx context.Context, plan *domain.MembershipPlan) error {
	if err := r.record("plans.Update"); err != nil {
		return err
	}
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	r.plans[plan.ID] = *plan
	return nil
}

func (r fakePlanRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	if err := r.record("plans.SetActive"); err != nil {
		return err
	}
	p, ok := r.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = active
	r.plans[id] = p
	return nil
}

type fakeMembershipRepo struct{ *memStore }

func (r fakeMembershipRepo) Create(ctx context.Context, m *domain.Membership) (primitive.ObjectID, error) {
	if err := r.record("memberships.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	m.ID = primitive.NewObjectID()
	m.CreatedAt = r.now()
	r.memberships = append(r.memberships, *m)
	return m.ID, nil
}

func (r fakeMembershipRepo) details(m domain.Membership) domain.MembershipDetails {
	d := domain.MembershipDetails{Membership: m}
	if m.PlanID != nil {
		if p, ok := r.plans[*m.PlanID]; ok {
			d.Plan = &p
		}
	}
	if member, ok := r.members[m.MemberID]; ok {
		d.Member = &member
	}
	return d
}

func (r fakeMembershipRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipDetails, error) {
	for _, m := range r.memberships {
		if m.ID == id {
			d := r.details(m)
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeMembershipRepo) List(ctx context.Context, filter repository.MembershipFilter) ([]domain.MembershipDetails, error) {
	r.membershipLists++
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range filter.MemberIDs {
		wanted[id] = true
	}
	out := []domain.MembershipDetails{}
	for _, m := range r.memberships {
		if len(wanted) > 0 && !wanted[m.MemberID] {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.EndFrom != nil && m.EndDate.Before(*filter.EndFrom) {
			continue
		}
		if filter.EndTo != nil && m.EndDate.After(*filter.EndTo) {
			continue
		}
		out = append(out, r.details(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r fakeMembershipRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MembershipStatus) error {
	if err := r.record("memberships.UpdateStatus"); err != nil {
		return err
	}
	for i := range r.memberships {
		if r.memberships[i].ID == id {
			r.memberships[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r fakeMembershipRepo) Count(ctx context.Context, filter repository.MembershipFilter) (int64, error) {
	rows, err := r.List(ctx, filter)
	return int64(len(rows)), err
}

func (r fakeMembershipRepo) CountByPlan(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	var n int64
	for _, m := range r.memberships {
		if m.PlanID != nil && *m.PlanID == planID {
			n++
		}
	}
	return n, nil
}

func (r fakeMembershipRepo) SumAmountCreatedBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var sum float64
	for _, m := range r.memberships {
		if !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			sum += m.AmountPaid
		}
	}
	return sum, nil
}

func (r fakeMembershipRepo) DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	if err := r.record("memberships.DeleteByMember"); err != nil {
		return 0, err
	}
	kept := r.memberships[:0]
	var n int64
	for _, m := range r.memberships {
		if m.MemberID == memberID {
			n++
			continue
		}
		kept = append(kept, m)
	}
	r.memberships = kept
	return n, nil
}

type fakeExerciseRepo struct{ *memStore }

func (r fakeExerciseRepo) Create(ctx context.Context, e *domain.Exercise) (primitive.ObjectID, error) {
	if err := r.record("exercises.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	e.ID = primitive.NewObjectID()
	e.CreatedAt = r.now()
	r.exercises[e.ID] = *e
	return e.ID, nil
}

func (r fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r fakeExerciseRepo) List(ctx context.Context) ([]domain.Exercise, error) {
	out := []domain.Exercise{}
	for _, e := range r.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeExerciseRepo) Update(ctx context.Context, e *domain.Exercise) error {
	if err := r.record("exercises.Update"); err != nil {
		return err
	}
	if _, ok := r.exercises[e.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[e.ID] = *e
	return nil
}

func (r fakeExerciseRepo) SetVideoKey(ctx context.Context, id primitive.ObjectID, key string) error {
	if err := r.record("exercises.SetVideoKey"); err != nil {
		return err
	}
	e, ok := r.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.VideoKey = key
	r.exercises[id] = e
	return nil
}

func (r fakeExerciseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := r.record("exercises.Delete"); err != nil {
		return err
	}
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakeRoutineRepo struct{ *memStore }

func (r fakeRoutineRepo) Create(ctx context.Context, t *domain.RoutineTemplate) (primitive.ObjectID, error) {
	if err := r.record("routines.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	t.ID = primitive.NewObjectID()
	t.CreatedAt = r.now()
	r.routines[t.ID] = *t
	return t.ID, nil
}

func (r fakeRoutineRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineTemplate, error) {
	t, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r fakeRoutineRepo) List(ctx context.Context) ([]domain.RoutineTemplate, error) {
	out := []domain.RoutineTemplate{}
	for _, t := range r.routines {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeRoutineRepo) Update(ctx context.Context, t *domain.RoutineTemplate) error {
	if err := r.record("routines.Update"); err != nil {
		return err
	}
	if _, ok := r.routines[t.ID]; !ok {
		return repository.ErrNotFound
	}
	r.routines[t.ID] = *t
	return nil
}

func (r fakeRoutineRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := r.record("routines.Delete"); err != nil {
		return err
	}
	if _, ok := r.routines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.routines, id)
	return nil
}

func (r fakeRoutineRepo) CreateExercises(ctx context.Context, lines []domain.RoutineTemplateExercise) error {
	if err := r.record("routines.CreateExercises"); err != nil {
		return err
	}
	for _, l := range lines {
		l.ID = primitive.NewObjectID()
		r.routineLines = append(r.routineLines, l)
	}
	return nil
}

func (r fakeRoutineRepo) ListExercises(ctx context.Context, templateID primitive.ObjectID) ([]domain.RoutineTemplateExercise, error) {
	out := []domain.RoutineTemplateExercise{}
	for _, l := range r.routineLines {
		if l.TemplateID == templateID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r fakeRoutineRepo) DeleteExercises(ctx context.Context, templateID primitive.ObjectID) (int64, error) {
	if err := r.record("routines.DeleteExercises"); err != nil {
		return 0, err
	}
	kept := r.routineLines[:0]
	var n int64
	for _, l := range r.routineLines {
		if l.TemplateID == templateID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.routineLines = kept
	return n, nil
}

type fakeSessionRepo struct{ *memStore }

func (r fakeSessionRepo) Create(ctx context.Context, s *domain.TrainingSession) (primitive.ObjectID, error) {
	if err := r.record("sessions.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	s.ID = primitive.NewObjectID()
	s.CreatedAt = r.now()
	r.sessions[s.ID] = *s
	return s.ID, nil
}

func (r fakeSessionRepo) details(s domain.TrainingSession) domain.SessionDetails {
	d := domain.SessionDetails{TrainingSession: s}
	if m, ok := r.members[s.MemberID]; ok {
		d.Member = &m
	}
	if s.TrainerID != nil {
		if t, ok := r.staff[*s.TrainerID]; ok {
			t.PasswordHash = ""
			d.Trainer = &t
		}
	}
	return d
}

func (r fakeSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionDetails, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d := r.details(s)
	return &d, nil
}

func (r fakeSessionRepo) List(ctx context.Context, filter repository.SessionFilter) ([]domain.SessionDetails, error) {
	out := []domain.SessionDetails{}
	for _, s := range r.sessions {
		if filter.Date != nil && !s.Date.Equal(*filter.Date) {
			continue
		}
		if filter.MemberID != nil && s.MemberID != *filter.MemberID {
			continue
		}
		if filter.TrainerID != nil && (s.TrainerID == nil || *s.TrainerID != *filter.TrainerID) {
			continue
		}
		out = append(out, r.details(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r fakeSessionRepo) Count(ctx context.Context, filter repository.SessionFilter) (int64, error) {
	rows, err := r.List(ctx, filter)
	return int64(len(rows)), err
}

func (r fakeSessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := r.record("sessions.Delete"); err != nil {
		return err
	}
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r fakeSessionRepo) DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	if err := r.record("sessions.DeleteByMember"); err != nil {
		return 0, err
	}
	var n int64
	for id, s := range r.sessions {
		if s.MemberID == memberID {
			r.dropItems(id)
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r fakeSessionRepo) dropItems(sessionID primitive.ObjectID) int64 {
	kept := r.sessionItems[:0]
	var n int64
	for _, item := range r.sessionItems {
		if item.SessionID == sessionID {
			n++
			continue
		}
		kept = append(kept, item)
	}
	r.sessionItems = kept
	return n
}

func (r fakeSessionRepo) CreateExercises(ctx context.Context, items []domain.SessionExercise) error {
	if err := r.record("sessions.CreateExercises"); err != nil {
		return err
	}
	for _, item := range items {
		item.ID = primitive.NewObjectID()
		r.sessionItems = append(r.sessionItems, item)
	}
	return nil
}

func (r fakeSessionRepo) ListExercises(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	out := []domain.SessionExercise{}
	for _, item := range r.sessionItems {
		if item.SessionID == sessionID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r fakeSessionRepo) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error) {
	for _, item := range r.sessionItems {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeSessionRepo) UpdateExercise(ctx context.Context, item *domain.SessionExercise) error {
	if err := r.record("sessions.UpdateExercise"); err != nil {
		return err
	}
	for i := range r.sessionItems {
		if r.sessionItems[i].ID == item.ID {
			r.sessionItems[i] = *item
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r fakeSessionRepo) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	if err := r.record("sessions.DeleteExercise"); err != nil {
		return err
	}
	for i, item := range r.sessionItems {
		if item.ID == id {
			r.sessionItems = append(r.sessionItems[:i], r.sessionItems[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r fakeSessionRepo) DeleteExercises(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	if err := r.record("sessions.DeleteExercises"); err != nil {
		return 0, err
	}
	return r.dropItems(sessionID), nil
}

type fakeLinkRepo struct{ *memStore }

func (r fakeLinkRepo) Upsert(ctx context.Context, link *domain.TrainerMember) error {
	if err := r.record("links.Upsert"); err != nil {
		return err
	}
	now := r.now()
	for i := range r.links {
		if r.links[i].MemberID == link.MemberID {
			r.links[i].TrainerID = link.TrainerID
			r.links[i].CreatedAt = now
			link.CreatedAt = now
			return nil
		}
	}
	link.ID = primitive.NewObjectID()
	link.CreatedAt = now
	r.links = append(r.links, *link)
	return nil
}

func (r fakeLinkRepo) GetByMember(ctx context.Context, memberID primitive.ObjectID) (*domain.TrainerMember, error) {
	for _, l := range r.links {
		if l.MemberID == memberID {
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeLinkRepo) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerMember, error) {
	out := []domain.TrainerMember{}
	for _, l := range r.links {
		if l.TrainerID == trainerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r fakeLinkRepo) DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	if err := r.record("links.DeleteByMember"); err != nil {
		return 0, err
	}
	kept := r.links[:0]
	var n int64
	for _, l := range r.links {
		if l.MemberID == memberID {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.links = kept
	return n, nil
}

// MockFileStorage hands out fake URLs and remembers deleted keys.
type MockFileStorage struct {
	Deleted   []string
	ErrDelete error
}

func (m *MockFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://uploads.test/" + objectKey, nil
}

func (m *MockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://downloads.test/" + objectKey, nil
}

func (m *MockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	if m.ErrDelete != nil {
		return m.ErrDelete
	}
	m.Deleted = append(m.Deleted, objectKey)
	return nil
}

// --- Fixture ---

// testToday is the date every fixture engine treats as today.
var testToday = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memStore
	files  *MockFileStorage
	engine *lifecycle.Engine

	members     MemberService
	memberships MembershipService
	exercises   ExerciseService
	routines    RoutineService
	training    TrainingService
	trainers    TrainerService
	dashboard   DashboardService
	auth        AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	files := &MockFileStorage{}
	engine := lifecycle.NewEngine(
		lifecycle.WithClock(func() time.Time { return testToday.Add(15 * time.Hour) }),
		lifecycle.WithLocation(time.UTC),
		lifecycle.WithThreshold(7),
	)
	logger := zap.NewNop()

	staffRepo := fakeStaffRepo{store}
	memberRepo := fakeMemberRepo{store}
	planRepo := fakePlanRepo{store}
	membershipRepo := fakeMembershipRepo{store}
	exerciseRepo := fakeExerciseRepo{store}
	routineRepo := fakeRoutineRepo{store}
	sessionRepo := fakeSessionRepo{store}
	linkRepo := fakeLinkRepo{store}

	memberships := NewMembershipService(planRepo, membershipRepo, memberRepo, engine, logger)
	return &fixture{
		store:       store,
		files:       files,
		engine:      engine,
		members:     NewMemberService(memberRepo, membershipRepo, sessionRepo, linkRepo, staffRepo, files, engine, time.Minute, logger),
		memberships: memberships,
		exercises:   NewExerciseService(exerciseRepo, files, time.Minute, logger),
		routines:    NewRoutineService(routineRepo, exerciseRepo, logger),
		training:    NewTrainingService(sessionRepo, memberRepo, staffRepo, exerciseRepo, engine, logger),
		trainers:    NewTrainerService(linkRepo, staffRepo, memberRepo, membershipRepo, engine, logger),
		dashboard:   NewDashboardService(memberRepo, membershipRepo, sessionRepo, memberships, engine, logger),
		auth:        NewAuthService(staffRepo, "test-secret", time.Hour, logger),
	}
}

func (f *fixture) addMember(t *testing.T, name string) domain.Member {
	t.Helper()
	m := &domain.Member{Name: name, Status: domain.MemberActive}
	if _, err := (fakeMemberRepo{f.store}).Create(context.Background(), m); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return *m
}

func (f *fixture) addStaff(t *testing.T, name string, role domain.Role) domain.Staff {
	t.Helper()
	s := &domain.Staff{Name: name, Email: strings.ToLower(name) + "@gym.test", Role: role, PasswordHash: "x"}
	if _, err := (fakeStaffRepo{f.store}).Create(context.Background(), s); err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	return *s
}

func (f *fixture) addPlan(t *testing.T, name string, days int, price float64, active bool) domain.MembershipPlan {
	t.Helper()
	p := &domain.MembershipPlan{Name: name, DurationDays: days, Price: price, IsActive: active}
	if _, err := (fakePlanRepo{f.store}).Create(context.Background(), p); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return *p
}

// addMembership stores a row directly, bypassing the sale rules.
func (f *fixture) addMembership(t *testing.T, memberID, planID primitive.ObjectID, start, end time.Time, status domain.MembershipStatus) domain.Membership {
	t.Helper()
	m := &domain.Membership{MemberID: memberID, PlanID: &planID, StartDate: start, EndDate: end, Status: status}
	if _, err := (fakeMembershipRepo{f.store}).Create(context.Background(), m); err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	return *m
}

func (f *fixture) addExercise(t *testing.T, name, group string) domain.Exercise {
	t.Helper()
	e := &domain.Exercise{Name: name, MuscleGroup: group}
	if _, err := (fakeExerciseRepo{f.store}).Create(context.Background(), e); err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
	return *e
}

// resetCalls forgets the calls made while seeding.
func (f *fixture) resetCalls() {
	f.store.calls = nil
}

func day(offset int) time.Time {
	return testToday.AddDate(0, 0, offset)
}

func intPtr(v int) *int { return &v }

func ptrTime(v time.Time) *time.Time { return &v }
