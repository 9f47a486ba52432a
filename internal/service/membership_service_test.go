package service

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/lifecycle"
	"bunker/gym-admin/internal/repository"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("end date is start plus duration", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

		view, err := f.memberships.CreateMembership(ctx, SaleInput{MemberID: member.ID, PlanID: plan.ID, StartDate: &start})
		require.NoError(t, err)

		assert.Equal(t, start, view.StartDate)
		assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), view.EndDate)
		assert.Equal(t, domain.MembershipActive, view.Status)
		assert.Equal(t, 450.0, view.AmountPaid, "amount defaults to the plan price")
		require.NotNil(t, view.Plan)
		assert.Equal(t, "Monthly", view.Plan.Name)
		assert.Equal(t, lifecycle.StatusExpired, view.Temporal.Status)
	})

	t.Run("start defaults to today", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Weekly", 7, 120, true)
		paid := 100.0

		view, err := f.memberships.CreateMembership(ctx, SaleInput{
			MemberID:      member.ID,
			PlanID:        plan.ID,
			AmountPaid:    &paid,
			PaymentMethod: domain.PaymentCash,
		})
		require.NoError(t, err)

		assert.Equal(t, testToday, view.StartDate)
		assert.Equal(t, day(7), view.EndDate)
		assert.Equal(t, 100.0, view.AmountPaid)
		assert.Equal(t, lifecycle.StatusExpiringSoon, view.Temporal.Status)
		assert.Equal(t, 7, view.Temporal.DaysLeft)
	})

	t.Run("start date is truncated to its calendar day", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		start := time.Date(2024, 4, 1, 18, 45, 0, 0, time.UTC)

		view, err := f.memberships.CreateMembership(ctx, SaleInput{MemberID: member.ID, PlanID: plan.ID, StartDate: &start})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), view.StartDate)
	})

	t.Run("inactive plan is rejected", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Legacy", 30, 300, false)
		f.resetCalls()

		_, err := f.memberships.CreateMembership(ctx, SaleInput{MemberID: member.ID, PlanID: plan.ID})
		assert.ErrorIs(t, err, ErrPlanInactive)
		assert.Empty(t, f.store.calls)
	})

	t.Run("unknown member", func(t *testing.T) {
		f := newFixture(t)
		plan := f.addPlan(t, "Monthly", 30, 450, true)

		_, err := f.memberships.CreateMembership(ctx, SaleInput{MemberID: primitive.NewObjectID(), PlanID: plan.ID})
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("unknown plan", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")

		_, err := f.memberships.CreateMembership(ctx, SaleInput{MemberID: member.ID, PlanID: primitive.NewObjectID()})
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		negative := -1.0
		f.resetCalls()

		cases := []SaleInput{
			{PlanID: plan.ID},
			{MemberID: member.ID},
			{MemberID: member.ID, PlanID: plan.ID, AmountPaid: &negative},
			{MemberID: member.ID, PlanID: plan.ID, PaymentMethod: "barter"},
		}
		for _, in := range cases {
			_, err := f.memberships.CreateMembership(ctx, in)
			assert.ErrorIs(t, err, ErrValidationFailed)
		}
		assert.Empty(t, f.store.calls)
	})

	t.Run("store failure is propagated", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		boom := errors.New("write concern timeout")
		f.store.errOn["memberships.Create"] = boom

		_, err := f.memberships.CreateMembership(ctx, SaleInput{MemberID: member.ID, PlanID: plan.ID})
		assert.ErrorIs(t, err, boom)
	})
}

func TestRenewMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("continues after a valid membership", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		current := f.addMembership(t, member.ID, plan.ID, day(-25), day(5), domain.MembershipActive)

		view, err := f.memberships.RenewMembership(ctx, SaleInput{MemberID: member.ID, PlanID: plan.ID})
		require.NoError(t, err)

		assert.Equal(t, day(6), view.StartDate)
		assert.Equal(t, day(36), view.EndDate)

		old, err := f.memberships.GetMembership(ctx, current.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MembershipActive, old.Status, "renewal does not touch the previous row")
		assert.Len(t, f.store.memberships, 2)
	})

	t.Run("restarts today after an expired membership", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		f.addMembership(t, member.ID, plan.ID, day(-40), day(-10), domain.MembershipActive)

		view, err := f.memberships.RenewMembership(ctx, SaleInput{MemberID: member.ID, PlanID: plan.ID})
		require.NoError(t, err)
		assert.Equal(t, testToday, view.StartDate)
		assert.Equal(t, day(30), view.EndDate)
	})

	t.Run("first membership starts today", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)

		view, err := f.memberships.RenewMembership(ctx, SaleInput{MemberID: member.ID, PlanID: plan.ID})
		require.NoError(t, err)
		assert.Equal(t, testToday, view.StartDate)
	})

	t.Run("ending today still counts as valid", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		f.addMembership(t, member.ID, plan.ID, day(-30), day(0), domain.MembershipActive)

		view, err := f.memberships.RenewMembership(ctx, SaleInput{MemberID: member.ID, PlanID: plan.ID})
		require.NoError(t, err)
		assert.Equal(t, day(1), view.StartDate)
	})
}

func TestMembershipStatusChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := f.addMember(t, "Ana")
	plan := f.addPlan(t, "Monthly", 30, 450, true)
	m := f.addMembership(t, member.ID, plan.ID, day(-5), day(25), domain.MembershipActive)

	view, err := f.memberships.CancelMembership(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipCancelled, view.Status)
	assert.Equal(t, lifecycle.StatusActive, view.Temporal.Status, "temporal status only looks at dates")

	view, err = f.memberships.ExpireMembership(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipExpired, view.Status)

	_, err = f.memberships.CancelMembership(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestExpiringMemberships(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plan := f.addPlan(t, "Monthly", 30, 450, true)

	endOffsets := []int{-1, 0, 3, 7, 8}
	ids := map[int]primitive.ObjectID{}
	for _, off := range endOffsets {
		member := f.addMember(t, "Member")
		ids[off] = f.addMembership(t, member.ID, plan.ID, day(off-30), day(off), domain.MembershipActive).ID
	}
	cancelled := f.addMember(t, "Cancelled")
	f.addMembership(t, cancelled.ID, plan.ID, day(-28), day(2), domain.MembershipCancelled)

	got, err := f.memberships.ExpiringMemberships(ctx, -1)
	require.NoError(t, err)
	gotIDs := make([]primitive.ObjectID, len(got))
	for i, v := range got {
		gotIDs[i] = v.ID
		assert.Equal(t, lifecycle.StatusExpiringSoon, v.Temporal.Status)
	}
	assert.ElementsMatch(t, []primitive.ObjectID{ids[0], ids[3], ids[7]}, gotIDs)

	got, err = f.memberships.ExpiringMemberships(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.memberships.ExpiringMemberships(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ids[0], got[0].ID)
}

func TestCurrentForMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := f.addMember(t, "Ana")
	plan := f.addPlan(t, "Monthly", 30, 450, true)

	_, err := f.memberships.CurrentForMember(ctx, member.ID)
	assert.ErrorIs(t, err, ErrNoCurrentMembership)

	f.addMembership(t, member.ID, plan.ID, day(-60), day(-30), domain.MembershipActive)
	latest := f.addMembership(t, member.ID, plan.ID, day(-29), day(1), domain.MembershipActive)
	f.addMembership(t, member.ID, plan.ID, day(-90), day(-60), domain.MembershipActive)

	view, err := f.memberships.CurrentForMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, view.ID)
	assert.Equal(t, "1 day left", view.Temporal.Label)
}

func TestPlans(t *testing.T) {
	ctx := context.Background()

	t.Run("create defaults to active", func(t *testing.T) {
		f := newFixture(t)
		plan, err := f.memberships.CreatePlan(ctx, PlanInput{Name: "  Quarterly ", DurationDays: 90, Price: 1200})
		require.NoError(t, err)
		assert.True(t, plan.IsActive)
		assert.Equal(t, "Quarterly", plan.Name)

		_, err = f.memberships.CreatePlan(ctx, PlanInput{Name: "Broken", DurationDays: 0, Price: 10})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "durationDays")
	})

	t.Run("duration is capped", func(t *testing.T) {
		f := newFixture(t)
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		calls := len(f.store.calls)

		tests := []struct {
			name string
			run  func(PlanInput) error
		}{
			{"create", func(in PlanInput) error {
				_, err := f.memberships.CreatePlan(ctx, in)
				return err
			}},
			{"update", func(in PlanInput) error {
				_, err := f.memberships.UpdatePlan(ctx, plan.ID, in)
				return err
			}},
		}
		for _, tt := range tests {
			for _, days := range []int{lifecycle.MaxDurationDays + 1, math.MaxInt - 10} {
				err := tt.run(PlanInput{Name: "Forever", DurationDays: days, Price: 10})
				var verr *ValidationError
				require.ErrorAs(t, err, &verr, "%s days=%d", tt.name, days)
				assert.ErrorIs(t, err, ErrValidationFailed)
				assert.Contains(t, verr.Fields, "durationDays")
			}
		}
		assert.Len(t, f.store.calls, calls, "rejected plans never reach the store")

		created, err := f.memberships.CreatePlan(ctx, PlanInput{Name: "Decade", DurationDays: lifecycle.MaxDurationDays, Price: 10})
		require.NoError(t, err)
		assert.Equal(t, lifecycle.MaxDurationDays, created.DurationDays)
	})

	t.Run("price and duration freeze once used", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		plan := f.addPlan(t, "Monthly", 30, 450, true)
		f.addMembership(t, member.ID, plan.ID, day(0), day(30), domain.MembershipActive)

		_, err := f.memberships.UpdatePlan(ctx, plan.ID, PlanInput{Name: "Monthly", DurationDays: 30, Price: 500})
		assert.ErrorIs(t, err, ErrPlanInUse)
		_, err = f.memberships.UpdatePlan(ctx, plan.ID, PlanInput{Name: "Monthly", DurationDays: 31, Price: 450})
		assert.ErrorIs(t, err, ErrPlanInUse)

		inactive := false
		updated, err := f.memberships.UpdatePlan(ctx, plan.ID, PlanInput{Name: "Monthly Classic", DurationDays: 30, Price: 450, IsActive: &inactive})
		require.NoError(t, err)
		assert.Equal(t, "Monthly Classic", updated.Name)
		assert.False(t, updated.IsActive)
	})

	t.Run("unused plan can be repriced", func(t *testing.T) {
		f := newFixture(t)
		plan := f.addPlan(t, "Monthly", 30, 450, true)

		updated, err := f.memberships.UpdatePlan(ctx, plan.ID, PlanInput{Name: "Monthly", DurationDays: 28, Price: 400})
		require.NoError(t, err)
		assert.Equal(t, 28, updated.DurationDays)
		assert.True(t, updated.IsActive, "omitted isActive keeps the current value")
	})

	t.Run("deactivated plans leave the active list", func(t *testing.T) {
		f := newFixture(t)
		cheap := f.addPlan(t, "Weekly", 7, 120, true)
		f.addPlan(t, "Monthly", 30, 450, true)

		plan, err := f.memberships.DeactivatePlan(ctx, cheap.ID)
		require.NoError(t, err)
		assert.False(t, plan.IsActive)

		active, err := f.memberships.ListActivePlans(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Monthly", active[0].Name)

		all, err := f.memberships.ListPlans(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = f.memberships.DeactivatePlan(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestListMembershipsFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.addMember(t, "Ana")
	ben := f.addMember(t, "Ben")
	plan := f.addPlan(t, "Monthly", 30, 450, true)
	f.addMembership(t, ana.ID, plan.ID, day(-30), day(0), domain.MembershipActive)
	f.addMembership(t, ana.ID, plan.ID, day(1), day(31), domain.MembershipActive)
	f.addMembership(t, ben.ID, plan.ID, day(-5), day(25), domain.MembershipCancelled)

	views, err := f.memberships.ListMemberships(ctx, repository.MembershipFilter{MemberIDs: []primitive.ObjectID{ana.ID}})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, day(31), views[0].EndDate, "newest first")

	views, err = f.memberships.ListMemberships(ctx, repository.MembershipFilter{Status: domain.MembershipCancelled})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, ben.ID, views[0].MemberID)
}
