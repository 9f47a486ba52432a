package service

import (
	"bunker/gym-admin/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to today with ordered exercises", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		trainer := f.addStaff(t, "Tomas", domain.RoleTrainer)
		squat := f.addExercise(t, "Squat", "Legs")
		bench := f.addExercise(t, "Bench Press", "Chest")
		weight := 80.0

		session, err := f.training.CreateSession(ctx, SessionInput{
			MemberID:  member.ID,
			TrainerID: &trainer.ID,
			Notes:     " felt strong ",
			Exercises: []SessionExerciseInput{
				{ExerciseID: bench.ID, SetsCompleted: intPtr(3), RepsCompleted: "10,10,8", Weight: &weight},
				{ExerciseID: squat.ID, SetsCompleted: intPtr(5)},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, testToday, session.Date)
		assert.Equal(t, "felt strong", session.Notes)
		require.NotNil(t, session.Member)
		assert.Equal(t, "Ana", session.Member.Name)
		require.NotNil(t, session.Trainer)
		assert.Empty(t, session.Trainer.PasswordHash)
		require.Len(t, session.Exercises, 2)
		assert.Equal(t, bench.ID, *session.Exercises[0].ExerciseID)
		assert.Equal(t, 0, session.Exercises[0].OrderIndex)
		assert.Equal(t, squat.ID, *session.Exercises[1].ExerciseID)
		assert.Equal(t, 1, session.Exercises[1].OrderIndex)
	})

	t.Run("explicit date is kept", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		date := day(-3).Add(20 * time.Hour)

		session, err := f.training.CreateSession(ctx, SessionInput{MemberID: member.ID, Date: &date})
		require.NoError(t, err)
		assert.Equal(t, day(-3), session.Date)
		assert.Empty(t, session.Exercises)
	})

	t.Run("bad references", func(t *testing.T) {
		f := newFixture(t)
		member := f.addMember(t, "Ana")
		ghost := primitive.NewObjectID()
		f.resetCalls()

		_, err := f.training.CreateSession(ctx, SessionInput{})
		assert.ErrorIs(t, err, ErrValidationFailed)
		_, err = f.training.CreateSession(ctx, SessionInput{MemberID: ghost})
		assert.ErrorIs(t, err, ErrMemberNotFound)
		_, err = f.training.CreateSession(ctx, SessionInput{MemberID: member.ID, TrainerID: &ghost})
		assert.ErrorIs(t, err, ErrTrainerNotFound)
		_, err = f.training.CreateSession(ctx, SessionInput{
			MemberID:  member.ID,
			Exercises: []SessionExerciseInput{{ExerciseID: ghost}},
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "exercises[0].exerciseId")

		assert.Empty(t, f.store.calls)
	})
}

func TestSessionQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.addMember(t, "Ana")
	ben := f.addMember(t, "Ben")
	for _, in := range []SessionInput{
		{MemberID: ana.ID},
		{MemberID: ben.ID},
		{MemberID: ana.ID, Date: ptrTime(day(-7))},
	} {
		_, err := f.training.CreateSession(ctx, in)
		require.NoError(t, err)
	}

	today, err := f.training.TodaySessions(ctx)
	require.NoError(t, err)
	assert.Len(t, today, 2)

	lastWeek, err := f.training.ListSessionsByDate(ctx, day(-7))
	require.NoError(t, err)
	require.Len(t, lastWeek, 1)
	assert.Equal(t, ana.ID, lastWeek[0].MemberID)

	history, err := f.training.ListMemberSessions(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, testToday, history[0].Date, "most recent first")
}

func TestSessionExercises(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := f.addMember(t, "Ana")
	squat := f.addExercise(t, "Squat", "Legs")
	session, err := f.training.CreateSession(ctx, SessionInput{
		MemberID:  member.ID,
		Exercises: []SessionExerciseInput{{ExerciseID: squat.ID}, {ExerciseID: squat.ID}},
	})
	require.NoError(t, err)
	itemID := session.Exercises[0].ID

	weight := 100.0
	item, err := f.training.UpdateSessionExercise(ctx, itemID, SessionExerciseUpdate{SetsCompleted: intPtr(5), RepsCompleted: " 5x5 ", Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, "5x5", item.RepsCompleted)
	assert.Equal(t, 100.0, *item.Weight)

	_, err = f.training.UpdateSessionExercise(ctx, itemID, SessionExerciseUpdate{SetsCompleted: intPtr(-1)})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.training.UpdateSessionExercise(ctx, primitive.NewObjectID(), SessionExerciseUpdate{})
	assert.ErrorIs(t, err, ErrSessionExerciseNotFound)

	require.NoError(t, f.training.DeleteSessionExercise(ctx, itemID))
	assert.ErrorIs(t, f.training.DeleteSessionExercise(ctx, itemID), ErrSessionExerciseNotFound)

	reloaded, err := f.training.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Exercises, 1)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := f.addMember(t, "Ana")
	squat := f.addExercise(t, "Squat", "Legs")
	session, err := f.training.CreateSession(ctx, SessionInput{
		MemberID:  member.ID,
		Exercises: []SessionExerciseInput{{ExerciseID: squat.ID}},
	})
	require.NoError(t, err)
	f.resetCalls()

	require.NoError(t, f.training.DeleteSession(ctx, session.ID))
	assert.Equal(t, []string{"sessions.DeleteExercises", "sessions.Delete"}, f.store.calls)
	assert.Empty(t, f.store.sessionItems)

	assert.ErrorIs(t, f.training.DeleteSession(ctx, session.ID), ErrSessionNotFound)
	_, err = f.training.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
