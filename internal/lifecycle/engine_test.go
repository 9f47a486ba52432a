package lifecycle

import (
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bunker/gym-admin/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixedEngine pins "now" to the given local wall-clock instant.
func fixedEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	return NewEngine(WithClock(func() time.Time { return now }), WithLocation(now.Location()))
}

func TestComputeEndDate_Scenario(t *testing.T) {
	end, err := ComputeEndDate(date(2024, time.January, 15), 30)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 14), end)
}

func TestComputeEndDate_RejectsNegative(t *testing.T) {
	_, err := ComputeEndDate(date(2024, time.January, 15), -1)
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

func TestComputeEndDate_RejectsTooLong(t *testing.T) {
	start := date(2024, time.January, 15)

	end, err := ComputeEndDate(start, MaxDurationDays)
	require.NoError(t, err)
	assert.Equal(t, MaxDurationDays, daysBetween(start, end))

	for _, days := range []int{MaxDurationDays + 1, 1 << 40, math.MaxInt - 10} {
		_, err := ComputeEndDate(start, days)
		assert.ErrorIs(t, err, ErrDurationTooLong, "days=%d", days)
	}
}

func TestComputeEndDate_ZeroDays(t *testing.T) {
	end, err := ComputeEndDate(date(2024, time.May, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.May, 1), end)
}

func TestComputeEndDate_IgnoresDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Local midnights straddling the spring-forward and fall-back transitions.
	starts := []time.Time{
		time.Date(2024, time.March, 9, 0, 0, 0, 0, ny),
		time.Date(2024, time.March, 10, 0, 0, 0, 0, ny),
		time.Date(2024, time.November, 2, 23, 30, 0, 0, ny),
	}
	for _, start := range starts {
		for days := 0; days <= 400; days += 7 {
			end, err := ComputeEndDate(start, days)
			require.NoError(t, err)
			y, m, d := start.Date()
			want := time.Date(y, m, d+days, 0, 0, 0, 0, time.UTC)
			assert.Equal(t, want, end, "start=%s days=%d", start, days)
			assert.Equal(t, days, daysBetween(domain.DateOf(start), end))
		}
	}
}

func TestToday_UsesEngineLocation(t *testing.T) {
	// 02:00 UTC on March 10 is still March 9 in New York.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	instant := time.Date(2024, time.March, 10, 2, 0, 0, 0, time.UTC)
	e := NewEngine(WithClock(func() time.Time { return instant }), WithLocation(ny))

	assert.Equal(t, date(2024, time.March, 9), e.Today())
	assert.Equal(t, 1, e.DaysUntilExpiration(date(2024, time.March, 10)))
}

func TestDaysUntilExpiration(t *testing.T) {
	e := fixedEngine(t, time.Date(2024, time.June, 15, 18, 45, 0, 0, time.UTC))

	assert.Equal(t, 0, e.DaysUntilExpiration(date(2024, time.June, 15)))
	assert.Equal(t, 1, e.DaysUntilExpiration(date(2024, time.June, 16)))
	assert.Equal(t, -1, e.DaysUntilExpiration(date(2024, time.June, 14)))
	assert.Equal(t, 30, e.DaysUntilExpiration(date(2024, time.July, 15)))
}

func TestIsExpiredMatchesNegativeDays(t *testing.T) {
	e := fixedEngine(t, time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC))
	for offset := -40; offset <= 40; offset++ {
		end := date(2024, time.June, 15).AddDate(0, 0, offset)
		assert.Equal(t, e.DaysUntilExpiration(end) < 0, e.IsExpired(end), "offset %d", offset)
	}
}

func TestClassify_Scenarios(t *testing.T) {
	today := date(2024, time.June, 15)
	e := fixedEngine(t, today.Add(10*time.Hour))

	tests := []struct {
		name string
		end  time.Time
		want TemporalStatus
	}{
		{"due today", today, StatusExpiringSoon},
		{"yesterday", today.AddDate(0, 0, -1), StatusExpired},
		{"ten days out", today.AddDate(0, 0, 10), StatusActive},
		{"threshold edge", today.AddDate(0, 0, 7), StatusExpiringSoon},
		{"past threshold", today.AddDate(0, 0, 8), StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Classify(tt.end, 7))
		})
	}
}

func TestClassify_IgnoresStoredStatus(t *testing.T) {
	today := date(2024, time.June, 15)
	e := fixedEngine(t, today)
	m := domain.Membership{Status: domain.MembershipActive, EndDate: today.AddDate(0, 0, -1)}

	assert.True(t, e.IsExpired(m.EndDate))
	assert.Equal(t, StatusExpired, e.ClassifyMembership(m, 7))
}

func TestClassify_TotalAndWindowBounds(t *testing.T) {
	today := date(2024, time.June, 15)
	e := fixedEngine(t, today)
	for _, threshold := range []int{0, 3, 7, 30} {
		for offset := -20; offset <= 40; offset++ {
			end := today.AddDate(0, 0, offset)
			got := e.Classify(end, threshold)
			days := e.DaysUntilExpiration(end)
			switch got {
			case StatusExpired:
				assert.Less(t, days, 0)
			case StatusExpiringSoon:
				assert.True(t, days >= 0 && days <= threshold, "days=%d threshold=%d", days, threshold)
			case StatusActive:
				assert.Greater(t, days, threshold)
			default:
				t.Fatalf("unexpected status %q", got)
			}
		}
	}
}

func TestClassify_NegativeThresholdUsesDefault(t *testing.T) {
	today := date(2024, time.June, 15)
	e := NewEngine(WithClock(func() time.Time { return today }), WithLocation(time.UTC), WithThreshold(3))

	assert.Equal(t, StatusActive, e.Classify(today.AddDate(0, 0, 5), -1))
	assert.Equal(t, StatusExpiringSoon, e.Classify(today.AddDate(0, 0, 3), -1))
}

func TestDescribe_Labels(t *testing.T) {
	today := date(2024, time.June, 15)
	e := fixedEngine(t, today)

	cases := map[int]string{
		0:   "due today",
		1:   "1 day left",
		5:   "5 days left",
		20:  "20 days left",
		-1:  "expired 1 day ago",
		-12: "expired 12 days ago",
	}
	for offset, want := range cases {
		v := e.Describe(domain.Membership{EndDate: today.AddDate(0, 0, offset)}, 7)
		assert.Equal(t, want, v.Label)
		assert.Equal(t, offset, v.DaysLeft)
	}
}
