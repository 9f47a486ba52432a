package lifecycle

import (
	"sort"

	"bunker/gym-admin/internal/domain"
)

// SelectCurrentMembership returns the membership stored as active, or nil.
// Temporal expiry is not considered, so a stale "active" row whose end date
// has passed is still returned. When several rows are stored as active the
// one with the latest start date wins, then the latest creation time, then
// the earliest position in ms.
func SelectCurrentMembership(ms []domain.Membership) *domain.Membership {
	i := currentIndex(len(ms), func(i int) *domain.Membership { return &ms[i] })
	if i < 0 {
		return nil
	}
	return &ms[i]
}

// SelectCurrent is SelectCurrentMembership over joined rows.
func SelectCurrent(ms []domain.MembershipDetails) *domain.MembershipDetails {
	i := currentIndex(len(ms), func(i int) *domain.Membership { return &ms[i].Membership })
	if i < 0 {
		return nil
	}
	return &ms[i]
}

func currentIndex(n int, at func(int) *domain.Membership) int {
	best := -1
	for i := 0; i < n; i++ {
		m := at(i)
		if m.Status != domain.MembershipActive {
			continue
		}
		if best < 0 || newer(m, at(best)) {
			best = i
		}
	}
	return best
}

func newer(a, b *domain.Membership) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// FilterExpiring builds the renewal worklist: memberships stored as active
// whose end date falls within [today, today+threshold], soonest first.
// Already expired rows are left out even when still stored as active.
func (e *Engine) FilterExpiring(ms []domain.MembershipDetails, threshold int) []domain.MembershipDetails {
	threshold = e.resolveThreshold(threshold)
	out := make([]domain.MembershipDetails, 0, len(ms))
	for _, m := range ms {
		if m.Status != domain.MembershipActive {
			continue
		}
		days := e.DaysUntilExpiration(m.EndDate)
		if days >= 0 && days <= threshold {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EndDate.Before(out[j].EndDate)
	})
	return out
}
