package lifecycle

import "bunker/gym-admin/internal/domain"

// MemberStanding is one member with its current membership, if any.
type MemberStanding struct {
	Member  domain.Member             `json:"member"`
	Current *domain.MembershipDetails `json:"currentMembership,omitempty"`
	View    *StatusView               `json:"membershipStatus,omitempty"`
}

// HasValidMembership is true when the current membership has not expired.
func (s MemberStanding) HasValidMembership() bool {
	return s.View != nil && s.View.Status != StatusExpired
}

// Summary classifies a member collection by membership validity.
type Summary struct {
	Members             []MemberStanding `json:"members"`
	WithValidMembership int              `json:"withValidMembership"`
	ExpiringSoon        int              `json:"expiringSoon"`
	StaleActive         int              `json:"staleActive"` // stored active, temporally expired
	WithoutMembership   int              `json:"withoutMembership"`
}

// Standing resolves the current membership of one member and describes it.
func (e *Engine) Standing(m domain.MemberWithMemberships, threshold int) MemberStanding {
	st := MemberStanding{Member: m.Member}
	if cur := SelectCurrent(m.Memberships); cur != nil {
		view := e.Describe(cur.Membership, threshold)
		st.Current = cur
		st.View = &view
	}
	return st
}

// Summarize computes the standing of every member and the aggregate counts.
// Input order is preserved.
func (e *Engine) Summarize(members []domain.MemberWithMemberships, threshold int) Summary {
	sum := Summary{Members: make([]MemberStanding, 0, len(members))}
	for _, m := range members {
		st := e.Standing(m, threshold)
		sum.Members = append(sum.Members, st)
		switch {
		case st.View == nil:
			sum.WithoutMembership++
		case st.View.Status == StatusExpired:
			sum.StaleActive++
		default:
			sum.WithValidMembership++
			if st.View.Status == StatusExpiringSoon {
				sum.ExpiringSoon++
			}
		}
	}
	return sum
}
