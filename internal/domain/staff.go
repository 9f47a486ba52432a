package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes the two kinds of staff accounts.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
)

// Panel is one of the two dashboards a staff member can open.
type Panel string

const (
	PanelAdmin   Panel = "admin"
	PanelTrainer Panel = "trainer"
)

// Staff is a gym employee who can log in to the dashboard.
type Staff struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID       *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"` // Linked identity, if any
	Name         string              `bson:"name" json:"name"`
	Email        string              `bson:"email" json:"email"` // Unique
	PasswordHash string              `bson:"passwordHash" json:"-"`
	Role         Role                `bson:"role" json:"role"`
	AvatarURL    string              `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

func (s *Staff) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func (s *Staff) IsTrainer() bool {
	return s.Role == RoleTrainer
}

// Panels lists the dashboards this staff member may open.
// Admins can also work the trainer floor; trainers only get their own panel.
func (s *Staff) Panels() []Panel {
	if s.IsAdmin() {
		return []Panel{PanelAdmin, PanelTrainer}
	}
	return []Panel{PanelTrainer}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTrainer
}
