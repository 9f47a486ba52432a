package service

import "errors"

// --- Error Definitions ---
var (
	ErrStaffNotFound           = errors.New("staff member not found")
	ErrMemberNotFound          = errors.New("member not found")
	ErrPlanNotFound            = errors.New("membership plan not found")
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrNoCurrentMembership     = errors.New("member has no current membership")
	ErrExerciseNotFound        = errors.New("exercise not found")
	ErrRoutineNotFound         = errors.New("routine not found")
	ErrSessionNotFound         = errors.New("training session not found")
	ErrSessionExerciseNotFound = errors.New("session exercise not found")
	ErrTrainerNotFound         = errors.New("trainer not found")
	ErrNoTrainerAssigned       = errors.New("member has no trainer assigned")
	ErrPhotoNotFound           = errors.New("member has no photo")
	ErrVideoNotFound           = errors.New("exercise has no uploaded video")

	ErrNotATrainer    = errors.New("staff member is not a trainer")
	ErrPlanInactive   = errors.New("membership plan is not offered for new sales")
	ErrPlanInUse      = errors.New("plan duration and price cannot change once memberships use it")
	ErrInvalidDate    = errors.New("invalid date")
	ErrForeignUpload  = errors.New("object key was not issued for this record")
	ErrInvalidContent = errors.New("unsupported content type")
)
