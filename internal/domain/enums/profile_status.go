package enums

type ProfileStatus string

const (
	ProfileStatusDraft     ProfileStatus = "draft"
	ProfileStatusActive    ProfileStatus = "active"
	ProfileStatusInactive  ProfileStatus = "inactive"
	ProfileStatusPending   ProfileStatus = "pending"
	ProfileStatusSuspended ProfileStatus = "suspended"
)
