package enums

type ChildProfileStatus string

const (
	ChildProfileStatusDraft    ChildProfileStatus = "draft"
	ChildProfileStatusPending  ChildProfileStatus = "pending"
	ChildProfileStatusActive   ChildProfileStatus = "active"
	ChildProfileStatusInactive ChildProfileStatus = "inactive"
)
