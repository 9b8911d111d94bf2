package enums

type RequestStatus string

const (
	RequestStatusDraft       RequestStatus = "draft"
	RequestStatusPending     RequestStatus = "pending"
	RequestStatusUnderReview RequestStatus = "under_review"
	RequestStatusValidated   RequestStatus = "validated"
	RequestStatusRejected    RequestStatus = "rejected"
	RequestStatusCompleted   RequestStatus = "completed"
	RequestStatusCancelled   RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusDraft, RequestStatusPending, RequestStatusUnderReview,
		RequestStatusValidated, RequestStatusRejected, RequestStatusCompleted,
		RequestStatusCancelled:
		return true
	}
	return false
}

type RequestPriority string

const (
	RequestPriorityNormal RequestPriority = "normal"
	RequestPriorityUrgent RequestPriority = "urgent"
)

func (p RequestPriority) Valid() bool {
	switch p {
	case RequestPriorityNormal, RequestPriorityUrgent:
		return true
	}
	return false
}
