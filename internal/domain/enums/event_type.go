package enums

// EventType tags an audit event. The set is open on the wire (events store
// free-form tags) but writers in this module only use the constants below.
type EventType string

const (
	EventProfileCreated        EventType = "profile_created"
	EventProfileUpdate         EventType = "profile_update"
	EventStatusChanged         EventType = "status_changed"
	EventNoteAdded             EventType = "note_added"
	EventDocumentUpdated       EventType = "document_updated"
	EventRegistrationRequested EventType = "registration_requested"
	EventRequestCreated        EventType = "request_created"
	EventRequestUpdated        EventType = "request_updated"
	EventRequestSubmitted      EventType = "request_submitted"
	EventAssigned              EventType = "assigned"
)

// EventTargetType identifies the kind of entity an audit event refers to.
type EventTargetType string

const (
	EventTargetProfile      EventTargetType = "profile"
	EventTargetChildProfile EventTargetType = "child_profile"
	EventTargetRequest      EventTargetType = "request"
	EventTargetOrganization EventTargetType = "organization"
	EventTargetRegistration EventTargetType = "registration"
)

func (t EventTargetType) Valid() bool {
	switch t {
	case EventTargetProfile, EventTargetChildProfile, EventTargetRequest,
		EventTargetOrganization, EventTargetRegistration:
		return true
	}
	return false
}
