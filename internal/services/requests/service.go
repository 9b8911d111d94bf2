package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
)

type RequestStore interface {
	CreateWithEvent(ctx context.Context, req model.Request, e model.Event) (model.Request, error)
	GetByID(ctx context.Context, id int64) (model.Request, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Request, error)
	SaveWithEvent(ctx context.Context, req model.Request, e model.Event) (model.Request, error)
}

type CatalogStore interface {
	GetOrgService(ctx context.Context, id int64) (model.OrgService, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
}

// Service runs the service-request lifecycle. Citizens draft, fill and
// submit; staff review, assign and move statuses from there.
type Service struct {
	store   RequestStore
	catalog CatalogStore
	users   UserStore
	now     func() time.Time
}

func NewService(store RequestStore, catalog CatalogStore, users UserStore) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		users:   users,
		now:     time.Now,
	}
}

type CreateInput struct {
	OrgServiceID int64
	Priority     enums.RequestPriority
	FormData     map[string]any
	Documents    []int64
	SubmitNow    bool
}

// Create opens a draft request against an active org service. The
// reference is assigned here and never changes.
func (s *Service) Create(ctx context.Context, callerID int64, in CreateInput) (model.Request, error) {
	if callerID <= 0 || in.OrgServiceID <= 0 {
		return model.Request{}, fmt.Errorf("invalid request input: %w", ErrValidation)
	}

	priority := in.Priority
	if priority == "" {
		priority = enums.RequestPriorityNormal
	}
	if !priority.Valid() {
		return model.Request{}, fmt.Errorf("unknown priority %q: %w", in.Priority, ErrInvalidArgument)
	}

	orgService, err := s.catalog.GetOrgService(ctx, in.OrgServiceID)
	if err != nil {
		return model.Request{}, err
	}
	if !orgService.IsActive {
		return model.Request{}, fmt.Errorf("org service %d is not offered: %w", in.OrgServiceID, ErrValidation)
	}

	req := model.Request{
		Reference:    newReference(s.now().UTC()),
		UserID:       callerID,
		OrgID:        orgService.OrgID,
		OrgServiceID: orgService.ID,
		Status:       enums.RequestStatusDraft,
		Priority:     priority,
		FormData:     in.FormData,
		Documents:    in.Documents,
	}
	if in.SubmitNow {
		submittedAt := s.now().UTC()
		req.Status = enums.RequestStatusPending
		req.SubmittedAt = &submittedAt
	}

	return s.store.CreateWithEvent(ctx, req, model.Event{
		ActorID: &callerID,
		Type:    enums.EventRequestCreated,
		Data: map[string]any{
			"reference":      req.Reference,
			"org_service_id": orgService.ID,
			"submitted":      in.SubmitNow,
		},
	})
}

type UpdateDraftInput struct {
	Priority  enums.RequestPriority
	FormData  map[string]any
	Documents []int64
}

// UpdateDraft replaces the editable fields of a draft. Submitted requests
// are frozen for the citizen.
func (s *Service) UpdateDraft(ctx context.Context, callerID, requestID int64, in UpdateDraftInput) (model.Request, error) {
	req, err := s.loadOwned(ctx, callerID, requestID)
	if err != nil {
		return model.Request{}, err
	}
	if req.Status != enums.RequestStatusDraft {
		return model.Request{}, fmt.Errorf("only drafts can be edited (status %s): %w", req.Status, ErrValidation)
	}

	if in.Priority != "" {
		if !in.Priority.Valid() {
			return model.Request{}, fmt.Errorf("unknown priority %q: %w", in.Priority, ErrInvalidArgument)
		}
		req.Priority = in.Priority
	}
	req.FormData = in.FormData
	req.Documents = in.Documents

	return s.store.SaveWithEvent(ctx, req, model.Event{
		ActorID: &callerID,
		Type:    enums.EventRequestUpdated,
		Data:    map[string]any{"reference": req.Reference},
	})
}

// Submit moves a draft to pending and stamps the submission time.
func (s *Service) Submit(ctx context.Context, callerID, requestID int64) (model.Request, error) {
	req, err := s.loadOwned(ctx, callerID, requestID)
	if err != nil {
		return model.Request{}, err
	}
	if req.Status != enums.RequestStatusDraft {
		return model.Request{}, fmt.Errorf("only drafts can be submitted (status %s): %w", req.Status, ErrValidation)
	}

	submittedAt := s.now().UTC()
	req.Status = enums.RequestStatusPending
	req.SubmittedAt = &submittedAt

	return s.store.SaveWithEvent(ctx, req, model.Event{
		ActorID: &callerID,
		Type:    enums.EventRequestSubmitted,
		Data:    map[string]any{"reference": req.Reference},
	})
}

// Cancel is the citizen's exit. Allowed while the request is still theirs
// to steer, that is before review starts.
func (s *Service) Cancel(ctx context.Context, callerID, requestID int64) (model.Request, error) {
	req, err := s.loadOwned(ctx, callerID, requestID)
	if err != nil {
		return model.Request{}, err
	}

	switch req.Status {
	case enums.RequestStatusDraft, enums.RequestStatusPending:
	default:
		return model.Request{}, fmt.Errorf("request can no longer be cancelled (status %s): %w", req.Status, ErrValidation)
	}

	from := req.Status
	req.Status = enums.RequestStatusCancelled

	return s.store.SaveWithEvent(ctx, req, model.Event{
		ActorID: &callerID,
		Type:    enums.EventStatusChanged,
		Data:    map[string]any{"from": string(from), "to": string(req.Status)},
	})
}

func (s *Service) Get(ctx context.Context, callerID int64, callerRole string, requestID int64) (model.Request, error) {
	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return model.Request{}, err
	}

	if !rules.IsStaff(callerRole) {
		if err := rules.RequireOwner(req.UserID, callerID); err != nil {
			return model.Request{}, err
		}
	}

	return req, nil
}

func (s *Service) ListMine(ctx context.Context, callerID int64) ([]model.Request, error) {
	if callerID <= 0 {
		return nil, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}
	return s.store.ListByUser(ctx, callerID)
}

// SetStatus is the staff transition. Drafts are out of reach; they only
// move through Submit. Returning a request to draft is likewise not a
// staff move.
func (s *Service) SetStatus(ctx context.Context, actorID int64, actorRole string, requestID int64, status enums.RequestStatus) (model.Request, error) {
	if !rules.IsStaff(actorRole) {
		return model.Request{}, rules.ErrForbidden
	}
	if !status.Valid() || status == enums.RequestStatusDraft {
		return model.Request{}, fmt.Errorf("invalid target status %q: %w", status, ErrInvalidArgument)
	}

	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return model.Request{}, err
	}
	if req.Status == enums.RequestStatusDraft {
		return model.Request{}, fmt.Errorf("draft requests are not reviewable: %w", ErrValidation)
	}
	if req.Status == status {
		return req, nil
	}

	from := req.Status
	req.Status = status

	return s.store.SaveWithEvent(ctx, req, model.Event{
		ActorID: &actorID,
		Type:    enums.EventStatusChanged,
		Data:    map[string]any{"from": string(from), "to": string(status)},
	})
}

// Assign hands a request to a staff member. The assignee must exist and
// hold a staff role.
func (s *Service) Assign(ctx context.Context, actorID int64, actorRole string, requestID, assigneeID int64) (model.Request, error) {
	if !rules.IsStaff(actorRole) {
		return model.Request{}, rules.ErrForbidden
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.Request{}, fmt.Errorf("assignee %d not found: %w", assigneeID, ErrInvalidArgument)
		}
		return model.Request{}, err
	}
	if !rules.IsStaff(string(assignee.Role)) {
		return model.Request{}, fmt.Errorf("assignee %d is not staff: %w", assigneeID, ErrInvalidArgument)
	}

	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return model.Request{}, err
	}
	if req.Status == enums.RequestStatusDraft {
		return model.Request{}, fmt.Errorf("draft requests cannot be assigned: %w", ErrValidation)
	}

	req.AssignedTo = &assignee.ID

	return s.store.SaveWithEvent(ctx, req, model.Event{
		ActorID: &actorID,
		Type:    enums.EventAssigned,
		Data:    map[string]any{"assignee_id": assignee.ID},
	})
}

func (s *Service) loadOwned(ctx context.Context, callerID, requestID int64) (model.Request, error) {
	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return model.Request{}, err
	}
	if err := rules.RequireOwner(req.UserID, callerID); err != nil {
		return model.Request{}, err
	}
	return req, nil
}

func newReference(now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("REQ-%s-%s", now.Format("20060102"), short)
}
