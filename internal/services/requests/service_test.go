package requests_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/requests"
)

type fakeRequestStore struct {
	nextID int64
	byID   map[int64]model.Request
	events []model.Event
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{byID: map[int64]model.Request{}}
}

func (s *fakeRequestStore) CreateWithEvent(_ context.Context, req model.Request, e model.Event) (model.Request, error) {
	s.nextID++
	req.ID = s.nextID
	req.CreatedAt = time.Now().UTC()
	req.UpdatedAt = req.CreatedAt
	s.byID[req.ID] = req

	e.Target = model.EventTarget{Type: enums.EventTargetRequest, ID: req.ID}
	s.events = append(s.events, e)
	return req, nil
}

func (s *fakeRequestStore) GetByID(_ context.Context, id int64) (model.Request, error) {
	req, ok := s.byID[id]
	if !ok {
		return model.Request{}, pgrepo.ErrRequestNotFound
	}
	return req, nil
}

func (s *fakeRequestStore) ListByUser(_ context.Context, userID int64) ([]model.Request, error) {
	var out []model.Request
	for _, req := range s.byID {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) SaveWithEvent(_ context.Context, req model.Request, e model.Event) (model.Request, error) {
	if _, ok := s.byID[req.ID]; !ok {
		return model.Request{}, pgrepo.ErrRequestNotFound
	}
	req.UpdatedAt = time.Now().UTC()
	s.byID[req.ID] = req

	e.Target = model.EventTarget{Type: enums.EventTargetRequest, ID: req.ID}
	s.events = append(s.events, e)
	return req, nil
}

type fakeCatalogStore struct {
	byID map[int64]model.OrgService
}

func (s *fakeCatalogStore) GetOrgService(_ context.Context, id int64) (model.OrgService, error) {
	orgService, ok := s.byID[id]
	if !ok {
		return model.OrgService{}, pgrepo.ErrOrgServiceNotFound
	}
	return orgService, nil
}

type fakeReqUserStore struct {
	byID map[int64]model.User
}

func (s *fakeReqUserStore) GetByID(_ context.Context, id int64) (model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return u, nil
}

func newRequestServiceForTest() (*requests.Service, *fakeRequestStore) {
	store := newFakeRequestStore()
	catalog := &fakeCatalogStore{byID: map[int64]model.OrgService{
		10: {ID: 10, OrgID: 3, ServiceID: 5, IsActive: true},
		11: {ID: 11, OrgID: 3, ServiceID: 6, IsActive: false},
	}}
	users := &fakeReqUserStore{byID: map[int64]model.User{
		1: {ID: 1, Role: enums.RoleAgent},
		2: {ID: 2, Role: enums.RoleUser},
	}}
	return requests.NewService(store, catalog, users), store
}

func createInput() requests.CreateInput {
	return requests.CreateInput{
		OrgServiceID: 10,
		FormData:     map[string]any{"motif": "renouvellement"},
	}
}

func TestCreateDraftWithReference(t *testing.T) {
	svc, store := newRequestServiceForTest()

	req, err := svc.Create(context.Background(), 7, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != enums.RequestStatusDraft {
		t.Fatalf("new request should be draft, got %s", req.Status)
	}
	if req.Priority != enums.RequestPriorityNormal {
		t.Fatalf("priority should default to normal, got %s", req.Priority)
	}
	if !strings.HasPrefix(req.Reference, "REQ-") {
		t.Fatalf("reference not assigned: %q", req.Reference)
	}
	if req.OrgID != 3 {
		t.Fatalf("org should come from the catalog row, got %d", req.OrgID)
	}
	if store.events[0].Type != enums.EventRequestCreated {
		t.Fatalf("expected request_created event, got %s", store.events[0].Type)
	}
}

func TestCreateSubmitNowSkipsDraft(t *testing.T) {
	svc, _ := newRequestServiceForTest()

	in := createInput()
	in.SubmitNow = true
	req, err := svc.Create(context.Background(), 7, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != enums.RequestStatusPending {
		t.Fatalf("submit_now request should be pending, got %s", req.Status)
	}
	if req.SubmittedAt == nil {
		t.Fatal("submit_now request must carry a submission time")
	}
}

func TestCreateRejectsInactiveOrUnknownService(t *testing.T) {
	svc, _ := newRequestServiceForTest()
	ctx := context.Background()

	in := createInput()
	in.OrgServiceID = 11
	if _, err := svc.Create(ctx, 7, in); !errors.Is(err, requests.ErrValidation) {
		t.Fatalf("inactive service should be rejected, got %v", err)
	}

	in.OrgServiceID = 99
	if _, err := svc.Create(ctx, 7, in); !errors.Is(err, pgrepo.ErrOrgServiceNotFound) {
		t.Fatalf("unknown service should be not found, got %v", err)
	}
}

func TestSubmitFreezesDraft(t *testing.T) {
	svc, store := newRequestServiceForTest()
	ctx := context.Background()

	req, err := svc.Create(ctx, 7, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	submitted, err := svc.Submit(ctx, 7, req.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != enums.RequestStatusPending || submitted.SubmittedAt == nil {
		t.Fatalf("submit should set pending and timestamp: %+v", submitted)
	}
	if store.events[len(store.events)-1].Type != enums.EventRequestSubmitted {
		t.Fatalf("expected request_submitted event")
	}

	if _, err := svc.Submit(ctx, 7, req.ID); !errors.Is(err, requests.ErrValidation) {
		t.Fatalf("second submit should fail, got %v", err)
	}
	if _, err := svc.UpdateDraft(ctx, 7, req.ID, requests.UpdateDraftInput{}); !errors.Is(err, requests.ErrValidation) {
		t.Fatalf("editing a submitted request should fail, got %v", err)
	}
}

func TestCancelWindow(t *testing.T) {
	svc, _ := newRequestServiceForTest()
	ctx := context.Background()

	req, err := svc.Create(ctx, 7, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Submit(ctx, 7, req.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, 7, req.ID)
	if err != nil {
		t.Fatalf("cancel while pending: %v", err)
	}
	if cancelled.Status != enums.RequestStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	if _, err := svc.Cancel(ctx, 7, req.ID); !errors.Is(err, requests.ErrValidation) {
		t.Fatalf("cancelling a cancelled request should fail, got %v", err)
	}
}

func TestSetStatusStaffOnly(t *testing.T) {
	svc, store := newRequestServiceForTest()
	ctx := context.Background()

	req, err := svc.Create(ctx, 7, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetStatus(ctx, 7, string(enums.RoleUser), req.ID, enums.RequestStatusValidated); !errors.Is(err, rules.ErrForbidden) {
		t.Fatalf("non-staff should be forbidden, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, 1, string(enums.RoleAgent), req.ID, enums.RequestStatusUnderReview); !errors.Is(err, requests.ErrValidation) {
		t.Fatalf("drafts should be out of staff reach, got %v", err)
	}

	if _, err := svc.Submit(ctx, 7, req.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	reviewed, err := svc.SetStatus(ctx, 1, string(enums.RoleAgent), req.ID, enums.RequestStatusUnderReview)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if reviewed.Status != enums.RequestStatusUnderReview {
		t.Fatalf("expected under_review, got %s", reviewed.Status)
	}

	if _, err := svc.SetStatus(ctx, 1, string(enums.RoleAgent), req.ID, enums.RequestStatusDraft); !errors.Is(err, requests.ErrInvalidArgument) {
		t.Fatalf("moving back to draft should be rejected, got %v", err)
	}

	eventsBefore := len(store.events)
	if _, err := svc.SetStatus(ctx, 1, string(enums.RoleAgent), req.ID, enums.RequestStatusUnderReview); err != nil {
		t.Fatalf("same-status set: %v", err)
	}
	if len(store.events) != eventsBefore {
		t.Fatalf("same-status set must not log an event")
	}
}

func TestAssignRequiresStaffAssignee(t *testing.T) {
	svc, store := newRequestServiceForTest()
	ctx := context.Background()

	req, err := svc.Create(ctx, 7, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Submit(ctx, 7, req.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Assign(ctx, 1, string(enums.RoleAgent), req.ID, 2); !errors.Is(err, requests.ErrInvalidArgument) {
		t.Fatalf("non-staff assignee should be rejected, got %v", err)
	}
	if _, err := svc.Assign(ctx, 1, string(enums.RoleAgent), req.ID, 99); !errors.Is(err, requests.ErrInvalidArgument) {
		t.Fatalf("unknown assignee should be rejected, got %v", err)
	}

	assigned, err := svc.Assign(ctx, 1, string(enums.RoleAdmin), req.ID, 1)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.AssignedTo == nil || *assigned.AssignedTo != 1 {
		t.Fatalf("assignee not recorded: %+v", assigned.AssignedTo)
	}
	if store.events[len(store.events)-1].Type != enums.EventAssigned {
		t.Fatalf("expected assigned event")
	}
}

func TestGetOwnershipGate(t *testing.T) {
	svc, _ := newRequestServiceForTest()
	ctx := context.Background()

	req, err := svc.Create(ctx, 7, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, 7, string(enums.RoleUser), req.ID); err != nil {
		t.Fatalf("owner read should pass: %v", err)
	}
	if _, err := svc.Get(ctx, 8, string(enums.RoleUser), req.ID); !errors.Is(err, rules.ErrForbidden) {
		t.Fatalf("non-owner read should be forbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, 8, string(enums.RoleAgent), req.ID); err != nil {
		t.Fatalf("staff read should pass: %v", err)
	}
}
