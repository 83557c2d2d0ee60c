package timeoff

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/internal/authz"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
	"github.com/staffhubhq/staffhub-backend/pkg/mailer"
)

type fakeRepo struct {
	requests map[uuid.UUID]*models.TimeOff
	deleted  []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: map[uuid.UUID]*models.TimeOff{}}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, request *models.TimeOff) error {
	request.ID = uuid.New()
	clone := *request
	f.requests[request.ID] = &clone
	return nil
}
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TimeOff, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *request
	return &clone, nil
}
func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TimeOff, error) {
	var out []models.TimeOff
	for _, request := range f.requests {
		if request.UserID == userID {
			out = append(out, *request)
		}
	}
	return out, nil
}
func (f *fakeRepo) ListAll(ctx context.Context, status *enums.TimeOffStatus) ([]models.TimeOff, error) {
	var out []models.TimeOff
	for _, request := range f.requests {
		if status == nil || request.Status == *status {
			out = append(out, *request)
		}
	}
	return out, nil
}
func (f *fakeRepo) FindOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]models.TimeOff, error) {
	var out []models.TimeOff
	for _, request := range f.requests {
		if request.UserID != userID {
			continue
		}
		if exclude != nil && request.ID == *exclude {
			continue
		}
		if request.Status != enums.TimeOffPending && request.Status != enums.TimeOffApproved {
			continue
		}
		if !request.StartDate.After(end) && !request.EndDate.Before(start) {
			out = append(out, *request)
		}
	}
	return out, nil
}
func (f *fakeRepo) Update(ctx context.Context, request *models.TimeOff) error {
	clone := *request
	f.requests[request.ID] = &clone
	return nil
}
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.requests, id)
	return nil
}

type fakeShifts struct {
	byName map[string]*models.Shift
}

func (f *fakeShifts) FindByName(ctx context.Context, name string) (*models.Shift, error) {
	shift, ok := f.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return shift, nil
}

type repointCall struct {
	userID  uuid.UUID
	shiftID uuid.UUID
	start   time.Time
	end     time.Time
}

type fakeSchedule struct {
	calls []repointCall
}

func (f *fakeSchedule) RepointRangeWithTx(tx *gorm.DB, userID, shiftID uuid.UUID, start, end time.Time) error {
	f.calls = append(f.calls, repointCall{userID: userID, shiftID: shiftID, start: start, end: end})
	return nil
}

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeUsers struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type captureMailer struct {
	sent []mailer.Message
}

func (c *captureMailer) Send(ctx context.Context, msg mailer.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}
func (c *captureMailer) SendAsync(ctx context.Context, msg mailer.Message) {
	c.sent = append(c.sent, msg)
}

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	shifts   *fakeShifts
	schedule *fakeSchedule
	users    *fakeUsers
	mail     *captureMailer
	vacation *models.Shift
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	vacation := &models.Shift{ID: uuid.New(), Name: "Vacation"}
	f := &fixture{
		repo:     newFakeRepo(),
		shifts:   &fakeShifts{byName: map[string]*models.Shift{"Vacation": vacation}},
		schedule: &fakeSchedule{},
		users:    &fakeUsers{users: map[uuid.UUID]*models.User{}},
		mail:     &captureMailer{},
		vacation: vacation,
	}
	svc, err := NewService(ServiceParams{
		Repo:     f.repo,
		Shifts:   f.shifts,
		Schedule: f.schedule,
		Users:    f.users,
		Tx:       fakeTx{},
		Mailer:   f.mail,
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func employee() authz.Actor {
	return authz.Actor{UserID: uuid.New(), RoleID: uuid.New(), RoleType: enums.RoleTypeEmployee}
}

func manager() authz.Actor {
	return authz.Actor{UserID: uuid.New(), RoleID: uuid.New(), RoleType: enums.RoleTypeManager}
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(DateLayout)
}

func validInput() RequestInput {
	return RequestInput{StartDate: futureDate(7), EndDate: futureDate(9), Reason: "Vacation"}
}

func TestCreatePendingRequest(t *testing.T) {
	f := newFixture(t)
	actor := employee()

	request, err := f.svc.Create(context.Background(), actor, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if request.Status != enums.TimeOffPending {
		t.Fatalf("expected pending, got %s", request.Status)
	}
	if request.UserID != actor.UserID {
		t.Fatal("request must belong to the actor")
	}
}

func TestCreateRejectsPastStart(t *testing.T) {
	f := newFixture(t)
	input := validInput()
	input.StartDate = time.Now().UTC().AddDate(0, 0, -1).Format(DateLayout)
	input.EndDate = futureDate(2)

	_, err := f.svc.Create(context.Background(), employee(), input)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	f := newFixture(t)
	input := validInput()
	input.StartDate = futureDate(9)
	input.EndDate = futureDate(7)

	_, err := f.svc.Create(context.Background(), employee(), input)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsUnknownReason(t *testing.T) {
	f := newFixture(t)
	input := validInput()
	input.Reason = "Sabbatical"

	_, err := f.svc.Create(context.Background(), employee(), input)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsOverlapInclusiveBounds(t *testing.T) {
	f := newFixture(t)
	actor := employee()

	first := validInput()
	if _, err := f.svc.Create(context.Background(), actor, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// second request starts on the first request's end date
	second := RequestInput{StartDate: first.EndDate, EndDate: futureDate(12), Reason: "Vacation"}
	_, err := f.svc.Create(context.Background(), actor, second)
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("conflict must name the clashing request")
	}
}

func TestCreateAllowsOverlapWithDeclined(t *testing.T) {
	f := newFixture(t)
	actor := employee()

	request, _ := f.svc.Create(context.Background(), actor, validInput())
	stored := f.repo.requests[request.ID]
	stored.Status = enums.TimeOffDeclined

	if _, err := f.svc.Create(context.Background(), actor, validInput()); err != nil {
		t.Fatalf("expected declined requests to be ignored, got %v", err)
	}
}

func TestEditPendingInPlace(t *testing.T) {
	f := newFixture(t)
	actor := employee()
	request, _ := f.svc.Create(context.Background(), actor, validInput())

	edited, err := f.svc.Edit(context.Background(), actor, request.ID, RequestInput{
		StartDate: futureDate(14),
		EndDate:   futureDate(15),
		Reason:    "Vacation",
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.ID != request.ID {
		t.Fatal("pending edit must keep the same record")
	}
	if edited.StartDate.Format(DateLayout) != futureDate(14) {
		t.Fatalf("dates not updated: %+v", edited)
	}
}

func TestEditDeclinedCreatesNewRequest(t *testing.T) {
	f := newFixture(t)
	actor := employee()
	request, _ := f.svc.Create(context.Background(), actor, validInput())
	f.repo.requests[request.ID].Status = enums.TimeOffDeclined

	edited, err := f.svc.Edit(context.Background(), actor, request.ID, RequestInput{
		StartDate: futureDate(20),
		EndDate:   futureDate(21),
		Reason:    "Vacation",
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.ID == request.ID {
		t.Fatal("declined edit must create a new record")
	}
	if edited.Status != enums.TimeOffPending {
		t.Fatalf("new record must be pending, got %s", edited.Status)
	}
	original := f.repo.requests[request.ID]
	if original.Status != enums.TimeOffDeclined {
		t.Fatalf("original must stay declined, got %s", original.Status)
	}
}

func TestEditApprovedIsRejected(t *testing.T) {
	f := newFixture(t)
	actor := employee()
	request, _ := f.svc.Create(context.Background(), actor, validInput())
	f.repo.requests[request.ID].Status = enums.TimeOffApproved

	_, err := f.svc.Edit(context.Background(), actor, request.ID, validInput())
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestEditByNonOwnerIsForbidden(t *testing.T) {
	f := newFixture(t)
	owner := employee()
	request, _ := f.svc.Create(context.Background(), owner, validInput())

	_, err := f.svc.Edit(context.Background(), employee(), request.ID, validInput())
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteOwnerPendingOnly(t *testing.T) {
	f := newFixture(t)
	owner := employee()
	request, _ := f.svc.Create(context.Background(), owner, validInput())

	if err := f.svc.Delete(context.Background(), employee(), request.ID); pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	f.repo.requests[request.ID].Status = enums.TimeOffApproved
	if err := f.svc.Delete(context.Background(), owner, request.ID); pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for approved, got %v", err)
	}

	f.repo.requests[request.ID].Status = enums.TimeOffPending
	if err := f.svc.Delete(context.Background(), owner, request.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.repo.deleted) != 1 {
		t.Fatal("expected repo delete")
	}
}

func TestApproveRepointsSchedule(t *testing.T) {
	f := newFixture(t)
	owner := employee()
	f.users.users[owner.UserID] = &models.User{ID: owner.UserID, Email: "worker@example.com", FirstName: "W"}
	request, _ := f.svc.Create(context.Background(), owner, validInput())

	approved, err := f.svc.Approve(context.Background(), manager(), request.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != enums.TimeOffApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if len(f.schedule.calls) != 1 {
		t.Fatalf("expected 1 repoint call, got %d", len(f.schedule.calls))
	}
	call := f.schedule.calls[0]
	if call.userID != owner.UserID || call.shiftID != f.vacation.ID {
		t.Fatalf("unexpected repoint args: %+v", call)
	}
	if !call.start.Equal(approved.StartDate) || !call.end.Equal(approved.EndDate) {
		t.Fatalf("repoint range mismatch: %+v", call)
	}
	if len(f.mail.sent) != 1 || f.mail.sent[0].To != "worker@example.com" {
		t.Fatalf("expected decision email, got %+v", f.mail.sent)
	}
}

func TestApproveRequiresManagerRole(t *testing.T) {
	f := newFixture(t)
	owner := employee()
	request, _ := f.svc.Create(context.Background(), owner, validInput())

	_, err := f.svc.Approve(context.Background(), owner, request.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestApproveNonPendingIsRejected(t *testing.T) {
	f := newFixture(t)
	owner := employee()
	request, _ := f.svc.Create(context.Background(), owner, validInput())
	f.repo.requests[request.ID].Status = enums.TimeOffDeclined

	_, err := f.svc.Approve(context.Background(), manager(), request.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeclineLeavesScheduleUntouched(t *testing.T) {
	f := newFixture(t)
	owner := employee()
	f.users.users[owner.UserID] = &models.User{ID: owner.UserID, Email: "worker@example.com", FirstName: "W"}
	request, _ := f.svc.Create(context.Background(), owner, validInput())

	declined, err := f.svc.Decline(context.Background(), manager(), request.ID)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if declined.Status != enums.TimeOffDeclined {
		t.Fatalf("expected declined, got %s", declined.Status)
	}
	if len(f.schedule.calls) != 0 {
		t.Fatal("decline must not touch the schedule")
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("expected decision email, got %+v", f.mail.sent)
	}
}

func TestListScopesToOwnerForEmployees(t *testing.T) {
	f := newFixture(t)
	owner := employee()
	other := employee()
	f.svc.Create(context.Background(), owner, validInput())
	f.svc.Create(context.Background(), other, validInput())

	own, err := f.svc.List(context.Background(), owner, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(own) != 1 || own[0].UserID != owner.UserID {
		t.Fatalf("expected only own requests, got %+v", own)
	}

	all, err := f.svc.List(context.Background(), manager(), ListParams{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 requests for manager, got %d", len(all))
	}
}
