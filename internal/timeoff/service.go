package timeoff

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// DateLayout is the wire format for request dates.
const DateLayout = "2006-01-02"

// ShiftDirectory resolves shift types by name.
type ShiftDirectory interface {
	FindByName(ctx context.Context, name string) (*models.Shift, error)
}

// ScheduleUpdater repoints schedule entries inside a transaction.
type ScheduleUpdater interface {
	RepointRangeWithTx(tx *gorm.DB, userID, shiftID uuid.UUID, start, end time.Time) error
}

// TxRunner executes a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UserDirectory resolves users for decision notifications.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams groups dependencies for the time-off service.
type ServiceParams struct {
	Repo     Repository
	Shifts   ShiftDirectory
	Schedule ScheduleUpdater
	Users    UserDirectory
	Tx       TxRunner
	Mailer   mailer.Sender
	Logger   *logger.Logger
}

// Service runs the time-off request workflow.
type Service struct {
	repo     Repository
	shifts   ShiftDirectory
	schedule ScheduleUpdater
	users    UserDirectory
	tx       TxRunner
	mailer   mailer.Sender
	logg     *logger.Logger
}

// NewService builds a time-off service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Shifts == nil {
		return nil, errors.New("shift directory is required")
	}
	if params.Schedule == nil {
		return nil, errors.New("schedule updater is required")
	}
	if params.Users == nil {
		return nil, errors.New("user directory is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	if params.Mailer == nil {
		return nil, errors.New("mailer is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		repo:     params.Repo,
		shifts:   params.Shifts,
		schedule: params.Schedule,
		users:    params.Users,
		tx:       params.Tx,
		mailer:   params.Mailer,
		logg:     params.Logger,
	}, nil
}

// RequestInput carries the fields accepted on create and edit.
type RequestInput struct {
	StartDate string
	EndDate   string
	Reason    string
}

// Create files a new pending request for the actor.
func (s *Service) Create(ctx context.Context, actor authz.Actor, input RequestInput) (*models.TimeOff, error) {
	start, end, reason, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, actor.UserID, start, end, nil); err != nil {
		return nil, err
	}

	request := &models.TimeOff{
		UserID:    actor.UserID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    enums.TimeOffPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating time off request")
	}
	return request, nil
}

// ListParams filters the request listing.
type ListParams struct {
	Status *enums.TimeOffStatus
}

// List returns the actor's own requests, or every request when the actor may
// decide on them.
func (s *Service) List(ctx context.Context, actor authz.Actor, params ListParams) ([]models.TimeOff, error) {
	if actor.CanDecideTimeOff() {
		requests, err := s.repo.ListAll(ctx, params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing time off requests")
		}
		return requests, nil
	}

	requests, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing time off requests")
	}
	if params.Status != nil {
		filtered := requests[:0]
		for _, request := range requests {
			if request.Status == *params.Status {
				filtered = append(filtered, request)
			}
		}
		requests = filtered
	}
	return requests, nil
}

// Edit modifies a request. Pending requests change in place; declined
// requests spawn a fresh pending request and the original stays untouched;
// approved requests cannot be edited.
func (s *Service) Edit(ctx context.Context, actor authz.Actor, id uuid.UUID, input RequestInput) (*models.TimeOff, error) {
	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the request owner can edit it")
	}

	switch request.Status {
	case enums.TimeOffApproved:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "approved time off requests cannot be edited")

	case enums.TimeOffDeclined:
		return s.Create(ctx, actor, input)

	default:
		start, end, reason, err := s.validateInput(ctx, input)
		if err != nil {
			return nil, err
		}
		if err := s.checkOverlap(ctx, actor.UserID, start, end, &request.ID); err != nil {
			return nil, err
		}
		request.StartDate = start
		request.EndDate = end
		request.Reason = reason
		request.User = nil
		if err := s.repo.Update(ctx, request); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating time off request")
		}
		return request, nil
	}
}

// Delete withdraws a pending request. Only the owner may withdraw, and only
// while the request is still pending.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	request, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if request.UserID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the request owner can delete it")
	}
	if request.Status != enums.TimeOffPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending time off requests can be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting time off request")
	}
	return nil
}

// Approve marks a pending request approved and, in the same transaction,
// repoints every schedule entry of the requester within the request's date
// range to the shift named by the request reason.
func (s *Service) Approve(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.TimeOff, error) {
	request, err := s.loadForDecision(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	shift, err := s.shifts.FindByName(ctx, request.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no shift type matches the request reason").
				WithDetails(map[string]string{"reason": request.Reason})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving absence shift")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		request.Status = enums.TimeOffApproved
		request.User = nil
		if err := s.repo.WithTx(tx).Update(ctx, request); err != nil {
			return err
		}
		return s.schedule.RepointRangeWithTx(tx, request.UserID, shift.ID, request.StartDate, request.EndDate)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approving time off request")
	}

	s.notifyDecision(ctx, request)
	return request, nil
}

// Decline marks a pending request declined. The schedule is left as is.
func (s *Service) Decline(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.TimeOff, error) {
	request, err := s.loadForDecision(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	request.Status = enums.TimeOffDeclined
	request.User = nil
	if err := s.repo.Update(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "declining time off request")
	}

	s.notifyDecision(ctx, request)
	return request, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*models.TimeOff, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "time off request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading time off request")
	}
	return request, nil
}

func (s *Service) loadForDecision(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.TimeOff, error) {
	if !actor.CanDecideTimeOff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only managers can decide on time off requests")
	}
	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.TimeOffPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending time off requests can be decided")
	}
	return request, nil
}

func (s *Service) validateInput(ctx context.Context, input RequestInput) (time.Time, time.Time, string, error) {
	var zero time.Time

	start, err := parseDate(input.StartDate)
	if err != nil {
		return zero, zero, "", pkgerrors.New(pkgerrors.CodeValidation, "start date must use YYYY-MM-DD format")
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return zero, zero, "", pkgerrors.New(pkgerrors.CodeValidation, "end date must use YYYY-MM-DD format")
	}
	if end.Before(start) {
		return zero, zero, "", pkgerrors.New(pkgerrors.CodeValidation, "end date cannot precede start date")
	}
	if start.Before(today()) {
		return zero, zero, "", pkgerrors.New(pkgerrors.CodeValidation, "start date cannot be in the past")
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return zero, zero, "", pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	if _, err := s.shifts.FindByName(ctx, reason); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, zero, "", pkgerrors.New(pkgerrors.CodeValidation, "reason must name an existing shift type")
		}
		return zero, zero, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving shift type")
	}

	return start, end, reason, nil
}

func (s *Service) checkOverlap(ctx context.Context, userID uuid.UUID, start, end time.Time, exclude *uuid.UUID) error {
	overlapping, err := s.repo.FindOverlapping(ctx, userID, start, end, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking overlapping requests")
	}
	if len(overlapping) == 0 {
		return nil
	}

	conflict := overlapping[0]
	return pkgerrors.New(pkgerrors.CodeConflict, "the requested dates overlap an existing time off request").
		WithDetails(map[string]string{
			"conflictingRequestId": conflict.ID.String(),
			"conflictStart":        conflict.StartDate.Format(DateLayout),
			"conflictEnd":          conflict.EndDate.Format(DateLayout),
		})
}

func (s *Service) notifyDecision(ctx context.Context, request *models.TimeOff) {
	user, err := s.users.FindByID(ctx, request.UserID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "time_off_id", request.ID.String()), "could not load requester for decision email")
		return
	}

	s.mailer.SendAsync(ctx, mailer.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Your time off request was %s", request.Status),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour time off request from %s to %s has been %s.",
			user.FirstName,
			request.StartDate.Format(DateLayout),
			request.EndDate.Format(DateLayout),
			request.Status,
		),
	})
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
