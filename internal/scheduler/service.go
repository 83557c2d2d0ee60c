package scheduler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

// DateLayout is the wire format for schedule dates.
const DateLayout = "2006-01-02"

// TxRunner executes a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the scheduler service.
type ServiceParams struct {
	Repo Repository
	Tx   TxRunner
	Now  func() time.Time
}

// Service serves the shift calendar and its edits.
type Service struct {
	repo Repository
	tx   TxRunner
	now  func() time.Time
}

// NewService builds a scheduler service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, tx: params.Tx, now: now}, nil
}

// CalendarParams selects the page of the calendar view.
type CalendarParams struct {
	Page   int
	Size   int
	TeamID *uuid.UUID
}

// Day is one calendar date with its entries.
type Day struct {
	Date    string                 `json:"date"`
	Entries []models.ScheduleEntry `json:"entries"`
}

// CalendarPage is one date-window of the schedule plus paging metadata.
// StartIndex and EndIndex are 1-based positions within the full date list.
type CalendarPage struct {
	Days       []Day `json:"days"`
	StartIndex int   `json:"startIndex"`
	EndIndex   int   `json:"endIndex"`
	Count      int   `json:"count"`
	Page       int   `json:"page"`
	Pages      int   `json:"pages"`
	Total      int   `json:"total"`
}

// Calendar returns the schedule grouped by date, windowed around today.
func (s *Service) Calendar(ctx context.Context, params CalendarParams) (*CalendarPage, error) {
	dates, err := s.repo.DistinctDates(ctx, params.TeamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading schedule dates")
	}

	anchor := AnchorIndex(dates, s.today())
	window := ComputeWindow(len(dates), anchor, params.Page, params.Size)

	page := &CalendarPage{
		Days:  []Day{},
		Count: window.Count(),
		Page:  window.Page,
		Pages: window.Pages,
		Total: window.Total,
	}
	if window.Count() == 0 {
		return page, nil
	}
	page.StartIndex = window.Start + 1
	page.EndIndex = window.End

	selected := dates[window.Start:window.End]
	entries, err := s.repo.ListBetween(ctx, selected[0], selected[len(selected)-1], params.TeamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading schedule entries")
	}

	byDate := make(map[string][]models.ScheduleEntry, len(selected))
	for _, entry := range entries {
		key := entry.Date.Format(DateLayout)
		byDate[key] = append(byDate[key], entry)
	}
	for _, date := range selected {
		key := date.Format(DateLayout)
		page.Days = append(page.Days, Day{Date: key, Entries: byDate[key]})
	}
	return page, nil
}

// EntryInput assigns a shift to a user on a date.
type EntryInput struct {
	UserID  uuid.UUID
	Date    string
	ShiftID uuid.UUID
}

// UpdateEntry repoints a single existing entry to another shift.
func (s *Service) UpdateEntry(ctx context.Context, id, shiftID uuid.UUID) (*models.ScheduleEntry, error) {
	if shiftID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shift id is required")
	}
	if err := s.repo.UpdateShift(ctx, id, shiftID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "schedule entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating schedule entry")
	}
	entry, err := s.repo.FindEntry(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading schedule entry")
	}
	return entry, nil
}

// BatchUpdate applies every assignment inside one transaction. Either the
// whole batch lands or none of it does.
func (s *Service) BatchUpdate(ctx context.Context, inputs []EntryInput) error {
	if len(inputs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one entry is required")
	}

	entries := make([]*models.ScheduleEntry, 0, len(inputs))
	for _, input := range inputs {
		if input.UserID == uuid.Nil || input.ShiftID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "user id and shift id are required")
		}
		date, err := time.Parse(DateLayout, strings.TrimSpace(input.Date))
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "dates must use YYYY-MM-DD format")
		}
		entries = append(entries, &models.ScheduleEntry{
			UserID:  input.UserID,
			Date:    date,
			ShiftID: input.ShiftID,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, entry := range entries {
			if err := repo.Upsert(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying schedule batch")
	}
	return nil
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
