package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/staffhubhq/staffhub-backend/api/responses"
	"github.com/staffhubhq/staffhub-backend/api/validators"
	"github.com/staffhubhq/staffhub-backend/internal/scheduler"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
)

const maxCalendarPageSize = 31

type scheduleEntryRequest struct {
	UserID  uuid.UUID `json:"userId" validate:"required"`
	Date    string    `json:"date" validate:"required,datetime=2006-01-02"`
	ShiftID uuid.UUID `json:"shiftId" validate:"required"`
}

type scheduleBatchRequest struct {
	Entries []scheduleEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type scheduleEntryUpdateRequest struct {
	ShiftID uuid.UUID `json:"shiftId" validate:"required"`
}

// ScheduleCalendar returns one date-window of the schedule. Page 1 starts at
// today; negative pages walk backwards into history.
func ScheduleCalendar(svc *scheduler.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduler service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, -1000, 1000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := validators.ParseQueryInt(r, "size", scheduler.DefaultPageSize, 1, maxCalendarPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		teamID, err := validators.ParseQueryUUID(r, "teamId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		calendar, err := svc.Calendar(r.Context(), scheduler.CalendarParams{
			Page:   page,
			Size:   size,
			TeamID: teamID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, calendar)
	}
}

// ScheduleBatchUpdate applies a set of assignments in one transaction.
func ScheduleBatchUpdate(svc *scheduler.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduler service unavailable"))
			return
		}

		var body scheduleBatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]scheduler.EntryInput, 0, len(body.Entries))
		for _, entry := range body.Entries {
			inputs = append(inputs, scheduler.EntryInput{
				UserID:  entry.UserID,
				Date:    entry.Date,
				ShiftID: entry.ShiftID,
			})
		}

		if err := svc.BatchUpdate(r.Context(), inputs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "applied", "count": len(inputs)})
	}
}

// ScheduleEntryUpdate repoints one existing entry to another shift.
func ScheduleEntryUpdate(svc *scheduler.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduler service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body scheduleEntryUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.UpdateEntry(r.Context(), id, body.ShiftID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}
