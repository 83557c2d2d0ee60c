package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/staffhubhq/staffhub-backend/api/responses"
	"github.com/staffhubhq/staffhub-backend/api/validators"
	"github.com/staffhubhq/staffhub-backend/internal/users"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
	"github.com/staffhubhq/staffhub-backend/pkg/pagination"
)

type userCreateRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	FirstName string     `json:"firstName" validate:"required,min=1"`
	LastName  string     `json:"lastName" validate:"required,min=1"`
	RoleID    uuid.UUID  `json:"roleId" validate:"required"`
	TeamID    *uuid.UUID `json:"teamId,omitempty"`
}

type userUpdateRequest struct {
	FirstName string     `json:"firstName" validate:"required,min=1"`
	LastName  string     `json:"lastName" validate:"required,min=1"`
	RoleID    uuid.UUID  `json:"roleId" validate:"required"`
	TeamID    *uuid.UUID `json:"teamId,omitempty"`
	Blocked   *bool      `json:"blocked,omitempty"`
	Confirmed *bool      `json:"confirmed,omitempty"`
}

// UsersList returns a keyset-paginated page of users, optionally filtered by
// team or role.
func UsersList(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		teamID, err := validators.ParseQueryUUID(r, "teamId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		roleID, err := validators.ParseQueryUUID(r, "roleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), users.ListParams{
			TeamID: teamID,
			RoleID: roleID,
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := map[string]any{"users": result.Users}
		if result.NextCursor != "" {
			payload["nextCursor"] = result.NextCursor
		}
		responses.WriteSuccess(w, payload)
	}
}

// UsersCreate provisions an account with a generated temporary password.
func UsersCreate(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var body userCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Create(r.Context(), users.CreateInput{
			Email:     body.Email,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			RoleID:    body.RoleID,
			TeamID:    body.TeamID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

func UsersGet(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UsersUpdate adjusts profile fields, role and team, and optionally flips the
// blocked or confirmed flags.
func UsersUpdate(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body userUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Update(r.Context(), id, users.UpdateInput{
			FirstName: body.FirstName,
			LastName:  body.LastName,
			RoleID:    body.RoleID,
			TeamID:    body.TeamID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.Blocked != nil {
			user, err = svc.SetBlocked(r.Context(), id, *body.Blocked)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if body.Confirmed != nil {
			user, err = svc.SetConfirmed(r.Context(), id, *body.Confirmed)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, user)
	}
}

func UsersDelete(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
