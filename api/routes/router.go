package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/staffhubhq/staffhub-backend/api/controllers"
	"github.com/staffhubhq/staffhub-backend/api/middleware"
	"github.com/staffhubhq/staffhub-backend/internal/auth"
	"github.com/staffhubhq/staffhub-backend/internal/authz"
	"github.com/staffhubhq/staffhub-backend/internal/permissions"
	"github.com/staffhubhq/staffhub-backend/internal/roles"
	"github.com/staffhubhq/staffhub-backend/internal/scheduler"
	"github.com/staffhubhq/staffhub-backend/internal/shifts"
	"github.com/staffhubhq/staffhub-backend/internal/teams"
	"github.com/staffhubhq/staffhub-backend/internal/timeoff"
	"github.com/staffhubhq/staffhub-backend/internal/users"
	"github.com/staffhubhq/staffhub-backend/pkg/auth/session"
	"github.com/staffhubhq/staffhub-backend/pkg/config"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
	"github.com/staffhubhq/staffhub-backend/pkg/metrics"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Sessions controllers.Pinger

	SessionChecker session.AccessSessionChecker
	Gate           *authz.Service

	Auth        *auth.Service
	Users       *users.Service
	Roles       *roles.Service
	Permissions *permissions.Service
	Teams       *teams.Service
	Shifts      *shifts.Service
	TimeOff     *timeoff.Service
	Scheduler   *scheduler.Service

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Sessions, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Get("/me", controllers.AuthMe(deps.Auth, logg))
		r.Get("/menu", controllers.AuthMenu(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Permit(deps.Gate, logg))

			r.Route("/timeoff", func(r chi.Router) {
				r.Get("/", controllers.TimeOffList(deps.TimeOff, logg))
				r.Post("/", controllers.TimeOffCreate(deps.TimeOff, logg))
				r.Patch("/{id}", controllers.TimeOffEdit(deps.TimeOff, logg))
				r.Delete("/{id}", controllers.TimeOffDelete(deps.TimeOff, logg))
				r.Post("/{id}/approve", controllers.TimeOffApprove(deps.TimeOff, logg))
				r.Post("/{id}/decline", controllers.TimeOffDecline(deps.TimeOff, logg))
			})

			r.Route("/schedule", func(r chi.Router) {
				r.Get("/", controllers.ScheduleCalendar(deps.Scheduler, logg))
				r.Put("/entries", controllers.ScheduleBatchUpdate(deps.Scheduler, logg))
				r.Put("/entries/{id}", controllers.ScheduleEntryUpdate(deps.Scheduler, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UsersList(deps.Users, logg))
				r.Post("/", controllers.UsersCreate(deps.Users, logg))
				r.Get("/{id}", controllers.UsersGet(deps.Users, logg))
				r.Patch("/{id}", controllers.UsersUpdate(deps.Users, logg))
				r.Delete("/{id}", controllers.UsersDelete(deps.Users, logg))
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/", controllers.RolesList(deps.Roles, logg))
				r.Post("/", controllers.RolesCreate(deps.Roles, logg))
				r.Get("/{id}", controllers.RolesGet(deps.Roles, logg))
				r.Patch("/{id}", controllers.RolesUpdate(deps.Roles, logg))
				r.Delete("/{id}", controllers.RolesDelete(deps.Roles, logg))
			})

			r.Route("/permissions", func(r chi.Router) {
				r.Get("/", controllers.PermissionsList(deps.Permissions, logg))
				r.Post("/", controllers.PermissionsCreate(deps.Permissions, logg))
				r.Get("/{id}", controllers.PermissionsGet(deps.Permissions, logg))
				r.Patch("/{id}", controllers.PermissionsUpdate(deps.Permissions, logg))
				r.Delete("/{id}", controllers.PermissionsDelete(deps.Permissions, logg))
			})

			r.Route("/client-permissions", func(r chi.Router) {
				r.Get("/", controllers.ClientPermissionsList(deps.Permissions, logg))
				r.Post("/", controllers.ClientPermissionsCreate(deps.Permissions, logg))
				r.Get("/{id}", controllers.ClientPermissionsGet(deps.Permissions, logg))
				r.Patch("/{id}", controllers.ClientPermissionsUpdate(deps.Permissions, logg))
				r.Delete("/{id}", controllers.ClientPermissionsDelete(deps.Permissions, logg))
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", controllers.TeamsList(deps.Teams, logg))
				r.Post("/", controllers.TeamsCreate(deps.Teams, logg))
				r.Get("/{id}", controllers.TeamsGet(deps.Teams, logg))
				r.Patch("/{id}", controllers.TeamsUpdate(deps.Teams, logg))
				r.Delete("/{id}", controllers.TeamsDelete(deps.Teams, logg))
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", controllers.ShiftsList(deps.Shifts, logg))
				r.Post("/", controllers.ShiftsCreate(deps.Shifts, logg))
				r.Get("/{id}", controllers.ShiftsGet(deps.Shifts, logg))
				r.Patch("/{id}", controllers.ShiftsUpdate(deps.Shifts, logg))
				r.Delete("/{id}", controllers.ShiftsDelete(deps.Shifts, logg))
			})
		})
	})

	return r
}
