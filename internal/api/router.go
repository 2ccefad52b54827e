package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/daap14/teamcap/internal/activity"
	"github.com/daap14/teamcap/internal/api/handler"
	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/skill"
	"github.com/daap14/teamcap/internal/team"
	"github.com/daap14/teamcap/internal/user"
)

// AuthService authenticates requests and runs the account flows.
type AuthService interface {
	handler.AuthService
	middleware.TokenVerifier
}

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Logger        *slog.Logger
	DB            handler.DBPinger
	Version       string
	OpenAPISpec   []byte
	AuthRateLimit int

	Auth         AuthService
	BackupCodes  handler.BackupCodeService
	Users        user.Repository
	Skills       skill.Repository
	Teams        team.Repository
	Invitations  team.InvitationRepository
	Activities   activity.Repository
	Lifecycle    handler.ActivityService
	Membership   handler.MembershipChecker
	Capabilities handler.TeamViewer
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rateLimit := deps.AuthRateLimit
	if rateLimit <= 0 {
		rateLimit = 20
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger, "/health"))
	r.Use(middleware.Recovery)

	r.Get("/health", handler.NewHealthHandler(deps.DB, deps.Version).ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		r.Get("/openapi.json", handler.NewOpenAPIHandler(deps.OpenAPISpec).ServeHTTP)
	}

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users, deps.Auth)
	skillHandler := handler.NewSkillHandler(deps.Skills)
	codeHandler := handler.NewBackupCodeHandler(deps.BackupCodes)
	myTeamHandler := handler.NewMyTeamHandler(deps.Teams)
	teamInvitationHandler := handler.NewTeamInvitationHandler(deps.Invitations, deps.Users)
	teamActivityHandler := handler.NewTeamActivityHandler(deps.Activities, deps.Lifecycle, deps.Membership)
	myActivityHandler := handler.NewMyActivityHandler(deps.Activities, deps.Lifecycle)
	myInvitationHandler := handler.NewMyInvitationHandler(deps.Invitations)
	teamViewHandler := handler.NewTeamViewHandler(deps.Teams, deps.Invitations, deps.Membership, deps.Capabilities)

	authenticate := middleware.Authenticate(deps.Auth)
	limit := middleware.RateLimit(rateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(limit).Post("/", authHandler.Login)
			r.With(authenticate).Delete("/", authHandler.Logout)
			r.With(limit).Post("/register", authHandler.Register)
			r.With(authenticate).Delete("/register", authHandler.Unregister)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/my", func(r chi.Router) {
				r.Route("/user", func(r chi.Router) {
					r.Get("/", userHandler.Me)
					r.Put("/", userHandler.UpdateMe)
					r.Post("/change-password", userHandler.ChangePassword)
				})

				r.Route("/skills", func(r chi.Router) {
					r.Get("/", skillHandler.List)
					r.Post("/", skillHandler.Create)
					r.Put("/{skillID}", skillHandler.Update)
					r.Delete("/{skillID}", skillHandler.Delete)
				})

				r.Route("/backup-codes", func(r chi.Router) {
					r.Get("/", codeHandler.List)
					r.Post("/generate", codeHandler.Generate)
					r.Post("/verify", codeHandler.Verify)
				})

				r.Route("/teams", func(r chi.Router) {
					r.Get("/", myTeamHandler.List)
					r.Post("/", myTeamHandler.Create)

					r.Route("/{teamID}", func(r chi.Router) {
						r.Use(middleware.RequireTeamOwner(deps.Teams))

						r.Get("/", myTeamHandler.Get)
						r.Put("/", myTeamHandler.Update)
						r.Delete("/", myTeamHandler.Delete)

						r.Route("/invitations", func(r chi.Router) {
							r.Get("/", teamInvitationHandler.List)
							r.Post("/", teamInvitationHandler.Create)
							r.Delete("/{invitationID}", teamInvitationHandler.Delete)
						})

						r.Route("/activities", func(r chi.Router) {
							r.Get("/", teamActivityHandler.List)
							r.Post("/", teamActivityHandler.Create)

							r.Route("/{activityID}", func(r chi.Router) {
								r.Get("/", teamActivityHandler.Get)
								r.Put("/", teamActivityHandler.Update)
								r.Delete("/", teamActivityHandler.Delete)
								r.Post("/assign", teamActivityHandler.Assign)
								r.Post("/unassign", teamActivityHandler.Transition(activity.Unassign))
								r.Post("/pause", teamActivityHandler.Transition(activity.Pause))
								r.Post("/resume", teamActivityHandler.Transition(activity.Resume))
								r.Post("/complete", teamActivityHandler.Transition(activity.Complete))
								r.Post("/reopen", teamActivityHandler.Transition(activity.Reopen))
							})
						})
					})
				})

				r.Route("/activities", func(r chi.Router) {
					r.Get("/", myActivityHandler.List)
					r.Get("/{activityID}", myActivityHandler.Get)
					r.Post("/{activityID}/pause", myActivityHandler.Transition(activity.Pause))
					r.Post("/{activityID}/resume", myActivityHandler.Transition(activity.Resume))
					r.Post("/{activityID}/complete", myActivityHandler.Transition(activity.Complete))
					r.Post("/{activityID}/reopen", myActivityHandler.Transition(activity.Reopen))
				})

				r.Route("/invitations", func(r chi.Router) {
					r.Get("/", myInvitationHandler.List)
					r.Get("/{invitationID}", myInvitationHandler.Get)
					r.Post("/{invitationID}/accept", myInvitationHandler.Accept)
					r.Post("/{invitationID}/reject", myInvitationHandler.Reject)
				})
			})

			r.Route("/invitations", func(r chi.Router) {
				r.Get("/", myInvitationHandler.List)
				r.Get("/{invitationID}", myInvitationHandler.Get)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", teamViewHandler.List)
				r.Get("/{teamID}", teamViewHandler.Get)
				r.Get("/{teamID}/invitations", teamViewHandler.Invitations)
			})

			r.Get("/users", userHandler.List)
		})
	})

	return r
}
