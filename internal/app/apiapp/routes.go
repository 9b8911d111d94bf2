package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/config"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	authsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/auth"
	childsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/childprofiles"
	cvsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/cv"
	docsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/documents"
	eventsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/events"
	profilesvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/profiles"
	regsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/registrations"
	reqsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/requests"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService         *authsvc.Service
	ProfileService      *profilesvc.Service
	ChildProfileService *childsvc.Service
	CVService           *cvsvc.Service
	EventService        *eventsvc.Service
	DocumentService     *docsvc.Service
	RegistrationService *regsvc.Service
	RequestService      *reqsvc.Service
	UserRepo            *pgrepo.UserRepo
	OrgRepo             *pgrepo.OrgRepo
	Logger              *zap.Logger
	Config              config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler()
	meHandler := handlers.NewMeHandler(deps.UserRepo)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	childHandler := handlers.NewChildProfileHandler(deps.ChildProfileService)
	cvHandler := handlers.NewCVHandler(deps.CVService)
	eventsHandler := handlers.NewEventsHandler(deps.EventService)
	documentsHandler := handlers.NewDocumentsHandler(deps.DocumentService)
	registrationsHandler := handlers.NewRegistrationsHandler(deps.RegistrationService)
	requestsHandler := handlers.NewRequestsHandler(deps.RequestService)
	catalogHandler := handlers.NewCatalogHandler(deps.OrgRepo)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	staffMW := RequireRole("AGENT", "ADMIN")

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/exchange", authHandler.Exchange)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/v1", func(r chi.Router) {
		r.With(authMW).Get("/me", meHandler.Get)

		r.Get("/orgs", catalogHandler.ListOrgs)
		r.Get("/orgs/{id}", catalogHandler.GetOrg)
		r.Get("/orgs/{id}/services", catalogHandler.ListOrgServices)

		r.Route("/profile", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", profileHandler.GetMine)
			r.Put("/", profileHandler.Upsert)
			r.Patch("/sections/{section}", profileHandler.UpdateSection)
			r.Put("/emergency_contacts", profileHandler.ReplaceEmergencyContacts)
			r.Post("/documents", profileHandler.AddDocument)
			r.Delete("/documents", profileHandler.RemoveDocument)
		})
		r.With(authMW).Get("/users/{user_id}/profile", profileHandler.GetByUser)

		r.Route("/child_profiles", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", childHandler.Create)
			r.Get("/", childHandler.ListMine)
			r.Get("/{id}", childHandler.Get)
			r.Put("/{id}", childHandler.Update)
			r.Put("/{id}/passport", childHandler.UpdatePassport)
			r.Put("/{id}/consular_card", childHandler.UpdateConsularCard)
			r.Put("/{id}/parents", childHandler.SetParents)
			r.Post("/{id}/documents", childHandler.LinkDocument)
			r.Post("/{id}/submit", childHandler.Submit)
			r.Delete("/{id}", childHandler.Remove)
		})

		r.Route("/cv", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", cvHandler.GetMine)
			r.Put("/basics", cvHandler.UpdateBasics)
			r.Post("/visibility", cvHandler.ToggleVisibility)
			r.Post("/experiences", cvHandler.AddExperience)
			r.Put("/experiences/{index}", cvHandler.UpdateExperience)
			r.Delete("/experiences/{index}", cvHandler.RemoveExperience)
			r.Post("/education", cvHandler.AddEducation)
			r.Put("/education/{index}", cvHandler.UpdateEducation)
			r.Delete("/education/{index}", cvHandler.RemoveEducation)
			r.Post("/skills", cvHandler.AddSkill)
			r.Put("/skills/{index}", cvHandler.UpdateSkill)
			r.Delete("/skills/{index}", cvHandler.RemoveSkill)
			r.Post("/languages", cvHandler.AddLanguage)
			r.Put("/languages/{index}", cvHandler.UpdateLanguage)
			r.Delete("/languages/{index}", cvHandler.RemoveLanguage)
		})
		r.With(authMW).Get("/users/{user_id}/cv", cvHandler.GetByUser)

		r.Route("/targets/{target_type}/{id}", func(r chi.Router) {
			r.Use(authMW)
			r.With(staffMW).Get("/events", eventsHandler.History)
			r.Get("/notes", eventsHandler.Notes)
			r.Post("/notes", eventsHandler.AddNote)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", documentsHandler.Upload)
			r.Get("/", documentsHandler.ListMine)
			r.Get("/{id}/url", documentsHandler.DownloadURL)
			r.Delete("/{id}", documentsHandler.Remove)
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", registrationsHandler.Request)
			r.Get("/", registrationsHandler.ListMine)
			r.Get("/{id}", registrationsHandler.Get)
			r.With(staffMW).Post("/{id}/activate", registrationsHandler.Activate)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", requestsHandler.Create)
			r.Get("/", requestsHandler.ListMine)
			r.Get("/{id}", requestsHandler.Get)
			r.Put("/{id}", requestsHandler.UpdateDraft)
			r.Post("/{id}/submit", requestsHandler.Submit)
			r.Post("/{id}/cancel", requestsHandler.Cancel)
			r.With(staffMW).Post("/{id}/status", requestsHandler.SetStatus)
			r.With(staffMW).Post("/{id}/assign", requestsHandler.Assign)
		})
	})
}
