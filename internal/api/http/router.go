package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/api/http/handlers"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/auth"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Clients        *handlers.ClientsHandler
	Masterdata     *handlers.MasterdataHandler
	Requests       *handlers.RequestsHandler
	Activities     *handlers.ActivitiesHandler
	Contracts      *handlers.ContractsHandler
	Schedules      *handlers.SchedulesHandler
	Chat           *handlers.ChatHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Get("/setup-status", cfg.Auth.SetupStatus)
	authGroup.Post("/setup", cfg.Auth.Setup)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/change-password", cfg.Auth.ChangePassword)
	authProtected.Post("/register", auth.Require(authz.OpUserManage), cfg.Users.CreateUser)

	api := app.Group("", cfg.AuthMiddleware.Handle)

	api.Get("/metrics", auth.Require(authz.OpUserManage), cfg.Health.Metrics)

	users := api.Group("/users", auth.Require(authz.OpUserManage))
	users.Post("", cfg.Users.CreateUser)
	users.Get("", cfg.Users.ListUsers)
	users.Post("/transfer-super-admin", cfg.Users.TransferSuperAdmin)
	users.Get("/:id", cfg.Users.GetUser)
	users.Put("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)

	clients := api.Group("/clients")
	clients.Post("", auth.Require(authz.OpClientWrite), cfg.Clients.CreateClient)
	clients.Get("", auth.Require(authz.OpClientRead), cfg.Clients.ListClients)
	clients.Get("/:id", auth.Require(authz.OpClientRead), cfg.Clients.GetClient)
	clients.Put("/:id", auth.Require(authz.OpClientWrite), cfg.Clients.UpdateClient)
	clients.Delete("/:id", auth.Require(authz.OpClientWrite), cfg.Clients.DeactivateClient)
	clients.Post("/:id/reactivate", auth.Require(authz.OpClientWrite), cfg.Clients.ReactivateClient)
	clients.Post("/:id/sites", auth.Require(authz.OpClientWrite), cfg.Clients.AddSite)
	clients.Get("/:id/sites", auth.Require(authz.OpClientRead), cfg.Clients.ListSites)
	clients.Put("/:id/sites/:siteId", auth.Require(authz.OpClientWrite), cfg.Clients.UpdateSite)
	clients.Delete("/:id/sites/:siteId", auth.Require(authz.OpClientWrite), cfg.Clients.DeleteSite)

	scopes := api.Group("/scopes")
	scopes.Post("", auth.Require(authz.OpScopeWrite), cfg.Masterdata.CreateScope)
	scopes.Get("", auth.Require(authz.OpScopeRead), cfg.Masterdata.ListScopes)
	scopes.Get("/:id", auth.Require(authz.OpScopeRead), cfg.Masterdata.GetScope)
	scopes.Put("/:id", auth.Require(authz.OpScopeWrite), cfg.Masterdata.UpdateScope)

	workTypes := api.Group("/work-types")
	workTypes.Post("", auth.Require(authz.OpWorkTypeWrite), cfg.Masterdata.CreateWorkType)
	workTypes.Get("", auth.Require(authz.OpWorkTypeRead), cfg.Masterdata.ListWorkTypes)
	workTypes.Get("/:id", auth.Require(authz.OpWorkTypeRead), cfg.Masterdata.GetWorkType)
	workTypes.Put("/:id", auth.Require(authz.OpWorkTypeWrite), cfg.Masterdata.UpdateWorkType)

	requests := api.Group("/requests")
	requests.Post("", auth.Require(authz.OpRequestWrite), cfg.Requests.CreateRequest)
	requests.Get("", auth.Require(authz.OpRequestRead), cfg.Requests.ListRequests)
	requests.Get("/:id", auth.Require(authz.OpRequestRead), cfg.Requests.GetRequest)
	requests.Put("/:id", auth.Require(authz.OpRequestWrite), cfg.Requests.UpdateRequest)
	requests.Post("/:id/transition", auth.Require(authz.OpRequestWrite), cfg.Requests.TransitionRequest)
	requests.Delete("/:id", auth.Require(authz.OpRequestDelete), cfg.Requests.DeleteRequest)

	requests.Post("/:id/chat", auth.Require(authz.OpChatWrite), cfg.Chat.PostMessage)
	requests.Get("/:id/chat", auth.Require(authz.OpChatRead), cfg.Chat.ListMessages)
	requests.Post("/:id/chat/read", auth.Require(authz.OpChatRead), cfg.Chat.MarkRead)
	requests.Get("/:id/chat/unread", auth.Require(authz.OpChatRead), cfg.Chat.UnreadCount)

	activities := api.Group("/activities")
	activities.Post("", auth.Require(authz.OpActivityWrite), cfg.Activities.CreateActivity)
	activities.Get("", auth.Require(authz.OpActivityRead), cfg.Activities.ListActivities)
	activities.Get("/:id", auth.Require(authz.OpActivityRead), cfg.Activities.GetActivity)
	activities.Put("/:id", auth.Require(authz.OpActivityWrite), cfg.Activities.UpdateActivity)
	activities.Delete("/:id", auth.Require(authz.OpActivityWrite), cfg.Activities.DeleteActivity)
	activities.Post("/:id/transition", auth.Require(authz.OpActivityWrite), cfg.Activities.TransitionActivity)
	activities.Post("/:id/billing", auth.Require(authz.OpBillingSet), cfg.Activities.SetBilling)
	activities.Post("/:id/checkin", auth.Require(authz.OpTimeTrack), cfg.Activities.CheckIn)
	activities.Post("/:id/checkout", auth.Require(authz.OpTimeTrack), cfg.Activities.CheckOut)
	activities.Get("/:id/time-entries", auth.Require(authz.OpActivityRead), cfg.Activities.ListTimeEntries)
	activities.Post("/:id/technicians", auth.Require(authz.OpActivityWrite), cfg.Activities.AssignTechnician)
	activities.Delete("/:id/technicians/:technicianId", auth.Require(authz.OpActivityWrite), cfg.Activities.UnassignTechnician)

	templates := api.Group("/contract-templates")
	templates.Post("", auth.Require(authz.OpContractTemplateWrite), cfg.Contracts.CreateTemplate)
	templates.Get("", auth.Require(authz.OpContractTemplateRead), cfg.Contracts.ListTemplates)
	templates.Get("/:id", auth.Require(authz.OpContractTemplateRead), cfg.Contracts.GetTemplate)
	templates.Put("/:id", auth.Require(authz.OpContractTemplateWrite), cfg.Contracts.UpdateTemplate)
	templates.Post("/:id/lines", auth.Require(authz.OpContractTemplateWrite), cfg.Contracts.AddLine)
	templates.Put("/:id/lines/:lineId", auth.Require(authz.OpContractTemplateWrite), cfg.Contracts.UpdateLine)
	templates.Delete("/:id/lines/:lineId", auth.Require(authz.OpContractTemplateWrite), cfg.Contracts.RemoveLine)

	contracts := api.Group("/contracts")
	contracts.Post("", auth.Require(authz.OpClientContractWrite), cfg.Contracts.CreateClientContract)
	contracts.Get("", auth.Require(authz.OpClientContractRead), cfg.Contracts.ListClientContracts)
	contracts.Get("/:id", auth.Require(authz.OpClientContractRead), cfg.Contracts.GetClientContract)
	contracts.Put("/:id", auth.Require(authz.OpClientContractWrite), cfg.Contracts.UpdateClientContract)
	contracts.Post("/:id/usages", auth.Require(authz.OpClientContractWrite), cfg.Contracts.RecordUsage)
	contracts.Get("/:id/usages", auth.Require(authz.OpClientContractRead), cfg.Contracts.ListUsages)
	contracts.Post("/:id/topup", auth.Require(authz.OpContractTopUp), cfg.Contracts.TopUp)

	schedules := api.Group("/schedules")
	schedules.Post("", auth.Require(authz.OpScheduleWrite), cfg.Schedules.CreateSchedule)
	schedules.Get("", auth.Require(authz.OpScheduleRead), cfg.Schedules.ListSchedules)
	schedules.Get("/upcoming", auth.Require(authz.OpScheduleRead), cfg.Schedules.ListUpcoming)
	schedules.Get("/:id", auth.Require(authz.OpScheduleRead), cfg.Schedules.GetSchedule)
	schedules.Put("/:id", auth.Require(authz.OpScheduleWrite), cfg.Schedules.UpdateSchedule)
	schedules.Post("/:id/trigger", auth.Require(authz.OpScheduleWrite), cfg.Schedules.MarkTriggered)
	schedules.Delete("/:id", auth.Require(authz.OpScheduleWrite), cfg.Schedules.DeleteSchedule)
}
