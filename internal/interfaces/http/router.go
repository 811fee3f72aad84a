package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/auth"
	"github.com/jhoicas/Caja-api/internal/application/report"
	appsession "github.com/jhoicas/Caja-api/internal/application/session"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	SessionUC *appsession.UseCase
	UserUC    *usecase.UserUseCase
	ReportUC  *report.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)

	// Sesiones de caja
	sessions := protected.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.SessionUC)
	sessions.Post("/", sessionHandler.Open)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/open", sessionHandler.FindOpen)
	sessions.Get("/:id", sessionHandler.GetByID)
	sessions.Post("/:id/close", sessionHandler.Close)
	sessions.Put("/:id/notes", sessionHandler.UpdateNotes)
	sessions.Post("/:id/transactions", sessionHandler.AddExpense)
	sessions.Post("/:id/flexi", sessionHandler.AddFlexi)
	sessions.Get("/:id/receipt", sessionHandler.Receipt)
	sessions.Put("/:id", admin, sessionHandler.AdminEdit)
	sessions.Delete("/:id", admin, sessionHandler.Delete)

	// Movimientos y recargas (edición mientras la sesión dueña siga abierta)
	transactions := protected.Group("/transactions")
	transactions.Put("/:id", sessionHandler.EditTransaction)
	transactions.Delete("/:id", sessionHandler.DeleteTransaction)

	flexi := protected.Group("/flexi")
	flexi.Put("/:id", sessionHandler.EditFlexi)
	flexi.Delete("/:id", sessionHandler.DeleteFlexi)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/", reportHandler.Summary)

	// Usuarios (solo admin)
	users := protected.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Delete("/:id", userHandler.Delete)
}
