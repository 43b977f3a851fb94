package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	controller "collabboard/controllers"
	"collabboard/middleware"
	"collabboard/store"
)

// SetupRoutes wires the HTTP surface onto the app. The store is injected
// into every controller rather than read from a package global.
func SetupRoutes(app *fiber.App, s *store.Store, log *logrus.Logger) {
	authController := controller.NewAuthController(s, log)
	teamController := controller.NewTeamController(s, log)
	taskController := controller.NewTaskController(s, log)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", middleware.APIRateLimiter(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Post("/refresh", authController.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	auth.Get("/me", middleware.Protected(s), authController.GetCurrentUser)

	// Team routes
	teams := api.Group("/teams", middleware.Protected(s))
	teams.Post("/", teamController.CreateTeam)
	teams.Get("/", teamController.GetTeams)
	teams.Get("/:id", teamController.GetTeam)
	teams.Put("/:id", teamController.UpdateTeam)
	teams.Delete("/:id", teamController.DeleteTeam)
	teams.Post("/:id/members", teamController.AddMember)

	// Task routes. The stats route must register before /:id so "stats"
	// doesn't match as a task id.
	tasks := api.Group("/tasks", middleware.Protected(s))
	tasks.Get("/stats", taskController.GetTaskStats)
	tasks.Post("/", taskController.CreateTask)
	tasks.Get("/", taskController.GetTasks)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Delete("/:id", taskController.DeleteTask)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "The requested resource was not found",
		})
	})
}
