package routes

import (
	"log"

	"classquiz/backend/config"
	"classquiz/backend/controllers"
	"classquiz/backend/middleware"
	"classquiz/backend/models"
	"classquiz/backend/services"
	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, svc *services.Service, cfg *config.Config, logger *log.Logger) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := svc.Ping(c.UserContext()); err != nil {
			logger.Printf("health check: %v", err)
			return utils.Error(c, fiber.StatusServiceUnavailable, "database_unavailable", "Database is not reachable")
		}
		return utils.Success(c, fiber.StatusOK, fiber.Map{"status": "ok"})
	})

	// Auth routes
	authController := controllers.NewAuthController(svc, cfg, logger)
	app.Post("/api/auth/register/teacher", authController.RegisterTeacher)
	app.Post("/api/auth/register/student", authController.RegisterStudent)
	app.Post("/api/auth/login", authController.Login)

	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(svc, cfg, logger)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)

	// Teacher routes
	teacherController := controllers.NewTeacherController(svc, cfg, logger)
	teacher := app.Group("/api/teacher", authMiddleware, middleware.RequireRole(models.RoleTeacher))
	teacher.Get("/quizzes", teacherController.ListQuizzes)
	teacher.Post("/quizzes", teacherController.CreateQuiz)
	teacher.Post("/quizzes/:id/questions", teacherController.AddQuestion)
	teacher.Get("/quizzes/:id/results", teacherController.GetResults)
	teacher.Get("/quizzes/:id/leaderboard", teacherController.GetLeaderboard)

	// Student routes; join is registered before /:id
	studentController := controllers.NewStudentController(svc, cfg, logger)
	student := app.Group("/api/student", authMiddleware, middleware.RequireRole(models.RoleStudent))
	student.Get("/quizzes", studentController.ListQuizzes)
	student.Post("/quizzes/join", studentController.JoinQuiz)
	student.Get("/quizzes/join", studentController.JoinQuiz)
	student.Get("/quizzes/:id", studentController.TakeQuiz)
	student.Post("/quizzes/:id/submit", studentController.SubmitQuiz)
	student.Get("/quizzes/:id/result", studentController.GetResult)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFound(c, "Route not found")
	})
}
