package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"timetable_backend/internals/features/timetable/generate/controller"
)

func GenerateUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := controller.NewGenerateController(db)

	user.Post("/timetables/:timetable_id/generate", ctl.Generate)
}
