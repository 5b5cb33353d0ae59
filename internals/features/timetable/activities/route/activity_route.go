package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"timetable_backend/internals/features/timetable/activities/controller"
)

func ActivityUserRoutes(user fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := controller.NewActivityController(db, validate)

	acts := user.Group("/timetables/:timetable_id/activities")
	acts.Post("/", ctl.Create)
	acts.Get("/", ctl.FindByTimetable)
	acts.Get("/:id", ctl.FindOne)
	acts.Patch("/:id", ctl.Update)
	acts.Delete("/:id", ctl.Delete)
}
