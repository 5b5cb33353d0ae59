package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"timetable_backend/internals/features/timetable/timetables/controller"
)

func TimetableUserRoutes(user fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := controller.NewTimetableController(db, validate)

	tt := user.Group("/timetables")
	tt.Post("/", ctl.Create)
	tt.Get("/", ctl.FindAll)
	tt.Get("/:timetable_id", ctl.FindOne)
	tt.Get("/:timetable_id/full", ctl.FindFull)
	tt.Get("/:timetable_id/overview", ctl.Overview)
	tt.Patch("/:timetable_id", ctl.Update)
	tt.Delete("/:timetable_id", ctl.Delete)
}
