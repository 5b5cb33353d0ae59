package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"timetable_backend/internals/features/timetable/resources/controller"
)

func ResourceUserRoutes(user fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := controller.NewResourceController(db, validate)

	res := user.Group("/timetables/:timetable_id/resources")
	res.Post("/:kind", ctl.Create)
	res.Get("/:kind", ctl.FindByKind)
	res.Patch("/:kind/:id", ctl.Update)
	res.Delete("/:kind/:id", ctl.Delete)
}
