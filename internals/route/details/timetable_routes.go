package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ActivityRoutes "timetable_backend/internals/features/timetable/activities/route"
	GenerateRoutes "timetable_backend/internals/features/timetable/generate/route"
	ResourceRoutes "timetable_backend/internals/features/timetable/resources/route"
	TimetableRoutes "timetable_backend/internals/features/timetable/timetables/route"
)

// TimetableUserRoutes mounts every timetable feature under the
// authenticated user group. Registration order matters for Fiber's
// router: literal segments (full, overview, generate, resources,
// activities) are registered by the feature route files before the
// bare :timetable_id handlers can swallow them.
func TimetableUserRoutes(api fiber.Router, db *gorm.DB) {
	validate := validator.New()

	GenerateRoutes.GenerateUserRoutes(api, db)
	ResourceRoutes.ResourceUserRoutes(api, db, validate)
	ActivityRoutes.ActivityUserRoutes(api, db, validate)
	TimetableRoutes.TimetableUserRoutes(api, db, validate)
}
