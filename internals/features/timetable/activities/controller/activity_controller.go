// file: internals/features/timetable/activities/controller/activity_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "timetable_backend/internals/features/timetable/activities/dto"
	service "timetable_backend/internals/features/timetable/activities/service"
	helper "timetable_backend/internals/helpers"
)

type ActivityController struct {
	Service  *service.ActivityService
	Validate *validator.Validate
}

func NewActivityController(db *gorm.DB, validate *validator.Validate) *ActivityController {
	return &ActivityController{
		Service:  service.NewActivityService(db),
		Validate: validate,
	}
}

// POST /api/u/timetables/:timetable_id/activities
// Accepts a batch; all activities are created or none.
func (ctl *ActivityController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}

	var req dto.CreateActivitiesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	created, err := ctl.Service.CreateMany(c.Context(), timetableID, userID, req.Activities)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Activities created", fiber.Map{"activities": created})
}

// GET /api/u/timetables/:timetable_id/activities
func (ctl *ActivityController) FindByTimetable(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "activity_created_at", "asc", helper.DefaultOpts)
	rows, total, err := ctl.Service.FindByTimetable(c.Context(), timetableID, userID, p)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", fiber.Map{
		"activities": rows,
		"pagination": helper.BuildMeta(total, p),
	})
}

// GET /api/u/timetables/:timetable_id/activities/:id
func (ctl *ActivityController) FindOne(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}
	activityID, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	act, err := ctl.Service.FindByID(c.Context(), timetableID, activityID, userID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", act)
}

// PATCH /api/u/timetables/:timetable_id/activities/:id
func (ctl *ActivityController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}
	activityID, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	act, err := ctl.Service.UpdateOne(c.Context(), timetableID, activityID, userID, req)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Activity updated", act)
}

// DELETE /api/u/timetables/:timetable_id/activities/:id
func (ctl *ActivityController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}
	activityID, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	if err := ctl.Service.DeleteOne(c.Context(), timetableID, activityID, userID); err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Activity deleted", nil)
}
