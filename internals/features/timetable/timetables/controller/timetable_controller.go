// file: internals/features/timetable/timetables/controller/timetable_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "timetable_backend/internals/features/timetable/timetables/dto"
	service "timetable_backend/internals/features/timetable/timetables/service"
	helper "timetable_backend/internals/helpers"
)

type TimetableController struct {
	Service  *service.TimetableService
	Validate *validator.Validate
}

func NewTimetableController(db *gorm.DB, validate *validator.Validate) *TimetableController {
	return &TimetableController{
		Service:  service.NewTimetableService(db),
		Validate: validate,
	}
}

// POST /api/u/timetables
func (ctl *TimetableController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req dto.CreateTimetableRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	tt, err := ctl.Service.Create(c.Context(), userID, req)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Timetable created", tt)
}

// GET /api/u/timetables
func (ctl *TimetableController) FindAll(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "timetable_created_at", "desc", helper.DefaultOpts)
	rows, total, err := ctl.Service.FindAll(c.Context(), userID, p)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", fiber.Map{
		"timetables": rows,
		"pagination": helper.BuildMeta(total, p),
	})
}

// GET /api/u/timetables/:timetable_id
func (ctl *TimetableController) FindOne(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}

	tt, err := ctl.Service.FindOne(c.Context(), timetableID, userID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", tt)
}

// GET /api/u/timetables/:timetable_id/full
func (ctl *TimetableController) FindFull(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}

	tt, err := ctl.Service.FindFull(c.Context(), timetableID, userID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", tt)
}

// GET /api/u/timetables/:timetable_id/overview
func (ctl *TimetableController) Overview(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}

	ov, err := ctl.Service.Overview(c.Context(), timetableID, userID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", ov)
}

// PATCH /api/u/timetables/:timetable_id
func (ctl *TimetableController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}

	var req dto.UpdateTimetableRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	tt, err := ctl.Service.Update(c.Context(), timetableID, userID, req)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Timetable updated", tt)
}

// DELETE /api/u/timetables/:timetable_id
func (ctl *TimetableController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}

	if err := ctl.Service.Delete(c.Context(), timetableID, userID); err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Timetable deleted", nil)
}
