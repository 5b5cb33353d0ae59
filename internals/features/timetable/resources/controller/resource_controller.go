// file: internals/features/timetable/resources/controller/resource_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "timetable_backend/internals/features/timetable/resources/dto"
	service "timetable_backend/internals/features/timetable/resources/service"
	helper "timetable_backend/internals/helpers"
)

// ResourceController serves every resource kind through one set of
// handlers; :kind selects days, hours, subjects, tags, teachers,
// buildings, rooms, years, groups or sub_groups.
type ResourceController struct {
	Service  *service.ResourceService
	Validate *validator.Validate
}

func NewResourceController(db *gorm.DB, validate *validator.Validate) *ResourceController {
	return &ResourceController{
		Service:  service.NewResourceService(db),
		Validate: validate,
	}
}

// POST /api/u/timetables/:timetable_id/resources/:kind
func (ctl *ResourceController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}
	kind := c.Params("kind")
	if !dto.IsResourceKind(kind) {
		return helper.Error(c, fiber.StatusNotFound, "Unknown resource kind: "+kind)
	}

	var req dto.CreateResourcesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	created, err := ctl.Service.CreateResources(c.Context(), timetableID, userID, kind, req.Items)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Resources created", fiber.Map{kind: created})
}

// GET /api/u/timetables/:timetable_id/resources/:kind
func (ctl *ResourceController) FindByKind(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}
	kind := c.Params("kind")
	if !dto.IsResourceKind(kind) {
		return helper.Error(c, fiber.StatusNotFound, "Unknown resource kind: "+kind)
	}

	rows, err := ctl.Service.FindByKind(c.Context(), timetableID, userID, kind)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "OK", fiber.Map{kind: rows})
}

// PATCH /api/u/timetables/:timetable_id/resources/:kind/:id
func (ctl *ResourceController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}
	kind := c.Params("kind")
	if !dto.IsResourceKind(kind) {
		return helper.Error(c, fiber.StatusNotFound, "Unknown resource kind: "+kind)
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateResourceItem
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updated, err := ctl.Service.UpdateResource(c.Context(), timetableID, userID, kind, id, req)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Resource updated", fiber.Map{"resource": updated})
}

// DELETE /api/u/timetables/:timetable_id/resources/:kind/:id
func (ctl *ResourceController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}
	kind := c.Params("kind")
	if !dto.IsResourceKind(kind) {
		return helper.Error(c, fiber.StatusNotFound, "Unknown resource kind: "+kind)
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	if err := ctl.Service.DeleteResource(c.Context(), timetableID, userID, kind, id); err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Resource deleted", nil)
}
