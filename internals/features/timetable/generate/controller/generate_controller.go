// file: internals/features/timetable/generate/controller/generate_controller.go
package controller

import (
	"bufio"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	service "timetable_backend/internals/features/timetable/generate/service"
	helper "timetable_backend/internals/helpers"
)

type GenerateController struct {
	Service *service.ExportService
}

func NewGenerateController(db *gorm.DB) *GenerateController {
	return &GenerateController{Service: service.NewExportService(db)}
}

// POST /api/u/timetables/:timetable_id/generate
// Runs the full export pipeline and streams the solver output
// directory back as a zip. Any failure before the first byte is
// written surfaces as a normal JSON error; the working directory is
// removed in every outcome.
func (ctl *GenerateController) Generate(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	timetableID, err := helper.ParamUUID(c, "timetable_id")
	if err != nil {
		return err
	}

	job, err := ctl.Service.Prepare(c.Context(), timetableID, userID)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+job.Filename+`"`)

	// the stream writer runs after this handler returns; cleanup is
	// bound to it so the temp dir goes away exactly when the response
	// ends, even if the client disconnects mid-stream
	svc := ctl.Service
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer job.Cleanup()
		streamErr := job.WriteZip(w)
		if streamErr == nil {
			streamErr = w.Flush()
		}
		svc.FinishStreaming(job.TimetableID, streamErr)
	})
	return nil
}
