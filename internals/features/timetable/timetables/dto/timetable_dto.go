// file: internals/features/timetable/timetables/dto/timetable_dto.go
package dto

import (
	"strings"

	model "timetable_backend/internals/features/timetable/timetables/model"
)

/* ============================ CREATE ============================ */

type CreateTimetableRequest struct {
	InstitutionName string `json:"timetable_institution_name" validate:"required,min=1,max=160"`
}

func (r *CreateTimetableRequest) Normalize() {
	r.InstitutionName = strings.TrimSpace(r.InstitutionName)
}

func (r CreateTimetableRequest) ToModel() model.TimetableModel {
	return model.TimetableModel{
		TimetableInstitutionName: r.InstitutionName,
	}
}

/* ============================ UPDATE ============================ */

type UpdateTimetableRequest struct {
	InstitutionName *string `json:"timetable_institution_name" validate:"omitempty,min=1,max=160"`
}

func (r *UpdateTimetableRequest) Normalize() {
	if r.InstitutionName != nil {
		v := strings.TrimSpace(*r.InstitutionName)
		r.InstitutionName = &v
	}
}

/* ============================ OVERVIEW ============================ */

type TimetableOverview struct {
	TimetableID     string `json:"timetable_id"`
	InstitutionName string `json:"institution_name"`
	TotalDays       int64  `json:"total_days"`
	TotalHours      int64  `json:"total_hours"`
	TotalSubjects   int64  `json:"total_subjects"`
	TotalTeachers   int64  `json:"total_teachers"`
	TotalYears      int64  `json:"total_years"`
	TotalActivities int64  `json:"total_activities"`
}
