// file: internals/features/timetable/activities/dto/activity_dto.go
package dto

import (
	"github.com/google/uuid"

	resDTO "timetable_backend/internals/features/timetable/resources/dto"
)

/* ============================ CREATE ============================ */

type CreateActivityRequest struct {
	Duration  int       `json:"activity_duration" validate:"required,min=1"`
	SubjectID uuid.UUID `json:"activity_subject_id" validate:"required"`

	TeacherIDs  []uuid.UUID `json:"teacher_ids"`
	YearIDs     []uuid.UUID `json:"year_ids"`
	GroupIDs    []uuid.UUID `json:"group_ids"`
	SubGroupIDs []uuid.UUID `json:"sub_group_ids"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

func (r *CreateActivityRequest) Normalize() {
	r.TeacherIDs = resDTO.DedupeIDs(r.TeacherIDs)
	r.YearIDs = resDTO.DedupeIDs(r.YearIDs)
	r.GroupIDs = resDTO.DedupeIDs(r.GroupIDs)
	r.SubGroupIDs = resDTO.DedupeIDs(r.SubGroupIDs)
	r.TagIDs = resDTO.DedupeIDs(r.TagIDs)
}

type CreateActivitiesRequest struct {
	Activities []CreateActivityRequest `json:"activities" validate:"required,min=1,dive"`
}

func (r *CreateActivitiesRequest) Normalize() {
	for i := range r.Activities {
		r.Activities[i].Normalize()
	}
}

/* ============================ UPDATE ============================ */

// UpdateActivityRequest is a patch: nil means "leave unchanged", a
// pointer to an empty slice clears the reference list.
type UpdateActivityRequest struct {
	Duration  *int       `json:"activity_duration" validate:"omitempty,min=1"`
	SubjectID *uuid.UUID `json:"activity_subject_id"`

	TeacherIDs  *[]uuid.UUID `json:"teacher_ids"`
	YearIDs     *[]uuid.UUID `json:"year_ids"`
	GroupIDs    *[]uuid.UUID `json:"group_ids"`
	SubGroupIDs *[]uuid.UUID `json:"sub_group_ids"`
	TagIDs      *[]uuid.UUID `json:"tag_ids"`
}

func (r *UpdateActivityRequest) Normalize() {
	if r.TeacherIDs != nil {
		*r.TeacherIDs = resDTO.DedupeIDs(*r.TeacherIDs)
	}
	if r.YearIDs != nil {
		*r.YearIDs = resDTO.DedupeIDs(*r.YearIDs)
	}
	if r.SubGroupIDs != nil {
		*r.SubGroupIDs = resDTO.DedupeIDs(*r.SubGroupIDs)
	}
	if r.GroupIDs != nil {
		*r.GroupIDs = resDTO.DedupeIDs(*r.GroupIDs)
	}
	if r.TagIDs != nil {
		*r.TagIDs = resDTO.DedupeIDs(*r.TagIDs)
	}
}
