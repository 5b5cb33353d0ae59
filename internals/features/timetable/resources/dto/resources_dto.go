// file: internals/features/timetable/resources/dto/resources_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"
)

/* =========================================================
   RESOURCE KINDS
   Kind dispatch mirrors the create/delete operations the
   conversational layer issues ("days", "teachers", ...).
   ========================================================= */

const (
	KindDays      = "days"
	KindHours     = "hours"
	KindSubjects  = "subjects"
	KindTags      = "tags"
	KindTeachers  = "teachers"
	KindBuildings = "buildings"
	KindRooms     = "rooms"
	KindYears     = "years"
	KindGroups    = "groups"
	KindSubGroups = "subgroups"
)

func IsResourceKind(kind string) bool {
	switch kind {
	case KindDays, KindHours, KindSubjects, KindTags, KindTeachers,
		KindBuildings, KindRooms, KindYears, KindGroups, KindSubGroups:
		return true
	}
	return false
}

/* ============================ CREATE ============================ */

// CreateResourceItem is the union payload for a single batch item.
// Name is always required; the other fields only apply to some kinds
// (teachers: target hours + qualified subjects, rooms: building +
// capacity, groups: year, subgroups: group).
type CreateResourceItem struct {
	Name     string  `json:"name" validate:"required,min=1,max=160"`
	LongName *string `json:"long_name" validate:"omitempty,max=160"`

	TargetHours         *int        `json:"target_hours" validate:"omitempty,min=0"`
	QualifiedSubjectIDs []uuid.UUID `json:"qualified_subject_ids"`

	BuildingID *uuid.UUID `json:"building_id"`
	Capacity   *int       `json:"capacity" validate:"omitempty,min=1"`

	YearID  *uuid.UUID `json:"year_id"`
	GroupID *uuid.UUID `json:"group_id"`
}

type CreateResourcesRequest struct {
	Items []CreateResourceItem `json:"items" validate:"required,min=1,dive"`
}

func (r *CreateResourcesRequest) Normalize() {
	for i := range r.Items {
		r.Items[i].Name = strings.TrimSpace(r.Items[i].Name)
		if r.Items[i].LongName != nil {
			v := strings.TrimSpace(*r.Items[i].LongName)
			if v == "" {
				r.Items[i].LongName = nil
			} else {
				r.Items[i].LongName = &v
			}
		}
		r.Items[i].QualifiedSubjectIDs = DedupeIDs(r.Items[i].QualifiedSubjectIDs)
	}
}

/* ============================ UPDATE ============================ */

// UpdateResourceItem patches a single resource. Only provided fields
// change. The same union rules as CreateResourceItem apply; parent
// ids (building, year, group) are fixed at creation and cannot move.
type UpdateResourceItem struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=160"`
	LongName *string `json:"long_name" validate:"omitempty,max=160"`

	TargetHours         *int         `json:"target_hours" validate:"omitempty,min=0"`
	QualifiedSubjectIDs *[]uuid.UUID `json:"qualified_subject_ids"`

	Capacity *int `json:"capacity" validate:"omitempty,min=1"`
}

func (r *UpdateResourceItem) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		if v == "" {
			r.Name = nil
		} else {
			r.Name = &v
		}
	}
	if r.LongName != nil {
		v := strings.TrimSpace(*r.LongName)
		r.LongName = &v
	}
	if r.QualifiedSubjectIDs != nil {
		deduped := DedupeIDs(*r.QualifiedSubjectIDs)
		r.QualifiedSubjectIDs = &deduped
	}
}

// DedupeIDs removes duplicates while keeping first-seen order.
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
