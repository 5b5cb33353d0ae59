// file: internals/features/timetable/activities/service/gateway.go
package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timetable_backend/internals/apperr"
	dto "timetable_backend/internals/features/timetable/activities/dto"
	cohortModel "timetable_backend/internals/features/timetable/cohorts/model"
	resModel "timetable_backend/internals/features/timetable/resources/model"
)

/* =========================================================
   VALIDATION GATEWAY
   The timetable's full id sets are loaded ONCE per call and
   every referenced id is checked in memory, never one query
   per id, which goes quadratic under batch creation.
   Batch validation collects every violation before failing.
   ========================================================= */

type refSets struct {
	HourCount int
	Subjects  map[uuid.UUID]struct{}
	Teachers  map[uuid.UUID]struct{}
	Years     map[uuid.UUID]struct{}
	Groups    map[uuid.UUID]struct{}
	SubGroups map[uuid.UUID]struct{}
	Tags      map[uuid.UUID]struct{}
}

func loadRefSets(tx *gorm.DB, timetableID uuid.UUID) (*refSets, error) {
	sets := &refSets{}

	var hourCount int64
	if err := tx.Model(&resModel.HourModel{}).
		Where("hour_timetable_id = ?", timetableID).
		Count(&hourCount).Error; err != nil {
		return nil, err
	}
	sets.HourCount = int(hourCount)

	pluck := func(m any, scopeCol, pkCol string) (map[uuid.UUID]struct{}, error) {
		var ids []uuid.UUID
		if err := tx.Model(m).Where(scopeCol+" = ?", timetableID).Pluck(pkCol, &ids).Error; err != nil {
			return nil, err
		}
		set := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		return set, nil
	}

	var err error
	if sets.Subjects, err = pluck(&resModel.SubjectModel{}, "subject_timetable_id", "subject_id"); err != nil {
		return nil, err
	}
	if sets.Teachers, err = pluck(&resModel.TeacherModel{}, "teacher_timetable_id", "teacher_id"); err != nil {
		return nil, err
	}
	if sets.Years, err = pluck(&cohortModel.YearModel{}, "year_timetable_id", "year_id"); err != nil {
		return nil, err
	}
	if sets.Groups, err = pluck(&cohortModel.GroupModel{}, "group_timetable_id", "group_id"); err != nil {
		return nil, err
	}
	if sets.SubGroups, err = pluck(&cohortModel.SubGroupModel{}, "sub_group_timetable_id", "sub_group_id"); err != nil {
		return nil, err
	}
	if sets.Tags, err = pluck(&resModel.TagModel{}, "tag_timetable_id", "tag_id"); err != nil {
		return nil, err
	}
	return sets, nil
}

func (s *refSets) checkMembership(idx int, field string, set map[uuid.UUID]struct{}, ids []uuid.UUID) []apperr.Violation {
	var out []apperr.Violation
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			out = append(out, apperr.Violation{
				Index:   idx,
				Field:   field,
				Message: fmt.Sprintf("activity %d: %s %s does not belong to this timetable", idx, field, id),
			})
		}
	}
	return out
}

func (s *refSets) checkDuration(idx int, duration int) []apperr.Violation {
	if duration <= s.HourCount {
		return nil
	}
	return []apperr.Violation{{
		Index:   idx,
		Field:   "activity_duration",
		Message: fmt.Sprintf("activity %d: duration %d exceeds the timetable's hour count %d", idx, duration, s.HourCount),
	}}
}

// validateCreate checks one batch item against the pre-loaded id sets.
func (s *refSets) validateCreate(idx int, req dto.CreateActivityRequest) []apperr.Violation {
	var out []apperr.Violation
	out = append(out, s.checkDuration(idx, req.Duration)...)
	if _, ok := s.Subjects[req.SubjectID]; !ok {
		out = append(out, apperr.Violation{
			Index:   idx,
			Field:   "activity_subject_id",
			Message: fmt.Sprintf("activity %d: subject %s does not belong to this timetable", idx, req.SubjectID),
		})
	}
	out = append(out, s.checkMembership(idx, "teacher_id", s.Teachers, req.TeacherIDs)...)
	out = append(out, s.checkMembership(idx, "year_id", s.Years, req.YearIDs)...)
	out = append(out, s.checkMembership(idx, "group_id", s.Groups, req.GroupIDs)...)
	out = append(out, s.checkMembership(idx, "sub_group_id", s.SubGroups, req.SubGroupIDs)...)
	out = append(out, s.checkMembership(idx, "tag_id", s.Tags, req.TagIDs)...)
	return out
}

// validatePatch checks only the fields the patch provides. newDuration
// is the effective duration after the patch.
func (s *refSets) validatePatch(req dto.UpdateActivityRequest, newDuration int) []apperr.Violation {
	var out []apperr.Violation
	out = append(out, s.checkDuration(0, newDuration)...)
	if req.SubjectID != nil {
		if _, ok := s.Subjects[*req.SubjectID]; !ok {
			out = append(out, apperr.Violation{
				Field:   "activity_subject_id",
				Message: fmt.Sprintf("subject %s does not belong to this timetable", *req.SubjectID),
			})
		}
	}
	if req.TeacherIDs != nil {
		out = append(out, s.checkMembership(0, "teacher_id", s.Teachers, *req.TeacherIDs)...)
	}
	if req.YearIDs != nil {
		out = append(out, s.checkMembership(0, "year_id", s.Years, *req.YearIDs)...)
	}
	if req.GroupIDs != nil {
		out = append(out, s.checkMembership(0, "group_id", s.Groups, *req.GroupIDs)...)
	}
	if req.SubGroupIDs != nil {
		out = append(out, s.checkMembership(0, "sub_group_id", s.SubGroups, *req.SubGroupIDs)...)
	}
	if req.TagIDs != nil {
		out = append(out, s.checkMembership(0, "tag_id", s.Tags, *req.TagIDs)...)
	}
	return out
}
