// file: internals/features/timetable/activities/service/activity_service.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timetable_backend/internals/apperr"
	dto "timetable_backend/internals/features/timetable/activities/dto"
	model "timetable_backend/internals/features/timetable/activities/model"
	cohortModel "timetable_backend/internals/features/timetable/cohorts/model"
	resModel "timetable_backend/internals/features/timetable/resources/model"
	ttService "timetable_backend/internals/features/timetable/timetables/service"
	helper "timetable_backend/internals/helpers"
)

type ActivityService struct {
	DB *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{DB: db}
}

/* ============================ READ ============================ */

func (s *ActivityService) FindByTimetable(ctx context.Context, timetableID, userID uuid.UUID, p helper.Params) ([]model.ActivityModel, int64, error) {
	if _, err := ttService.FindOwned(s.DB.WithContext(ctx), timetableID, userID); err != nil {
		return nil, 0, err
	}

	q := s.DB.WithContext(ctx).Model(&model.ActivityModel{}).
		Where("activity_timetable_id = ?", timetableID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.ActivityModel
	if err := withAssociations(q).
		Order("activity_created_at ASC, activity_id ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *ActivityService) FindByID(ctx context.Context, timetableID, activityID, userID uuid.UUID) (*model.ActivityModel, error) {
	if _, err := ttService.FindOwned(s.DB.WithContext(ctx), timetableID, userID); err != nil {
		return nil, err
	}
	return loadActivity(s.DB.WithContext(ctx), timetableID, activityID)
}

/* ============================ CREATE ============================ */

// CreateMany validates the whole batch against the timetable's id
// sets, then inserts the activities and bumps every referenced
// assigned_hours counter inside one transaction.
func (s *ActivityService) CreateMany(ctx context.Context, timetableID, userID uuid.UUID, reqs []dto.CreateActivityRequest) ([]model.ActivityModel, error) {
	var created []model.ActivityModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ttService.FindOwned(tx, timetableID, userID); err != nil {
			return err
		}

		sets, err := loadRefSets(tx, timetableID)
		if err != nil {
			return err
		}

		var violations []apperr.Violation
		for i, req := range reqs {
			violations = append(violations, sets.validateCreate(i, req)...)
		}
		if len(violations) > 0 {
			return apperr.Validation(violations)
		}

		acts := make([]model.ActivityModel, 0, len(reqs))
		for _, req := range reqs {
			acts = append(acts, model.ActivityModel{
				ActivityTimetableID: timetableID,
				ActivityDuration:    req.Duration,
				ActivitySubjectID:   req.SubjectID,
				Teachers:            teacherRefs(req.TeacherIDs),
				Years:               yearRefs(req.YearIDs),
				Groups:              groupRefs(req.GroupIDs),
				SubGroups:           subGroupRefs(req.SubGroupIDs),
				Tags:                tagRefs(req.TagIDs),
			})
		}

		if err := tx.Create(&acts).Error; err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23503" {
				return apperr.Validation([]apperr.Violation{{
					Message: "one of the referenced ids does not exist in this timetable",
				}})
			}
			return err
		}

		for i := range acts {
			if err := adjustAssignedHours(tx, refsOf(&acts[i]), acts[i].ActivityDuration); err != nil {
				return err
			}
		}

		created = acts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

/* ============================ UPDATE ============================ */

// UpdateOne applies a patch. Counter upkeep decrements the full
// pre-update reference snapshot by the old duration, then increments
// the full post-update snapshot by the new duration.
func (s *ActivityService) UpdateOne(ctx context.Context, timetableID, activityID, userID uuid.UUID, req dto.UpdateActivityRequest) (*model.ActivityModel, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ttService.FindOwned(tx, timetableID, userID); err != nil {
			return err
		}

		existing, err := loadActivity(tx, timetableID, activityID)
		if err != nil {
			return err
		}

		sets, err := loadRefSets(tx, timetableID)
		if err != nil {
			return err
		}

		newDuration := existing.ActivityDuration
		if req.Duration != nil {
			newDuration = *req.Duration
		}
		if violations := sets.validatePatch(req, newDuration); len(violations) > 0 {
			return apperr.Validation(violations)
		}

		oldRefs := refsOf(existing)
		oldDuration := existing.ActivityDuration

		if err := adjustAssignedHours(tx, oldRefs, -oldDuration); err != nil {
			return err
		}

		updates := map[string]any{"activity_duration": newDuration}
		if req.SubjectID != nil {
			updates["activity_subject_id"] = *req.SubjectID
		}
		if err := tx.Model(existing).UpdateColumns(updates).Error; err != nil {
			return err
		}

		newRefs := oldRefs
		if req.TeacherIDs != nil {
			if err := tx.Model(existing).Association("Teachers").Replace(teacherRefs(*req.TeacherIDs)); err != nil {
				return err
			}
			newRefs.TeacherIDs = *req.TeacherIDs
		}
		if req.YearIDs != nil {
			if err := tx.Model(existing).Association("Years").Replace(yearRefs(*req.YearIDs)); err != nil {
				return err
			}
			newRefs.YearIDs = *req.YearIDs
		}
		if req.GroupIDs != nil {
			if err := tx.Model(existing).Association("Groups").Replace(groupRefs(*req.GroupIDs)); err != nil {
				return err
			}
			newRefs.GroupIDs = *req.GroupIDs
		}
		if req.SubGroupIDs != nil {
			if err := tx.Model(existing).Association("SubGroups").Replace(subGroupRefs(*req.SubGroupIDs)); err != nil {
				return err
			}
			newRefs.SubGroupIDs = *req.SubGroupIDs
		}
		if req.TagIDs != nil {
			if err := tx.Model(existing).Association("Tags").Replace(tagRefs(*req.TagIDs)); err != nil {
				return err
			}
		}

		return adjustAssignedHours(tx, newRefs, newDuration)
	})
	if err != nil {
		return nil, err
	}
	return loadActivity(s.DB.WithContext(ctx), timetableID, activityID)
}

/* ============================ DELETE ============================ */

// DeleteOne removes the activity and decrements every counter from
// the entity's pre-deletion state. Deleting an already-deleted
// activity is NotFound and touches nothing.
func (s *ActivityService) DeleteOne(ctx context.Context, timetableID, activityID, userID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ttService.FindOwned(tx, timetableID, userID); err != nil {
			return err
		}

		existing, err := loadActivity(tx, timetableID, activityID)
		if err != nil {
			return err
		}

		if err := adjustAssignedHours(tx, refsOf(existing), -existing.ActivityDuration); err != nil {
			return err
		}

		// Select(Associations) clears the join rows with the activity.
		return tx.Select(clause.Associations).Delete(existing).Error
	})
}

/* ============================ internals ============================ */

func withAssociations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Subject").
		Preload("Teachers").
		Preload("Years").
		Preload("Groups").
		Preload("SubGroups").
		Preload("Tags")
}

func loadActivity(db *gorm.DB, timetableID, activityID uuid.UUID) (*model.ActivityModel, error) {
	var act model.ActivityModel
	err := withAssociations(db).
		Where("activity_id = ? AND activity_timetable_id = ?", activityID, timetableID).
		First(&act).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("activity")
	}
	if err != nil {
		return nil, err
	}
	return &act, nil
}

func teacherRefs(ids []uuid.UUID) []resModel.TeacherModel {
	out := make([]resModel.TeacherModel, 0, len(ids))
	for _, id := range ids {
		out = append(out, resModel.TeacherModel{TeacherID: id})
	}
	return out
}

func yearRefs(ids []uuid.UUID) []cohortModel.YearModel {
	out := make([]cohortModel.YearModel, 0, len(ids))
	for _, id := range ids {
		out = append(out, cohortModel.YearModel{YearID: id})
	}
	return out
}

func groupRefs(ids []uuid.UUID) []cohortModel.GroupModel {
	out := make([]cohortModel.GroupModel, 0, len(ids))
	for _, id := range ids {
		out = append(out, cohortModel.GroupModel{GroupID: id})
	}
	return out
}

func subGroupRefs(ids []uuid.UUID) []cohortModel.SubGroupModel {
	out := make([]cohortModel.SubGroupModel, 0, len(ids))
	for _, id := range ids {
		out = append(out, cohortModel.SubGroupModel{SubGroupID: id})
	}
	return out
}

func tagRefs(ids []uuid.UUID) []resModel.TagModel {
	out := make([]resModel.TagModel, 0, len(ids))
	for _, id := range ids {
		out = append(out, resModel.TagModel{TagID: id})
	}
	return out
}
