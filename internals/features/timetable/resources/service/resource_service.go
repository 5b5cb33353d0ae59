// file: internals/features/timetable/resources/service/resource_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timetable_backend/internals/apperr"
	cohortModel "timetable_backend/internals/features/timetable/cohorts/model"
	cohortService "timetable_backend/internals/features/timetable/cohorts/service"
	dto "timetable_backend/internals/features/timetable/resources/dto"
	model "timetable_backend/internals/features/timetable/resources/model"
	ttService "timetable_backend/internals/features/timetable/timetables/service"
)

type ResourceService struct {
	DB *gorm.DB
}

func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{DB: db}
}

/* =========================================================
   CREATE: kind dispatch
   The whole batch is validated first (ownership, scoped name
   uniqueness, foreign memberships); one violation rejects
   everything and nothing is persisted.
   ========================================================= */

func (s *ResourceService) CreateResources(ctx context.Context, timetableID, userID uuid.UUID, kind string, items []dto.CreateResourceItem) (any, error) {
	var out any
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ttService.FindOwned(tx, timetableID, userID); err != nil {
			return err
		}

		var err error
		switch kind {
		case dto.KindDays:
			out, err = createDays(tx, timetableID, items)
		case dto.KindHours:
			out, err = createHours(tx, timetableID, items)
		case dto.KindSubjects:
			out, err = createSubjects(tx, timetableID, items)
		case dto.KindTags:
			out, err = createTags(tx, timetableID, items)
		case dto.KindTeachers:
			out, err = createTeachers(tx, timetableID, items)
		case dto.KindBuildings:
			out, err = createBuildings(tx, timetableID, items)
		case dto.KindRooms:
			out, err = createRooms(tx, timetableID, items)
		case dto.KindYears:
			out, err = cohortService.CreateYears(tx, timetableID, names(items))
		case dto.KindGroups:
			yearIDs, vErr := requiredIDs(items, "year_id", func(it dto.CreateResourceItem) *uuid.UUID { return it.YearID })
			if vErr != nil {
				return vErr
			}
			out, err = cohortService.CreateGroups(tx, timetableID, yearIDs, names(items))
		case dto.KindSubGroups:
			groupIDs, vErr := requiredIDs(items, "group_id", func(it dto.CreateResourceItem) *uuid.UUID { return it.GroupID })
			if vErr != nil {
				return vErr
			}
			out, err = cohortService.CreateSubGroups(tx, timetableID, groupIDs, names(items))
		default:
			return apperr.NotFound("resource kind " + kind)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* ============================ per-kind creates ============================ */

func createDays(tx *gorm.DB, timetableID uuid.UUID, items []dto.CreateResourceItem) ([]model.DayModel, error) {
	if err := checkScopedNames(tx, &model.DayModel{}, "day_timetable_id", "day_name", timetableID, names(items), "day"); err != nil {
		return nil, err
	}
	rows := make([]model.DayModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.DayModel{DayTimetableID: timetableID, DayName: it.Name, DayLongName: it.LongName})
	}
	return rows, tx.Create(&rows).Error
}

func createHours(tx *gorm.DB, timetableID uuid.UUID, items []dto.CreateResourceItem) ([]model.HourModel, error) {
	if err := checkScopedNames(tx, &model.HourModel{}, "hour_timetable_id", "hour_name", timetableID, names(items), "hour"); err != nil {
		return nil, err
	}
	rows := make([]model.HourModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.HourModel{HourTimetableID: timetableID, HourName: it.Name, HourLongName: it.LongName})
	}
	return rows, tx.Create(&rows).Error
}

func createSubjects(tx *gorm.DB, timetableID uuid.UUID, items []dto.CreateResourceItem) ([]model.SubjectModel, error) {
	if err := checkScopedNames(tx, &model.SubjectModel{}, "subject_timetable_id", "subject_name", timetableID, names(items), "subject"); err != nil {
		return nil, err
	}
	rows := make([]model.SubjectModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.SubjectModel{SubjectTimetableID: timetableID, SubjectName: it.Name, SubjectLongName: it.LongName})
	}
	return rows, tx.Create(&rows).Error
}

func createTags(tx *gorm.DB, timetableID uuid.UUID, items []dto.CreateResourceItem) ([]model.TagModel, error) {
	if err := checkScopedNames(tx, &model.TagModel{}, "tag_timetable_id", "tag_name", timetableID, names(items), "tag"); err != nil {
		return nil, err
	}
	rows := make([]model.TagModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.TagModel{TagTimetableID: timetableID, TagName: it.Name, TagLongName: it.LongName})
	}
	return rows, tx.Create(&rows).Error
}

func createTeachers(tx *gorm.DB, timetableID uuid.UUID, items []dto.CreateResourceItem) ([]model.TeacherModel, error) {
	if err := checkScopedNames(tx, &model.TeacherModel{}, "teacher_timetable_id", "teacher_name", timetableID, names(items), "teacher"); err != nil {
		return nil, err
	}

	// qualified subjects must live in the same timetable
	var subjectIDs []uuid.UUID
	if err := tx.Model(&model.SubjectModel{}).
		Where("subject_timetable_id = ?", timetableID).
		Pluck("subject_id", &subjectIDs).Error; err != nil {
		return nil, err
	}
	subjects := make(map[uuid.UUID]struct{}, len(subjectIDs))
	for _, id := range subjectIDs {
		subjects[id] = struct{}{}
	}
	var violations []apperr.Violation
	for i, it := range items {
		for _, qs := range it.QualifiedSubjectIDs {
			if _, ok := subjects[qs]; !ok {
				violations = append(violations, apperr.Violation{
					Index:   i,
					Field:   "qualified_subject_ids",
					Message: fmt.Sprintf("subject %s does not belong to this timetable", qs),
				})
			}
		}
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations)
	}

	rows := make([]model.TeacherModel, 0, len(items))
	for _, it := range items {
		t := model.TeacherModel{TeacherTimetableID: timetableID, TeacherName: it.Name, TeacherLongName: it.LongName}
		if it.TargetHours != nil {
			t.TeacherTargetHours = *it.TargetHours
		}
		for _, qs := range it.QualifiedSubjectIDs {
			t.QualifiedSubjects = append(t.QualifiedSubjects, model.SubjectModel{SubjectID: qs})
		}
		rows = append(rows, t)
	}
	return rows, tx.Create(&rows).Error
}

func createBuildings(tx *gorm.DB, timetableID uuid.UUID, items []dto.CreateResourceItem) ([]model.BuildingModel, error) {
	if err := checkScopedNames(tx, &model.BuildingModel{}, "building_timetable_id", "building_name", timetableID, names(items), "building"); err != nil {
		return nil, err
	}
	rows := make([]model.BuildingModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.BuildingModel{BuildingTimetableID: timetableID, BuildingName: it.Name, BuildingLongName: it.LongName})
	}
	return rows, tx.Create(&rows).Error
}

func createRooms(tx *gorm.DB, timetableID uuid.UUID, items []dto.CreateResourceItem) ([]model.RoomModel, error) {
	// both lookups happen once for the whole batch
	var ownedBuildings []uuid.UUID
	if err := tx.Model(&model.BuildingModel{}).
		Where("building_timetable_id = ?", timetableID).
		Pluck("building_id", &ownedBuildings).Error; err != nil {
		return nil, err
	}
	buildingSet := make(map[uuid.UUID]struct{}, len(ownedBuildings))
	for _, id := range ownedBuildings {
		buildingSet[id] = struct{}{}
	}

	takenNames := map[string]struct{}{} // building/name pairs already stored
	if len(ownedBuildings) > 0 {
		var existing []model.RoomModel
		if err := tx.Model(&model.RoomModel{}).
			Select("room_building_id", "room_name").
			Where("room_building_id IN ?", ownedBuildings).
			Find(&existing).Error; err != nil {
			return nil, err
		}
		for _, r := range existing {
			takenNames[r.RoomBuildingID.String()+"/"+r.RoomName] = struct{}{}
		}
	}

	var violations []apperr.Violation
	var conflicts []apperr.Violation
	seen := map[string]struct{}{} // building/name pairs within the batch

	for i, it := range items {
		if it.BuildingID == nil {
			violations = append(violations, apperr.Violation{
				Index: i, Field: "building_id", Message: fmt.Sprintf("item %d: building_id is required for rooms", i),
			})
			continue
		}
		if _, ok := buildingSet[*it.BuildingID]; !ok {
			violations = append(violations, apperr.Violation{
				Index: i, Field: "building_id", Message: fmt.Sprintf("building %s does not belong to this timetable", *it.BuildingID),
			})
			continue
		}

		key := it.BuildingID.String() + "/" + it.Name
		if _, dup := seen[key]; dup {
			conflicts = append(conflicts, apperr.Violation{
				Index: i, Field: "name", Message: fmt.Sprintf("duplicate room name %q within the request", it.Name),
			})
			continue
		}
		seen[key] = struct{}{}

		if _, taken := takenNames[key]; taken {
			conflicts = append(conflicts, apperr.Violation{
				Index: i, Field: "name", Message: fmt.Sprintf("room name %q already exists in this building", it.Name),
			})
		}
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations)
	}
	if len(conflicts) > 0 {
		return nil, apperr.Conflict(conflicts)
	}

	rows := make([]model.RoomModel, 0, len(items))
	for _, it := range items {
		r := model.RoomModel{RoomBuildingID: *it.BuildingID, RoomName: it.Name}
		if it.Capacity != nil {
			r.RoomCapacity = *it.Capacity
		} else {
			r.RoomCapacity = 30
		}
		rows = append(rows, r)
	}
	return rows, tx.Create(&rows).Error
}

/* =========================================================
   UPDATE: kind dispatch
   Patch semantics: only provided fields change. A rename is
   revalidated against the same scoped uniqueness rules the
   create path enforces, excluding the row itself.
   ========================================================= */

func (s *ResourceService) UpdateResource(ctx context.Context, timetableID, userID uuid.UUID, kind string, id uuid.UUID, patch dto.UpdateResourceItem) (any, error) {
	var out any
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ttService.FindOwned(tx, timetableID, userID); err != nil {
			return err
		}

		var err error
		switch kind {
		case dto.KindDays:
			out, err = updateDay(tx, timetableID, id, patch)
		case dto.KindHours:
			out, err = updateHour(tx, timetableID, id, patch)
		case dto.KindSubjects:
			out, err = updateSubject(tx, timetableID, id, patch)
		case dto.KindTags:
			out, err = updateTag(tx, timetableID, id, patch)
		case dto.KindTeachers:
			out, err = updateTeacher(tx, timetableID, id, patch)
		case dto.KindBuildings:
			out, err = updateBuilding(tx, timetableID, id, patch)
		case dto.KindRooms:
			out, err = updateRoom(tx, timetableID, id, patch)
		case dto.KindYears:
			out, err = cohortService.RenameYear(tx, timetableID, id, patch.Name)
		case dto.KindGroups:
			out, err = cohortService.RenameGroup(tx, timetableID, id, patch.Name)
		case dto.KindSubGroups:
			out, err = cohortService.RenameSubGroup(tx, timetableID, id, patch.Name)
		default:
			return apperr.NotFound("resource kind " + kind)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// renameConflict rejects a new name already held by another row in
// the same scope.
func renameConflict(tx *gorm.DB, m any, pkCol, scopeCol, nameCol string, scopeID, selfID uuid.UUID, name, entity string) error {
	var n int64
	if err := tx.Model(m).
		Where(scopeCol+" = ? AND "+nameCol+" = ? AND "+pkCol+" <> ?", scopeID, name, selfID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict([]apperr.Violation{{
			Field:   "name",
			Message: fmt.Sprintf("%s name %q already exists in this timetable", entity, name),
		}})
	}
	return nil
}

func updateDay(tx *gorm.DB, timetableID, id uuid.UUID, patch dto.UpdateResourceItem) (*model.DayModel, error) {
	var row model.DayModel
	res := tx.Where("day_id = ? AND day_timetable_id = ?", id, timetableID).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("day")
	}

	cols := map[string]any{}
	if patch.Name != nil && *patch.Name != row.DayName {
		if err := renameConflict(tx, &model.DayModel{}, "day_id", "day_timetable_id", "day_name", timetableID, id, *patch.Name, "day"); err != nil {
			return nil, err
		}
		row.DayName = *patch.Name
		cols["day_name"] = *patch.Name
	}
	if patch.LongName != nil {
		row.DayLongName = patch.LongName
		cols["day_long_name"] = *patch.LongName
	}
	if len(cols) == 0 {
		return &row, nil
	}
	return &row, tx.Model(&row).UpdateColumns(cols).Error
}

func updateHour(tx *gorm.DB, timetableID, id uuid.UUID, patch dto.UpdateResourceItem) (*model.HourModel, error) {
	var row model.HourModel
	res := tx.Where("hour_id = ? AND hour_timetable_id = ?", id, timetableID).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("hour")
	}

	cols := map[string]any{}
	if patch.Name != nil && *patch.Name != row.HourName {
		if err := renameConflict(tx, &model.HourModel{}, "hour_id", "hour_timetable_id", "hour_name", timetableID, id, *patch.Name, "hour"); err != nil {
			return nil, err
		}
		row.HourName = *patch.Name
		cols["hour_name"] = *patch.Name
	}
	if patch.LongName != nil {
		row.HourLongName = patch.LongName
		cols["hour_long_name"] = *patch.LongName
	}
	if len(cols) == 0 {
		return &row, nil
	}
	return &row, tx.Model(&row).UpdateColumns(cols).Error
}

func updateSubject(tx *gorm.DB, timetableID, id uuid.UUID, patch dto.UpdateResourceItem) (*model.SubjectModel, error) {
	var row model.SubjectModel
	res := tx.Where("subject_id = ? AND subject_timetable_id = ?", id, timetableID).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("subject")
	}

	cols := map[string]any{}
	if patch.Name != nil && *patch.Name != row.SubjectName {
		if err := renameConflict(tx, &model.SubjectModel{}, "subject_id", "subject_timetable_id", "subject_name", timetableID, id, *patch.Name, "subject"); err != nil {
			return nil, err
		}
		row.SubjectName = *patch.Name
		cols["subject_name"] = *patch.Name
	}
	if patch.LongName != nil {
		row.SubjectLongName = patch.LongName
		cols["subject_long_name"] = *patch.LongName
	}
	if len(cols) == 0 {
		return &row, nil
	}
	return &row, tx.Model(&row).UpdateColumns(cols).Error
}

func updateTag(tx *gorm.DB, timetableID, id uuid.UUID, patch dto.UpdateResourceItem) (*model.TagModel, error) {
	var row model.TagModel
	res := tx.Where("tag_id = ? AND tag_timetable_id = ?", id, timetableID).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("tag")
	}

	cols := map[string]any{}
	if patch.Name != nil && *patch.Name != row.TagName {
		if err := renameConflict(tx, &model.TagModel{}, "tag_id", "tag_timetable_id", "tag_name", timetableID, id, *patch.Name, "tag"); err != nil {
			return nil, err
		}
		row.TagName = *patch.Name
		cols["tag_name"] = *patch.Name
	}
	if patch.LongName != nil {
		row.TagLongName = patch.LongName
		cols["tag_long_name"] = *patch.LongName
	}
	if len(cols) == 0 {
		return &row, nil
	}
	return &row, tx.Model(&row).UpdateColumns(cols).Error
}

func updateTeacher(tx *gorm.DB, timetableID, id uuid.UUID, patch dto.UpdateResourceItem) (*model.TeacherModel, error) {
	var row model.TeacherModel
	res := tx.Where("teacher_id = ? AND teacher_timetable_id = ?", id, timetableID).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("teacher")
	}

	cols := map[string]any{}
	if patch.Name != nil && *patch.Name != row.TeacherName {
		if err := renameConflict(tx, &model.TeacherModel{}, "teacher_id", "teacher_timetable_id", "teacher_name", timetableID, id, *patch.Name, "teacher"); err != nil {
			return nil, err
		}
		row.TeacherName = *patch.Name
		cols["teacher_name"] = *patch.Name
	}
	if patch.LongName != nil {
		row.TeacherLongName = patch.LongName
		cols["teacher_long_name"] = *patch.LongName
	}
	if patch.TargetHours != nil {
		row.TeacherTargetHours = *patch.TargetHours
		cols["teacher_target_hours"] = *patch.TargetHours
	}
	if len(cols) > 0 {
		if err := tx.Model(&row).UpdateColumns(cols).Error; err != nil {
			return nil, err
		}
	}

	// qualification list is replaced wholesale, revalidated against
	// the timetable's own subjects
	if patch.QualifiedSubjectIDs != nil {
		ids := *patch.QualifiedSubjectIDs
		if err := checkSubjectsOwned(tx, timetableID, ids); err != nil {
			return nil, err
		}
		subjects := make([]model.SubjectModel, 0, len(ids))
		for _, sid := range ids {
			subjects = append(subjects, model.SubjectModel{SubjectID: sid})
		}
		if err := tx.Model(&row).Association("QualifiedSubjects").Replace(subjects); err != nil {
			return nil, err
		}
	}

	if err := tx.Preload("QualifiedSubjects").
		Where("teacher_id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func checkSubjectsOwned(tx *gorm.DB, timetableID uuid.UUID, ids []uuid.UUID) error {
	var owned []uuid.UUID
	if err := tx.Model(&model.SubjectModel{}).
		Where("subject_timetable_id = ?", timetableID).
		Pluck("subject_id", &owned).Error; err != nil {
		return err
	}
	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, sid := range owned {
		ownedSet[sid] = struct{}{}
	}
	var violations []apperr.Violation
	for i, sid := range ids {
		if _, ok := ownedSet[sid]; !ok {
			violations = append(violations, apperr.Violation{
				Index:   i,
				Field:   "qualified_subject_ids",
				Message: fmt.Sprintf("subject %s does not belong to this timetable", sid),
			})
		}
	}
	if len(violations) > 0 {
		return apperr.Validation(violations)
	}
	return nil
}

func updateBuilding(tx *gorm.DB, timetableID, id uuid.UUID, patch dto.UpdateResourceItem) (*model.BuildingModel, error) {
	var row model.BuildingModel
	res := tx.Where("building_id = ? AND building_timetable_id = ?", id, timetableID).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("building")
	}

	cols := map[string]any{}
	if patch.Name != nil && *patch.Name != row.BuildingName {
		if err := renameConflict(tx, &model.BuildingModel{}, "building_id", "building_timetable_id", "building_name", timetableID, id, *patch.Name, "building"); err != nil {
			return nil, err
		}
		row.BuildingName = *patch.Name
		cols["building_name"] = *patch.Name
	}
	if patch.LongName != nil {
		row.BuildingLongName = patch.LongName
		cols["building_long_name"] = *patch.LongName
	}
	if len(cols) == 0 {
		return &row, nil
	}
	return &row, tx.Model(&row).UpdateColumns(cols).Error
}

func updateRoom(tx *gorm.DB, timetableID, id uuid.UUID, patch dto.UpdateResourceItem) (*model.RoomModel, error) {
	var row model.RoomModel
	res := tx.
		Where("room_id = ? AND room_building_id IN (SELECT building_id FROM buildings WHERE building_timetable_id = ?)", id, timetableID).
		Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("room")
	}

	cols := map[string]any{}
	if patch.Name != nil && *patch.Name != row.RoomName {
		// room names are unique per building, not per timetable
		var n int64
		if err := tx.Model(&model.RoomModel{}).
			Where("room_building_id = ? AND room_name = ? AND room_id <> ?", row.RoomBuildingID, *patch.Name, id).
			Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperr.Conflict([]apperr.Violation{{
				Field:   "name",
				Message: fmt.Sprintf("room name %q already exists in this building", *patch.Name),
			}})
		}
		row.RoomName = *patch.Name
		cols["room_name"] = *patch.Name
	}
	if patch.Capacity != nil {
		row.RoomCapacity = *patch.Capacity
		cols["room_capacity"] = *patch.Capacity
	}
	if len(cols) == 0 {
		return &row, nil
	}
	return &row, tx.Model(&row).UpdateColumns(cols).Error
}

/* =========================================================
   DELETE: kind dispatch
   Entities still referenced by activities are rejected with
   a conflict: cascading would silently shift co-referenced
   counters (see DESIGN.md).
   ========================================================= */

func (s *ResourceService) DeleteResource(ctx context.Context, timetableID, userID uuid.UUID, kind string, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ttService.FindOwned(tx, timetableID, userID); err != nil {
			return err
		}

		switch kind {
		case dto.KindDays:
			return deleteScoped(tx, &model.DayModel{}, "day_id", "day_timetable_id", timetableID, id, "day")
		case dto.KindHours:
			return deleteHour(tx, timetableID, id)
		case dto.KindSubjects:
			return deleteSubject(tx, timetableID, id)
		case dto.KindTags:
			return deleteTag(tx, timetableID, id)
		case dto.KindTeachers:
			return deleteTeacher(tx, timetableID, id)
		case dto.KindBuildings:
			return deleteScoped(tx, &model.BuildingModel{}, "building_id", "building_timetable_id", timetableID, id, "building")
		case dto.KindRooms:
			return deleteRoom(tx, timetableID, id)
		case dto.KindYears:
			return cohortService.DeleteYear(tx, timetableID, id)
		case dto.KindGroups:
			return cohortService.DeleteGroup(tx, timetableID, id)
		case dto.KindSubGroups:
			return cohortService.DeleteSubGroup(tx, timetableID, id)
		default:
			return apperr.NotFound("resource kind " + kind)
		}
	})
}

func deleteScoped(tx *gorm.DB, m any, pkCol, scopeCol string, timetableID, id uuid.UUID, entity string) error {
	res := tx.Where(pkCol+" = ? AND "+scopeCol+" = ?", id, timetableID).Delete(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

// deleteHour guards invariant 2: after removal, no activity may span
// more hour slots than remain.
func deleteHour(tx *gorm.DB, timetableID, id uuid.UUID) error {
	var hourCount int64
	if err := tx.Model(&model.HourModel{}).
		Where("hour_timetable_id = ?", timetableID).
		Count(&hourCount).Error; err != nil {
		return err
	}

	var tooLong int64
	if err := tx.Table("activities").
		Where("activity_timetable_id = ? AND activity_duration > ?", timetableID, hourCount-1).
		Count(&tooLong).Error; err != nil {
		return err
	}
	if tooLong > 0 {
		return apperr.Conflict([]apperr.Violation{{
			Field:   "hour",
			Message: fmt.Sprintf("%d activities would exceed the remaining hour count", tooLong),
		}})
	}
	return deleteScoped(tx, &model.HourModel{}, "hour_id", "hour_timetable_id", timetableID, id, "hour")
}

func deleteSubject(tx *gorm.DB, timetableID, id uuid.UUID) error {
	var sub model.SubjectModel
	res := tx.Where("subject_id = ? AND subject_timetable_id = ?", id, timetableID).Limit(1).Find(&sub)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("subject")
	}

	var n int64
	if err := tx.Table("activities").Where("activity_subject_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict([]apperr.Violation{{
			Field:   "subject",
			Message: fmt.Sprintf("subject %q is still referenced by %d activities", sub.SubjectName, n),
		}})
	}
	// drop qualified-subject links with the subject
	if err := tx.Exec("DELETE FROM teacher_qualified_subjects WHERE subject_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&sub).Error
}

func deleteTag(tx *gorm.DB, timetableID, id uuid.UUID) error {
	var tag model.TagModel
	res := tx.Where("tag_id = ? AND tag_timetable_id = ?", id, timetableID).Limit(1).Find(&tag)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("tag")
	}

	var n int64
	if err := tx.Table("activity_tags").Where("tag_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict([]apperr.Violation{{
			Field:   "tag",
			Message: fmt.Sprintf("tag %q is still referenced by %d activities", tag.TagName, n),
		}})
	}
	return tx.Delete(&tag).Error
}

func deleteTeacher(tx *gorm.DB, timetableID, id uuid.UUID) error {
	var teacher model.TeacherModel
	res := tx.Where("teacher_id = ? AND teacher_timetable_id = ?", id, timetableID).Limit(1).Find(&teacher)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("teacher")
	}

	var n int64
	if err := tx.Table("activity_teachers").Where("teacher_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict([]apperr.Violation{{
			Field:   "teacher",
			Message: fmt.Sprintf("teacher %q is still referenced by %d activities", teacher.TeacherName, n),
		}})
	}
	return tx.Select(clause.Associations).Delete(&teacher).Error
}

func deleteRoom(tx *gorm.DB, timetableID, id uuid.UUID) error {
	// rooms hang off buildings; scope through the building's timetable
	res := tx.Exec(`
		DELETE FROM rooms
		 WHERE room_id = ?
		   AND room_building_id IN (SELECT building_id FROM buildings WHERE building_timetable_id = ?)`,
		id, timetableID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("room")
	}
	return nil
}

/* =========================================================
   LISTS
   ========================================================= */

// FindByKind returns the timetable's resources of one kind, in
// stable creation order.
func (s *ResourceService) FindByKind(ctx context.Context, timetableID, userID uuid.UUID, kind string) (any, error) {
	db := s.DB.WithContext(ctx)
	if _, err := ttService.FindOwned(db, timetableID, userID); err != nil {
		return nil, err
	}

	switch kind {
	case dto.KindDays:
		var rows []model.DayModel
		return rows, db.Where("day_timetable_id = ?", timetableID).Order("day_created_at ASC, day_id ASC").Find(&rows).Error
	case dto.KindHours:
		var rows []model.HourModel
		return rows, db.Where("hour_timetable_id = ?", timetableID).Order("hour_created_at ASC, hour_id ASC").Find(&rows).Error
	case dto.KindSubjects:
		var rows []model.SubjectModel
		return rows, db.Where("subject_timetable_id = ?", timetableID).Order("subject_created_at ASC, subject_id ASC").Find(&rows).Error
	case dto.KindTags:
		var rows []model.TagModel
		return rows, db.Where("tag_timetable_id = ?", timetableID).Order("tag_created_at ASC, tag_id ASC").Find(&rows).Error
	case dto.KindTeachers:
		var rows []model.TeacherModel
		return rows, db.Where("teacher_timetable_id = ?", timetableID).Preload("QualifiedSubjects").Order("teacher_created_at ASC, teacher_id ASC").Find(&rows).Error
	case dto.KindBuildings:
		var rows []model.BuildingModel
		return rows, db.Where("building_timetable_id = ?", timetableID).Preload("Rooms").Order("building_created_at ASC, building_id ASC").Find(&rows).Error
	case dto.KindRooms:
		var rows []model.RoomModel
		return rows, db.
			Where("room_building_id IN (SELECT building_id FROM buildings WHERE building_timetable_id = ?)", timetableID).
			Order("room_created_at ASC, room_id ASC").Find(&rows).Error
	case dto.KindYears:
		var rows []cohortModel.YearModel
		return rows, db.Where("year_timetable_id = ?", timetableID).Preload("Groups").Order("year_created_at ASC, year_id ASC").Find(&rows).Error
	case dto.KindGroups:
		var rows []cohortModel.GroupModel
		return rows, db.Where("group_timetable_id = ?", timetableID).Preload("SubGroups").Order("group_created_at ASC, group_id ASC").Find(&rows).Error
	case dto.KindSubGroups:
		var rows []cohortModel.SubGroupModel
		return rows, db.Where("sub_group_timetable_id = ?", timetableID).Order("sub_group_created_at ASC, sub_group_id ASC").Find(&rows).Error
	default:
		return nil, apperr.NotFound("resource kind " + kind)
	}
}

/* ============================ shared ============================ */

// checkScopedNames rejects a batch when any name already exists in
// the timetable scope, or repeats within the batch. Every conflict is
// reported, not just the first.
func checkScopedNames(tx *gorm.DB, m any, scopeCol, nameCol string, timetableID uuid.UUID, incoming []string, entity string) error {
	var existing []string
	if err := tx.Model(m).Where(scopeCol+" = ?", timetableID).Pluck(nameCol, &existing).Error; err != nil {
		return err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}

	var conflicts []apperr.Violation
	inBatch := make(map[string]struct{}, len(incoming))
	for i, name := range incoming {
		if _, used := taken[name]; used {
			conflicts = append(conflicts, apperr.Violation{
				Index: i, Field: "name",
				Message: fmt.Sprintf("%s name %q already exists in this timetable", entity, name),
			})
			continue
		}
		if _, dup := inBatch[name]; dup {
			conflicts = append(conflicts, apperr.Violation{
				Index: i, Field: "name",
				Message: fmt.Sprintf("duplicate %s name %q within the request", entity, name),
			})
			continue
		}
		inBatch[name] = struct{}{}
	}
	if len(conflicts) > 0 {
		return apperr.Conflict(conflicts)
	}
	return nil
}

func names(items []dto.CreateResourceItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func requiredIDs(items []dto.CreateResourceItem, field string, pick func(dto.CreateResourceItem) *uuid.UUID) ([]uuid.UUID, error) {
	var violations []apperr.Violation
	out := make([]uuid.UUID, 0, len(items))
	for i, it := range items {
		id := pick(it)
		if id == nil {
			violations = append(violations, apperr.Violation{
				Index: i, Field: field,
				Message: fmt.Sprintf("item %d: %s is required", i, field),
			})
			continue
		}
		out = append(out, *id)
	}
	if len(violations) > 0 {
		return nil, apperr.Validation(violations)
	}
	return out, nil
}
