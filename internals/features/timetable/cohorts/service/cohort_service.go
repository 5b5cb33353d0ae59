// file: internals/features/timetable/cohorts/service/cohort_service.go
package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timetable_backend/internals/apperr"
	model "timetable_backend/internals/features/timetable/cohorts/model"
)

/* =========================================================
   COHORTS: Year / Group / SubGroup
   All three levels share one name namespace per timetable
   because the export format addresses them all as "Students"
   by name. The namespace is cross-table, so it is enforced
   here rather than by a unique index.
   ========================================================= */

// cohortNamespace holds every name already taken in the timetable,
// tagged with the level that owns it.
type cohortNamespace struct {
	taken map[string]string // name → "year" | "group" | "subgroup"
}

func loadCohortNamespace(tx *gorm.DB, timetableID uuid.UUID) (*cohortNamespace, error) {
	ns := &cohortNamespace{taken: map[string]string{}}

	pluck := func(m any, scopeCol, nameCol, level string) error {
		var names []string
		if err := tx.Model(m).Where(scopeCol+" = ?", timetableID).Pluck(nameCol, &names).Error; err != nil {
			return err
		}
		for _, n := range names {
			ns.taken[n] = level
		}
		return nil
	}

	if err := pluck(&model.YearModel{}, "year_timetable_id", "year_name", "year"); err != nil {
		return nil, err
	}
	if err := pluck(&model.GroupModel{}, "group_timetable_id", "group_name", "group"); err != nil {
		return nil, err
	}
	if err := pluck(&model.SubGroupModel{}, "sub_group_timetable_id", "sub_group_name", "subgroup"); err != nil {
		return nil, err
	}
	return ns, nil
}

// checkBatch validates a whole batch of incoming names against the
// namespace AND against each other, collecting every conflict. One
// conflict rejects the entire batch.
func (ns *cohortNamespace) checkBatch(names []string) []apperr.Violation {
	var conflicts []apperr.Violation
	inBatch := make(map[string]struct{}, len(names))
	for i, name := range names {
		if level, used := ns.taken[name]; used {
			conflicts = append(conflicts, apperr.Violation{
				Index:   i,
				Field:   "name",
				Message: fmt.Sprintf("name %q is already used by a %s in this timetable", name, level),
			})
			continue
		}
		if _, dup := inBatch[name]; dup {
			conflicts = append(conflicts, apperr.Violation{
				Index:   i,
				Field:   "name",
				Message: fmt.Sprintf("duplicate name %q within the request", name),
			})
			continue
		}
		inBatch[name] = struct{}{}
	}
	return conflicts
}

// checkParents verifies in one query that every referenced parent id
// belongs to the timetable, collecting a violation per bad id.
func checkParents(tx *gorm.DB, m any, pkCol, scopeCol, field, level string, timetableID uuid.UUID, ids []uuid.UUID) error {
	var owned []uuid.UUID
	if err := tx.Model(m).Where(scopeCol+" = ?", timetableID).Pluck(pkCol, &owned).Error; err != nil {
		return err
	}
	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}

	var violations []apperr.Violation
	for i, id := range ids {
		if _, ok := ownedSet[id]; !ok {
			violations = append(violations, apperr.Violation{
				Index:   i,
				Field:   field,
				Message: fmt.Sprintf("%s %s does not belong to this timetable", level, id),
			})
		}
	}
	if len(violations) > 0 {
		return apperr.Validation(violations)
	}
	return nil
}

/* ============================ CREATE ============================ */

func CreateYears(tx *gorm.DB, timetableID uuid.UUID, names []string) ([]model.YearModel, error) {
	ns, err := loadCohortNamespace(tx, timetableID)
	if err != nil {
		return nil, err
	}
	if conflicts := ns.checkBatch(names); len(conflicts) > 0 {
		return nil, apperr.Conflict(conflicts)
	}

	years := make([]model.YearModel, 0, len(names))
	for _, name := range names {
		years = append(years, model.YearModel{
			YearTimetableID: timetableID,
			YearName:        name,
		})
	}
	if err := tx.Create(&years).Error; err != nil {
		return nil, err
	}
	return years, nil
}

func CreateGroups(tx *gorm.DB, timetableID uuid.UUID, yearIDs []uuid.UUID, names []string) ([]model.GroupModel, error) {
	ns, err := loadCohortNamespace(tx, timetableID)
	if err != nil {
		return nil, err
	}

	if err := checkParents(tx, &model.YearModel{}, "year_id", "year_timetable_id", "year_id", "year", timetableID, yearIDs); err != nil {
		return nil, err
	}
	if conflicts := ns.checkBatch(names); len(conflicts) > 0 {
		return nil, apperr.Conflict(conflicts)
	}

	groups := make([]model.GroupModel, 0, len(names))
	for i, name := range names {
		groups = append(groups, model.GroupModel{
			GroupTimetableID: timetableID,
			GroupYearID:      yearIDs[i],
			GroupName:        name,
		})
	}
	if err := tx.Create(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func CreateSubGroups(tx *gorm.DB, timetableID uuid.UUID, groupIDs []uuid.UUID, names []string) ([]model.SubGroupModel, error) {
	ns, err := loadCohortNamespace(tx, timetableID)
	if err != nil {
		return nil, err
	}

	if err := checkParents(tx, &model.GroupModel{}, "group_id", "group_timetable_id", "group_id", "group", timetableID, groupIDs); err != nil {
		return nil, err
	}
	if conflicts := ns.checkBatch(names); len(conflicts) > 0 {
		return nil, apperr.Conflict(conflicts)
	}

	subGroups := make([]model.SubGroupModel, 0, len(names))
	for i, name := range names {
		subGroups = append(subGroups, model.SubGroupModel{
			SubGroupTimetableID: timetableID,
			SubGroupGroupID:     groupIDs[i],
			SubGroupName:        name,
		})
	}
	if err := tx.Create(&subGroups).Error; err != nil {
		return nil, err
	}
	return subGroups, nil
}

/* ============================ RENAME ============================ */

// Renames go through the shared namespace like creates do: the new
// name must be free across all three levels.

func RenameYear(tx *gorm.DB, timetableID, yearID uuid.UUID, name *string) (*model.YearModel, error) {
	var year model.YearModel
	res := tx.Where("year_id = ? AND year_timetable_id = ?", yearID, timetableID).Limit(1).Find(&year)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("year")
	}
	if name == nil || *name == year.YearName {
		return &year, nil
	}
	if err := checkRename(tx, timetableID, *name); err != nil {
		return nil, err
	}
	year.YearName = *name
	return &year, tx.Model(&year).UpdateColumn("year_name", *name).Error
}

func RenameGroup(tx *gorm.DB, timetableID, groupID uuid.UUID, name *string) (*model.GroupModel, error) {
	var group model.GroupModel
	res := tx.Where("group_id = ? AND group_timetable_id = ?", groupID, timetableID).Limit(1).Find(&group)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("group")
	}
	if name == nil || *name == group.GroupName {
		return &group, nil
	}
	if err := checkRename(tx, timetableID, *name); err != nil {
		return nil, err
	}
	group.GroupName = *name
	return &group, tx.Model(&group).UpdateColumn("group_name", *name).Error
}

func RenameSubGroup(tx *gorm.DB, timetableID, subGroupID uuid.UUID, name *string) (*model.SubGroupModel, error) {
	var sg model.SubGroupModel
	res := tx.Where("sub_group_id = ? AND sub_group_timetable_id = ?", subGroupID, timetableID).Limit(1).Find(&sg)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("subgroup")
	}
	if name == nil || *name == sg.SubGroupName {
		return &sg, nil
	}
	if err := checkRename(tx, timetableID, *name); err != nil {
		return nil, err
	}
	sg.SubGroupName = *name
	return &sg, tx.Model(&sg).UpdateColumn("sub_group_name", *name).Error
}

func checkRename(tx *gorm.DB, timetableID uuid.UUID, name string) error {
	ns, err := loadCohortNamespace(tx, timetableID)
	if err != nil {
		return err
	}
	if level, used := ns.taken[name]; used {
		return apperr.Conflict([]apperr.Violation{{
			Field:   "name",
			Message: fmt.Sprintf("name %q is already used by a %s in this timetable", name, level),
		}})
	}
	return nil
}

/* ============================ DELETE ============================ */

// Deletion policy: a cohort entity (or any of its descendants) that
// is still referenced by an activity cannot be deleted; the caller
// must delete or detach the activities first. Cascading here would
// silently shift co-referenced counters.

func DeleteYear(tx *gorm.DB, timetableID, yearID uuid.UUID) error {
	var year model.YearModel
	res := tx.Where("year_id = ? AND year_timetable_id = ?", yearID, timetableID).
		Preload("Groups").Preload("Groups.SubGroups").
		Limit(1).Find(&year)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("year")
	}

	if err := rejectIfReferenced(tx, "activity_years", "year_id", []uuid.UUID{yearID}, "year", year.YearName); err != nil {
		return err
	}
	for _, g := range year.Groups {
		if err := rejectIfReferenced(tx, "activity_groups", "group_id", []uuid.UUID{g.GroupID}, "group", g.GroupName); err != nil {
			return err
		}
		for _, sg := range g.SubGroups {
			if err := rejectIfReferenced(tx, "activity_sub_groups", "sub_group_id", []uuid.UUID{sg.SubGroupID}, "subgroup", sg.SubGroupName); err != nil {
				return err
			}
		}
	}
	return tx.Delete(&year).Error
}

func DeleteGroup(tx *gorm.DB, timetableID, groupID uuid.UUID) error {
	var group model.GroupModel
	res := tx.Where("group_id = ? AND group_timetable_id = ?", groupID, timetableID).
		Preload("SubGroups").
		Limit(1).Find(&group)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("group")
	}

	if err := rejectIfReferenced(tx, "activity_groups", "group_id", []uuid.UUID{groupID}, "group", group.GroupName); err != nil {
		return err
	}
	for _, sg := range group.SubGroups {
		if err := rejectIfReferenced(tx, "activity_sub_groups", "sub_group_id", []uuid.UUID{sg.SubGroupID}, "subgroup", sg.SubGroupName); err != nil {
			return err
		}
	}
	return tx.Delete(&group).Error
}

func DeleteSubGroup(tx *gorm.DB, timetableID, subGroupID uuid.UUID) error {
	var sg model.SubGroupModel
	res := tx.Where("sub_group_id = ? AND sub_group_timetable_id = ?", subGroupID, timetableID).
		Limit(1).Find(&sg)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("subgroup")
	}

	if err := rejectIfReferenced(tx, "activity_sub_groups", "sub_group_id", []uuid.UUID{subGroupID}, "subgroup", sg.SubGroupName); err != nil {
		return err
	}
	return tx.Delete(&sg).Error
}

func rejectIfReferenced(tx *gorm.DB, joinTable, col string, ids []uuid.UUID, level, name string) error {
	var n int64
	if err := tx.Table(joinTable).Where(col+" IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict([]apperr.Violation{{
			Field:   level,
			Message: fmt.Sprintf("%s %q is still referenced by %d activities", level, name, n),
		}})
	}
	return nil
}
