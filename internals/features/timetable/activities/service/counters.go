// file: internals/features/timetable/activities/service/counters.go
package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "timetable_backend/internals/features/timetable/activities/model"
)

/* =========================================================
   AGGREGATE CONSISTENCY ENGINE
   assigned_hours on Teacher/Year/Group/SubGroup always equals
   the sum of referencing activities' durations. Adjustments
   are atomic column arithmetic (col = col + δ), never
   read-modify-write, and run inside the same transaction as
   the activity row mutation.

   create  → adjust(refs(new), +duration)
   delete  → adjust(refs(old), -duration)
   update  → adjust(refs(old), -oldDuration) then
             adjust(refs(new), +newDuration)
   The update path deliberately does NOT diff the two ref
   sets; decrement-then-increment over full snapshots is
   equivalent and immune to duration-change edge cases.
   ========================================================= */

// counterRefs is a snapshot of every load-accumulating entity an
// activity references.
type counterRefs struct {
	TeacherIDs  []uuid.UUID
	YearIDs     []uuid.UUID
	GroupIDs    []uuid.UUID
	SubGroupIDs []uuid.UUID
}

func refsOf(a *model.ActivityModel) counterRefs {
	r := counterRefs{}
	for _, t := range a.Teachers {
		r.TeacherIDs = append(r.TeacherIDs, t.TeacherID)
	}
	for _, y := range a.Years {
		r.YearIDs = append(r.YearIDs, y.YearID)
	}
	for _, g := range a.Groups {
		r.GroupIDs = append(r.GroupIDs, g.GroupID)
	}
	for _, sg := range a.SubGroups {
		r.SubGroupIDs = append(r.SubGroupIDs, sg.SubGroupID)
	}
	return r
}

func adjustAssignedHours(tx *gorm.DB, refs counterRefs, delta int) error {
	if delta == 0 {
		return nil
	}
	steps := []struct {
		table string
		pkCol string
		col   string
		ids   []uuid.UUID
	}{
		{"teachers", "teacher_id", "teacher_assigned_hours", refs.TeacherIDs},
		{"years", "year_id", "year_assigned_hours", refs.YearIDs},
		{"groups", "group_id", "group_assigned_hours", refs.GroupIDs},
		{"sub_groups", "sub_group_id", "sub_group_assigned_hours", refs.SubGroupIDs},
	}
	for _, st := range steps {
		if err := bumpAssigned(tx, st.table, st.pkCol, st.col, st.ids, delta); err != nil {
			return err
		}
	}
	return nil
}

// bumpAssigned applies one atomic increment/decrement over a set of
// rows. A row-count shortfall means a referenced entity vanished;
// that is a consistency bug, surfaced as an internal error so the
// surrounding transaction rolls back.
func bumpAssigned(tx *gorm.DB, table, pkCol, col string, ids []uuid.UUID, delta int) error {
	if len(ids) == 0 {
		return nil
	}
	res := tx.Table(table).
		Where(pkCol+" IN ?", ids).
		UpdateColumn(col, gorm.Expr(col+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return fmt.Errorf("assigned_hours adjustment on %s touched %d of %d rows", table, res.RowsAffected, len(ids))
	}
	return nil
}
