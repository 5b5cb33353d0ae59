// file: internals/features/timetable/generate/service/feasibility.go
package service

import (
	"fmt"

	"timetable_backend/internals/apperr"
	ttModel "timetable_backend/internals/features/timetable/timetables/model"
)

/* =========================================================
   FEASIBILITY GATE
   Runs before any temp file or subprocess exists. The grid
   capacity is |Days| x |Hours|; no entity's assigned hours
   may exceed it, since every activity hour occupies a slot.
   All findings are reported at once.
   ========================================================= */

// CheckFeasibility validates a fully loaded timetable against the
// obvious pre-solver constraints. A failure means the solver would
// reject or never satisfy the input, so it is not worth invoking.
func CheckFeasibility(tt *ttModel.TimetableModel) error {
	var violations []apperr.Violation

	if len(tt.Days) == 0 {
		violations = append(violations, apperr.Violation{Field: "days", Message: "timetable has no days"})
	}
	if len(tt.Hours) == 0 {
		violations = append(violations, apperr.Violation{Field: "hours", Message: "timetable has no hours"})
	}
	if len(tt.Activities) == 0 {
		violations = append(violations, apperr.Violation{Field: "activities", Message: "timetable has no activities"})
	}
	if len(violations) > 0 {
		// without a grid there is no capacity to check against
		return apperr.Validation(violations)
	}

	capacity := len(tt.Days) * len(tt.Hours)

	for _, t := range tt.Teachers {
		if t.TeacherAssignedHours > capacity {
			violations = append(violations, overload("teacher", t.TeacherName, t.TeacherAssignedHours, capacity))
		}
	}
	for _, y := range tt.Years {
		if y.YearAssignedHours > capacity {
			violations = append(violations, overload("year", y.YearName, y.YearAssignedHours, capacity))
		}
		for _, g := range y.Groups {
			if g.GroupAssignedHours > capacity {
				violations = append(violations, overload("group", g.GroupName, g.GroupAssignedHours, capacity))
			}
			for _, sg := range g.SubGroups {
				if sg.SubGroupAssignedHours > capacity {
					violations = append(violations, overload("subgroup", sg.SubGroupName, sg.SubGroupAssignedHours, capacity))
				}
			}
		}
	}

	if len(violations) > 0 {
		return apperr.Validation(violations)
	}
	return nil
}

func overload(kind, name string, assigned, capacity int) apperr.Violation {
	return apperr.Violation{
		Field:   kind,
		Message: fmt.Sprintf("%s %q is assigned %d hours but the grid only has %d slots", kind, name, assigned, capacity),
	}
}
