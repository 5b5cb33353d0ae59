package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetable_backend/internals/apperr"
	ttModel "timetable_backend/internals/features/timetable/timetables/model"
)

func TestCheckFeasibilityOK(t *testing.T) {
	assert.NoError(t, CheckFeasibility(sampleTimetable()))
}

func TestCheckFeasibilityEmptyTimetable(t *testing.T) {
	err := CheckFeasibility(&ttModel.TimetableModel{})
	require.Error(t, err)

	vErr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	require.Len(t, vErr.Violations, 3)

	fields := []string{vErr.Violations[0].Field, vErr.Violations[1].Field, vErr.Violations[2].Field}
	assert.Equal(t, []string{"days", "hours", "activities"}, fields)
}

func TestCheckFeasibilityTeacherOverload(t *testing.T) {
	tt := sampleTimetable()
	// grid capacity is 2 days x 3 hours = 6 slots
	tt.Teachers[0].TeacherAssignedHours = 7

	err := CheckFeasibility(tt)
	require.Error(t, err)

	vErr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	require.Len(t, vErr.Violations, 1)
	assert.Equal(t, "teacher", vErr.Violations[0].Field)
	assert.Contains(t, vErr.Violations[0].Message, `"T1"`)
	assert.Contains(t, vErr.Violations[0].Message, "assigned 7 hours")
	assert.Contains(t, vErr.Violations[0].Message, "6 slots")
}

func TestCheckFeasibilityAtCapacityIsFine(t *testing.T) {
	tt := sampleTimetable()
	tt.Teachers[0].TeacherAssignedHours = 6

	assert.NoError(t, CheckFeasibility(tt))
}

func TestCheckFeasibilityReportsEveryOverloadedEntity(t *testing.T) {
	tt := sampleTimetable()
	tt.Teachers[0].TeacherAssignedHours = 10
	tt.Years[0].YearAssignedHours = 8
	tt.Years[0].Groups[0].GroupAssignedHours = 9
	tt.Years[0].Groups[0].SubGroups[0].SubGroupAssignedHours = 7

	err := CheckFeasibility(tt)
	require.Error(t, err)

	vErr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, vErr.Violations, 4)
}
