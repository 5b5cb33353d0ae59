package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	model "timetable_backend/internals/features/timetable/activities/model"
	cohortModel "timetable_backend/internals/features/timetable/cohorts/model"
	resModel "timetable_backend/internals/features/timetable/resources/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gdb, mock
}

func activityWithRefs(t *testing.T) *model.ActivityModel {
	t.Helper()
	return &model.ActivityModel{
		ActivityID:       uuid.New(),
		ActivityDuration: 2,
		Teachers: []resModel.TeacherModel{
			{TeacherID: uuid.New()},
			{TeacherID: uuid.New()},
		},
		Years:     []cohortModel.YearModel{{YearID: uuid.New()}},
		Groups:    []cohortModel.GroupModel{{GroupID: uuid.New()}},
		SubGroups: []cohortModel.SubGroupModel{{SubGroupID: uuid.New()}},
	}
}

func TestBumpAssignedAtomicExpression(t *testing.T) {
	gdb, mock := newMockDB(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectExec(`UPDATE "teachers" SET "teacher_assigned_hours"=teacher_assigned_hours \+ \$1 WHERE teacher_id IN \(\$2,\$3\)`).
		WithArgs(3, ids[0], ids[1]).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := bumpAssigned(gdb, "teachers", "teacher_id", "teacher_assigned_hours", ids, 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBumpAssignedNoRowsNoQuery(t *testing.T) {
	gdb, mock := newMockDB(t)

	// an empty id list must not touch the database at all
	err := bumpAssigned(gdb, "teachers", "teacher_id", "teacher_assigned_hours", nil, 5)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBumpAssignedDriftIsAnError(t *testing.T) {
	gdb, mock := newMockDB(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	// one of the two referenced rows vanished
	mock.ExpectExec(`UPDATE "years" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := bumpAssigned(gdb, "years", "year_id", "year_assigned_hours", ids, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "touched 1 of 2 rows")
}

func TestAdjustAssignedHoursHitsEveryTable(t *testing.T) {
	gdb, mock := newMockDB(t)
	refs := refsOf(activityWithRefs(t))

	mock.ExpectExec(`UPDATE "teachers" SET`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "years" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "groups" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "sub_groups" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := adjustAssignedHours(gdb, refs, 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustAssignedHoursZeroDeltaIsANoop(t *testing.T) {
	gdb, mock := newMockDB(t)
	refs := refsOf(activityWithRefs(t))

	err := adjustAssignedHours(gdb, refs, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustAssignedHoursNegativeDelta(t *testing.T) {
	gdb, mock := newMockDB(t)
	teacherID := uuid.New()
	refs := counterRefs{TeacherIDs: []uuid.UUID{teacherID}}

	mock.ExpectExec(`UPDATE "teachers" SET "teacher_assigned_hours"=teacher_assigned_hours \+ \$1 WHERE teacher_id IN \(\$2\)`).
		WithArgs(-4, teacherID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adjustAssignedHours(gdb, refs, -4)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
