package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"timetable_backend/internals/apperr"
	model "timetable_backend/internals/features/timetable/cohorts/model"
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

func TestCheckBatchCleanNames(t *testing.T) {
	ns := &cohortNamespace{taken: map[string]string{}}

	conflicts := ns.checkBatch([]string{"Year 1", "Year 2"})
	assert.Empty(t, conflicts)
}

func TestCheckBatchCrossLevelCollision(t *testing.T) {
	// the namespace is shared across levels: a group may not reuse a
	// year's name
	ns := &cohortNamespace{taken: map[string]string{
		"Year 1": "year",
		"1A":     "group",
	}}

	conflicts := ns.checkBatch([]string{"Year 1", "1B"})
	require.Len(t, conflicts, 1)
	assert.Equal(t, 0, conflicts[0].Index)
	assert.Contains(t, conflicts[0].Message, "already used by a year")
}

func TestCheckBatchInBatchDuplicate(t *testing.T) {
	ns := &cohortNamespace{taken: map[string]string{}}

	conflicts := ns.checkBatch([]string{"1A", "1B", "1A"})
	require.Len(t, conflicts, 1)
	assert.Equal(t, 2, conflicts[0].Index)
	assert.Contains(t, conflicts[0].Message, "duplicate name")
}

func TestCheckBatchCollectsEveryConflict(t *testing.T) {
	ns := &cohortNamespace{taken: map[string]string{
		"Year 1": "year",
		"s1":     "subgroup",
	}}

	// two existing-name hits plus one in-batch duplicate, all in one
	// response
	conflicts := ns.checkBatch([]string{"Year 1", "s1", "new", "new"})
	assert.Len(t, conflicts, 3)
}

func TestCheckParentsSingleLookupPerBatch(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	owned := uuid.New()
	foreign := uuid.New()

	// one pluck covers the whole batch, no per-id round trips
	mock.ExpectQuery(`SELECT "year_id" FROM "years"`).
		WithArgs(ttID).
		WillReturnRows(sqlmock.NewRows([]string{"year_id"}).AddRow(owned.String()))

	err := checkParents(gdb, &model.YearModel{}, "year_id", "year_timetable_id", "year_id", "year", ttID, []uuid.UUID{owned, foreign, owned})
	require.Error(t, err)

	vErr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	require.Len(t, vErr.Violations, 1)
	assert.Equal(t, 1, vErr.Violations[0].Index)
	assert.Contains(t, vErr.Violations[0].Message, foreign.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckParentsAllOwned(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT "group_id" FROM "groups"`).
		WithArgs(ttID).
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}).AddRow(a.String()).AddRow(b.String()))

	err := checkParents(gdb, &model.GroupModel{}, "group_id", "group_timetable_id", "group_id", "group", ttID, []uuid.UUID{a, b})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenameYearRejectsNameTakenByGroup(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	yearID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "years"`).
		WithArgs(yearID, ttID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"year_id", "year_timetable_id", "year_name"}).
			AddRow(yearID.String(), ttID.String(), "Year 1"))
	mock.ExpectQuery(`SELECT "year_name" FROM "years"`).
		WillReturnRows(sqlmock.NewRows([]string{"year_name"}).AddRow("Year 1"))
	mock.ExpectQuery(`SELECT "group_name" FROM "groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"group_name"}).AddRow("1A"))
	mock.ExpectQuery(`SELECT "sub_group_name" FROM "sub_groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"sub_group_name"}))

	name := "1A"
	_, err := RenameYear(gdb, ttID, yearID, &name)
	require.Error(t, err)

	cErr, ok := apperr.AsConflict(err)
	require.True(t, ok)
	assert.Contains(t, cErr.Conflicts[0].Message, "already used by a group")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenameYearSameNameIsNoop(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	yearID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "years"`).
		WithArgs(yearID, ttID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"year_id", "year_timetable_id", "year_name"}).
			AddRow(yearID.String(), ttID.String(), "Year 1"))

	name := "Year 1"
	year, err := RenameYear(gdb, ttID, yearID, &name)
	require.NoError(t, err)
	assert.Equal(t, "Year 1", year.YearName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
