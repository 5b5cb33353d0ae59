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
	dto "timetable_backend/internals/features/timetable/resources/dto"
	model "timetable_backend/internals/features/timetable/resources/model"
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

func TestCheckScopedNamesClean(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "days"`).
		WillReturnRows(sqlmock.NewRows([]string{"day_name"}).AddRow("Mon"))

	err := checkScopedNames(gdb, &model.DayModel{}, "day_timetable_id", "day_name", ttID, []string{"Tue", "Wed"}, "day")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckScopedNamesReportsEveryConflict(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "days"`).
		WillReturnRows(sqlmock.NewRows([]string{"day_name"}).AddRow("Mon").AddRow("Tue"))

	// two existing-name hits and an in-batch duplicate, one response
	err := checkScopedNames(gdb, &model.DayModel{}, "day_timetable_id", "day_name", ttID, []string{"Mon", "Tue", "Wed", "Wed"}, "day")
	require.Error(t, err)

	cErr, ok := apperr.AsConflict(err)
	require.True(t, ok)
	require.Len(t, cErr.Conflicts, 3)
	assert.Equal(t, 0, cErr.Conflicts[0].Index)
	assert.Equal(t, 1, cErr.Conflicts[1].Index)
	assert.Equal(t, 3, cErr.Conflicts[2].Index)
	assert.Contains(t, cErr.Conflicts[2].Message, "duplicate")
}

func TestRequiredIDsCollectsMissing(t *testing.T) {
	yearID := uuid.New()
	items := []dto.CreateResourceItem{
		{Name: "1A", YearID: &yearID},
		{Name: "1B"},
		{Name: "1C"},
	}

	ids, err := requiredIDs(items, "year_id", func(it dto.CreateResourceItem) *uuid.UUID { return it.YearID })
	require.Error(t, err)
	assert.Nil(t, ids)

	vErr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	require.Len(t, vErr.Violations, 2)
	assert.Equal(t, 1, vErr.Violations[0].Index)
	assert.Equal(t, 2, vErr.Violations[1].Index)
}

func TestRequiredIDsAllPresent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	items := []dto.CreateResourceItem{
		{Name: "1A", YearID: &a},
		{Name: "1B", YearID: &b},
	}

	ids, err := requiredIDs(items, "year_id", func(it dto.CreateResourceItem) *uuid.UUID { return it.YearID })
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

func TestCreateRoomsBatchLookups(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	bldID := uuid.New()

	// exactly two queries for the whole batch, however many rooms come in
	mock.ExpectQuery(`SELECT "building_id" FROM "buildings"`).
		WithArgs(ttID).
		WillReturnRows(sqlmock.NewRows([]string{"building_id"}).AddRow(bldID.String()))
	mock.ExpectQuery(`SELECT "room_building_id","room_name" FROM "rooms"`).
		WithArgs(bldID).
		WillReturnRows(sqlmock.NewRows([]string{"room_building_id", "room_name"}).AddRow(bldID.String(), "101"))

	items := []dto.CreateResourceItem{
		{Name: "101", BuildingID: &bldID},
		{Name: "102", BuildingID: &bldID},
	}
	_, err := createRooms(gdb, ttID, items)
	require.Error(t, err)

	cErr, ok := apperr.AsConflict(err)
	require.True(t, ok)
	require.Len(t, cErr.Conflicts, 1)
	assert.Equal(t, 0, cErr.Conflicts[0].Index)
	assert.Contains(t, cErr.Conflicts[0].Message, "already exists in this building")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomsForeignBuildingRejected(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	foreign := uuid.New()

	mock.ExpectQuery(`SELECT "building_id" FROM "buildings"`).
		WithArgs(ttID).
		WillReturnRows(sqlmock.NewRows([]string{"building_id"}))

	items := []dto.CreateResourceItem{{Name: "101", BuildingID: &foreign}}
	_, err := createRooms(gdb, ttID, items)
	require.Error(t, err)

	vErr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	require.Len(t, vErr.Violations, 1)
	assert.Contains(t, vErr.Violations[0].Message, "does not belong to this timetable")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDayRenameConflictExcludesSelf(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	dayID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "days"`).
		WithArgs(dayID, ttID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"day_id", "day_timetable_id", "day_name"}).
			AddRow(dayID.String(), ttID.String(), "Mon"))
	// another row already holds the new name
	mock.ExpectQuery(`SELECT count\(\*\) FROM "days"`).
		WithArgs(ttID, "Tue", dayID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	name := "Tue"
	_, err := updateDay(gdb, ttID, dayID, dto.UpdateResourceItem{Name: &name})
	require.Error(t, err)

	cErr, ok := apperr.AsConflict(err)
	require.True(t, ok)
	assert.Contains(t, cErr.Conflicts[0].Message, `day name "Tue" already exists`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDayRename(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	dayID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "days"`).
		WithArgs(dayID, ttID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"day_id", "day_timetable_id", "day_name"}).
			AddRow(dayID.String(), ttID.String(), "Mon"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "days"`).
		WithArgs(ttID, "Monday", dayID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "days" SET "day_name"`).
		WithArgs("Monday", dayID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	name := "Monday"
	row, err := updateDay(gdb, ttID, dayID, dto.UpdateResourceItem{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Monday", row.DayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDayUnchangedNameSkipsConflictCheck(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	dayID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "days"`).
		WithArgs(dayID, ttID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"day_id", "day_timetable_id", "day_name"}).
			AddRow(dayID.String(), ttID.String(), "Mon"))

	name := "Mon"
	row, err := updateDay(gdb, ttID, dayID, dto.UpdateResourceItem{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mon", row.DayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDayNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	dayID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "days"`).
		WithArgs(dayID, ttID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"day_id"}))

	name := "Tue"
	_, err := updateDay(gdb, ttID, dayID, dto.UpdateResourceItem{Name: &name})
	require.Error(t, err)

	nErr, ok := apperr.AsNotFound(err)
	require.True(t, ok)
	assert.Equal(t, "day", nErr.Entity)
}

func TestCheckSubjectsOwnedRejectsForeignIDs(t *testing.T) {
	gdb, mock := newMockDB(t)
	ttID := uuid.New()
	owned := uuid.New()
	foreign := uuid.New()

	mock.ExpectQuery(`SELECT "subject_id" FROM "subjects"`).
		WithArgs(ttID).
		WillReturnRows(sqlmock.NewRows([]string{"subject_id"}).AddRow(owned.String()))

	err := checkSubjectsOwned(gdb, ttID, []uuid.UUID{owned, foreign})
	require.Error(t, err)

	vErr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	require.Len(t, vErr.Violations, 1)
	assert.Equal(t, 1, vErr.Violations[0].Index)
	assert.Contains(t, vErr.Violations[0].Message, foreign.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
