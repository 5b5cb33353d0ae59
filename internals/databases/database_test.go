// file: internals/databases/database_test.go
package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tabler is what gorm uses to resolve table names.
type tabler interface{ TableName() string }

func TestMigrationModelsCoverEveryTable(t *testing.T) {
	got := make([]string, 0, len(migrationModels))
	for _, m := range migrationModels {
		tb, ok := m.(tabler)
		require.True(t, ok, "model %T has no TableName", m)
		got = append(got, tb.TableName())
	}

	assert.ElementsMatch(t, []string{
		"timetables",
		"days", "hours", "subjects", "tags", "teachers",
		"buildings", "rooms",
		"years", "groups", "sub_groups",
		"activities",
	}, got)
}

func TestMigrationModelsParentsFirst(t *testing.T) {
	pos := map[string]int{}
	for i, m := range migrationModels {
		pos[m.(tabler).TableName()] = i
	}

	// foreign keys only resolve when the referenced table exists
	assert.Less(t, pos["timetables"], pos["days"])
	assert.Less(t, pos["buildings"], pos["rooms"])
	assert.Less(t, pos["years"], pos["groups"])
	assert.Less(t, pos["groups"], pos["sub_groups"])
	assert.Less(t, pos["subjects"], pos["teachers"])
	assert.Less(t, pos["subjects"], pos["activities"])
}
