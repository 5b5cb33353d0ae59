package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "timetable_backend/internals/features/timetable/activities/dto"
)

func idSet(ids ...uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func testRefSets() (*refSets, uuid.UUID, uuid.UUID) {
	subjectID := uuid.New()
	teacherID := uuid.New()
	return &refSets{
		HourCount: 8,
		Subjects:  idSet(subjectID),
		Teachers:  idSet(teacherID),
		Years:     idSet(),
		Groups:    idSet(),
		SubGroups: idSet(),
		Tags:      idSet(),
	}, subjectID, teacherID
}

func TestValidateCreateOK(t *testing.T) {
	sets, subjectID, teacherID := testRefSets()

	violations := sets.validateCreate(0, dto.CreateActivityRequest{
		Duration:   3,
		SubjectID:  subjectID,
		TeacherIDs: []uuid.UUID{teacherID},
	})
	assert.Empty(t, violations)
}

func TestValidateCreateDurationBoundary(t *testing.T) {
	sets, subjectID, _ := testRefSets()

	// duration equal to the hour count is the maximum legal value
	violations := sets.validateCreate(0, dto.CreateActivityRequest{
		Duration:  sets.HourCount,
		SubjectID: subjectID,
	})
	assert.Empty(t, violations)

	violations = sets.validateCreate(0, dto.CreateActivityRequest{
		Duration:  sets.HourCount + 1,
		SubjectID: subjectID,
	})
	require.Len(t, violations, 1)
	assert.Equal(t, "activity_duration", violations[0].Field)
}

func TestValidateCreateForeignReferences(t *testing.T) {
	sets, subjectID, _ := testRefSets()
	foreignTeacher := uuid.New()
	foreignYear := uuid.New()

	violations := sets.validateCreate(2, dto.CreateActivityRequest{
		Duration:   1,
		SubjectID:  subjectID,
		TeacherIDs: []uuid.UUID{foreignTeacher},
		YearIDs:    []uuid.UUID{foreignYear},
	})
	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, 2, v.Index)
	}
	assert.Equal(t, "teacher_id", violations[0].Field)
	assert.Equal(t, "year_id", violations[1].Field)
}

func TestValidateCreateCollectsEverything(t *testing.T) {
	sets, _, _ := testRefSets()

	// bad duration, foreign subject and two foreign teachers must all
	// be reported in one pass
	violations := sets.validateCreate(0, dto.CreateActivityRequest{
		Duration:   sets.HourCount + 5,
		SubjectID:  uuid.New(),
		TeacherIDs: []uuid.UUID{uuid.New(), uuid.New()},
	})
	assert.Len(t, violations, 4)
}

func TestValidatePatchOnlyProvidedFields(t *testing.T) {
	sets, _, _ := testRefSets()

	// a patch that touches nothing but keeps the current duration is
	// clean even though nothing else is resolvable
	violations := sets.validatePatch(dto.UpdateActivityRequest{}, 2)
	assert.Empty(t, violations)

	badSubject := uuid.New()
	violations = sets.validatePatch(dto.UpdateActivityRequest{SubjectID: &badSubject}, 2)
	require.Len(t, violations, 1)
	assert.Equal(t, "activity_subject_id", violations[0].Field)
}

func TestValidatePatchClearingListIsLegal(t *testing.T) {
	sets, _, _ := testRefSets()
	empty := []uuid.UUID{}

	violations := sets.validatePatch(dto.UpdateActivityRequest{TeacherIDs: &empty}, 1)
	assert.Empty(t, violations)
}

func TestRefsOfSnapshotsEveryAccumulatingEntity(t *testing.T) {
	act := activityWithRefs(t)

	refs := refsOf(act)
	assert.Len(t, refs.TeacherIDs, 2)
	assert.Len(t, refs.YearIDs, 1)
	assert.Len(t, refs.GroupIDs, 1)
	assert.Len(t, refs.SubGroupIDs, 1)
}
