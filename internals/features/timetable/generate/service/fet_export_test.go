package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actModel "timetable_backend/internals/features/timetable/activities/model"
	cohortModel "timetable_backend/internals/features/timetable/cohorts/model"
	resModel "timetable_backend/internals/features/timetable/resources/model"
	ttModel "timetable_backend/internals/features/timetable/timetables/model"
)

func str(s string) *string { return &s }

func sampleTimetable() *ttModel.TimetableModel {
	math := resModel.SubjectModel{SubjectID: uuid.New(), SubjectName: "Math"}
	physics := resModel.SubjectModel{SubjectID: uuid.New(), SubjectName: "Physics"}

	return &ttModel.TimetableModel{
		TimetableID:              uuid.New(),
		TimetableInstitutionName: "Test School",
		Days: []resModel.DayModel{
			{DayName: "Mon", DayLongName: str("Monday")},
			{DayName: "Tue"},
		},
		Hours: []resModel.HourModel{
			{HourName: "H1"},
			{HourName: "H2"},
			{HourName: "H3"},
		},
		Subjects: []resModel.SubjectModel{math, physics},
		Tags:     []resModel.TagModel{{TagName: "lab"}},
		Teachers: []resModel.TeacherModel{
			{TeacherName: "T1", TeacherTargetHours: 10, QualifiedSubjects: []resModel.SubjectModel{math}},
		},
		Buildings: []resModel.BuildingModel{
			{
				BuildingName: "Main",
				Rooms: []resModel.RoomModel{
					{RoomName: "101", RoomCapacity: 25},
					{RoomName: "102", RoomCapacity: 30},
				},
			},
		},
		Years: []cohortModel.YearModel{
			{
				YearName: "Year 1",
				Groups: []cohortModel.GroupModel{
					{
						GroupName: "1A",
						SubGroups: []cohortModel.SubGroupModel{{SubGroupName: "1A-s1"}},
					},
				},
			},
		},
		Activities: []actModel.ActivityModel{
			{
				ActivityDuration: 2,
				Subject:          &math,
				Teachers:         []resModel.TeacherModel{{TeacherName: "T1"}},
				Years:            []cohortModel.YearModel{{YearName: "Year 1"}},
				Groups:           []cohortModel.GroupModel{{GroupName: "1A"}},
				Tags:             []resModel.TagModel{{TagName: "lab"}},
			},
			{
				ActivityDuration: 1,
				Subject:          &physics,
				SubGroups:        []cohortModel.SubGroupModel{{SubGroupName: "1A-s1"}},
			},
		},
	}
}

func TestGenerateFetXMLDeterministic(t *testing.T) {
	tt := sampleTimetable()

	a, err := GenerateFetXML(tt)
	require.NoError(t, err)
	b, err := GenerateFetXML(tt)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateFetXMLSectionOrder(t *testing.T) {
	out, err := GenerateFetXML(sampleTimetable())
	require.NoError(t, err)
	doc := string(out)

	sections := []string{
		"<Mode>",
		"<Institution_Name>",
		"<Days_List>",
		"<Hours_List>",
		"<Subjects_List>",
		"<Activity_Tags_List>",
		"<Teachers_List>",
		"<Students_List>",
		"<Activities_List>",
		"<Buildings_List>",
		"<Rooms_List>",
		"<Time_Constraints_List>",
		"<Space_Constraints_List>",
		"<Timetable_Generation_Options_List>",
	}
	last := -1
	for _, sec := range sections {
		pos := strings.Index(doc, sec)
		require.GreaterOrEqual(t, pos, 0, "missing section %s", sec)
		assert.Greater(t, pos, last, "section %s out of order", sec)
		last = pos
	}
}

func TestGenerateFetXMLContents(t *testing.T) {
	out, err := GenerateFetXML(sampleTimetable())
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `<fet version="7.5.3">`)
	assert.Contains(t, doc, "<Institution_Name>Test School</Institution_Name>")
	assert.Contains(t, doc, "<Number_of_Days>2</Number_of_Days>")
	assert.Contains(t, doc, "<Number_of_Hours>3</Number_of_Hours>")
	assert.Contains(t, doc, "<Target_Number_of_Hours>10</Target_Number_of_Hours>")
	assert.Contains(t, doc, "<Qualified_Subject>Math</Qualified_Subject>")
	assert.Contains(t, doc, "<Building>Main</Building>")
	assert.Contains(t, doc, "<Capacity>25</Capacity>")
	assert.Contains(t, doc, "<Weight_Percentage>100</Weight_Percentage>")
}

func TestGenerateFetXMLActivityIDsArePositional(t *testing.T) {
	out, err := GenerateFetXML(sampleTimetable())
	require.NoError(t, err)
	doc := string(out)

	first := strings.Index(doc, "<Id>1</Id>")
	second := strings.Index(doc, "<Id>2</Id>")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Greater(t, second, first)

	// every cohort level flattens into Students on the activity
	assert.Contains(t, doc, "<Students>Year 1</Students>")
	assert.Contains(t, doc, "<Students>1A</Students>")
	assert.Contains(t, doc, "<Students>1A-s1</Students>")
}

func TestGenerateFetXMLFixedFieldSet(t *testing.T) {
	tt := sampleTimetable()
	tt.Teachers[0].TeacherLongName = str("Teacher One")

	out, err := GenerateFetXML(tt)
	require.NoError(t, err)
	doc := string(out)

	// FET always gets the full field set, empty or not
	assert.Contains(t, doc, "<Comments>Generated from Timetable App</Comments>")
	assert.Contains(t, doc, "<Code></Code>")
	assert.Contains(t, doc, "<Printable>true</Printable>")
	assert.Contains(t, doc, "<Long_Name>Teacher One</Long_Name>")
	assert.Contains(t, doc, "<First_Category_Is_Permanent>false</First_Category_Is_Permanent>")
	assert.Contains(t, doc, "<Separator> </Separator>")
	assert.Contains(t, doc, "<Virtual>false</Virtual>")

	// every named element carries Code
	for _, tag := range []string{"<Subject>", "<Activity_Tag>", "<Teacher>", "<Year>", "<Group>", "<Subgroup>", "<Building>", "<Room>"} {
		start := strings.Index(doc, tag)
		require.GreaterOrEqual(t, start, 0, "missing element %s", tag)
		end := strings.Index(doc[start:], "</"+tag[1:])
		require.Greater(t, end, 0)
		assert.Contains(t, doc[start:start+end], "<Code></Code>", "element %s lacks Code", tag)
	}

	// year children in solver order
	year := doc[strings.Index(doc, "<Year>"):]
	year = year[:strings.Index(year, "<Group>")]
	last := -1
	for _, el := range []string{"<Name>", "<Long_Name>", "<Code>", "<Number_of_Students>", "<Comments>", "<Number_of_Categories>", "<First_Category_Is_Permanent>", "<Separator>"} {
		pos := strings.Index(year, el)
		require.GreaterOrEqual(t, pos, 0, "year missing %s", el)
		assert.Greater(t, pos, last, "year child %s out of order", el)
		last = pos
	}
}

func TestGenerateFetXMLEmptySectionsStillEmit(t *testing.T) {
	tt := &ttModel.TimetableModel{TimetableInstitutionName: "Bare"}

	out, err := GenerateFetXML(tt)
	require.NoError(t, err)
	doc := string(out)

	// the solver requires the section elements even when empty
	assert.Contains(t, doc, "Subjects_List")
	assert.Contains(t, doc, "Teachers_List")
	assert.Contains(t, doc, "Students_List")
	assert.Contains(t, doc, "Activities_List")
	assert.Contains(t, doc, "Rooms_List")
	assert.Contains(t, doc, "<Number_of_Days>0</Number_of_Days>")
}
