// file: internals/features/timetable/generate/service/fet_export.go
package service

import (
	"encoding/xml"

	actModel "timetable_backend/internals/features/timetable/activities/model"
	ttModel "timetable_backend/internals/features/timetable/timetables/model"
)

const fetFormatVersion = "7.5.3"

/* =========================================================
   FET input document. Element order is fixed by the solver's
   reader, so every struct below lists fields in wire order
   and nothing is omitempty: empty sections must still emit.
   ========================================================= */

type fetDocument struct {
	XMLName         xml.Name `xml:"fet"`
	Version         string   `xml:"version,attr"`
	Mode            string   `xml:"Mode"`
	InstitutionName string   `xml:"Institution_Name"`
	Comments        string   `xml:"Comments"`

	Days       fetDaysList       `xml:"Days_List"`
	Hours      fetHoursList      `xml:"Hours_List"`
	Subjects   fetSubjectsList   `xml:"Subjects_List"`
	Tags       fetTagsList       `xml:"Activity_Tags_List"`
	Teachers   fetTeachersList   `xml:"Teachers_List"`
	Students   fetStudentsList   `xml:"Students_List"`
	Activities fetActivitiesList `xml:"Activities_List"`
	Buildings  fetBuildingsList  `xml:"Buildings_List"`
	Rooms      fetRoomsList      `xml:"Rooms_List"`

	TimeConstraints  fetTimeConstraints  `xml:"Time_Constraints_List"`
	SpaceConstraints fetSpaceConstraints `xml:"Space_Constraints_List"`

	GenerationOptions struct{} `xml:"Timetable_Generation_Options_List"`
}

type fetDaysList struct {
	NumberOfDays int      `xml:"Number_of_Days"`
	Days         []fetDay `xml:"Day"`
}

type fetDay struct {
	Name     string `xml:"Name"`
	LongName string `xml:"Long_Name"`
}

type fetHoursList struct {
	NumberOfHours int       `xml:"Number_of_Hours"`
	Hours         []fetHour `xml:"Hour"`
}

type fetHour struct {
	Name     string `xml:"Name"`
	LongName string `xml:"Long_Name"`
}

type fetSubjectsList struct {
	Subjects []fetSubject `xml:"Subject"`
}

type fetSubject struct {
	Name     string `xml:"Name"`
	LongName string `xml:"Long_Name"`
	Code     string `xml:"Code"`
	Comments string `xml:"Comments"`
}

type fetTagsList struct {
	Tags []fetTag `xml:"Activity_Tag"`
}

type fetTag struct {
	Name      string `xml:"Name"`
	LongName  string `xml:"Long_Name"`
	Code      string `xml:"Code"`
	Printable bool   `xml:"Printable"`
	Comments  string `xml:"Comments"`
}

type fetTeachersList struct {
	Teachers []fetTeacher `xml:"Teacher"`
}

type fetTeacher struct {
	Name              string               `xml:"Name"`
	LongName          string               `xml:"Long_Name"`
	Code              string               `xml:"Code"`
	TargetHours       int                  `xml:"Target_Number_of_Hours"`
	QualifiedSubjects fetQualifiedSubjects `xml:"Qualified_Subjects"`
	Comments          string               `xml:"Comments"`
}

type fetQualifiedSubjects struct {
	Subjects []string `xml:"Qualified_Subject"`
}

type fetStudentsList struct {
	Years []fetYear `xml:"Year"`
}

type fetYear struct {
	Name                     string     `xml:"Name"`
	LongName                 string     `xml:"Long_Name"`
	Code                     string     `xml:"Code"`
	NumberOfStudents         int        `xml:"Number_of_Students"`
	Comments                 string     `xml:"Comments"`
	NumberOfCategories       int        `xml:"Number_of_Categories"`
	FirstCategoryIsPermanent bool       `xml:"First_Category_Is_Permanent"`
	Separator                string     `xml:"Separator"`
	Groups                   []fetGroup `xml:"Group"`
}

type fetGroup struct {
	Name             string        `xml:"Name"`
	LongName         string        `xml:"Long_Name"`
	Code             string        `xml:"Code"`
	NumberOfStudents int           `xml:"Number_of_Students"`
	Comments         string        `xml:"Comments"`
	Subgroups        []fetSubgroup `xml:"Subgroup"`
}

type fetSubgroup struct {
	Name             string `xml:"Name"`
	LongName         string `xml:"Long_Name"`
	Code             string `xml:"Code"`
	NumberOfStudents int    `xml:"Number_of_Students"`
	Comments         string `xml:"Comments"`
}

type fetActivitiesList struct {
	Activities []fetActivity `xml:"Activity"`
}

// fetActivity flattens every teacher, tag and cohort reference into
// repeated elements. Students carries years, groups and subgroups in
// that order, each by name.
type fetActivity struct {
	Teachers      []string `xml:"Teacher"`
	Subject       string   `xml:"Subject"`
	Tags          []string `xml:"Activity_Tag"`
	Students      []string `xml:"Students"`
	Duration      int      `xml:"Duration"`
	TotalDuration int      `xml:"Total_Duration"`
	ID            int      `xml:"Id"`
	GroupID       int      `xml:"Activity_Group_Id"`
	Active        bool     `xml:"Active"`
	Comments      string   `xml:"Comments"`
}

type fetBuildingsList struct {
	Buildings []fetBuilding `xml:"Building"`
}

type fetBuilding struct {
	Name     string `xml:"Name"`
	LongName string `xml:"Long_Name"`
	Code     string `xml:"Code"`
	Comments string `xml:"Comments"`
}

type fetRoomsList struct {
	Rooms []fetRoom `xml:"Room"`
}

type fetRoom struct {
	Name     string `xml:"Name"`
	LongName string `xml:"Long_Name"`
	Code     string `xml:"Code"`
	Building string `xml:"Building"`
	Capacity int    `xml:"Capacity"`
	Virtual  bool   `xml:"Virtual"`
	Comments string `xml:"Comments"`
}

type fetTimeConstraints struct {
	Basic fetBasicConstraint `xml:"ConstraintBasicCompulsoryTime"`
}

type fetSpaceConstraints struct {
	Basic fetBasicConstraint `xml:"ConstraintBasicCompulsorySpace"`
}

type fetBasicConstraint struct {
	WeightPercentage int    `xml:"Weight_Percentage"`
	Active           bool   `xml:"Active"`
	Comments         string `xml:"Comments"`
}

/* =========================================================
   COMPILER
   Input order comes from FindFull's stable preloads, so the
   same timetable state always yields byte-identical output.
   Activity Id is the 1-based position in that order.
   ========================================================= */

// GenerateFetXML compiles a fully loaded timetable into a FET input
// document.
func GenerateFetXML(tt *ttModel.TimetableModel) ([]byte, error) {
	doc := fetDocument{
		Version:         fetFormatVersion,
		Mode:            "Official",
		InstitutionName: tt.TimetableInstitutionName,
		Comments:        "Generated from Timetable App",
	}
	doc.TimeConstraints.Basic = fetBasicConstraint{WeightPercentage: 100, Active: true}
	doc.SpaceConstraints.Basic = fetBasicConstraint{WeightPercentage: 100, Active: true}

	doc.Days.NumberOfDays = len(tt.Days)
	for _, d := range tt.Days {
		doc.Days.Days = append(doc.Days.Days, fetDay{Name: d.DayName, LongName: strOrEmpty(d.DayLongName)})
	}

	doc.Hours.NumberOfHours = len(tt.Hours)
	for _, h := range tt.Hours {
		doc.Hours.Hours = append(doc.Hours.Hours, fetHour{Name: h.HourName, LongName: strOrEmpty(h.HourLongName)})
	}

	for _, s := range tt.Subjects {
		doc.Subjects.Subjects = append(doc.Subjects.Subjects, fetSubject{Name: s.SubjectName, LongName: strOrEmpty(s.SubjectLongName)})
	}

	for _, t := range tt.Tags {
		doc.Tags.Tags = append(doc.Tags.Tags, fetTag{Name: t.TagName, LongName: strOrEmpty(t.TagLongName), Printable: true})
	}

	for _, t := range tt.Teachers {
		ft := fetTeacher{Name: t.TeacherName, LongName: strOrEmpty(t.TeacherLongName), TargetHours: t.TeacherTargetHours}
		for _, qs := range t.QualifiedSubjects {
			ft.QualifiedSubjects.Subjects = append(ft.QualifiedSubjects.Subjects, qs.SubjectName)
		}
		doc.Teachers.Teachers = append(doc.Teachers.Teachers, ft)
	}

	// Category structure is never modelled here, so every year keeps
	// the solver defaults: zero categories and a single-space separator.
	for _, y := range tt.Years {
		fy := fetYear{Name: y.YearName, Separator: " "}
		for _, g := range y.Groups {
			fg := fetGroup{Name: g.GroupName}
			for _, sg := range g.SubGroups {
				fg.Subgroups = append(fg.Subgroups, fetSubgroup{Name: sg.SubGroupName})
			}
			fy.Groups = append(fy.Groups, fg)
		}
		doc.Students.Years = append(doc.Students.Years, fy)
	}

	for i, a := range tt.Activities {
		doc.Activities.Activities = append(doc.Activities.Activities, compileActivity(&a, i+1))
	}

	for _, b := range tt.Buildings {
		doc.Buildings.Buildings = append(doc.Buildings.Buildings, fetBuilding{Name: b.BuildingName, LongName: strOrEmpty(b.BuildingLongName)})
		for _, r := range b.Rooms {
			doc.Rooms.Rooms = append(doc.Rooms.Rooms, fetRoom{
				Name:     r.RoomName,
				Building: b.BuildingName,
				Capacity: r.RoomCapacity,
			})
		}
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func compileActivity(a *actModel.ActivityModel, id int) fetActivity {
	fa := fetActivity{
		Duration:      a.ActivityDuration,
		TotalDuration: a.ActivityDuration,
		ID:            id,
		GroupID:       0,
		Active:        true,
	}
	if a.Subject != nil {
		fa.Subject = a.Subject.SubjectName
	}
	for _, t := range a.Teachers {
		fa.Teachers = append(fa.Teachers, t.TeacherName)
	}
	for _, tg := range a.Tags {
		fa.Tags = append(fa.Tags, tg.TagName)
	}
	for _, y := range a.Years {
		fa.Students = append(fa.Students, y.YearName)
	}
	for _, g := range a.Groups {
		fa.Students = append(fa.Students, g.GroupName)
	}
	for _, sg := range a.SubGroups {
		fa.Students = append(fa.Students, sg.SubGroupName)
	}
	return fa
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
