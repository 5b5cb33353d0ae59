// file: internals/features/timetable/timetables/model/timetable_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	actModel "timetable_backend/internals/features/timetable/activities/model"
	cohortModel "timetable_backend/internals/features/timetable/cohorts/model"
	resModel "timetable_backend/internals/features/timetable/resources/model"
)

/* =========================================================
   TIMETABLE: root aggregate, owned by exactly one tenant
   user. Deleting it cascades to every owned entity.
   ========================================================= */

type TimetableModel struct {
	TimetableID     uuid.UUID `gorm:"column:timetable_id;type:uuid;default:gen_random_uuid();primaryKey" json:"timetable_id"`
	TimetableUserID uuid.UUID `gorm:"column:timetable_user_id;type:uuid;not null;index:idx_timetables_user" json:"timetable_user_id"`

	TimetableInstitutionName string `gorm:"column:timetable_institution_name;type:varchar(160);not null" json:"timetable_institution_name"`

	// Last export outcome (state reached, solver exit, stderr tail).
	TimetableLastExport datatypes.JSON `gorm:"column:timetable_last_export;type:jsonb" json:"timetable_last_export,omitempty"`

	Days       []resModel.DayModel      `gorm:"foreignKey:DayTimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"days,omitempty"`
	Hours      []resModel.HourModel     `gorm:"foreignKey:HourTimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"hours,omitempty"`
	Subjects   []resModel.SubjectModel  `gorm:"foreignKey:SubjectTimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"subjects,omitempty"`
	Tags       []resModel.TagModel      `gorm:"foreignKey:TagTimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Teachers   []resModel.TeacherModel  `gorm:"foreignKey:TeacherTimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"teachers,omitempty"`
	Buildings  []resModel.BuildingModel `gorm:"foreignKey:BuildingTimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"buildings,omitempty"`
	Years      []cohortModel.YearModel  `gorm:"foreignKey:YearTimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"years,omitempty"`
	Activities []actModel.ActivityModel `gorm:"foreignKey:ActivityTimetableID;references:TimetableID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`

	TimetableCreatedAt time.Time `gorm:"column:timetable_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"timetable_created_at"`
	TimetableUpdatedAt time.Time `gorm:"column:timetable_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"timetable_updated_at"`
}

func (TimetableModel) TableName() string { return "timetables" }
