// file: internals/features/timetable/activities/model/activity_model.go
package model

import (
	"time"

	"github.com/google/uuid"

	cohortModel "timetable_backend/internals/features/timetable/cohorts/model"
	resModel "timetable_backend/internals/features/timetable/resources/model"
)

/* =========================================================
   ACTIVITY: the scheduling unit.
   Exactly one Subject; zero-or-more Teachers, Years, Groups,
   SubGroups, Tags via join tables. Duration is counted in
   hour slots and may never exceed the timetable's hour count.
   ========================================================= */

type ActivityModel struct {
	ActivityID          uuid.UUID `gorm:"column:activity_id;type:uuid;default:gen_random_uuid();primaryKey" json:"activity_id"`
	ActivityTimetableID uuid.UUID `gorm:"column:activity_timetable_id;type:uuid;not null;index:idx_activities_timetable" json:"activity_timetable_id"`

	ActivityDuration  int       `gorm:"column:activity_duration;not null;default:1" json:"activity_duration"`
	ActivitySubjectID uuid.UUID `gorm:"column:activity_subject_id;type:uuid;not null;index:idx_activities_subject" json:"activity_subject_id"`

	Subject   *resModel.SubjectModel      `gorm:"foreignKey:ActivitySubjectID;references:SubjectID" json:"subject,omitempty"`
	Teachers  []resModel.TeacherModel     `gorm:"many2many:activity_teachers;foreignKey:ActivityID;joinForeignKey:activity_id;References:TeacherID;joinReferences:teacher_id" json:"teachers,omitempty"`
	Years     []cohortModel.YearModel     `gorm:"many2many:activity_years;foreignKey:ActivityID;joinForeignKey:activity_id;References:YearID;joinReferences:year_id" json:"years,omitempty"`
	Groups    []cohortModel.GroupModel    `gorm:"many2many:activity_groups;foreignKey:ActivityID;joinForeignKey:activity_id;References:GroupID;joinReferences:group_id" json:"groups,omitempty"`
	SubGroups []cohortModel.SubGroupModel `gorm:"many2many:activity_sub_groups;foreignKey:ActivityID;joinForeignKey:activity_id;References:SubGroupID;joinReferences:sub_group_id" json:"sub_groups,omitempty"`
	Tags      []resModel.TagModel         `gorm:"many2many:activity_tags;foreignKey:ActivityID;joinForeignKey:activity_id;References:TagID;joinReferences:tag_id" json:"tags,omitempty"`

	ActivityCreatedAt time.Time `gorm:"column:activity_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"activity_created_at"`
	ActivityUpdatedAt time.Time `gorm:"column:activity_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"activity_updated_at"`
}

func (ActivityModel) TableName() string { return "activities" }
