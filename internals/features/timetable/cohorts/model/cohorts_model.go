// file: internals/features/timetable/cohorts/model/cohorts_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   STUDENT COHORTS: Year > Group > SubGroup
   The three levels share ONE name namespace per timetable:
   the export format addresses all of them as "Students" by
   name, so a Group may not reuse a Year's name and so on.
   That rule is cross-table and lives in the cohorts service,
   not in a DB index.
   Each level carries its own assigned_hours counter.
   ========================================================= */

type YearModel struct {
	YearID          uuid.UUID `gorm:"column:year_id;type:uuid;default:gen_random_uuid();primaryKey" json:"year_id"`
	YearTimetableID uuid.UUID `gorm:"column:year_timetable_id;type:uuid;not null;index:idx_years_timetable" json:"year_timetable_id"`

	YearName          string `gorm:"column:year_name;type:varchar(160);not null" json:"year_name"`
	YearAssignedHours int    `gorm:"column:year_assigned_hours;not null;default:0" json:"year_assigned_hours"`

	Groups []GroupModel `gorm:"foreignKey:GroupYearID;references:YearID;constraint:OnDelete:CASCADE" json:"groups,omitempty"`

	YearCreatedAt time.Time `gorm:"column:year_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"year_created_at"`
}

func (YearModel) TableName() string { return "years" }

type GroupModel struct {
	GroupID          uuid.UUID `gorm:"column:group_id;type:uuid;default:gen_random_uuid();primaryKey" json:"group_id"`
	GroupTimetableID uuid.UUID `gorm:"column:group_timetable_id;type:uuid;not null;index:idx_groups_timetable" json:"group_timetable_id"`
	GroupYearID      uuid.UUID `gorm:"column:group_year_id;type:uuid;not null;index:idx_groups_year" json:"group_year_id"`

	GroupName          string `gorm:"column:group_name;type:varchar(160);not null" json:"group_name"`
	GroupAssignedHours int    `gorm:"column:group_assigned_hours;not null;default:0" json:"group_assigned_hours"`

	SubGroups []SubGroupModel `gorm:"foreignKey:SubGroupGroupID;references:GroupID;constraint:OnDelete:CASCADE" json:"sub_groups,omitempty"`

	GroupCreatedAt time.Time `gorm:"column:group_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"group_created_at"`
}

func (GroupModel) TableName() string { return "groups" }

type SubGroupModel struct {
	SubGroupID          uuid.UUID `gorm:"column:sub_group_id;type:uuid;default:gen_random_uuid();primaryKey" json:"sub_group_id"`
	SubGroupTimetableID uuid.UUID `gorm:"column:sub_group_timetable_id;type:uuid;not null;index:idx_sub_groups_timetable" json:"sub_group_timetable_id"`
	SubGroupGroupID     uuid.UUID `gorm:"column:sub_group_group_id;type:uuid;not null;index:idx_sub_groups_group" json:"sub_group_group_id"`

	SubGroupName          string `gorm:"column:sub_group_name;type:varchar(160);not null" json:"sub_group_name"`
	SubGroupAssignedHours int    `gorm:"column:sub_group_assigned_hours;not null;default:0" json:"sub_group_assigned_hours"`

	SubGroupCreatedAt time.Time `gorm:"column:sub_group_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"sub_group_created_at"`
}

func (SubGroupModel) TableName() string { return "sub_groups" }
