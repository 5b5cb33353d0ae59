// file: internals/features/timetable/resources/model/resources_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   TIME GRID: days & hours
   Names are unique per timetable (composite unique index).
   ========================================================= */

type DayModel struct {
	DayID          uuid.UUID `gorm:"column:day_id;type:uuid;default:gen_random_uuid();primaryKey" json:"day_id"`
	DayTimetableID uuid.UUID `gorm:"column:day_timetable_id;type:uuid;not null;uniqueIndex:uq_days_name_timetable;index:idx_days_timetable" json:"day_timetable_id"`

	DayName     string  `gorm:"column:day_name;type:varchar(80);not null;uniqueIndex:uq_days_name_timetable" json:"day_name"`
	DayLongName *string `gorm:"column:day_long_name;type:varchar(160)" json:"day_long_name,omitempty"`

	DayCreatedAt time.Time `gorm:"column:day_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"day_created_at"`
}

func (DayModel) TableName() string { return "days" }

type HourModel struct {
	HourID          uuid.UUID `gorm:"column:hour_id;type:uuid;default:gen_random_uuid();primaryKey" json:"hour_id"`
	HourTimetableID uuid.UUID `gorm:"column:hour_timetable_id;type:uuid;not null;uniqueIndex:uq_hours_name_timetable;index:idx_hours_timetable" json:"hour_timetable_id"`

	HourName     string  `gorm:"column:hour_name;type:varchar(80);not null;uniqueIndex:uq_hours_name_timetable" json:"hour_name"`
	HourLongName *string `gorm:"column:hour_long_name;type:varchar(160)" json:"hour_long_name,omitempty"`

	HourCreatedAt time.Time `gorm:"column:hour_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"hour_created_at"`
}

func (HourModel) TableName() string { return "hours" }

/* =========================================================
   LABELS: subjects & tags
   ========================================================= */

type SubjectModel struct {
	SubjectID          uuid.UUID `gorm:"column:subject_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subject_id"`
	SubjectTimetableID uuid.UUID `gorm:"column:subject_timetable_id;type:uuid;not null;uniqueIndex:uq_subjects_name_timetable;index:idx_subjects_timetable" json:"subject_timetable_id"`

	SubjectName     string  `gorm:"column:subject_name;type:varchar(160);not null;uniqueIndex:uq_subjects_name_timetable" json:"subject_name"`
	SubjectLongName *string `gorm:"column:subject_long_name;type:varchar(160)" json:"subject_long_name,omitempty"`

	SubjectCreatedAt time.Time `gorm:"column:subject_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"subject_created_at"`
}

func (SubjectModel) TableName() string { return "subjects" }

type TagModel struct {
	TagID          uuid.UUID `gorm:"column:tag_id;type:uuid;default:gen_random_uuid();primaryKey" json:"tag_id"`
	TagTimetableID uuid.UUID `gorm:"column:tag_timetable_id;type:uuid;not null;uniqueIndex:uq_tags_name_timetable;index:idx_tags_timetable" json:"tag_timetable_id"`

	TagName     string  `gorm:"column:tag_name;type:varchar(160);not null;uniqueIndex:uq_tags_name_timetable" json:"tag_name"`
	TagLongName *string `gorm:"column:tag_long_name;type:varchar(160)" json:"tag_long_name,omitempty"`

	TagCreatedAt time.Time `gorm:"column:tag_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"tag_created_at"`
}

func (TagModel) TableName() string { return "tags" }

/* =========================================================
   TEACHERS
   teacher_assigned_hours is denormalized and maintained by
   the activities service inside the activity transaction,
   never recomputed on the read path.
   ========================================================= */

type TeacherModel struct {
	TeacherID          uuid.UUID `gorm:"column:teacher_id;type:uuid;default:gen_random_uuid();primaryKey" json:"teacher_id"`
	TeacherTimetableID uuid.UUID `gorm:"column:teacher_timetable_id;type:uuid;not null;uniqueIndex:uq_teachers_name_timetable;index:idx_teachers_timetable" json:"teacher_timetable_id"`

	TeacherName          string  `gorm:"column:teacher_name;type:varchar(160);not null;uniqueIndex:uq_teachers_name_timetable" json:"teacher_name"`
	TeacherLongName      *string `gorm:"column:teacher_long_name;type:varchar(160)" json:"teacher_long_name,omitempty"`
	TeacherTargetHours   int     `gorm:"column:teacher_target_hours;not null;default:0" json:"teacher_target_hours"`
	TeacherAssignedHours int     `gorm:"column:teacher_assigned_hours;not null;default:0" json:"teacher_assigned_hours"`

	QualifiedSubjects []SubjectModel `gorm:"many2many:teacher_qualified_subjects;foreignKey:TeacherID;joinForeignKey:teacher_id;References:SubjectID;joinReferences:subject_id" json:"qualified_subjects,omitempty"`

	TeacherCreatedAt time.Time `gorm:"column:teacher_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"teacher_created_at"`
}

func (TeacherModel) TableName() string { return "teachers" }

/* =========================================================
   BUILDINGS & ROOMS
   Room name unique per building, not per timetable.
   ========================================================= */

type BuildingModel struct {
	BuildingID          uuid.UUID `gorm:"column:building_id;type:uuid;default:gen_random_uuid();primaryKey" json:"building_id"`
	BuildingTimetableID uuid.UUID `gorm:"column:building_timetable_id;type:uuid;not null;uniqueIndex:uq_buildings_name_timetable;index:idx_buildings_timetable" json:"building_timetable_id"`

	BuildingName     string  `gorm:"column:building_name;type:varchar(160);not null;uniqueIndex:uq_buildings_name_timetable" json:"building_name"`
	BuildingLongName *string `gorm:"column:building_long_name;type:varchar(160)" json:"building_long_name,omitempty"`

	Rooms []RoomModel `gorm:"foreignKey:RoomBuildingID;references:BuildingID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`

	BuildingCreatedAt time.Time `gorm:"column:building_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"building_created_at"`
}

func (BuildingModel) TableName() string { return "buildings" }

type RoomModel struct {
	RoomID         uuid.UUID `gorm:"column:room_id;type:uuid;default:gen_random_uuid();primaryKey" json:"room_id"`
	RoomBuildingID uuid.UUID `gorm:"column:room_building_id;type:uuid;not null;uniqueIndex:uq_rooms_name_building;index:idx_rooms_building" json:"room_building_id"`

	RoomName     string `gorm:"column:room_name;type:varchar(160);not null;uniqueIndex:uq_rooms_name_building" json:"room_name"`
	RoomCapacity int    `gorm:"column:room_capacity;not null;default:30" json:"room_capacity"`

	RoomCreatedAt time.Time `gorm:"column:room_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"room_created_at"`
}

func (RoomModel) TableName() string { return "rooms" }
