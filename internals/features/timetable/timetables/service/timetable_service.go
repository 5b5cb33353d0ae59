// file: internals/features/timetable/timetables/service/timetable_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timetable_backend/internals/apperr"
	dto "timetable_backend/internals/features/timetable/timetables/dto"
	model "timetable_backend/internals/features/timetable/timetables/model"
	helper "timetable_backend/internals/helpers"
)

type TimetableService struct {
	DB *gorm.DB
}

func NewTimetableService(db *gorm.DB) *TimetableService {
	return &TimetableService{DB: db}
}

/* ============================ OWNERSHIP ============================ */

// FindOwned resolves the timetable and enforces tenant ownership in
// one query. Every read/write in the gateway goes through this first.
func FindOwned(db *gorm.DB, timetableID, userID uuid.UUID) (*model.TimetableModel, error) {
	var tt model.TimetableModel
	err := db.
		Where("timetable_id = ? AND timetable_user_id = ?", timetableID, userID).
		First(&tt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("timetable")
	}
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

/* ============================ CRUD ============================ */

func (s *TimetableService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateTimetableRequest) (*model.TimetableModel, error) {
	tt := req.ToModel()
	tt.TimetableUserID = userID
	if err := s.DB.WithContext(ctx).Create(&tt).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

func (s *TimetableService) FindAll(ctx context.Context, userID uuid.UUID, p helper.Params) ([]model.TimetableModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.TimetableModel{}).
		Where("timetable_user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.TimetableModel
	if err := q.
		Order("timetable_created_at DESC, timetable_id DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *TimetableService) FindOne(ctx context.Context, timetableID, userID uuid.UUID) (*model.TimetableModel, error) {
	return FindOwned(s.DB.WithContext(ctx), timetableID, userID)
}

func (s *TimetableService) Update(ctx context.Context, timetableID, userID uuid.UUID, req dto.UpdateTimetableRequest) (*model.TimetableModel, error) {
	tt, err := FindOwned(s.DB.WithContext(ctx), timetableID, userID)
	if err != nil {
		return nil, err
	}
	if req.InstitutionName != nil {
		if err := s.DB.WithContext(ctx).Model(tt).
			UpdateColumn("timetable_institution_name", *req.InstitutionName).Error; err != nil {
			return nil, err
		}
		tt.TimetableInstitutionName = *req.InstitutionName
	}
	return tt, nil
}

// Delete removes the timetable; ON DELETE CASCADE takes every owned
// day/hour/subject/tag/teacher/building/cohort/activity with it.
func (s *TimetableService) Delete(ctx context.Context, timetableID, userID uuid.UUID) error {
	tt, err := FindOwned(s.DB.WithContext(ctx), timetableID, userID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(tt).Error
}

/* ============================ FULL GRAPH ============================ */

// FindFull hydrates the whole schedule graph for the compiler. Every
// preload is explicitly ordered so compilation stays byte-stable for
// an unchanged graph.
func (s *TimetableService) FindFull(ctx context.Context, timetableID, userID uuid.UUID) (*model.TimetableModel, error) {
	ordered := func(col string) func(*gorm.DB) *gorm.DB {
		return func(db *gorm.DB) *gorm.DB {
			return db.Order(col + "_created_at ASC, " + col + "_id ASC")
		}
	}

	var tt model.TimetableModel
	err := s.DB.WithContext(ctx).
		Where("timetable_id = ? AND timetable_user_id = ?", timetableID, userID).
		Preload("Days", ordered("day")).
		Preload("Hours", ordered("hour")).
		Preload("Subjects", ordered("subject")).
		Preload("Tags", ordered("tag")).
		Preload("Teachers", ordered("teacher")).
		Preload("Teachers.QualifiedSubjects", ordered("subject")).
		Preload("Buildings", ordered("building")).
		Preload("Buildings.Rooms", ordered("room")).
		Preload("Years", ordered("year")).
		Preload("Years.Groups", ordered("group")).
		Preload("Years.Groups.SubGroups", ordered("sub_group")).
		Preload("Activities", ordered("activity")).
		Preload("Activities.Subject").
		Preload("Activities.Teachers", ordered("teacher")).
		Preload("Activities.Years", ordered("year")).
		Preload("Activities.Groups", ordered("group")).
		Preload("Activities.SubGroups", ordered("sub_group")).
		Preload("Activities.Tags", ordered("tag")).
		First(&tt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("timetable")
	}
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

/* ============================ OVERVIEW ============================ */

func (s *TimetableService) Overview(ctx context.Context, timetableID, userID uuid.UUID) (*dto.TimetableOverview, error) {
	tt, err := FindOwned(s.DB.WithContext(ctx), timetableID, userID)
	if err != nil {
		return nil, err
	}

	ov := dto.TimetableOverview{
		TimetableID:     tt.TimetableID.String(),
		InstitutionName: tt.TimetableInstitutionName,
	}
	counts := []struct {
		table string
		col   string
		dst   *int64
	}{
		{"days", "day_timetable_id", &ov.TotalDays},
		{"hours", "hour_timetable_id", &ov.TotalHours},
		{"subjects", "subject_timetable_id", &ov.TotalSubjects},
		{"teachers", "teacher_timetable_id", &ov.TotalTeachers},
		{"years", "year_timetable_id", &ov.TotalYears},
		{"activities", "activity_timetable_id", &ov.TotalActivities},
	}
	for _, cq := range counts {
		if err := s.DB.WithContext(ctx).Table(cq.table).
			Where(cq.col+" = ?", timetableID).
			Count(cq.dst).Error; err != nil {
			return nil, err
		}
	}
	return &ov, nil
}

/* ============================ EXPORT DIAG ============================ */

// RecordExport stores the outcome of the latest export run on the
// timetable row. Best effort, called outside the export's hot path.
func (s *TimetableService) RecordExport(ctx context.Context, timetableID uuid.UUID, info any) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&model.TimetableModel{}).
		Where("timetable_id = ?", timetableID).
		UpdateColumn("timetable_last_export", raw).Error
}
