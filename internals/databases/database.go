// file: internals/databases/database.go
package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	actModel "timetable_backend/internals/features/timetable/activities/model"
	cohortModel "timetable_backend/internals/features/timetable/cohorts/model"
	resModel "timetable_backend/internals/features/timetable/resources/model"
	ttModel "timetable_backend/internals/features/timetable/timetables/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=timetable&options=-c statement_timeout=5000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 plays well with PgBouncer transaction pooling
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

// Migrate applies the schema in parent-before-child order so the
// cascade foreign keys, composite unique indexes and join tables all
// come out of the model tags.
func Migrate() {
	log.Println("🗂️  Running migrations...")

	// gen_random_uuid() primary key defaults
	if err := DB.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Printf("pgcrypto extension: %v", err)
	}

	if err := DB.AutoMigrate(migrationModels...); err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}
	log.Println("✅ Migrations applied.")
}

// migrationModels lists every table, parents before children.
var migrationModels = []any{
	&ttModel.TimetableModel{},
	&resModel.DayModel{},
	&resModel.HourModel{},
	&resModel.SubjectModel{},
	&resModel.TagModel{},
	&resModel.TeacherModel{},
	&resModel.BuildingModel{},
	&resModel.RoomModel{},
	&cohortModel.YearModel{},
	&cohortModel.GroupModel{},
	&cohortModel.SubGroupModel{},
	&actModel.ActivityModel{},
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
