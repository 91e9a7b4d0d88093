package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shiftledger/internal/domain"
)

// InitDB initializes the database connection and performs auto-migrations.
func InitDB() *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// TranslateError surfaces unique-constraint violations (e.g. the
	// worklog "one open shift" partial index) as gorm.ErrDuplicatedKey
	// instead of a raw driver error, so repositories can map it to a
	// domain error without depending on the postgres driver directly.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate the schema
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Employee{},
		&domain.Salary{},
		&domain.WorkLog{},
		&domain.Holiday{},
		&domain.CompensatoryDay{},
		&domain.DailyPayrollCalculation{},
		&domain.MonthlyPayrollSummary{},
		&domain.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Failed to auto-migrate database schema: %v", err)
	}

	log.Println("Database connection established and schema migrated successfully.")
	return db
}
