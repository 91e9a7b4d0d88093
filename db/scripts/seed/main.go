package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"shiftledger/db"
	"shiftledger/internal/domain"
)

func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	gdb := db.InitDB()

	log.Println("Clearing existing data...")
	gdb.Exec("DELETE FROM audit_logs")
	gdb.Exec("DELETE FROM daily_payroll_calculations")
	gdb.Exec("DELETE FROM monthly_payroll_summaries")
	gdb.Exec("DELETE FROM compensatory_days")
	gdb.Exec("DELETE FROM work_logs")
	gdb.Exec("DELETE FROM salaries")
	gdb.Exec("DELETE FROM employees")
	gdb.Exec("DELETE FROM holidays")
	gdb.Exec("DELETE FROM users")
	log.Println("Existing data cleared.")

	log.Println("Seeding admin user...")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "adminpassword"
		log.Printf("ADMIN_PASSWORD not set, using default: %s", adminPassword)
	}
	hashedAdminPassword, _ := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	adminUser := &domain.User{
		Username: "admin",
		Password: string(hashedAdminPassword),
		Role:     "admin",
	}
	if err := gdb.Create(adminUser).Error; err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if err := gdb.Create(&domain.Employee{UserID: adminUser.ID, Role: domain.RoleAdmin, Active: true}).Error; err != nil {
		log.Fatalf("Failed to seed admin employee: %v", err)
	}
	log.Println("Admin user seeded.")

	log.Println("Seeding 100 fake employees...")
	for i := 1; i <= 100; i++ {
		username := fmt.Sprintf("employee%d", i)
		password := fmt.Sprintf("password%d", i)

		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		employeeUser := &domain.User{
			Username: username,
			Password: string(hashedPassword),
			Role:     "employee",
		}
		if err := gdb.Create(employeeUser).Error; err != nil {
			log.Fatalf("Failed to seed employee %d: %v", i, err)
		}

		employee := &domain.Employee{
			UserID: employeeUser.ID,
			Role:   domain.RoleEmployee,
			Active: true,
		}
		if err := gdb.Create(employee).Error; err != nil {
			log.Fatalf("Failed to seed employee %d: %v", i, err)
		}

		// Two-thirds hourly, one-third monthly, matching a typical shift-work
		// headcount split.
		salary := &domain.Salary{
			EmployeeID:      employee.ID,
			CalculationType: domain.CalculationHourly,
			Currency:        "ILS",
			Active:          true,
		}
		if i%3 == 0 {
			salary.CalculationType = domain.CalculationMonthly
			base := decimal.NewFromInt(int64(9000 + i*20))
			salary.BaseSalary = &base
		} else {
			rate := decimal.NewFromInt(45).Add(decimal.NewFromInt(int64(i % 15)))
			salary.HourlyRate = &rate
		}
		if err := gdb.Create(salary).Error; err != nil {
			log.Fatalf("Failed to seed salary for employee %d: %v", i, err)
		}
	}
	log.Println("100 fake employees seeded successfully.")

	log.Println("Database seeding completed!")
}
