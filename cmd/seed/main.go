package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carservice/internal/config"
	"carservice/internal/database"
	"carservice/internal/domain"
	jwtsvc "carservice/internal/pkg/jwt"
	"carservice/internal/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	if cfg.IsProdLike() {
		log.Fatal("refusing to seed a prod-like environment")
	}
	lg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := clean(tx); err != nil {
			return err
		}
		return seed(tx, jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL))
	}); err != nil {
		lg.Fatal("seed failed", zap.Error(err))
	}

	log.Println("Seed completed")
}

// clean removes previous demo data in dependency order.
func clean(tx *gorm.DB) error {
	for _, table := range []string{
		"appointment_services",
		"appointments",
		"employees",
		"vehicles",
		"branch_schedules",
		"services",
		"branches",
		"users",
	} {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}
	return nil
}

func seed(tx *gorm.DB, j *jwtsvc.Service) error {
	// ================== USERS ==================
	log.Println("Creating users...")
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []domain.User{
		{Phone: "0900000000", Name: "Admin", Role: domain.RoleAdmin, PasswordHash: string(hash)},
		{Phone: "0900000001", Name: "Branch manager", Role: domain.RoleBranchManager, PasswordHash: string(hash)},
		{Phone: "0900000002", Name: "Nguyen Van A", Role: domain.RoleCustomer, PasswordHash: string(hash)},
		{Phone: "0900000003", Name: "Tran Thi B", Role: domain.RoleCustomer, PasswordHash: string(hash)},
	}
	if err := tx.Create(&users).Error; err != nil {
		return fmt.Errorf("create users: %w", err)
	}

	// ================== BRANCHES ==================
	log.Println("Creating branches and schedules...")
	branches := []domain.Branch{
		{Name: "District 1", Address: "12 Le Loi, District 1", Phone: "02838000001", IsActive: true},
		{Name: "Thu Duc", Address: "88 Vo Van Ngan, Thu Duc", Phone: "02838000002", IsActive: true},
	}
	if err := tx.Create(&branches).Error; err != nil {
		return fmt.Errorf("create branches: %w", err)
	}

	var schedules []domain.BranchSchedule
	for _, b := range branches {
		// Monday..Saturday full day, Sunday mornings only at the first branch.
		for day := 1; day <= 6; day++ {
			schedules = append(schedules, domain.BranchSchedule{
				BranchID: b.ID, DayOfWeek: day, OpenTime: "07:00:00", CloseTime: "19:00:00",
			})
		}
	}
	schedules = append(schedules, domain.BranchSchedule{
		BranchID: branches[0].ID, DayOfWeek: 0, OpenTime: "07:00:00", CloseTime: "12:00:00",
	})
	if err := tx.Create(&schedules).Error; err != nil {
		return fmt.Errorf("create schedules: %w", err)
	}

	// ================== SERVICES ==================
	log.Println("Creating services...")
	services := []domain.Service{
		{Name: "Oil change", Description: "Engine oil and filter", Price: 250000, DurationMinutes: 30, IsActive: true},
		{Name: "Car wash", Description: "Exterior and interior", Price: 80000, DurationMinutes: 45, IsActive: true},
		{Name: "Brake inspection", Price: 150000, DurationMinutes: 60, IsActive: true},
		{Name: "Tire rotation", Price: 120000, DurationMinutes: 40, IsActive: true},
	}
	if err := tx.Create(&services).Error; err != nil {
		return fmt.Errorf("create services: %w", err)
	}

	// ================== EMPLOYEES ==================
	log.Println("Creating employees...")
	employees := []domain.Employee{
		{BranchID: branches[0].ID, Name: "Le Van Tech", Role: domain.EmployeeTechnician, IsActive: true},
		{BranchID: branches[0].ID, Name: "Pham Reception", Role: domain.EmployeeReception, IsActive: true},
		{BranchID: branches[1].ID, Name: "Hoang Tech", Role: domain.EmployeeTechnician, IsActive: true},
		{BranchID: branches[1].ID, UserID: &users[1].ID, Name: "Branch manager", Role: domain.EmployeeManager, IsActive: true},
	}
	if err := tx.Create(&employees).Error; err != nil {
		return fmt.Errorf("create employees: %w", err)
	}

	// ================== VEHICLES ==================
	vehicles := []domain.Vehicle{
		{UserID: users[2].ID, LicensePlate: "51A-123.45", Brand: "Toyota", Model: "Vios", Year: 2019},
		{UserID: users[3].ID, LicensePlate: "59C-678.90", Brand: "Honda", Model: "City", Year: 2021},
	}
	if err := tx.Create(&vehicles).Error; err != nil {
		return fmt.Errorf("create vehicles: %w", err)
	}

	// ================== SUMMARY ==================
	log.Println("Dev bearer tokens (password for every user: demo1234):")
	for _, u := range users {
		token, err := j.GenerateToken(u.ID, string(u.Role))
		if err != nil {
			return fmt.Errorf("token for %s: %w", u.Phone, err)
		}
		fmt.Printf("  %-15s id=%-3d %s\n", u.Role, u.ID, token)
	}
	fmt.Printf("  branches: %d, services: %d, technicians at branch %d: employee %d\n",
		len(branches), len(services), branches[0].ID, employees[0].ID)
	return nil
}
