package repository_test

import (
	"testing"

	"carservice/internal/database"
	"carservice/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	Customer   domain.User
	Other      domain.User
	Branch     domain.Branch
	Branch2    domain.Branch
	Oil        domain.Service
	Wash       domain.Service
	Vehicle    domain.Vehicle
	Technician domain.Employee
	Reception  domain.Employee
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		Customer: domain.User{Phone: "0900000001", Name: "Customer", Role: domain.RoleCustomer},
		Other:    domain.User{Phone: "0900000002", Name: "Other", Role: domain.RoleCustomer},
		Branch:   domain.Branch{Name: "District 1", IsActive: true},
		Branch2:  domain.Branch{Name: "District 7", IsActive: true},
		Oil:      domain.Service{Name: "Oil change", Price: 250000, IsActive: true},
		Wash:     domain.Service{Name: "Wash", Price: 80000, IsActive: true},
	}
	require.NoError(t, db.Create(&f.Customer).Error)
	require.NoError(t, db.Create(&f.Other).Error)
	require.NoError(t, db.Create(&f.Branch).Error)
	require.NoError(t, db.Create(&f.Branch2).Error)
	require.NoError(t, db.Create(&f.Oil).Error)
	require.NoError(t, db.Create(&f.Wash).Error)

	f.Vehicle = domain.Vehicle{UserID: f.Customer.ID, LicensePlate: "51A-123.45", Brand: "Honda", Model: "Wave"}
	require.NoError(t, db.Create(&f.Vehicle).Error)

	f.Technician = domain.Employee{BranchID: f.Branch.ID, Name: "Tech", Role: domain.EmployeeTechnician, IsActive: true}
	f.Reception = domain.Employee{BranchID: f.Branch.ID, Name: "Desk", Role: domain.EmployeeReception, IsActive: true}
	require.NoError(t, db.Create(&f.Technician).Error)
	require.NoError(t, db.Create(&f.Reception).Error)

	require.NoError(t, db.Create(&domain.BranchSchedule{
		BranchID: f.Branch.ID, DayOfWeek: 1, OpenTime: "08:00:00", CloseTime: "20:00:00",
	}).Error)
	return f
}
