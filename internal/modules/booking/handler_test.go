package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"carservice/internal/database"
	"carservice/internal/domain"
	"carservice/internal/middleware"
	"carservice/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	router     *gin.Engine
	db         *gorm.DB
	branchID   int64
	oilID      int64
	washID     int64
	vehicleID  int64
	techID     int64
	customerID int64
}

func setupTestRouter(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	customer := domain.User{Phone: "0900000001", Name: "Customer", Role: domain.RoleCustomer}
	branch := domain.Branch{Name: "District 1", IsActive: true}
	oil := domain.Service{Name: "Oil change", Price: 250000, IsActive: true}
	wash := domain.Service{Name: "Wash", Price: 80000, IsActive: true}
	require.NoError(t, db.Create(&customer).Error)
	require.NoError(t, db.Create(&branch).Error)
	require.NoError(t, db.Create(&oil).Error)
	require.NoError(t, db.Create(&wash).Error)

	vehicle := domain.Vehicle{UserID: customer.ID, LicensePlate: "51A-123.45"}
	tech := domain.Employee{BranchID: branch.ID, Name: "Tech", Role: domain.EmployeeTechnician, IsActive: true}
	require.NoError(t, db.Create(&vehicle).Error)
	require.NoError(t, db.Create(&tech).Error)
	require.NoError(t, db.Create(&domain.BranchSchedule{
		BranchID: branch.ID, DayOfWeek: 1, OpenTime: "08:00:00", CloseTime: "20:00:00",
	}).Error)

	appointments := repository.NewAppointmentRepository(db)
	branches := repository.NewBranchRepository(db)
	employees := repository.NewEmployeeRepository(db)
	clock := FixedClock(sundayNoon)

	svc := NewService(
		appointments,
		NewAvailability(branches, appointments, clock, zap.NewNop()),
		NewGuard(repository.NewServiceRepository(db), branches, repository.NewVehicleRepository(db), employees, appointments, clock),
		employees,
		zap.NewNop(),
	)
	h := NewHandler(svc)

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader("X-Test-User-ID"), 10, 64)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set("user_id", id)
		c.Set("role", c.GetHeader("X-Test-Role"))
		c.Next()
	})
	h.RegisterRoutes(protected, middleware.RequireRole(string(domain.RoleAdmin), string(domain.RoleBranchManager)))

	return testEnv{
		router:     r,
		db:         db,
		branchID:   branch.ID,
		oilID:      oil.ID,
		washID:     wash.ID,
		vehicleID:  vehicle.ID,
		techID:     tech.ID,
		customerID: customer.ID,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (e testEnv) do(t *testing.T, method, path string, body any, userID int64, role domain.UserRole) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User-ID", strconv.FormatInt(userID, 10))
		req.Header.Set("X-Test-Role", string(role))
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

func (e testEnv) book(t *testing.T, clock string) (int, envelope) {
	return e.do(t, http.MethodPost, "/api/v1/appointments", map[string]any{
		"service_ids": []int64{e.oilID, e.washID},
		"branch_id":   e.branchID,
		"vehicle_id":  e.vehicleID,
		"date":        mondayDate,
		"time":        clock,
	}, e.customerID, domain.RoleCustomer)
}

func (e testEnv) availableTimes(t *testing.T) []string {
	t.Helper()
	code, env := e.do(t, http.MethodGet, "/api/v1/branches/"+strconv.FormatInt(e.branchID, 10)+"/available-times?date="+mondayDate, nil, 0, "")
	require.Equal(t, http.StatusOK, code)

	var out AvailableTimesResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out.Times
}

func TestHandler_TimeSlots(t *testing.T) {
	e := setupTestRouter(t)

	code, env := e.do(t, http.MethodGet, "/api/v1/time-slots", nil, 0, "")

	require.Equal(t, http.StatusOK, code)
	var out struct {
		TimeSlots []TimeSlotResponse `json:"time_slots"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.TimeSlots, 5)
	assert.Equal(t, TimeSlotResponse{Start: "07:00:00", End: "09:00:00", Display: "07:00-09:00"}, out.TimeSlots[0])
}

func TestHandler_BookThenAvailabilityShrinks(t *testing.T) {
	e := setupTestRouter(t)

	assert.Equal(t, []string{"10:00-12:00", "13:00-15:00", "15:00-17:00", "17:00-19:00"}, e.availableTimes(t))

	code, env := e.book(t, "10:30")
	require.Equal(t, http.StatusCreated, code, env.Error.Message)

	var created struct {
		Appointment struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
			Time   string `json:"time"`
		} `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Appointment.Status)
	assert.Equal(t, "10:30:00", created.Appointment.Time)

	var links int64
	require.NoError(t, e.db.Model(&domain.AppointmentService{}).Where("appointment_id = ?", created.Appointment.ID).Count(&links).Error)
	assert.Equal(t, int64(2), links)

	assert.Equal(t, []string{"13:00-15:00", "15:00-17:00", "17:00-19:00"}, e.availableTimes(t))
}

func TestHandler_SecondBookingAtSameTimeConflicts(t *testing.T) {
	e := setupTestRouter(t)

	code, _ := e.book(t, "13:00")
	require.Equal(t, http.StatusCreated, code)

	code, env := e.book(t, "13:00:00")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "BOOKING_CONFLICT", env.Error.Code)
	assert.Equal(t, "a booking already exists at this exact time", env.Error.Message)
}

func TestHandler_ConcurrentBookingsOneWins(t *testing.T) {
	e := setupTestRouter(t)

	const workers = 6
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i], _ = e.book(t, "15:00")
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, c := range codes {
		switch c {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestHandler_ValidationErrors(t *testing.T) {
	e := setupTestRouter(t)

	code, env := e.do(t, http.MethodPost, "/api/v1/appointments", map[string]any{
		"service_ids": []int64{e.oilID, 9999},
		"branch_id":   e.branchID,
		"date":        mondayDate,
		"time":        "10:00",
	}, e.customerID, domain.RoleCustomer)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, []any{float64(9999)}, env.Error.Details["unknown_service_ids"])

	code, env = e.do(t, http.MethodPost, "/api/v1/appointments", map[string]any{
		"service_ids": []int64{e.oilID},
		"branch_id":   e.branchID,
		"date":        "2030-01-01",
		"time":        "10:00",
	}, e.customerID, domain.RoleCustomer)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "cannot book a past time", env.Error.Message)

	code, env = e.do(t, http.MethodPost, "/api/v1/appointments", map[string]any{
		"service_ids": []int64{},
		"branch_id":   e.branchID,
		"date":        mondayDate,
		"time":        "10:00",
	}, e.customerID, domain.RoleCustomer)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHandler_AvailableTimesErrors(t *testing.T) {
	e := setupTestRouter(t)
	base := "/api/v1/branches/" + strconv.FormatInt(e.branchID, 10) + "/available-times"

	code, env := e.do(t, http.MethodGet, base+"?date=2030-01-01", nil, 0, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "cannot select a past date", env.Error.Message)

	code, _ = e.do(t, http.MethodGet, base, nil, 0, "")
	assert.Equal(t, http.StatusBadRequest, code)

	// Tuesday has no schedule row.
	code, env = e.do(t, http.MethodGet, base+"?date=2030-01-08", nil, 0, "")
	require.Equal(t, http.StatusOK, code)
	var out AvailableTimesResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Empty(t, out.Times)
}

func TestHandler_LifecycleAndDeletion(t *testing.T) {
	e := setupTestRouter(t)

	code, env := e.book(t, "17:00")
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		Appointment struct {
			ID int64 `json:"id"`
		} `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/api/v1/appointments/" + strconv.FormatInt(created.Appointment.ID, 10)

	code, _ = e.do(t, http.MethodGet, path, nil, 555, domain.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = e.do(t, http.MethodPatch, path+"/status", map[string]string{"status": "confirmed"}, 1, domain.RoleAdmin)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", env.Error.Code)

	code, _ = e.do(t, http.MethodPatch, path+"/technician", map[string]int64{"technician_id": e.techID}, e.customerID, domain.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = e.do(t, http.MethodPatch, path+"/technician", map[string]int64{"technician_id": e.techID}, 1, domain.RoleAdmin)
	require.Equal(t, http.StatusOK, code)

	code, _ = e.do(t, http.MethodPatch, path+"/status", map[string]string{"status": "confirmed"}, 1, domain.RoleAdmin)
	require.Equal(t, http.StatusOK, code)

	code, _ = e.do(t, http.MethodDelete, path, nil, e.customerID, domain.RoleCustomer)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = e.do(t, http.MethodPatch, path+"/status", map[string]string{"status": "completed"}, 1, domain.RoleAdmin)
	require.Equal(t, http.StatusOK, code)

	code, env = e.do(t, http.MethodDelete, path, nil, 1, domain.RoleAdmin)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "appointment can no longer be deleted", env.Error.Message)

	code, env = e.do(t, http.MethodGet, "/api/v1/appointments/me", nil, e.customerID, domain.RoleCustomer)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items []domain.Appointment `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.AppointmentCompleted, page.Items[0].Status)
	assert.ElementsMatch(t, []int64{e.oilID, e.washID}, page.Items[0].ServiceIDs)
}

func TestHandler_CustomerDeletesOwnPending(t *testing.T) {
	e := setupTestRouter(t)

	code, env := e.book(t, "13:00")
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		Appointment struct {
			ID int64 `json:"id"`
		} `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/api/v1/appointments/" + strconv.FormatInt(created.Appointment.ID, 10)

	code, _ = e.do(t, http.MethodDelete, path, nil, e.customerID, domain.RoleCustomer)
	require.Equal(t, http.StatusOK, code)

	code, _ = e.do(t, http.MethodGet, path, nil, e.customerID, domain.RoleCustomer)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, e.availableTimes(t), "13:00-15:00")
}

func TestHandler_BranchAppointmentsStaffOnly(t *testing.T) {
	e := setupTestRouter(t)
	_, _ = e.book(t, "10:00")
	path := "/api/v1/branches/" + strconv.FormatInt(e.branchID, 10) + "/appointments?date=" + mondayDate

	code, _ := e.do(t, http.MethodGet, path, nil, e.customerID, domain.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := e.do(t, http.MethodGet, path, nil, 1, domain.RoleBranchManager)
	require.Equal(t, http.StatusOK, code)
	var out struct {
		Appointments []domain.Appointment `json:"appointments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Len(t, out.Appointments, 1)
}
