package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hotel-admin/config"
	"hotel-admin/controllers"
	"hotel-admin/services"
)

type apiFixture struct {
	router *gin.Engine
	db     *gorm.DB
	token  string
	sent   *[]services.Notification
}

type captureDispatcher struct{ sent []services.Notification }

func (d *captureDispatcher) Dispatch(_ context.Context, n services.Notification) error {
	d.sent = append(d.sent, n)
	return nil
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "api.db")+"?_pragma=busy_timeout(5000)"), config.GormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	cfg := &config.Config{
		Env:       "test",
		UploadDir: filepath.Join(dir, "uploads"),
		Location:  time.UTC,
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret-0123456789",
			TokenTTL:      time.Hour,
			AdminUsername: "admin@hotel.local",
			AdminPassword: "admin123",
			AdminFullName: "Admin User",
		},
		HTTP: config.HTTPConfig{
			CORSOrigins:    []string{"*"},
			MaxUploadBytes: 8 << 20,
		},
	}
	require.NoError(t, config.SeedDatabase(db, cfg))

	log := zap.NewNop()
	d := &captureDispatcher{}
	inventory := services.NewInventoryLedger(db)
	bookings := services.NewBookingService(db, services.NewPricingEngine(false, 2), inventory, d, log, false)
	rooms := services.NewRoomTypeService(db, nil, services.NewImageStore(cfg.UploadDir, "rooms"), log)
	reports := services.NewReportService(db, cfg.Location)
	auth := services.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := SetupRouter(cfg, log, auth, Controllers{
		Auth:      controllers.NewAuthController(auth, log),
		Booking:   controllers.NewBookingController(bookings, log),
		Room:      controllers.NewRoomController(rooms, inventory, log, cfg.HTTP.MaxUploadBytes),
		User:      controllers.NewUserController(services.NewUserService(db), reports, log),
		Dashboard: controllers.NewDashboardController(reports, log),
		Settings:  controllers.NewSettingsController(services.NewSettingsService(db), log),
	})

	f := &apiFixture{router: router, db: db, sent: &d.sent}

	w := f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin@hotel.local", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.True(t, login.Success)
	f.token = login.Token
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Stats   json.RawMessage `json:"stats"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (f *apiFixture) createRoom(t *testing.T, name string, stock int) uint {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/admin/rooms", map[string]interface{}{
		"name":            name,
		"basePrice":       2000,
		"totalStock":      stock,
		"maxAdults":       3,
		"maxChildren":     2,
		"maxOccupancy":    4,
		"baseCapacity":    2,
		"minOccupancy":    1,
		"extraAdultPrice": 1000,
		"extraChildPrice": 500,
		"amenities":       []map[string]interface{}{{"name": "Breakfast", "price": 300}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rt struct {
		ID       uint `json:"id"`
		LowStock bool `json:"lowStock"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &rt))
	return rt.ID
}

func TestHealthAndAuth(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/users/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"username":"admin@hotel.local"`)
	assert.NotContains(t, w.Body.String(), "password")

	f.token = ""
	w = f.do(t, http.MethodGet, "/api/admin/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w).Code)

	w = f.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin@hotel.local", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	f := newAPI(t)
	roomID := f.createRoom(t, "Standard", 1)

	w := f.do(t, http.MethodPost, "/api/admin/bookings", map[string]interface{}{
		"roomTypeId": roomID,
		"guestName":  "Ann Guest",
		"email":      "ann@example.com",
		"checkIn":    "2025-03-01",
		"checkOut":   "2025-03-04",
		"adults":     3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booking struct {
		ID            uint    `json:"id"`
		InvoiceNumber string  `json:"invoiceNumber"`
		TotalPrice    float64 `json:"totalPrice"`
		Status        string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &booking))
	assert.Equal(t, 9000.0, booking.TotalPrice)
	assert.Equal(t, "Pending", booking.Status)

	bookingPath := "/api/admin/bookings/" + jsonID(booking.ID)

	// stock of one is exhausted
	w = f.do(t, http.MethodPost, "/api/admin/bookings", map[string]interface{}{
		"roomTypeId": roomID, "guestName": "Bob", "checkIn": "2025-03-02", "checkOut": "2025-03-03", "adults": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", decode(t, w).Code)

	w = f.do(t, http.MethodPost, "/api/admin/bookings", map[string]interface{}{
		"roomTypeId": roomID, "guestName": "Bob", "checkIn": "2025-05-02", "checkOut": "2025-05-03", "adults": 3, "children": 2,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(t, http.MethodPost, "/api/admin/bookings", map[string]interface{}{
		"roomTypeId": roomID, "guestName": "Bob", "checkIn": "2025-05-03", "checkOut": "2025-05-03", "adults": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date_range", decode(t, w).Code)

	w = f.do(t, http.MethodPut, bookingPath, map[string]interface{}{"status": "Confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(decode(t, w).Data), `"status":"Confirmed"`)

	w = f.do(t, http.MethodPost, bookingPath+"/notify", map[string]string{"customMessage": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "empty_message", decode(t, w).Code)

	w = f.do(t, http.MethodPost, bookingPath+"/notify", map[string]string{"customMessage": "Your room is ready"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, *f.sent, 1)
	assert.Equal(t, "Booking "+booking.InvoiceNumber, (*f.sent)[0].Subject)

	w = f.do(t, http.MethodGet, "/api/admin/bookings?search="+booking.InvoiceNumber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	assert.Len(t, list, 1)

	w = f.do(t, http.MethodGet, "/api/admin/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Bookings     int64   `json:"bookings"`
		TotalRevenue float64 `json:"totalRevenue"`
		PopularRoom  string  `json:"popularRoom"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Stats, &stats))
	assert.EqualValues(t, 1, stats.Bookings)
	assert.Equal(t, 9000.0, stats.TotalRevenue)
	assert.Equal(t, "Standard", stats.PopularRoom)

	w = f.do(t, http.MethodDelete, "/api/admin/rooms/"+jsonID(roomID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodDelete, bookingPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodDelete, bookingPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w).Code)

	w = f.do(t, http.MethodGet, "/api/admin/rooms/"+jsonID(roomID)+"/availability?checkIn=2025-03-01&checkOut=2025-03-04", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"availableUnits":1`)
}

func TestRoomMultipartUpload(t *testing.T) {
	f := newAPI(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"name":         "Garden View",
		"basePrice":    "3200.50",
		"totalStock":   "4",
		"maxAdults":    "2",
		"maxChildren":  "1",
		"maxOccupancy": "3",
		"baseCapacity": "2",
		"amenities":    `[{"name":"Spa","price":450}]`,
		"furniture":    "Queen bed, Sofa ,",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("images", "garden.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/rooms", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rt struct {
		BasePrice float64  `json:"basePrice"`
		Furniture []string `json:"furniture"`
		Images    []string `json:"images"`
		LowStock  bool     `json:"lowStock"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &rt))
	assert.Equal(t, 3200.5, rt.BasePrice)
	assert.Equal(t, []string{"Queen bed", "Sofa"}, rt.Furniture)
	require.Len(t, rt.Images, 1)
	assert.Regexp(t, `^/uploads/rooms/.+\.png$`, rt.Images[0])
	assert.False(t, rt.LowStock)
}

func TestStatusMappingBadID(t *testing.T) {
	f := newAPI(t)
	w := f.do(t, http.MethodGet, "/api/admin/bookings/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w).Code)
}

func jsonID(id uint) string { return strconv.FormatUint(uint64(id), 10) }
