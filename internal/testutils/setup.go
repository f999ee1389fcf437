package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/shopapp/internal/config"
	"github.com/example/shopapp/internal/database"
	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/routes"
	"github.com/example/shopapp/internal/utils"
)

// TestSigningKey is the base64 signing secret used across tests.
const TestSigningKey = "dGVzdC1zaWduaW5nLWtleS0wMTIzNDU2Nzg5YWJjZGVmMDEyMzQ1Njc4OWFiY2RlZg=="

// TestDB opens an isolated in-memory database with the full schema and
// seeded roles.
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, database.Migrate(db), "failed to migrate test database")
	require.NoError(t, database.SeedRoles(db), "failed to seed roles")

	return db
}

// TestConfig returns a config suitable for wiring the app in tests.
func TestConfig() *config.Config {
	return &config.Config{
		AppPort:         "0",
		JWTSecret:       TestSigningKey,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

// SetupTestApp builds a fiber app with all routes registered over an
// in-memory database.
func SetupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := TestDB(t)
	app := fiber.New()
	routes.Register(app, db, TestConfig())
	return app, db
}

// CreateTestUser inserts an active user with a hashed password and the
// named role.
func CreateTestUser(t *testing.T, db *gorm.DB, phone, email, password, roleName string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	var role models.Role
	require.NoError(t, db.Where("name = ?", roleName).First(&role).Error,
		"role %q missing, seed roles first", roleName)

	user := &models.User{
		FullName:     "Test User",
		PhoneNumber:  phone,
		Email:        email,
		Address:      "1 Test Street",
		PasswordHash: hash,
		Active:       true,
		RoleID:       role.ID,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Preload("Role").First(user, user.ID).Error)

	return user
}

// CreateTestCategory inserts a category.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateTestProduct inserts a product in the given category.
func CreateTestProduct(t *testing.T, db *gorm.DB, name string, price float64, categoryID uint) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:       name,
		Price:      price,
		Quantity:   100,
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// MakeRequest performs a JSON request against the test app.
func MakeRequest(t *testing.T, app *fiber.App, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ParseResponse decodes a JSON response body into v.
func ParseResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
