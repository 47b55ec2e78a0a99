// Package testutil wires an in-memory database and an authenticated tenant
// for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const Password = "password123"

var dbSeq int64

// NewDB opens a fresh in-memory database, runs the migrations and installs
// it as the package-global connection the handlers read.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	return db
}

func NewConfig() *config.Config {
	return &config.Config{
		AppEnv:              "test",
		JWTSecret:           "0123456789abcdef0123456789abcdef",
		CronSecret:          "cron-job-secret",
		StripeWebhookSecret: "whsec_test_secret",
		CORSOrigins:         "http://localhost:5173",
	}
}

// NewApp builds a fiber app with the same error handler the server uses, so
// fiber.NewError responses serialize to the {"error": ...} envelope.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})
}

func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Plan:         models.PlanFree,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func Token(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()

	token, err := auth.GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)
	return token
}

// Request runs one request through the app. A non-empty token becomes the
// bearer header; a non-nil body is sent as JSON.
func Request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func DecodeJSON(t *testing.T, res *http.Response, dest interface{}) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(dest))
}
