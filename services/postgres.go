package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string

	adminEmail    string
	adminPassword string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.driver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if ds.driver == "" {
		ds.driver = DriverPostgres
	}

	switch ds.driver {
	case DriverSqlite:
		ds.database = sqliteDSN()
	case DriverPostgres:
		ds.database = postgresDSN()
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", ds.driver)
	}

	ds.adminEmail = os.Getenv("ADMIN_EMAIL")
	ds.adminPassword = os.Getenv("ADMIN_PASSWORD")

	return ds.DefaultService.Configure(ctx)
}

func postgresDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	dbname := envOr("DB_NAME", "bloolabb")
	sslmode := envOr("DB_SSLMODE", "disable")
	timezone := envOr("DB_TIMEZONE", "UTC")

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone)
}

func (ds *PostgresService) dialector() gorm.Dialector {
	if ds.driver == DriverSqlite {
		return sqliteDialector(ds.database)
	}
	return postgres.Open(ds.database)
}

func (ds *PostgresService) Start() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.WithFields(log.Fields{"driver": ds.driver, "attempt": attempt}).Info("Connecting to database")

		ds.db, err = gorm.Open(ds.dialector(), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Error),
			TranslateError: true,
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					if ds.driver == DriverSqlite {
						sqlDB.SetMaxOpenConns(1)
					}
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.WithError(err).Errorf("Failed to connect to database after %d attempts", maxRetries)
			return err
		}

		log.WithError(err).Warnf("Database connection failed, retrying in %v", retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if err = ds.Migrate(); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return err
	}

	if err = ds.createDefaultAdmin(); err != nil {
		log.WithError(err).Error("Failed to seed admin user")
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Profile{},

		&model.Track{},
		&model.Module{},
		&model.Lesson{},
		&model.Exercise{},

		&model.LessonProgress{},
		&model.HeartsUsage{},

		&model.Conversation{},
		&model.ChatMessage{},

		&model.Badge{},
		&model.UserBadge{},
	}
}

// OpenFromEnv opens and migrates the database selected by DB_DRIVER without
// starting the service container. Used by the seed tool.
func OpenFromEnv() (*gorm.DB, error) {
	if strings.ToLower(os.Getenv("DB_DRIVER")) == DriverSqlite {
		return OpenSqlite(sqliteDSN())
	}

	db, err := gorm.Open(postgres.Open(postgresDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}
	return db, nil
}

func (ds *PostgresService) Migrate() error {
	return ds.db.AutoMigrate(Models()...)
}

func (ds *PostgresService) Shutdown() {
	if ds.db == nil {
		return
	}
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// HandleError classifies a database error, logs it and converts it into an
// AppError the HTTP layer can render.
func (ds *PostgresService) HandleError(err error) error {
	return HandleDBError(err)
}

func HandleDBError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.GetAppError(err); ok {
		return err
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound // 404
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict // 409
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest // 400
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError // 500
		errorType = "TRANSACTION_ERROR"
	default:
		if status, kind, ok := classifySqliteError(err); ok {
			statusCode, errorType = status, kind
		} else if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			statusCode = http.StatusConflict // 409
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "relation") && strings.Contains(err.Error(), "does not exist") {
			statusCode = http.StatusInternalServerError // 500
			errorType = "SCHEMA_ERROR"
		} else if strings.Contains(err.Error(), "connection refused") {
			statusCode = http.StatusServiceUnavailable // 503
			errorType = "DATABASE_CONNECTION_ERROR"
		} else {
			statusCode = http.StatusInternalServerError // 500
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return shared.NewAppError(statusCode, http.StatusText(statusCode), nil, fmt.Errorf("%s: %w", errorType, err))
}

// createDefaultAdmin makes sure ADMIN_EMAIL exists with the admin role on
// first start. Nothing is created when no admin password is configured.
func (ds *PostgresService) createDefaultAdmin() error {
	repo := repositories.NewUserRepository(ds.db)

	count, err := repo.CountByRole(model.RoleAdmin)
	if err != nil || count > 0 {
		return err
	}

	if ds.adminEmail == "" || ds.adminPassword == "" {
		log.Warn("No admin user exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(ds.adminPassword), bcryptCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:    strings.ToLower(ds.adminEmail),
		Username: "admin",
		Password: string(hashedPassword),
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := repo.CreateUser(admin); err != nil {
		return err
	}

	log.WithField("email", admin.Email).Info("Default admin user created")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
