package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yeasin2002/marketauth/domain"
	"github.com/yeasin2002/marketauth/internal/audit"
	authsvc "github.com/yeasin2002/marketauth/internal/auth"
	"github.com/yeasin2002/marketauth/internal/config"
	"github.com/yeasin2002/marketauth/internal/http/middleware"
	infraauth "github.com/yeasin2002/marketauth/internal/infrastructure/auth"
	"github.com/yeasin2002/marketauth/internal/infrastructure/database"
	"github.com/yeasin2002/marketauth/internal/infrastructure/notifications"
	"github.com/yeasin2002/marketauth/internal/infrastructure/repositories"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories and stores
	AccountRepo domain.AccountRepository
	Sessions    domain.SessionStore

	// Services
	CredentialSvc domain.CredentialService
	TokenSvc      domain.TokenService
	Notifier      domain.Notifier
	Audit         domain.AuditLogger
	AuthSvc       domain.AuthService

	// Middleware
	IdentityMW *middleware.IdentityMW

	kafkaAudit *audit.KafkaAuditLogger
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	// Initialize infrastructure
	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	// Initialize repositories and stores
	container.initStores()

	// Initialize services
	if err := container.initServices(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	// The database-backed session store runs without a Redis connection.
	if c.Config.SessionBackend != config.SessionBackendRedis {
		return nil
	}

	client, err := database.ConnectRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		return err
	}

	c.RedisClient = client
	return nil
}

func (c *Container) initStores() {
	c.AccountRepo = repositories.NewAccountRepository(c.DB)

	switch c.Config.SessionBackend {
	case config.SessionBackendRedis:
		c.Sessions = repositories.NewRedisSessionStore(c.RedisClient, c.Config.RefreshTTL, c.Config.SessionsPerAccount)
	default:
		c.Sessions = repositories.NewDBSessionStore(c.DB, c.Config.SessionsPerAccount)
	}
}

func (c *Container) initServices() error {
	tokenSvc, err := infraauth.NewJWTService(infraauth.TokenConfig{
		AccessSecret:  c.Config.AccessSecret,
		RefreshSecret: c.Config.RefreshSecret,
		Issuer:        c.Config.TokenIssuer,
		AccessTTL:     c.Config.AccessTTL,
		RefreshTTL:    c.Config.RefreshTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	c.TokenSvc = tokenSvc

	c.CredentialSvc = infraauth.NewPasswordService(0)
	c.Notifier = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
	).WithSMTP(c.Config.SMTPAddr, c.Config.EmailFrom)
	c.Audit = c.buildAuditLogger()

	// Auth service (depends on all other services)
	c.AuthSvc = authsvc.NewAuthService(
		c.AccountRepo,
		c.Sessions,
		c.CredentialSvc,
		c.TokenSvc,
		c.Notifier,
		c.Audit,
		c.Config.AccessTTL,
		c.Config.ResetCodeTTL,
	)

	c.IdentityMW = middleware.NewIdentityMW(c.AuthSvc)
	return nil
}

// buildAuditLogger always keeps the local log sink; Kafka joins it as a
// second sink when configured.
func (c *Container) buildAuditLogger() domain.AuditLogger {
	logSink := audit.NewLogAuditLogger()
	if !c.Config.AuditEnabled || len(c.Config.AuditBrokers) == 0 {
		return logSink
	}

	c.kafkaAudit = audit.NewKafkaAuditLogger(c.Config.AuditBrokers, c.Config.AuditTopic)
	return audit.NewMultiAuditLogger(logSink, c.kafkaAudit)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.kafkaAudit != nil {
		c.kafkaAudit.Close()
	}

	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
