package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"peerchat-service/internal/config"
	"peerchat-service/internal/domain"
)

// NewDB opens the PostgreSQL connection, configures the pool and runs
// migrations.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	logLevel := logger.Silent
	if cfg.Server.Env == "dev" || cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	createIndexes(db)

	return db, nil
}

// AutoMigrate creates or updates the schema for all chat entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Room{},
		&domain.RoomParticipant{},
		&domain.Message{},
		&domain.MessageReaction{},
		&domain.RoomInvitation{},
		&domain.ChatActivity{},
		&domain.SupportRequest{},
	)
}

func createIndexes(db *gorm.DB) {
	// Delivery/display order within a room is (created_at, id).
	db.Exec(`CREATE INDEX IF NOT EXISTS idx_messages_room_order
		ON messages (room_id, created_at, id)`)

	// Pending invitations by invitee, for the duplicate check and listings.
	db.Exec(`CREATE INDEX IF NOT EXISTS idx_invitations_pending
		ON room_invitations (invitee_id, status) WHERE status = 'pending'`)
}
