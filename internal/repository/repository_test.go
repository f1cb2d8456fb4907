package repository

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"peerchat-service/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.Room{},
		&domain.RoomParticipant{},
		&domain.Message{},
		&domain.MessageReaction{},
		&domain.RoomInvitation{},
		&domain.ChatActivity{},
		&domain.SupportRequest{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func createTestRoom(t *testing.T, db *gorm.DB, creator uuid.UUID, maxParticipants int) *domain.Room {
	t.Helper()

	room := &domain.Room{
		Name:            "test room",
		RoomKind:        domain.RoomKindPeerSupport,
		CreatedBy:       creator,
		IsActive:        true,
		IsPrivate:       true,
		MaxParticipants: maxParticipants,
	}
	if err := db.Create(room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return room
}
