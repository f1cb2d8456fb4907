package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/repository"
)

func setupPresenceTest(t *testing.T) (*gorm.DB, PresenceService, repository.RoomRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Room{}, &domain.RoomParticipant{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	roomRepo := repository.NewRoomRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	return db, NewPresenceService(presenceRepo, roomRepo, zap.NewNop()), roomRepo
}

func createPresenceRoom(t *testing.T, db *gorm.DB, maxParticipants int) *domain.Room {
	t.Helper()

	room := &domain.Room{
		Name:            "quiet corner",
		RoomKind:        domain.RoomKindPeerSupport,
		CreatedBy:       uuid.New(),
		IsActive:        true,
		IsPrivate:       true,
		MaxParticipants: maxParticipants,
	}
	if err := db.Create(room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return room
}

func TestPresenceService_SetStatus_Member(t *testing.T) {
	db, presence, roomRepo := setupPresenceTest(t)
	ctx := context.Background()

	room := createPresenceRoom(t, db, 2)
	member := uuid.New()
	if err := roomRepo.AddParticipant(ctx, room.ID, member); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if err := presence.SetStatus(ctx, room.ID, member, domain.ParticipantAway); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	participants, err := roomRepo.Participants(ctx, room.ID)
	if err != nil {
		t.Fatalf("Participants failed: %v", err)
	}
	if len(participants) != 1 {
		t.Fatalf("expected 1 participant, got %d", len(participants))
	}
	if participants[0].Status != domain.ParticipantAway {
		t.Errorf("expected away status, got %s", participants[0].Status)
	}
}

// A status write from a non-member must not reach the upsert: the insert
// half would mint a participant row and slip past the capacity check
// that join enforces.
func TestPresenceService_SetStatus_NonMemberCannotEnter(t *testing.T) {
	db, presence, roomRepo := setupPresenceTest(t)
	ctx := context.Background()

	room := createPresenceRoom(t, db, 1)
	member := uuid.New()
	if err := roomRepo.AddParticipant(ctx, room.ID, member); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	intruder := uuid.New()
	if err := roomRepo.AddParticipant(ctx, room.ID, intruder); !errors.Is(err, domain.ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull on join, got %v", err)
	}

	err := presence.SetStatus(ctx, room.ID, intruder, domain.ParticipantActive)
	if !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}

	count, err := roomRepo.MemberCount(ctx, room.ID)
	if err != nil {
		t.Fatalf("MemberCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("member count grew past capacity: %d", count)
	}
	member2, err := roomRepo.IsParticipant(ctx, room.ID, intruder)
	if err != nil {
		t.Fatalf("IsParticipant failed: %v", err)
	}
	if member2 {
		t.Error("non-member gained participation through a status write")
	}
}

func TestPresenceService_SetStatus_InvalidStatus(t *testing.T) {
	db, presence, roomRepo := setupPresenceTest(t)
	ctx := context.Background()

	room := createPresenceRoom(t, db, 2)
	member := uuid.New()
	if err := roomRepo.AddParticipant(ctx, room.ID, member); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	err := presence.SetStatus(ctx, room.ID, member, "lurking")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestPresenceService_RoomPresence_MembersOnly(t *testing.T) {
	db, presence, roomRepo := setupPresenceTest(t)
	ctx := context.Background()

	room := createPresenceRoom(t, db, 4)
	member := uuid.New()
	if err := roomRepo.AddParticipant(ctx, room.ID, member); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if _, err := presence.RoomPresence(ctx, room.ID, member); err != nil {
		t.Errorf("member presence read failed: %v", err)
	}
	if _, err := presence.RoomPresence(ctx, room.ID, uuid.New()); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("expected ErrNotMember for outsider, got %v", err)
	}
}
