package services

import (
	"errors"
	"testing"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
)

func TestRecordInteractionBumpsCounters(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	viewer := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	v, err := RecordInteraction(viewer.ID, video.ID, models.InteractionView)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if v.Views != 1 {
		t.Fatalf("expected 1 view, got %d", v.Views)
	}

	v, err = RecordInteraction(viewer.ID, video.ID, models.InteractionShare)
	if err != nil {
		t.Fatalf("share failed: %v", err)
	}
	if v.Shares != 1 {
		t.Fatalf("expected 1 share, got %d", v.Shares)
	}

	// Like interactions only append to the ledger; the count lives on
	// video.likes.
	v, err = RecordInteraction(viewer.ID, video.ID, models.InteractionLike)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if v.Views != 1 || v.Shares != 1 {
		t.Fatalf("expected counters untouched, got views=%d shares=%d", v.Views, v.Shares)
	}

	var rows int64
	storage.DB.Model(&models.Interaction{}).Where("video_id = ?", video.ID).Count(&rows)
	if rows != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", rows)
	}
}

func TestRecordInteractionValidation(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, 0)
	video := createTestVideo(t, user)

	if _, err := RecordInteraction(user.ID, video.ID, "poke"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown kind, got %v", err)
	}
	if _, err := RecordInteraction(user.ID, 99999, models.InteractionView); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing video, got %v", err)
	}
}

func TestRecentInteractionsLimit(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, 0)
	video := createTestVideo(t, user)

	for i := 0; i < 5; i++ {
		LogInteraction(user.ID, video.ID, models.InteractionView)
	}

	rows, err := RecentInteractions(3)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}
