package services

import (
	"testing"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
)

func TestReconcileCommentsRepairsStaleRefs(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	commenter := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	kept, _, err := AddComment(video.ID, commenter.ID, "kept")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	doomed, _, err := AddComment(video.ID, commenter.ID, "doomed")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	// Delete the row directly, leaving its ref dangling in video.comments.
	if err := storage.DB.Delete(&models.Comment{}, doomed.ID).Error; err != nil {
		t.Fatalf("raw delete failed: %v", err)
	}

	report, err := ReconcileComments()
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if report.VideosRepaired != 1 {
		t.Fatalf("expected 1 repaired video, got %d", report.VideosRepaired)
	}

	v := reloadVideo(t, video.ID)
	ids, _ := models.DecodeRefs(v.Comments)
	if len(ids) != 1 || ids[0] != kept.ID {
		t.Fatalf("expected refs [%d], got %v", kept.ID, ids)
	}
}

func TestReconcileCommentsRestoresMissingRefs(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	commenter := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	first, _, err := AddComment(video.ID, commenter.ID, "first")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	second, _, err := AddComment(video.ID, commenter.ID, "second")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	// Simulate the drift window: comment rows exist but the list write was
	// lost.
	empty, _ := models.EncodeRefs(nil)
	if err := storage.DB.Model(&models.Video{}).Where("id = ?", video.ID).
		Update("comments", empty).Error; err != nil {
		t.Fatalf("could not blank refs: %v", err)
	}

	if _, err := ReconcileComments(); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	ids, _ := models.DecodeRefs(reloadVideo(t, video.ID).Comments)
	if len(ids) != 2 || ids[0] != first.ID || ids[1] != second.ID {
		t.Fatalf("expected refs [%d %d], got %v", first.ID, second.ID, ids)
	}
}

func TestReconcileCommentsDeletesOrphans(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	commenter := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	orphan := models.Comment{Content: "orphan", UserID: commenter.ID, VideoID: video.ID + 1000}
	if err := storage.DB.Create(&orphan).Error; err != nil {
		t.Fatalf("could not create orphan: %v", err)
	}

	report, err := ReconcileComments()
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if report.OrphansDeleted != 1 {
		t.Fatalf("expected 1 orphan deleted, got %d", report.OrphansDeleted)
	}

	var count int64
	storage.DB.Model(&models.Comment{}).Where("id = ?", orphan.ID).Count(&count)
	if count != 0 {
		t.Fatal("expected orphan row to be gone")
	}
}

func TestReconcileCommentsIdempotent(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	commenter := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	if _, _, err := AddComment(video.ID, commenter.ID, "stable"); err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	if _, err := ReconcileComments(); err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}

	report, err := ReconcileComments()
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	if report.VideosRepaired != 0 || report.OrphansDeleted != 0 {
		t.Fatalf("expected clean second run, got %+v", report)
	}

	ids, _ := models.DecodeRefs(reloadVideo(t, video.ID).Comments)
	if len(ids) != 1 {
		t.Fatalf("expected 1 ref, got %v", ids)
	}
}
