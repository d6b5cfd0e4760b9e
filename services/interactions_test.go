package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
)

func TestToggleLikeDoubleToggleRestoresState(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	liker := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	first, err := ToggleLike(video.ID, liker.ID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !first.IsLiked || first.LikeCount != 1 {
		t.Fatalf("expected liked with count 1, got %+v", first)
	}

	second, err := ToggleLike(video.ID, liker.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if second.IsLiked || second.LikeCount != 0 {
		t.Fatalf("expected unliked with count 0, got %+v", second)
	}
}

func TestToggleLikeBidirectionalReferences(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	liker := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	if _, err := ToggleLike(video.ID, liker.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	v := reloadVideo(t, video.ID)
	u := reloadUser(t, liker.ID)
	if !models.ContainsRef(v.Likes, liker.ID) {
		t.Fatal("expected video.likes to contain the liker")
	}
	if !models.ContainsRef(u.LikedVideos, video.ID) {
		t.Fatal("expected user.likedVideos to contain the video")
	}

	if _, err := ToggleLike(video.ID, liker.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	v = reloadVideo(t, video.ID)
	u = reloadUser(t, liker.ID)
	if models.ContainsRef(v.Likes, liker.ID) {
		t.Fatal("expected video.likes to no longer contain the liker")
	}
	if models.ContainsRef(u.LikedVideos, video.ID) {
		t.Fatal("expected user.likedVideos to no longer contain the video")
	}
}

func TestToggleLikeMissingEntities(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, 0)
	video := createTestVideo(t, user)

	if _, err := ToggleLike(99999, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing video, got %v", err)
	}
	if _, err := ToggleLike(video.ID, 99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestAddCommentPreservesOrder(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	commenter := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	var wantIDs []uint
	for i, content := range []string{"first", "second", "third"} {
		comment, count, err := AddComment(video.ID, commenter.ID, content)
		if err != nil {
			t.Fatalf("comment %d failed: %v", i, err)
		}
		if count != i+1 {
			t.Fatalf("expected count %d, got %d", i+1, count)
		}
		wantIDs = append(wantIDs, comment.ID)
	}

	v := reloadVideo(t, video.ID)
	ids, err := models.DecodeRefs(v.Comments)
	if err != nil {
		t.Fatalf("could not decode refs: %v", err)
	}
	if len(ids) != len(wantIDs) {
		t.Fatalf("expected %v, got %v", wantIDs, ids)
	}
	for i := range wantIDs {
		if ids[i] != wantIDs[i] {
			t.Fatalf("expected insertion order %v, got %v", wantIDs, ids)
		}
	}
}

func TestAddCommentValidation(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, 0)
	video := createTestVideo(t, user)

	if _, _, err := AddComment(video.ID, user.ID, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty content, got %v", err)
	}
	if _, _, err := AddComment(99999, user.ID, "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing video, got %v", err)
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	author := createTestUser(t, 0)
	stranger := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	comment, _, err := AddComment(video.ID, author.ID, "mine")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	if err := DeleteComment(video.ID, comment.ID, stranger.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}

	if err := DeleteComment(video.ID, comment.ID, author.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}

	v := reloadVideo(t, video.ID)
	if models.ContainsRef(v.Comments, comment.ID) {
		t.Fatal("expected comment ref to be removed from video")
	}

	if err := DeleteComment(video.ID, comment.ID, author.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteVideoCascade(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	liker := createTestUser(t, 0)
	commenter := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	if _, err := ToggleLike(video.ID, liker.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, _, err := AddComment(video.ID, commenter.ID, "gone soon"); err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	before := reloadUser(t, owner.ID).UploadedVideosCount

	if err := DeleteVideo(context.Background(), video.ID, owner.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var videoCount int64
	storage.DB.Model(&models.Video{}).Where("id = ?", video.ID).Count(&videoCount)
	if videoCount != 0 {
		t.Fatal("expected video row to be gone")
	}

	var commentCount int64
	storage.DB.Model(&models.Comment{}).Where("video_id = ?", video.ID).Count(&commentCount)
	if commentCount != 0 {
		t.Fatal("expected comments to be gone")
	}

	if models.ContainsRef(reloadUser(t, liker.ID).LikedVideos, video.ID) {
		t.Fatal("expected liker.likedVideos to no longer contain the video")
	}

	after := reloadUser(t, owner.ID).UploadedVideosCount
	if after != before-1 {
		t.Fatalf("expected upload count %d, got %d", before-1, after)
	}

	if err := DeleteVideo(context.Background(), video.ID, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteVideoForbiddenForNonOwner(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	other := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	if err := DeleteVideo(context.Background(), video.ID, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	var count int64
	storage.DB.Model(&models.Video{}).Where("id = ?", video.ID).Count(&count)
	if count != 1 {
		t.Fatal("expected video to survive a forbidden delete")
	}
}

func TestDeleteVideoUploadCountFloorsAtZero(t *testing.T) {
	setupTestDB(t)

	owner := createTestUser(t, 0)
	video := createTestVideo(t, owner)

	// Force a zero count so the decrement would go negative without the floor.
	storage.DB.Model(&models.User{}).Where("id = ?", owner.ID).
		UpdateColumn("uploaded_videos_count", 0)

	if err := DeleteVideo(context.Background(), video.ID, owner.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if got := reloadUser(t, owner.ID).UploadedVideosCount; got != 0 {
		t.Fatalf("expected count floored at 0, got %d", got)
	}
}
