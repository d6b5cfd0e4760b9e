package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
)

// The operations here keep the denormalized cross-references between users
// and videos consistent: Video.Likes ↔ User.LikedVideos, Video.Comments ↔
// Comment rows, and the owner's UploadedVideosCount. None of them run inside
// a transaction; partial failures leave drift that ReconcileComments repairs.

type LikeResult struct {
	LikeCount int  `json:"likes"`
	IsLiked   bool `json:"isLiked"`
}

// ToggleLike flips the like state of (video, user). Calling it twice with
// the same arguments restores the original state.
func ToggleLike(videoID, userID uint) (*LikeResult, error) {
	var video models.Video
	if err := storage.DB.First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	isLiked := !models.ContainsRef(video.Likes, userID)

	var err error
	if isLiked {
		if video.Likes, _, err = models.AddRef(video.Likes, userID); err != nil {
			return nil, err
		}
		if user.LikedVideos, _, err = models.AddRef(user.LikedVideos, videoID); err != nil {
			return nil, err
		}
	} else {
		if video.Likes, _, err = models.RemoveRef(video.Likes, userID); err != nil {
			return nil, err
		}
		if user.LikedVideos, _, err = models.RemoveRef(user.LikedVideos, videoID); err != nil {
			return nil, err
		}
	}

	if err := storage.DB.Model(&video).Update("likes", video.Likes).Error; err != nil {
		return nil, err
	}
	if err := storage.DB.Model(&user).Update("liked_videos", user.LikedVideos).Error; err != nil {
		return nil, err
	}

	likes, err := models.DecodeRefs(video.Likes)
	if err != nil {
		return nil, err
	}
	return &LikeResult{LikeCount: len(likes), IsLiked: isLiked}, nil
}

// AddComment persists the comment row first and appends its id to the end of
// the video's comment list second. A failure between the two leaves an
// unreferenced comment for the reconciler.
func AddComment(videoID, userID uint, content string) (*models.Comment, int, error) {
	if content == "" {
		return nil, 0, ErrInvalidArgument
	}

	var video models.Video
	if err := storage.DB.First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	comment := models.Comment{
		Content: content,
		UserID:  userID,
		VideoID: videoID,
	}
	if err := storage.DB.Create(&comment).Error; err != nil {
		return nil, 0, err
	}

	refs, err := models.AppendRef(video.Comments, comment.ID)
	if err != nil {
		return nil, 0, err
	}
	if err := storage.DB.Model(&video).Update("comments", refs).Error; err != nil {
		return nil, 0, err
	}

	ids, err := models.DecodeRefs(refs)
	if err != nil {
		return nil, 0, err
	}

	storage.DB.Preload("User").First(&comment, comment.ID)
	return &comment, len(ids), nil
}

// DeleteComment removes a comment authored by requesterID. The back-reference
// on the video is cleaned up best-effort: an already-deleted video is fine.
func DeleteComment(videoID, commentID, requesterID uint) error {
	var comment models.Comment
	if err := storage.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if comment.UserID != requesterID {
		return ErrForbidden
	}

	if err := storage.DB.Delete(&models.Comment{}, commentID).Error; err != nil {
		return err
	}

	var video models.Video
	if err := storage.DB.First(&video, videoID).Error; err == nil {
		refs, removed, refErr := models.RemoveRef(video.Comments, commentID)
		if refErr == nil && removed {
			storage.DB.Model(&video).Update("comments", refs)
		}
	}

	return nil
}

// DeleteVideo removes a video owned by requesterID together with everything
// that references it: the stored blobs (best-effort), every user's
// LikedVideos entry, all of its comments, and one unit of the owner's
// uploaded count (floored at zero).
func DeleteVideo(ctx context.Context, videoID, requesterID uint) error {
	var video models.Video
	if err := storage.DB.First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if video.UserID != requesterID {
		return ErrForbidden
	}

	// Blob release must not block metadata cleanup.
	if err := storage.DeleteObject(ctx, video.URL); err != nil {
		log.Printf("could not delete video blob for video %d: %v", videoID, err)
	}
	if err := storage.DeleteObject(ctx, video.Thumbnail); err != nil {
		log.Printf("could not delete thumbnail blob for video %d: %v", videoID, err)
	}

	if err := storage.DB.Delete(&models.Video{}, videoID).Error; err != nil {
		return err
	}

	if err := removeLikedVideoRefs(videoID); err != nil {
		return err
	}

	if err := storage.DB.Where("video_id = ?", videoID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}

	if err := storage.DB.Model(&models.User{}).Where("id = ?", video.UserID).
		UpdateColumn("uploaded_videos_count", gorm.Expr("GREATEST(uploaded_videos_count - 1, 0)")).Error; err != nil {
		return err
	}

	return nil
}

// removeLikedVideoRefs pulls videoID out of the LikedVideos array of every
// user referencing it. Candidates are found via jsonb containment; each row
// is then rewritten read-modify-write, the same way single-user updates go.
func removeLikedVideoRefs(videoID uint) error {
	var users []models.User
	if err := storage.DB.Where("liked_videos @> ?::jsonb", fmt.Sprintf("[%d]", videoID)).Find(&users).Error; err != nil {
		return err
	}

	for i := range users {
		refs, removed, err := models.RemoveRef(users[i].LikedVideos, videoID)
		if err != nil || !removed {
			continue
		}
		if err := storage.DB.Model(&users[i]).Update("liked_videos", refs).Error; err != nil {
			return err
		}
	}
	return nil
}
