package services

import (
	"log"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
)

type ReconcileReport struct {
	VideosChecked  int   `json:"videosChecked"`
	VideosRepaired int   `json:"videosRepaired"`
	OrphansDeleted int64 `json:"orphansDeleted"`
}

// ReconcileComments repairs drift between Video.Comments and the Comment
// rows: each video's list is rebuilt as exactly the ids of its comments
// (ordered by creation, which restores insertion order), and comments whose
// video no longer exists are deleted. Idempotent; a second run over a clean
// store changes nothing. It runs alongside live traffic best-effort; a
// comment added mid-pass may be missed this run and is picked up the next.
func ReconcileComments() (*ReconcileReport, error) {
	var report ReconcileReport

	var videos []models.Video
	if err := storage.DB.Find(&videos).Error; err != nil {
		return nil, err
	}

	for i := range videos {
		video := &videos[i]
		report.VideosChecked++

		var ids []uint
		if err := storage.DB.Model(&models.Comment{}).
			Where("video_id = ?", video.ID).
			Order("created_at ASC, id ASC").
			Pluck("id", &ids).Error; err != nil {
			return nil, err
		}

		current, err := models.DecodeRefs(video.Comments)
		if err != nil {
			// Unreadable column, rebuild it outright.
			current = nil
		}
		if equalRefs(current, ids) {
			continue
		}

		refs, err := models.EncodeRefs(ids)
		if err != nil {
			return nil, err
		}
		if err := storage.DB.Model(video).Update("comments", refs).Error; err != nil {
			return nil, err
		}
		report.VideosRepaired++
		log.Printf("reconciled comments for video %d (%d refs)", video.ID, len(ids))
	}

	orphans := storage.DB.
		Where("video_id NOT IN (?)", storage.DB.Model(&models.Video{}).Select("id")).
		Delete(&models.Comment{})
	if orphans.Error != nil {
		return nil, orphans.Error
	}
	report.OrphansDeleted = orphans.RowsAffected

	return &report, nil
}

func equalRefs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
