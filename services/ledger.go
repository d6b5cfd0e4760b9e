package services

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
)

// The interaction ledger is a pure append-only table, safe under concurrent
// writers. Counts on User/Video stay authoritative; the ledger feeds
// analytics and the admin activity view.

// RecordInteraction appends a ledger row and, for the legacy monotonic
// counter kinds (view, share), bumps the matching counter on the video with
// an atomic increment. Returns the video as it stands after the bump.
func RecordInteraction(userID, videoID uint, kind string) (*models.Video, error) {
	if !models.ValidInteractionType(kind) {
		return nil, ErrInvalidArgument
	}

	var video models.Video
	if err := storage.DB.First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	row := models.Interaction{UserID: userID, VideoID: videoID, Type: kind}
	if err := storage.DB.Create(&row).Error; err != nil {
		return nil, err
	}

	// Explicit column map; the kind never reaches the SQL text.
	var column string
	switch kind {
	case models.InteractionView:
		column = "views"
	case models.InteractionShare:
		column = "shares"
	}
	if column != "" {
		if err := storage.DB.Model(&video).
			UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error; err != nil {
			return nil, err
		}
	}

	storage.DB.First(&video, videoID)
	return &video, nil
}

// LogInteraction is the fire-and-forget form used by the like/comment/tip
// call sites, which own their counts themselves.
func LogInteraction(userID, videoID uint, kind string) {
	row := models.Interaction{UserID: userID, VideoID: videoID, Type: kind}
	if err := storage.DB.Create(&row).Error; err != nil {
		log.Printf("could not log %s interaction for video %d: %v", kind, videoID, err)
	}
}

// RecentInteractions returns the newest ledger rows for the admin activity
// view.
func RecentInteractions(limit int) ([]models.Interaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []models.Interaction
	err := storage.DB.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
