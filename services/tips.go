package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
)

// SendTip moves amount tokens from the sender to the owner of the video and
// appends the Tip ledger row. Both balance legs are targeted atomic UPDATEs:
// the debit is guarded by the balance check in its WHERE clause, so two
// concurrent tips from one sender cannot overdraw, and the credit is a plain
// increment, so concurrent tips to one receiver cannot lose updates. The
// three writes are not one transaction; sender loss always equals receiver
// gain because both legs carry the same amount.
func SendTip(videoID, senderID uint, amount int64) (*models.Tip, error) {
	if amount < 1 {
		return nil, ErrInvalidArgument
	}

	var video models.Video
	if err := storage.DB.First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sender models.User
	if err := storage.DB.First(&sender, senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Pre-read so a short balance reads as InsufficientFunds rather than as
	// a lost race below.
	if sender.TokenBalance < amount {
		return nil, ErrInsufficientFunds
	}

	receiverID := video.UserID

	debit := storage.DB.Model(&models.User{}).
		Where("id = ? AND token_balance >= ?", senderID, amount).
		UpdateColumn("token_balance", gorm.Expr("token_balance - ?", amount))
	if debit.Error != nil {
		return nil, debit.Error
	}
	if debit.RowsAffected == 0 {
		return nil, ErrInsufficientFunds
	}

	if err := storage.DB.Model(&models.User{}).Where("id = ?", receiverID).
		UpdateColumn("token_balance", gorm.Expr("token_balance + ?", amount)).Error; err != nil {
		return nil, err
	}

	tip := models.Tip{
		SenderID:   senderID,
		ReceiverID: receiverID,
		VideoID:    videoID,
		Amount:     amount,
	}
	if err := storage.DB.Create(&tip).Error; err != nil {
		return nil, err
	}

	storage.DB.Preload("Sender").Preload("Receiver").First(&tip, tip.ID)
	return &tip, nil
}

// ListTips returns a video's tips, newest first.
func ListTips(videoID uint) ([]models.Tip, error) {
	var tips []models.Tip
	err := storage.DB.Where("video_id = ?", videoID).
		Preload("Sender").Preload("Receiver").
		Order("created_at DESC").
		Find(&tips).Error
	return tips, err
}

type TipsSummary struct {
	TotalAmount   int64 `json:"totalAmount"`
	TipCount      int64 `json:"tipCount"`
	UniqueSenders int64 `json:"uniqueSenders"`
}

// GetTipsSummary aggregates a video's tips in a single point-in-time query.
func GetTipsSummary(videoID uint) (*TipsSummary, error) {
	var summary TipsSummary
	err := storage.DB.Model(&models.Tip{}).
		Select("COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS tip_count, COUNT(DISTINCT sender_id) AS unique_senders").
		Where("video_id = ?", videoID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
