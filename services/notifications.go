package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
	"github.com/vijaysurla/227clips-backend/utils"
)

// NotificationService handles push notification delivery to video owners.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}
	return tokens, nil
}

// SendVideoInteractionNotification tells a video's owner that someone liked,
// commented on or tipped their video. Called from goroutines at the
// interaction call sites; failures are logged, never surfaced.
func (ns *NotificationService) SendVideoInteractionNotification(ownerID, actorID uint, actorName, kind, videoTitle string) {
	if ownerID == actorID {
		return
	}

	tokens, err := ns.getUserPushTokens(ownerID)
	if err != nil {
		log.Printf("skipping %s notification for user %d: %v", kind, ownerID, err)
		return
	}

	var title, body string
	switch kind {
	case models.InteractionLike:
		title = "New like"
		body = fmt.Sprintf("%s liked your video %q", actorName, videoTitle)
	case models.InteractionComment:
		title = "New comment"
		body = fmt.Sprintf("%s commented on your video %q", actorName, videoTitle)
	case models.InteractionTip:
		title = "New tip"
		body = fmt.Sprintf("%s tipped your video %q", actorName, videoTitle)
	default:
		return
	}

	data := map[string]string{
		"type":   kind,
		"userId": fmt.Sprintf("%d", actorID),
	}

	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, data); err != nil {
			log.Printf("failed to send %s notification to token %s: %v", kind, token, err)
		}
	}
}
