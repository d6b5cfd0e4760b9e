package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/storage"
	"github.com/vijaysurla/227clips-backend/utils"
)

type authenticateInput struct {
	UID         string `json:"uid" validate:"required"`
	Username    string `json:"username" validate:"required"`
	AccessToken string `json:"accessToken"` // provider token, consumed opaque
}

// Authenticate resolves an external auth subject to a local user, creating
// the account on first sight, and issues a token pair.
func Authenticate(ctx iris.Context) {
	var input authenticateInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	err := storage.DB.Where("uid = ?", input.UID).First(&user).Error
	if err != nil {
		user = models.User{
			UID:         input.UID,
			Username:    input.Username,
			DisplayName: input.Username,
		}
		if createErr := storage.DB.Create(&user).Error; createErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"user":         &user,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

func getUserByID(id string, ctx iris.Context) *models.User {
	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil
	}
	return &user
}

// GetUser returns a user's public profile.
func GetUser(ctx iris.Context) {
	id := ctx.Params().Get("id")
	user := getUserByID(id, ctx)
	if user == nil {
		return
	}
	ctx.JSON(iris.Map{"user": user})
}

type updateProfileInput struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Instagram   string `json:"instagram"`
	Youtube     string `json:"youtube"`
}

// UpdateUserProfile updates the editable profile fields.
func UpdateUserProfile(ctx iris.Context) {
	id := ctx.Params().Get("id")
	user := getUserByID(id, ctx)
	if user == nil {
		return
	}

	var input updateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{
		"display_name": input.DisplayName,
		"bio":          input.Bio,
		"instagram":    input.Instagram,
		"youtube":      input.Youtube,
	}
	if err := storage.DB.Model(user).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"user": user})
}

const maxAvatarSize = 5 * 1024 * 1024 // 5MB

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// UploadAvatar stores a new avatar blob and points the profile at it.
func UploadAvatar(ctx iris.Context) {
	id := ctx.Params().Get("id")
	user := getUserByID(id, ctx)
	if user == nil {
		return
	}

	ctx.SetMaxRequestBodySize(maxAvatarSize + 1024)
	file, header, err := ctx.FormFile("avatar")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeInvalidArgument, "No avatar file uploaded", ctx)
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeInvalidArgument, "Avatar exceeds the 5MB limit", ctx)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedAvatarTypes[contentType] {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeInvalidArgument, "Invalid file type. Only JPEG, PNG and GIF are allowed.", ctx)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	objectKey := fmt.Sprintf("avatars/%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(header.Filename)))
	url, err := storage.PutObject(ctx.Request().Context(), objectKey, data, contentType)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(user).Update("avatar", url).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"user": user})
}

type pushTokenInput struct {
	Token string `json:"token" validate:"required"`
}

// AlterPushToken registers or removes a device push token (set semantics on
// the stored array, same shape as the video reference lists).
func AlterPushToken(ctx iris.Context) {
	id := ctx.Params().Get("id")
	user := getUserByID(id, ctx)
	if user == nil {
		return
	}

	var input pushTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var tokens []string
	if user.PushTokens != nil {
		if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	op := ctx.URLParamDefault("op", "add")
	switch op {
	case "add":
		found := false
		for _, t := range tokens {
			if t == input.Token {
				found = true
				break
			}
		}
		if !found {
			tokens = append(tokens, input.Token)
		}
	case "remove":
		kept := tokens[:0]
		for _, t := range tokens {
			if t != input.Token {
				kept = append(kept, t)
			}
		}
		tokens = kept
	default:
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeInvalidArgument, "op must be add or remove", ctx)
		return
	}

	raw, err := json.Marshal(tokens)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := storage.DB.Model(user).Update("push_tokens", datatypes.JSON(raw)).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"user": user})
}

type allowsNotificationsInput struct {
	AllowsNotifications *bool `json:"allowsNotifications" validate:"required"`
}

// AllowsNotifications toggles push delivery for a user.
func AllowsNotifications(ctx iris.Context) {
	id := ctx.Params().Get("id")
	user := getUserByID(id, ctx)
	if user == nil {
		return
	}

	var input allowsNotificationsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := storage.DB.Model(user).Update("allows_notifications", input.AllowsNotifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"user": user})
}

// GetUserVideos returns a user's uploads, newest first.
func GetUserVideos(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var videos []models.Video
	err := storage.DB.Where("user_id = ?", id).
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"videos": videos})
}
