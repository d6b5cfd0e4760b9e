package routes

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/services"
	"github.com/vijaysurla/227clips-backend/storage"
	"github.com/vijaysurla/227clips-backend/utils"
)

const maxVideoSize = 500 * 1024 * 1024 // 500MB

var allowedVideoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
}

type uploadURLInput struct {
	FileName string `json:"fileName" validate:"required"`
	FileSize int64  `json:"fileSize" validate:"required,min=1"`
}

// CreateUploadURL hands the client a presigned PUT URL for a new video blob.
// The object key is generated server side so clients cannot overwrite each
// other's uploads.
func CreateUploadURL(ctx iris.Context) {
	var input uploadURLInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	if !allowedVideoExtensions[ext] {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeInvalidArgument, "Unsupported video format", ctx)
		return
	}
	if input.FileSize > maxVideoSize {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeInvalidArgument, "Video exceeds the 500MB limit", ctx)
		return
	}

	objectKey := fmt.Sprintf("videos/%s%s", uuid.New().String(), ext)
	uploadURL, err := storage.CreateUploadURL(ctx.Request().Context(), objectKey)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"uploadUrl": uploadURL,
		"url":       storage.ObjectURL(objectKey),
	})
}

type createVideoInput struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2048"`
	URL         string `json:"url" validate:"required,url"`
	Thumbnail   string `json:"thumbnail"`
	Privacy     string `json:"privacy" validate:"omitempty,oneof=public private"`
}

// CreateVideo registers an uploaded video and bumps the owner's upload count.
func CreateVideo(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input createVideoInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	privacy := input.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}

	video := models.Video{
		Title:       input.Title,
		Description: input.Description,
		URL:         input.URL,
		Thumbnail:   input.Thumbnail,
		UserID:      userID,
		Privacy:     privacy,
	}
	if err := storage.DB.Create(&video).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("uploaded_videos_count", gorm.Expr("uploaded_videos_count + ?", 1))

	storage.DB.Preload("User").First(&video, video.ID)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"video": &video})
}

// GetVideoFeed returns public videos, newest first, paginated.
func GetVideoFeed(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 50 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Video{}).Where("privacy = ?", models.PrivacyPublic)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var videos []models.Video
	err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&videos).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, videos, page, perPage, total)
}

// GetVideo returns a single video with its owner preloaded.
func GetVideo(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var video models.Video
	if err := storage.DB.Preload("User").First(&video, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(iris.Map{"video": &video})
}

// ToggleLike flips the requester's like on a video and reports the new state.
func ToggleLike(ctx iris.Context) {
	videoID := ctx.Params().GetUintDefault("id", 0)
	userID := ctx.Values().Get("userID").(uint)

	result, err := services.ToggleLike(videoID, userID)
	if err != nil {
		writeServiceError(err, ctx)
		return
	}

	if result.IsLiked {
		services.LogInteraction(userID, videoID, models.InteractionLike)
		go notifyVideoInteraction(userID, videoID, models.InteractionLike)
	}

	ctx.JSON(result)
}

type addCommentInput struct {
	Content string `json:"content" validate:"required,max=1024"`
}

// AddComment appends a comment to a video.
func AddComment(ctx iris.Context) {
	videoID := ctx.Params().GetUintDefault("id", 0)
	userID := ctx.Values().Get("userID").(uint)

	var input addCommentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if strings.TrimSpace(input.Content) == "" {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeInvalidArgument, "Comment content is required", ctx)
		return
	}

	comment, count, err := services.AddComment(videoID, userID, input.Content)
	if err != nil {
		writeServiceError(err, ctx)
		return
	}

	services.LogInteraction(userID, videoID, models.InteractionComment)
	go notifyVideoInteraction(userID, videoID, models.InteractionComment)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"comment": comment, "commentCount": count})
}

// GetComments returns a video's comments, newest first.
func GetComments(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var video models.Video
	if err := storage.DB.First(&video, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var comments []models.Comment
	err := storage.DB.Where("video_id = ?", video.ID).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"comments": comments})
}

// DeleteComment removes a comment. Only its author may delete it.
func DeleteComment(ctx iris.Context) {
	videoID := ctx.Params().GetUintDefault("id", 0)
	commentID := ctx.Params().GetUintDefault("commentID", 0)
	userID := ctx.Values().Get("userID").(uint)

	if err := services.DeleteComment(videoID, commentID, userID); err != nil {
		writeServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"deleted": true})
}

// GetLikedVideos returns the videos a user has liked.
func GetLikedVideos(ctx iris.Context) {
	userID := ctx.Params().Get("userID")

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ids, err := models.DecodeRefs(user.LikedVideos)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	videos := []models.Video{}
	if len(ids) > 0 {
		err = storage.DB.Where("id IN ?", ids).
			Preload("User").
			Order("created_at DESC").
			Find(&videos).Error
		if err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}
	ctx.JSON(iris.Map{"videos": videos})
}

// DeleteVideo removes a video, its stored blobs, and every reference to it.
func DeleteVideo(ctx iris.Context) {
	videoID := ctx.Params().GetUintDefault("id", 0)
	userID := ctx.Values().Get("userID").(uint)

	if err := services.DeleteVideo(ctx.Request().Context(), videoID, userID); err != nil {
		writeServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"deleted": true})
}

// writeServiceError maps service sentinels to HTTP error responses.
func writeServiceError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, services.ErrForbidden):
		utils.CreateForbidden(ctx)
	case errors.Is(err, services.ErrInvalidArgument):
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeInvalidArgument, err.Error(), ctx)
	case errors.Is(err, services.ErrInsufficientFunds):
		utils.CreateInsufficientFunds(ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

var notificationService = services.NewNotificationService()

func notifyVideoInteraction(actorID, videoID uint, kind string) {
	var actor models.User
	if err := storage.DB.First(&actor, actorID).Error; err != nil {
		return
	}
	var video models.Video
	if err := storage.DB.First(&video, videoID).Error; err != nil {
		return
	}
	notificationService.SendVideoInteractionNotification(video.UserID, actorID, actor.DisplayName, kind, video.Title)
}
