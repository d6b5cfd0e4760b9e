package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/services"
	"github.com/vijaysurla/227clips-backend/utils"
)

type sendTipInput struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// SendTip transfers tokens from the requester to the video's owner.
func SendTip(ctx iris.Context) {
	videoID := ctx.Params().GetUintDefault("id", 0)
	userID := ctx.Values().Get("userID").(uint)

	var input sendTipInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	tip, err := services.SendTip(videoID, userID, input.Amount)
	if err != nil {
		writeServiceError(err, ctx)
		return
	}

	services.LogInteraction(userID, videoID, models.InteractionTip)
	go notifyVideoInteraction(userID, videoID, models.InteractionTip)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"tip": tip})
}

// ListTips returns a video's tips, newest first.
func ListTips(ctx iris.Context) {
	videoID := ctx.Params().GetUintDefault("id", 0)

	tips, err := services.ListTips(videoID)
	if err != nil {
		writeServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"tips": tips})
}

// GetTipsSummary returns the aggregate tip figures for a video.
func GetTipsSummary(ctx iris.Context) {
	videoID := ctx.Params().GetUintDefault("id", 0)

	summary, err := services.GetTipsSummary(videoID)
	if err != nil {
		writeServiceError(err, ctx)
		return
	}
	ctx.JSON(summary)
}
