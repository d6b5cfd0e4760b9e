package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/vijaysurla/227clips-backend/services"
	"github.com/vijaysurla/227clips-backend/utils"
)

type interactInput struct {
	Type string `json:"type" validate:"required"`
}

// Interact records a view or share style interaction against a video and
// returns the refreshed counters.
func Interact(ctx iris.Context) {
	videoID := ctx.Params().GetUintDefault("id", 0)
	userID := ctx.Values().Get("userID").(uint)

	var input interactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	video, err := services.RecordInteraction(userID, videoID, input.Type)
	if err != nil {
		writeServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"video": video})
}
