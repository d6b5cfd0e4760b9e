package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/vijaysurla/227clips-backend/models"
	"github.com/vijaysurla/227clips-backend/services"
	"github.com/vijaysurla/227clips-backend/storage"
	"github.com/vijaysurla/227clips-backend/utils"
)

// AdminStats returns platform wide row counts.
func AdminStats(ctx iris.Context) {
	var userCount, videoCount, commentCount, tipCount, interactionCount int64

	if err := storage.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	storage.DB.Model(&models.Video{}).Count(&videoCount)
	storage.DB.Model(&models.Comment{}).Count(&commentCount)
	storage.DB.Model(&models.Tip{}).Count(&tipCount)
	storage.DB.Model(&models.Interaction{}).Count(&interactionCount)

	ctx.JSON(iris.Map{
		"users":        userCount,
		"videos":       videoCount,
		"comments":     commentCount,
		"tips":         tipCount,
		"interactions": interactionCount,
	})
}

// AdminActivity returns the most recent interaction ledger entries.
func AdminActivity(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 100)

	interactions, err := services.RecentInteractions(limit)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"interactions": interactions})
}

// AdminReconcileComments rebuilds stale comment reference lists and removes
// orphaned comment rows.
func AdminReconcileComments(ctx iris.Context) {
	report, err := services.ReconcileComments()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(report)
}
