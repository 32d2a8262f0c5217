package routes

import (
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
)

func GetTowns(ctx iris.Context) {
	var towns []models.Town
	if err := storage.DB.Order("name ASC").Find(&towns).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(towns)
}

// GetTownBySlug returns the town plus a count of its live listings
func GetTownBySlug(ctx iris.Context) {
	slug := ctx.Params().GetString("slug")

	var town models.Town
	townExists := storage.DB.Where("slug = ?", slug).Limit(1).Find(&town)
	if townExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if townExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var listingCount int64
	storage.DB.Model(&models.Property{}).
		Where("LOWER(town) = LOWER(?) AND COALESCE(is_active, true) = true AND status = ?", town.Name, "approved").
		Count(&listingCount)

	ctx.JSON(iris.Map{
		"town":         town,
		"listingCount": listingCount,
	})
}
