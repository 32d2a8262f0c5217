package routes

import (
	"encoding/json"
	"strings"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

// GetOverlays lists the enabled map layers without their geometry so
// the client can render the layer picker cheaply.
func GetOverlays(ctx iris.Context) {
	q := storage.DB.Model(&models.Overlay{}).Where("enabled = true")
	if kind := strings.TrimSpace(ctx.URLParam("kind")); kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var overlays []models.Overlay
	if err := q.Select("id, created_at, updated_at, slug, name, kind, description, enabled").
		Order("name ASC").Find(&overlays).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(overlays)
}

// GetOverlayBySlug returns one layer with its full GeoJSON geometry
func GetOverlayBySlug(ctx iris.Context) {
	slug := ctx.Params().GetString("slug")

	var overlay models.Overlay
	overlayExists := storage.DB.Where("slug = ? AND enabled = true", slug).Limit(1).Find(&overlay)
	if overlayExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if overlayExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(overlay)
}

// UpsertOverlay creates or replaces a map layer (admin only)
func UpsertOverlay(ctx iris.Context) {
	var input OverlayInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var overlay models.Overlay
	existing := storage.DB.Where("slug = ?", input.Slug).Limit(1).Find(&overlay)
	if existing.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	overlay.Slug = input.Slug
	overlay.Name = input.Name
	overlay.Kind = input.Kind
	overlay.Description = input.Description
	overlay.GeoJSON = datatypes.JSON(input.GeoJSON)
	if input.Enabled != nil {
		overlay.Enabled = *input.Enabled
	} else if existing.RowsAffected == 0 {
		overlay.Enabled = true
	}

	if err := storage.DB.Save(&overlay).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "overlay.upsert", "overlay", overlay.ID, nil, nil)
	ctx.JSON(overlay)
}

func DeleteOverlay(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var overlay models.Overlay
	overlayExists := storage.DB.Find(&overlay, id)
	if overlayExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Overlay{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "overlay.delete", "overlay", overlay.ID, nil, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

type OverlayInput struct {
	Slug        string          `json:"slug" validate:"required,max=64"`
	Name        string          `json:"name" validate:"required,max=128"`
	Kind        string          `json:"kind" validate:"required,oneof=maritime_zone zoning aquifer protected_area"`
	Description string          `json:"description"`
	GeoJSON     json.RawMessage `json:"geoJSON" validate:"required"`
	Enabled     *bool           `json:"enabled"`
}
