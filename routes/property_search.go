package routes

import (
	"strings"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"

	"github.com/kataras/iris/v12"
)

// SearchProperties handles listing search with multiple filters. Only
// approved, active listings are ever returned here.
func SearchProperties(ctx iris.Context) {
	q := storage.DB.Model(&models.Property{})

	if town := strings.TrimSpace(ctx.URLParam("town")); town != "" {
		q = q.Where("LOWER(town) = LOWER(?)", town)
	}
	if text := strings.TrimSpace(ctx.URLParam("q")); text != "" {
		search := "%" + strings.ToLower(text) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if pType := strings.TrimSpace(ctx.URLParam("propertyType")); pType != "" {
		q = q.Where("property_type = ?", pType)
	}
	if minPrice, err := ctx.URLParamInt("minPriceUSD"); err == nil && minPrice > 0 {
		q = q.Where("price_usd >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamInt("maxPriceUSD"); err == nil && maxPrice > 0 {
		q = q.Where("price_usd <= ?", maxPrice)
	}
	if minBedrooms, err := ctx.URLParamInt("minBedrooms"); err == nil && minBedrooms > 0 {
		q = q.Where("bedrooms >= ?", minBedrooms)
	}
	if minBathrooms, err := ctx.URLParamInt("minBathrooms"); err == nil && minBathrooms > 0 {
		q = q.Where("bathrooms >= ?", minBathrooms)
	}
	if minLot, err := ctx.URLParamInt("minLotSizeM2"); err == nil && minLot > 0 {
		q = q.Where("lot_size_m2 >= ?", minLot)
	}

	// Tenure filter: titled=true excludes maritime zone concessions
	if titled := strings.TrimSpace(ctx.URLParam("titled")); titled != "" {
		if strings.EqualFold(titled, "true") {
			q = q.Where("titled = true")
		} else if strings.EqualFold(titled, "false") {
			q = q.Where("titled = false")
		}
	}

	q = q.Where("status = ?", "approved")
	q = q.Where("COALESCE(is_active, ?) = ?", true, true)

	sort := strings.ToLower(strings.TrimSpace(ctx.URLParam("sort")))
	switch sort {
	case "price_low":
		q = q.Order("price_usd ASC").Order("id DESC")
	case "price_high":
		q = q.Order("price_usd DESC").Order("id DESC")
	case "lot_size":
		q = q.Order("lot_size_m2 DESC").Order("id DESC")
	default:
		// Featured listings surface first in the default feed
		q = q.Order("featured DESC").Order("created_at DESC")
	}

	limit := ctx.URLParamIntDefault("limit", 50)
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := ctx.URLParamIntDefault("offset", 0)
	if offset < 0 {
		offset = 0
	}
	q = q.Limit(limit).Offset(offset)

	var properties []models.Property
	if err := q.Find(&properties).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to search properties"})
		return
	}

	ctx.JSON(properties)
}
