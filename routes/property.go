package routes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

func CreateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateListingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Ensure arrays are never null
	features := input.Features
	if features == nil {
		features = []string{}
	}
	featuresJSON, _ := json.Marshal(features)

	photoPaths := insertPhotos(InsertPhotos{photos: input.Photos})
	if photoPaths == nil {
		photoPaths = []string{}
	}
	photosJSON, _ := json.Marshal(photoPaths)

	province := input.Province
	if province == "" {
		province = "Guanacaste"
	}

	property := models.Property{
		OwnerID:        claims.ID,
		Title:          input.Title,
		Description:    input.Description,
		PropertyType:   input.PropertyType,
		Town:           input.Town,
		Province:       province,
		Country:        "Costa Rica",
		Lat:            input.Lat,
		Lng:            input.Lng,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		LotSizeM2:      input.LotSizeM2,
		BuiltSizeM2:    input.BuiltSizeM2,
		YearBuilt:      input.YearBuilt,
		PriceUSD:       input.PriceUSD,
		Titled:         input.Titled,
		ConcessionInfo: input.ConcessionInfo,
		Features:       string(featuresJSON),
		Photos:         string(photosJSON),
		IsActive:       input.IsActive,
		Status:         "pending",
	}

	// Owners without an active paid subscription get the free tier
	property.FreeListing = !hasActiveSubscription(claims.ID)

	result := storage.DB.Create(&property)
	if result.Error != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to create property"})
		return
	}

	utils.Audit(ctx, "property.create", "property", property.ID, nil, &property)

	ctx.JSON(property)
}

func GetProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := GetPropertyAndAssociationsByPropertyID(id, ctx)
	if property == nil {
		return
	}

	// View counter is advisory, failures are ignored
	storage.DB.Model(&models.Property{}).Where("id = ?", property.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))

	ctx.JSON(property)
}

func GetPropertiesByUserID(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var properties []models.Property
	propertiesExist := storage.DB.Where("owner_id = ?", id).
		Order("created_at DESC").Find(&properties)

	if propertiesExist.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", propertiesExist.Error.Error(), ctx)
		return
	}

	ctx.JSON(properties)
}

func DeleteProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)

	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	if property.OwnerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	propertyDeleted := storage.DB.Delete(&models.Property{}, id)
	if propertyDeleted.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", propertyDeleted.Error.Error(), ctx)
		return
	}

	// Stored photos are removed best-effort
	var paths []string
	if property.Photos != "" {
		if err := json.Unmarshal([]byte(property.Photos), &paths); err == nil {
			for _, p := range paths {
				storage.DeletePhoto(p)
			}
		}
	}

	utils.Audit(ctx, "property.delete", "property", property.ID, &property, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

func UpdateProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	property := GetPropertyAndAssociationsByPropertyID(id, ctx)
	if property == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	if property.OwnerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdateListingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	features, _ := json.Marshal(input.Features)

	photoPaths := insertPhotos(InsertPhotos{
		photos:     input.Photos,
		propertyID: strconv.FormatUint(uint64(property.ID), 10),
	})
	photosJSON, _ := json.Marshal(photoPaths)

	property.Title = input.Title
	property.Description = input.Description
	property.PropertyType = input.PropertyType
	property.Town = input.Town
	property.Lat = input.Lat
	property.Lng = input.Lng
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	property.LotSizeM2 = input.LotSizeM2
	property.BuiltSizeM2 = input.BuiltSizeM2
	property.YearBuilt = input.YearBuilt
	property.PriceUSD = input.PriceUSD
	property.Titled = input.Titled
	property.ConcessionInfo = input.ConcessionInfo
	property.Features = string(features)
	property.Photos = string(photosJSON)
	property.IsActive = input.IsActive
	// Edits go back through moderation
	property.Status = "pending"

	rowsUpdated := storage.DB.Model(&property).Updates(property)
	if rowsUpdated.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", rowsUpdated.Error.Error(), ctx)
		return
	}

	utils.Audit(ctx, "property.update", "property", property.ID, nil, property)
	ctx.StatusCode(iris.StatusNoContent)
}

func GetPropertyAndAssociationsByPropertyID(id string, ctx iris.Context) *models.Property {
	var property models.Property
	propertyExists := storage.DB.Preload("Owner").Find(&property, id)

	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &property
}

// GetPropertyByIDParam loads a property without associations, writing
// the error response itself when the lookup fails.
func GetPropertyByIDParam(id string, ctx iris.Context) *models.Property {
	var property models.Property
	propertyExists := storage.DB.Find(&property, id)

	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}
	return &property
}

func GetPropertiesByBoundingBox(ctx iris.Context) {
	var boundingBox BoundingBoxInput
	err := ctx.ReadJSON(&boundingBox)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var properties []models.Property
	result := storage.DB.Preload("Owner").
		Where("lat >= ? AND lat <= ? AND lng >= ? AND lng <= ? AND COALESCE(is_active, true) = true AND status = ?",
			boundingBox.LatLow, boundingBox.LatHigh, boundingBox.LngLow, boundingBox.LngHigh, "approved").
		Order("created_at DESC").
		Find(&properties)

	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

// GetFeaturedProperties powers the home screen carousel
func GetFeaturedProperties(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var properties []models.Property
	result := storage.DB.Preload("Owner").
		Where("featured = true AND COALESCE(is_active, true) = true AND status = ?", "approved").
		Order("created_at DESC").
		Limit(limit).
		Find(&properties)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

// GetFreeProperties lists approved free-tier listings, newest first.
func GetFreeProperties(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var properties []models.Property
	result := storage.DB.Preload("Owner").
		Where("free_listing = true AND COALESCE(is_active, true) = true AND status = ?", "approved").
		Order("created_at DESC").
		Limit(limit).
		Find(&properties)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

func insertPhotos(arg InsertPhotos) []string {
	var paths []string
	for i, photo := range arg.photos {
		if photo == "" {
			continue
		}
		if strings.HasPrefix(photo, "data:") || !strings.Contains(photo, "/") {
			storagePath := fmt.Sprintf("property_%s_%d.jpg", uuid.NewString(), i)
			if arg.propertyID != "" {
				storagePath = arg.propertyID + "/" + storagePath
			}

			if uploaded := storage.UploadBase64Photo(photo, storagePath); uploaded != "" {
				paths = append(paths, uploaded)
			}
		} else {
			// Already a storage path from a previous upload
			paths = append(paths, photo)
		}
	}
	return paths
}

// DeletePropertyPhoto removes one photo from a listing
func DeletePropertyPhoto(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	propertyIDStr := ctx.URLParam("propertyID")
	storagePath := ctx.URLParam("path")

	if propertyIDStr == "" || storagePath == "" {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{
			"message": "propertyID and path are required",
		})
		return
	}

	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{
			"message": "Invalid propertyID",
		})
		return
	}

	var property models.Property
	if err := storage.DB.Where("id = ? AND owner_id = ?", propertyID, userID).First(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{
			"message": "Property not found or not owned by user",
		})
		return
	}

	var photos []string
	if property.Photos != "" {
		if err := json.Unmarshal([]byte(property.Photos), &photos); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	photoIndex := -1
	for i, p := range photos {
		if p == storagePath {
			photoIndex = i
			break
		}
	}
	if photoIndex == -1 {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{
			"message": "Photo not found in property",
		})
		return
	}

	photos = append(photos[:photoIndex], photos[photoIndex+1:]...)

	photosJSON, _ := json.Marshal(photos)
	property.Photos = string(photosJSON)

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if storage.DeletePhoto(storagePath) {
		ctx.JSON(iris.Map{"success": true})
	} else {
		// Row no longer references the file, a failed object delete just
		// orphans it
		ctx.JSON(iris.Map{"success": true, "message": "Photo removed from listing; object delete may have failed"})
	}
}

func hasActiveSubscription(userID uint) bool {
	var count int64
	storage.DB.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ? AND plan <> ? AND (current_period_end IS NULL OR current_period_end > ?)", userID, "active", "free", time.Now()).
		Count(&count)
	return count > 0
}

type InsertPhotos struct {
	photos     []string
	propertyID string
}

type CreateListingInput struct {
	Title          string   `json:"title" validate:"required,max=256"`
	Description    string   `json:"description"`
	PropertyType   string   `json:"propertyType" validate:"required,oneof=house condo lot farm commercial"`
	Town           string   `json:"town" validate:"required,max=100"`
	Province       string   `json:"province" validate:"omitempty,max=50"`
	Lat            float32  `json:"lat"`
	Lng            float32  `json:"lng"`
	Bedrooms       int      `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms      float32  `json:"bathrooms" validate:"gte=0,lte=20"`
	LotSizeM2      float32  `json:"lotSizeM2" validate:"gte=0"`
	BuiltSizeM2    float32  `json:"builtSizeM2" validate:"gte=0"`
	YearBuilt      int      `json:"yearBuilt"`
	PriceUSD       float64  `json:"priceUSD" validate:"required,gte=0"`
	Titled         *bool    `json:"titled"`
	ConcessionInfo string   `json:"concessionInfo"`
	Features       []string `json:"features"`
	Photos         []string `json:"photos"`
	IsActive       *bool    `json:"isActive"`
}

type UpdateListingInput struct {
	Title          string   `json:"title" validate:"required,max=256"`
	Description    string   `json:"description"`
	PropertyType   string   `json:"propertyType" validate:"required,oneof=house condo lot farm commercial"`
	Town           string   `json:"town" validate:"required,max=100"`
	Lat            float32  `json:"lat"`
	Lng            float32  `json:"lng"`
	Bedrooms       int      `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms      float32  `json:"bathrooms" validate:"gte=0,lte=20"`
	LotSizeM2      float32  `json:"lotSizeM2" validate:"gte=0"`
	BuiltSizeM2    float32  `json:"builtSizeM2" validate:"gte=0"`
	YearBuilt      int      `json:"yearBuilt"`
	PriceUSD       float64  `json:"priceUSD" validate:"required,gte=0"`
	Titled         *bool    `json:"titled"`
	ConcessionInfo string   `json:"concessionInfo"`
	Features       []string `json:"features"`
	Photos         []string `json:"photos"`
	IsActive       *bool    `json:"isActive"`
}

type BoundingBoxInput struct {
	LatLow  float32 `json:"latLow" validate:"required"`
	LatHigh float32 `json:"latHigh" validate:"required"`
	LngLow  float32 `json:"lngLow" validate:"required"`
	LngHigh float32 `json:"lngHigh" validate:"required"`
}
