package routes

import (
	"encoding/json"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// CreateCollection creates a new saved-property collection
func CreateCollection(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	userID := claims.ID

	var input struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description" validate:"max=500"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	collection := models.Collection{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
	}

	if err := storage.DB.Create(&collection).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":    true,
		"collection": collection,
	})
}

// GetUserCollections gets all collections for the caller
func GetUserCollections(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	userID := claims.ID

	var collections []models.Collection
	if err := storage.DB.Where("user_id = ?", userID).
		Preload("Properties.Property").
		Order("created_at DESC").
		Find(&collections).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":     true,
		"collections": collections,
	})
}

// UpdateCollection renames a collection
func UpdateCollection(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	userID := claims.ID
	collectionID := ctx.Params().Get("id")

	var input struct {
		Name        string `json:"name" validate:"max=100"`
		Description string `json:"description" validate:"max=500"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var collection models.Collection
	if err := storage.DB.Where("id = ? AND user_id = ?", collectionID, userID).
		First(&collection).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Collection not found"})
		return
	}

	if input.Name != "" {
		collection.Name = input.Name
	}
	if input.Description != "" {
		collection.Description = input.Description
	}

	if err := storage.DB.Save(&collection).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":    true,
		"collection": collection,
	})
}

// DeleteCollection deletes a collection and its links
func DeleteCollection(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	userID := claims.ID
	collectionID := ctx.Params().Get("id")

	var collection models.Collection
	if err := storage.DB.Where("id = ? AND user_id = ?", collectionID, userID).
		First(&collection).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Collection not found"})
		return
	}

	storage.DB.Where("collection_id = ?", collectionID).Delete(&models.CollectionProperty{})

	if err := storage.DB.Delete(&collection).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// AddPropertyToCollection adds a property to a collection
func AddPropertyToCollection(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	userID := claims.ID

	var input struct {
		CollectionID uint `json:"collectionID" validate:"required"`
		PropertyID   uint `json:"propertyID" validate:"required"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var collection models.Collection
	if err := storage.DB.Where("id = ? AND user_id = ?", input.CollectionID, userID).
		First(&collection).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Collection not found"})
		return
	}

	var existingCollectionProperty models.CollectionProperty
	if err := storage.DB.Where("collection_id = ? AND property_id = ?", input.CollectionID, input.PropertyID).
		First(&existingCollectionProperty).Error; err == nil {
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"error": "Property already in collection"})
		return
	}

	collectionProperty := models.CollectionProperty{
		CollectionID: input.CollectionID,
		PropertyID:   input.PropertyID,
	}

	if err := storage.DB.Create(&collectionProperty).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Mirror into the user's flat saved-properties list so the heart
	// icon stays consistent across both surfaces
	var user models.User
	if err := storage.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var savedProperties []uint
	if user.SavedProperties != nil {
		json.Unmarshal(user.SavedProperties, &savedProperties)
	}

	propertyExists := false
	for _, propID := range savedProperties {
		if propID == input.PropertyID {
			propertyExists = true
			break
		}
	}

	if !propertyExists {
		savedProperties = append(savedProperties, input.PropertyID)
		savedPropertiesJSON, _ := json.Marshal(savedProperties)
		user.SavedProperties = savedPropertiesJSON

		// Failure here leaves only the flat list stale, keep going
		storage.DB.Save(&user)
	}

	ctx.JSON(iris.Map{"success": true})
}

// RemovePropertyFromCollection removes a property from a collection
func RemovePropertyFromCollection(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	userID := claims.ID

	var input struct {
		CollectionID uint `json:"collectionID" validate:"required"`
		PropertyID   uint `json:"propertyID" validate:"required"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var collection models.Collection
	if err := storage.DB.Where("id = ? AND user_id = ?", input.CollectionID, userID).
		First(&collection).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Collection not found"})
		return
	}

	if err := storage.DB.Where("collection_id = ? AND property_id = ?", input.CollectionID, input.PropertyID).
		Delete(&models.CollectionProperty{}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Drop from the flat saved list only when no other collection still
	// holds the property
	var otherCollectionsCount int64
	storage.DB.Model(&models.CollectionProperty{}).
		Joins("JOIN collections ON collection_properties.collection_id = collections.id").
		Where("collections.user_id = ? AND collection_properties.property_id = ?", userID, input.PropertyID).
		Count(&otherCollectionsCount)

	if otherCollectionsCount == 0 {
		removeFromSavedProperties(userID, input.PropertyID)
	}

	ctx.JSON(iris.Map{"success": true})
}

// GetCollectionProperties gets all properties in a collection
func GetCollectionProperties(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	userID := claims.ID
	collectionID := ctx.Params().Get("id")

	var collection models.Collection
	if err := storage.DB.Where("id = ? AND user_id = ?", collectionID, userID).
		First(&collection).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Collection not found"})
		return
	}

	var collectionProperties []models.CollectionProperty
	if err := storage.DB.Where("collection_id = ?", collectionID).
		Preload("Property").
		Order("created_at DESC").
		Find(&collectionProperties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var properties []models.Property
	for _, cp := range collectionProperties {
		properties = append(properties, cp.Property)
	}

	ctx.JSON(iris.Map{
		"success":    true,
		"properties": properties,
	})
}

// RemovePropertyFromAllCollections removes a property from every
// collection the caller owns
func RemovePropertyFromAllCollections(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	userID := claims.ID

	var input struct {
		PropertyID uint `json:"propertyID" validate:"required"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := storage.DB.Where("collection_id IN (SELECT id FROM collections WHERE user_id = ?) AND property_id = ?", userID, input.PropertyID).
		Delete(&models.CollectionProperty{}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	removeFromSavedProperties(userID, input.PropertyID)

	ctx.JSON(iris.Map{"success": true})
}

func removeFromSavedProperties(userID, propertyID uint) {
	var user models.User
	if err := storage.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return
	}

	var savedProperties []uint
	if user.SavedProperties != nil {
		json.Unmarshal(user.SavedProperties, &savedProperties)
	}

	var newSavedProperties []uint
	for _, propID := range savedProperties {
		if propID != propertyID {
			newSavedProperties = append(newSavedProperties, propID)
		}
	}

	savedPropertiesJSON, _ := json.Marshal(newSavedProperties)
	user.SavedProperties = savedPropertiesJSON
	storage.DB.Save(&user)
}
