package routes

import (
	"strconv"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/services"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
)

// TestNotificationInput represents the input for testing notifications
type TestNotificationInput struct {
	UserID uint   `json:"userId" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	Type   string `json:"type"`
}

// SendTestNotification sends a test notification to a user (admin only)
func SendTestNotification(ctx iris.Context) {
	var input TestNotificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	data := services.NotificationData{
		Type:   input.Type,
		UserID: strconv.FormatUint(uint64(input.UserID), 10),
	}

	if err := services.NotificationServiceInstance.SendNotificationToUser(input.UserID, input.Title, input.Body, data); err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{
			"success": false,
			"message": "Failed to send notification",
			"error":   err.Error(),
		})
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// GetUserNotificationSettings returns notification settings for a user
func GetUserNotificationSettings(ctx iris.Context) {
	userIDInterface := ctx.Values().Get("userID")
	if userIDInterface == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User ID not found in context"})
		return
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Invalid user ID format"})
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "User not found"})
		return
	}

	ctx.JSON(iris.Map{
		"success":             true,
		"allowsNotifications": user.AllowsNotifications,
		"hasTokens":           user.PushTokens != nil,
		"messages":            true, // Default settings
		"listingUpdates":      true,
		"verification":        true,
	})
}

// UpdateUserNotificationSettings updates notification preferences
func UpdateUserNotificationSettings(ctx iris.Context) {
	userIDInterface := ctx.Values().Get("userID")
	if userIDInterface == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User ID not found in context"})
		return
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Invalid user ID format"})
		return
	}

	type NotificationSettingsInput struct {
		AllowsNotifications bool `json:"allowsNotifications"`
		Messages            bool `json:"messages"`
		ListingUpdates      bool `json:"listingUpdates"`
	}

	var input NotificationSettingsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "User not found"})
		return
	}

	user.AllowsNotifications = &input.AllowsNotifications

	if err := storage.DB.Save(&user).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to update notification settings"})
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// SendWelcomeNotification sends welcome notification to new users
func SendWelcomeNotification(ctx iris.Context) {
	type WelcomeNotificationInput struct {
		UserID uint `json:"userId" validate:"required"`
	}

	var input WelcomeNotificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, input.UserID).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "User not found"})
		return
	}

	if err := services.NotificationServiceInstance.SendWelcomeNotificationToNewUser(input.UserID, user.FirstName); err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{
			"success": false,
			"message": "Failed to send welcome notification",
			"error":   err.Error(),
		})
		return
	}

	ctx.JSON(iris.Map{"success": true})
}
