package routes

import (
	"time"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"

	"github.com/kataras/iris/v12"
)

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	var pendingProperties int64
	storage.DB.Model(&models.Property{}).Where("status = ?", "pending").Count(&pendingProperties)
	var pendingVerifications int64
	storage.DB.Model(&models.User{}).Where("verification_status = ?", "pending").Count(&pendingVerifications)
	var flaggedProperties int64
	storage.DB.Model(&models.Property{}).Where("is_flagged = true").Count(&flaggedProperties)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newListings7, newListings30 int64
	storage.DB.Model(&models.Property{}).Where("created_at >= ?", since7).Count(&newListings7)
	storage.DB.Model(&models.Property{}).Where("created_at >= ?", since30).Count(&newListings30)
	var newUsers7 int64
	storage.DB.Model(&models.User{}).Where("created_at >= ?", since7).Count(&newUsers7)
	var messages7 int64
	storage.DB.Model(&models.Message{}).Where("created_at >= ?", since7).Count(&messages7)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_properties":    pendingProperties,
			"pending_verifications": pendingVerifications,
			"flagged_properties":    flaggedProperties,
			"new_listings_7d":       newListings7,
			"new_listings_30d":      newListings30,
			"new_users_7d":          newUsers7,
			"messages_7d":           messages7,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}

// GET /admin/subscriptions
func AdminListSubscriptions(ctx iris.Context) {
	var subs []models.Subscription
	if err := storage.DB.Preload("User").Order("created_at DESC").Find(&subs).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "server_error"})
		return
	}
	ctx.JSON(iris.Map{"data": subs, "meta": iris.Map{}, "links": iris.Map{}})
}
