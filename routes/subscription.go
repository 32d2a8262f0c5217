package routes

import (
	"time"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetMySubscription returns the caller's plan, defaulting to the free
// tier when no row exists yet.
func GetMySubscription(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var sub models.Subscription
	subExists := storage.DB.Where("user_id = ?", claims.ID).Limit(1).Find(&sub)
	if subExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if subExists.RowsAffected == 0 {
		ctx.JSON(iris.Map{"plan": "free", "status": "active"})
		return
	}

	ctx.JSON(sub)
}

// UpdateMySubscription switches the caller between plans. Payment is
// handled out of band; this endpoint records the resulting plan.
func UpdateMySubscription(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input SubscriptionInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var sub models.Subscription
	subExists := storage.DB.Where("user_id = ?", claims.ID).Limit(1).Find(&sub)
	if subExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	sub.UserID = claims.ID
	sub.Plan = input.Plan
	sub.Status = "active"
	sub.CanceledAt = nil
	if input.Plan == "free" {
		sub.CurrentPeriodEnd = nil
	} else {
		periodEnd := time.Now().AddDate(0, 1, 0)
		sub.CurrentPeriodEnd = &periodEnd
	}

	if err := storage.DB.Save(&sub).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Plan flags apply to every listing the owner has, including ones
	// still in moderation, so an approval later inherits the right tier.
	// Public surfaces only ever show approved listings.
	featured := input.Plan == "featured" || input.Plan == "pro"
	storage.DB.Model(&models.Property{}).
		Where("owner_id = ?", claims.ID).
		Updates(map[string]interface{}{"featured": featured, "free_listing": !featured})

	ctx.JSON(sub)
}

// CancelMySubscription drops the caller back to the free tier at the
// end of the current period.
func CancelMySubscription(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var sub models.Subscription
	subExists := storage.DB.Where("user_id = ?", claims.ID).Limit(1).Find(&sub)
	if subExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if subExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	sub.Status = "canceled"
	sub.CanceledAt = &now

	if err := storage.DB.Save(&sub).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Demote every listing back to the free tier, moderation state aside
	storage.DB.Model(&models.Property{}).
		Where("owner_id = ?", claims.ID).
		Updates(map[string]interface{}{"featured": false, "free_listing": true})

	ctx.JSON(sub)
}

type SubscriptionInput struct {
	Plan string `json:"plan" validate:"required,oneof=free featured pro"`
}
