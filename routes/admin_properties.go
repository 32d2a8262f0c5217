package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/services"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GET /admin/properties
func AdminListProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	search := strings.TrimSpace(ctx.URLParamDefault("search", ""))
	ownerID := ctx.URLParamDefault("owner_id", "")
	town := strings.TrimSpace(ctx.URLParamDefault("town", ""))
	flagged := ctx.URLParamDefault("flagged", "")
	createdFrom := ctx.URLParamDefault("created_from", "")
	createdTo := ctx.URLParamDefault("created_to", "")

	q := storage.DB.Model(&models.Property{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(title) LIKE ? OR lower(description) LIKE ? OR lower(town) LIKE ?", like, like, like)
	}
	if town != "" {
		q = q.Where("lower(town) = ?", strings.ToLower(town))
	}
	if flagged == "true" {
		q = q.Where("is_flagged = true")
	}
	if createdFrom != "" {
		if t, err := time.Parse(time.RFC3339, createdFrom); err == nil {
			q = q.Where("created_at >= ?", t)
		}
	}
	if createdTo != "" {
		if t, err := time.Parse(time.RFC3339, createdTo); err == nil {
			q = q.Where("created_at <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var props []models.Property
	if err := q.Preload("Owner").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&props).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, props, page, perPage, total)
}

// GET /admin/properties/:id?include=owner
func AdminGetProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	include := strings.Split(strings.TrimSpace(ctx.URLParamDefault("include", "")), ",")

	var prop models.Property
	q := storage.DB.Model(&models.Property{})
	for _, inc := range include {
		if strings.TrimSpace(inc) == "owner" {
			q = q.Preload("Owner")
		}
	}
	if err := q.First(&prop, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "property not found")
		return
	}
	ctx.JSON(iris.Map{"data": prop, "meta": iris.Map{}, "links": iris.Map{}})
}

// PATCH /admin/properties/:id/status {status, note}
func AdminUpdatePropertyStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Status == "" {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status required")
		return
	}
	switch body.Status {
	case "pending", "approved", "rejected":
	default:
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status must be pending/approved/rejected")
		return
	}
	var prop models.Property
	if err := storage.DB.First(&prop, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "property not found")
		return
	}
	before := prop
	prop.Status = body.Status
	prop.ReviewNotes = body.Note
	if err := storage.DB.Save(&prop).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "property.status_update", "property", prop.ID, before, prop)
	invalidateHomeCache()

	// Tell the owner their listing moved through moderation
	if before.Status != prop.Status {
		go services.NotificationServiceInstance.SendListingStatusNotification(
			prop.ID,
			prop.OwnerID,
			prop.Title,
			prop.Status,
		)
	}

	ctx.JSON(iris.Map{"data": prop})
}

// POST /admin/properties/:id/flag { reason }
func AdminFlagProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "reason required")
		return
	}
	var prop models.Property
	if err := storage.DB.First(&prop, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "property not found")
		return
	}
	before := prop
	prop.IsFlagged = true
	prop.FlagReason = body.Reason
	if err := storage.DB.Save(&prop).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "property.flag", "property", prop.ID, before, prop)
	ctx.JSON(iris.Map{"data": prop})
}
