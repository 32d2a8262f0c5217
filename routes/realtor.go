package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// GetMyRealtorProfile retrieves the caller's professional profile
func GetMyRealtorProfile(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	user := tok.(*utils.AccessToken)

	var profile models.RealtorProfile
	if err := storage.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		// If no profile exists, return empty profile
		ctx.JSON(iris.Map{
			"success": true,
			"profile": iris.Map{
				"id":                0,
				"displayName":       "",
				"avatarURL":         "",
				"bio":               "",
				"agency":            "",
				"licenseNumber":     "",
				"website":           "",
				"whatsApp":          "",
				"instagram":         "",
				"townsServed":       []string{},
				"languages":         []string{},
				"yearsInGuanacaste": 0,
				"isPublic":          true,
				"isComplete":        false,
			},
		})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"profile": profile,
	})
}

// CreateOrUpdateRealtorProfile creates or updates the caller's profile
func CreateOrUpdateRealtorProfile(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	user := tok.(*utils.AccessToken)

	var input RealtorProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Upload avatar if provided as inline image data
	avatarURL := input.AvatarURL
	if strings.HasPrefix(avatarURL, "data:") {
		storagePath := fmt.Sprintf("avatars/%d/avatar_%s.jpg", user.ID, uuid.NewString())
		if uploaded := storage.UploadBase64Photo(avatarURL, storagePath); uploaded != "" {
			avatarURL = storage.PhotoURL(uploaded)
		}
	}

	whatsApp := input.WhatsApp
	if whatsApp != "" {
		if !utils.ValidatePhoneNumber(whatsApp) {
			utils.CreateError(iris.StatusUnprocessableEntity, "Invalid Phone", "whatsApp must be a Costa Rican phone number", ctx)
			return
		}
		whatsApp = utils.FormatPhoneNumber(whatsApp)
	}

	townsJSON, _ := json.Marshal(input.TownsServed)
	languagesJSON, _ := json.Marshal(input.Languages)

	var existingProfile models.RealtorProfile
	err := storage.DB.Where("user_id = ?", user.ID).First(&existingProfile).Error

	if err != nil {
		profile := models.RealtorProfile{
			UserID:            user.ID,
			DisplayName:       input.DisplayName,
			AvatarURL:         avatarURL,
			Bio:               input.Bio,
			Agency:            input.Agency,
			LicenseNumber:     input.LicenseNumber,
			Website:           input.Website,
			WhatsApp:          whatsApp,
			Instagram:         input.Instagram,
			TownsServed:       townsJSON,
			Languages:         languagesJSON,
			YearsInGuanacaste: input.YearsInGuanacaste,
			IsPublic:          input.IsPublic,
		}
		profile.IsComplete = profileIsComplete(&profile)

		if err := storage.DB.Create(&profile).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}

		ctx.JSON(iris.Map{
			"success": true,
			"profile": profile,
		})
		return
	}

	updates := map[string]interface{}{
		"display_name":        input.DisplayName,
		"avatar_url":          avatarURL,
		"bio":                 input.Bio,
		"agency":              input.Agency,
		"license_number":      input.LicenseNumber,
		"website":             input.Website,
		"whats_app":           whatsApp,
		"instagram":           input.Instagram,
		"towns_served":        townsJSON,
		"languages":           languagesJSON,
		"years_in_guanacaste": input.YearsInGuanacaste,
		"is_public":           input.IsPublic,
	}

	if err := storage.DB.Model(&existingProfile).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	existingProfile.IsComplete = profileIsComplete(&existingProfile)
	storage.DB.Save(&existingProfile)

	ctx.JSON(iris.Map{
		"success": true,
		"profile": existingProfile,
	})
}

// ListRealtors is the public realtor directory. Only public, complete
// profiles of verified realtors show up.
func ListRealtors(ctx iris.Context) {
	q := storage.DB.Model(&models.RealtorProfile{}).
		Joins("JOIN users ON users.id = realtor_profiles.user_id").
		Where("realtor_profiles.is_public = true AND users.role = ?", "realtor")

	if town := strings.TrimSpace(ctx.URLParam("town")); town != "" {
		q = q.Where("realtor_profiles.towns_served::text ILIKE ?", "%"+town+"%")
	}

	var profiles []models.RealtorProfile
	if err := q.Preload("User").Order("realtor_profiles.display_name ASC").Find(&profiles).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "realtors": profiles})
}

// GetRealtor returns one public profile with the realtor's live listings
func GetRealtor(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var profile models.RealtorProfile
	profileExists := storage.DB.Preload("User").
		Where("id = ? AND is_public = true", id).Limit(1).Find(&profile)
	if profileExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if profileExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var listings []models.Property
	storage.DB.
		Where("owner_id = ? AND COALESCE(is_active, true) = true AND status = ?", profile.UserID, "approved").
		Order("created_at DESC").
		Find(&listings)

	ctx.JSON(iris.Map{
		"success":  true,
		"realtor":  profile,
		"listings": listings,
	})
}

// DeleteMyRealtorProfile deletes the caller's professional profile
func DeleteMyRealtorProfile(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	user := tok.(*utils.AccessToken)

	var profile models.RealtorProfile
	if err := storage.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&profile).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

func profileIsComplete(p *models.RealtorProfile) bool {
	return p.DisplayName != "" && p.Bio != "" && p.WhatsApp != ""
}

type RealtorProfileInput struct {
	DisplayName       string   `json:"displayName" validate:"required,max=100"`
	AvatarURL         string   `json:"avatarURL"`
	Bio               string   `json:"bio"`
	Agency            string   `json:"agency" validate:"max=100"`
	LicenseNumber     string   `json:"licenseNumber" validate:"max=50"`
	Website           string   `json:"website" validate:"max=255"`
	WhatsApp          string   `json:"whatsApp" validate:"max=30"`
	Instagram         string   `json:"instagram" validate:"max=100"`
	TownsServed       []string `json:"townsServed"`
	Languages         []string `json:"languages"`
	YearsInGuanacaste int      `json:"yearsInGuanacaste" validate:"gte=0,lte=80"`
	IsPublic          bool     `json:"isPublic"`
}
