package main

import (
	"fmt"
	"log"
	"os"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/routes"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/services"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	if os.Getenv("ACCESS_TOKEN_SECRET") == "" {
		log.Fatal("ACCESS_TOKEN_SECRET environment variable is required")
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializePhotos()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	emailTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	emailTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := emailTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})
	magicLinkVerifierMiddleware := emailTokenVerifier.Verify(func() interface{} {
		return new(utils.MagicLinkToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// One fetcher shared by the aggregate endpoints so their caches
	// survive individual request failures
	homeFetcher := services.NewResilientFetcher()

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/magiclink", routes.RequestMagicLink)
		user.Post("/magiclink/login", magicLinkVerifierMiddleware, routes.MagicLinkLogin)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Get("/search", accessTokenVerifierMiddleware, routes.SearchUsers)
		user.Get("/{id}/properties/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserSavedProperties)
		user.Patch("/{id}/properties/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterUserSavedProperties)
		user.Patch("/{id}/pushtoken", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterPushToken)
		user.Patch("/{id}/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AllowsNotifications)
		user.Get("/{id}/properties/contacted", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserContactedProperties)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUser)
		user.Post("/verification", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SubmitVerification)
	}

	feedback := app.Party("/api/feedback")
	{
		feedback.Post("/", accessTokenVerifierMiddleware, routes.CreateFeedback)
	}

	realtor := app.Party("/api/realtors")
	{
		realtor.Get("/", routes.ListRealtors)
		realtor.Get("/{id:uint}", routes.GetRealtor)
		realtor.Get("/me", accessTokenVerifierMiddleware, routes.GetMyRealtorProfile)
		realtor.Post("/me", accessTokenVerifierMiddleware, utils.RealtorOnlyMiddleware, routes.CreateOrUpdateRealtorProfile)
		realtor.Put("/me", accessTokenVerifierMiddleware, utils.RealtorOnlyMiddleware, routes.CreateOrUpdateRealtorProfile)
		realtor.Delete("/me", accessTokenVerifierMiddleware, routes.DeleteMyRealtorProfile)
	}

	property := app.Party("/api/property")
	{
		property.Post("/", accessTokenVerifierMiddleware, utils.ListerOnlyMiddleware, routes.CreateProperty)
		property.Get("/featured", routes.GetFeaturedProperties)
		property.Get("/free", routes.GetFreeProperties)
		property.Get("/{id}", routes.GetProperty)
		property.Get("/userid/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetPropertiesByUserID)
		property.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteProperty)
		property.Patch("/update/{id}", accessTokenVerifierMiddleware, routes.UpdateProperty)
		property.Post("/search", routes.GetPropertiesByBoundingBox)
		property.Delete("/photo", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeletePropertyPhoto)
		property.Post("/upload", accessTokenVerifierMiddleware, utils.ListerOnlyMiddleware, routes.UploadPhoto)
	}

	properties := app.Party("/api/properties")
	{
		properties.Get("/search", routes.SearchProperties)
	}

	home := app.Party("/api/home")
	{
		home.Get("/", routes.GetHomeScreen(homeFetcher))
	}

	content := app.Party("/api/content")
	{
		content.Get("/articles", routes.GetArticles)
		content.Get("/articles/{slug:string}", routes.GetArticleBySlug)
	}

	towns := app.Party("/api/towns")
	{
		towns.Get("/", routes.GetTowns)
		towns.Get("/{slug:string}", routes.GetTownBySlug)
	}

	overlays := app.Party("/api/overlays")
	{
		overlays.Get("/", routes.GetOverlays)
		overlays.Get("/{slug:string}", routes.GetOverlayBySlug)
	}

	conversation := app.Party("/api/conversation")
	{
		conversation.Get("/", accessTokenVerifierMiddleware, routes.GetConversations)
		conversation.Get("/{threadID:string}", accessTokenVerifierMiddleware, routes.GetThreadMessages)
		conversation.Post("/{threadID:string}/read", accessTokenVerifierMiddleware, routes.MarkThreadRead)
		conversation.Post("/{threadID:string}/typing", accessTokenVerifierMiddleware, routes.Typing)
		conversation.Get("/{threadID:string}/typing", accessTokenVerifierMiddleware, routes.ListTyping)
	}

	messages := app.Party("/api/messages")
	{
		messages.Post("/", accessTokenVerifierMiddleware, routes.CreateMessage)
	}

	subscription := app.Party("/api/subscription")
	{
		subscription.Get("/", accessTokenVerifierMiddleware, routes.GetMySubscription)
		subscription.Put("/", accessTokenVerifierMiddleware, utils.ListerOnlyMiddleware, routes.UpdateMySubscription)
		subscription.Delete("/", accessTokenVerifierMiddleware, routes.CancelMySubscription)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Post("/test-push", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.SendTestNotification)
		notifications.Post("/welcome", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.SendWelcomeNotification)
		notifications.Get("/settings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserNotificationSettings)
		notifications.Put("/settings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateUserNotificationSettings)
	}

	collection := app.Party("/api/collection")
	{
		collection.Post("/", accessTokenVerifierMiddleware, routes.CreateCollection)
		collection.Get("/", accessTokenVerifierMiddleware, routes.GetUserCollections)
		collection.Put("/{id}", accessTokenVerifierMiddleware, routes.UpdateCollection)
		collection.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteCollection)
		collection.Post("/add-property", accessTokenVerifierMiddleware, routes.AddPropertyToCollection)
		collection.Post("/remove-property", accessTokenVerifierMiddleware, routes.RemovePropertyFromCollection)
		collection.Post("/remove-from-all", accessTokenVerifierMiddleware, routes.RemovePropertyFromAllCollections)
		collection.Get("/{id}/properties", accessTokenVerifierMiddleware, routes.GetCollectionProperties)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Post("/users/{id:uint}/verify", routes.AdminVerifyUser)
		admin.Get("/properties", routes.AdminListProperties)
		admin.Get("/properties/{id:uint}", routes.AdminGetProperty)
		admin.Patch("/properties/{id:uint}/status", routes.AdminUpdatePropertyStatus)
		admin.Post("/properties/{id:uint}/flag", routes.AdminFlagProperty)
		admin.Post("/articles", routes.CreateArticle)
		admin.Put("/articles/{id:uint}", routes.UpdateArticle)
		admin.Delete("/articles/{id:uint}", routes.DeleteArticle)
		admin.Post("/overlays", routes.UpsertOverlay)
		admin.Delete("/overlays/{id:uint}", routes.DeleteOverlay)
		admin.Get("/subscriptions", routes.AdminListSubscriptions)
		admin.Get("/feedback", routes.AdminListFeedback)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
		admin.Post("/export", routes.AdminCreateExport)
		admin.Get("/export/{id:string}", routes.AdminGetExport)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	// Start server
	if err := app.Listen(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
