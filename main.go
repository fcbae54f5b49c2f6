package main

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/rate"

	"github.com/tothemoon023/Capstone-Idencalve2.0/routes"
	"github.com/tothemoon023/Capstone-Idencalve2.0/services"
	"github.com/tothemoon023/Capstone-Idencalve2.0/storage"
	"github.com/tothemoon023/Capstone-Idencalve2.0/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: could not load .env file (this is normal in production)")
	}

	db, err := storage.Connect(os.Getenv("DB_CONNECTION_STRING"))
	if err != nil {
		log.Fatal(err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatal(err)
	}
	store := storage.NewStore(db)

	redisClient := storage.NewRedis(os.Getenv("REDIS_URL"))
	nonces := storage.NewNonceStore(redisClient, 5*time.Minute)

	blobs, err := storage.NewBlobStore(os.Getenv("UPLOAD_DIR"))
	if err != nil {
		log.Fatal(err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	maxAge := 7 * 24 * time.Hour
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		parsed, parseErr := time.ParseDuration(raw)
		if parseErr != nil {
			log.Fatalf("invalid JWT_EXPIRES_IN %q: %v", raw, parseErr)
		}
		maxAge = parsed
	}
	tokens := utils.NewTokenService(secret, maxAge)

	notifier := services.NewNotificationService(store)

	auth := &routes.Auth{Store: store, Nonces: nonces, Tokens: tokens}
	identity := &routes.Identity{Store: store, Blobs: blobs}
	verification := &routes.Verification{Store: store, Notifier: notifier}
	sharing := &routes.Sharing{Store: store, Notifier: notifier}
	notifications := &routes.Notifications{Store: store}
	admin := &routes.Admin{Store: store, Notifier: notifier}

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the SPA frontend
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

	app.Use(iris.Compression)
	app.Use(iris.LimitRequestBodySize(storage.MaxUploadSize + 1<<20))

	// 100 requests per 15 minutes per client, matching the public API budget.
	app.Use(rate.Limit(100.0/(15*60), 100))

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "IDenclave 2.0 API",
		})
	})

	verifier := tokens.Verifier()

	authParty := app.Party("/api/auth")
	{
		authParty.Post("/challenge", auth.Challenge)
		authParty.Post("/connect-wallet", auth.ConnectWallet)
		authParty.Post("/verify-signature", auth.VerifySignature)
		authParty.Get("/me", verifier, auth.Me)
	}

	identityParty := app.Party("/api/identity", verifier)
	{
		identityParty.Get("/profile", identity.GetProfile)
		identityParty.Put("/profile", identity.UpdateProfile)
		identityParty.Post("/credentials", identity.AddCredential)
		identityParty.Get("/credentials", identity.ListCredentials)
		identityParty.Post("/upload-document", identity.UploadDocument)
		identityParty.Get("/documents", identity.ListDocuments)
	}

	verificationParty := app.Party("/api/verification", verifier)
	{
		verificationParty.Post("/request", verification.CreateRequest)
		verificationParty.Get("/user/{walletAddress}", verification.ListUserRequests)
		verificationParty.Get("/{id:uint}", verification.GetRequest)
		verificationParty.Put("/{id:uint}", verification.UpdateRequest)
	}

	sharingParty := app.Party("/api/sharing", verifier)
	{
		sharingParty.Post("/request", sharing.CreateRequest)
		sharingParty.Post("/grant", sharing.Grant)
		sharingParty.Post("/revoke", sharing.Revoke)
		sharingParty.Get("/consent/{walletAddress}", sharing.ListUserConsents)
		sharingParty.Post("/check-permission", sharing.CheckPermission)
	}

	notificationsParty := app.Party("/api/notifications", verifier)
	{
		notificationsParty.Get("/", notifications.List)
		notificationsParty.Post("/{id:uint}/read", notifications.MarkRead)
	}

	adminParty := app.Party("/api/admin", verifier, utils.AdminOnlyMiddleware)
	{
		adminParty.Get("/users", admin.ListUsers)
		adminParty.Get("/documents", admin.ListDocuments)
		adminParty.Put("/documents/{id:uint}/review", admin.ReviewDocument)
		adminParty.Get("/audit", admin.ListAuditLogs)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
