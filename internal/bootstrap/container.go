package bootstrap

import (
	"context"
	"log"

	"ai-imagestudio-be/internal/config"
	"ai-imagestudio-be/internal/controller"
	"ai-imagestudio-be/internal/pkg/cache"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/pkg/mailer"
	"ai-imagestudio-be/internal/repository/memory"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/internal/service"
	"ai-imagestudio-be/pkg/genai"
	"ai-imagestudio-be/pkg/imagekit"
	"ai-imagestudio-be/pkg/paypal"
	"ai-imagestudio-be/pkg/rapidapi"

	pktNats "ai-imagestudio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	UserController       controller.IUserController
	GenerationController controller.IGenerationController
	MediaController      controller.IMediaController
	PaymentController    controller.IPaymentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger *logger.ZapLogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	var balanceCache cache.IBalanceCache = cache.NoopBalanceCache{}
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (balance cache disabled)", err)
	} else {
		balanceCache = cache.NewRedisBalanceCache(rdb)
	}

	// In-memory conversation session storage
	sessionRepo := memory.NewSessionRepository()

	// 3. Provider clients
	geminiClient := genai.NewGeminiImageClient(cfg.Keys.GoogleGemini)
	rapidClient := rapidapi.NewClient(cfg.Keys.RapidAPI)
	uploader := imagekit.NewUploader(cfg.Storage.ImageKitPrivateKey)
	paypalClient := paypal.NewClient(cfg.Payment.PayPalClientID, cfg.Payment.PayPalSecret, cfg.Payment.PayPalIsLive)
	midtransGateway := service.NewMidtransGateway(
		cfg.Payment.MidtransServerKey,
		cfg.Payment.MidtransIsProduction,
		cfg.App.ClientURL,
	)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.GenerationTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.App.GenerationTopic, natsPub)

	authService := service.NewAuthService(uowFactory)
	userService := service.NewUserService(uowFactory, balanceCache)
	generationService := service.NewGenerationService(
		uowFactory,
		geminiClient,
		rapidClient,
		uploader,
		sessionRepo,
		balanceCache,
		publisherService,
	)
	galleryService := service.NewGalleryService(uowFactory)
	mediaService := service.NewMediaService(uploader)
	paymentService := service.NewPaymentService(
		uowFactory,
		midtransGateway,
		paypalClient,
		balanceCache,
		emailService,
		natsPub,
	)

	// 5. Controllers
	return &Container{
		AuthController:       controller.NewAuthController(authService),
		UserController:       controller.NewUserController(userService),
		GenerationController: controller.NewGenerationController(generationService, galleryService),
		MediaController:      controller.NewMediaController(mediaService),
		PaymentController:    controller.NewPaymentController(paymentService),

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}
