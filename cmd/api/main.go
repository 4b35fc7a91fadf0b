package main

import (
	"expvar"
	"fmt"
	"log"
	"mytreviews/internal/crm"
	"mytreviews/internal/media"
	"mytreviews/internal/ratelimiter"
	"mytreviews/internal/store"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values: 100 requests per IP every 15 minutes
	defaultRequests := 100
	defaultEnabled := true

	// Retrieve request count with error handling
	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil && parsedVal > 0 {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	// Retrieve enabled flag with error handling
	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            15 * time.Minute,
		Enabled:              enabled,
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func loadConfig() config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":" + getEnv("PORT", "3001")
	}

	return config{
		addr:        addr,
		env:         getEnv("ENV", "development"),
		apiURL:      getEnv("EXTERNAL_URL", "localhost"+addr),
		frontendURL: os.Getenv("FRONTEND_URL"),
		wordpress: store.Config{
			BaseURL:     os.Getenv("WORDPRESS_URL"),
			User:        os.Getenv("WORDPRESS_USER"),
			AppPassword: os.Getenv("WORDPRESS_APP_PASSWORD"),
		},
		cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		crm: crm.Config{
			APIKey:  os.Getenv("GHL_API_KEY"),
			BaseURL: getEnv("GHL_BASE_URL", crm.DefaultBaseURL),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger(env string) (*zap.SugaredLogger, error) {
	// Configure the encoder to be a console encoder with color
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder // This adds color to log levels (INFO, WARN, ERROR)

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel
	if env == "development" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	return zap.New(core).Sugar(), nil
}

var version = "1.0.0"

//	@title			MYT Reviews API
//	@description	Collects customer reviews and stores them in WordPress for moderation.

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath	/

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := loadConfig()

	// Logger
	logger, err := NewLogger(cfg.env)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// photos go to the WordPress media library unless Cloudinary is configured
	var photos store.PhotoUploader
	if cfg.cloudinaryURL != "" {
		cld, err := media.NewCloudinary(cfg.cloudinaryURL, logger)
		if err != nil {
			logger.Fatal(err)
		}
		photos = cld
		logger.Info("review photos will be stored on Cloudinary")
	}

	reviewStore, err := store.New(cfg.wordpress, photos, logger)
	if err != nil {
		logger.Fatalw("invalid WordPress configuration", "error", err)
	}

	dispatcher := crm.NewDispatcher(crm.New(cfg.crm, logger), logger)

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		logger:      logger,
		store:       reviewStore,
		crm:         dispatcher,
		rateLimiter: rateLimiter,
	}

	//Metrics collected http://localhost:3001/debug/vars
	expvar.NewString("version").Set(version)
	expvar.NewString("mode").Set(string(reviewStore.Mode()))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("crm", expvar.Func(func() any {
		return dispatcher.Stats()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
