package config

import (
	"fmt"
	"log"
	"os"
	"time"

	postgresStorage "github.com/Badsnus/tabqr/internal/adapters/database/postgres"
	"github.com/Badsnus/tabqr/internal/adapters/database/redis"
	"github.com/Badsnus/tabqr/pkg/logger"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	StorageRedis    = "redis"
	StorageDatabase = "database"
)

type Config struct {
	Database   *gorm.DB
	Redis      *redis.Client
	SMTPDialer *gomail.Dialer
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if token := viper.GetString("bot.token"); token != "" {
		if err := os.Setenv("BOT_TOKEN", token); err != nil {
			panic(err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("settings.storage", StorageRedis)
	viper.SetDefault("settings.logging.locale", "en")
	viper.SetDefault("service.database.driver", "postgres")
	viper.SetDefault("service.database.path", "tabqr.db")
	viper.SetDefault("popup.addr", ":8080")
	viper.SetDefault("popup.session-ttl", 30*time.Minute)
	viper.SetDefault("popup.janitor-interval", time.Minute)
	viper.SetDefault("popup.max-logo-bytes", 5<<20)
}

func Get() *Config {
	initConfig()

	var timeLocation *time.Location
	if tz := viper.GetString("settings.timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			panic(err)
		}
		timeLocation = loc
	}

	err := logger.Init(logger.Config{
		Name:         "tabqr",
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: timeLocation,
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
		Prefix:       viper.GetString("settings.log-prefix"),
	})
	if err != nil {
		panic(err)
	}

	database, err := openDatabase(viper.GetString("service.database.driver"), viper.GetBool("settings.debug"))
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	} else {
		logger.Log.Info("Successfully connected to the database")
	}

	errMigrate := database.AutoMigrate(postgresStorage.Migrations...)
	if errMigrate != nil {
		logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
	}

	redisClient, err := redis.New(redis.Options{
		Host:     viper.GetString("service.redis.host"),
		Port:     viper.GetString("service.redis.port"),
		Password: viper.GetString("service.redis.password"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to redis: %v", err)
	} else {
		logger.Log.Info("Successfully connected to redis")
	}

	var dialer *gomail.Dialer
	if viper.GetBool("service.smtp.enabled") {
		dialer = gomail.NewDialer(
			viper.GetString("service.smtp.host"),
			viper.GetInt("service.smtp.port"),
			viper.GetString("service.smtp.email"),
			viper.GetString("service.smtp.password"),
		)
		logger.Log.Info("Mail export enabled")
	}

	return &Config{
		Database:   database,
		Redis:      redisClient,
		SMTPDialer: dialer,
	}
}

// openDatabase connects to postgres or to an embedded sqlite file.
func openDatabase(driver string, debug bool) (*gorm.DB, error) {
	var gormConfig *gorm.Config
	if debug {
		newLogger := gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
		gormConfig = &gorm.Config{
			Logger: newLogger,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		}
	}

	switch driver {
	case "postgres":
		dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=UTC",
			viper.GetString("service.database.user"),
			viper.GetString("service.database.password"),
			viper.GetString("service.database.name"),
			viper.GetString("service.database.host"),
			viper.GetInt("service.database.port"),
		)
		return gorm.Open(postgres.Open(dsn), gormConfig)
	case "sqlite":
		return gorm.Open(sqlite.Open(viper.GetString("service.database.path")), gormConfig)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
