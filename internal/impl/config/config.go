package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// RepoMode selects where platform entities come from.
const (
	RepoModeMongo = "mongo"
	RepoModeJSON  = "json"
)

type Config struct {
	MongoURI   string
	DBName     string
	ListenAddr string
	DataDir    string
	RepoMode   string
	logger     *zap.Logger
}

var (
	configInstance *Config
	once           sync.Once
)

func InitConfig() (*Config, error) {
	var initErr error

	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop()
			initErr = fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		if err := godotenv.Load(); err != nil {
			if os.IsNotExist(err) {
				logger.Warn("No .env file found; falling back to system environment variables")
			} else {
				initErr = fmt.Errorf("failed to load .env file: %w", err)
				logger.Error("Config file load error", zap.Error(err))
				return
			}
		}

		mode := os.Getenv("WATCHER_REPO_MODE")
		if mode == "" {
			mode = RepoModeMongo
		}
		if mode != RepoModeMongo && mode != RepoModeJSON {
			initErr = fmt.Errorf("invalid WATCHER_REPO_MODE: %s", mode)
			return
		}

		mongoURI := os.Getenv("WATCHER_MONGO_URI")
		if mongoURI == "" && mode == RepoModeMongo {
			logger.Warn("WATCHER_MONGO_URI not set in environment variables")
		}

		dbName := os.Getenv("WATCHER_DB_NAME")
		if dbName == "" {
			dbName = "watcher"
		}

		listenAddr := os.Getenv("WATCHER_LISTEN_ADDR")
		if listenAddr == "" {
			listenAddr = ":8080"
		}

		dataDir := os.Getenv("WATCHER_DATA_DIR")
		if dataDir == "" {
			dataDir = "."
		}

		configInstance = &Config{
			MongoURI:   mongoURI,
			DBName:     dbName,
			ListenAddr: listenAddr,
			DataDir:    dataDir,
			RepoMode:   mode,
			logger:     logger,
		}
	})

	if initErr != nil {
		return nil, initErr
	}
	if configInstance == nil {
		return nil, fmt.Errorf("configuration initialization failed unexpectedly")
	}

	return configInstance, nil
}
