package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	BasePath                    string
	DirectoryPrefix             string
	TargetFileName              string
	PreserveSecondaryIdentifier bool
	StripRedundantQuotes        bool
	WorkerCount                 int
	LogLevel                    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		BasePath:                    getEnv("RES_BASE_PATH", "app/src/main/res"),
		DirectoryPrefix:             getEnv("RES_DIR_PREFIX", "values"),
		TargetFileName:              getEnv("RES_TARGET_FILE", "strings.xml"),
		PreserveSecondaryIdentifier: getEnvBool("PRESERVE_SECONDARY_ID", true),
		StripRedundantQuotes:        getEnvBool("STRIP_REDUNDANT_QUOTES", false),
		WorkerCount:                 getEnvInt("WORKER_COUNT", 1),
		LogLevel:                    getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports the first setting that would make a run meaningless.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return errors.New("base path must not be empty")
	}
	if c.DirectoryPrefix == "" {
		return errors.New("directory prefix must not be empty")
	}
	if c.TargetFileName == "" {
		return errors.New("target file name must not be empty")
	}
	if strings.ContainsAny(c.TargetFileName, `/\`) {
		return fmt.Errorf("target file name %q must not contain a path separator", c.TargetFileName)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.WorkerCount)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid boolean, using default")
		return fallback
	}
	return b
}
