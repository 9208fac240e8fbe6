package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string
	SeedFile string
	Origins  string
	PageSize int

	// TrustClientPrices snapshots the price sent by the client at checkout
	// instead of the server-resolved effective price.
	TrustClientPrices bool
}

func Load() Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[warn] could not read .env: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "megano.db"
	}
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./megano.log"
	}
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "*"
	}
	pageSize := 20
	if v, err := strconv.Atoi(os.Getenv("PAGE_SIZE")); err == nil && v > 0 {
		pageSize = v
	}
	trust := parseBool(os.Getenv("TRUST_CLIENT_PRICES"))

	cfg := Config{
		Port:              port,
		DBDSN:             dsn,
		MediaDir:          media,
		LogFile:           logFile,
		SeedFile:          os.Getenv("SEED_FILE"),
		Origins:           origins,
		PageSize:          pageSize,
		TrustClientPrices: trust,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s SEED_FILE=%s PAGE_SIZE=%d TRUST_CLIENT_PRICES=%t",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.SeedFile, cfg.PageSize, cfg.TrustClientPrices)
	return cfg
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
