package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		AppName  string

		SecretKey         string
		FrontendBaseURL   string
		DefaultFromName   string
		DefaultFromAddr   string
		SendgridAPIKey    string
		RollbarToken      string
		GeminiAPIKey      string
		GeminiChatModel   string
		GeminiQuizModel   string
		GeminiCallTimeout time.Duration

		Server   ServerConfig
		Database DatabaseConfig
		School   SchoolInfo
	}

	ServerConfig struct {
		Host               string
		Addr               string
		DebugHost          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// SchoolInfo is the static per-tenant school identity. It is plain
	// configuration; nothing persists it.
	SchoolInfo struct {
		Name     string
		Location string
		Motto    string
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddr}
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Soma")
	v.SetDefault("secretKey", "w3lc0me-2-s0ma!-ch4nge-m3-1n-pr0d")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromName", "Soma Portal")
	v.SetDefault("defaultFromAddr", "noreply@localhost")
	v.SetDefault("geminiChatModel", "gemini-3-flash-preview")
	v.SetDefault("geminiQuizModel", "gemini-3-pro-preview")
	v.SetDefault("geminiCallTimeout", 30*time.Second)

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("serverShutdownTimeout", 5*time.Second)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "soma")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("schoolName", "Gayaza High School")
	v.SetDefault("schoolLocation", "Uganda")
	v.SetDefault("schoolMotto", "Never Give Up")

	env := strings.ToUpper(os.Getenv("ENV"))
	testMode := false
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:             v.GetBool("debug"),
		TestMode:          testMode,
		Env:               env,
		Build:             v.GetString("build"),
		AppName:           v.GetString("appName"),
		SecretKey:         v.GetString("secretKey"),
		FrontendBaseURL:   v.GetString("frontendBaseURL"),
		DefaultFromName:   v.GetString("defaultFromName"),
		DefaultFromAddr:   v.GetString("defaultFromAddr"),
		SendgridAPIKey:    v.GetString("sendgridApiKey"),
		RollbarToken:      v.GetString("rollbarToken"),
		GeminiAPIKey:      v.GetString("geminiApiKey"),
		GeminiChatModel:   v.GetString("geminiChatModel"),
		GeminiQuizModel:   v.GetString("geminiQuizModel"),
		GeminiCallTimeout: v.GetDuration("geminiCallTimeout"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			DebugHost:          v.GetString("serverDebugHost"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		School: SchoolInfo{
			Name:     v.GetString("schoolName"),
			Location: v.GetString("schoolLocation"),
			Motto:    v.GetString("schoolMotto"),
		},
	}
}
