package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool

	// ContextTTL controls how long an idle conversation keeps its state.
	// After expiry the user starts over from the initial complaint.
	ContextTTL     time.Duration
	MaxChatHistory int

	GeminiAPIKey string
	GeminiModel  string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	BedrockModelID      string

	WhatsAppAPIBase       string
	WhatsAppPhoneNumberID string
	WhatsAppAccessToken   string
	WhatsAppVerifyToken   string
	WhatsAppAppSecret     string

	GoogleSpeechAPIKey string
	STTLanguageCode    string
	TTSLanguageCode    string
	TTSVoiceName       string

	HelplineNumber  string
	MaxBranches     int
	SearchRadiusKm  float64
	EmergencyNumber string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		ContextTTL:     getEnvAsDuration("CONTEXT_TTL", 30*time.Minute),
		MaxChatHistory: getEnvAsInt("MAX_CHAT_HISTORY", 6),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),

		WhatsAppAPIBase:       getEnv("WABA_API_URL", "https://graph.facebook.com/v18.0"),
		WhatsAppPhoneNumberID: getEnv("WABA_PHONE_NUMBER_ID", ""),
		WhatsAppAccessToken:   getEnv("WABA_ACCESS_TOKEN", ""),
		WhatsAppVerifyToken:   getEnv("WABA_VERIFY_TOKEN", ""),
		WhatsAppAppSecret:     getEnv("WABA_APP_SECRET", ""),

		GoogleSpeechAPIKey: getEnv("GOOGLE_SPEECH_API_KEY", ""),
		STTLanguageCode:    getEnv("STT_LANGUAGE_CODE", "ur-PK"),
		TTSLanguageCode:    getEnv("TTS_LANGUAGE_CODE", "ur-PK"),
		TTSVoiceName:       getEnv("TTS_VOICE_NAME", "ur-PK-Standard-A"),

		HelplineNumber:  getEnv("HELPLINE_NUMBER", "021-111-729-526"),
		MaxBranches:     getEnvAsInt("MAX_BRANCHES", 3),
		SearchRadiusKm:  getEnvAsFloat("SEARCH_RADIUS_KM", 50.0),
		EmergencyNumber: getEnv("EMERGENCY_NUMBER", "1122"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
