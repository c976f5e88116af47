package config

import "os"

type FarmAssistConfig struct {
	Port           string
	StorageBackend string
	PostgresCfg    PostgresConfig
	RedisCfg       RedisConfig
	MinioCfg       MinioConfig
	RabbitMQCfg    RabbitMQConfig
	GeminiAPICfg   GeminiAPIConfig
	WeatherCfg     WeatherConfig
	PhoneCfg       PhoneConfig
}

type PostgresConfig struct {
	DBName   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinioConfig struct {
	MinioURL         string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioLocation    string
	MinioSecure      string
	MinioResourceURL string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type GeminiAPIConfig struct {
	APIKey    string
	FlashName string
	ProName   string
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
}

type PhoneConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	// CountryCode replaces a leading 0 when normalizing local numbers to
	// international format.
	CountryCode string
}

func New() *FarmAssistConfig {
	return &FarmAssistConfig{
		Port:           getEnvOrDefault("PORT", "8090"),
		StorageBackend: getEnvOrDefault("STORAGE_BACKEND", "redis"),
		PostgresCfg: PostgresConfig{
			DBName:   getEnvOrDefault("POSTGRES_DB", "farmassist"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		MinioCfg: MinioConfig{
			MinioURL:         getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			MinioAccessKey:   getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey:   getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:    getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:      getEnvOrDefault("MINIO_SECURE", "false"),
			MinioResourceURL: getEnvOrDefault("MINIO_RESOURCE_URL", "http://localhost:9407/"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		GeminiAPICfg: GeminiAPIConfig{
			APIKey:    getEnvOrDefault("GEMINI_KEY", ""),
			FlashName: getEnvOrDefault("GEMINI_FLASH_MODEL", "gemini-2.5-flash"),
			ProName:   getEnvOrDefault("GEMINI_PRO_MODEL", "gemini-2.5-pro"),
		},
		WeatherCfg: WeatherConfig{
			APIKey:  getEnvOrDefault("WEATHER_API_KEY", ""),
			BaseURL: getEnvOrDefault("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5"),
		},
		PhoneCfg: PhoneConfig{
			Host:        getEnvOrDefault("PHONE_HOST", ""),
			Port:        getEnvOrDefault("PHONE_PORT", ""),
			Username:    getEnvOrDefault("PHONE_USERNAME", ""),
			Password:    getEnvOrDefault("PHONE_PASSWORD", ""),
			CountryCode: getEnvOrDefault("PHONE_COUNTRY_CODE", "91"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
