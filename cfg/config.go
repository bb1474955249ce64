package cfg

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type AmadeusClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

type Config struct {
	AppEnv              string
	AppPort             string
	NodeID              int64
	RedisConfig         RedisConfig
	AmadeusClientConfig AmadeusClientConfig
	SearchTTLMinutes    int
}

func Load() (*Config, error) {
	var errs []error

	err := godotenv.Load()
	if err != nil {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := mustEnv("APP_PORT", &errs)

	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := mustEnv("REDIS_PASSWORD", &errs)

	amadeusBaseURL := mustEnv("AMADEUS_BASE_URL", &errs)
	amadeusClientID := mustEnv("AMADEUS_CLIENT_ID", &errs)
	amadeusClientSecret := mustEnv("AMADEUS_CLIENT_SECRET", &errs)

	nodeID := mustEnv("NODE_ID", &errs)
	nodeIDInt, err := strconv.ParseInt(nodeID, 10, 64)
	if err != nil {
		errs = append(errs, errors.New("conversion failed env: "+"NODE_ID"))
	}

	searchTTLMinutes := mustEnv("SEARCH_TTL_MINUTES", &errs)
	searchTTLMinutesInt, err := strconv.Atoi(searchTTLMinutes)
	if err != nil {
		errs = append(errs, errors.New("conversion failed env: "+"SEARCH_TTL_MINUTES"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		NodeID:  nodeIDInt,
		RedisConfig: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		AmadeusClientConfig: AmadeusClientConfig{
			BaseURL:      amadeusBaseURL,
			ClientID:     amadeusClientID,
			ClientSecret: amadeusClientSecret,
		},
		SearchTTLMinutes: searchTTLMinutesInt,
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}
