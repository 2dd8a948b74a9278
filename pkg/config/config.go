package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backends selectable via NOSE_STORE.
const (
	StoreCSV        = "csv"
	StoreClickHouse = "clickhouse"
)

type Config struct {
	// Dataset configuration
	StoreBackend      string
	DatasetPath       string
	SamplesPerProfile int

	// Training configuration
	TestSize    float64
	RandomState int64

	// Sensor simulation
	BaselineNoise float64
	DriftRate     float64
	SampleRateHz  int

	// HTTP Configuration
	HTTPAddr string

	// MQTT Configuration
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string

	MQTTTopicReport      string
	MQTTTopicCaptureReq  string
	MQTTTopicCaptureResp string

	// ClickHouse Configuration
	ClickHouseAddr string
	ClickHouseDB   string
	ClickHouseUser string
	ClickHousePass string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		// Dataset configuration
		StoreBackend:      getEnv("NOSE_STORE", StoreCSV),
		DatasetPath:       getEnv("NOSE_DATASET_PATH", "data/sample_scent_readings.csv"),
		SamplesPerProfile: getEnvInt("NOSE_SAMPLES_PER_PROFILE", 120),

		// Training configuration
		TestSize:    getEnvFloat("NOSE_TEST_SIZE", 0.2),
		RandomState: getEnvInt64("NOSE_RANDOM_STATE", 42),

		// Sensor simulation
		BaselineNoise: getEnvFloat("NOSE_BASELINE_NOISE", 0.05),
		DriftRate:     getEnvFloat("NOSE_DRIFT_RATE", 0.01),
		SampleRateHz:  getEnvInt("NOSE_SAMPLE_RATE_HZ", 1),

		// HTTP Configuration
		HTTPAddr: getEnv("NOSE_HTTP_ADDR", ":8080"),

		// MQTT Configuration
		MQTTBroker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "digital-nose"),
		MQTTUsername: getEnv("MQTT_USERNAME", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),

		MQTTTopicReport:      getEnv("MQTT_TOPIC_REPORT", "nose/{profile}/report"),
		MQTTTopicCaptureReq:  getEnv("MQTT_TOPIC_CAPTURE_REQ", "nose/capture/request"),
		MQTTTopicCaptureResp: getEnv("MQTT_TOPIC_CAPTURE_RESP", "nose/capture/response"),

		// ClickHouse Configuration
		ClickHouseAddr: getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:   getEnv("CLICKHOUSE_DB", "nose"),
		ClickHouseUser: getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePass: getEnv("CLICKHOUSE_PASS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: failed to parse %s as float, using default: %v", key, err)
		return defaultValue
	}
	return floatValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}
