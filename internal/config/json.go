package config

import (
	"encoding/json"
	"os"

	"github.com/whisperapp/whisper/internal/flagx"
)

// JsonConfig is the DTO used for reading JSON configuration files. Its
// values are copied into the runtime Config after unmarshalling.
type JsonConfig struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`

	DatabaseDSN string `json:"database_dsn"`
	CacheDSN    string `json:"cache_dsn"`
	MediaDir    string `json:"media_dir"`

	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
	S3Bucket    string `json:"s3_bucket"`
	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`

	DeepgramAPIKey   string `json:"deepgram_api_key"`
	DeepgramEndpoint string `json:"deepgram_endpoint"`
	Locale           string `json:"locale"`

	SearchLimit          int `json:"search_limit"`
	PresignExpiryMinutes int `json:"presign_expiry_minutes"`
}

// parseJson loads configuration from the file named by the -c/-config
// flag, if any. Empty JSON values leave the current settings alone.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIfNotEmpty(&config.Username, c.Username)
	setIfNotEmpty(&config.UserID, c.UserID)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.CacheDSN, c.CacheDSN)
	setIfNotEmpty(&config.MediaDir, c.MediaDir)
	setIfNotEmpty(&config.S3AccessKey, c.S3AccessKey)
	setIfNotEmpty(&config.S3SecretKey, c.S3SecretKey)
	setIfNotEmpty(&config.S3Bucket, c.S3Bucket)
	setIfNotEmpty(&config.S3Region, c.S3Region)
	setIfNotEmpty(&config.S3Endpoint, c.S3Endpoint)
	setIfNotEmpty(&config.DeepgramAPIKey, c.DeepgramAPIKey)
	setIfNotEmpty(&config.DeepgramEndpoint, c.DeepgramEndpoint)
	setIfNotEmpty(&config.Locale, c.Locale)
	if c.SearchLimit > 0 {
		config.SearchLimit = c.SearchLimit
	}
	if c.PresignExpiryMinutes > 0 {
		config.PresignExpiryMinutes = c.PresignExpiryMinutes
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
