package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/daybook-app/daybook/internal/flagx"
	"github.com/daybook-app/daybook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the retry delay can be written as "3s" or nanoseconds.
type JsonConfig struct {
	DatabaseDSN      string         `json:"database_dsn"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	ReloadRetryDelay timex.Duration `json:"reload_retry_delay"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is given via -c/-config. Empty JSON fields leave the current value alone.
// Panics on read or unmarshal errors, same as a malformed flag would.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	if jc.ReloadRetryDelay.Duration != 0 {
		cfg.ReloadRetryDelay = time.Duration(jc.ReloadRetryDelay.Duration)
	}
}
