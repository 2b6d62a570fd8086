package config

import "os"

// parseEnv overlays Config with values from environment variables. A .env
// file loaded by the caller (godotenv) lands here too.
func parseEnv(cfg *Config) {
	overlay := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	overlay(&cfg.DatabaseDSN, "DATABASE_DSN")
	overlay(&cfg.S3AccessKey, "S3_ACCESS_KEY")
	overlay(&cfg.S3SecretKey, "S3_SECRET_KEY")
	overlay(&cfg.S3Bucket, "S3_BUCKET")
	overlay(&cfg.S3Region, "S3_REGION")
	overlay(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}
