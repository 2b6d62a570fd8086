package config

import (
	"flag"
	"os"
	"time"

	"github.com/daybook-app/daybook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-e string   S3 base endpoint
//	-b string   S3 bucket for media blobs
//	-r int      reload retry delay in seconds
//
// Args are filtered through flagx.FilterArgs so flags owned by other
// components do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-e", "-b", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for media blobs")
	retryDelay := fs.Int("r", int(cfg.ReloadRetryDelay.Seconds()), "reload retry delay (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ReloadRetryDelay = time.Duration(*retryDelay) * time.Second
}
