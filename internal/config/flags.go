package config

import (
	"flag"
	"os"

	"github.com/edkeeper/classvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database DSN (default from Config)
//	-b string   blob backend, "sql" or "s3" (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.BlobBackend, "b", cfg.BlobBackend, "blob backend (sql|s3)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
