package config

import (
	"flag"
	"os"

	"github.com/whisperapp/whisper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-n string   username
//	-i string   user id
//	-d string   metadata store DSN (pgx)
//	-f string   local cache file (SQLite)
//	-m string   media directory for materialized audio
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 endpoint (e.g., "http://127.0.0.1:9000/")
//	-k string   Deepgram API key
//	-l string   transcription locale (e.g., "en-US")
//	-s int      directory search result cap
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config JSON flag.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-n", "-i", "-d", "-f", "-m", "-u", "-p", "-b", "-g", "-e", "-k", "-l", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Username, "n", config.Username, "username")
	fs.StringVar(&config.UserID, "i", config.UserID, "user id")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "metadata store DSN")
	fs.StringVar(&config.CacheDSN, "f", config.CacheDSN, "local cache file")
	fs.StringVar(&config.MediaDir, "m", config.MediaDir, "media directory")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3Endpoint, "e", config.S3Endpoint, "S3 endpoint")
	fs.StringVar(&config.DeepgramAPIKey, "k", config.DeepgramAPIKey, "Deepgram API key")
	fs.StringVar(&config.Locale, "l", config.Locale, "transcription locale")
	fs.IntVar(&config.SearchLimit, "s", config.SearchLimit, "search result cap")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
