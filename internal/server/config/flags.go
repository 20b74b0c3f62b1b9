package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/primepost/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-s string   identity token HMAC secret
//	-t int      identity token validity, minutes
//	-l string   log level
//
// os.Args is first filtered with flagx.FilterArgs so flags owned by other
// loaders do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	ttl := fs.Int("t", int(config.IdentityTokenTTL.Minutes()), "identity token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.IdentityTokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
}
