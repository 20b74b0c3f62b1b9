package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/primepost/internal/flagx"
)

var ownFlags = []string{"-a", "-i", "-d", "-p", "-b", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-i int      online check interval in seconds
//	-d string   local data directory
//	-p string   PIN hash scheme for new PINs (argon2id, legacy)
//	-b string   biometric mode (off, prompt)
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs so flags owned by other loaders
// (-c, -e) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.StringVar(&cfg.PinHashScheme, "p", cfg.PinHashScheme, "PIN hash scheme")
	fs.StringVar(&cfg.BiometricMode, "b", cfg.BiometricMode, "biometric mode (off|prompt)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
