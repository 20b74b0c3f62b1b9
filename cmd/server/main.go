package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/primepost/internal/buildinfo"
	"github.com/dmitrijs2005/primepost/internal/flagx"
	"github.com/dmitrijs2005/primepost/internal/logging"
	"github.com/dmitrijs2005/primepost/internal/server"
	"github.com/dmitrijs2005/primepost/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Fatalf("load env file: %v", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		return
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	server.NewApp(cfg, logger).Run(context.Background())

}
