package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stocklens-io/stocklens/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug().Msg("no .env file, using environment variables")
	}

	app := &cli.App{
		Name:  "stocklens",
		Usage: "Inventory intelligence: demand forecasts and natural language search",
		Commands: []*cli.Command{
			forecastCommand(),
			searchCommand(),
			seedCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
