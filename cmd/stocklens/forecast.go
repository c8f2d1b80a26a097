package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/stocklens-io/stocklens/internal/cache"
	"github.com/stocklens-io/stocklens/internal/config"
	"github.com/stocklens-io/stocklens/internal/domain"
	"github.com/stocklens-io/stocklens/internal/forecast"
	"github.com/stocklens-io/stocklens/internal/repository/postgres"
	"github.com/stocklens-io/stocklens/internal/service"
	"github.com/stocklens-io/stocklens/pkg/logger"
)

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Compute reorder signals for every product",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "lookback",
				Usage: "Lookback window in days (0 = configured default)",
			},
			&cli.IntFlag{
				Name:  "target",
				Usage: "Target coverage window in days (0 = configured default)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit JSON instead of a table",
			},
		},
		Action: runForecast,
	}
}

func runForecast(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	lookback := c.Int("lookback")
	if lookback == 0 {
		lookback = cfg.Forecast.LookbackDays
	}
	target := c.Int("target")
	if target == 0 {
		target = cfg.Forecast.TargetDays
	}

	engine, err := forecast.NewEngine(lookback, target)
	if err != nil {
		return err
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	svc := service.NewForecastService(
		postgres.NewProductRepository(db),
		postgres.NewSalesRepository(db),
		engine,
		forecastCache,
	)

	forecasts, err := svc.ComputeForecasts(c.Context)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(forecasts)
	}

	printForecastTable(forecasts)
	return nil
}

func printForecastTable(forecasts []domain.Forecast) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SKU\tNAME\tQTY\tVELOCITY\tDAYS LEFT\tREORDER\tURGENCY")
	for _, f := range forecasts {
		days := "-"
		if f.DaysUntilStockout != nil {
			days = strconv.FormatFloat(*f.DaysUntilStockout, 'f', 1, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\t%d\t%s\n",
			f.SKU, f.Name, f.CurrentQuantity, f.AvgDailySales, days, f.SuggestedReorder, f.Urgency)
	}
	w.Flush()
}
