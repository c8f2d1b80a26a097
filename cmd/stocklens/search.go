package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/stocklens-io/stocklens/internal/config"
	"github.com/stocklens-io/stocklens/internal/search"
	"github.com/stocklens-io/stocklens/pkg/logger"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Interpret a natural language inventory query",
		ArgsUsage: "<query>",
		Action:    runSearch,
	}
}

func runSearch(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("search: query text required")
	}

	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	interpreter := search.NewInterpreter(cfg.AI)
	spec := interpreter.Interpret(c.Context, query)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(spec)
}
