package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"horse.fit/transgate/internal/cli"
	"horse.fit/transgate/internal/translation"
)

type providerRow struct {
	Provider  string   `json:"provider"`
	Available bool     `json:"available"`
	Fallback  string   `json:"fallback,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
	Timeout   string   `json:"timeout,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func runProviders(args []string) int {
	fs := flag.NewFlagSet("providers", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env")
	timeout := fs.Duration("timeout", 20*time.Second, "Provider initialization timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, logger, err := loadRuntime(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	p := buildPipeline(ctx, cfg, logger)
	defer p.Close(logger)

	rows := providerRows(p.registry.Status())
	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"providers": rows}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
		return 0
	}

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, []string{
			row.Provider,
			fmt.Sprint(row.Available),
			row.Fallback,
			fmt.Sprint(row.Aliases),
			row.Timeout,
			truncateForTable(row.Error, 60),
		})
	}
	if err := writeTable([]string{"PROVIDER", "AVAILABLE", "FALLBACK", "ALIASES", "TIMEOUT", "ERROR"}, tableRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func providerRows(statuses []translation.ProviderStatus) []providerRow {
	aliases := make(map[translation.ProviderID][]string)
	for alias, id := range translation.ProviderAliases {
		aliases[id] = append(aliases[id], alias)
	}

	rows := make([]providerRow, 0, len(statuses))
	for _, status := range statuses {
		id := translation.ProviderID(status.Provider)
		row := providerRow{
			Provider:  status.Provider,
			Available: status.Available,
			Timeout:   status.Timeout,
			Error:     status.Error,
		}
		if fallback, ok := translation.FallbackRoutes[id]; ok {
			row.Fallback = string(fallback)
		}
		if names := aliases[id]; len(names) > 0 {
			sort.Strings(names)
			row.Aliases = names
		}
		rows = append(rows, row)
	}
	return rows
}
