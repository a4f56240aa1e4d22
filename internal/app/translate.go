package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/transgate/internal/cli"
	"horse.fit/transgate/internal/language"
	"horse.fit/transgate/internal/translation"
)

type translateOutputRow struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Cached      bool   `json:"cached"`
	Error       string `json:"error,omitempty"`
}

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	lang := fs.String("lang", "", "Target language code (for example: id, fr, en-GB)")
	provider := fs.String("provider", string(translation.GenericMT), "Provider: "+strings.Join(translation.AcceptedProviderNames(), ", "))
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "translate requires at least one text argument")
		printTranslateUsage()
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	targetLang := strings.TrimSpace(*lang)
	if language.NormalizeTag(targetLang) == "" {
		fmt.Fprintln(os.Stderr, "--lang is required and must be a valid language code")
		return 2
	}

	cfg, logger, err := loadRuntime(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	texts := fs.Args()
	validator := translation.NewValidator(translation.Limits{
		MaxTextLength: cfg.MaxTextLength,
		MaxBatchSize:  cfg.MaxBatchSize,
	})
	if err := validator.ValidateBatch(texts, targetLang, *provider); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	providerID, _ := translation.ParseProvider(*provider)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	p := buildPipeline(ctx, cfg, logger)
	defer p.Close(logger)

	results := p.orchestrator.TranslateBatch(ctx, texts, targetLang, providerID)
	rows := make([]translateOutputRow, len(results))
	failed := 0
	for i, result := range results {
		rows[i] = translateOutputRow{
			Index:       i,
			Text:        texts[i],
			Translation: result.Text,
			Cached:      result.Cached,
		}
		if result.Err != nil {
			rows[i].Error = result.Err.Error()
			failed++
		}
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{
			"target_lang": targetLang,
			"provider":    string(providerID),
			"results":     rows,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
	} else {
		tableRows := make([][]string, 0, len(rows))
		for _, row := range rows {
			outcome := row.Translation
			if row.Error != "" {
				outcome = "error: " + row.Error
			}
			tableRows = append(tableRows, []string{
				fmt.Sprint(row.Index),
				truncateForTable(row.Text, 40),
				truncateForTable(outcome, 80),
				fmt.Sprint(row.Cached),
			})
		}
		if err := writeTable([]string{"#", "TEXT", "TRANSLATION", "CACHED"}, tableRows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}

func printTranslateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  transgate translate --lang <lang> [--provider google] [--format table|json] [--env .env] [--timeout 2m] <text> [<text>...]")
}
