// Package main provides a CLI command for one-shot text generation through
// the failover router.
// Usage: genroute-generate "prompt" [--system TEXT] [--shape list] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"genroute/internal/catalog"
	"genroute/internal/config"
	"genroute/internal/domain/entity"
	"genroute/internal/infra/provider"
	"genroute/internal/observability/logging"
	"genroute/internal/router"
)

// GenerateOutput represents the JSON output format for generation results.
type GenerateOutput struct {
	Prompt   string `json:"prompt"`
	Text     string `json:"text"`
	Backend  string `json:"backend"`
	Switched bool   `json:"switched"`
}

func main() {
	// Parse command-line arguments
	var (
		system       string
		temperature  float64
		shape        string
		timeout      time.Duration
		outputFormat string
	)

	flag.StringVar(&system, "system", "", "Optional system instruction")
	flag.Float64Var(&temperature, "temperature", 0.7, "Sampling temperature (0 to 2)")
	flag.StringVar(&shape, "shape", "text", "Expected response shape: text, list, or object")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall request timeout")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: Prompt is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: genroute-generate \"prompt\" [--system TEXT] [--shape list] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  genroute-generate \"Summarize the history of Unix\"")
		fmt.Fprintln(os.Stderr, "  genroute-generate \"List five Go proverbs\" --shape list")
		fmt.Fprintln(os.Stderr, "  genroute-generate \"Describe this API\" --system \"You are terse.\" --output json")
		os.Exit(1)
	}
	prompt := args[0]

	// Logs go to stderr so stdout stays clean for the generated text.
	logger := logging.NewLoggerTo(os.Stderr)
	slog.SetDefault(logger)

	cfg, err := config.LoadRouterConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	prov, err := provider.New(cfg.Provider, cfg.APIKey)
	if err != nil {
		logger.Error("failed to create provider", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to create provider: %v\n", err)
		os.Exit(1)
	}

	discovery := catalog.New(prov, catalog.Config{
		TTL:              cfg.CatalogTTL,
		ExcludedFamilies: catalog.DefaultExcludedFamilies(),
	})

	rt := router.New(discovery, prov, router.Config{
		MaxAttemptsPerBackend: cfg.MaxAttemptsPerBackend,
		RetryBaseDelay:        cfg.RetryBaseDelay,
		AttemptTimeout:        cfg.AttemptTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out := rt.Generate(ctx, entity.GenerationRequest{
		Prompt:            prompt,
		SystemInstruction: system,
		Temperature:       temperature,
		Shape:             shape,
	})
	if !out.Succeeded() {
		logger.Error("generation failed",
			slog.String("kind", out.Failure.Kind.String()),
			slog.String("detail", out.Failure.Detail))
		fmt.Fprintf(os.Stderr, "Error: %s\n", out.Failure.Detail)
		os.Exit(1)
	}

	if outputFormat == "json" {
		outputJSON(prompt, out)
	} else {
		fmt.Println(out.Text)
	}
}

// outputJSON prints the generation result in JSON format.
func outputJSON(prompt string, out entity.GenerationOutcome) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(GenerateOutput{
		Prompt:   prompt,
		Text:     out.Text,
		Backend:  out.BackendID,
		Switched: out.Switched,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}
