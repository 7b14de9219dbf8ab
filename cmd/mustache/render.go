package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/oarkflow/mustache"
	"github.com/oarkflow/mustache/internal/config"
	"github.com/oarkflow/mustache/internal/jsonvalue"
)

var (
	renderDataPath     string
	renderPartialsDir  string
	renderMaxOutput    int64
	renderOutputPath   string
)

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "render a Mustache template against a JSON data file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderDataPath, "data", "", "path to a JSON file used as the render context")
	renderCmd.Flags().StringVar(&renderPartialsDir, "partials", "", "directory of *.mustache partials")
	renderCmd.Flags().Int64Var(&renderMaxOutput, "max-output-bytes", 0, "abort the render if its staged buffers would exceed this many bytes (0 = unbounded)")
	renderCmd.Flags().StringVar(&renderOutputPath, "out", "", "write output here instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	requestID := uuid.NewString()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("render %s: %w", requestID, err)
		}
		cfg = loaded
	}

	tmpl, err := mustache.ParseFile(args[0], mustache.WithDelimiters(cfg.Delimiters.Open, cfg.Delimiters.Close))
	if err != nil {
		return fmt.Errorf("render %s: %w", requestID, err)
	}

	var data any
	if renderDataPath != "" {
		raw, err := os.ReadFile(renderDataPath)
		if err != nil {
			return fmt.Errorf("render %s: %w", requestID, err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("render %s: parsing %s: %w", requestID, renderDataPath, err)
		}
	}

	renderOpts := []mustache.RenderOption{mustache.WithMaxDepth(cfg.MaxDepth)}

	partialsDir := renderPartialsDir
	if partialsDir == "" {
		partialsDir = cfg.PartialsDir
	}
	if partialsDir != "" {
		watcher, err := mustache.NewWatcher(partialsDir, ".mustache")
		if err != nil {
			return fmt.Errorf("render %s: %w", requestID, err)
		}
		defer watcher.Close()
		renderOpts = append(renderOpts, mustache.WithPartials(watcher))
	}

	limit := renderMaxOutput
	if limit == 0 {
		limit = cfg.MaxOutputBytes
	}
	if limit > 0 {
		renderOpts = append(renderOpts, mustache.WithBudget(mustache.NewBudget(limit)))
	}

	out := os.Stdout
	if renderOutputPath != "" {
		f, err := os.Create(renderOutputPath)
		if err != nil {
			return fmt.Errorf("render %s: %w", requestID, err)
		}
		defer f.Close()
		out = f
	}

	if err := tmpl.Render(out, jsonvalue.Of(data), renderOpts...); err != nil {
		return fmt.Errorf("render %s: %w", requestID, err)
	}
	return nil
}
