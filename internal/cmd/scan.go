package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pramodsai29/AegisAI/internal/config"
	"github.com/Pramodsai29/AegisAI/internal/sanitizer"
)

var scanShowMap bool

var scanCmd = &cobra.Command{
	Use:   "scan [text]",
	Short: "Sanitize text from the argument or stdin and print the result as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanShowMap, "show-map", false, "include the rehydration map in the output (sensitive)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "scan")
	defer span.End()

	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\n")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	set, err := buildDetectorSet(cfg)
	if err != nil {
		return err
	}

	engine := sanitizer.New(set)
	res := engine.Sanitize(ctx, text)
	defer res.Rehydration.Destroy()

	type entityOut struct {
		Entity string `json:"entity"`
		Label  string `json:"label"`
	}
	entities := make([]entityOut, 0, len(res.Entities))
	for _, e := range res.Entities {
		entities = append(entities, entityOut{Entity: e.Text, Label: e.Class.String()})
	}

	out := map[string]interface{}{
		"sanitized":  res.Redacted,
		"entities":   entities,
		"context":    res.Context.Category,
		"confidence": res.Context.Confidence,
		"risk_score": res.Risk,
	}
	if scanShowMap {
		out["rehydration_map"] = res.Rehydration.Tokens()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
