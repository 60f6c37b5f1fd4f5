package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/roles"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline <patient-id>",
	Short: "Print a patient's baseline",
	Long: `Reads the patient's frozen baseline straight from the database.

Examples:
  alzheon baseline patient-1
  alzheon baseline patient-1 -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBaseline,
}

func init() {
	baselineCmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json, yaml)")
	rootCmd.AddCommand(baselineCmd)
}

func runBaseline(cmd *cobra.Command, args []string) error {
	if output != "json" && output != "yaml" {
		return fmt.Errorf("unknown output format %q", output)
	}

	v, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	a, err := newApp(ctx, v, logger)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	providers := a.reg.ResolveByRole(roles.RoleCognition)
	if len(providers) == 0 {
		return errors.New("no cognition module is active")
	}
	provider, ok := providers[0].(roles.CognitionProvider)
	if !ok {
		return errors.New("cognition module does not provide baselines")
	}

	patientID := args[0]
	base, established, err := provider.Baseline(ctx, patientID)
	if err != nil {
		return err
	}
	view := cognition.BaselineView{PatientID: patientID, Established: established}
	if established {
		view.Baseline = &base
	} else {
		view.Message = "baseline not established yet"
	}
	return render(cmd.OutOrStdout(), view)
}

func render(w io.Writer, v any) error {
	if output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
