package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/strategy-agent/internal/model"
)

var researchJSON bool

var researchCmd = &cobra.Command{
	Use:   "research <company>",
	Short: "Run a one-shot research flow and print the report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		company := strings.Join(args, " ")
		a, sess := buildAgent(cfg)

		report := a.Research(cmd.Context(), company, func(msg string) {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		})

		if researchJSON {
			plan, ok := sess.Plan(company)
			if !ok {
				return fmt.Errorf("no plan stored for %s", company)
			}
			return printJSON(cmd, plan.Data)
		}

		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	},
}

func printJSON(cmd *cobra.Command, data model.PlanData) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func init() {
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "print the structured plan instead of the narrative report")
	rootCmd.AddCommand(researchCmd)
}
