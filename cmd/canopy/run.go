package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/canopy/pkg/adapters/http"
)

var runCmd = &cobra.Command{
	Use:   "run <flow.yaml>",
	Short: "Run a flow once",
	Long: `Loads the flow file, restores the root scope of the session (if any),
executes the tree and saves the scope again. Display actors print to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		rawVars, _ := cmd.Flags().GetStringArray("var")
		jsonMode, _ := cmd.Flags().GetBool("json")

		vars, err := parseVars(rawVars)
		if err != nil {
			return err
		}

		eng, err := newEngine(cmd, args[0])
		if err != nil {
			return fmt.Errorf("failed to init engine: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := eng.Run(ctx, sessionID, vars)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		if res.Stopped {
			fmt.Fprintln(out, "Flow stopped.")
		}
		names := make([]string, 0, len(res.Variables))
		for name := range res.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%s=%s\n", name, res.Variables[name])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session whose root scope is restored and saved")
	runCmd.Flags().StringArrayP("var", "v", nil, "Set a root variable (name=value), repeatable")
	runCmd.Flags().Bool("json", false, "Print the run result as JSON")
}

// parseVars turns name=value pairs into a map.
func parseVars(raw []string) (map[string]string, error) {
	vars := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, expected name=value", kv)
		}
		clean, err := httpAdapter.SanitizeInput(value)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars[name] = clean
	}
	return vars, nil
}
