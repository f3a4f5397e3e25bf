package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFormat  string
	flagOutput  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rproj",
	Short: "Retirement projection CLI",
	Long:  "Project retirement cashflow month by month: income streams, account balances, taxes, and spending.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "console", "Output format (console, csv, tax-csv, json)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Write output to a file instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log engine progress to stderr")
}

// stderrLogger routes engine logs to stderr when --verbose is set.
type stderrLogger struct{}

func (stderrLogger) Debugf(format string, args ...any) { logLine("DEBUG", format, args...) }
func (stderrLogger) Infof(format string, args ...any)  { logLine("INFO", format, args...) }
func (stderrLogger) Warnf(format string, args ...any)  { logLine("WARN", format, args...) }
func (stderrLogger) Errorf(format string, args ...any) { logLine("ERROR", format, args...) }

func logLine(level, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}

func writeOutput(data []byte) error {
	if flagOutput == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(flagOutput, data, 0644)
}
