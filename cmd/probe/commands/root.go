package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/probe/backend/pkg/config"
	"github.com/wonny/probe/backend/pkg/logger"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe - 재무제표 기반 신용 플래그 엔진",
	Long: `Probe Unified CLI

재무제표 JSON에서 기간을 고르고 세 가지 신용 플래그를 계산합니다.
  TOTAL_REVENUE_5CR_FLAG     매출 5크로르 이상 여부
  BORROWING_TO_REVENUE_FLAG  차입금/매출 비율
  ISCR_FLAG                  이자보상배율

Usage:
  go run ./cmd/probe [command]

Examples:
  go run ./cmd/probe evaluate data.json
  go run ./cmd/probe evaluate data.json --output table --xlsx flags.xlsx
  go run ./cmd/probe api --port 8089
  go run ./cmd/probe submit data.json --server http://localhost:8089`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production|test)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig reads config and applies the global flag overrides.
// Each command validates only the sections it uses, so a bad client
// setting never blocks offline evaluation.
func loadConfig(validate func(*config.Config) error) (*config.Config, error) {
	cfg := config.Read()

	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// newCLILogger logs to w (stderr) so stdout only carries results
func newCLILogger(cfg *config.Config, w io.Writer) *logger.Logger {
	return logger.NewWithWriter(cfg, w)
}
