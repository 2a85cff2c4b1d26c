package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wonny/probe/backend/internal/contracts"
	"github.com/wonny/probe/backend/internal/financials"
	"github.com/wonny/probe/backend/internal/flags"
	"github.com/wonny/probe/backend/internal/report"
	"github.com/wonny/probe/backend/pkg/config"
)

// DefaultInputFile is read when evaluate/submit get no argument
const DefaultInputFile = "data.json"

const xlsxStdout = "-"

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [file]",
	Short: "로컬 JSON 파일의 플래그 계산",
	Long: `재무제표 JSON 파일을 읽어 플래그를 계산하고 출력합니다.

입력 형식: {"data": {"financials": [...]}}
파일을 생략하면 data.json을 읽습니다.

Example:
  go run ./cmd/probe evaluate
  go run ./cmd/probe evaluate company.json --output yaml
  go run ./cmd/probe evaluate company.json --explain --xlsx report.xlsx
  go run ./cmd/probe evaluate company.json --xlsx - > report.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

var (
	evalOutput  string
	evalExplain bool
	evalXLSX    string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evalOutput, "output", "o", OutputJSON, "output format (json|yaml|table)")
	evaluateCmd.Flags().BoolVar(&evalExplain, "explain", false, "include the selected period and computed ratios")
	evaluateCmd.Flags().StringVar(&evalXLSX, "xlsx", "", `also write an xlsx report to this path ("-" writes only the report to stdout)`)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	if err := validateOutput(evalOutput); err != nil {
		return err
	}

	path := DefaultInputFile
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := loadConfig((*config.Config).ValidateCore)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newCLILogger(cfg, cmd.ErrOrStderr())

	bd, err := evaluateFile(cmd.Context(), flags.NewEngine(log, nil), path)
	if err != nil {
		return err
	}

	if bd.PeriodNature != contracts.NatureStandalone {
		PrintWarning(cmd.ErrOrStderr(), "No STANDALONE period found, evaluated financials[0]")
	}

	wb := report.Workbook{Source: filepath.Base(path)}

	// "-" streams the workbook to stdout in place of the text result
	if evalXLSX == xlsxStdout {
		return wb.Write(cmd.OutOrStdout(), *bd)
	}

	var explained *contracts.Breakdown
	if evalExplain {
		explained = bd
	}
	if err := writeResult(cmd.OutOrStdout(), evalOutput, bd.Result, explained); err != nil {
		return err
	}

	if evalXLSX != "" {
		if err := wb.Save(evalXLSX, *bd); err != nil {
			return err
		}
		log.WithField("path", evalXLSX).Info("Workbook report written")
	}

	return nil
}

// evaluateFile decodes the envelope at path and runs the engine on it
func evaluateFile(ctx context.Context, engine *flags.Engine, path string) (*contracts.Breakdown, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	doc, err := financials.DecodeEnvelope(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return engine.Explain(ctx, "cli", doc)
}
