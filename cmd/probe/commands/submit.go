package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/wonny/probe/backend/internal/contracts"
	"github.com/wonny/probe/backend/internal/financials"
	"github.com/wonny/probe/backend/pkg/config"
	"github.com/wonny/probe/backend/pkg/httputil"
	"github.com/wonny/probe/backend/pkg/logger"
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit [file]",
	Short: "실행 중인 서버로 파일 업로드",
	Long: `JSON 파일을 실행 중인 API 서버로 보내고 결과 플래그를 출력합니다.
기본은 /upload 멀티파트 업로드, --json 은 /api/v1/flags/evaluate 에 본문으로 전송합니다.
5xx/429 응답은 지수 백오프로 재시도합니다 (CLIENT_MAX_RETRIES, --retries).

Example:
  go run ./cmd/probe submit
  go run ./cmd/probe submit company.json --server http://localhost:8089 --output table
  go run ./cmd/probe submit company.json --json --retries 0 --timeout 5s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSubmit,
}

var (
	submitServer  string
	submitOutput  string
	submitJSON    bool
	submitRetries int
	submitTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVar(&submitServer, "server", "", "server base URL (default $PROBE_SERVER_URL)")
	submitCmd.Flags().StringVarP(&submitOutput, "output", "o", OutputJSON, "output format (json|yaml|table)")
	submitCmd.Flags().BoolVar(&submitJSON, "json", false, "send the envelope as a JSON body instead of a file upload")
	submitCmd.Flags().IntVar(&submitRetries, "retries", -1, "retry count override, 0 disables retry (default $CLIENT_MAX_RETRIES)")
	submitCmd.Flags().DurationVar(&submitTimeout, "timeout", 0, "request timeout override (default $CLIENT_TIMEOUT)")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if err := validateOutput(submitOutput); err != nil {
		return err
	}

	path := DefaultInputFile
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := loadConfig((*config.Config).ValidateClient)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newCLILogger(cfg, cmd.ErrOrStderr())

	server := cfg.Client.ServerURL
	if submitServer != "" {
		server = submitServer
	}
	server = strings.TrimRight(server, "/")

	client := newSubmitClient(cfg, log, submitRetries, submitTimeout)

	var resp *http.Response
	if submitJSON {
		resp, err = postEnvelope(cmd, client, server+"/api/v1/flags/evaluate", path)
	} else {
		resp, err = client.UploadFile(cmd.Context(), server+"/upload", path)
	}
	if err != nil {
		return fmt.Errorf("submit %s: %w", path, err)
	}
	defer resp.Body.Close()

	result, err := decodeSubmitResponse(resp)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), submitOutput, *result, nil)
}

// newSubmitClient builds the HTTP client from config plus command-line overrides.
// retries < 0 and timeout <= 0 keep the configured values.
func newSubmitClient(cfg *config.Config, log *logger.Logger, retries int, timeout time.Duration) *httputil.Client {
	var client *httputil.Client
	if timeout > 0 {
		client = httputil.NewWithTimeout(cfg, log, timeout)
	} else {
		client = httputil.New(cfg, log)
	}

	switch {
	case retries == 0:
		client.DisableRetry()
	case retries > 0:
		client.WithRetry(retries, cfg.Client.InitialDelay)
	}

	if cfg.Client.RPS > 0 {
		client.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.Client.RPS), 1))
	}
	return client
}

// postEnvelope validates the file locally and posts it as a JSON body
func postEnvelope(cmd *cobra.Command, client *httputil.Client, url, path string) (*http.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	doc, err := financials.DecodeEnvelope(f)
	if err != nil {
		return nil, err
	}
	return client.PostJSON(cmd.Context(), url, contracts.Envelope{Data: doc})
}

// decodeSubmitResponse turns a server response into flags or an error carrying the server message
func decodeSubmitResponse(resp *http.Response) (*contracts.FlagResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result contracts.FlagResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	for _, name := range contracts.FlagNames {
		if f, ok := result.Flags[name]; !ok || !f.IsValid() {
			return nil, fmt.Errorf("decode response: missing or unknown %s", name)
		}
	}
	return &result, nil
}
