package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/probe/backend/pkg/config"
	"github.com/wonny/probe/backend/pkg/httputil"
	"github.com/wonny/probe/backend/pkg/logger"
)

// Example_uploadFile submits a financial document to a running API server
func Example_uploadFile() {
	cfg := &config.Config{
		Env:      "development",
		LogLevel: "info",
		Client: config.ClientConfig{
			Timeout:      10 * time.Second,
			MaxRetries:   3,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
			ServerURL:    "http://localhost:8089",
		},
	}
	log := logger.New(cfg)

	// Create HTTP client (SSOT)
	client := httputil.New(cfg, log)

	resp, err := client.UploadFile(context.Background(), cfg.Client.ServerURL+"/upload", "data.json")
	if err != nil {
		fmt.Printf("Upload failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Status: %d\n", resp.StatusCode)
}

// Example_withRetry demonstrates retry configuration
func Example_withRetry() {
	cfg := &config.Config{Env: "production", LogLevel: "info"}
	log := logger.New(cfg)

	client := httputil.New(cfg, log).
		WithRetry(5, 2*time.Second) // 5 retries, 2s initial delay

	resp, err := client.PostJSON(context.Background(), "http://localhost:8089/api/v1/flags/evaluate", map[string]any{
		"data": map[string]any{"financials": []any{}},
	})
	if err != nil {
		fmt.Printf("Request failed after retries: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Status: %d\n", resp.StatusCode)
}
