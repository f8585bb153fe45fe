package cfg

import (
	"errors"
	"flag"
	"fmt"
)

// Config holds opsdeck-specific configuration alongside the common
// cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	AIEndpoint            string
	AIAPIKey              string
	AITimeoutSeconds      int
	SlackWebhookURL       string
	APIToken              string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.AIEndpoint, "ai-endpoint", "", "base URL of the AI generation proxy (empty = fallback reports only)")
	fs.StringVar(&c.AIAPIKey, "ai-api-key", "", "bearer token for the AI generation proxy")
	fs.IntVar(&c.AITimeoutSeconds, "ai-timeout-seconds", 10, "deadline for AI enrichment calls before the fallback report wins (1..120)")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for notifications")
	fs.StringVar(&c.APIToken, "api-token", "", "bearer token required on API requests (empty = no auth)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// Enrichment deadline bounds the report race; it must stay sane even
	// when the endpoint is unset
	if c.AITimeoutSeconds <= 0 || c.AITimeoutSeconds > 120 {
		errs = append(errs, fmt.Errorf("invalid AI_TIMEOUT_SECONDS %d (must be 1..120)", c.AITimeoutSeconds))
	}

	// Key without an endpoint is a misconfiguration worth failing on
	if c.AIAPIKey != "" && c.AIEndpoint == "" {
		errs = append(errs, errors.New("AI_API_KEY set but AI_ENDPOINT is empty"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
