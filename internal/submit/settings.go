package submit

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/postcard/internal/config"
)

const (
	// DefaultFormName is the discriminator value when nothing is configured.
	DefaultFormName = "contact"
	// DefaultTimeout bounds a whole submission exchange.
	DefaultTimeout = 30 * time.Second
)

// Settings captures the runtime configuration for the submission client.
type Settings struct {
	Endpoint string
	FormName string
	Subject  string
	Timeout  time.Duration
}

// SettingsFromConfig builds Settings from the project's .postcard config
// plus environment overrides.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{
		FormName: DefaultFormName,
		Timeout:  DefaultTimeout,
	}
	if cfg != nil {
		if endpoint := strings.TrimSpace(cfg.Endpoint()); endpoint != "" {
			settings.Endpoint = endpoint
		}
		if name := strings.TrimSpace(cfg.FormName()); name != "" {
			settings.FormName = name
		}
		if subject := strings.TrimSpace(cfg.Subject()); subject != "" {
			settings.Subject = subject
		}
		if timeout := cfg.Timeout(); timeout > 0 {
			settings.Timeout = timeout
		}
	}
	settings.applyEnvOverrides()
	return settings
}

func (s *Settings) applyEnvOverrides() {
	if s == nil {
		return
	}
	if endpoint := strings.TrimSpace(os.Getenv("POSTCARD_ENDPOINT")); endpoint != "" {
		s.Endpoint = endpoint
	}
	if name := strings.TrimSpace(os.Getenv("POSTCARD_FORM_NAME")); name != "" {
		s.FormName = name
	}
	if subject := strings.TrimSpace(os.Getenv("POSTCARD_SUBJECT")); subject != "" {
		s.Subject = subject
	}
	if raw := strings.TrimSpace(os.Getenv("POSTCARD_TIMEOUT_SECONDS")); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			s.Timeout = time.Duration(seconds) * time.Second
		}
	}
}

// Validate reports whether the settings describe a usable endpoint.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Endpoint) == "" {
		return fmt.Errorf("submit: endpoint is not configured; set it in .postcard/config.yaml or POSTCARD_ENDPOINT")
	}
	parsed, err := url.Parse(s.Endpoint)
	if err != nil {
		return fmt.Errorf("submit: endpoint %q: %w", s.Endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("submit: endpoint %q must be http(s)", s.Endpoint)
	}
	if s.FormName == "" {
		return fmt.Errorf("submit: form name is required")
	}
	return nil
}
