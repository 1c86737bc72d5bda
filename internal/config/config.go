package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"frontdeskbot/internal/kb"
)

const (
	defaultBackendTimeoutSeconds = 10
	defaultPollIntervalSeconds   = 5
	defaultPollTimeoutSeconds    = 180
	defaultKBRefreshLimit        = 40
)

type Config struct {
	SlackBotToken string `yaml:"slack_bot_token"`
	SlackAppToken string `yaml:"slack_app_token"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	BackendBaseURL        string `yaml:"backend_base_url"`
	BackendTimeoutSeconds int    `yaml:"backend_timeout_seconds"`

	PollIntervalSeconds int     `yaml:"poll_interval_seconds"`
	PollTimeoutSeconds  int     `yaml:"poll_timeout_seconds"`
	MatchThreshold      float64 `yaml:"match_confidence_threshold"`

	FaqPath           string `yaml:"faq_path"`
	KBRefreshSchedule string `yaml:"kb_refresh_schedule"`
	KBRefreshLimit    int    `yaml:"kb_refresh_limit"`

	BusinessName           string `yaml:"business_name"`
	Channel                string `yaml:"channel"`
	DefaultCustomerContact string `yaml:"default_customer_contact"`
}

// LoadConfig reads config.yaml (or $CONFIG_PATH), applies env var overrides,
// fills defaults, and fatals on anything that would leave the bot unable to
// hold a conversation. A missing backend address is deliberately not fatal:
// escalation then degrades to logging only.
func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.BackendBaseURL, "BACKEND_BASE_URL")
	envOverrideInt(&cfg.BackendTimeoutSeconds, "BACKEND_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.PollIntervalSeconds, "POLL_INTERVAL_SECONDS")
	envOverrideInt(&cfg.PollTimeoutSeconds, "POLL_TIMEOUT_SECONDS")
	envOverrideFloat(&cfg.MatchThreshold, "MATCH_CONFIDENCE_THRESHOLD")
	envOverride(&cfg.FaqPath, "FAQ_PATH")
	envOverride(&cfg.KBRefreshSchedule, "KB_REFRESH_SCHEDULE")
	envOverrideInt(&cfg.KBRefreshLimit, "KB_REFRESH_LIMIT")
	envOverride(&cfg.BusinessName, "BUSINESS_NAME")
	envOverride(&cfg.Channel, "CHANNEL")
	envOverride(&cfg.DefaultCustomerContact, "DEFAULT_CUSTOMER_CONTACT")

	// Defaults
	if cfg.BackendTimeoutSeconds == 0 {
		cfg.BackendTimeoutSeconds = defaultBackendTimeoutSeconds
	}
	if cfg.PollIntervalSeconds == 0 {
		cfg.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if cfg.PollTimeoutSeconds == 0 {
		cfg.PollTimeoutSeconds = defaultPollTimeoutSeconds
	}
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = kb.DefaultConfidenceThreshold
	}
	if cfg.KBRefreshLimit == 0 {
		cfg.KBRefreshLimit = defaultKBRefreshLimit
	}
	if cfg.BusinessName == "" {
		cfg.BusinessName = "Luna Salon"
	}
	if cfg.Channel == "" {
		cfg.Channel = "slack"
	}

	// Validate required fields
	required := map[string]string{
		"slack_bot_token":   cfg.SlackBotToken,
		"slack_app_token":   cfg.SlackAppToken,
		"anthropic_api_key": cfg.AnthropicAPIKey,
	}
	for name, val := range required {
		if val == "" {
			log.Fatalf("Required config '%s' is not set (via config.yaml or env var)", name)
		}
	}

	if cfg.BackendBaseURL == "" {
		log.Println("backend_base_url is not set; escalations will be logged but not filed")
	}
	if cfg.BackendTimeoutSeconds < 1 {
		log.Fatalf("invalid backend_timeout_seconds '%d': must be >= 1", cfg.BackendTimeoutSeconds)
	}
	if cfg.PollIntervalSeconds < 1 {
		log.Fatalf("invalid poll_interval_seconds '%d': must be >= 1", cfg.PollIntervalSeconds)
	}
	if cfg.PollTimeoutSeconds < cfg.PollIntervalSeconds {
		log.Fatalf("invalid poll_timeout_seconds '%d': must be >= poll_interval_seconds", cfg.PollTimeoutSeconds)
	}
	if cfg.MatchThreshold < 0 {
		log.Fatalf("invalid match_confidence_threshold '%f': must be >= 0", cfg.MatchThreshold)
	}
	if cfg.KBRefreshLimit < 1 {
		log.Fatalf("invalid kb_refresh_limit '%d': must be >= 1", cfg.KBRefreshLimit)
	}
	if cfg.FaqPath != "" {
		if _, err := kb.LoadEntries(cfg.FaqPath); err != nil {
			log.Fatalf("invalid faq_path '%s': %v", cfg.FaqPath, err)
		}
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
