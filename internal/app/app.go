package app

import (
	"context"
	"log"
	"time"

	"github.com/slack-go/slack"

	"frontdeskbot/internal/agent"
	"frontdeskbot/internal/backend"
	"frontdeskbot/internal/config"
	"frontdeskbot/internal/escalate"
	"frontdeskbot/internal/kb"
	"frontdeskbot/internal/refresh"
	"frontdeskbot/internal/slackbot"
	"frontdeskbot/internal/tools"
)

func Main() {
	cfg := config.LoadConfig()
	log.Printf(
		"Config loaded. Business=%s Channel=%s Backend=%s PollInterval=%ds PollTimeout=%ds MatchThreshold=%.2f KBRefreshLimit=%d",
		cfg.BusinessName,
		cfg.Channel,
		cfg.BackendBaseURL,
		cfg.PollIntervalSeconds,
		cfg.PollTimeoutSeconds,
		cfg.MatchThreshold,
		cfg.KBRefreshLimit,
	)

	entries := kb.DefaultEntries()
	if cfg.FaqPath != "" {
		loaded, err := kb.LoadEntries(cfg.FaqPath)
		if err != nil {
			log.Fatalf("Failed to load FAQ entries: %v", err)
		}
		entries = loaded
		log.Printf("Loaded %d FAQ entries from %s", len(entries), cfg.FaqPath)
	}
	store := kb.New(entries)

	client := backend.NewClient(cfg.BackendBaseURL, time.Duration(cfg.BackendTimeoutSeconds)*time.Second)
	if client.Configured() {
		if n, err := refresh.Once(context.Background(), client, store, cfg.KBRefreshLimit); err != nil {
			log.Printf("Initial knowledge refresh failed: %v", err)
		} else {
			log.Printf("Initial knowledge refresh: %d dynamic entries", n)
		}
	}
	refresh.StartScheduler(cfg.KBRefreshSchedule, client, store, cfg.KBRefreshLimit)

	coordinator := escalate.NewCoordinator(
		client,
		cfg.Channel,
		time.Duration(cfg.PollIntervalSeconds)*time.Second,
		time.Duration(cfg.PollTimeoutSeconds)*time.Second,
	)

	registry := tools.NewRegistry(
		tools.NewLookupTool(client, store, cfg.MatchThreshold),
		tools.NewEscalateTool(coordinator),
		tools.UpdateNameTool{},
		tools.UpdatePhoneTool{},
	)

	ag := agent.New(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.BusinessName, registry)

	api := slack.New(
		cfg.SlackBotToken,
		slack.OptionAppLevelToken(cfg.SlackAppToken),
	)

	log.Println("Starting front desk assistant...")
	if err := slackbot.New(api, ag, cfg.DefaultCustomerContact).Run(); err != nil {
		log.Fatalf("Slack bot error: %v", err)
	}
}
