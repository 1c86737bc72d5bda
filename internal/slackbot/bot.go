// Package slackbot is the conversation surface: caller turns arrive as Slack
// messages and replies (including out-of-band supervisor answers) are posted
// back into the same conversation.
package slackbot

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"frontdeskbot/internal/agent"
	"frontdeskbot/internal/session"
)

var mentionRegex = regexp.MustCompile(`<@[A-Z0-9]+>`)

const turnTimeout = 60 * time.Second

const snagReply = "Sorry, I hit a snag on my end. Give me a moment and ask me again."

type Bot struct {
	api            *slack.Client
	agent          *agent.Agent
	defaultContact string

	mu    sync.Mutex
	convs map[string]*agent.Conversation
}

func New(api *slack.Client, ag *agent.Agent, defaultContact string) *Bot {
	return &Bot{
		api:            api,
		agent:          ag,
		defaultContact: defaultContact,
		convs:          make(map[string]*agent.Conversation),
	}
}

// Run connects via Socket Mode and blocks, dispatching each event on its own
// goroutine.
func (b *Bot) Run() error {
	client := socketmode.New(b.api)

	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				client.Ack(*evt.Request)
				eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				go b.handleEventsAPI(eventsAPIEvent)
			case socketmode.EventTypeConnected:
				log.Println("Front desk bot connected via Socket Mode")
			}
		}
	}()

	return client.Run()
}

func (b *Bot) handleEventsAPI(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		b.respond(ev.Channel, stripMention(ev.Text))
	case *slackevents.MessageEvent:
		if !handleableMessage(ev) {
			return
		}
		b.respond(ev.Channel, stripMention(ev.Text))
	}
}

// handleableMessage keeps only plain direct messages from humans; edits,
// thread broadcasts, and our own posts are ignored.
func handleableMessage(ev *slackevents.MessageEvent) bool {
	return ev.ChannelType == "im" && ev.BotID == "" && ev.SubType == "" && ev.User != ""
}

func (b *Bot) respond(channel, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	conv := b.conversationFor(channel)

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	reply, err := b.agent.Respond(ctx, conv, text)
	if err != nil {
		log.Printf("conversation turn failed channel=%s: %v", channel, err)
		reply = snagReply
	}
	if _, _, err := b.api.PostMessageContext(ctx, channel, slack.MsgOptionText(reply, false)); err != nil {
		log.Printf("post reply to %s failed: %v", channel, err)
	}
}

// conversationFor returns the running conversation for a channel, creating
// it (and its session) on first contact. Sessions live for the process
// lifetime; nothing is persisted.
func (b *Bot) conversationFor(channel string) *agent.Conversation {
	b.mu.Lock()
	defer b.mu.Unlock()
	if conv, ok := b.convs[channel]; ok {
		return conv
	}
	sess := session.New(&delivery{api: b.api, channel: channel})
	if b.defaultContact != "" {
		sess.SetCallerPhone(b.defaultContact)
	}
	conv := agent.NewConversation(sess)
	b.convs[channel] = conv
	return conv
}

func stripMention(text string) string {
	return strings.TrimSpace(mentionRegex.ReplaceAllString(text, ""))
}

// delivery speaks into the conversation by posting to its channel. The
// allowInterruptions flag is a voice-surface concern and has no effect on a
// text channel.
type delivery struct {
	api     *slack.Client
	channel string
}

func (d *delivery) Say(ctx context.Context, message string, allowInterruptions bool) error {
	_, _, err := d.api.PostMessageContext(ctx, d.channel, slack.MsgOptionText(message, false))
	return err
}
