package slackbot

import (
	"testing"

	"github.com/slack-go/slack/slackevents"
)

func TestStripMention(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"<@U0123ABCD> what are your hours?", "what are your hours?"},
		{"what are your hours?", "what are your hours?"},
		{"  <@U0123ABCD>  ", ""},
		{"hi <@U0123ABCD> there", "hi  there"},
	}
	for _, tc := range cases {
		if got := stripMention(tc.in); got != tc.want {
			t.Errorf("stripMention(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHandleableMessage(t *testing.T) {
	ok := &slackevents.MessageEvent{ChannelType: "im", User: "U1"}
	if !handleableMessage(ok) {
		t.Fatal("expected plain DM to be handled")
	}

	cases := map[string]*slackevents.MessageEvent{
		"channel message": {ChannelType: "channel", User: "U1"},
		"bot message":     {ChannelType: "im", User: "U1", BotID: "B1"},
		"edited message":  {ChannelType: "im", User: "U1", SubType: "message_changed"},
		"no user":         {ChannelType: "im"},
	}
	for name, ev := range cases {
		if handleableMessage(ev) {
			t.Errorf("%s should not be handled", name)
		}
	}
}

func TestConversationForReusesSessions(t *testing.T) {
	b := New(nil, nil, "+15550100")

	first := b.conversationFor("D111")
	again := b.conversationFor("D111")
	if first != again {
		t.Fatal("expected the same conversation for the same channel")
	}

	other := b.conversationFor("D222")
	if first == other {
		t.Fatal("expected distinct conversations per channel")
	}

	_, phone := first.Session().Caller()
	if phone != "+15550100" {
		t.Fatalf("expected default contact on new session, got %q", phone)
	}
}
