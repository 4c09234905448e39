// Package state keeps the bot's per-user conversation state in an
// explicit keyed store, so the dialog flow is testable without any
// Telegram dependency. State is ephemeral: losing it on restart only
// drops in-flight conversations.
package state

import "context"

// Conversation is what the bot expects next from a given user.
type Conversation int

const (
	Idle Conversation = iota
	AwaitingMainCity
	AwaitingNewsOption
	AwaitingSearchCity
)

func (c Conversation) String() string {
	switch c {
	case AwaitingMainCity:
		return "awaiting_main_city"
	case AwaitingNewsOption:
		return "awaiting_news_option"
	case AwaitingSearchCity:
		return "awaiting_search_city"
	default:
		return "idle"
	}
}

// Store is a keyed conversation-state slot per user. A missing or
// expired entry reads as Idle.
type Store interface {
	Get(ctx context.Context, userID int64) (Conversation, error)
	Set(ctx context.Context, userID int64, c Conversation) error
	Clear(ctx context.Context, userID int64) error
}
