// Package telegram holds the Bot API wire types used by the multiplexing
// client: inbound updates, the response envelope and a handful of typed
// requests.
package telegram

import (
	"strconv"
)

// ChatID identifies a chat, channel or callback context. It is the affinity
// key used to route replies.
type ChatID int64

// String returns the decimal form of the id.
func (c ChatID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// User is a Telegram user or bot.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat is the chat a message belongs to.
type Chat struct {
	ID       ChatID `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// Message is a message, edited message or channel post.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	EditDate  int64  `json:"edit_date,omitempty"`
	Text      string `json:"text,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

// CallbackQuery is an incoming inline-keyboard callback.
type CallbackQuery struct {
	ID              string   `json:"id"`
	From            User     `json:"from"`
	Message         *Message `json:"message,omitempty"`
	InlineMessageID string   `json:"inline_message_id,omitempty"`
	// ChatInstance uniquely corresponds to the chat the originating message
	// was sent to. It is a decimal string on the wire.
	ChatInstance  string `json:"chat_instance"`
	Data          string `json:"data,omitempty"`
	GameShortName string `json:"game_short_name,omitempty"`
}

// Update is one inbound event. At most one payload field is set; an update
// with none set is an unrecognized variant (e.g. an inline query) and is
// still delivered.
type Update struct {
	ID                int64          `json:"update_id"`
	Message           *Message       `json:"message,omitempty"`
	EditedMessage     *Message       `json:"edited_message,omitempty"`
	ChannelPost       *Message       `json:"channel_post,omitempty"`
	EditedChannelPost *Message       `json:"edited_channel_post,omitempty"`
	CallbackQuery     *CallbackQuery `json:"callback_query,omitempty"`
}

// Kind names the payload variant of an update.
type Kind string

const (
	KindMessage           Kind = "message"
	KindEditedMessage     Kind = "edited_message"
	KindChannelPost       Kind = "channel_post"
	KindEditedChannelPost Kind = "edited_channel_post"
	KindCallbackQuery     Kind = "callback_query"
	KindUnknown           Kind = "unknown"
)

// Kind reports which payload the update carries.
func (u Update) Kind() Kind {
	switch {
	case u.Message != nil:
		return KindMessage
	case u.EditedMessage != nil:
		return KindEditedMessage
	case u.ChannelPost != nil:
		return KindChannelPost
	case u.EditedChannelPost != nil:
		return KindEditedChannelPost
	case u.CallbackQuery != nil:
		return KindCallbackQuery
	default:
		return KindUnknown
	}
}
