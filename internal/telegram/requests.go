package telegram

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Wire limits enforced at serialization time.
const (
	MaxMessageText    = 4096
	MaxCallbackText   = 200
	MaxUpdatesLimit   = 100
	MaxCallbackIDSize = 256
)

// Validation errors returned from Serialize.
var (
	ErrMissingChat = errors.New("chat id is required")
	ErrTextLength  = errors.New("text length out of range")
	ErrCallbackID  = errors.New("invalid callback query id")
	ErrNegative    = errors.New("value must not be negative")
	ErrLimitRange  = errors.New("limit out of range")
)

// GetMe returns the bot's own user.
type GetMe struct{}

func (GetMe) Name() string               { return "getMe" }
func (GetMe) Serialize() ([]byte, error) { return []byte("{}"), nil }
func (GetMe) Deserialize(resp HTTPResponse) (User, error) {
	return DecodeResult[User](resp)
}

// GetUpdates long-polls for new updates starting at Offset.
type GetUpdates struct {
	Offset int64 `json:"offset,omitempty"`
	// Limit caps the batch size (1..100); zero lets the server pick.
	Limit int `json:"limit,omitempty"`
	// Timeout is the server-side long-poll wait in seconds.
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

func (GetUpdates) Name() string { return "getUpdates" }

func (r GetUpdates) Serialize() ([]byte, error) {
	if r.Limit < 0 || r.Limit > MaxUpdatesLimit {
		return nil, fmt.Errorf("getUpdates limit %d: %w", r.Limit, ErrLimitRange)
	}
	if r.Timeout < 0 {
		return nil, fmt.Errorf("getUpdates timeout %d: %w", r.Timeout, ErrNegative)
	}
	return json.Marshal(r)
}

func (GetUpdates) Deserialize(resp HTTPResponse) ([]Update, error) {
	return DecodeResult[[]Update](resp)
}

// SendMessage sends a text message to a chat.
type SendMessage struct {
	ChatID              ChatID `json:"chat_id"`
	Text                string `json:"text"`
	ParseMode           string `json:"parse_mode,omitempty"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
	ReplyToMessageID    int64  `json:"reply_to_message_id,omitempty"`
}

// Text builds a SendMessage for the chat.
func (c ChatID) Text(text string) SendMessage {
	return SendMessage{ChatID: c, Text: text}
}

func (SendMessage) Name() string { return "sendMessage" }

func (r SendMessage) Serialize() ([]byte, error) {
	if r.ChatID == 0 {
		return nil, ErrMissingChat
	}
	if n := utf8.RuneCountInString(r.Text); n == 0 || n > MaxMessageText {
		return nil, fmt.Errorf("sendMessage text of %d characters: %w", n, ErrTextLength)
	}
	return json.Marshal(r)
}

func (SendMessage) Deserialize(resp HTTPResponse) (Message, error) {
	return DecodeResult[Message](resp)
}

// AnswerCallbackQuery acknowledges a callback query.
type AnswerCallbackQuery struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
	URL             string `json:"url,omitempty"`
	CacheTime       int    `json:"cache_time,omitempty"`
}

// Answer builds an AnswerCallbackQuery for the query.
func (q *CallbackQuery) Answer(text string) AnswerCallbackQuery {
	return AnswerCallbackQuery{CallbackQueryID: q.ID, Text: text}
}

func (AnswerCallbackQuery) Name() string { return "answerCallbackQuery" }

func (r AnswerCallbackQuery) Serialize() ([]byte, error) {
	if r.CallbackQueryID == "" || len(r.CallbackQueryID) > MaxCallbackIDSize {
		return nil, ErrCallbackID
	}
	if n := utf8.RuneCountInString(r.Text); n > MaxCallbackText {
		return nil, fmt.Errorf("answerCallbackQuery text of %d characters: %w", n, ErrTextLength)
	}
	if r.CacheTime < 0 {
		return nil, fmt.Errorf("answerCallbackQuery cache_time %d: %w", r.CacheTime, ErrNegative)
	}
	return json.Marshal(r)
}

func (AnswerCallbackQuery) Deserialize(resp HTTPResponse) (bool, error) {
	return DecodeResult[bool](resp)
}
