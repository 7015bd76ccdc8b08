package telegram

import (
	"strconv"
)

// IdentityKey identifies an update for duplicate detection: the conversation
// it belongs to plus a per-conversation message key.
type IdentityKey struct {
	Chat    ChatID
	Message string
}

// Key derives the identity key of the update.
//
//	message, edited message        chat id          / message id
//	channel post (and edited)      channel chat id  / message id
//	callback query                 chat_instance    / callback query id
//	unrecognized                   0                / update id
//
// A chat_instance that does not parse as an integer maps to chat 0.
func (u Update) Key() IdentityKey {
	switch {
	case u.Message != nil:
		return messageKey(u.Message)
	case u.EditedMessage != nil:
		return messageKey(u.EditedMessage)
	case u.ChannelPost != nil:
		return messageKey(u.ChannelPost)
	case u.EditedChannelPost != nil:
		return messageKey(u.EditedChannelPost)
	case u.CallbackQuery != nil:
		return IdentityKey{
			Chat:    parseChatInstance(u.CallbackQuery.ChatInstance),
			Message: u.CallbackQuery.ID,
		}
	default:
		return IdentityKey{Chat: 0, Message: strconv.FormatInt(u.ID, 10)}
	}
}

// Conversation returns the affinity key of the update.
func (u Update) Conversation() ChatID {
	return u.Key().Chat
}

func messageKey(m *Message) IdentityKey {
	return IdentityKey{Chat: m.Chat.ID, Message: strconv.FormatInt(m.MessageID, 10)}
}

func parseChatInstance(s string) ChatID {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return ChatID(n)
}
