package telegram

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_Serialize(t *testing.T) {
	req := ChatID(61031).Text("Message")
	body, err := req.Serialize()
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, float64(61031), m["chat_id"])
	assert.Equal(t, "Message", m["text"])
	assert.NotContains(t, m, "parse_mode")
	assert.Equal(t, "sendMessage", req.Name())
}

func TestSendMessage_SerializeLimits(t *testing.T) {
	_, err := SendMessage{ChatID: 1}.Serialize()
	assert.ErrorIs(t, err, ErrTextLength)

	_, err = SendMessage{ChatID: 1, Text: strings.Repeat("я", MaxMessageText+1)}.Serialize()
	assert.ErrorIs(t, err, ErrTextLength)

	_, err = SendMessage{ChatID: 1, Text: strings.Repeat("я", MaxMessageText)}.Serialize()
	assert.NoError(t, err)

	_, err = SendMessage{Text: "x"}.Serialize()
	assert.ErrorIs(t, err, ErrMissingChat)
}

func TestGetUpdates_SerializeLimits(t *testing.T) {
	_, err := GetUpdates{Limit: 101}.Serialize()
	assert.ErrorIs(t, err, ErrLimitRange)

	_, err = GetUpdates{Timeout: -1}.Serialize()
	assert.ErrorIs(t, err, ErrNegative)

	body, err := GetUpdates{Offset: 11, Limit: 100, Timeout: 30}.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"offset": 11, "limit": 100, "timeout": 30}`, string(body))
}

func TestAnswerCallbackQuery_Serialize(t *testing.T) {
	q := &CallbackQuery{ID: "cb1"}
	body, err := q.Answer("done").Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"callback_query_id": "cb1", "text": "done"}`, string(body))

	_, err = AnswerCallbackQuery{}.Serialize()
	assert.ErrorIs(t, err, ErrCallbackID)

	_, err = AnswerCallbackQuery{CallbackQueryID: "x", Text: strings.Repeat("a", MaxCallbackText+1)}.Serialize()
	assert.ErrorIs(t, err, ErrTextLength)

	_, err = AnswerCallbackQuery{CallbackQueryID: "x", CacheTime: -3}.Serialize()
	assert.ErrorIs(t, err, ErrNegative)
}

func TestDecodeResult_OK(t *testing.T) {
	resp := HTTPResponse{StatusCode: 200, Body: []byte(`{"ok": true, "result": {"id": 1, "is_bot": true, "first_name": "bot", "username": "tg_bot"}}`)}
	user, err := GetMe{}.Deserialize(resp)
	require.NoError(t, err)
	assert.Equal(t, "tg_bot", user.Username)
	assert.True(t, user.IsBot)
}

func TestDecodeResult_APIError(t *testing.T) {
	resp := HTTPResponse{StatusCode: 429, Body: []byte(`{"ok": false, "error_code": 429,
		"description": "Too Many Requests: retry after 3", "parameters": {"retry_after": 3}}`)}

	_, err := SendMessage{}.Deserialize(resp)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 429, apiErr.Code)
	assert.Equal(t, 3, apiErr.RetryAfter)
	assert.Contains(t, apiErr.Error(), "Too Many Requests")
}

func TestDecodeResult_EmptyAndMalformed(t *testing.T) {
	_, err := GetMe{}.Deserialize(HTTPResponse{StatusCode: 502})
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = GetMe{}.Deserialize(HTTPResponse{StatusCode: 200, Body: []byte("<html>")})
	assert.Error(t, err)

	_, err = GetUpdates{}.Deserialize(HTTPResponse{StatusCode: 200, Body: []byte(`{"ok": true, "result": {"not": "a list"}}`)})
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	req, err := Build[Message](ChatID(5).Text("hi"))
	require.NoError(t, err)
	assert.Equal(t, "sendMessage", req.Method)
	assert.JSONEq(t, `{"chat_id": 5, "text": "hi"}`, string(req.Body))

	_, err = Build[Message](SendMessage{})
	assert.Error(t, err)
}
