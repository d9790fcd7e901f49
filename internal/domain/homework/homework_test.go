package homework

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestCheckResponse(t *testing.T) {
	t.Run("returns homeworks list", func(t *testing.T) {
		resp := decode(t, `{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":1700000000}`)

		homeworks, err := CheckResponse(resp)
		require.NoError(t, err)
		require.Len(t, homeworks, 1)
		assert.Equal(t, "hw1", homeworks[0].(map[string]any)["homework_name"])
	})

	t.Run("empty list is valid", func(t *testing.T) {
		homeworks, err := CheckResponse(decode(t, `{"homeworks":[]}`))
		require.NoError(t, err)
		assert.Empty(t, homeworks)
	})

	cases := map[string]string{
		"homeworks not a list": `{"homeworks":"not-a-list"}`,
		"homeworks missing":    `{"current_date":1}`,
		"homeworks null":       `{"homeworks":null}`,
		"response is a list":   `[{"homeworks":[]}]`,
		"response is a string": `"homeworks"`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := CheckResponse(decode(t, raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrShape), "expected shape error, got %v", err)
			assert.Equal(t, KindShape, KindOf(err))
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		msg, err := ParseStatus(map[string]any{"homework_name": "hw1", "status": "approved"})
		require.NoError(t, err)
		assert.Equal(t, `Changed review status of work "hw1".Work has been reviewed: the reviewer liked everything. Hooray!`, msg)
	})

	t.Run("every known status has a verdict", func(t *testing.T) {
		for _, st := range KnownStatuses() {
			verdict, ok := Verdict(st)
			require.True(t, ok)

			msg, err := ParseStatus(map[string]any{"homework_name": "hw", "status": string(st)})
			require.NoError(t, err)
			assert.Equal(t, `Changed review status of work "hw".`+verdict, msg)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := ParseStatus(map[string]any{"homework_name": "hw1", "status": "unknown_value"})
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("missing status", func(t *testing.T) {
		_, err := ParseStatus(map[string]any{"homework_name": "hw1"})
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("missing homework_name", func(t *testing.T) {
		_, err := ParseStatus(map[string]any{"status": "approved"})
		assert.ErrorIs(t, err, ErrMissingField)
		assert.NotErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("record is not a mapping", func(t *testing.T) {
		_, err := ParseStatus("hw1")
		assert.ErrorIs(t, err, ErrMissingField)
	})
}

func TestParseRecord(t *testing.T) {
	name, status, err := ParseRecord(decode(t, `{"homework_name":"user__hw_go.zip","status":"rejected","reviewer_comment":"fix tests"}`))
	require.NoError(t, err)
	assert.Equal(t, "user__hw_go.zip", name)
	assert.Equal(t, StatusRejected, status)
}

func TestCurrentDate(t *testing.T) {
	ts, ok := CurrentDate(decode(t, `{"homeworks":[],"current_date":1700000123}`))
	assert.True(t, ok)
	assert.Equal(t, int64(1700000123), ts)

	_, ok = CurrentDate(decode(t, `{"homeworks":[]}`))
	assert.False(t, ok)

	_, ok = CurrentDate(decode(t, `{"homeworks":[],"current_date":"yesterday"}`))
	assert.False(t, ok)

	_, ok = CurrentDate([]any{})
	assert.False(t, ok)
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Kind: KindRequest, Op: "GetAPIAnswer", Message: "request failed", Err: cause}

	assert.ErrorIs(t, err, ErrRequest)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrHTTPStatus)
	assert.Equal(t, "GetAPIAnswer: request failed: connection refused", err.Error())

	httpErr := &Error{Kind: KindHTTPStatus, StatusCode: 503}
	var target *Error
	require.ErrorAs(t, httpErr, &target)
	assert.Equal(t, 503, target.StatusCode)
	assert.Equal(t, "http_status", httpErr.Error())

	assert.Equal(t, ErrorKind(0), KindOf(cause))
}
