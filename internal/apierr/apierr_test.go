package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", Validation("Task title is required."), "Task title is required."},
		{"auth", Auth(errors.New("no credential")), AuthMessage},
		{"remote with message", Remote(400, "Invalid OTP."), "Invalid OTP."},
		{"remote without message", Remote(500, ""), GenericMessage},
		{"transport", Transport(errors.New("dial tcp: connection refused")), GenericMessage},
		{"plain error", errors.New("boom"), GenericMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UserMessage(tc.err))
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("update task: %w", Remote(404, "Task not found"))

	assert.Equal(t, KindRemote, KindOf(err))
	assert.True(t, IsKind(err, KindRemote))
	assert.False(t, IsKind(err, KindTransport))
	assert.Equal(t, KindUnknown, KindOf(errors.New("x")))
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	cause := errors.New("timeout")
	n := Normalize(cause)
	assert.Equal(t, KindTransport, n.Kind)
	assert.ErrorIs(t, n, cause)

	v := Validation("x")
	assert.Same(t, v, Normalize(v))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "remote: Invalid OTP.", Remote(400, "Invalid OTP.").Error())
	assert.Equal(t, "transport: eof", Transport(errors.New("eof")).Error())
	assert.Equal(t, "auth", (&Error{Kind: KindAuth}).Error())
}
