package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *Codec {
	return NewCodec("super-secret", 30*time.Minute)
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok, exp, err := c.IssueSession("a@x.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	email, ok := c.VerifySession(tok)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", email)
}

func TestSessionExpired(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok, _, err := c.IssueSessionTTL("a@x.com", -1*time.Second)
	require.NoError(t, err)

	_, ok := c.VerifySession(tok)
	assert.False(t, ok)
}

func TestSessionWrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewCodec("right-secret", time.Hour).IssueSession("a@x.com")
	require.NoError(t, err)

	_, ok := NewCodec("wrong-secret", time.Hour).VerifySession(tok)
	assert.False(t, ok)
}

func TestSessionMalformed(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, ok := c.VerifySession(tok)
		assert.False(t, ok, "token %q should not verify", tok)
	}
}

func TestResetRoundTrip(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok, err := c.IssueReset("a@x.com")
	require.NoError(t, err)

	email, ok := c.VerifyReset(tok, time.Hour)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", email)
}

func TestResetMaxAgeExceeded(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok := c.issueResetAt("a@x.com", time.Now().Add(-2*time.Second))
	_, ok := c.VerifyReset(tok, 1*time.Second)
	assert.False(t, ok)

	// Same token still passes with a wider window.
	email, ok := c.VerifyReset(tok, time.Hour)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", email)
}

func TestResetFutureIssuedAt(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok := c.issueResetAt("a@x.com", time.Now().Add(time.Hour))
	_, ok := c.VerifyReset(tok, time.Hour)
	assert.False(t, ok)
}

func TestResetTampered(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	tok, err := c.IssueReset("a@x.com")
	require.NoError(t, err)

	_, ok := c.VerifyReset(tok+"x", time.Hour)
	assert.False(t, ok)

	_, ok = c.VerifyReset("x"+tok, time.Hour)
	assert.False(t, ok)
}

func TestResetWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewCodec("right-secret", time.Hour).IssueReset("a@x.com")
	require.NoError(t, err)

	_, ok := NewCodec("wrong-secret", time.Hour).VerifyReset(tok, time.Hour)
	assert.False(t, ok)
}

// A reset token must never pass session verification, and vice versa, even
// though both are signed by the same server secret.
func TestCrossContextRejection(t *testing.T) {
	t.Parallel()
	c := newTestCodec()

	reset, err := c.IssueReset("a@x.com")
	require.NoError(t, err)
	_, ok := c.VerifySession(reset)
	assert.False(t, ok, "reset token verified as session token")

	session, _, err := c.IssueSession("a@x.com")
	require.NoError(t, err)
	_, ok = c.VerifyReset(session, time.Hour)
	assert.False(t, ok, "session token verified as reset token")
}
