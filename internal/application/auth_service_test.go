package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoslab/pedidos-api/pkg/helpers"
	"github.com/pedidoslab/pedidos-api/pkg/mailer"
	"github.com/pedidoslab/pedidos-api/pkg/token"
)

func newAuthFixture(pub *fakePublisher) (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	codec := token.NewCodec("test-secret", 30*time.Minute)
	// keep the interface untyped-nil when no publisher is wanted
	var p Publisher
	if pub != nil {
		p = pub
	}
	svc := NewAuthService(users, codec, time.Hour, "http://localhost:8080/reset-password", p, true, nil)
	return svc, users
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, "u@test.com", "pw123")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "pw123", u.PasswordHash)

	logged, tok, exp, err := svc.Login(ctx, "u@test.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, tok)
	assert.True(t, exp.After(time.Now()))
}

func TestRegisterDuplicateEmailPerformsNoWrite(t *testing.T) {
	t.Parallel()
	svc, users := newAuthFixture(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "u@test.com", "pw123")
	require.NoError(t, err)
	before := users.count()

	_, err = svc.Register(ctx, "u@test.com", "otherpw")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, before, users.count())
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "u@test.com", "pw123")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "u@test.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login(ctx, "nobody@test.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveSession(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, "u@test.com", "pw123")
	require.NoError(t, err)
	_, tok, _, err := svc.Login(ctx, "u@test.com", "pw123")
	require.NoError(t, err)

	resolved, err := svc.ResolveSession(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)
	assert.Equal(t, "u@test.com", resolved.Email)
}

func TestResolveSessionFailsClosed(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(nil)
	ctx := context.Background()

	// Absent credential
	_, err := svc.ResolveSession(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Garbage credential
	_, err = svc.ResolveSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Valid token whose email resolves to no user
	tok, _, err := svc.Tokens.IssueSession("ghost@test.com")
	require.NoError(t, err)
	_, err = svc.ResolveSession(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()
	pub := &fakePublisher{}
	svc, _ := newAuthFixture(pub)
	ctx := context.Background()

	_, err := svc.Register(ctx, "u@test.com", "pw123")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "u@test.com"))
	jobs := pub.published()
	require.Len(t, jobs, 1)
	job, ok := jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "u@test.com", job.To)

	// Extract the token from the emailed link (token is the last path segment).
	idx := strings.LastIndex(job.Text, "/")
	require.Greater(t, idx, 0)
	tok := job.Text[idx+1:]

	email, err := svc.VerifyResetToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u@test.com", email)

	require.NoError(t, svc.ResetPassword(ctx, tok, "newpw456"))

	// Old password no longer verifies, new one does.
	_, _, _, err = svc.Login(ctx, "u@test.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(ctx, "u@test.com", "newpw456")
	assert.NoError(t, err)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	t.Parallel()
	pub := &fakePublisher{}
	svc, _ := newAuthFixture(pub)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@test.com"))
	assert.Empty(t, pub.published())
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "u@test.com", "pw123")
	require.NoError(t, err)
	_, tok, _, err := svc.Login(ctx, "u@test.com", "pw123")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, tok, "newpw456")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	svc, users := newAuthFixture(nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, "u@test.com", "pw123")
	require.NoError(t, err)

	// Email change only; password stays intact.
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Email: "new@test.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@test.com", updated.Email)
	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(stored.PasswordHash, "pw123"))

	// Password change re-hashes.
	_, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Password: "newpw456"})
	require.NoError(t, err)
	stored, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(stored.PasswordHash, "newpw456"))
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@test.com", "pw123")
	require.NoError(t, err)
	b, err := svc.Register(ctx, "b@test.com", "pw123")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, b.ID, UpdateProfileInput{Email: "a@test.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}
