package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupForm(name string) SignupForm {
	return SignupForm{Username: name, Password: "correct-horse", Password2: "correct-horse"}
}

func TestAuth_SignupLoginParse(t *testing.T) {
	f := newFixture(t, 10)
	auth := NewAuthService(f.users, "secret", time.Hour)
	ctx := context.Background()

	u, err := auth.Signup(ctx, signupForm("leo"))
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", u.Password)

	got, token, err := auth.Login(ctx, LoginForm{Username: "leo", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, "leo", claims.Username)
}

func TestAuth_SignupErrors(t *testing.T) {
	f := newFixture(t, 10)
	auth := NewAuthService(f.users, "secret", time.Hour)
	ctx := context.Background()

	_, err := auth.Signup(ctx, signupForm("leo"))
	require.NoError(t, err)
	_, err = auth.Signup(ctx, signupForm("leo"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	var fe *FormError
	_, err = auth.Signup(ctx, signupForm("no spaces"))
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "username")

	form := signupForm("mismatch")
	form.Password2 = "something-else"
	_, err = auth.Signup(ctx, form)
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "password2")

	form = signupForm("longpass")
	form.Password = strings.Repeat("p", 100)
	form.Password2 = form.Password
	_, err = auth.Signup(ctx, form)
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "password1")

	// 40 runes, 80 bytes
	form = signupForm("multibyte")
	form.Password = strings.Repeat("é", 40)
	form.Password2 = form.Password
	_, err = auth.Signup(ctx, form)
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "password1")

	form = signupForm("exact")
	form.Password = strings.Repeat("p", 72)
	form.Password2 = form.Password
	_, err = auth.Signup(ctx, form)
	assert.NoError(t, err)
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t, 10)
	auth := NewAuthService(f.users, "secret", time.Hour)
	ctx := context.Background()
	_, err := auth.Signup(ctx, signupForm("leo"))
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, LoginForm{Username: "leo", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, LoginForm{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_ParseTokenRejectsTamperedAndExpired(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	auth := NewAuthService(f.users, "secret", time.Minute).(*authService)
	u, err := auth.Signup(ctx, signupForm("leo"))
	require.NoError(t, err)

	token, err := auth.IssueToken(u)
	require.NoError(t, err)

	other := NewAuthService(f.users, "other-secret", time.Minute)
	_, err = other.ParseToken(token)
	assert.Error(t, err)

	auth.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}

func TestFormError_Message(t *testing.T) {
	err := &FormError{Fields: map[string]string{"text": "required", "group": "bad"}}
	assert.Equal(t, "invalid form: group: bad; text: required", err.Error())
}

func TestAuth_AuthenticateRequiresLiveUser(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	auth := NewAuthService(f.users, "secret", time.Hour)
	u, err := auth.Signup(ctx, signupForm("leo"))
	require.NoError(t, err)
	token, err := auth.IssueToken(u)
	require.NoError(t, err)

	got, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = auth.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	require.NoError(t, f.users.Delete(ctx, u.ID))
	_, err = auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
