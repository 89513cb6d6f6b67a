package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
	"github.com/dmitrijs2005/tablekeeper/internal/client/records"
	"github.com/dmitrijs2005/tablekeeper/internal/common"
	"github.com/dmitrijs2005/tablekeeper/internal/logging"
)

// stubInputs replaces the prompt seams with queues of answers.
func stubInputs(t *testing.T, texts []string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeSessions struct {
	autoLogin bool

	signupProfile models.Profile
	signupSecret  []byte
	signupErr     error

	loginEmail  string
	loginSecret []byte
	loginErr    error

	logoutErr error
	deleted   bool
	deleteErr error

	reset    bool
	resetErr error

	current *models.Account
}

func (f *fakeSessions) Signup(_ context.Context, p models.Profile, secret []byte) (models.Account, error) {
	f.signupProfile, f.signupSecret = p, append([]byte(nil), secret...)
	if f.signupErr != nil {
		return models.Account{}, f.signupErr
	}
	acc := models.Account{ID: 1, Name: p.Name, Email: p.Email}
	if f.autoLogin {
		f.current = &acc
	}
	return acc, nil
}

func (f *fakeSessions) Login(_ context.Context, email string, secret []byte) error {
	f.loginEmail, f.loginSecret = email, append([]byte(nil), secret...)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.current = &models.Account{ID: 1, Name: "Alice", Email: email}
	return nil
}

func (f *fakeSessions) Logout(context.Context) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.current = nil
	return nil
}

func (f *fakeSessions) DeleteAccount(context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = true
	f.current = nil
	return nil
}

func (f *fakeSessions) Reset(context.Context) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.reset = true
	f.current = nil
	return nil
}

func (f *fakeSessions) Current() (models.Account, bool) {
	if f.current == nil {
		return models.Account{}, false
	}
	return *f.current, true
}

func newTestApp(t *testing.T, s *fakeSessions, seed []models.Record, pageSize int) (*App, *bytes.Buffer) {
	t.Helper()
	v, err := records.NewRecordView(pageSize, records.WithRecords(seed))
	require.NoError(t, err)
	var out bytes.Buffer
	return &App{sessions: s, view: v, reader: rdr(""), out: &out, log: logging.Nop()}, &out
}

func TestSignup_ManualModeAsksToLogin(t *testing.T) {
	f := &fakeSessions{}
	a, out := newTestApp(t, f, nil, 5)
	stubInputs(t, []string{"Alice", "alice@example.org"}, "secret", "secret")

	require.NoError(t, a.Signup(context.Background()))
	assert.Equal(t, models.Profile{Name: "Alice", Email: "alice@example.org"}, f.signupProfile)
	assert.Equal(t, "secret", string(f.signupSecret))
	assert.Contains(t, out.String(), "Please log in.")
	assert.False(t, a.isLoggedIn())
}

func TestSignup_AutoLoginShowsTable(t *testing.T) {
	f := &fakeSessions{autoLogin: true}
	a, out := newTestApp(t, f, []models.Record{{ID: 1, Name: "John Doe"}}, 5)
	stubInputs(t, []string{"Alice", "alice@example.org"}, "secret", "secret")

	require.NoError(t, a.Signup(context.Background()))
	assert.Contains(t, out.String(), "Logged in as Alice")
	assert.Contains(t, out.String(), "John Doe")
	assert.True(t, a.isLoggedIn())
}

func TestSignup_PasswordMismatch(t *testing.T) {
	f := &fakeSessions{}
	a, _ := newTestApp(t, f, nil, 5)
	stubInputs(t, []string{"Alice", "alice@example.org"}, "secret", "secrex")

	err := a.Signup(context.Background())
	require.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, f.signupProfile.Email, "service must not be called")
}

func TestSignup_RequiredFields(t *testing.T) {
	f := &fakeSessions{}
	a, _ := newTestApp(t, f, nil, 5)
	stubInputs(t, []string{"", "alice@example.org"}, "secret", "secret")

	require.ErrorIs(t, a.Signup(context.Background()), ErrRequiredInput)
}

func TestSignup_ServiceErrorPropagates(t *testing.T) {
	f := &fakeSessions{signupErr: common.ErrDuplicateAccount}
	a, _ := newTestApp(t, f, nil, 5)
	stubInputs(t, []string{"Alice", "a@x.com"}, "pw", "pw")

	require.ErrorIs(t, a.Signup(context.Background()), common.ErrDuplicateAccount)
}

func TestLogin_Success(t *testing.T) {
	f := &fakeSessions{}
	a, out := newTestApp(t, f, nil, 5)
	stubInputs(t, []string{"alice@example.org"}, "secret")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "alice@example.org", f.loginEmail)
	assert.Equal(t, "secret", string(f.loginSecret))
	assert.Contains(t, out.String(), "Welcome, Alice")
	assert.Contains(t, out.String(), "No records")
	assert.Equal(t, "(Alice)", a.getStatus())
}

func TestLogin_Failure(t *testing.T) {
	f := &fakeSessions{loginErr: common.ErrInvalidCredentials}
	a, _ := newTestApp(t, f, nil, 5)
	stubInputs(t, []string{"alice@example.org"}, "wrong")

	require.ErrorIs(t, a.Login(context.Background()), common.ErrInvalidCredentials)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.getStatus())
}

func TestLogin_InputErrorPropagates(t *testing.T) {
	a, _ := newTestApp(t, &fakeSessions{}, nil, 5)
	stubInputs(t, nil)
	require.ErrorIs(t, a.Login(context.Background()), io.EOF)
}

func TestLogout(t *testing.T) {
	f := &fakeSessions{current: &models.Account{Name: "Alice"}}
	a, out := newTestApp(t, f, []models.Record{{ID: 1, Name: "x"}}, 5)
	a.view.BeginEdit(1)

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	_, editing := a.view.Editing()
	assert.False(t, editing, "logout drops the unfinished edit")
	assert.Contains(t, out.String(), "Logged out")
}

func TestLogout_ErrorPropagates(t *testing.T) {
	f := &fakeSessions{logoutErr: errors.New("clean-fail"), current: &models.Account{}}
	a, _ := newTestApp(t, f, nil, 5)
	require.Error(t, a.Logout(context.Background()))
	assert.True(t, a.isLoggedIn())
}

func TestDeleteAccount_RequiresConfirmation(t *testing.T) {
	f := &fakeSessions{current: &models.Account{Email: "a@x.com"}}
	a, out := newTestApp(t, f, nil, 5)

	stubInputs(t, []string{"no"})
	require.NoError(t, a.DeleteAccount(context.Background()))
	assert.False(t, f.deleted)
	assert.Contains(t, out.String(), "Cancelled")

	stubInputs(t, []string{"YES"})
	require.NoError(t, a.DeleteAccount(context.Background()))
	assert.True(t, f.deleted)
	assert.Contains(t, out.String(), "Account deleted")
}

func TestDeleteAccount_NoSessionIsNoop(t *testing.T) {
	f := &fakeSessions{}
	a, _ := newTestApp(t, f, nil, 5)
	require.NoError(t, a.DeleteAccount(context.Background()))
	assert.False(t, f.deleted)
}

func TestReset_RequiresConfirmation(t *testing.T) {
	f := &fakeSessions{}
	a, out := newTestApp(t, f, nil, 5)

	stubInputs(t, []string{"nope"})
	require.NoError(t, a.Reset(context.Background()))
	assert.False(t, f.reset)
	assert.Contains(t, out.String(), "Cancelled")

	stubInputs(t, []string{"yes"})
	require.NoError(t, a.Reset(context.Background()))
	assert.True(t, f.reset)
	assert.Contains(t, out.String(), "All accounts removed")
}

func TestReset_StorageErrorIsReturned(t *testing.T) {
	f := &fakeSessions{resetErr: fmt.Errorf("%w: reset: disk gone", common.ErrStorage)}
	a, _ := newTestApp(t, f, nil, 5)

	stubInputs(t, []string{"yes"})
	require.ErrorIs(t, a.Reset(context.Background()), common.ErrStorage)
	assert.False(t, f.reset)
}

func TestWhoAmI(t *testing.T) {
	f := &fakeSessions{current: &models.Account{Name: "Alice", Email: "a@x.com"}}
	a, out := newTestApp(t, f, nil, 5)
	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, out.String(), "Name:  Alice")
	assert.Contains(t, out.String(), "Email: a@x.com")

	f.current = nil
	require.ErrorIs(t, a.WhoAmI(context.Background()), common.ErrMissingSession)
}
