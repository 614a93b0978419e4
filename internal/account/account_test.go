package account

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *FileStore, *testClock) {
	t.Helper()
	clk := &testClock{t: time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC)}
	store := NewFileStore(filepath.Join(t.TempDir(), DefaultUsersFile))
	return NewService(store, WithClock(clk.Now), WithBcryptCost(bcrypt.MinCost)), store, clk
}

func signup(t *testing.T, s *Service) User {
	t.Helper()
	u, err := s.Signup(SignupRequest{Email: " Farmer@Example.com ", Username: "farmer", Age: 30, Password: "s3cret", Confirm: "s3cret"})
	require.NoError(t, err)
	return u
}

func TestStreakRules(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 10, d, 18, 0, 0, 0, time.UTC) }
	tests := []struct {
		name   string
		last   string
		streak int
		want   int
	}{
		{name: "first login", last: "", streak: 0, want: 1},
		{name: "same day", last: "2025-10-05", streak: 4, want: 4},
		{name: "next day", last: "2025-10-04", streak: 4, want: 5},
		{name: "gap", last: "2025-10-01", streak: 4, want: 0},
		{name: "garbled date", last: "yesterday", streak: 4, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Streak: tc.streak}
			if tc.last != "" {
				last := tc.last
				u.LastLogin = &last
			}
			UpdateStreak(u, day(5))
			assert.Equal(t, tc.want, u.Streak)
			require.NotNil(t, u.LastLogin)
			assert.Equal(t, "2025-10-05", *u.LastLogin)
		})
	}
}

func TestSignupAndLogin(t *testing.T) {
	s, store, clk := newTestService(t)
	u := signup(t, s)
	assert.Equal(t, "farmer@example.com", u.Email)
	assert.Equal(t, "2025-10-05", u.Created)
	assert.Zero(t, u.Streak)
	assert.Nil(t, u.LastLogin)

	_, err := s.Signup(SignupRequest{Email: "farmer@example.com", Username: "x", Age: 20, Password: "p", Confirm: "p"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	u, err = s.Login(LoginRequest{Email: "FARMER@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, 1, u.Streak)

	clk.t = clk.t.Add(24 * time.Hour)
	u, err = s.Login(LoginRequest{Email: "farmer@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, 2, u.Streak)

	_, err = s.Login(LoginRequest{Email: "farmer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(LoginRequest{Email: "nobody@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "s3cret")
	assert.Contains(t, string(data), `"last_login": "2025-10-06"`)
}

func TestSignupValidation(t *testing.T) {
	s, _, _ := newTestService(t)
	cases := []SignupRequest{
		{Email: "not-an-email", Username: "a", Age: 20, Password: "p", Confirm: "p"},
		{Email: "a@b.co", Username: "", Age: 20, Password: "p", Confirm: "p"},
		{Email: "a@b.co", Username: "a", Age: 4, Password: "p", Confirm: "p"},
		{Email: "a@b.co", Username: "a", Age: 101, Password: "p", Confirm: "p"},
		{Email: "a@b.co", Username: "a", Age: 20, Password: "p", Confirm: "q"},
	}
	for _, req := range cases {
		_, err := s.Signup(req)
		assert.ErrorIs(t, err, ErrInvalid, "%+v", req)
	}
}

func TestLegacyPasswordIsUpgraded(t *testing.T) {
	s, store, _ := newTestService(t)
	sum := sha256.Sum256([]byte("old-pass"))
	require.NoError(t, store.Update(func(users map[string]*User) error {
		users["old@example.com"] = &User{Username: "old", Age: 40, PasswordHash: hex.EncodeToString(sum[:])}
		return nil
	}))

	_, err := s.Login(LoginRequest{Email: "old@example.com", Password: "old-pass"})
	require.NoError(t, err)

	u, err := s.Profile("old@example.com")
	require.NoError(t, err)
	assert.True(t, len(u.PasswordHash) > 4 && u.PasswordHash[:2] == "$2")
	assert.Empty(t, u.Projects, "missing projects load as empty")

	_, err = s.Login(LoginRequest{Email: "old@example.com", Password: "old-pass"})
	assert.NoError(t, err)
}

func TestUpdateSettings(t *testing.T) {
	s, _, _ := newTestService(t)
	signup(t, s)

	u, err := s.UpdateSettings("farmer@example.com", SettingsRequest{Username: "grower", Age: 31})
	require.NoError(t, err)
	assert.Equal(t, "grower", u.Username)
	_, err = s.Login(LoginRequest{Email: "farmer@example.com", Password: "s3cret"})
	require.NoError(t, err, "empty password keeps the old one")

	_, err = s.UpdateSettings("farmer@example.com", SettingsRequest{Username: "grower", Age: 31, Password: "n3w"})
	require.NoError(t, err)
	_, err = s.Login(LoginRequest{Email: "farmer@example.com", Password: "n3w"})
	assert.NoError(t, err)

	_, err = s.UpdateSettings("ghost@example.com", SettingsRequest{Username: "x", Age: 20})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectLifecycle(t *testing.T) {
	s, _, clk := newTestService(t)
	signup(t, s)
	email := "farmer@example.com"

	_, err := s.CreateProject(email, ProjectInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalid)

	p, err := s.CreateProject(email, ProjectInput{Name: " North field ", Description: "wheat trial"})
	require.NoError(t, err)
	assert.Equal(t, "North field", p.Name)
	assert.Equal(t, StatusNotStarted, p.Status)
	assert.Equal(t, "2025-10-05", p.Date)
	_, err = s.CreateProject(email, ProjectInput{Name: "South field"})
	require.NoError(t, err)

	clk.t = clk.t.Add(48 * time.Hour)
	status := StatusInProgress
	p, err = s.UpdateProject(email, 0, ProjectUpdate{Status: &status, GameData: map[string]any{"day": 3}})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, p.Status)
	assert.Equal(t, "2025-10-07", p.LastModified)
	assert.Equal(t, "2025-10-05", p.Date)

	bad := Status("Abandoned")
	_, err = s.UpdateProject(email, 0, ProjectUpdate{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.UpdateProject(email, 5, ProjectUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteProject(email, 0))
	projects, err := s.Projects(email)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "South field", projects[0].Name)
	assert.ErrorIs(t, s.DeleteProject(email, -1), ErrNotFound)
}
