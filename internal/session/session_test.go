package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":    RoleAdmin,
		"manager":  RoleManager,
		" Talent ": RoleTalent,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("recruiter")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestSession_Authenticated(t *testing.T) {
	var nilSess *Session
	assert.False(t, nilSess.Authenticated())
	assert.False(t, (&Session{Token: "t", Username: "a@b.c"}).Authenticated())
	assert.False(t, (&Session{Token: "t", Role: RoleAdmin}).Authenticated())
	assert.False(t, (&Session{Username: "a@b.c", Role: RoleAdmin}).Authenticated())
	assert.True(t, (&Session{Token: "t", Username: "a@b.c", Role: RoleAdmin}).Authenticated())
}

func TestGuard_NoTokenAlwaysRedirectsToLogin(t *testing.T) {
	g := NewGuard("", "")
	roleSets := [][]Role{nil, {}, {RoleAdmin}, {RoleTalent, RoleManager}}
	for _, allowed := range roleSets {
		assert.Equal(t, RedirectLogin, g.Decide(nil, allowed))
		assert.Equal(t, RedirectLogin, g.Decide(&Session{Role: RoleAdmin, Username: "x"}, allowed))
	}
	assert.Equal(t, "/login", g.Target(RedirectLogin))
}

func TestGuard_RoleOutsideSetRedirectsToFallback(t *testing.T) {
	g := NewGuard("/login", "/")
	for _, allowed := range [][]Role{{RoleAdmin}, {RoleManager}, {RoleTalent}, {RoleAdmin, RoleManager}} {
		for _, role := range append(Roles, Role("GUEST")) {
			sess := &Session{Token: "tok", Username: "u@example.com", Role: role}
			d := g.Decide(sess, allowed)
			if sess.HasRole(allowed...) {
				assert.Equal(t, Allow, d, "role %s in %v", role, allowed)
				continue
			}
			assert.Equal(t, RedirectUnauthorized, d, "role %s not in %v", role, allowed)
			assert.Equal(t, "/", g.Target(d))
		}
	}
}

func TestGuard_EmptyRolesMeansAuthenticatedOnly(t *testing.T) {
	g := NewGuard("/login", "/denied")
	sess := &Session{Token: "tok", Username: "u@example.com", Role: RoleTalent}
	assert.Equal(t, Allow, g.Decide(sess, nil))
	assert.Equal(t, "", g.Target(Allow))
	assert.Equal(t, "/denied", g.Target(RedirectUnauthorized))
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRevoker()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	revoked, err := r.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.Revoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = r.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.yaml"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	want := Session{Token: "abc.def.ghi", Username: "talent@example.com", Role: RoleTalent}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.True(t, got.Authenticated())

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}
