package address

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmpmail/pkg/models"
)

type fakeDomains struct {
	domains []string
	err     error
	calls   int
}

func (f *fakeDomains) Domains(ctx context.Context) ([]string, error) {
	f.calls++
	return f.domains, f.err
}

type fakeStore struct {
	addr  models.EmailAddress
	saved int
	has   bool
}

func (f *fakeStore) Address() (models.EmailAddress, bool, error) {
	return f.addr, f.has, nil
}

func (f *fakeStore) SaveAddress(addr models.EmailAddress) error {
	f.addr = addr
	f.has = true
	f.saved++
	return nil
}

func newTestManager(domains ...string) (*Manager, *fakeStore) {
	store := &fakeStore{}
	m := NewManager(&fakeDomains{domains: domains}, store, slog.Default())
	return m, store
}

func TestGenerateRandom(t *testing.T) {
	m, store := newTestManager("example.com", "other.net")

	addr, err := m.Generate(context.Background(), "")
	require.NoError(t, err)

	t.Run("username is 11 lowercase alphanumerics", func(t *testing.T) {
		assert.Len(t, addr.Username, 11)
		assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]+$`), addr.Username)
	})

	t.Run("domain comes from the fetched set", func(t *testing.T) {
		assert.Contains(t, []string{"example.com", "other.net"}, addr.Domain)
	})

	t.Run("address is persisted", func(t *testing.T) {
		assert.Equal(t, 1, store.saved)
		assert.Equal(t, addr, store.addr)
	})
}

func TestGenerateCustom(t *testing.T) {
	t.Run("valid custom address is persisted", func(t *testing.T) {
		m, store := newTestManager("example.com")

		addr, err := m.Generate(context.Background(), "myname123@example.com")
		require.NoError(t, err)
		assert.Equal(t, models.EmailAddress{Username: "myname123", Domain: "example.com"}, addr)
		assert.Equal(t, 1, store.saved)
	})

	t.Run("input is case-folded", func(t *testing.T) {
		m, _ := newTestManager("example.com")

		addr, err := m.Generate(context.Background(), "MyName123@EXAMPLE.com")
		require.NoError(t, err)
		assert.Equal(t, "myname123", addr.Username)
		assert.Equal(t, "example.com", addr.Domain)
	})

	t.Run("blacklisted username fails and persists nothing", func(t *testing.T) {
		for _, reserved := range []string{"abuse", "webmaster", "contact", "postmaster", "hostmaster", "admin"} {
			m, store := newTestManager("example.com")

			_, err := m.Generate(context.Background(), reserved+"@example.com")
			assert.ErrorIs(t, err, ErrBlacklistedUsername, reserved)
			assert.Zero(t, store.saved)
		}
	})

	t.Run("unknown domain fails with a distinct error", func(t *testing.T) {
		m, store := newTestManager("example.com")

		_, err := m.Generate(context.Background(), "myname@elsewhere.org")
		assert.ErrorIs(t, err, ErrInvalidAddress)
		assert.NotErrorIs(t, err, ErrBlacklistedUsername)
		assert.Zero(t, store.saved)
	})

	t.Run("malformed local part fails", func(t *testing.T) {
		m, _ := newTestManager("example.com")

		for _, bad := range []string{"has space@example.com", "dot.ted@example.com", "@example.com", "nodomain@", "noatsign"} {
			_, err := m.Generate(context.Background(), bad)
			assert.ErrorIs(t, err, ErrInvalidAddress, bad)
		}
	})

	t.Run("generate overwrites an existing identity", func(t *testing.T) {
		m, store := newTestManager("example.com")

		first, err := m.Generate(context.Background(), "first1@example.com")
		require.NoError(t, err)
		second, err := m.Generate(context.Background(), "second2@example.com")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Equal(t, second, store.addr)
	})

	t.Run("domain fetch failure propagates", func(t *testing.T) {
		store := &fakeStore{}
		m := NewManager(&fakeDomains{err: errors.New("provider down")}, store, slog.Default())

		_, err := m.Generate(context.Background(), "")
		assert.Error(t, err)
		assert.Zero(t, store.saved)
	})
}

func TestEnsure(t *testing.T) {
	t.Run("generates and persists on first use", func(t *testing.T) {
		m, store := newTestManager("example.com")

		addr, err := m.Ensure(context.Background())
		require.NoError(t, err)
		assert.False(t, addr.IsZero())
		assert.Equal(t, 1, store.saved)
	})

	t.Run("idempotent across repeated calls", func(t *testing.T) {
		domains := &fakeDomains{domains: []string{"example.com"}}
		store := &fakeStore{}
		m := NewManager(domains, store, slog.Default())

		first, err := m.Ensure(context.Background())
		require.NoError(t, err)
		second, err := m.Ensure(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, store.saved)
		// The second call never even hits the provider
		assert.Equal(t, 1, domains.calls)
	})

	t.Run("returns the cached identity unchanged", func(t *testing.T) {
		cached := models.EmailAddress{Username: "kept1", Domain: "example.com"}
		store := &fakeStore{addr: cached, has: true}
		m := NewManager(&fakeDomains{domains: []string{"example.com"}}, store, slog.Default())

		addr, err := m.Ensure(context.Background())
		require.NoError(t, err)
		assert.Equal(t, cached, addr)
		assert.Zero(t, store.saved)
	})
}
