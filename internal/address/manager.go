package address

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"slices"
	"strings"

	"tmpmail/pkg/models"
)

// ErrBlacklistedUsername is returned for reserved local parts the
// provider hands out to no one.
var ErrBlacklistedUsername = errors.New("blacklisted username")

// ErrInvalidAddress is returned for malformed custom addresses and
// domains the provider does not offer.
var ErrInvalidAddress = errors.New("invalid email address")

const (
	usernameLength  = 11
	usernameCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9]+$`)

// Local parts reserved by the provider.
var blacklist = map[string]struct{}{
	"abuse":      {},
	"webmaster":  {},
	"contact":    {},
	"postmaster": {},
	"hostmaster": {},
	"admin":      {},
}

// DomainSource supplies the provider's current domain set. The set is
// time-varying and must be fetched, never hard-coded.
type DomainSource interface {
	Domains(ctx context.Context) ([]string, error)
}

// Store persists the active identity.
type Store interface {
	Address() (models.EmailAddress, bool, error)
	SaveAddress(models.EmailAddress) error
}

// Manager owns the single active email identity: it generates,
// validates and persists it.
type Manager struct {
	domains DomainSource
	store   Store
	logger  *slog.Logger
}

// NewManager creates a new address manager
func NewManager(domains DomainSource, store Store, logger *slog.Logger) *Manager {
	return &Manager{
		domains: domains,
		store:   store,
		logger:  logger.With("component", "address"),
	}
}

// Ensure returns the persisted identity, generating and persisting a
// random one on first use. Repeated calls return the same address.
func (m *Manager) Ensure(ctx context.Context) (models.EmailAddress, error) {
	addr, ok, err := m.store.Address()
	if err != nil {
		return models.EmailAddress{}, fmt.Errorf("failed to read cached address: %w", err)
	}
	if ok {
		return addr, nil
	}
	return m.Generate(ctx, "")
}

// Generate creates a new identity and unconditionally overwrites the
// persisted one. With custom == "" the username is 11 random
// lowercase alphanumerics and the domain a uniform choice from the
// fetched set; otherwise custom is validated as username@domain.
func (m *Manager) Generate(ctx context.Context, custom string) (models.EmailAddress, error) {
	domains, err := m.domains.Domains(ctx)
	if err != nil {
		return models.EmailAddress{}, err
	}

	var addr models.EmailAddress
	if custom == "" {
		username, err := randomUsername(usernameLength)
		if err != nil {
			return models.EmailAddress{}, fmt.Errorf("failed to generate username: %w", err)
		}
		domain, err := randomChoice(domains)
		if err != nil {
			return models.EmailAddress{}, fmt.Errorf("failed to pick domain: %w", err)
		}
		addr = models.EmailAddress{Username: username, Domain: domain}
	} else {
		addr, err = parseCustom(custom, domains)
		if err != nil {
			return models.EmailAddress{}, err
		}
	}

	if err := m.store.SaveAddress(addr); err != nil {
		return models.EmailAddress{}, fmt.Errorf("failed to persist address: %w", err)
	}

	m.logger.Info("generated address", "address", addr.String())
	return addr, nil
}

// parseCustom validates a user-supplied address against the blacklist
// and the currently fetched domain set.
func parseCustom(custom string, domains []string) (models.EmailAddress, error) {
	custom = strings.ToLower(strings.TrimSpace(custom))

	username, domain, ok := strings.Cut(custom, "@")
	if !ok || username == "" || domain == "" {
		return models.EmailAddress{}, fmt.Errorf("%w: %q is not of the form username@domain", ErrInvalidAddress, custom)
	}
	if _, reserved := blacklist[username]; reserved {
		return models.EmailAddress{}, fmt.Errorf("%w: %q is reserved", ErrBlacklistedUsername, username)
	}
	if !usernameRegex.MatchString(username) {
		return models.EmailAddress{}, fmt.Errorf("%w: username may only contain lowercase letters and digits", ErrInvalidAddress)
	}
	if !slices.Contains(domains, domain) {
		return models.EmailAddress{}, fmt.Errorf("%w: domain %q is not offered by the provider", ErrInvalidAddress, domain)
	}

	return models.EmailAddress{Username: username, Domain: domain}, nil
}

// randomUsername draws one uniform character per position; rand.Int
// avoids modulo bias.
func randomUsername(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(usernameCharset))))
		if err != nil {
			return "", err
		}
		b[i] = usernameCharset[n.Int64()]
	}
	return string(b), nil
}

// randomChoice picks one element uniformly.
func randomChoice(items []string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(items))))
	if err != nil {
		return "", err
	}
	return items[n.Int64()], nil
}
