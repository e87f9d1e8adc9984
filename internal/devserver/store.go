package devserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"alto-client/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errEmailTaken         = errors.New("email already registered")
	errInvalidCredentials = errors.New("invalid credentials")
	errNotVerified        = errors.New("email not verified")
	errInvalidCode        = errors.New("invalid or expired code")
	errUnknownUser        = errors.New("unknown user")
	errInvalidRefresh     = errors.New("invalid refresh token")
)

// codeTTL is how long a verification or reset code stays valid
const codeTTL = 15 * time.Minute

type codePurpose string

const (
	purposeVerify codePurpose = "verify"
	purposeReset  codePurpose = "reset"
)

type account struct {
	user         domain.User
	passwordHash []byte
	verified     bool
}

type issuedCode struct {
	code    string
	expires time.Time
}

type refreshSession struct {
	email   string
	expires time.Time
}

// store struct - in-memory accounts, one-time codes and refresh sessions
type store struct {
	mu       sync.Mutex
	now      func() time.Time
	accounts map[string]*account
	codes    map[string]issuedCode
	refresh  map[string]refreshSession
}

func newStore(now func() time.Time) *store {
	return &store{
		now:      now,
		accounts: make(map[string]*account),
		codes:    make(map[string]issuedCode),
		refresh:  make(map[string]refreshSession),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func codeKey(purpose codePurpose, email string) string {
	return string(purpose) + ":" + email
}

func (s *store) createAccount(email, name, password string, verified bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	email = normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[email]; exists {
		return errEmailTaken
	}
	s.accounts[email] = &account{
		user:         domain.User{Email: email, Name: name},
		passwordHash: hash,
		verified:     verified,
	}
	return nil
}

func (s *store) authenticate(email, password string) (domain.User, error) {
	email = normalizeEmail(email)
	s.mu.Lock()
	acc, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok {
		return domain.User{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return domain.User{}, errInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !acc.verified {
		return domain.User{}, errNotVerified
	}
	return acc.user, nil
}

func (s *store) user(email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return domain.User{}, errUnknownUser
	}
	return acc.user, nil
}

func (s *store) hasAccount(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[normalizeEmail(email)]
	return ok
}

func (s *store) updateProfile(email, college, major string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return domain.User{}, errUnknownUser
	}
	acc.user.College = college
	acc.user.Major = major
	return acc.user, nil
}

// issueCode replaces any outstanding code for (purpose, email)
func (s *store) issueCode(purpose codePurpose, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[codeKey(purpose, normalizeEmail(email))] = issuedCode{code: code, expires: s.now().Add(codeTTL)}
	return code, nil
}

// consumeCode checks and burns a code
func (s *store) consumeCode(purpose codePurpose, email, code string) error {
	key := codeKey(purpose, normalizeEmail(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.codes[key]
	if !ok || issued.code != code || s.now().After(issued.expires) {
		return errInvalidCode
	}
	delete(s.codes, key)
	return nil
}

func (s *store) lastCode(purpose codePurpose, email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[codeKey(purpose, normalizeEmail(email))].code
}

func (s *store) markVerified(email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return domain.User{}, errUnknownUser
	}
	acc.verified = true
	return acc.user, nil
}

func (s *store) setPassword(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return errUnknownUser
	}
	acc.passwordHash = hash
	return nil
}

func (s *store) openRefreshSession(email string, ttl time.Duration) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[token] = refreshSession{email: normalizeEmail(email), expires: s.now().Add(ttl)}
	return token
}

func (s *store) refreshSessionEmail(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.refresh[token]
	if !ok {
		return "", errInvalidRefresh
	}
	if s.now().After(session.expires) {
		delete(s.refresh, token)
		return "", errInvalidRefresh
	}
	return session.email, nil
}

func (s *store) closeRefreshSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, token)
}
