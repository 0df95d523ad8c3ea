package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wolfman30/contact-crm/internal/observability/metrics"
	"github.com/wolfman30/contact-crm/pkg/logging"
)

// Session is the result of a successful login.
type Session struct {
	Email string
	User  string
	Token string
}

// Service checks logins against the shared credentials record.
type Service struct {
	store   CredentialsStore
	tokens  *TokenIssuer
	metrics *metrics.ContactMetrics
	logger  *logging.Logger
}

func NewService(store CredentialsStore, tokens *TokenIssuer, m *metrics.ContactMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, tokens: tokens, metrics: m, logger: logger}
}

// Login authenticates email against the allowed list and shared password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	sess, err := s.login(ctx, email, password)
	s.metrics.ObserveLogin(loginOutcome(err))
	return sess, err
}

func (s *Service) login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	rec, err := s.store.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	if !allowed(rec.AllowedEmails, email) || subtle.ConstantTimeCompare([]byte(password), []byte(rec.Password)) != 1 {
		s.logger.Info("login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(email)
	if err != nil {
		return nil, err
	}
	return &Session{Email: email, User: DisplayName(email), Token: token}, nil
}

func allowed(list []string, email string) bool {
	for _, e := range list {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}

// DisplayName turns "john.doe@x.com" into "John Doe".
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.ReplaceAll(local, ".", " ")
	return cases.Title(language.Und).String(local)
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingCredentials):
		return "missing"
	case errors.Is(err, ErrInvalidCredentials):
		return "rejected"
	default:
		return "error"
	}
}
