// Package session manages the client-side auth state: the token, the
// current user and the renewal timestamp, persisted in the key-value
// storage so a restart keeps the session alive.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/hvigueras/edificio-admin/internal/client/kvstore"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// Storage keys. Fixed names, shared with nothing else.
const (
	claveToken   = "token"
	claveUsuario = "usuario"
	claveTS      = "token_ts"
)

// renewDebounce is the minimum interval between renewal round-trips. A
// renewal inside the window returns the persisted user without a call.
const renewDebounce = 60 * time.Second

// ErrNoSession indicates an operation that needs a session was called
// without one.
var ErrNoSession = errors.New("no hay sesion activa")

// Directive is the outcome of the page-load auth check.
type Directive int

const (
	// Stay means the current page may proceed.
	Stay Directive = iota
	// RedirectLogin means there is no usable session.
	RedirectLogin
	// RedirectHome means the session is valid but the user's role does
	// not match the page; send them to their role's landing page.
	RedirectHome
)

// Config holds session store configuration.
type Config struct {
	BaseURL    string
	KV         kvstore.Store
	HTTPClient *http.Client
	Now        func() time.Time
}

// Store holds the session and talks to the auth endpoints directly; the
// gateway obtains its token from here, never the other way around.
type Store struct {
	mu         sync.Mutex
	baseURL    string
	kv         kvstore.Store
	httpClient *http.Client
	now        func() time.Time
	checked    bool
}

// New creates a session store.
func New(cfg Config) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.KV == nil {
		return nil, fmt.Errorf("KV is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		kv:         cfg.KV,
		httpClient: httpClient,
		now:        now,
	}, nil
}

// Login posts credentials and, on success, persists token, user and a
// fresh renewal timestamp. The returned error carries the server message.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.Usuario, error) {
	body, err := json.Marshal(domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}

	payload, status, err := s.post(ctx, "/auth/login", body, "")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, errors.New(mensajeDeError(payload, "error al iniciar sesion"))
	}

	var resp domain.AuthResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("parse login response: %w", err)
	}
	if resp.Token == "" || resp.Usuario == nil {
		return nil, errors.New("respuesta de login incompleta")
	}

	if err := s.persistir(resp.Token, resp.Usuario); err != nil {
		return nil, err
	}
	log.Info().Str("email", email).Str("rol", resp.Usuario.Rol).Msg("Sesion iniciada")
	return resp.Usuario, nil
}

// Logout clears the persisted session. Idempotent; no server round-trip.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.kv.Delete(claveToken)
	_ = s.kv.Delete(claveUsuario)
	_ = s.kv.Delete(claveTS)
}

// RenewToken refreshes the session token. Without a token it fails
// immediately; inside the debounce window it returns the persisted user
// with no network call; a failed renewal logs the session out and returns
// the error.
func (s *Store) RenewToken(ctx context.Context) (*domain.Usuario, error) {
	token, ok := s.Token()
	if !ok {
		return nil, ErrNoSession
	}

	if u := s.usuarioSiReciente(); u != nil {
		return u, nil
	}

	payload, status, err := s.get(ctx, "/auth/renovar", token)
	if err != nil {
		s.Logout()
		return nil, err
	}
	if status < 200 || status > 299 {
		s.Logout()
		return nil, errors.New(mensajeDeError(payload, "no se pudo renovar la sesion"))
	}

	var resp domain.AuthResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		s.Logout()
		return nil, fmt.Errorf("parse renewal response: %w", err)
	}
	if resp.Token == "" || resp.Usuario == nil {
		s.Logout()
		return nil, errors.New("respuesta de renovacion incompleta")
	}

	if err := s.persistir(resp.Token, resp.Usuario); err != nil {
		return nil, err
	}
	return resp.Usuario, nil
}

// IsLoggedIn reports whether a token is present.
func (s *Store) IsLoggedIn() bool {
	_, ok := s.Token()
	return ok
}

// Token returns the persisted token. Implements the gateway's TokenSource.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.kv.Get(claveToken)
	return t, ok && t != ""
}

// CurrentUser returns the persisted user, or nil when absent.
func (s *Store) CurrentUser() *domain.Usuario {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usuarioPersistido()
}

// CheckAuth runs the page-load auth check: exactly one renewal and role
// check per store lifetime. Later calls always return Stay, which prevents
// redirect loops.
func (s *Store) CheckAuth(ctx context.Context, requiereAdmin bool) Directive {
	s.mu.Lock()
	if s.checked {
		s.mu.Unlock()
		return Stay
	}
	s.checked = true
	s.mu.Unlock()

	if !s.IsLoggedIn() {
		return RedirectLogin
	}
	u, err := s.RenewToken(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Renovacion fallida durante checkAuth")
		return RedirectLogin
	}
	if requiereAdmin && !u.EsPrivilegiado() {
		return RedirectHome
	}
	return Stay
}

// persistir writes the three session fields under their fixed keys.
func (s *Store) persistir(token string, u *domain.Usuario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal usuario: %w", err)
	}
	if err := s.kv.Set(claveToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.kv.Set(claveUsuario, string(data)); err != nil {
		return fmt.Errorf("persist usuario: %w", err)
	}
	if err := s.kv.Set(claveTS, strconv.FormatInt(s.now().Unix(), 10)); err != nil {
		return fmt.Errorf("persist timestamp: %w", err)
	}
	return nil
}

// usuarioSiReciente returns the persisted user when the last renewal is
// still inside the debounce window, else nil.
func (s *Store) usuarioSiReciente() *domain.Usuario {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.kv.Get(claveTS)
	if !ok {
		return nil
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	if s.now().Sub(time.Unix(ts, 0)) >= renewDebounce {
		return nil
	}
	return s.usuarioPersistido()
}

// usuarioPersistido decodes the stored user. Callers must hold s.mu.
func (s *Store) usuarioPersistido() *domain.Usuario {
	raw, ok := s.kv.Get(claveUsuario)
	if !ok {
		return nil
	}
	var u domain.Usuario
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

func (s *Store) post(ctx context.Context, path string, body []byte, token string) ([]byte, int, error) {
	return s.roundTrip(ctx, http.MethodPost, path, body, token)
}

func (s *Store) get(ctx context.Context, path, token string) ([]byte, int, error) {
	return s.roundTrip(ctx, http.MethodGet, path, nil, token)
}

func (s *Store) roundTrip(ctx context.Context, method, path string, body []byte, token string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-token", token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response %s %s: %w", method, path, err)
	}
	return payload, resp.StatusCode, nil
}

func mensajeDeError(payload []byte, fallback string) string {
	for _, campo := range []string{"msg", "message", "error"} {
		if v := gjson.GetBytes(payload, campo); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return fallback
}
