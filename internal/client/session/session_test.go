package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvigueras/edificio-admin/internal/client/kvstore"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// servidorAuth is a minimal auth backend counting round-trips.
type servidorAuth struct {
	*httptest.Server
	logins        atomic.Int64
	renovaciones  atomic.Int64
	fallarRenovar bool
}

func nuevoServidorAuth(t *testing.T) *servidorAuth {
	t.Helper()
	s := &servidorAuth{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		s.logins.Add(1)
		var req domain.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "admin@x.com" || req.Password != "Admin2025!" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "msg": "Credenciales incorrectas"})
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{
			OK:    true,
			Token: "abc",
			Usuario: &domain.Usuario{ID: 1, Nombre: "Admin", Email: req.Email, Rol: domain.RolAdmin},
		})
	})
	mux.HandleFunc("GET /auth/renovar", func(w http.ResponseWriter, r *http.Request) {
		s.renovaciones.Add(1)
		if s.fallarRenovar || r.Header.Get("x-token") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "msg": "Token invalido o expirado"})
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{
			OK:    true,
			Token: "abc-renovado",
			Usuario: &domain.Usuario{ID: 1, Nombre: "Admin", Email: "admin@x.com", Rol: domain.RolAdmin},
		})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// nuevoStore builds a store against the test server with a manual clock.
func nuevoStore(t *testing.T, srv *servidorAuth) (*Store, *time.Time) {
	t.Helper()
	ahora := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st, err := New(Config{
		BaseURL: srv.URL,
		KV:      kvstore.NewMemory(),
		Now:     func() time.Time { return ahora },
	})
	require.NoError(t, err)
	return st, &ahora
}

func TestLogin_PersistsSession(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, _ := nuevoStore(t, srv)

	u, err := st.Login(context.Background(), "admin@x.com", "Admin2025!")
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Nombre)
	assert.Equal(t, domain.RolAdmin, u.Rol)

	token, ok := st.Token()
	require.True(t, ok)
	assert.Equal(t, "abc", token)
	assert.True(t, st.IsLoggedIn())
	require.NotNil(t, st.CurrentUser())
	assert.Equal(t, "admin@x.com", st.CurrentUser().Email)
}

func TestLogin_BadCredentialsCarriesServerMessage(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, _ := nuevoStore(t, srv)

	_, err := st.Login(context.Background(), "admin@x.com", "mala")
	require.Error(t, err)
	assert.Equal(t, "Credenciales incorrectas", err.Error())
	assert.False(t, st.IsLoggedIn())
}

func TestLogout_IsIdempotent(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, _ := nuevoStore(t, srv)

	_, err := st.Login(context.Background(), "admin@x.com", "Admin2025!")
	require.NoError(t, err)

	st.Logout()
	assert.False(t, st.IsLoggedIn())
	assert.Nil(t, st.CurrentUser())
	assert.NotPanics(t, st.Logout)
}

func TestRenewToken_WithoutTokenFailsWithoutNetworkCall(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, _ := nuevoStore(t, srv)

	_, err := st.RenewToken(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.EqualValues(t, 0, srv.renovaciones.Load())
}

func TestRenewToken_DebounceSkipsRoundTrip(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, ahora := nuevoStore(t, srv)

	_, err := st.Login(context.Background(), "admin@x.com", "Admin2025!")
	require.NoError(t, err)

	// First renewal is outside the window, the second lands right after it.
	*ahora = ahora.Add(61 * time.Second)
	u, err := st.RenewToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Nombre)

	*ahora = ahora.Add(10 * time.Second)
	u, err = st.RenewToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Nombre)

	assert.EqualValues(t, 1, srv.renovaciones.Load(), "second renewal inside the window must not hit the server")
}

func TestRenewToken_RefreshesPersistedToken(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, ahora := nuevoStore(t, srv)

	_, err := st.Login(context.Background(), "admin@x.com", "Admin2025!")
	require.NoError(t, err)

	*ahora = ahora.Add(2 * time.Minute)
	_, err = st.RenewToken(context.Background())
	require.NoError(t, err)

	token, ok := st.Token()
	require.True(t, ok)
	assert.Equal(t, "abc-renovado", token)
}

func TestRenewToken_FailureLogsOut(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, ahora := nuevoStore(t, srv)

	_, err := st.Login(context.Background(), "admin@x.com", "Admin2025!")
	require.NoError(t, err)

	srv.fallarRenovar = true
	*ahora = ahora.Add(2 * time.Minute)

	_, err = st.RenewToken(context.Background())
	require.Error(t, err)
	assert.False(t, st.IsLoggedIn(), "failed renewal must clear the session")
	assert.Nil(t, st.CurrentUser())
}

func TestCheckAuth_NoSessionRedirectsToLogin(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, _ := nuevoStore(t, srv)

	assert.Equal(t, RedirectLogin, st.CheckAuth(context.Background(), false))
}

func TestCheckAuth_ValidAdminStays(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, _ := nuevoStore(t, srv)

	_, err := st.Login(context.Background(), "admin@x.com", "Admin2025!")
	require.NoError(t, err)

	assert.Equal(t, Stay, st.CheckAuth(context.Background(), true))
}

func TestCheckAuth_RunsOnlyOnce(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, _ := nuevoStore(t, srv)

	assert.Equal(t, RedirectLogin, st.CheckAuth(context.Background(), false))
	// Still logged out, but the check is spent: later calls stay put so a
	// page cannot redirect in a loop.
	assert.Equal(t, Stay, st.CheckAuth(context.Background(), false))
}

func TestCheckAuth_NonAdminOnAdminPageGoesHome(t *testing.T) {
	srv := nuevoServidorAuth(t)
	st, _ := nuevoStore(t, srv)

	// Persist a tenant session by hand; the fake server only logs in admins.
	require.NoError(t, st.persistir("tok-inquilino", &domain.Usuario{ID: 2, Nombre: "Vecino", Rol: domain.RolInquilino}))

	assert.Equal(t, RedirectHome, st.CheckAuth(context.Background(), true))
}
