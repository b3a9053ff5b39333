package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/petshop-storefront/internal/application/auth"
	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
	"github.com/jhoicas/petshop-storefront/internal/infrastructure/sessionstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

type authAPIMock struct{ mock.Mock }

func (m *authAPIMock) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginData, error) {
	args := m.Called(ctx, in)
	data, _ := args.Get(0).(*dto.LoginData)
	return data, args.Error(1)
}

func (m *authAPIMock) Register(ctx context.Context, in dto.RegisterRequest) error {
	return m.Called(ctx, in).Error(0)
}

func (m *authAPIMock) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// failingStorage falla al escribir la clave indicada.
type failingStorage struct {
	*sessionstore.Memory
	failKey string
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errors.New("disco lleno")
	}
	return f.Memory.Set(ctx, key, value)
}

type recordingObserver struct {
	logins  []string
	logouts []bool
}

func (r *recordingObserver) LoginFinished(result string) { r.logins = append(r.logins, result) }
func (r *recordingObserver) LoggedOut(forced bool)       { r.logouts = append(r.logouts, forced) }

const testToken = "tok-123"

func adminLoginData() *dto.LoginData {
	return &dto.LoginData{
		Token: testToken, ID: 7, Username: "ana", Email: "ana@petshop.vn",
		FullName: "Ana Trần", Roles: []string{"ROLE_ADMIN"},
	}
}

func newStore(api ports.AuthAPI, storage repository.SessionStorage, opts ...auth.Option) *auth.Store {
	return auth.NewStore(api, storage, zerolog.Nop(), opts...)
}

func persistIdentity(t *testing.T, storage repository.SessionStorage, token string, user *entity.UserIdentity) {
	t.Helper()
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, storage.Set(context.Background(), repository.KeyToken, token))
	require.NoError(t, storage.Set(context.Background(), repository.KeyUser, string(raw)))
}

func assertNoPartialState(t *testing.T, s entity.Session) {
	t.Helper()
	assert.Equal(t, s.Token != "" && s.User != nil, s.IsAuthenticated, "isAuthenticated == (token && user)")
	assert.Equal(t, s.Token == "", s.User == nil, "token y usuario van siempre juntos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Restore
// ──────────────────────────────────────────────────────────────────────────────

func TestNewStore_EmpiezaCargando(t *testing.T) {
	s := newStore(&authAPIMock{}, sessionstore.NewMemory())
	snap := s.Snapshot()
	assert.Equal(t, entity.AuthUninitialized, snap.State)
	assert.True(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
}

func TestRestore_ConSesionPersistida_Autentica(t *testing.T) {
	ctx := context.Background()
	storage := sessionstore.NewMemory()
	user := entity.NewUserIdentity(7, "ana", "ana@petshop.vn", "Ana Trần", []string{"ROLE_ADMIN"})
	persistIdentity(t, storage, testToken, user)

	api := &authAPIMock{}
	s := newStore(api, storage)

	for i := 0; i < 2; i++ { // idempotente
		require.NoError(t, s.Restore(ctx))
		snap := s.Snapshot()
		assert.True(t, snap.IsAuthenticated)
		assert.False(t, snap.IsLoading)
		assert.Equal(t, entity.AuthAuthenticated, snap.State)
		assert.Equal(t, user, snap.User)
		assert.Equal(t, testToken, snap.Token)
	}
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestRestore_SinDatos_Anonimo(t *testing.T) {
	s := newStore(&authAPIMock{}, sessionstore.NewMemory())
	require.NoError(t, s.Restore(context.Background()))

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	assert.Equal(t, entity.AuthAnonymous, snap.State)
}

func TestRestore_DatosCorruptos_LimpiaAlmacenamiento(t *testing.T) {
	cases := map[string]func(storage *sessionstore.Memory){
		"usuario ilegible": func(m *sessionstore.Memory) {
			_ = m.Set(context.Background(), repository.KeyToken, testToken)
			_ = m.Set(context.Background(), repository.KeyUser, "{no-json")
		},
		"token sin usuario": func(m *sessionstore.Memory) {
			_ = m.Set(context.Background(), repository.KeyToken, testToken)
		},
		"usuario sin token": func(m *sessionstore.Memory) {
			_ = m.Set(context.Background(), repository.KeyUser, `{"username":"ana","roles":["ROLE_ADMIN"]}`)
			_ = m.Set(context.Background(), repository.KeyCart, `{"totalItems":1}`)
		},
		"usuario sin roles": func(m *sessionstore.Memory) {
			_ = m.Set(context.Background(), repository.KeyToken, testToken)
			_ = m.Set(context.Background(), repository.KeyUser, `{"username":"ana","roles":[]}`)
		},
	}
	for name, seed := range cases {
		t.Run(name, func(t *testing.T) {
			storage := sessionstore.NewMemory()
			seed(storage)
			s := newStore(&authAPIMock{}, storage)

			require.NoError(t, s.Restore(context.Background()))

			assert.False(t, s.Snapshot().IsAuthenticated)
			assert.Equal(t, 0, storage.Len(), "el almacenamiento corrupto se limpia")
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLoginLogout_IdaYVuelta_AunqueFalleLaAPI(t *testing.T) {
	ctx := context.Background()
	storage := sessionstore.NewMemory()
	api := &authAPIMock{}
	obs := &recordingObserver{}
	creds := dto.LoginRequest{Username: "ana", Password: "secreta"}
	api.On("Login", mock.Anything, creds).Return(adminLoginData(), nil).Once()
	api.On("Logout", mock.MatchedBy(func(ctx context.Context) bool {
		return ports.TokenFrom(ctx) == testToken
	})).Return(fmt.Errorf("%w: timeout", domain.ErrNetwork)).Once()

	s := newStore(api, storage, auth.WithObserver(obs))
	require.NoError(t, s.Restore(ctx))

	user, err := s.Login(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", user.Role)
	assert.True(t, s.Snapshot().IsAuthenticated)
	tok, found, _ := storage.Get(ctx, repository.KeyToken)
	assert.True(t, found)
	assert.Equal(t, testToken, tok)

	require.NoError(t, storage.Set(ctx, repository.KeyCart, `{"totalItems":3}`))

	s.Logout(ctx)

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, entity.AuthAnonymous, snap.State)
	for _, k := range repository.SessionKeys {
		_, found, _ := storage.Get(ctx, k)
		assert.False(t, found, "la clave %q debe borrarse", k)
	}
	assert.Equal(t, []string{auth.LoginOK}, obs.logins)
	assert.Equal(t, []bool{false}, obs.logouts)
	api.AssertExpectations(t)
}

func TestLogin_CredencialesRechazadas(t *testing.T) {
	ctx := context.Background()
	storage := sessionstore.NewMemory()
	api := &authAPIMock{}
	obs := &recordingObserver{}
	api.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	s := newStore(api, storage, auth.WithObserver(obs))
	require.NoError(t, s.Restore(ctx))

	_, err := s.Login(ctx, dto.LoginRequest{Username: "ana", Password: "mala"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	snap := s.Snapshot()
	assert.Equal(t, entity.AuthAnonymous, snap.State)
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), snap.Error)
	assert.Equal(t, 0, storage.Len())
	assert.Equal(t, []string{auth.LoginRejected}, obs.logins)
}

func TestLogin_ErrorDeRed_MensajeGenerico(t *testing.T) {
	api := &authAPIMock{}
	api.On("Login", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: dial tcp: refused", domain.ErrNetwork))

	s := newStore(api, sessionstore.NewMemory())
	_, err := s.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "x"})

	require.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, domain.ErrNetwork.Error(), s.Snapshot().Error)
	assert.Equal(t, entity.AuthAnonymous, s.State())
}

func TestLogin_CamposVacios_NoLlamaALaAPI(t *testing.T) {
	api := &authAPIMock{}
	s := newStore(api, sessionstore.NewMemory())

	_, err := s.Login(context.Background(), dto.LoginRequest{Username: "  ", Password: ""})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.NotEmpty(t, s.Snapshot().Error)
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestLogin_FalloAlPersistir_NoDejaEstadoParcial(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{Memory: sessionstore.NewMemory(), failKey: repository.KeyUser}
	api := &authAPIMock{}
	api.On("Login", mock.Anything, mock.Anything).Return(adminLoginData(), nil)

	s := newStore(api, storage)
	_, err := s.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreta"})
	require.Error(t, err)

	snap := s.Snapshot()
	assertNoPartialState(t, snap)
	assert.False(t, snap.IsAuthenticated)
	_, found, _ := storage.Get(ctx, repository.KeyToken)
	assert.False(t, found, "no queda un token persistido sin usuario")
}

func TestLogin_RespuestaSinToken_EsError(t *testing.T) {
	data := adminLoginData()
	data.Token = ""
	api := &authAPIMock{}
	api.On("Login", mock.Anything, mock.Anything).Return(data, nil)

	s := newStore(api, sessionstore.NewMemory())
	_, err := s.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secreta"})

	require.ErrorIs(t, err, domain.ErrAPI)
	assertNoPartialState(t, s.Snapshot())
}

func TestSinEstadoParcial_SecuenciasAleatorias(t *testing.T) {
	ctx := context.Background()
	storage := sessionstore.NewMemory()
	api := &authAPIMock{}
	api.On("Login", mock.Anything, dto.LoginRequest{Username: "ana", Password: "ok"}).Return(adminLoginData(), nil)
	api.On("Login", mock.Anything, dto.LoginRequest{Username: "ana", Password: "mala"}).Return(nil, domain.ErrInvalidCredentials)
	api.On("Logout", mock.Anything).Return(errors.New("500"))

	s := newStore(api, storage)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		switch rng.Intn(5) {
		case 0:
			_ = s.Restore(ctx)
		case 1:
			_, _ = s.Login(ctx, dto.LoginRequest{Username: "ana", Password: "ok"})
		case 2:
			_, _ = s.Login(ctx, dto.LoginRequest{Username: "ana", Password: "mala"})
		case 3:
			s.Logout(ctx)
		case 4:
			s.HandleUnauthorized(ctx)
		}
		snap := s.Snapshot()
		assertNoPartialState(t, snap)

		tok, hasTok, _ := storage.Get(ctx, repository.KeyToken)
		_, hasUser, _ := storage.Get(ctx, repository.KeyUser)
		assert.Equal(t, hasTok, hasUser, "persistencia sin estado parcial (paso %d)", i)
		if snap.IsAuthenticated {
			assert.Equal(t, snap.Token, tok)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_NoAutentica(t *testing.T) {
	ctx := context.Background()
	api := &authAPIMock{}
	in := dto.RegisterRequest{Username: "binh", Email: "binh@petshop.vn", Password: "123456", ConfirmPassword: "123456", FullName: "Bình"}
	api.On("Register", mock.Anything, mock.MatchedBy(func(r dto.RegisterRequest) bool {
		return r.Username == "binh" && r.ConfirmPassword == ""
	})).Return(nil)

	s := newStore(api, sessionstore.NewMemory())
	require.NoError(t, s.Restore(ctx))
	require.NoError(t, s.Register(ctx, in))

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, entity.AuthAnonymous, snap.State, "vuelve al estado previo")
	assert.Empty(t, snap.Error)
	api.AssertExpectations(t)
}

func TestRegister_FalloDeAPI_GuardaMensaje(t *testing.T) {
	api := &authAPIMock{}
	api.On("Register", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: username ya existe", domain.ErrConflict))

	s := newStore(api, sessionstore.NewMemory())
	require.NoError(t, s.Restore(context.Background()))
	err := s.Register(context.Background(), dto.RegisterRequest{Username: "binh", Email: "b@p.vn", Password: "123456", FullName: "B"})

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, s.Snapshot().Error, "username ya existe")
	assert.Equal(t, entity.AuthAnonymous, s.State())
}

func TestRegister_Validacion(t *testing.T) {
	cases := map[string]dto.RegisterRequest{
		"campos vacíos":         {Username: "binh"},
		"email inválido":        {Username: "binh", Email: "binh", Password: "123456", FullName: "B"},
		"contraseña corta":      {Username: "binh", Email: "b@p.vn", Password: "123", FullName: "B"},
		"confirmación distinta": {Username: "binh", Email: "b@p.vn", Password: "123456", ConfirmPassword: "654321", FullName: "B"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			api := &authAPIMock{}
			s := newStore(api, sessionstore.NewMemory())
			err := s.Register(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrValidation)
			api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles, 401 y reconciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestHasRole(t *testing.T) {
	ctx := context.Background()
	storage := sessionstore.NewMemory()
	persistIdentity(t, storage, testToken, entity.NewUserIdentity(1, "ana", "", "Ana", []string{"ROLE_ADMIN"}))
	s := newStore(&authAPIMock{}, storage)

	assert.False(t, s.HasRole("admin"), "sin restaurar no hay roles")
	require.NoError(t, s.Restore(ctx))
	assert.True(t, s.HasRole("admin"))
	assert.True(t, s.HasRole("ROLE_admin"))
	assert.False(t, s.HasRole("khách hàng"))
}

func TestHandleUnauthorized_LimpiaTambienElCarrito(t *testing.T) {
	ctx := context.Background()
	storage := sessionstore.NewMemory()
	persistIdentity(t, storage, testToken, entity.NewUserIdentity(1, "ana", "", "Ana", []string{"ROLE_KHÁCH HÀNG"}))
	require.NoError(t, storage.Set(ctx, repository.KeyCart, `{"totalItems":2}`))
	obs := &recordingObserver{}

	s := newStore(&authAPIMock{}, storage, auth.WithObserver(obs))
	require.NoError(t, s.Restore(ctx))
	s.HandleUnauthorized(ctx)

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, domain.ErrUnauthorized.Error(), snap.Error)
	assert.Equal(t, 0, storage.Len())
	assert.Equal(t, []bool{true}, obs.logouts)

	// Reinicializable tras el reseteo.
	persistIdentity(t, storage, "otro", entity.NewUserIdentity(1, "ana", "", "Ana", []string{"ROLE_KHÁCH HÀNG"}))
	require.NoError(t, s.Restore(ctx))
	assert.True(t, s.Snapshot().IsAuthenticated)
}

func TestReconcile_AlmacenamientoLimpiadoFuera(t *testing.T) {
	ctx := context.Background()
	storage := sessionstore.NewMemory()
	persistIdentity(t, storage, testToken, entity.NewUserIdentity(1, "ana", "", "Ana", []string{"ROLE_ADMIN"}))
	s := newStore(&authAPIMock{}, storage)
	require.NoError(t, s.Restore(ctx))

	s.Reconcile(ctx)
	assert.True(t, s.Snapshot().IsAuthenticated, "sin cambios externos sigue autenticado")

	require.NoError(t, storage.Delete(ctx, repository.KeyToken, repository.KeyUser))
	s.Reconcile(ctx)

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assertNoPartialState(t, snap)
}

func TestClearError_SoloBorraElMensaje(t *testing.T) {
	api := &authAPIMock{}
	api.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)
	s := newStore(api, sessionstore.NewMemory())
	require.NoError(t, s.Restore(context.Background()))
	_, _ = s.Login(context.Background(), dto.LoginRequest{Username: "a", Password: "b"})
	require.NotEmpty(t, s.Snapshot().Error)

	s.ClearError()

	snap := s.Snapshot()
	assert.Empty(t, snap.Error)
	assert.Equal(t, entity.AuthAnonymous, snap.State)
}
