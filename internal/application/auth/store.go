// Package auth implementa el almacén de autorización de un visitante: identidad
// autenticada, restauración desde el almacenamiento persistido, login, registro
// y logout.
//
// Máquina de estados:
//
//	uninitialized ─Restore─► restoring ─┬─► authenticated ─Logout/401─► anonymous
//	                                     └─► anonymous
//	anonymous ─Login─► logging_in ─► authenticated | anonymous(+error)
//	any ─Register─► registering ─► (estado previo)(+error)
//
// La restauración es optimista: no se valida el token contra la API. Un token
// caducado se descubre en la primera llamada (401) y entonces HandleUnauthorized
// limpia la sesión. Es un compromiso deliberado: arranque inmediato a cambio de
// un 401 diferido.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
	pkgjwt "github.com/jhoicas/petshop-storefront/pkg/jwt"
)

// Resultados de login informados al Observer.
const (
	LoginOK       = "ok"
	LoginRejected = "rejected"
	LoginError    = "error"
)

// Observer recibe los eventos de sesión (métricas). Todas las llamadas son síncronas.
type Observer interface {
	LoginFinished(result string)
	LoggedOut(forced bool)
}

// Option configura el Store.
type Option func(*Store)

// WithObserver registra un observador de eventos.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store almacén de autorización de un visitante. Seguro para uso concurrente:
// las operaciones que mutan la sesión se serializan y las lecturas usan
// copias inmutables (entity.Session).
type Store struct {
	api      ports.AuthAPI
	storage  repository.SessionStorage
	log      zerolog.Logger
	observer Observer
	now      func() time.Time

	op sync.Mutex // serializa Restore/Login/Register/Logout/HandleUnauthorized

	mu     sync.RWMutex
	state  entity.AuthState
	token  string
	user   *entity.UserIdentity
	errMsg string
}

// NewStore construye el almacén en estado uninitialized (IsLoading=true hasta Restore).
func NewStore(api ports.AuthAPI, storage repository.SessionStorage, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		api:     api,
		storage: storage,
		log:     log,
		now:     time.Now,
		state:   entity.AuthUninitialized,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

// Snapshot copia del estado actual.
func (s *Store) Snapshot() entity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var user *entity.UserIdentity
	if s.user != nil {
		u := *s.user
		u.Roles = append([]string(nil), s.user.Roles...)
		user = &u
	}
	return entity.Session{
		State:           s.state,
		User:            user,
		Token:           s.token,
		IsAuthenticated: s.token != "" && s.user != nil,
		IsLoading:       s.state.Loading(),
		Error:           s.errMsg,
	}
}

// State estado actual de la máquina.
func (s *Store) State() entity.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token token actual ("" si anónimo).
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasRole pertenencia al rol sin distinguir mayúsculas e ignorando el prefijo ROLE_.
func (s *Store) HasRole(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.user == nil {
		return false
	}
	return s.user.HasRole(name)
}

// ClearError limpia solo el mensaje de error.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// Restore lee token e identidad persistidos. Con ambos presentes y una identidad
// legible pasa a authenticated sin llamar a la API; en otro caso limpia el
// almacenamiento y pasa a anonymous.
func (s *Store) Restore(ctx context.Context) error {
	if !s.op.TryLock() {
		return domain.ErrOperationInProgress
	}
	defer s.op.Unlock()

	s.transition(entity.AuthRestoring)

	token, user, reason := s.readPersisted(ctx)
	if user != nil {
		s.logTokenExpiry(token, user)
		s.apply(entity.AuthAuthenticated, token, user, "")
		return nil
	}

	s.log.Debug().Str("reason", reason).Msg("sin sesión persistida válida, limpiando almacenamiento")
	if err := s.storage.Delete(ctx, repository.SessionKeys...); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo limpiar el almacenamiento de sesión")
	}
	s.apply(entity.AuthAnonymous, "", nil, "")
	return nil
}

func (s *Store) readPersisted(ctx context.Context) (string, *entity.UserIdentity, string) {
	token, okToken, err := s.storage.Get(ctx, repository.KeyToken)
	if err != nil {
		return "", nil, "error leyendo token: " + err.Error()
	}
	raw, okUser, err := s.storage.Get(ctx, repository.KeyUser)
	if err != nil {
		return "", nil, "error leyendo usuario: " + err.Error()
	}
	if !okToken || !okUser || strings.TrimSpace(token) == "" {
		return "", nil, "ausente"
	}
	var user entity.UserIdentity
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return "", nil, "usuario corrupto"
	}
	user.Normalize()
	if !user.Valid() {
		return "", nil, "usuario incompleto"
	}
	return token, &user, ""
}

func (s *Store) logTokenExpiry(token string, user *entity.UserIdentity) {
	ev := s.log.Info().Str("username", user.Username)
	info, err := pkgjwt.Inspect(token)
	if err != nil {
		ev.Msg("sesión restaurada (token opaco)")
		return
	}
	if !info.ExpiresAt.IsZero() {
		ev = ev.Time("token_exp", info.ExpiresAt)
	}
	if info.Expired(s.now()) {
		ev.Msg("sesión restaurada con token caducado; la API responderá 401 en la primera llamada")
		return
	}
	ev.Msg("sesión restaurada")
}

// Login autentica contra la API. Token e identidad se persisten antes de
// publicarse en memoria: nunca queda un token sin usuario ni al revés.
func (s *Store) Login(ctx context.Context, in dto.LoginRequest) (*entity.UserIdentity, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		err := fmt.Errorf("%w: usuario y contraseña son requeridos", domain.ErrValidation)
		s.setError(err.Error())
		return nil, err
	}
	if !s.op.TryLock() {
		return nil, domain.ErrOperationInProgress
	}
	defer s.op.Unlock()

	s.mu.Lock()
	s.state = entity.AuthLoggingIn
	s.errMsg = ""
	s.mu.Unlock()

	data, err := s.api.Login(ctx, in)
	if err == nil && (data == nil || data.Token == "" || !data.Identity().Valid()) {
		err = fmt.Errorf("%w: respuesta de login incompleta", domain.ErrAPI)
	}
	if err != nil {
		s.failLogin(ctx, err)
		return nil, err
	}

	user := data.Identity()
	if err := s.persist(ctx, data.Token, user); err != nil {
		s.failLogin(ctx, err)
		return nil, err
	}

	s.apply(entity.AuthAuthenticated, data.Token, user, "")
	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("login correcto")
	s.notifyLogin(LoginOK)
	return user, nil
}

func (s *Store) persist(ctx context.Context, token string, user *entity.UserIdentity) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("serializar usuario: %w", err)
	}
	if err := s.storage.Set(ctx, repository.KeyToken, token); err != nil {
		return fmt.Errorf("persistir token: %w", err)
	}
	if err := s.storage.Set(ctx, repository.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("persistir usuario: %w", err)
	}
	return nil
}

func (s *Store) failLogin(ctx context.Context, err error) {
	if delErr := s.storage.Delete(ctx, repository.SessionKeys...); delErr != nil {
		s.log.Warn().Err(delErr).Msg("no se pudo limpiar el almacenamiento tras login fallido")
	}
	s.apply(entity.AuthAnonymous, "", nil, ports.UserMessage(err))

	result := LoginError
	if errors.Is(err, domain.ErrInvalidCredentials) {
		result = LoginRejected
	}
	s.log.Info().Err(err).Str("result", result).Msg("login fallido")
	s.notifyLogin(result)
}

// Register crea la cuenta en la API. No autentica: el llamador redirige al login.
// Al terminar se vuelve al estado previo.
func (s *Store) Register(ctx context.Context, in dto.RegisterRequest) error {
	if err := validateRegister(&in); err != nil {
		s.setError(err.Error())
		return err
	}
	if !s.op.TryLock() {
		return domain.ErrOperationInProgress
	}
	defer s.op.Unlock()

	s.mu.Lock()
	prev := s.state
	s.state = entity.AuthRegistering
	s.errMsg = ""
	s.mu.Unlock()

	err := s.api.Register(ctx, in)

	s.mu.Lock()
	s.state = prev
	if err != nil {
		s.errMsg = ports.UserMessage(err)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Info().Err(err).Str("username", in.Username).Msg("registro fallido")
		return err
	}
	s.log.Info().Str("username", in.Username).Msg("registro completado")
	return nil
}

func validateRegister(in *dto.RegisterRequest) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	switch {
	case in.Username == "" || in.Email == "" || in.Password == "" || in.FullName == "":
		return fmt.Errorf("%w: usuario, email, contraseña y nombre son requeridos", domain.ErrValidation)
	case !strings.Contains(in.Email, "@"):
		return fmt.Errorf("%w: email inválido", domain.ErrValidation)
	case len(in.Password) < 6:
		return fmt.Errorf("%w: la contraseña debe tener al menos 6 caracteres", domain.ErrValidation)
	case in.ConfirmPassword != "" && in.ConfirmPassword != in.Password:
		return fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrValidation)
	}
	in.ConfirmPassword = ""
	return nil
}

// Logout avisa a la API (best effort) y limpia siempre token, usuario y caché
// del carrito, aunque la API falle: el cliente nunca queda "autenticado".
func (s *Store) Logout(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()

	if token := s.Token(); token != "" {
		if err := s.api.Logout(ports.WithToken(ctx, token)); err != nil {
			s.log.Warn().Err(err).Msg("logout en la API fallido, se limpia la sesión local igualmente")
		}
	}
	s.clear(ctx, "")
	s.log.Info().Msg("logout")
	if s.observer != nil {
		s.observer.LoggedOut(false)
	}
}

// HandleUnauthorized lo invoca el interceptor HTTP al recibir un 401 de la API.
// Limpia token, usuario y también la caché del carrito.
func (s *Store) HandleUnauthorized(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()

	wasAuthenticated := s.Token() != ""
	s.clear(ctx, domain.ErrUnauthorized.Error())
	if wasAuthenticated {
		s.log.Info().Msg("sesión cerrada por 401 de la API")
		if s.observer != nil {
			s.observer.LoggedOut(true)
		}
	}
}

// Reconcile detecta que el almacenamiento se limpió (o cambió) fuera del
// propio Store, por ejemplo desde otra réplica, y baja a anonymous.
// Si hay otra operación en curso no hace nada.
func (s *Store) Reconcile(ctx context.Context) {
	if !s.op.TryLock() {
		return
	}
	defer s.op.Unlock()

	token := s.Token()
	if token == "" {
		return
	}
	stored, found, err := s.storage.Get(ctx, repository.KeyToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudo verificar la sesión persistida")
		return
	}
	if found && stored == token {
		return
	}
	s.log.Info().Msg("sesión persistida eliminada externamente")
	s.clear(ctx, "")
}

func (s *Store) clear(ctx context.Context, msg string) {
	if err := s.storage.Delete(ctx, repository.SessionKeys...); err != nil {
		s.log.Error().Err(err).Msg("no se pudo limpiar el almacenamiento de sesión")
	}
	s.apply(entity.AuthAnonymous, "", nil, msg)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// apply publica token y usuario juntos bajo el mismo lock.
func (s *Store) apply(state entity.AuthState, token string, user *entity.UserIdentity, msg string) {
	if token == "" || user == nil {
		token, user = "", nil
		if state == entity.AuthAuthenticated {
			state = entity.AuthAnonymous
		}
	}
	s.mu.Lock()
	from := s.state
	s.state = state
	s.token = token
	s.user = user
	s.errMsg = msg
	s.mu.Unlock()
	s.log.Debug().Str("from", string(from)).Str("to", string(state)).Msg("transición de sesión")
}

func (s *Store) transition(state entity.AuthState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Store) notifyLogin(result string) {
	if s.observer != nil {
		s.observer.LoginFinished(result)
	}
}
