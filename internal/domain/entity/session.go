package entity

// AuthState estados del almacén de autorización.
type AuthState string

const (
	AuthUninitialized AuthState = "uninitialized"
	AuthRestoring     AuthState = "restoring"
	AuthAuthenticated AuthState = "authenticated"
	AuthAnonymous     AuthState = "anonymous"
	AuthLoggingIn     AuthState = "logging_in"
	AuthRegistering   AuthState = "registering"
)

// Loading los estados transitorios en los que la UI debe esperar.
func (s AuthState) Loading() bool {
	switch s {
	case AuthUninitialized, AuthRestoring, AuthLoggingIn, AuthRegistering:
		return true
	}
	return false
}

// Session copia inmutable del estado de sesión de un visitante.
// IsAuthenticated == (Token != "" && User != nil) siempre.
type Session struct {
	State           AuthState     `json:"state"`
	User            *UserIdentity `json:"user"`
	Token           string        `json:"-"`
	IsAuthenticated bool          `json:"isAuthenticated"`
	IsLoading       bool          `json:"isLoading"`
	Error           string        `json:"error,omitempty"`
}

// HasRole atajo sobre la identidad; false si no hay sesión.
func (s Session) HasRole(name string) bool {
	if !s.IsAuthenticated {
		return false
	}
	return s.User.HasRole(name)
}
