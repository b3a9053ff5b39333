// Package visitor mantiene en memoria el estado de cliente de cada visitante
// (identificado por cookie): almacén de autorización, notificaciones, límite
// de intentos de login y la secuencia de compra en curso.
package visitor

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhoicas/petshop-storefront/internal/application/auth"
	"github.com/jhoicas/petshop-storefront/internal/application/checkout"
	"github.com/jhoicas/petshop-storefront/internal/application/notify"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
)

// Visitor estado de cliente de un visitante.
type Visitor struct {
	ID      string
	Auth    *auth.Store
	Notices *notify.Queue
	// Storage almacenamiento propio del visitante (claves token, user, cart).
	Storage repository.SessionStorage

	login *rate.Limiter

	mu       sync.Mutex
	checkout *checkout.Checkout
	lastSeen time.Time
}

// AllowLogin consume un intento de login del visitante.
func (v *Visitor) AllowLogin() bool {
	return v.login.Allow()
}

// Checkout secuencia de compra en curso, o nil.
func (v *Visitor) Checkout() *checkout.Checkout {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.checkout
}

// StartCheckout abre una secuencia nueva y descarta la anterior.
func (v *Visitor) StartCheckout(deps checkout.Deps, log zerolog.Logger) *checkout.Checkout {
	co := checkout.New(deps, log.With().Str("visitor", v.ID).Logger())
	v.mu.Lock()
	v.checkout = co
	v.mu.Unlock()
	return co
}

// EndCheckout descarta la secuencia. Una llamada en vuelo sobre la secuencia
// descartada termina sin efecto visible.
func (v *Visitor) EndCheckout() {
	v.mu.Lock()
	v.checkout = nil
	v.mu.Unlock()
}

func (v *Visitor) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *Visitor) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// Options configuración del registro.
type Options struct {
	AuthAPI ports.AuthAPI
	// StorageFor devuelve el almacenamiento propio de un visitante.
	StorageFor  func(visitorID string) repository.SessionStorage
	SuccessTTL  time.Duration
	ErrorTTL    time.Duration
	LoginLimit  rate.Limit
	LoginBurst  int
	IdleTimeout time.Duration
	Observer    auth.Observer
	Active      prometheus.Gauge
	Log         zerolog.Logger
	Now         func() time.Time
}

// Registry visitantes conocidos por id de cookie.
type Registry struct {
	opts Options

	mu       sync.Mutex
	visitors map[string]*Visitor
}

// NewRegistry construye el registro.
func NewRegistry(opts Options) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LoginLimit == 0 {
		opts.LoginLimit = rate.Every(12 * time.Second)
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 3
	}
	return &Registry{opts: opts, visitors: make(map[string]*Visitor)}
}

// Get devuelve el visitante. La primera vez que se ve un id se construye su
// almacén y se restaura la sesión persistida; las siguientes se reconcilia con
// el almacenamiento por si se limpió desde fuera.
func (r *Registry) Get(ctx context.Context, id string) *Visitor {
	now := r.opts.Now()

	r.mu.Lock()
	v, ok := r.visitors[id]
	if !ok {
		v = r.newVisitor(id)
		r.visitors[id] = v
		r.setActiveLocked()
	}
	r.mu.Unlock()

	v.touch(now)
	if !ok {
		if err := v.Auth.Restore(ctx); err != nil {
			r.opts.Log.Debug().Err(err).Str("visitor", id).Msg("restauración concurrente, se usa la que está en curso")
		}
		return v
	}
	v.Auth.Reconcile(ctx)
	return v
}

func (r *Registry) newVisitor(id string) *Visitor {
	v := &Visitor{
		ID:      id,
		Notices: notify.NewQueue(r.opts.SuccessTTL, r.opts.ErrorTTL),
		Storage: r.opts.StorageFor(id),
		login:   rate.NewLimiter(r.opts.LoginLimit, r.opts.LoginBurst),
	}
	log := r.opts.Log.With().Str("visitor", id).Logger()
	v.Auth = auth.NewStore(r.opts.AuthAPI, v.Storage, log,
		auth.WithObserver(sessionObserver{v: v, next: r.opts.Observer}),
		auth.WithClock(r.opts.Now),
	)
	return v
}

// Sweep descarta de memoria los visitantes inactivos más de IdleTimeout.
// Su sesión persistida se conserva y se restaura si vuelven.
func (r *Registry) Sweep() int {
	if r.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := r.opts.Now().Add(-r.opts.IdleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, v := range r.visitors {
		if v.idleSince().Before(cutoff) {
			delete(r.visitors, id)
			n++
		}
	}
	r.setActiveLocked()
	return n
}

// Len visitantes en memoria.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

func (r *Registry) setActiveLocked() {
	if r.opts.Active != nil {
		r.opts.Active.Set(float64(len(r.visitors)))
	}
}

// sessionObserver cierra la secuencia de compra cuando termina la sesión y
// reenvía los eventos al observador global.
type sessionObserver struct {
	v    *Visitor
	next auth.Observer
}

func (o sessionObserver) LoginFinished(result string) {
	if o.next != nil {
		o.next.LoginFinished(result)
	}
}

func (o sessionObserver) LoggedOut(forced bool) {
	o.v.EndCheckout()
	if o.next != nil {
		o.next.LoggedOut(forced)
	}
}
