// Package checkout implementa la secuencia de compra Address → Payment →
// Confirmation de un visitante.
//
// Solo la transición Payment → Confirmation toca la red (creación del pedido).
// Un fallo deja la secuencia en Payment sin reintentos automáticos: cada
// reintento es una acción explícita del usuario.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// Stage paso de la secuencia.
type Stage string

const (
	StageAddress      Stage = "address"
	StagePayment      Stage = "payment"
	StageConfirmation Stage = "confirmation"
)

// AddressLister lee las direcciones guardadas.
type AddressLister interface {
	ListAddresses(ctx context.Context) ([]entity.Address, error)
}

// CartReader lee el resumen del carrito.
type CartReader interface {
	GetCart(ctx context.Context) (*entity.Cart, error)
}

// OrderCreator crea el pedido.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*entity.Order, error)
}

// Deps colaboradores de la secuencia.
type Deps struct {
	Addresses AddressLister
	Cart      CartReader
	Orders    OrderCreator
	// OnOrderPlaced se invoca una vez tras crear el pedido (caché del carrito, métricas).
	OnOrderPlaced func(ctx context.Context, order *entity.Order)
	// OnOrderFailed se invoca cada vez que la API rechaza la creación.
	OnOrderFailed func(ctx context.Context, err error)
}

// Progress foto del estado para pintar la pantalla.
type Progress struct {
	Stage Stage `json:"stage"`

	Addresses        []entity.Address `json:"addresses"`
	AddressesLoading bool             `json:"addressesLoading"`
	AddressesLoaded  bool             `json:"addressesLoaded"`
	AddressesError   string           `json:"addressesError,omitempty"`

	Cart        *entity.Cart `json:"cart"`
	CartLoading bool         `json:"cartLoading"`
	CartLoaded  bool         `json:"cartLoaded"`
	CartError   string       `json:"cartError,omitempty"`

	SelectedAddressID int64                `json:"selectedAddressId,omitempty"`
	PaymentMethod     entity.PaymentMethod `json:"paymentMethod,omitempty"`
	Notes             string               `json:"notes,omitempty"`

	Submitting  bool          `json:"submitting"`
	OrderError  string        `json:"orderError,omitempty"`
	OrderResult *entity.Order `json:"orderResult"`
}

// Ready los dos datos del paso de dirección han terminado de cargar.
func (p Progress) Ready() bool {
	return !p.AddressesLoading && !p.CartLoading && p.AddressesLoaded && p.CartLoaded
}

type loadState struct {
	loading bool
	loaded  bool
	err     error
}

// Checkout una secuencia de compra. Seguro para uso concurrente.
type Checkout struct {
	deps Deps
	log  zerolog.Logger

	mu        sync.Mutex
	stage     Stage
	addresses []entity.Address
	addrLoad  loadState
	cart      *entity.Cart
	cartLoad  loadState
	selected  int64
	method    entity.PaymentMethod
	notes     string
	inFlight  bool
	orderErr  error
	result    *entity.Order
}

// New crea la secuencia en el paso de dirección, sin datos cargados.
func New(deps Deps, log zerolog.Logger) *Checkout {
	return &Checkout{deps: deps, log: log, stage: StageAddress}
}

// Progress copia del estado actual.
func (c *Checkout) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *Checkout) progressLocked() Progress {
	p := Progress{
		Stage:             c.stage,
		Addresses:         append([]entity.Address(nil), c.addresses...),
		AddressesLoading:  c.addrLoad.loading,
		AddressesLoaded:   c.addrLoad.loaded,
		AddressesError:    ports.UserMessage(c.addrLoad.err),
		CartLoading:       c.cartLoad.loading,
		CartLoaded:        c.cartLoad.loaded,
		CartError:         ports.UserMessage(c.cartLoad.err),
		SelectedAddressID: c.selected,
		PaymentMethod:     c.method,
		Notes:             c.notes,
		Submitting:        c.inFlight,
		OrderError:        ports.UserMessage(c.orderErr),
	}
	if c.cart != nil {
		cart := *c.cart
		cart.Items = append([]entity.CartLine(nil), c.cart.Items...)
		p.Cart = &cart
	}
	if c.result != nil {
		o := *c.result
		p.OrderResult = &o
	}
	return p
}

// ── Carga ─────────────────────────────────────────────────────────────────────

// Load pide direcciones y carrito a la vez y vuelve cuando ambas llamadas han
// terminado. Cada fallo se registra por separado: los datos de la que tuvo
// éxito quedan disponibles. El error devuelto reúne los fallos, si los hubo.
func (c *Checkout) Load(ctx context.Context) error {
	if err := c.requireNotTerminal(); err != nil {
		return err
	}
	var (
		wg               sync.WaitGroup
		addrErr, cartErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		addrErr = c.ReloadAddresses(ctx)
	}()
	go func() {
		defer wg.Done()
		cartErr = c.ReloadCart(ctx)
	}()
	wg.Wait()

	switch {
	case addrErr != nil && cartErr != nil:
		return fmt.Errorf("direcciones: %w; carrito: %w", addrErr, cartErr)
	case addrErr != nil:
		return fmt.Errorf("direcciones: %w", addrErr)
	case cartErr != nil:
		return fmt.Errorf("carrito: %w", cartErr)
	}
	return nil
}

// ReloadAddresses recarga solo las direcciones y vuelve a preseleccionar la
// predeterminada si la selección actual ya no existe.
func (c *Checkout) ReloadAddresses(ctx context.Context) error {
	c.mu.Lock()
	if c.stage == StageConfirmation {
		c.mu.Unlock()
		return domain.ErrTerminalStage
	}
	c.addrLoad.loading = true
	c.mu.Unlock()

	list, err := c.deps.Addresses.ListAddresses(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.addrLoad.loading = false
	c.addrLoad.err = err
	if err != nil {
		c.log.Warn().Err(err).Msg("no se pudieron cargar las direcciones")
		return err
	}
	c.addresses = list
	c.addrLoad.loaded = true
	if c.selected == 0 || entity.FindAddress(list, c.selected) == nil {
		c.selected = 0
		if def := entity.DefaultAddress(list); def != nil {
			c.selected = def.ID
		}
	}
	return nil
}

// ReloadCart recarga solo el resumen del carrito.
func (c *Checkout) ReloadCart(ctx context.Context) error {
	c.mu.Lock()
	if c.stage == StageConfirmation {
		c.mu.Unlock()
		return domain.ErrTerminalStage
	}
	c.cartLoad.loading = true
	c.mu.Unlock()

	cart, err := c.deps.Cart.GetCart(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartLoad.loading = false
	c.cartLoad.err = err
	if err != nil {
		c.log.Warn().Err(err).Msg("no se pudo cargar el carrito")
		return err
	}
	c.cart = cart
	c.cartLoad.loaded = true
	return nil
}

// ── Entrada del usuario ──────────────────────────────────────────────────────

// SelectAddress elige la dirección de envío (solo en el paso de dirección).
func (c *Checkout) SelectAddress(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireStageLocked(StageAddress); err != nil {
		return err
	}
	if c.addrLoad.loaded && entity.FindAddress(c.addresses, id) == nil {
		return fmt.Errorf("%w: la dirección %d no existe", domain.ErrInvalidInput, id)
	}
	c.selected = id
	return nil
}

// SetPayment elige método de pago y notas (solo en el paso de pago).
func (c *Checkout) SetPayment(method entity.PaymentMethod, notes string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireStageLocked(StagePayment); err != nil {
		return err
	}
	if c.inFlight {
		return domain.ErrOrderInFlight
	}
	if _, ok := entity.ParsePaymentMethod(string(method)); !ok {
		return fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, method)
	}
	c.method = method
	c.notes = strings.TrimSpace(notes)
	return nil
}

// ── Transiciones ─────────────────────────────────────────────────────────────

// Next avanza un paso. Las condiciones se comprueban en cada llamada.
func (c *Checkout) Next(ctx context.Context) error {
	c.mu.Lock()
	switch c.stage {
	case StageAddress:
		defer c.mu.Unlock()
		if err := c.validateAddressLocked(); err != nil {
			return err
		}
		c.stage = StagePayment
		return nil
	case StagePayment:
		return c.placeOrder(ctx) // libera el lock
	default:
		c.mu.Unlock()
		return domain.ErrTerminalStage
	}
}

func (c *Checkout) validateAddressLocked() error {
	if !c.addrLoad.loaded || !c.cartLoad.loaded || c.addrLoad.loading || c.cartLoad.loading {
		return domain.ErrStageNotReady
	}
	if c.selected == 0 || entity.FindAddress(c.addresses, c.selected) == nil {
		return domain.ErrAddressRequired
	}
	if c.cart.Empty() {
		return domain.ErrEmptyCart
	}
	if out := c.cart.OutOfStock(); len(out) > 0 {
		names := make([]string, 0, len(out))
		for _, l := range out {
			names = append(names, l.ProductName)
		}
		return fmt.Errorf("%w: %s", domain.ErrOutOfStock, strings.Join(names, ", "))
	}
	return nil
}

// placeOrder se llama con c.mu tomado.
func (c *Checkout) placeOrder(ctx context.Context) error {
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrOrderInFlight
	}
	// Una recarga en el paso de pago puede haber quitado la dirección o el stock.
	if err := c.validateAddressLocked(); err != nil {
		if !errors.Is(err, domain.ErrStageNotReady) {
			c.stage = StageAddress
		}
		c.mu.Unlock()
		return err
	}
	if c.method == entity.PaymentUnset {
		c.mu.Unlock()
		return domain.ErrPaymentMethodRequired
	}
	req := dto.CreateOrderRequest{ShippingAddressID: c.selected, PaymentMethod: c.method}
	if c.notes != "" {
		notes := c.notes
		req.Notes = &notes
	}
	c.inFlight = true
	c.orderErr = nil
	c.mu.Unlock()

	order, err := c.deps.Orders.CreateOrder(ctx, req)

	c.mu.Lock()
	c.inFlight = false
	if err == nil && (order == nil || order.OrderCode == "") {
		err = fmt.Errorf("%w: respuesta de pedido incompleta", domain.ErrAPI)
	}
	if err != nil {
		c.orderErr = err
		c.mu.Unlock()
		c.log.Warn().Err(err).Int64("address_id", req.ShippingAddressID).Str("payment_method", string(req.PaymentMethod)).Msg("creación de pedido fallida")
		if c.deps.OnOrderFailed != nil {
			c.deps.OnOrderFailed(ctx, err)
		}
		return err
	}
	if c.result == nil {
		c.result = order
	}
	c.stage = StageConfirmation
	placed := *c.result
	c.mu.Unlock()

	c.log.Info().Str("order_code", placed.OrderCode).Str("total", placed.TotalAmount.String()).Msg("pedido creado")
	if c.deps.OnOrderPlaced != nil {
		c.deps.OnOrderPlaced(ctx, &placed)
	}
	return nil
}

// Back retrocede un paso. Confirmation es terminal.
func (c *Checkout) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.stage {
	case StagePayment:
		if c.inFlight {
			return domain.ErrOrderInFlight
		}
		c.stage = StageAddress
		c.orderErr = nil
		return nil
	case StageAddress:
		return domain.ErrNoPreviousStage
	default:
		return domain.ErrTerminalStage
	}
}

func (c *Checkout) requireNotTerminal() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageConfirmation {
		return domain.ErrTerminalStage
	}
	return nil
}

func (c *Checkout) requireStageLocked(want Stage) error {
	if c.stage == want {
		return nil
	}
	if c.stage == StageConfirmation {
		return domain.ErrTerminalStage
	}
	return fmt.Errorf("%w: la acción corresponde al paso %s", domain.ErrStageNotReady, want)
}
