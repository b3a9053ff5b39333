package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jhoicas/petshop-storefront/internal/application/auth"
	"github.com/jhoicas/petshop-storefront/internal/application/guard"
	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
	"github.com/jhoicas/petshop-storefront/internal/application/visitor"
	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
	"github.com/jhoicas/petshop-storefront/internal/infrastructure/pdf"
	"github.com/jhoicas/petshop-storefront/internal/infrastructure/petapi"
	"github.com/jhoicas/petshop-storefront/internal/infrastructure/sessionstore"
	apphttp "github.com/jhoicas/petshop-storefront/internal/interfaces/http"
	"github.com/jhoicas/petshop-storefront/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCookie   = "petshop_sid"
	customerRole = "ROLE_KHÁCH HÀNG"
	employeeRole = "ROLE_NHÂN VIÊN"
	adminRole    = "ROLE_QUẢN TRỊ VIÊN"
)

// fakeShopAPI API de la tienda en memoria. Usuarios: cliente, empleado y admin,
// todos con contraseña "secret".
type fakeShopAPI struct {
	mu           sync.Mutex
	orders       []map[string]any
	logouts      []string
	usersStatus  int // código forzado para GET /admin/users (0 = 200)
	ordersStatus int // código forzado para GET /admin/orders (0 = 200)
}

func envelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func apiError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}

func (f *fakeShopAPI) handler() http.Handler {
	users := map[string]string{"cliente": customerRole, "empleado": employeeRole, "admin": adminRole}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		role, ok := users[in.Username]
		if !ok || in.Password != "secret" {
			apiError(w, http.StatusUnauthorized, "Bad credentials")
			return
		}
		envelope(w, map[string]any{
			"token": "tok-" + in.Username, "id": 7, "username": in.Username,
			"email": in.Username + "@petshop.vn", "fullName": strings.ToUpper(in.Username), "roles": []string{role},
		})
	})
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, nil)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logouts = append(f.logouts, r.Header.Get("Authorization"))
		f.mu.Unlock()
		envelope(w, nil)
	})
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, map[string]any{
			"items": []map[string]any{{
				"id": 1, "productId": 10, "productName": "Pate cho mèo", "quantity": 2,
				"price": "150000", "availableStock": 5,
			}},
			"totalItems": 2, "subtotal": "300000", "shipping": "0", "total": "300000",
		})
	})
	mux.HandleFunc("/addresses", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, []map[string]any{
			{"id": 2, "receiverName": "An", "receiverPhone": "0901234567", "streetAddress": "2 Lê Lợi", "isDefault": false},
			{"id": 1, "receiverName": "An", "receiverPhone": "0901234567", "streetAddress": "1 Hai Bà Trưng", "isDefault": true},
		})
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.orders = append(f.orders, body)
		f.mu.Unlock()
		envelope(w, map[string]any{"id": 1, "orderCode": "ORD-001", "status": "PENDING", "paymentMethod": body["paymentMethod"], "totalAmount": "300000"})
	})
	mux.HandleFunc("/admin/users", func(w http.ResponseWriter, r *http.Request) {
		if f.usersStatus != 0 {
			apiError(w, f.usersStatus, "rechazado")
			return
		}
		envelope(w, []map[string]any{{"id": 7, "username": "cliente", "roles": []string{customerRole}, "active": true}})
	})
	mux.HandleFunc("/admin/orders", func(w http.ResponseWriter, r *http.Request) {
		if f.ordersStatus != 0 {
			apiError(w, f.ordersStatus, "rechazado")
			return
		}
		envelope(w, []map[string]any{})
	})
	return mux
}

// testEnv storefront completo contra la API falsa.
type testEnv struct {
	t       *testing.T
	api     *fakeShopAPI
	app     *fiber.App
	metrics *metrics.Metrics
	cookie  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := &fakeShopAPI{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	client := petapi.NewWithHTTPClient(srv.URL, srv.Client(), log)
	m := metrics.New("storefront_test")
	base := sessionstore.NewMemory()
	reg := visitor.NewRegistry(visitor.Options{
		AuthAPI:     client,
		StorageFor:  func(id string) repository.SessionStorage { return sessionstore.Scope(base, id) },
		SuccessTTL:  3 * time.Second,
		ErrorTTL:    6 * time.Second,
		LoginLimit:  rate.Inf,
		LoginBurst:  1,
		IdleTimeout: time.Hour,
		Observer:    m,
		Active:      m.ActiveVisitors,
		Log:         log,
	})

	cartUC := usecase.NewCartUseCase(client, log)
	app := apphttp.NewApp("storefront-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		Registry:   reg,
		Cookie:     apphttp.CookieConfig{Name: testCookie},
		CatalogUC:  usecase.NewCatalogUseCase(client),
		CartUC:     cartUC,
		AddressUC:  usecase.NewAddressUseCase(client),
		OrderUC:    usecase.NewOrderUseCase(client, pdf.NewMarotoReceiptGenerator("Pet Shop", "")),
		AdminUC:    usecase.NewAdminUseCase(client),
		AddressAPI: client,
		OrderAPI:   client,
		Metrics:    m,
		Log:        log,
	})
	return &testEnv{t: t, api: fake, app: app, metrics: m}
}

// do lanza la petición con la cookie del visitante y la guarda si la respuesta la fija.
func (e *testEnv) do(method, target string, body any) (*http.Response, map[string]any) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: e.cookie})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			e.cookie = ck.Value
		}
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var decoded any
		require.NoError(e.t, json.Unmarshal(raw, &decoded), string(raw))
		if m, ok := decoded.(map[string]any); ok {
			out = m
		}
	}
	return resp, out
}

func (e *testEnv) login(user string) map[string]any {
	e.t.Helper()
	resp, body := e.do(http.MethodPost, "/login", map[string]string{"username": user, "password": "secret"})
	require.Equal(e.t, http.StatusOK, resp.StatusCode, body)
	return body
}

func (e *testEnv) session() map[string]any {
	e.t.Helper()
	_, body := e.do(http.MethodGet, "/session", nil)
	s, ok := body["session"].(map[string]any)
	require.True(e.t, ok, body)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard
// ──────────────────────────────────────────────────────────────────────────────

func TestGuard_AnonimoRedirigeALoginConRuta(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(http.MethodGet, "/checkout?step=2", nil)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=%2Fcheckout%3Fstep%3D2", resp.Header.Get("Location"))
	assert.Equal(t, "LOGIN_REQUIRED", body["code"])
	assert.NotEmpty(t, e.cookie, "el visitante recibe su cookie en la primera visita")
}

func TestGuard_ClienteNoEntraEnAdmin(t *testing.T) {
	e := newTestEnv(t)
	e.login("cliente")

	resp, _ := e.do(http.MethodGet, "/admin/users", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, guard.UnauthorizedPath, resp.Header.Get("Location"))

	resp, _ = e.do(http.MethodGet, "/staff/orders", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, guard.UnauthorizedPath, resp.Header.Get("Location"))
}

func TestGuard_AdminEntraEnRutasDePersonal(t *testing.T) {
	e := newTestEnv(t)
	e.login("admin")

	resp, _ := e.do(http.MethodGet, "/staff/orders", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := e.do(http.MethodGet, "/admin/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)
}

func TestGuard_EsperaMientrasRestaura(t *testing.T) {
	app := fiber.New()
	// Store recién creado: aún no se ha restaurado (isLoading = true).
	v := &visitor.Visitor{ID: "v1", Auth: auth.NewStore(nil, sessionstore.NewMemory(), zerolog.Nop())}
	app.Get("/orders",
		func(c *fiber.Ctx) error { c.Locals(apphttp.LocalVisitor, v); return c.Next() },
		apphttp.RequireAccess(guard.Authenticated(), nil),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/orders", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	require.NoError(t, v.Auth.Restore(context.Background()))
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/orders", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode, "restaurada sin sesión: al login")
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_DestinoSegunRolYRuta(t *testing.T) {
	e := newTestEnv(t)
	body := e.login("cliente")
	assert.Equal(t, "/", body["redirect"])

	e = newTestEnv(t)
	body = e.login("empleado")
	assert.Equal(t, apphttp.StaffLandingPath, body["redirect"])

	e = newTestEnv(t)
	resp, body := e.do(http.MethodPost, "/login?redirect=%2Forders%2FORD-001", map[string]string{"username": "cliente", "password": "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/orders/ORD-001", body["redirect"])

	e = newTestEnv(t)
	_, body = e.do(http.MethodPost, "/login?redirect=https%3A%2F%2Fevil.example", map[string]string{"username": "cliente", "password": "secret"})
	assert.Equal(t, "/", body["redirect"], "un destino externo se ignora")
}

func TestLogin_CredencialesRechazadas(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(http.MethodPost, "/login", map[string]string{"username": "cliente", "password": "mala"})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	assert.Empty(t, resp.Header.Get("Location"), "credenciales malas no redirigen")
	s := e.session()
	assert.Equal(t, false, s["isAuthenticated"])
	assert.NotEmpty(t, s["error"])

	_, notices := e.do(http.MethodGet, "/session", nil)
	assert.NotEmpty(t, notices["notifications"])
}

func TestLogin_CamposVaciosNoLlamanALaAPI(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(http.MethodPost, "/login", map[string]string{"username": "", "password": ""})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestLogout_LimpiaSesionAunqueFalleLaAPI(t *testing.T) {
	e := newTestEnv(t)
	e.login("cliente")
	require.Equal(t, true, e.session()["isAuthenticated"])

	resp, body := e.do(http.MethodPost, "/logout", nil)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.LoginPath, body["redirect"])
	assert.Equal(t, false, e.session()["isAuthenticated"])
	assert.Equal(t, []string{"Bearer tok-cliente"}, e.api.logouts)
}

func TestRegistro_NoAutenticaYRedirigeAlLogin(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(http.MethodPost, "/register", map[string]string{
		"username": "nuevo", "email": "nuevo@petshop.vn", "password": "secret1",
		"confirmPassword": "otra", "fullName": "Nuevo",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "las contraseñas no coinciden")
	assert.Equal(t, "VALIDATION", body["code"])

	resp, body = e.do(http.MethodPost, "/register", map[string]string{
		"username": "nuevo", "email": "nuevo@petshop.vn", "password": "secret1",
		"confirmPassword": "secret1", "fullName": "Nuevo",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, guard.LoginPath, resp.Header.Get("Location"))
	assert.Equal(t, guard.LoginPath, body["redirect"])
	assert.Equal(t, false, e.session()["isAuthenticated"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Interceptor
// ──────────────────────────────────────────────────────────────────────────────

func TestInterceptor_401CierraSesionYRedirige(t *testing.T) {
	e := newTestEnv(t)
	e.api.usersStatus = http.StatusUnauthorized
	e.login("admin")

	resp, body := e.do(http.MethodGet, "/admin/users", nil)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=%2Fadmin%2Fusers", resp.Header.Get("Location"))
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.Equal(t, false, e.session()["isAuthenticated"])
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.ForcedLogouts))
}

func TestInterceptor_403RedirigeAUnauthorized(t *testing.T) {
	e := newTestEnv(t)
	e.api.ordersStatus = http.StatusForbidden
	e.login("empleado")

	resp, _ := e.do(http.MethodGet, "/staff/orders", nil)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, guard.UnauthorizedPath, resp.Header.Get("Location"))
	assert.Equal(t, true, e.session()["isAuthenticated"], "un 403 no cierra la sesión")
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_CompraContraReembolso(t *testing.T) {
	e := newTestEnv(t)
	e.login("cliente")

	resp, body := e.do(http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "address", body["stage"])
	assert.Equal(t, float64(1), body["selectedAddressId"], "se preselecciona la predeterminada")
	assert.Len(t, body["paymentMethods"], 4)

	_, body = e.do(http.MethodPost, "/checkout/next", nil)
	assert.Equal(t, "payment", body["stage"])

	resp, body = e.do(http.MethodPost, "/checkout/next", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "sin método de pago no se crea el pedido")
	assert.Empty(t, e.api.orders)

	_, body = e.do(http.MethodPost, "/checkout/payment", map[string]string{"paymentMethod": "cod"})
	assert.Equal(t, "COD", body["paymentMethod"])

	resp, body = e.do(http.MethodPost, "/checkout/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "confirmation", body["stage"])
	result, _ := body["orderResult"].(map[string]any)
	assert.Equal(t, "ORD-001", result["orderCode"])

	require.Len(t, e.api.orders, 1)
	assert.Equal(t, float64(1), e.api.orders[0]["shippingAddressId"])
	assert.Equal(t, "COD", e.api.orders[0]["paymentMethod"])
	assert.Nil(t, e.api.orders[0]["notes"])

	resp, _ = e.do(http.MethodPost, "/checkout/next", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "la confirmación es terminal")
	assert.Len(t, e.api.orders, 1)
}

func TestCheckout_AtrasYCancelar(t *testing.T) {
	e := newTestEnv(t)
	e.login("cliente")
	e.do(http.MethodGet, "/checkout", nil)

	resp, _ := e.do(http.MethodPost, "/checkout/back", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	e.do(http.MethodPost, "/checkout/next", nil)
	_, body := e.do(http.MethodPost, "/checkout/back", nil)
	assert.Equal(t, "address", body["stage"])

	resp, _ = e.do(http.MethodDelete, "/checkout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = e.do(http.MethodPost, "/checkout/next", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestNotificaciones_Descartar(t *testing.T) {
	e := newTestEnv(t)
	e.login("cliente")

	resp, _ := e.do(http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := e.do(http.MethodGet, "/session", nil)
	list, _ := body["notifications"].([]any)
	require.NotEmpty(t, list, "el login deja un aviso de bienvenida")
	id := list[0].(map[string]any)["id"].(string)

	resp, _ = e.do(http.MethodDelete, "/notifications/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = e.do(http.MethodDelete, "/notifications/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
