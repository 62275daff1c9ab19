package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/farmdirect/farmdirect-backend/internal/auth"
	"github.com/farmdirect/farmdirect-backend/internal/cart"
	"github.com/farmdirect/farmdirect-backend/internal/content"
	"github.com/farmdirect/farmdirect-backend/internal/farms"
	"github.com/farmdirect/farmdirect-backend/internal/media"
	"github.com/farmdirect/farmdirect-backend/internal/products"
	"github.com/farmdirect/farmdirect-backend/internal/users"
	pkgAuth "github.com/farmdirect/farmdirect-backend/pkg/auth"
	"github.com/farmdirect/farmdirect-backend/pkg/auth/session"
	"github.com/farmdirect/farmdirect-backend/pkg/config"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	"github.com/farmdirect/farmdirect-backend/pkg/logger"
	"github.com/farmdirect/farmdirect-backend/pkg/metrics"
	"github.com/farmdirect/farmdirect-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubFarmsService struct{}

func (stubFarmsService) Create(ctx context.Context, principal pkgAuth.Principal, input farms.CreateFarmInput) (*farms.FarmDTO, error) {
	return &farms.FarmDTO{}, nil
}

func (stubFarmsService) GetByID(ctx context.Context, id uuid.UUID) (*farms.FarmDTO, error) {
	return &farms.FarmDTO{}, nil
}

func (stubFarmsService) GetBySlug(ctx context.Context, slug string) (*farms.FarmDTO, error) {
	return &farms.FarmDTO{Slug: slug}, nil
}

func (stubFarmsService) List(ctx context.Context, limit, offset int) ([]farms.FarmDTO, error) {
	return []farms.FarmDTO{}, nil
}

func (stubFarmsService) Update(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID, input farms.UpdateFarmInput) (*farms.FarmDTO, error) {
	return &farms.FarmDTO{}, nil
}

func (stubFarmsService) Delete(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID) error {
	return nil
}

func (stubFarmsService) UpsertOffer(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID, input farms.UpsertOfferInput) (*farms.FarmDTO, error) {
	return &farms.FarmDTO{}, nil
}

func (stubFarmsService) DeleteOffer(ctx context.Context, principal pkgAuth.Principal, farmID, productID uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) AddItem(ctx context.Context, principal pkgAuth.Principal, input cart.AddItemInput) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) DecrementItem(ctx context.Context, principal pkgAuth.Principal, cartID, productID uuid.UUID, amount int) (*cart.CartDTO, error) {
	return nil, nil
}

func (stubCartService) ClearAll(ctx context.Context, principal pkgAuth.Principal) (int, error) {
	return 0, nil
}

func (stubCartService) GetCart(ctx context.Context, principal pkgAuth.Principal, farmID uuid.UUID) (*cart.CartDTO, error) {
	return nil, nil
}

func (stubCartService) GetAllCarts(ctx context.Context, principal pkgAuth.Principal) ([]cart.CartDTO, error) {
	return []cart.CartDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil,
		reg,
		metrics.NewHTTPMetrics(reg),
		stubSessionManager{},
		stubAuthService{},
		stubRegisterService{},
		stubFarmsService{},
		stubCartService{},
		products.Service{},
		content.Service{},
		media.Service{},
		nil,
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live probe got %d", resp.Code)
	}
	if env := resp.Header().Get("X-FarmDirect-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	paths := []string{
		"/api/public/ping",
		"/api/public/farms",
		"/api/public/farms/map",
		"/api/public/farms/green-acres",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleFarmer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestCartRoutesWired(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.UserRoleCustomer)

	list := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	list.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, list)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 listing carts got %d", resp.Code)
	}

	clear := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	clear.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, clear)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 clearing carts got %d", resp.Code)
	}
}

func TestCartAddItemRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}
