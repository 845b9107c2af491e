package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/penstore/internal/auth"
	carth "github.com/fekuna/penstore/internal/cart/handler"
	cartstore "github.com/fekuna/penstore/internal/cart/store"
	cartuc "github.com/fekuna/penstore/internal/cart/usecase"
	collectionh "github.com/fekuna/penstore/internal/collection/handler"
	collectionrepo "github.com/fekuna/penstore/internal/collection/repository"
	collectionuc "github.com/fekuna/penstore/internal/collection/usecase"
	mediah "github.com/fekuna/penstore/internal/media/handler"
	mediarepo "github.com/fekuna/penstore/internal/media/repository"
	"github.com/fekuna/penstore/internal/media/storage"
	mediauc "github.com/fekuna/penstore/internal/media/usecase"
	orderh "github.com/fekuna/penstore/internal/order/handler"
	orderrepo "github.com/fekuna/penstore/internal/order/repository"
	orderuc "github.com/fekuna/penstore/internal/order/usecase"
	producth "github.com/fekuna/penstore/internal/product/handler"
	productrepo "github.com/fekuna/penstore/internal/product/repository"
	productuc "github.com/fekuna/penstore/internal/product/usecase"
	stockh "github.com/fekuna/penstore/internal/stock/handler"
	stockrepo "github.com/fekuna/penstore/internal/stock/repository"
	stockuc "github.com/fekuna/penstore/internal/stock/usecase"
	"github.com/fekuna/penstore/internal/testutil"
	"github.com/fekuna/penstore/internal/user/dto"
	userh "github.com/fekuna/penstore/internal/user/handler"
	userrepo "github.com/fekuna/penstore/internal/user/repository"
	useruc "github.com/fekuna/penstore/internal/user/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	log := testutil.Logger(t)
	dir := t.TempDir()

	store, err := storage.NewLocalStorage(filepath.Join(dir, "media"), "/media")
	require.NoError(t, err)
	carts, err := cartstore.OpenLevelDB(filepath.Join(dir, "cart"))
	require.NoError(t, err)
	t.Cleanup(func() { carts.Close() })

	tokens := auth.NewTokenManager("secret", time.Hour)
	useruc.HashCost = bcrypt.MinCost
	users := useruc.NewUserUseCase(userrepo.NewPGRepository(db), tokens, log)
	_, err = users.CreateUser(context.Background(), &dto.CreateUserInput{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	collectionRepo := collectionrepo.NewPGRepository(db)
	productRepo := productrepo.NewPGRepository(db)
	mediaRepo := mediarepo.NewPGRepository(db)
	orders := orderuc.NewOrderUseCase(orderrepo.NewPGRepository(db), productRepo, nil, "MB", log)

	h := Handlers{
		Collections: collectionh.NewCollectionHandler(collectionuc.NewCollectionUseCase(collectionRepo, mediaRepo, nil, 0, log), log),
		Products:    producth.NewProductHandler(productuc.NewProductUseCase(productRepo, collectionRepo, mediaRepo, nil, nil, productuc.Options{}, log), log),
		Media:       mediah.NewMediaHandler(mediauc.NewMediaUseCase(mediaRepo, store, nil, nil, "", log), log),
		Orders:      orderh.NewOrderHandler(orders, log),
		Stock:       stockh.NewStockHandler(stockuc.NewStockUseCase(stockrepo.NewPGRepository(db), nil, log), log),
		Users:       userh.NewUserHandler(users, log),
		Carts:       carth.NewCartHandler(cartuc.NewCartUseCase(carts, productRepo, orders, log), log),
	}
	return NewRouter(RouterConfig{
		MediaPrefix: "/media",
		MediaDir:    store.Dir(),
		Tokens:      tokens,
		DB:          db,
		Registry:    prometheus.NewRegistry(),
	}, h, log)
}

func call(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := call(r, http.MethodPost, "/api/users/login", "", `{"email":"admin@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	w := call(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = call(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "penstore_http_requests_total")
}

func TestAdminRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	w := call(r, http.MethodGet, "/api/admin/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPost, "/api/users/login", "", `{"email":"admin@example.com","password":"nope-nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestAdminCreatesCollectionVisibleInStorefront(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r)

	w := call(r, http.MethodPost, "/api/admin/collections", token, `{"name":"Heritage","featured":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(r, http.MethodGet, "/api/collections/heritage", "", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"Heritage"`)

	w = call(r, http.MethodGet, "/api/collections/heritage/products", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartRoutesEchoCartID(t *testing.T) {
	r := newTestRouter(t)

	w := call(r, http.MethodGet, "/api/cart", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(carth.CartHeader))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGRPCHealth(t *testing.T) {
	srv, hs := NewGRPCServer(testutil.Logger(t))
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.Status)
}
