package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	activitydomain "github.com/swaylabs/sway/internal/activity/domain"
	activityrepo "github.com/swaylabs/sway/internal/activity/repository"
	activityservice "github.com/swaylabs/sway/internal/activity/service"
	authdomain "github.com/swaylabs/sway/internal/auth/domain"
	authoauth "github.com/swaylabs/sway/internal/auth/oauth"
	authrepo "github.com/swaylabs/sway/internal/auth/repository"
	authservice "github.com/swaylabs/sway/internal/auth/service"
	"github.com/swaylabs/sway/internal/auth/token"
	checkoutdomain "github.com/swaylabs/sway/internal/checkout/domain"
	checkoutrepo "github.com/swaylabs/sway/internal/checkout/repository"
	checkoutservice "github.com/swaylabs/sway/internal/checkout/service"
	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/config"
	conversationdomain "github.com/swaylabs/sway/internal/conversation/domain"
	conversationrepo "github.com/swaylabs/sway/internal/conversation/repository"
	conversationservice "github.com/swaylabs/sway/internal/conversation/service"
	dashboardservice "github.com/swaylabs/sway/internal/dashboard/service"
	notificationdomain "github.com/swaylabs/sway/internal/notification/domain"
	notificationrepo "github.com/swaylabs/sway/internal/notification/repository"
	notificationservice "github.com/swaylabs/sway/internal/notification/service"
	subscriptiondomain "github.com/swaylabs/sway/internal/subscription/domain"
	subscriptionrepo "github.com/swaylabs/sway/internal/subscription/repository"
	subscriptionservice "github.com/swaylabs/sway/internal/subscription/service"
	tenantdomain "github.com/swaylabs/sway/internal/tenant/domain"
	tenantrepo "github.com/swaylabs/sway/internal/tenant/repository"
	tenantservice "github.com/swaylabs/sway/internal/tenant/service"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const apexHost = "swaybrasil.com"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
	clock  *clock.FakeClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&tenantdomain.Company{},
		&authdomain.User{},
		&authdomain.PasswordReset{},
		&activitydomain.Activity{},
		&notificationdomain.Notification{},
		&subscriptiondomain.Subscription{},
		&checkoutdomain.Order{},
		&conversationdomain.Conversation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	cfg := config.Config{
		HTTPAddr:               ":0",
		BaseBrand:              "swaybrasil",
		FrontendURL:            "http://localhost:3000",
		DefaultTenantName:      "Empresa Demo",
		DefaultTenantSubdomain: "demo",
		DefaultTenantDomain:    "demo.swaybrasil.com",
	}

	tokens, err := token.NewService(token.Config{
		SecretKey: "test-secret-key-with-32-characters!",
		Duration:  time.Hour,
	})
	require.NoError(t, err)

	tenantSvc := tenantservice.NewService(tenantservice.Params{
		Cfg:   cfg,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  tenantrepo.New(dbConn),
	})

	users, resets := authrepo.New(dbConn)
	events := activityservice.NewService(activityservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  activityrepo.New(dbConn),
	})
	notifier := notificationservice.NewService(notificationservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  notificationrepo.New(dbConn),
	})
	authSvc := authservice.NewService(authservice.Params{
		DB:     dbConn,
		Cfg:    cfg,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fake,
		Repo:   users,
		Resets: resets,
		Tokens: tokens,
		Events: events,
	})
	subSvc := subscriptionservice.NewService(subscriptionservice.Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  subscriptionrepo.Provide(),
	})
	checkoutSvc := checkoutservice.NewService(checkoutservice.Params{
		DB:            dbConn,
		Cfg:           cfg,
		Log:           zap.NewNop(),
		GenID:         node,
		Clock:         fake,
		Plans:         config.NewStaticPlanCatalogHolder(config.DefaultPlanCatalog()),
		Repo:          checkoutrepo.New(dbConn),
		Subscriptions: subSvc,
		Events:        events,
		Notifier:      notifier,
	})
	conversationSvc := conversationservice.NewService(conversationservice.Params{
		Log:   zap.NewNop(),
		Clock: fake,
		Repo:  conversationrepo.New(dbConn),
	})
	dashboardSvc := dashboardservice.NewService(dashboardservice.Params{
		Log:           zap.NewNop(),
		Users:         authSvc,
		Conversations: conversationSvc,
		Activities:    events,
		Notifications: notifier,
	})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		Log:          zap.NewNop(),
		GenID:        node,
		Tokens:       tokens,
		OAuthSim:     authoauth.NewSimulator(),
		TenantSvc:    tenantSvc,
		AuthSvc:      authSvc,
		CheckoutSvc:  checkoutSvc,
		SubSvc:       subSvc,
		DashboardSvc: dashboardSvc,
	})

	return &testServer{engine: engine, db: dbConn, clock: fake}
}

func (ts *testServer) request(t *testing.T, method, host, path, bearer string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Host = host
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (ts *testServer) registerUser(t *testing.T, host string) (string, authdomain.User) {
	t.Helper()

	rec, env := ts.request(t, http.MethodPost, host, "/api/auth/register", "", gin.H{
		"name":     "Maria Silva",
		"email":    "maria@example.com",
		"cpfCnpj":  "529.982.247-25",
		"password": "segredo1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var payload struct {
		User  authdomain.User `json:"user"`
		Token string          `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return payload.Token, payload.User
}

func TestRegisterLoginAndMe(t *testing.T) {
	ts := newTestServer(t)

	bearerToken, user := ts.registerUser(t, apexHost)
	require.NotEmpty(t, bearerToken)

	rec, env := ts.request(t, http.MethodPost, apexHost, "/api/auth/login", "", gin.H{
		"cpfCnpj":  "52998224725",
		"password": "segredo1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	rec, env = ts.request(t, http.MethodGet, apexHost, "/api/auth/me", bearerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		User authdomain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	require.Equal(t, user.ID, me.User.ID)
}

func TestMeWithDeletedUserIs404(t *testing.T) {
	ts := newTestServer(t)

	bearerToken, user := ts.registerUser(t, apexHost)
	require.NoError(t, ts.db.Delete(&authdomain.User{}, "id = ?", user.ID).Error)

	rec, env := ts.request(t, http.MethodGet, apexHost, "/api/auth/me", bearerToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "Recurso não encontrado", env.Message)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, apexHost)

	rec, env := ts.request(t, http.MethodPost, apexHost, "/api/auth/login", "", gin.H{
		"cpfCnpj":  "52998224725",
		"password": "errada",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "Credenciais inválidas", env.Message)
}

func TestUnknownTenantIs404(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.request(t, http.MethodPost, "ghost.swaybrasil.com", "/api/auth/login", "", gin.H{
		"cpfCnpj":  "52998224725",
		"password": "segredo1",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)
}

func TestTenantIsolation(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.request(t, http.MethodPost, apexHost, "/api/companies", "", gin.H{
		"name":      "Acme",
		"subdomain": "acme",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Contains(t, created, "createdAt")
	require.NotContains(t, created, "created_at")

	// The same document registers cleanly in two tenants.
	ts.registerUser(t, apexHost)
	ts.registerUser(t, "acme.swaybrasil.com")

	// A second registration within a tenant conflicts.
	rec, env = ts.request(t, http.MethodPost, apexHost, "/api/auth/register", "", gin.H{
		"name":     "Outra Maria",
		"cpfCnpj":  "52998224725",
		"password": "segredo1",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.False(t, env.Success)
}

func TestTokenFromOtherTenantIsRejected(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.request(t, http.MethodPost, apexHost, "/api/companies", "", gin.H{
		"name":      "Acme",
		"subdomain": "acme",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	bearerToken, _ := ts.registerUser(t, apexHost)

	rec, _ = ts.request(t, http.MethodGet, "acme.swaybrasil.com", "/api/auth/me", bearerToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckoutFlow(t *testing.T) {
	ts := newTestServer(t)
	bearerToken, _ := ts.registerUser(t, apexHost)

	rec, env := ts.request(t, http.MethodGet, apexHost, "/api/checkout/plan/pro", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plan config.Plan
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	require.Equal(t, 799.0, plan.Price)

	rec, env = ts.request(t, http.MethodPost, apexHost, "/api/checkout/order", bearerToken, gin.H{
		"planName":      "pro",
		"paymentMethod": "pix",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		OrderID    string  `json:"orderId"`
		Amount     float64 `json:"amount"`
		PaymentURL string  `json:"paymentUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, 799.0, created.Amount)
	require.Contains(t, created.PaymentURL, created.OrderID)

	rec, env = ts.request(t, http.MethodPost, apexHost, "/api/checkout/payment/confirm", "", gin.H{
		"orderId":   created.OrderID,
		"paymentId": "pay-1",
		"status":    "paid",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	// Replay acknowledges without another subscription grant.
	rec, _ = ts.request(t, http.MethodPost, apexHost, "/api/checkout/payment/confirm", "", gin.H{
		"orderId":   created.OrderID,
		"paymentId": "pay-1",
		"status":    "paid",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var subs int64
	require.NoError(t, ts.db.Model(&subscriptiondomain.Subscription{}).Count(&subs).Error)
	require.EqualValues(t, 1, subs)

	rec, env = ts.request(t, http.MethodGet, apexHost, "/api/checkout/order/"+created.OrderID, bearerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var order checkoutdomain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	require.Equal(t, checkoutdomain.OrderStatusPaid, order.Status)
	require.NotNil(t, order.SubscriptionID)

	rec, env = ts.request(t, http.MethodGet, apexHost, "/api/subscription", bearerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sub subscriptiondomain.Subscription
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	require.Equal(t, subscriptiondomain.SubscriptionStatusActive, sub.Status)
	require.Equal(t, "pro", sub.Plan)
}

func TestSubscriptionMissingIs404(t *testing.T) {
	ts := newTestServer(t)
	bearerToken, _ := ts.registerUser(t, apexHost)

	rec, _ := ts.request(t, http.MethodGet, apexHost, "/api/subscription", bearerToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHomeDashboard(t *testing.T) {
	ts := newTestServer(t)
	bearerToken, user := ts.registerUser(t, apexHost)

	var company tenantdomain.Company
	require.NoError(t, ts.db.First(&company, "subdomain = ?", "demo").Error)

	resolvedAt := ts.clock.Now().Add(-time.Hour)
	userID := user.ID
	require.NoError(t, ts.db.Create(&conversationdomain.Conversation{
		ID:         snowflake.ID(1),
		CompanyID:  company.ID,
		UserID:     &userID,
		Status:     conversationdomain.StatusResolved,
		ResolvedAt: &resolvedAt,
	}).Error)

	rec, env := ts.request(t, http.MethodGet, apexHost, "/api/home", bearerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var home struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		Stats          conversationdomain.Stats `json:"stats"`
		RecentActivity []struct {
			Type string `json:"type"`
		} `json:"recentActivity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &home))
	require.Equal(t, "Maria Silva", home.User.Name)
	require.EqualValues(t, 1, home.Stats.Resolved)
	require.NotEmpty(t, home.RecentActivity)
}

func TestPasswordResetEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, user := ts.registerUser(t, apexHost)

	rec, env := ts.request(t, http.MethodPost, apexHost, "/api/auth/forgot-password", "", gin.H{
		"cpfCnpj": "52998224725",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var reset authdomain.PasswordReset
	require.NoError(t, ts.db.First(&reset, "user_id = ?", user.ID).Error)

	rec, _ = ts.request(t, http.MethodPost, apexHost, "/api/auth/reset-password", "", gin.H{
		"token":    reset.Token,
		"password": "novasenha1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = ts.request(t, http.MethodPost, apexHost, "/api/auth/reset-password", "", gin.H{
		"token":    reset.Token,
		"password": "outrasenha1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)

	rec, _ = ts.request(t, http.MethodPost, apexHost, "/api/auth/login", "", gin.H{
		"cpfCnpj":  "52998224725",
		"password": "novasenha1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOAuthSimulatedFlow(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google", nil)
	req.Host = apexHost
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	location, err := rec.Result().Location()
	require.NoError(t, err)
	require.Contains(t, location.Path, "/api/auth/google/callback")
	code := location.Query().Get("code")
	require.NotEmpty(t, code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code="+code, nil)
	req.Host = apexHost
	rec = httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	target, err := rec.Result().Location()
	require.NoError(t, err)
	require.NotEmpty(t, target.Query().Get("token"))

	var users int64
	require.NoError(t, ts.db.Model(&authdomain.User{}).Count(&users).Error)
	require.EqualValues(t, 1, users)
}

func TestHealthEndpointNeedsNoTenant(t *testing.T) {
	ts := newTestServer(t)

	// Health lives outside the /api tree in the real engine; here we
	// only assert the tenant gate skips non-API paths.
	rec, _ := ts.request(t, http.MethodGet, "whatever.example.com", "/api/home", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
