package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lifeflow-backend/internal/core/auth"
	"lifeflow-backend/internal/core/config"
	"lifeflow-backend/internal/core/database"
	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/payment"
	"lifeflow-backend/internal/repo"
	"lifeflow-backend/internal/service"
)

type testEnv struct {
	engine  *gin.Engine
	repos   *repo.Repos
	jwt     *auth.JWTer
	queries *atomic.Int64
	revoker *memRevoker
	svcs    *service.Services
}

type memRevoker struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (m *memRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[jti] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[jti], nil
}

func newTestEnv(t *testing.T, with ...func(*service.Deps)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	var queries atomic.Int64
	count := func(*gorm.DB) { queries.Add(1) }
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:count_query", count))
	require.NoError(t, db.Callback().Row().Before("gorm:row").Register("test:count_row", count))

	repos := repo.New(db)
	deps := service.Deps{
		Users: repos.Users, Requests: repos.Requests, Blogs: repos.Blogs,
		Payments: repos.Payments, Regions: repos.Regions,
	}
	for _, fn := range with {
		fn(&deps)
	}
	svcs := service.New(deps)
	j := &auth.JWTer{Secret: []byte("router-test"), Issuer: "lifeflow", TTL: time.Hour}
	rev := &memRevoker{ids: map[string]bool{}}
	cfg := &config.Config{Cookie: config.Cookie{Secure: true}}

	e := NewAPIEngine(Deps{Config: cfg, JWT: j, Revoker: rev, Services: svcs})
	return &testEnv{engine: e, repos: repos, jwt: j, queries: &queries, revoker: rev, svcs: svcs}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, email, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		tok, err := e.jwt.Issue(email)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (e *testEnv) seedUser(t *testing.T, email, role string) *domain.User {
	t.Helper()
	u, _, err := e.repos.Users.InsertIfAbsent(context.Background(),
		&domain.User{Email: email, Name: strings.Split(email, "@")[0], Role: role, Status: domain.StatusActive})
	require.NoError(t, err)
	return u
}

func TestRootHealthMetrics(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Blood is flowing.", w.Body.String())

	w, env2 := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env2.Code)

	w, _ = env.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lifeflow_http_requests_total")

	w, env2 = env.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 404, env2.Code)
}

func TestSessionRoutesRejectMissingCookie(t *testing.T) {
	env := newTestEnv(t)
	id := "0190c3b6-0000-7000-8000-000000000000"
	routes := [][2]string{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/a@x.io"},
		{http.MethodGet, "/userStatus/a@x.io"},
		{http.MethodGet, "/searchUser?bloodType=A%2B"},
		{http.MethodPut, "/users/a@x.io"},
		{http.MethodPatch, "/users/a@x.io"},
		{http.MethodPatch, "/blockUser/" + id},
		{http.MethodPatch, "/activeUser/" + id},
		{http.MethodPatch, "/changeRole/" + id},
		{http.MethodGet, "/requests/a@x.io"},
		{http.MethodGet, "/pendingRequests"},
		{http.MethodPost, "/requests"},
		{http.MethodPatch, "/requests/" + id},
		{http.MethodPatch, "/requestStatusChange/" + id},
		{http.MethodDelete, "/requests/" + id},
		{http.MethodGet, "/requests-export"},
		{http.MethodGet, "/blogs"},
		{http.MethodPost, "/blogs"},
		{http.MethodPatch, "/blogs/" + id},
		{http.MethodDelete, "/blogs/" + id},
		{http.MethodGet, "/allStats"},
	}
	env.queries.Store(0)
	for _, rt := range routes {
		w, body := env.do(t, rt[0], rt[1], "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt[0], rt[1])
		assert.Equal(t, 401, body.Code, "%s %s", rt[0], rt[1])
	}
	assert.Zero(t, env.queries.Load(), "guard must reject before touching the store")
}

func TestInvalidAndRevokedSessions(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/allStats", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "garbage"})
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok, err := env.jwt.Issue("a@x.io")
	require.NoError(t, err)
	claims, err := env.jwt.Parse(tok)
	require.NoError(t, err)
	require.NoError(t, env.revoker.Revoke(context.Background(), claims.ID, time.Hour))

	req = httptest.NewRequest(http.MethodGet, "/allStats", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
	w = httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssueThenAuthenticate(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"new@x.io"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := (&http.Response{Header: w.Header()}).Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, auth.CookieName, ck.Name)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)

	withCookie := func(method, path, body string) *httptest.ResponseRecorder {
		var rd io.Reader
		if body != "" {
			rd = strings.NewReader(body)
		}
		r := httptest.NewRequest(method, path, rd)
		r.AddCookie(ck)
		if body != "" {
			r.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		env.engine.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusNotFound, withCookie(http.MethodGet, "/userStatus/new@x.io", "").Code)

	rec := withCookie(http.MethodPut, "/users/new@x.io", `{"name":"Nadia","bloodType":"AB-"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data struct {
			Created bool        `json:"created"`
			User    domain.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Data.Created)
	assert.Equal(t, domain.RoleDonor, out.Data.User.Role)

	// a repeat login with no body returns the stored record
	rec = withCookie(http.MethodPut, "/users/new@x.io", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Data.Created)
	assert.Equal(t, "Nadia", out.Data.User.Name)

	assert.Equal(t, http.StatusForbidden, withCookie(http.MethodPut, "/users/other@x.io", "").Code)

	rec = withCookie(http.MethodGet, "/userStatus/new@x.io", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"new@x.io","role":"donor","status":"active"}`,
		string(decode(t, rec).Data))

	rec = withCookie(http.MethodGet, "/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := (&http.Response{Header: rec.Header()}).Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
	assert.Equal(t, http.StatusUnauthorized, withCookie(http.MethodGet, "/userStatus/new@x.io", "").Code)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAdminRoutesForbidOthers(t *testing.T) {
	env := newTestEnv(t)
	donor := env.seedUser(t, "donor@x.io", domain.RoleDonor)
	env.seedUser(t, "vol@x.io", domain.RoleVolunteer)
	env.seedUser(t, "admin@x.io", domain.RoleAdmin)

	for _, email := range []string{"donor@x.io", "vol@x.io", "ghost@x.io"} {
		w, body := env.do(t, http.MethodGet, "/users", email, "")
		assert.Equal(t, http.StatusForbidden, w.Code, email)
		assert.Equal(t, 403, body.Code, email)
	}
	w, _ := env.do(t, http.MethodPatch, "/blockUser/"+donor.ID, "vol@x.io", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodGet, "/users?sort=active", "admin@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodPatch, "/blockUser/"+donor.ID, "admin@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	w, body := env.do(t, http.MethodGet, "/users?sort=blocked", "admin@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	var blocked []domain.User
	require.NoError(t, json.Unmarshal(body.Data, &blocked))
	require.Len(t, blocked, 1)
	assert.Equal(t, "donor@x.io", blocked[0].Email)

	w, _ = env.do(t, http.MethodPatch, "/changeRole/"+donor.ID, "admin@x.io", `{"role":"volunteer"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodPatch, "/changeRole/"+donor.ID, "admin@x.io", `{"role":"king"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = env.do(t, http.MethodPatch, "/changeRole/not-a-uuid", "admin@x.io", `{"role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner@x.io", domain.RoleDonor)
	env.seedUser(t, "vol@x.io", domain.RoleVolunteer)

	w, body := env.do(t, http.MethodPost, "/requests", "owner@x.io",
		`{"recipientName":"Rafi","bloodType":"O-","district":"Dhaka","requestMessage":"urgent"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var br domain.BloodRequest
	require.NoError(t, json.Unmarshal(body.Data, &br))
	assert.Equal(t, "owner@x.io", br.RequesterEmail)
	assert.Equal(t, domain.RequestPending, br.Status)

	w, _ = env.do(t, http.MethodGet, "/request/"+br.ID, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodGet, "/request/12345", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = env.do(t, http.MethodGet, "/request/0190c3b6-0000-7000-8000-000000000000", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.do(t, http.MethodPatch, "/requestStatusChange/"+br.ID, "donor@x.io", `{"status":"inprogress"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodPatch, "/requestStatusChange/"+br.ID, "donor@x.io", `{"status":"done"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = env.do(t, http.MethodGet, "/pendingRequests?status=inprogress", "owner@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.BloodRequest
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "donor@x.io", list[0].DonorEmail)

	w, body = env.do(t, http.MethodGet, "/requestsCount", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, string(body.Data))

	w, _ = env.do(t, http.MethodGet, "/requests-export", "owner@x.io", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = env.do(t, http.MethodGet, "/requests-export", "vol@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w, _ = env.do(t, http.MethodDelete, "/requests/"+br.ID, "vol@x.io", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = env.do(t, http.MethodDelete, "/requests/"+br.ID, "owner@x.io", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrivilegedRequestPaging(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@x.io", domain.RoleAdmin)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 15; i++ {
		br := &domain.BloodRequest{RequesterEmail: "d@x.io", Status: domain.RequestPending}
		require.NoError(t, env.repos.Requests.Insert(ctx, br))
		ids = append(ids, br.ID)
	}

	w, body := env.do(t, http.MethodGet, "/requests/admin@x.io?page=1", "admin@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page []domain.BloodRequest
	require.NoError(t, json.Unmarshal(body.Data, &page))
	require.Len(t, page, 5)
	assert.Equal(t, ids[10], page[0].ID)

	// a donor sees only their own, whatever the path says
	w, body = env.do(t, http.MethodGet, "/requests/d@x.io", "other@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine []domain.BloodRequest
	require.NoError(t, json.Unmarshal(body.Data, &mine))
	assert.Empty(t, mine)
}

func TestBlogPublishing(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "writer@x.io", domain.RoleDonor)
	env.seedUser(t, "admin@x.io", domain.RoleAdmin)

	w, body := env.do(t, http.MethodPost, "/blogs", "writer@x.io", `{"title":"Why give","content":"..."}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var b domain.Blog
	require.NoError(t, json.Unmarshal(body.Data, &b))
	assert.Equal(t, domain.BlogDraft, b.Status)

	w, _ = env.do(t, http.MethodPatch, "/blogs/"+b.ID, "writer@x.io", `{"status":"published"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = env.do(t, http.MethodPatch, "/blogs/"+b.ID, "admin@x.io", `{"status":"published"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(body.Data, &b))
	assert.NotNil(t, b.PublishedDate)

	w, body = env.do(t, http.MethodGet, "/blogs?status=published", "writer@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	var blogs []domain.Blog
	require.NoError(t, json.Unmarshal(body.Data, &blogs))
	assert.Len(t, blogs, 1)

	w, body = env.do(t, http.MethodGet, "/blogs?status=draft", "writer@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	blogs = nil
	require.NoError(t, json.Unmarshal(body.Data, &blogs))
	assert.Empty(t, blogs)
}

func TestStatsAndPayments(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "a@x.io", domain.RoleDonor)
	ctx := context.Background()
	for id, amt := range map[string]string{"pi_1": "10.00", "pi_2": "5.50"} {
		_, _, err := env.repos.Payments.InsertIfAbsent(ctx, &domain.Payment{PaymentIntentID: id, Amount: amt})
		require.NoError(t, err)
	}

	w, body := env.do(t, http.MethodGet, "/allStats", "a@x.io", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userCount":1,"requestCount":0,"totalAmount":15.5}`, string(body.Data))

	w, body = env.do(t, http.MethodGet, "/payments", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var pays []domain.Payment
	require.NoError(t, json.Unmarshal(body.Data, &pays))
	assert.Len(t, pays, 2)

	w, _ = env.do(t, http.MethodPost, "/create-payment-intent", "", `{"price":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	// no processor configured in this engine
	w, body = env.do(t, http.MethodPost, "/create-payment-intent", "", `{"price":5}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "payments are not configured", body.Msg)
}

func TestRegions(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.repos.Regions.Save(context.Background(),
		[]domain.District{{ID: "47", Name: "Dhaka"}, {ID: "1", Name: "Comilla"}},
		[]domain.Upazila{
			{ID: "350", DistrictID: "47", Name: "Savar"},
			{ID: "351", DistrictID: "47", Name: "Dhamrai"},
			{ID: "2", DistrictID: "1", Name: "Barura"},
		}))

	w, body := env.do(t, http.MethodGet, "/districts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ds []domain.District
	require.NoError(t, json.Unmarshal(body.Data, &ds))
	assert.Len(t, ds, 2)

	upazilas := func(path string) []domain.Upazila {
		w, body := env.do(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, w.Code, path)
		var us []domain.Upazila
		require.NoError(t, json.Unmarshal(body.Data, &us))
		return us
	}
	assert.Len(t, upazilas("/upazilas/Dhaka"), 2)
	assert.Len(t, upazilas("/upazilas/Nowhere"), 3)
	assert.Len(t, upazilas("/upazilas"), 3)
}

const testWebhookSecret = "whsec_router"

func TestPaymentWebhook(t *testing.T) {
	env := newTestEnv(t, func(d *service.Deps) {
		d.Processor = payment.NewStripe("sk_test_router", testWebhookSecret)
	})
	body := `{"id":"evt_9","object":"event","type":"payment_intent.succeeded",` +
		`"data":{"object":{"id":"pi_9","object":"payment_intent","amount":2500,"amount_received":2500,` +
		`"currency":"usd","status":"succeeded","receipt_email":"g@x.io","metadata":{"name":"Gita"}}}}`

	send := func(payload []byte, sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(string(payload)))
		req.Header.Set("Stripe-Signature", sig)
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, req)
		return w
	}

	w := send([]byte(body), "t=1,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(body), Secret: testWebhookSecret, Timestamp: time.Now(),
	})
	for i := 0; i < 2; i++ {
		w = send(sp.Payload, sp.Header)
		require.Equal(t, http.StatusOK, w.Code, "delivery %d", i)
	}

	pays, err := env.repos.Payments.List(context.Background())
	require.NoError(t, err)
	require.Len(t, pays, 1)
	assert.Equal(t, "pi_9", pays[0].PaymentIntentID)
	assert.Equal(t, "25.00", pays[0].Amount)
	assert.Equal(t, "Gita", pays[0].Name)
}

func TestStoreDeadlineIsGatewayTimeout(t *testing.T) {
	env := newTestEnv(t)
	cfg := &config.Config{Limits: config.Limits{TimeoutSec: 1}}
	e := NewAPIEngine(Deps{Config: cfg, JWT: env.jwt, Services: env.svcs})

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	for _, path := range []string{"/requests", "/requestsCount", "/districts"} {
		req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		assert.Equal(t, http.StatusGatewayTimeout, w.Code, path)
		assert.Contains(t, w.Body.String(), `"code":504`, path)
	}
}

func TestStreamedOversizeBodyIsTooLarge(t *testing.T) {
	env := newTestEnv(t, func(d *service.Deps) {
		d.Processor = payment.NewStripe("sk_test_router", testWebhookSecret)
	})
	cfg := &config.Config{Limits: config.Limits{MaxBodyBytes: 64}}
	e := NewAPIEngine(Deps{Config: cfg, JWT: env.jwt, Services: env.svcs})

	big := `{"price":5,"pad":"` + strings.Repeat("x", 512) + `"}`
	for _, path := range []string{"/payments/webhook", "/create-payment-intent"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(big))
		req.ContentLength = -1
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, path)
		assert.Contains(t, w.Body.String(), `"code":413`, path)
	}
}

func TestConcurrencyWaitIsBoundedByDeadline(t *testing.T) {
	env := newTestEnv(t)
	cfg := &config.Config{Limits: config.Limits{Concurrency: 1, TimeoutSec: 1}}
	e := NewAPIEngine(Deps{Config: cfg, JWT: env.jwt, Services: env.svcs})

	// hold the only slot with a webhook whose body never finishes
	pr, pw := io.Pipe()
	held := make(chan struct{})
	go func() {
		defer close(held)
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/payments/webhook", pr))
	}()
	_, err := pw.Write([]byte("{"))
	require.NoError(t, err)

	got := make(chan int, 1)
	go func() {
		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requestsCount", nil))
		got <- w.Code
	}()
	select {
	case code := <-got:
		assert.Equal(t, http.StatusServiceUnavailable, code)
	case <-time.After(5 * time.Second):
		t.Fatal("request waited for a slot past its deadline")
	}

	require.NoError(t, pw.Close())
	<-held
}
