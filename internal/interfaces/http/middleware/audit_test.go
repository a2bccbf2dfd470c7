package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditapp "github.com/pdv/backend/internal/application/audit"
	"github.com/pdv/backend/internal/domain/audit"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type recordingAuditor struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingAuditor) Record(_ context.Context, e audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingAuditor) Entries() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Entry(nil), r.entries...)
}

type failingAuditRepository struct {
	mu    sync.Mutex
	calls int
}

func (r *failingAuditRepository) Create(context.Context, *audit.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return errors.New("audit_logs: connection refused")
}

func (r *failingAuditRepository) FindByID(context.Context, uuid.UUID) (*audit.Log, error) {
	return nil, errors.New("audit_logs: connection refused")
}

func (r *failingAuditRepository) FindAll(context.Context, audit.Filter) ([]*audit.Log, int64, error) {
	return nil, 0, errors.New("audit_logs: connection refused")
}

func (r *failingAuditRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestAudit_RecordsOnlySuccessfulResponses(t *testing.T) {
	jwt := newTestJWT()
	token, claims := issueToken(t, jwt, identity.RoleAdmin)
	recorder := &recordingAuditor{}
	action := audit.NewAction("product", "update")

	router := gin.New()
	router.Use(RequestID())
	api := router.Group("/api/v1", Authenticate(jwt, nil, zap.NewNop()))
	api.PUT("/products/:id", Audit(recorder, action), func(c *gin.Context) {
		if c.Query("fail") != "" {
			AbortWithError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		SetAuditChanges(c, gin.H{"price": "5.00"}, gin.H{"price": "6.00"})
		c.Status(http.StatusOK)
	})
	api.POST("/products", Audit(recorder, audit.NewAction("product", "create")), func(c *gin.Context) {
		SetAuditEntity(c, "new-id")
		SetAuditChanges(c, nil, gin.H{"name": "Pão"})
		c.Status(http.StatusCreated)
	})

	req := bearer(httptest.NewRequest(http.MethodPut, "/api/v1/products/abc?fail=1", nil), token)
	assert.Equal(t, http.StatusNotFound, serve(router, req).Code)
	assert.Empty(t, recorder.Entries())

	req = bearer(httptest.NewRequest(http.MethodPut, "/api/v1/products/abc", nil), token)
	req.Header.Set(RequestIDHeader, "req-42")
	req.Header.Set("User-Agent", "pdv-terminal/1.0")
	assert.Equal(t, http.StatusOK, serve(router, req).Code)

	entries := recorder.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, action, e.Action)
	assert.Equal(t, "abc", e.EntityID)
	assert.Equal(t, "PUT /api/v1/products/abc", e.Description)
	assert.Equal(t, "req-42", e.RequestID)
	assert.Equal(t, "pdv-terminal/1.0", e.UserAgent)
	require.NotNil(t, e.UserID)
	assert.Equal(t, claims.Subject, e.UserID.String())
	assert.Equal(t, gin.H{"price": "5.00"}, e.OldValue)
	assert.Equal(t, gin.H{"price": "6.00"}, e.NewValue)

	req = bearer(httptest.NewRequest(http.MethodPost, "/api/v1/products", nil), token)
	assert.Equal(t, http.StatusCreated, serve(router, req).Code)
	entries = recorder.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "new-id", entries[1].EntityID)
	assert.Nil(t, entries[1].OldValue)
}

func TestAudit_ActorOnPublicRoute(t *testing.T) {
	recorder := &recordingAuditor{}
	userID := uuid.New()

	router := gin.New()
	router.POST("/auth/login", Audit(recorder, audit.NewAction(audit.EntityUser, audit.VerbLogin)), func(c *gin.Context) {
		if c.Query("fail") != "" {
			AbortWithError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		SetAuditActor(c, userID)
		SetAuditEntity(c, userID.String())
		c.Status(http.StatusOK)
	})
	router.POST("/contact", Audit(recorder, audit.NewAction("contact", "create")), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(router, httptest.NewRequest(http.MethodPost, "/auth/login?fail=1", nil)).Code)
	assert.Empty(t, recorder.Entries())

	assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodPost, "/auth/login", nil)).Code)
	assert.Equal(t, http.StatusCreated, serve(router, httptest.NewRequest(http.MethodPost, "/contact", nil)).Code)

	entries := recorder.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "user_login", entries[0].Action.String())
	assert.Equal(t, userID.String(), entries[0].EntityID)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, userID, *entries[0].UserID)
	assert.Nil(t, entries[1].UserID)
}

func TestAudit_StoreFailureKeepsResponse(t *testing.T) {
	repo := &failingAuditRepository{}
	recorder := auditapp.NewRecorder(repo, time.Second, nil, zap.NewNop())
	t.Cleanup(func() { _ = recorder.Close(context.Background()) })

	router := gin.New()
	router.Use(RequestID())
	router.POST("/products", Audit(recorder, audit.NewAction(audit.EntityProduct, audit.VerbCreate)),
		func(c *gin.Context) {
			SetAuditEntity(c, "prod-1")
			SetAuditChanges(c, nil, gin.H{"sku": "PAO-001"})
			c.JSON(http.StatusCreated, gin.H{"status": "success", "data": gin.H{"id": "prod-1", "sku": "PAO-001"}})
		})

	w := serve(router, httptest.NewRequest(http.MethodPost, "/products", nil))
	recorder.Wait()

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", gjson.Get(w.Body.String(), "status").String())
	assert.Equal(t, "prod-1", gjson.Get(w.Body.String(), "data.id").String())
	assert.Equal(t, "PAO-001", gjson.Get(w.Body.String(), "data.sku").String())
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Equal(t, 1, repo.Calls())
	assert.Zero(t, recorder.Pending())
}
