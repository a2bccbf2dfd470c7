package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type itemBody struct {
	ProductID string          `json:"productId" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gt=0"`
}

type orderBody struct {
	Items  []itemBody      `json:"items" binding:"required,min=1,dive"`
	Amount decimal.Decimal `json:"amount" binding:"gte=0"`
	Due    string          `json:"due" binding:"omitempty,datetime=2006-01-02"`
}

type pageQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Status string `form:"status" binding:"omitempty,oneof=open closed"`
}

func validationRouter(reached *bool) *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/login", func(c *gin.Context) {
		var req loginBody
		if !BindJSON(c, &req) {
			return
		}
		*reached = true
		c.JSON(http.StatusOK, req)
	})
	router.POST("/orders", func(c *gin.Context) {
		var req orderBody
		if !BindJSON(c, &req) {
			return
		}
		*reached = true
		c.Status(http.StatusOK)
	})
	router.GET("/items", func(c *gin.Context) {
		var q pageQuery
		if !BindQuery(c, &q) {
			return
		}
		*reached = true
		c.Status(http.StatusOK)
	})
	router.GET("/items/:id", func(c *gin.Context) {
		id, ok := ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		*reached = true
		c.String(http.StatusOK, id.String())
	})
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return serve(router, req)
}

func TestBindJSON_EnumeratesEveryViolation(t *testing.T) {
	reached := false
	router := validationRouter(&reached)

	w := post(router, "/login", `{"email":"not-an-email","password":"ab"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, reached, "handler must not run")
	body := w.Body.String()
	assert.Equal(t, "error", gjson.Get(body, "status").String())
	assert.Equal(t, "Validation failed", gjson.Get(body, "message").String())
	assert.Equal(t, int64(2), gjson.Get(body, "errors.#").Int())
	assert.Equal(t, "Invalid email format", gjson.Get(body, `errors.#(field=="email").message`).String())
	assert.Equal(t, "Must be at least 6 characters", gjson.Get(body, `errors.#(field=="password").message`).String())
}

func TestBindJSON_Success(t *testing.T) {
	reached := false
	router := validationRouter(&reached)

	w := post(router, "/login", `{"email":"ana@padaria.com","password":"secret1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.Equal(t, "ana@padaria.com", gjson.Get(w.Body.String(), "email").String())
}

func TestBindJSON_MalformedBody(t *testing.T) {
	reached := false
	router := validationRouter(&reached)

	w := post(router, "/login", `{"email":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, reached)
	body := w.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "errors.#").Int())
	assert.Equal(t, "body", gjson.Get(body, "errors.0.field").String())
}

func TestBindJSON_WrongType(t *testing.T) {
	reached := false
	router := validationRouter(&reached)

	w := post(router, "/login", `{"email":42,"password":"secret1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", gjson.Get(w.Body.String(), "errors.0.field").String())
}

func TestBindJSON_NestedAndDecimalRules(t *testing.T) {
	reached := false
	router := validationRouter(&reached)

	w := post(router, "/orders", `{"items":[{"productId":"x","quantity":0}],"amount":-1,"due":"15/06/2024"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Equal(t, "Invalid UUID format", gjson.Get(body, `errors.#(field=="items[0].productId").message`).String())
	assert.Equal(t, "Must be greater than 0", gjson.Get(body, `errors.#(field=="items[0].quantity").message`).String())
	assert.Equal(t, "Must be greater than or equal to 0", gjson.Get(body, `errors.#(field=="amount").message`).String())
	assert.Equal(t, "Must be a date in YYYY-MM-DD format", gjson.Get(body, `errors.#(field=="due").message`).String())

	w = post(router, "/orders", `{"items":[],"amount":"10.50"}`)
	assert.Equal(t, "Must contain at least 1 items", gjson.Get(w.Body.String(), `errors.#(field=="items").message`).String())

	w = post(router, "/orders", `{"items":[{"productId":"`+uuid.NewString()+`","quantity":"0.5"}],"amount":"10.50","due":"2024-06-15"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
}

func TestBindQuery(t *testing.T) {
	reached := false
	router := validationRouter(&reached)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/items?page=0&status=lost", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, reached)
	body := w.Body.String()
	assert.Equal(t, "Must be at least 1", gjson.Get(body, `errors.#(field=="page").message`).String())
	assert.Equal(t, "Must be one of: open closed", gjson.Get(body, `errors.#(field=="status").message`).String())

	w = serve(router, httptest.NewRequest(http.MethodGet, "/items?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "query", gjson.Get(w.Body.String(), "errors.0.field").String())

	w = serve(router, httptest.NewRequest(http.MethodGet, "/items?page=2&status=open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseUUIDParam(t *testing.T) {
	reached := false
	router := validationRouter(&reached)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/items/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", gjson.Get(w.Body.String(), "errors.0.field").String())
	assert.False(t, reached)

	id := uuid.New()
	w = serve(router, httptest.NewRequest(http.MethodGet, "/items/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())
}
