package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	t.Run("registers routes under version prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		group := NewDomainGroup("billing", "/billing")
		group.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		r.Register(group).Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/ping", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})

	t.Run("honors custom api version", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v2"))

		group := NewDomainGroup("system", "/system")
		group.GET("/ping", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		r.Register(group).Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v2/system/ping", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDomainGroup(t *testing.T) {
	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		group := NewDomainGroup("directory", "/directory")
		group.Use(func(c *gin.Context) {
			c.Writer.Header().Set("X-Domain", "directory")
			c.Next()
		})
		group.GET("/owners", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		r.Register(group).Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/directory/owners", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, "directory", w.Header().Get("X-Domain"))
	})

	t.Run("registers all methods", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		handler := func(c *gin.Context) { c.Status(http.StatusOK) }
		group := NewDomainGroup("billing", "/billing")
		group.POST("/invoices", handler).
			GET("/invoices", handler).
			PUT("/invoices/:id/notes", handler).
			DELETE("/invoices/:id", handler)

		r.Register(group).Setup()

		for _, tc := range []struct {
			method string
			path   string
		}{
			{http.MethodPost, "/api/v1/billing/invoices"},
			{http.MethodGet, "/api/v1/billing/invoices"},
			{http.MethodPut, "/api/v1/billing/invoices/42/notes"},
			{http.MethodDelete, "/api/v1/billing/invoices/42"},
		} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		}

		assert.Equal(t, "billing", group.Name())
		assert.Equal(t, "/billing", group.Prefix())
	})
}
