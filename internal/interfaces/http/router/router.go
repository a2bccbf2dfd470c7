package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on a gin group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects route groups and mounts them under /api/<version>.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAPIVersion overrides the default "v1" path segment.
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware to every versioned route; /health, /metrics and
// /swagger live on the engine and are not affected.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registered group. Call it once, after all Register calls.
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Routes lists "METHOD /api/<version>/path" for every route declared through
// a DomainGroup.
func (r *Router) Routes() []string {
	var out []string
	for _, registrar := range r.registrars {
		if g, ok := registrar.(*DomainGroup); ok {
			g.walk(r.BasePath(), func(method, fullPath string) {
				out = append(out, method+" "+fullPath)
			})
		}
	}
	return out
}

// BasePath is the prefix shared by all registered groups.
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// DomainGroup is a declarative route table for one area of the API (sales,
// financial, settings). Routes are mounted only when RegisterRoutes runs, so
// middleware added with Use applies regardless of declaration order.
type DomainGroup struct {
	name       string
	prefix     string
	routes     []route
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group and, through nesting, its subgroups.
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, relativePath string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: relativePath, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, relativePath, handlers)
}

func (dg *DomainGroup) POST(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, relativePath, handlers)
}

func (dg *DomainGroup) PUT(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, relativePath, handlers)
}

func (dg *DomainGroup) PATCH(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, relativePath, handlers)
}

// Group nests a subgroup under this group's prefix.
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	sub := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes implements RouteRegistrar.
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, sub := range dg.subgroups {
		sub.RegisterRoutes(group)
	}
}

// Routes lists "METHOD /path" for every route in the group and its
// subgroups, relative to the group's parent.
func (dg *DomainGroup) Routes() []string {
	var out []string
	dg.walk("/", func(method, fullPath string) {
		out = append(out, method+" "+fullPath)
	})
	return out
}

func (dg *DomainGroup) walk(parent string, fn func(method, fullPath string)) {
	base := path.Join(parent, dg.prefix)
	for _, rt := range dg.routes {
		fn(rt.method, joinRoute(base, rt.path))
	}
	for _, sub := range dg.subgroups {
		sub.walk(base, fn)
	}
}

// joinRoute keeps gin's behaviour of an empty relative path mapping onto the
// group path itself.
func joinRoute(base, relativePath string) string {
	if relativePath == "" {
		return base
	}
	return path.Join(base, relativePath)
}

func (dg *DomainGroup) Name() string {
	return dg.name
}

func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
