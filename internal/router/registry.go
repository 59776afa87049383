package router

import "github.com/gin-gonic/gin"

// Module is one API surface (auth, messages, admin, realtime) that mounts
// its own routes and per-route middleware under the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and group-wide middleware, then mounts
// everything in one pass at startup.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use adds middleware applied to the whole /api group, ahead of anything a
// module installs for itself.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts the collected middleware and every module's routes.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
