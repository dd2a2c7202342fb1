package sim

// Middleware defines the actions of a component in a cycle.
type Middleware interface {
	// Tick runs the middleware for one cycle. It returns true if progress is
	// made.
	Tick(ctx *Context) bool
}

// MiddlewareHolder can maintain a list of middleware.
type MiddlewareHolder struct {
	middlewares []Middleware
}

// AddMiddleware adds a middleware to the holder.
func (holder *MiddlewareHolder) AddMiddleware(middleware Middleware) {
	holder.middlewares = append(holder.middlewares, middleware)
}

// Middlewares returns the list of middleware.
func (holder *MiddlewareHolder) Middlewares() []Middleware {
	return holder.middlewares
}

// Tick runs all the middlewares in the order they are added. It returns true
// if any of them made progress.
func (holder *MiddlewareHolder) Tick(ctx *Context) bool {
	progress := false

	for _, middleware := range holder.middlewares {
		if middleware.Tick(ctx) {
			progress = true
		}
	}

	return progress
}
