package sim

// A Ticker is an object that updates states with ticks.
type Ticker interface {
	// Tick advances the state of the object by one cycle. It returns true if
	// the object made progress in the cycle.
	Tick(ctx *Context) bool
}

// TickerFunc turns a function into a Ticker.
type TickerFunc func(ctx *Context) bool

// Tick calls the function.
func (f TickerFunc) Tick(ctx *Context) bool {
	return f(ctx)
}
