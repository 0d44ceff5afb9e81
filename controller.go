package dispersion

import (
	"context"
	"image"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultQueueSize = 16

// ControllerConfig configures a Controller. Zero values select defaults.
type ControllerConfig struct {
	// Factory configures sampling for every effect the controller prepares.
	Factory FactoryConfig
	// Workers is the number of preparation goroutines. Zero means 1.
	Workers int
	// QueueSize bounds the number of queued preparations. Zero means 16.
	QueueSize int
	// Duration is the length of animations started by Animate, in seconds.
	// Zero means 2.
	Duration float32
	// Easing shapes animations started by Animate. Nil means ease.InOutSine.
	Easing ease.TweenFunc
	// Logger receives lifecycle logs. Nil means the package Logger.
	Logger *zap.Logger
	// Events, when set, receives lifecycle events.
	Events EventSink
}

// entry is an installed effect.
type entry struct {
	effect Effect
	gen    uint64
	anim   *Animation
}

type job[K comparable] struct {
	key K
	gen uint64
	in  Input
}

type result[K comparable] struct {
	key    K
	gen    uint64
	effect Effect
}

// Controller keeps at most one active effect per key and prepares new
// effects on a pool of worker goroutines.
//
// Every method except Close must be called from the goroutine that owns the
// controller (the host's update/draw loop). Workers only ever touch the
// immutable Input they were given; finished effects are handed back through
// a channel and installed by Update. Each preparation carries a generation
// number, and a result whose generation is no longer the pending one for its
// key is cleared and dropped instead of installed.
type Controller[K comparable] struct {
	factory  *Factory
	log      *zap.Logger
	events   EventSink
	duration float32
	easing   ease.TweenFunc

	running    map[K]*entry
	pending    map[K]uint64
	callbacks  map[uint64]func(Effect)
	generation uint64

	ctx     context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group
	jobs    chan job[K]
	results chan result[K]
	closed  bool
}

// NewController creates a controller and starts its workers. The workers
// stop when ctx is cancelled or Close is called.
func NewController[K comparable](ctx context.Context, cfg ControllerConfig) *Controller[K] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	c := &Controller[K]{
		factory:   NewFactory(cfg.Factory),
		log:       cfg.Logger,
		events:    cfg.Events,
		duration:  cfg.Duration,
		easing:    cfg.Easing,
		running:   make(map[K]*entry),
		pending:   make(map[K]uint64),
		callbacks: make(map[uint64]func(Effect)),
		ctx:       gctx,
		cancel:    cancel,
		group:     g,
		jobs:      make(chan job[K], cfg.QueueSize),
		results:   make(chan result[K], cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error { return c.work(gctx) })
	}
	return c
}

// Factory returns the factory used for preparations.
func (c *Controller[K]) Factory() *Factory {
	return c.factory
}

// Get returns the active effect for key, or nil.
func (c *Controller[K]) Get(key K) Effect {
	if en, ok := c.running[key]; ok {
		return en.effect
	}
	return nil
}

// IsRunning reports whether key has an active effect.
func (c *Controller[K]) IsRunning(key K) bool {
	_, ok := c.running[key]
	return ok
}

// IsPending reports whether a preparation for key is in flight.
func (c *Controller[K]) IsPending(key K) bool {
	_, ok := c.pending[key]
	return ok
}

// IsPendingOrRunning reports whether key is pending or running.
func (c *Controller[K]) IsPendingOrRunning(key K) bool {
	return c.IsPending(key) || c.IsRunning(key)
}

// Len returns the number of active effects.
func (c *Controller[K]) Len() int {
	return len(c.running)
}

// Keys returns the keys with an active effect, in no particular order.
func (c *Controller[K]) Keys() []K {
	keys := make([]K, 0, len(c.running))
	for k := range c.running {
		keys = append(keys, k)
	}
	return keys
}

// SetProgress sets the progress of key's active effect, if any.
func (c *Controller[K]) SetProgress(key K, p float64) {
	if en, ok := c.running[key]; ok {
		en.effect.SetProgress(clamp01(p))
	}
}

// Progress returns the progress of key's active effect, or def.
func (c *Controller[K]) Progress(key K, def float64) float64 {
	if en, ok := c.running[key]; ok {
		return en.effect.Progress()
	}
	return def
}

// Clear drops any pending preparation for key and clears its active effect.
func (c *Controller[K]) Clear(key K) {
	delete(c.pending, key)
	en, ok := c.running[key]
	if !ok {
		return
	}
	delete(c.running, key)
	bounds := en.effect.Bounds()
	en.effect.Clear()
	c.log.Debug("cleared effect", zap.Any("key", key), zap.Uint64("generation", en.gen))
	c.emit(EventCleared, key, en.gen, bounds)
}

// Prepare builds an effect for key synchronously and installs it, replacing
// any active effect. A pending asynchronous preparation for key is
// superseded. It returns nil, installing nothing, when in yields no effect.
func (c *Controller[K]) Prepare(key K, in Input) Effect {
	delete(c.pending, key)
	c.generation++
	gen := c.generation
	e := c.factory.Build(in)
	if e == nil {
		return nil
	}
	c.install(key, gen, e)
	return e
}

// PrepareAsync queues a preparation for key on the worker pool. onPrepared
// (which may be nil) is called from a later Update with the installed
// effect, or with nil when in yielded no effect or the preparation was
// superseded by another Prepare, PrepareAsync or Clear for the same key.
// When the controller is closed or its queue is full, onPrepared receives
// nil before PrepareAsync returns.
func (c *Controller[K]) PrepareAsync(key K, in Input, onPrepared func(Effect)) {
	c.generation++
	gen := c.generation
	c.pending[key] = gen
	if onPrepared != nil {
		c.callbacks[gen] = onPrepared
	}
	if c.closed || c.ctx.Err() != nil {
		c.complete(result[K]{key: key, gen: gen})
		return
	}
	c.log.Debug("queued preparation", zap.Any("key", key), zap.Uint64("generation", gen))
	select {
	case c.jobs <- job[K]{key: key, gen: gen, in: in}:
	default:
		c.log.Warn("preparation queue full", zap.Any("key", key), zap.Uint64("generation", gen))
		c.complete(result[K]{key: key, gen: gen})
	}
}

// Animate prepares an effect for key asynchronously and, once installed,
// runs it from progress 0 to 1 over the configured duration. The effect is
// cleared when the animation finishes. It does nothing if key is already
// running.
func (c *Controller[K]) Animate(key K, in Input) {
	if c.IsRunning(key) {
		return
	}
	c.PrepareAsync(key, in, func(e Effect) {
		if e != nil {
			c.Start(key)
		}
	})
}

// Start begins animating key's active effect. It reports false when key has
// no active effect.
func (c *Controller[K]) Start(key K) bool {
	en, ok := c.running[key]
	if !ok {
		return false
	}
	en.anim = Animate(en.effect, c.duration, c.easing)
	c.emit(EventStarted, key, en.gen, en.effect.Bounds())
	return true
}

// Update installs finished preparations and advances animations by dt
// seconds. Call it once per frame.
func (c *Controller[K]) Update(dt float32) {
	c.drain()
	for key, en := range c.running {
		if en.anim == nil {
			continue
		}
		en.anim.Update(dt)
		if en.anim.Done {
			en.anim = nil
			c.emit(EventFinished, key, en.gen, en.effect.Bounds())
			c.Clear(key)
		}
	}
}

// DrawAt draws key's active effect onto s with its origin at (x, y).
func (c *Controller[K]) DrawAt(s Surface, key K, x, y float32) {
	if en, ok := c.running[key]; ok {
		en.effect.Draw(Translate(s, x, y))
	}
}

// Close stops the workers, waits for them to exit and clears every active
// effect. Preparations still queued or in flight are discarded: their
// onPrepared callbacks receive nil and nothing stays pending.
func (c *Controller[K]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.jobs)
	c.cancel()
	err := c.group.Wait()

	// With pending emptied, every result takes the discard path.
	abandoned := c.pending
	c.pending = make(map[K]uint64)
drain:
	for {
		select {
		case r := <-c.results:
			if gen, ok := abandoned[r.key]; ok && gen == r.gen {
				delete(abandoned, r.key)
			}
			c.complete(r)
		default:
			break drain
		}
	}
	// Jobs that never reached a worker.
	for key, gen := range abandoned {
		c.complete(result[K]{key: key, gen: gen})
	}
	// Superseded generations whose results a worker dropped on cancel.
	for gen, cb := range c.callbacks {
		delete(c.callbacks, gen)
		cb(nil)
	}

	for key := range c.running {
		c.Clear(key)
	}
	return err
}

// drain completes every result that has arrived, without blocking.
func (c *Controller[K]) drain() {
	for {
		select {
		case r := <-c.results:
			c.complete(r)
		default:
			return
		}
	}
}

// complete installs r if it is still the pending preparation for its key and
// discards it otherwise.
func (c *Controller[K]) complete(r result[K]) {
	cb := c.callbacks[r.gen]
	delete(c.callbacks, r.gen)

	if gen, ok := c.pending[r.key]; !ok || gen != r.gen {
		if r.effect != nil {
			r.effect.Clear()
		}
		c.log.Debug("discarded stale preparation", zap.Any("key", r.key), zap.Uint64("generation", r.gen))
		c.emit(EventDiscarded, r.key, r.gen, image.Rectangle{})
		if cb != nil {
			cb(nil)
		}
		return
	}

	delete(c.pending, r.key)
	if r.effect != nil {
		c.install(r.key, r.gen, r.effect)
	}
	if cb != nil {
		cb(r.effect)
	}
}

// install makes e the active effect for key, clearing any previous one.
func (c *Controller[K]) install(key K, gen uint64, e Effect) {
	if _, ok := c.running[key]; ok {
		c.Clear(key)
	}
	c.running[key] = &entry{effect: e, gen: gen}
	c.log.Debug("installed effect",
		zap.Any("key", key),
		zap.Uint64("generation", gen),
		zap.Stringer("bounds", e.Bounds()))
	c.emit(EventPrepared, key, gen, e.Bounds())
}

// work runs on a worker goroutine until the job channel closes or ctx ends.
func (c *Controller[K]) work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j, ok := <-c.jobs:
			if !ok {
				return nil
			}
			e := c.build(j)
			select {
			case c.results <- result[K]{key: j.key, gen: j.gen, effect: e}:
			case <-ctx.Done():
				if e != nil {
					e.Clear()
				}
				return nil
			}
		}
	}
}

// build runs the factory, turning a panic into a nil effect.
func (c *Controller[K]) build(j job[K]) (e Effect) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("prepare effect",
				zap.Any("key", j.key),
				zap.Uint64("generation", j.gen),
				zap.Any("panic", r))
			e = nil
		}
	}()
	return c.factory.Build(j.in)
}

func (c *Controller[K]) emit(t EventType, key K, gen uint64, b image.Rectangle) {
	if c.events == nil {
		return
	}
	c.events.EmitEvent(EffectEvent{Type: t, Key: key, Generation: gen, Bounds: b})
}
