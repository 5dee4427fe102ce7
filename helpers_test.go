package display

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phanxgames/display/log"
)

// recorder collects lifecycle events in call order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.mu.Lock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.list() {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) index(event string) int {
	for i, e := range r.list() {
		if e == event {
			return i
		}
	}
	return -1
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// fakeContext is a GraphicsContext that records every call.
type fakeContext struct {
	*HeadlessContext
	rec        *recorder
	createErr  error
	resizeErr  error
	destroyErr error
	destroyed  int
}

func newFakeContext(rec *recorder) *fakeContext {
	return &fakeContext{HeadlessContext: NewHeadless(1920, 1080), rec: rec}
}

func (c *fakeContext) Create(b Rect, opts SurfaceOptions) error {
	c.rec.add("create")
	if c.createErr != nil {
		return c.createErr
	}
	return c.HeadlessContext.Create(b, opts)
}

func (c *fakeContext) Resize(b Rect) error {
	c.rec.add("resize")
	if c.resizeErr != nil {
		return c.resizeErr
	}
	return c.HeadlessContext.Resize(b)
}

func (c *fakeContext) Clear() { c.rec.add("clear") }

func (c *fakeContext) SwapBuffers() {
	c.rec.add("swap")
	c.HeadlessContext.SwapBuffers()
}

func (c *fakeContext) Destroy() error {
	c.rec.add("ctx-destroy")
	c.destroyed++
	if c.destroyErr != nil {
		return c.destroyErr
	}
	return c.HeadlessContext.Destroy()
}

// recSprite records its hooks as "<name>:<hook>".
type recSprite struct {
	name string
	rec  *recorder

	loadErr    error
	repaintErr error
	unloadErr  error
	panicOn    string

	mu       sync.Mutex
	repaints []time.Time
}

func newRecSprite(name string, rec *recorder) *recSprite {
	return &recSprite{name: name, rec: rec}
}

func (s *recSprite) hook(name string, err error) error {
	s.rec.add("%s:%s", s.name, name)
	if s.panicOn == name {
		panic(s.name + " exploded")
	}
	return err
}

func (s *recSprite) Load() error { return s.hook(hookLoad, s.loadErr) }

func (s *recSprite) Repaint(now time.Time) error {
	s.mu.Lock()
	s.repaints = append(s.repaints, now)
	s.mu.Unlock()
	return s.hook(hookRepaint, s.repaintErr)
}

func (s *recSprite) Unload() error { return s.hook(hookUnload, s.unloadErr) }

func (s *recSprite) repaintCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.repaints)
}

// closer records Close and can fail.
type closer struct {
	name string
	rec  *recorder
	err  error
}

func (c *closer) Close() error {
	c.rec.add("%s-close", c.name)
	return c.err
}

type fixedPointer struct{ x, y int }

func (p fixedPointer) Position() (int, int) { return p.x, p.y }

var errBoom = errors.New("boom")

// newTestDisplay builds a display on a recording context and destroys it when
// the test ends.
func newTestDisplay(t *testing.T, cfg Config) (*Display, *fakeContext, *recorder) {
	t.Helper()
	rec := &recorder{}
	ctx := newFakeContext(rec)
	d, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(d.Destroy)
	rec.reset()
	return d, ctx, rec
}

// captureLog redirects log output for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf syncBuffer
	log.SetSink(&buf)
	t.Cleanup(func() { log.SetSink(os.Stderr) })
	return &buf.Buffer
}

type syncBuffer struct {
	mu sync.Mutex
	bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Buffer.Write(p)
}

// withFaultPolicy sets the process-wide policy and restores it afterwards.
func withFaultPolicy(t *testing.T, p FaultPolicy) {
	t.Helper()
	prev := FaultPolicy(faultPolicy.Load())
	SetSpriteFaultPolicy(p)
	t.Cleanup(func() { SetSpriteFaultPolicy(prev) })
}
