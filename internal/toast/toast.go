// Package toast shows transient, auto-dismissing messages in a single
// bubble. A new message interrupts whatever the bubble is doing and
// restarts its sequence: slide in, dwell, slide out.
package toast

import (
	"math"
	"sync"
	"time"
)

const (
	// DefaultDwell is how long the bubble stays fully visible.
	DefaultDwell = 2000 * time.Millisecond
	// DefaultTransition is the duration of each slide.
	DefaultTransition = 400 * time.Millisecond
	// DefaultHeight is the bubble height in rows.
	DefaultHeight = 3
)

// Phase is the step of the sequence the bubble is in.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseEntering
	PhaseHolding
	PhaseLeaving
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseHolding:
		return "holding"
	case PhaseLeaving:
		return "leaving"
	default:
		return "hidden"
	}
}

// Bubble is the rendered state of the bubble at one instant.
// Offset is how far below its resting place the bubble sits; Height means
// fully off-screen.
type Bubble struct {
	Exists  bool
	Visible bool
	Message string
	Phase   Phase
	Offset  float64
	Opacity float64
	Height  float64
}

// Surface is where the bubble node lives. It is called only from Notify.
type Surface interface {
	HasBubble() bool
	CreateBubble(message string)
	SetBubbleText(message string)
}

// Options configures a Notifier. Zero values take the defaults.
type Options struct {
	Clock      Clock
	Surface    Surface
	Dwell      time.Duration
	Transition time.Duration
	Height     float64
	// OnShow observes every message passed to Notify.
	OnShow func(message string)
}

type frame struct {
	offset  float64
	opacity float64
}

type step struct {
	phase    Phase
	duration time.Duration
	from     frame
	to       frame
}

type task struct {
	id      int
	steps   []step
	index   int
	started time.Time
	timer   Timer
}

func (t *task) current() step { return t.steps[t.index] }

// Notifier owns the single bubble.
type Notifier struct {
	mu      sync.Mutex
	opts    Options
	created bool
	message string
	frame   frame
	task    *task
	nextID  int
}

// New returns a Notifier with opts applied over the defaults.
func New(opts Options) *Notifier {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Dwell <= 0 {
		opts.Dwell = DefaultDwell
	}
	if opts.Transition <= 0 {
		opts.Transition = DefaultTransition
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	return &Notifier{opts: opts}
}

// SetSurface moves the bubble to a new surface, such as a reloaded page.
// The next Notify creates the bubble there.
func (n *Notifier) SetSurface(s Surface) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opts.Surface = s
	n.created = false
}

// Notify shows message, replacing any message currently on display.
func (n *Notifier) Notify(message string) {
	n.mu.Lock()
	n.ensureBubble(message)
	n.message = message
	n.stop()
	n.start()
	onShow := n.opts.OnShow
	n.mu.Unlock()

	if onShow != nil {
		onShow(message)
	}
}

func (n *Notifier) hidden() frame {
	return frame{offset: n.opts.Height, opacity: 0}
}

// ensureBubble reuses the existing bubble or creates one off-screen.
func (n *Notifier) ensureBubble(message string) {
	exists := n.created
	if s := n.opts.Surface; s != nil {
		exists = s.HasBubble()
	}
	if exists {
		if s := n.opts.Surface; s != nil {
			s.SetBubbleText(message)
		}
		n.created = true
		return
	}
	if s := n.opts.Surface; s != nil {
		s.CreateBubble(message)
	}
	n.created = true
	n.frame = n.hidden()
}

// stop cancels the running task and jumps its current step to its end.
func (n *Notifier) stop() {
	if n.task == nil {
		return
	}
	if n.task.timer != nil {
		n.task.timer.Stop()
	}
	n.frame = n.task.current().to
	n.task = nil
}

func (n *Notifier) start() {
	shown := frame{offset: 0, opacity: 1}
	n.nextID++
	n.task = &task{
		id: n.nextID,
		steps: []step{
			{phase: PhaseEntering, duration: n.opts.Transition, from: n.frame, to: shown},
			{phase: PhaseHolding, duration: n.opts.Dwell, from: shown, to: shown},
			{phase: PhaseLeaving, duration: n.opts.Transition, from: shown, to: n.hidden()},
		},
	}
	n.schedule()
}

func (n *Notifier) schedule() {
	t := n.task
	t.started = n.opts.Clock.Now()
	id := t.id
	t.timer = n.opts.Clock.AfterFunc(t.current().duration, func() { n.advance(id) })
}

func (n *Notifier) advance(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.task == nil || n.task.id != id {
		return
	}
	n.frame = n.task.current().to
	n.task.index++
	if n.task.index == len(n.task.steps) {
		n.task = nil
		return
	}
	n.schedule()
}

// Animating reports whether a sequence is in progress.
func (n *Notifier) Animating() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.task != nil
}

// Message returns the text currently held by the bubble.
func (n *Notifier) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// Snapshot returns the bubble state at the clock's current time.
func (n *Notifier) Snapshot() Bubble {
	n.mu.Lock()
	defer n.mu.Unlock()

	b := Bubble{
		Exists:  n.created,
		Message: n.message,
		Height:  n.opts.Height,
		Phase:   PhaseHidden,
		Offset:  n.frame.offset,
		Opacity: n.frame.opacity,
	}
	if n.task == nil {
		return b
	}

	s := n.task.current()
	p := 1.0
	if s.duration > 0 {
		p = float64(n.opts.Clock.Now().Sub(n.task.started)) / float64(s.duration)
	}
	e := swing(clamp(p))
	b.Phase = s.phase
	b.Visible = true
	b.Offset = s.from.offset + (s.to.offset-s.from.offset)*e
	b.Opacity = s.from.opacity + (s.to.opacity-s.from.opacity)*e
	return b
}

// swing is the default easing of the original animations.
func swing(p float64) float64 {
	return 0.5 - math.Cos(p*math.Pi)/2
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
