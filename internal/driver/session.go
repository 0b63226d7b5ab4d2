// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	goutils "go.viam.com/utils"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

// State is the session lifecycle enumeration from §3's data model.
type State int

const (
	Disconnected State = iota
	Opening
	Resetting
	Initializing
	Ready
	Tracking
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Opening:
		return "Opening"
	case Resetting:
		return "Resetting"
	case Initializing:
		return "Initializing"
	case Ready:
		return "Ready"
	case Tracking:
		return "Tracking"
	default:
		return "Unknown"
	}
}

// Events carries the optional callbacks a consumer registers for the
// core's published events. Binding these to a transport (IPC, RPC, a
// local channel) is left to the host, per §9's note on duck-typed
// collaborator interfaces becoming a concrete surface.
type Events struct {
	Connected    func(portName string)
	Tracking     func(isTracking bool)
	ToolsUpdated func()

	// VersionInfo surfaces each informational VER reply gathered during
	// bring-up (indices "0", "3", "4", "5"), per the supplemented
	// firmware-version-surfacing feature.
	VersionInfo func(index, payload string)
}

// Snapshot is the atomic-per-field published state a consumer reads,
// taken at the end of the most recently completed tick. It never reflects
// a half-parsed TX reply.
type Snapshot struct {
	State             State
	ToolNames         []string
	IsTracking        bool
	TrackStrayMarkers bool
	StrayMarkers      ndiproto.StrayMarkerRows
	Tools             map[string]ndiproto.Tool
}

// command is one consumer request enqueued on the driver's mailbox and
// drained at the start of a tick.
type command struct {
	run  func(*Driver) error
	done chan error
}

// Driver is the single-threaded cooperative periodic task that owns the
// serial link and all session state. Consumers interact exclusively
// through the command/event surface; the tick loop is the only code that
// ever touches link, buf, or registry.
type Driver struct {
	cfg Config
	log *zap.SugaredLogger

	link ndiproto.Link
	buf  ndiproto.Buffer

	registry *Registry
	events   Events

	state               State
	portName            string
	isTracking          bool
	trackStrayMarkers   bool
	pendingOneShotStray bool
	droppedTicks        int
	lastStrayMarkers    ndiproto.StrayMarkerRows

	mailbox chan command

	mu       sync.RWMutex
	snapshot Snapshot
}

// New constructs a Driver in the Disconnected state. Run must be started
// before any control command will take effect.
func New(cfg Config, log *zap.SugaredLogger, events Events) *Driver {
	return &Driver{
		cfg:      cfg,
		log:      log,
		registry: NewRegistry(),
		events:   events,
		state:    Disconnected,
		mailbox:  make(chan command, 32),
	}
}

// Run starts the tick loop and blocks until ctx is cancelled. It is meant
// to be launched with goutils.PanicCapturingGo from the host.
func (d *Driver) Run(ctx context.Context) {
	period := time.Duration(d.cfg.trackingPeriodMS()) * time.Millisecond
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		if !goutils.SelectContextOrWait(ctx, period) {
			d.closeLinkIfOpen()
			return
		}
		d.drainMailbox()
		d.tick()
		d.publishSnapshot()
	}
}

// drainMailbox runs every command queued since the previous tick, in
// submission order, before the tick's tracking round.
func (d *Driver) drainMailbox() {
	for {
		select {
		case cmd := <-d.mailbox:
			err := cmd.run(d)
			if cmd.done != nil {
				cmd.done <- err
			}
		default:
			return
		}
	}
}

// submit enqueues fn on the mailbox and blocks until it has run.
func (d *Driver) submit(fn func(*Driver) error) error {
	done := make(chan error, 1)
	d.mailbox <- command{run: fn, done: done}
	return <-done
}

// tick runs one iteration of the cooperative loop: if Tracking, issue one
// TX round-trip; otherwise there is nothing to do until a command arrives.
func (d *Driver) tick() {
	if d.state != Tracking {
		return
	}
	if err := d.trackOnce(); err != nil {
		d.log.Debugw("tracking tick dropped", "error", err)
	}
}

func (d *Driver) closeLinkIfOpen() {
	if d.link == nil {
		return
	}
	if closer, ok := d.link.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	d.link = nil
}

// publishSnapshot copies the current session state into the
// consumer-visible Snapshot under the snapshot lock.
func (d *Driver) publishSnapshot() {
	tools := make(map[string]ndiproto.Tool, len(d.registry.order))
	for _, name := range d.registry.order {
		tools[name] = *d.registry.byName[name]
	}

	snap := Snapshot{
		State:             d.state,
		ToolNames:         d.registry.ToolNames(),
		IsTracking:        d.isTracking,
		TrackStrayMarkers: d.trackStrayMarkers,
		Tools:             tools,
	}
	if d.state == Tracking {
		snap.StrayMarkers = d.lastStrayMarkers
	}

	d.mu.Lock()
	d.snapshot = snap
	d.mu.Unlock()
}

// Snapshot returns the most recently published state.
func (d *Driver) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot
}

func (d *Driver) setState(s State) {
	d.state = s
	d.log.Infow("state transition", "state", s.String())
}

func (d *Driver) emitConnected(port string) {
	if d.events.Connected != nil {
		d.events.Connected(port)
	}
}

func (d *Driver) emitTracking(on bool) {
	if d.events.Tracking != nil {
		d.events.Tracking(on)
	}
}

func (d *Driver) emitToolsUpdated() {
	if d.events.ToolsUpdated != nil {
		d.events.ToolsUpdated()
	}
}
