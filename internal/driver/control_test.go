package driver

import (
	"testing"

	"go.uber.org/zap"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

func newTestDriver() *Driver {
	d := New(DefaultConfig(), zap.NewNop().Sugar(), Events{})
	return d
}

func TestBeepRejectsOutOfRangeWithoutTouchingLink(t *testing.T) {
	d := newTestDriver()
	if err := d.Beep(0); err != ErrInvalidBeepCount {
		t.Fatalf("Beep(0) err = %v, want ErrInvalidBeepCount", err)
	}
	if err := d.Beep(10); err != ErrInvalidBeepCount {
		t.Fatalf("Beep(10) err = %v, want ErrInvalidBeepCount", err)
	}
}

func TestBeepSucceedsAtBoundaries(t *testing.T) {
	for _, n := range []int{1, 9} {
		d := newTestDriver()
		d.state = Ready
		d.link = newFakeLink(scriptedResponse("1"))

		stop := make(chan struct{})
		runMailboxUntil(d, stop)

		if err := d.Beep(n); err != nil {
			t.Fatalf("Beep(%d): %v", n, err)
		}
		close(stop)
	}
}

func TestBeepRetriesOnBusyThenFails(t *testing.T) {
	d := newTestDriver()
	d.state = Ready

	busy := scriptedResponse("0")
	var responses []string
	for i := 0; i < beepMaxRetries; i++ {
		responses = append(responses, busy)
	}
	d.link = newFakeLink(responses...)

	stop := make(chan struct{})
	runMailboxUntil(d, stop)
	defer close(stop)

	if err := d.Beep(5); err != ErrUnexpectedResponse {
		t.Fatalf("err = %v, want ErrUnexpectedResponse", err)
	}
}

func TestToggleTrackingEmitsEvent(t *testing.T) {
	var gotEvents []bool
	d := New(DefaultConfig(), zap.NewNop().Sugar(), Events{
		Tracking: func(on bool) { gotEvents = append(gotEvents, on) },
	})
	d.state = Ready
	d.link = newFakeLink(scriptedResponse("OKAY"))

	stop := make(chan struct{})
	runMailboxUntil(d, stop)
	defer close(stop)

	if err := d.ToggleTracking(true); err != nil {
		t.Fatalf("ToggleTracking(true): %v", err)
	}
	if len(gotEvents) != 1 || gotEvents[0] != true {
		t.Fatalf("events = %v, want [true]", gotEvents)
	}
	if d.state != Tracking {
		t.Fatalf("state = %v, want Tracking", d.state)
	}
}

func TestReportStrayMarkersOneShot(t *testing.T) {
	d := newTestDriver()
	d.state = Tracking

	stop := make(chan struct{})
	runMailboxUntil(d, stop)
	defer close(stop)

	if err := d.ReportStrayMarkers(); err != nil {
		t.Fatalf("ReportStrayMarkers: %v", err)
	}
	if !d.pendingOneShotStray {
		t.Fatalf("expected pendingOneShotStray to be set")
	}
}

// scriptedResponse builds a wire response line with a correctly computed
// CRC, for tests that exercise the real frame-reading path.
func scriptedResponse(payload string) string {
	return payload + ndiproto.FormatCRC(ndiproto.CRC16([]byte(payload))) + "\r"
}
