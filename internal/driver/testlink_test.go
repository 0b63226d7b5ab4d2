package driver

import (
	"bytes"
	"time"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

// fakeLink is a scripted in-memory ndiproto.Link for driver-level tests.
// Responses are queued in order; each ReadByte call drains the front of
// the current response.
type fakeLink struct {
	written   bytes.Buffer
	responses [][]byte
	closed    bool
}

func newFakeLink(responses ...string) *fakeLink {
	f := &fakeLink{}
	for _, r := range responses {
		f.responses = append(f.responses, []byte(r))
	}
	return f
}

func (f *fakeLink) Write(p []byte) (int, error) {
	return f.written.Write(p)
}

func (f *fakeLink) ReadByte() (byte, error) {
	for len(f.responses) > 0 && len(f.responses[0]) == 0 {
		f.responses = f.responses[1:]
	}
	if len(f.responses) == 0 {
		return 0, ndiproto.ErrTimeout
	}
	b := f.responses[0][0]
	f.responses[0] = f.responses[0][1:]
	return b, nil
}

func (f *fakeLink) SetReadTimeout(d time.Duration) error { return nil }
func (f *fakeLink) SetMode(p ndiproto.LinkParams) error  { return nil }
func (f *fakeLink) Break(d time.Duration) error          { return nil }
func (f *fakeLink) Close() error {
	f.closed = true
	return nil
}

// runMailboxUntil drains d's mailbox in the background until stop is
// closed, standing in for the Run() tick loop so submit()-based control
// calls in tests don't block forever.
func runMailboxUntil(d *Driver, stop <-chan struct{}) {
	go func() {
		for {
			select {
			case cmd := <-d.mailbox:
				err := cmd.run(d)
				if cmd.done != nil {
					cmd.done <- err
				}
			case <-stop:
				return
			}
		}
	}()
}
