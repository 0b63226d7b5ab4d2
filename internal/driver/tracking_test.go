package driver

import (
	"testing"

	"go.uber.org/zap"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

func txPayload() string {
	return "01" +
		"01" +
		"+10000" + "+00000" + "+00000" + "+00000" +
		"+0010000" + "+0000000" + "+0000000" +
		"+00100" +
		"00000000" +
		"00000001" +
		"\n" +
		"0000"
}

func TestTrackOnceUpdatesBoundTool(t *testing.T) {
	d := New(DefaultConfig(), zap.NewNop().Sugar(), Events{})
	d.state = Tracking
	tool, _ := d.registry.AddTool("probe", "12345678", "", ndiVector(0, 0, 0))
	d.registry.BindPortHandle("12345678", "01")

	d.link = newFakeLink(scriptedResponse(txPayload()))

	if err := d.trackOnce(); err != nil {
		t.Fatalf("trackOnce: %v", err)
	}
	if !tool.MarkerPose.Valid {
		t.Fatalf("expected marker pose valid")
	}
	if tool.FrameNumber != 1 {
		t.Fatalf("frame number = %d, want 1", tool.FrameNumber)
	}
	if d.droppedTicks != 0 {
		t.Fatalf("droppedTicks = %d, want 0", d.droppedTicks)
	}
}

func TestTrackOnceTimeoutIncrementsDroppedTicks(t *testing.T) {
	d := New(DefaultConfig(), zap.NewNop().Sugar(), Events{})
	d.state = Tracking
	d.link = newFakeLink() // no scripted response: every read times out

	if err := d.trackOnce(); err != ndiproto.ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if d.droppedTicks != 1 {
		t.Fatalf("droppedTicks = %d, want 1", d.droppedTicks)
	}
}

func TestTrackingDisconnectsAfterMaxDroppedTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDroppedTicks = 3
	var connectedEvents []string
	d := New(cfg, zap.NewNop().Sugar(), Events{
		Connected: func(port string) { connectedEvents = append(connectedEvents, port) },
	})
	d.state = Tracking
	d.link = newFakeLink()

	for i := 0; i < 3; i++ {
		_ = d.trackOnce()
	}

	if d.state != Disconnected {
		t.Fatalf("state = %v, want Disconnected", d.state)
	}
	if len(connectedEvents) != 1 || connectedEvents[0] != "" {
		t.Fatalf("connectedEvents = %v, want [\"\"]", connectedEvents)
	}
}
