package ndiproto

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// TestParseTX_SingleProbe is scenario S5: one numeric row, no stray block.
func TestParseTX_SingleProbe(t *testing.T) {
	payload := "01" + // handle count
		"01" + // handle
		"+10000" + "+00000" + "+00000" + "+00000" + // w,x,y,z
		"+0010000" + "+0000000" + "+0000000" + // tx,ty,tz
		"+00100" + // error
		"00000000" + // port status
		"00000001" + // frame number
		"\n" +
		"0000" // system status

	reply, err := ParseTX([]byte(payload), false)
	if err != nil {
		t.Fatalf("ParseTX: %v", err)
	}
	if len(reply.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(reply.Rows))
	}
	row := reply.Rows[0]
	if row.Handle != "01" {
		t.Fatalf("handle = %q, want 01", row.Handle)
	}
	if !row.Pose.Valid {
		t.Fatalf("pose should be valid")
	}
	if !approxEqual(row.Pose.Rotation.Real, 1, 1e-9) {
		t.Fatalf("quaternion = %+v, want identity", row.Pose.Rotation)
	}
	want := r3.Vector{X: 100, Y: 0, Z: 0}
	if !approxEqual(row.Pose.Translation.X, want.X, 1e-9) ||
		!approxEqual(row.Pose.Translation.Y, want.Y, 1e-9) ||
		!approxEqual(row.Pose.Translation.Z, want.Z, 1e-9) {
		t.Fatalf("translation = %+v, want %+v", row.Pose.Translation, want)
	}
	if !approxEqual(row.ErrorRMS, 0.01, 1e-9) {
		t.Fatalf("errorRMS = %v, want 0.01", row.ErrorRMS)
	}
	if row.FrameNumber != 1 {
		t.Fatalf("frame = %d, want 1", row.FrameNumber)
	}
	if reply.SystemStatus != 0 {
		t.Fatalf("system status = %d, want 0", reply.SystemStatus)
	}

	tool := &Tool{TooltipOffset: r3.Vector{X: 0, Y: 0, Z: 5}}
	tool.ApplyTooltipOffset(row.Pose)
	if !tool.TooltipPose.Valid {
		t.Fatalf("tooltip pose should be valid")
	}
	wantTip := r3.Vector{X: 100, Y: 0, Z: 5}
	if !approxEqual(tool.TooltipPose.Translation.X, wantTip.X, 1e-6) ||
		!approxEqual(tool.TooltipPose.Translation.Y, wantTip.Y, 1e-6) ||
		!approxEqual(tool.TooltipPose.Translation.Z, wantTip.Z, 1e-6) {
		t.Fatalf("tooltip translation = %+v, want %+v", tool.TooltipPose.Translation, wantTip)
	}
}

// TestParseTX_StrayMarkers is scenario S6.
func TestParseTX_StrayMarkers(t *testing.T) {
	payload := "01" +
		"01" +
		"+10000" + "+00000" + "+00000" + "+00000" +
		"+0010000" + "+0000000" + "+0000000" +
		"+00100" +
		"00000000" +
		"00000001" +
		"\n" +
		"03" + // stray marker count
		string([]byte{0x0E}) + // packed OOV byte
		"+0012345" + "+0000000" + "+0000000" + // marker 0
		"+0000000" + "+0000000" + "+0000000" + // marker 1
		"+0000100" + "+0000000" + "+0000000" + // marker 2
		"0000"

	reply, err := ParseTX([]byte(payload), true)
	if err != nil {
		t.Fatalf("ParseTX: %v", err)
	}
	if reply.StrayCount != 3 {
		t.Fatalf("strayCount = %d, want 3", reply.StrayCount)
	}
	if reply.Strays[0][0] != 1 || reply.Strays[0][1] != 0 || !approxEqual(reply.Strays[0][2], 123.45, 1e-9) {
		t.Fatalf("row0 = %+v", reply.Strays[0])
	}
	if reply.Strays[1][0] != 1 || reply.Strays[1][1] != 0 {
		t.Fatalf("row1 = %+v", reply.Strays[1])
	}
	if reply.Strays[2][0] != 1 || reply.Strays[2][1] != 1 {
		t.Fatalf("row2 = %+v", reply.Strays[2])
	}
	if reply.Strays[3][0] != 0 {
		t.Fatalf("row3 should be zero, got %+v", reply.Strays[3])
	}
}

// TestParseTX_MissingRow exercises the MISSING shape's invalid pose.
func TestParseTX_MissingRow(t *testing.T) {
	payload := "01" +
		"01" +
		"MISSING" +
		"00000000" +
		"00000001" +
		"\n" +
		"0000"

	reply, err := ParseTX([]byte(payload), false)
	if err != nil {
		t.Fatalf("ParseTX: %v", err)
	}
	if reply.Rows[0].Pose.Valid {
		t.Fatalf("MISSING row should be invalid")
	}
}

// TestParseTX_ZeroHandlesNoStrays is the boundary case: "00" + 4-char
// system status and nothing else.
func TestParseTX_ZeroHandlesNoStrays(t *testing.T) {
	reply, err := ParseTX([]byte("000000"), false)
	if err != nil {
		t.Fatalf("ParseTX: %v", err)
	}
	if len(reply.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(reply.Rows))
	}
}

// TestParseTX_MissingFrameTerminator checks the ProtocolFraming error.
func TestParseTX_MissingFrameTerminator(t *testing.T) {
	payload := "01" +
		"01" +
		"MISSING" +
		"00000000" +
		"00000001" +
		"X" // not a newline
	if _, err := ParseTX([]byte(payload), false); err != ErrProtocolFraming {
		t.Fatalf("err = %v, want ErrProtocolFraming", err)
	}
}
