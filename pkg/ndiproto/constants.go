// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ndiproto

// Command verbs accepted by the device.
const (
	VerbCOMM   = "COMM"
	VerbINIT   = "INIT"
	VerbVER    = "VER"
	VerbPHSR   = "PHSR"
	VerbPHF    = "PHF"
	VerbPINIT  = "PINIT"
	VerbPENA   = "PENA"
	VerbPHRQ   = "PHRQ"
	VerbPVWR   = "PVWR"
	VerbPHINF  = "PHINF"
	VerbTSTART = "TSTART"
	VerbTSTOP  = "TSTOP"
	VerbTX     = "TX"
	VerbBEEP   = "BEEP"
)

// PHSR query codes, selecting which bucket of port handles to report.
const (
	PHSRHandlesToFree       = "01"
	PHSRHandlesToInitialize = "02"
	PHSRHandlesToEnable     = "03"
	PHSRAllHandles          = "00"
)

// TX request option bits.
const (
	TXTransformationData uint16 = 0x0001
	TXStrayMarkers       uint16 = 0x1000
)

// Main type codes reported by PHINF, and the PENA mode byte each maps to.
const (
	MainTypeReference  = "01"
	MainTypeProbe      = "02"
	MainTypeButtonBox  = "03"
	MainTypeSoftware   = "04"
	MainTypeCArm       = "0A"
	PENAModeStatic     = 'S'
	PENAModeDynamic    = 'D'
	PENAModeButton     = 'B'
)

// PENAMode derives the PENA mode byte from a tool's main_type, per the
// device's enable-mode rule. ok is false for unrecognized types.
func PENAMode(mainType string) (mode byte, ok bool) {
	switch mainType {
	case MainTypeReference:
		return PENAModeStatic, true
	case MainTypeProbe, MainTypeSoftware, MainTypeCArm:
		return PENAModeDynamic, true
	case MainTypeButtonBox:
		return PENAModeButton, true
	default:
		return 0, false
	}
}

// COMM link-parameter encodings.
var commBaudCode = map[int]byte{
	9600:   '0',
	19200:  '2',
	38400:  '3',
	57600:  '4',
	115200: '5',
}

var commCharCode = map[int]byte{
	8: '0',
	7: '1',
}

// Parity identifiers for the COMM command and the host-side link config.
type Parity byte

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

var commParityCode = map[Parity]byte{
	ParityNone: '0',
	ParityOdd:  '1',
	ParityEven: '2',
}

var commStopCode = map[int]byte{
	1: '0',
	2: '1',
}

// Flow control identifiers for the COMM command.
type FlowControl byte

const (
	FlowNone FlowControl = iota
	FlowHardware
)

var commFlowCode = map[FlowControl]byte{
	FlowNone:     '0',
	FlowHardware: '1',
}

// LinkParams describes the serial framing negotiated via COMM.
type LinkParams struct {
	BaudRate int
	DataBits int
	Parity   Parity
	StopBits int
	Flow     FlowControl
}

// DefaultBringupParams is the link configuration negotiated during bring-up:
// 115200-8-N-1-NoFlow.
var DefaultBringupParams = LinkParams{
	BaudRate: 115200,
	DataBits: 8,
	Parity:   ParityNone,
	StopBits: 1,
	Flow:     FlowNone,
}

// DiscoveryParams is the fixed 9600-8-N-1-NoFlow link used while scanning
// for the device and awaiting its break-triggered RESET.
var DiscoveryParams = LinkParams{
	BaudRate: 9600,
	DataBits: 8,
	Parity:   ParityNone,
	StopBits: 1,
	Flow:     FlowNone,
}

// FormatCOMMArgs renders the five-character argument string COMM expects,
// e.g. "50000" for 115200-8-N-1-NoFlow. ok is false if any field has no
// known encoding.
func FormatCOMMArgs(p LinkParams) (args string, ok bool) {
	baud, ok1 := commBaudCode[p.BaudRate]
	char, ok2 := commCharCode[p.DataBits]
	parity, ok3 := commParityCode[p.Parity]
	stop, ok4 := commStopCode[p.StopBits]
	flow, ok5 := commFlowCode[p.Flow]
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return "", false
	}
	return string([]byte{baud, char, parity, stop, flow}), true
}
