package ndiproto

import "testing"

func TestParsePHSR_SingleHandle(t *testing.T) {
	records, err := ParsePHSR([]byte("0101ABC"))
	if err != nil {
		t.Fatalf("ParsePHSR: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Handle != "01" {
		t.Fatalf("handle = %q, want 01", records[0].Handle)
	}
	if records[0].Status != "ABC" {
		t.Fatalf("status = %q, want ABC", records[0].Status)
	}
}

func TestParsePHSR_ZeroHandles(t *testing.T) {
	records, err := ParsePHSR([]byte("00"))
	if err != nil {
		t.Fatalf("ParsePHSR: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
}

func TestParsePHSR_ShortResponse(t *testing.T) {
	if _, err := ParsePHSR([]byte("02" + "01ABC")); err != ErrShortResponse {
		t.Fatalf("err = %v, want ErrShortResponse", err)
	}
}
