package ndiproto

import "testing"

func TestCRC16_OKAY(t *testing.T) {
	got := CRC16([]byte("OKAY"))
	if got != 0xA896 {
		t.Fatalf("CRC16(OKAY) = %04X, want A896", got)
	}
	if FormatCRC(got) != "A896" {
		t.Fatalf("FormatCRC(%04X) = %s, want A896", got, FormatCRC(got))
	}
}

func TestFormatParseCRCRoundTrip(t *testing.T) {
	for _, crc := range []uint16{0x0000, 0x0001, 0xA896, 0xFFFF, 0x1234} {
		s := FormatCRC(crc)
		got, err := ParseCRC(s)
		if err != nil {
			t.Fatalf("ParseCRC(%s): %v", s, err)
		}
		if got != crc {
			t.Fatalf("round trip %04X -> %s -> %04X", crc, s, got)
		}
	}
}

func TestParseCRCRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "ABC", "ABCDE", "GHIJ", "abcz"} {
		if _, err := ParseCRC(s); err == nil {
			t.Fatalf("ParseCRC(%q) should have failed", s)
		}
	}
}
