package ndiproto

import "testing"

func TestBufferResetClearsContent(t *testing.T) {
	var b Buffer
	b.Write([]byte("hello"))
	if b.Len() != 5 {
		t.Fatalf("len = %d, want 5", b.Len())
	}
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("len after reset = %d, want 0", b.Len())
	}
}

func TestBufferWriteOverflowFails(t *testing.T) {
	var b Buffer
	if _, err := b.Write(make([]byte, BufferCapacity+1)); err != ErrShortResponse {
		t.Fatalf("err = %v, want ErrShortResponse", err)
	}
}

func TestBufferTruncate(t *testing.T) {
	var b Buffer
	b.Write([]byte("hello world"))
	b.Truncate(5)
	if string(b.Bytes()) != "hello" {
		t.Fatalf("bytes = %q, want hello", b.Bytes())
	}
}
