package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello", 100, 10)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Fatalf("got %v", chunks)
	}
}

func TestSplitTextChunksAndOverlap(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := SplitText(text, 100, 20)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks[:2] {
		if len(c) != 100 {
			t.Errorf("chunk %d length = %d, want 100", i, len(c))
		}
	}
}

func TestSplitTextMultibyteSafe(t *testing.T) {
	text := strings.Repeat("я", 10)
	chunks := SplitText(text, 4, 0)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if strings.Contains(c, "�") {
			t.Errorf("chunk %d contains a broken rune: %q", i, c)
		}
	}
	if strings.Join(chunks, "") != text {
		t.Error("chunks do not reassemble the input")
	}
}

func TestChunkReply(t *testing.T) {
	short := ChunkReply("fits in one message")
	if len(short) != 1 {
		t.Fatalf("got %d chunks, want 1", len(short))
	}

	long := ChunkReply(strings.Repeat("b", MaxMessageRunes+1))
	if len(long) != 2 {
		t.Fatalf("got %d chunks, want 2", len(long))
	}
	if len(long[0]) != MaxMessageRunes {
		t.Errorf("first chunk length = %d, want %d", len(long[0]), MaxMessageRunes)
	}
}
