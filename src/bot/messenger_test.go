package bot

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessage_ShortTextIsSingleChunk(t *testing.T) {
	chunks := SplitMessage("hello", 100)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Fatalf("expected single untouched chunk, got %#v", chunks)
	}
}

func TestSplitMessage_PrefersNewlineBoundaries(t *testing.T) {
	lines := []string{
		"line one is here",
		"line two is here",
		"line three is here",
	}
	text := strings.Join(lines, "\n")

	chunks := SplitMessage(text, len(lines[0])+len(lines[1])+5)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %#v", len(chunks), chunks)
	}
	for _, chunk := range chunks {
		for _, line := range strings.Split(chunk, "\n") {
			found := false
			for _, want := range lines {
				if line == want {
					found = true
				}
			}
			if !found {
				t.Fatalf("line broken mid-way: %q", line)
			}
		}
	}
}

func TestSplitMessage_HardSplitsOversizedLine(t *testing.T) {
	text := strings.Repeat("x", 25)

	chunks := SplitMessage(text, 10)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 10 {
			t.Fatalf("chunk %d exceeds max: %d bytes", i, len(chunk))
		}
	}
	if strings.Join(chunks, "") != text {
		t.Fatal("hard split must not lose content")
	}
}

func TestSplitMessage_HardSplitNeverBisectsRunes(t *testing.T) {
	text := strings.Repeat("🟢", 10) // 4 bytes per rune

	chunks := SplitMessage(text, 10) // deliberately not a rune multiple

	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Fatalf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
		if len(chunk) > 10 {
			t.Fatalf("chunk %d exceeds max: %d bytes", i, len(chunk))
		}
	}
	if strings.Join(chunks, "") != text {
		t.Fatal("hard split must not lose content")
	}
}

func TestSplitMessage_OrderAndContentPreserved(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString(strings.Repeat("a", 30))
		sb.WriteByte('\n')
	}
	text := strings.TrimRight(sb.String(), "\n")

	chunks := SplitMessage(text, 500)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	rejoined := strings.Join(chunks, "\n")
	if rejoined != text {
		t.Fatal("rejoined chunks must equal the original text")
	}
	for i, chunk := range chunks {
		if len(chunk) > 500 {
			t.Fatalf("chunk %d exceeds max: %d bytes", i, len(chunk))
		}
	}
}
