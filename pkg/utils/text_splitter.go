package utils

// MaxMessageRunes is the largest chunk a single chat message may carry.
// Longer replies are split and sent as consecutive messages.
const MaxMessageRunes = 4096

// ChunkReply splits an assistant reply into transport-sized pieces. The
// split is rune-based so multi-byte text never gets cut mid-character.
func ChunkReply(reply string) []string {
	return SplitText(reply, MaxMessageRunes, 0)
}

// SplitText splits a long string into chunks of at most chunkSize runes,
// with an optional overlap to preserve context at boundaries.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	totalLen := len(runes)
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
