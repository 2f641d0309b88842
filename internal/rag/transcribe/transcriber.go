package transcribe

import "context"

// Transcriber turns an audio file on disk into text through a hosted
// speech-to-text service.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
