package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vgorule/GeminiQA/internal/config"
)

// fetchTranscript downloads the audio stream to a temp file, transcribes it,
// and always removes the file afterwards.
func (p *Processor) fetchTranscript(ctx context.Context, info VideoInfo) (string, error) {
	audioPath, err := p.downloadAudio(ctx, info)
	if err != nil {
		return "", err
	}
	defer os.Remove(audioPath)

	return p.transcriber.Transcribe(ctx, audioPath)
}

func (p *Processor) downloadAudio(ctx context.Context, info VideoInfo) (string, error) {
	var lastErr error
	for attempt := 0; attempt < config.YouTubeDownloadAttempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<attempt) * time.Second
			p.logger.Warn("Retrying audio download", "attempt", attempt+1, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		path, err := p.downloadAudioOnce(ctx, info)
		if err == nil {
			return path, nil
		}
		lastErr = err
		p.logger.Error("Audio download attempt failed", "attempt", attempt+1, "error", err)
	}
	return "", fmt.Errorf("audio download failed after %d attempts: %w",
		config.YouTubeDownloadAttempts, lastErr)
}

func (p *Processor) downloadAudioOnce(ctx context.Context, info VideoInfo) (string, error) {
	video, err := p.client.GetVideoContext(ctx, info.URL)
	if err != nil {
		return "", fmt.Errorf("fetching video for download: %w", err)
	}

	formats := video.Formats.Type("audio")
	if len(formats) == 0 {
		formats = video.Formats.WithAudioChannels()
	}
	if len(formats) == 0 {
		return "", fmt.Errorf("no audio stream available for %s", info.VideoID)
	}

	stream, _, err := p.client.GetStreamContext(ctx, video, &formats[0])
	if err != nil {
		return "", fmt.Errorf("opening audio stream: %w", err)
	}
	defer stream.Close()

	path := filepath.Join(os.TempDir(), fmt.Sprintf("yt-audio-%s.m4a", info.VideoID))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, stream); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing audio file: %w", err)
	}
	return path, nil
}
