package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	yt "github.com/kkdai/youtube/v2"
	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/customHttpClient"
	"github.com/vgorule/GeminiQA/internal/rag/transcribe"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

var youtubeRegex = regexp.MustCompile(
	`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|shorts/|v/)?([A-Za-z0-9_-]{11})`)

// IsYouTubeURL matches youtube.com watch/embed/shorts links and youtu.be
// short links.
func IsYouTubeURL(url string) bool {
	return youtubeRegex.MatchString(url)
}

// ExtractVideoID pulls the 11-character video id out of a YouTube URL.
func ExtractVideoID(url string) string {
	m := youtubeRegex.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[6]
}

// VideoInfo is the metadata half of the YouTube path. It is fetched
// independently of the transcript; partial information is acceptable.
type VideoInfo struct {
	Title         string
	Author        string
	Description   string
	LengthSeconds int
	VideoID       string
	URL           string
	FetchErr      error
}

type Processor struct {
	client      *yt.Client
	transcriber transcribe.Transcriber
	logger      *logger_i.Logger
}

var once sync.Once
var processorInstance *Processor

func GetProcessor(transcriber transcribe.Transcriber) *Processor {
	once.Do(func() {
		processorInstance = &Processor{
			client:      &yt.Client{HTTPClient: customHttpClient.Pooled()},
			transcriber: transcriber,
			logger:      logger_i.NewLogger("YouTube"),
		}
	})
	return processorInstance
}

func (p *Processor) GetVideoInfo(ctx context.Context, url string) VideoInfo {
	cleanURL := cleanVideoURL(url)
	info := VideoInfo{
		URL:     cleanURL,
		VideoID: ExtractVideoID(cleanURL),
		Title:   "[Title unavailable]",
	}

	video, err := p.client.GetVideoContext(ctx, cleanURL)
	if err != nil {
		p.logger.Error("Error getting video info", "url", cleanURL, "error", err)
		info.FetchErr = err
		info.Description = fmt.Sprintf("Error accessing video: %v", err)
		return info
	}

	info.Title = video.Title
	info.Author = video.Author
	info.Description = video.Description
	info.LengthSeconds = int(video.Duration / time.Second)
	return info
}

// BuildContext assembles the context document for a YouTube URL: metadata
// first, then the transcript when transcription works, with the description
// as the fallback context source.
func (p *Processor) BuildContext(ctx context.Context, url string) string {
	info := p.GetVideoInfo(ctx, url)

	var sb strings.Builder
	sb.WriteString("YouTube Video Information:\n")
	if info.FetchErr != nil {
		fmt.Fprintf(&sb, "Warning: Limited information available. Error: %v\n\n", info.FetchErr)
	}
	fmt.Fprintf(&sb, "Title: %s\n", info.Title)
	if info.Author != "" {
		fmt.Fprintf(&sb, "Author: %s\n", info.Author)
	}
	if info.VideoID != "" {
		fmt.Fprintf(&sb, "Video ID: %s\n", info.VideoID)
	}
	if info.LengthSeconds > 0 {
		fmt.Fprintf(&sb, "Length: %d seconds\n", info.LengthSeconds)
	}
	if info.Description != "" {
		desc := info.Description
		if runes := []rune(desc); len(runes) > 500 {
			desc = string(runes[:500]) + "..."
		}
		fmt.Fprintf(&sb, "Description: %s\n", desc)
	}
	sb.WriteString("\n")

	if info.LengthSeconds > config.YouTubeMaxSeconds {
		// Truncation candidate; the download itself is not cut short.
		p.logger.Warn("Video exceeds transcription length threshold",
			"seconds", info.LengthSeconds, "threshold", config.YouTubeMaxSeconds)
	}

	transcribed := false
	if info.FetchErr == nil && p.transcriber != nil {
		transcript, err := p.fetchTranscript(ctx, info)
		if err != nil {
			p.logger.Error("Transcription failed", "url", info.URL, "error", err)
			fmt.Fprintf(&sb, "Transcription failed: %v\n", err)
		} else {
			sb.WriteString("Transcript:\n")
			sb.WriteString(transcript)
			transcribed = true
		}
	} else if info.FetchErr != nil {
		sb.WriteString("Transcription not attempted due to error accessing video.\n")
	} else {
		sb.WriteString("Transcription not available.\n")
	}

	if !transcribed && info.Description != "" {
		sb.WriteString("\nUsing video description as a fallback since transcription was not available:\n\n")
		sb.WriteString(info.Description)
	}

	return sb.String()
}

// degradedMarkers are the failure strings BuildContext writes into the
// context document when metadata or transcription could not be fetched.
var degradedMarkers = []string{
	"Error accessing video",
	"Transcription failed",
	"Transcription not attempted",
	"Transcription not available",
}

// ContextDegraded reports whether a BuildContext document carries failure
// markers instead of a usable transcript.
func ContextDegraded(contextText string) bool {
	for _, marker := range degradedMarkers {
		if strings.Contains(contextText, marker) {
			return true
		}
	}
	return false
}

func cleanVideoURL(url string) string {
	// drop playlist/tracking parameters after the video id
	if idx := strings.Index(url, "&"); idx > 0 {
		return url[:idx]
	}
	return url
}
