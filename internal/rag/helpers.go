package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vgorule/GeminiQA/internal/adapter/utils"
	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/internal/rag/youtube"
)

func sanitizeMessage(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", commonModels.NewPipelineError(commonModels.KindEmptyMessage,
			"message must not be empty", nil)
	}
	return trimmed, nil
}

func newChatId() string {
	return utils.GetNewUUID()
}

// embedText is what gets embedded for the similarity lookup: the user message
// plus whatever was extracted from the attached content.
func embedText(message string, extraction commonModels.Extraction) string {
	if extraction.Text == "" {
		return message
	}
	return message + "\n" + extraction.Text
}

// buildChatPrompt assembles the generation prompt. Retrieved records are split
// into previous question/answer pairs and document snippets so the model can
// treat them differently; conversation history comes last, right before the
// current question.
func buildChatPrompt(message string, extraction commonModels.Extraction, matches []commonModels.Match, history []string) string {
	var sb strings.Builder

	qaPairs, documents := splitMatches(matches)

	if len(qaPairs) > 0 {
		sb.WriteString("Previously answered questions that may be relevant:\n")
		for _, m := range qaPairs {
			fmt.Fprintf(&sb, "- Question: %s\n  Answer: %s\n", m.Query, snippet(m.Answer))
		}
		sb.WriteString("\n")
	}

	if len(documents) > 0 {
		sb.WriteString("Relevant content from previously analyzed material:\n")
		for _, m := range documents {
			fmt.Fprintf(&sb, "- [%s] %s\n", m.Type, snippet(m.Text))
		}
		sb.WriteString("\n")
	}

	if len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, line := range history {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	switch extraction.FileType {
	case commonModels.FileTypeDirectQuery, "":
		fmt.Fprintf(&sb, "Question: %s\n", message)
	case commonModels.FileTypeImage:
		// The image itself travels alongside this prompt to the vision model.
		fmt.Fprintf(&sb, "The user uploaded an image; it is attached to this request. Answer from the image itself.\n\nQuestion: %s\n", message)
	case commonModels.FileTypeYouTube:
		writeYouTubePrompt(&sb, message, extraction.Text)
	default:
		fmt.Fprintf(&sb, "The user uploaded a %s file. Extracted content:\n%s\n\nQuestion: %s\n",
			extraction.FileType, extraction.Text, message)
	}

	return sb.String()
}

// writeYouTubePrompt asks for a structured video summary. When the context
// document carries failure markers instead of a transcript, the prompt drops
// to general information about what such a video is likely about.
func writeYouTubePrompt(sb *strings.Builder, message string, contextText string) {
	if youtube.ContextDegraded(contextText) {
		sb.WriteString("I tried to retrieve information about a YouTube video but ran into issues. Here is what could be retrieved:\n\n")
		sb.WriteString(contextText)
		sb.WriteString("\n\nBased on this limited information:\n")
		sb.WriteString("1. What is this video likely about?\n")
		sb.WriteString("2. What topics might a video like this cover?\n")
		sb.WriteString("3. What would be helpful to know about this subject?\n")
		sb.WriteString("You may not have information about this exact video, so answer with general information about the topic and say so.\n\n")
		fmt.Fprintf(sb, "Question: %s\n", message)
		return
	}

	sb.WriteString("The user shared a YouTube video. Provide a comprehensive summary of the video content below, focusing on the main points, key insights and important details.\n\n")
	sb.WriteString(contextText)
	sb.WriteString("\n\nStructure the summary with:\n")
	sb.WriteString("1. A brief overview (1-2 sentences)\n")
	sb.WriteString("2. Main topics covered\n")
	sb.WriteString("3. Key points and insights\n")
	sb.WriteString("4. Conclusion or takeaways\n\n")
	fmt.Fprintf(sb, "Question: %s\n", message)
}

func splitMatches(matches []commonModels.Match) (qaPairs, documents []commonModels.Match) {
	for _, m := range matches {
		if m.Type == commonModels.FileTypeQAPair {
			qaPairs = append(qaPairs, m)
		} else {
			documents = append(documents, m)
		}
	}
	return qaPairs, documents
}

// snippet caps on rune boundaries so multibyte text stays valid UTF-8.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) > config.AnswerSnippetCap {
		return string(runes[:config.AnswerSnippetCap]) + "..."
	}
	return text
}

// persistExchange stores the content interaction (when there was one) and the
// question/answer pair. Runs in the background; failures are logged, never
// surfaced to the caller.
func (s *service) persistExchange(ctx context.Context, question string, answer string, extraction commonModels.Extraction, sourceURL string) {
	if s.vectorDB == nil {
		return
	}

	persistContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if extraction.Text != "" && extraction.FileType != commonModels.FileTypeDirectQuery {
		s.storeInteraction(persistContext, commonModels.Interaction{
			Id:        utils.GetNewUUID(),
			Text:      extraction.Text,
			Type:      extraction.FileType,
			Timestamp: time.Now().UTC(),
			Query:     question,
			URL:       sourceURL,
		})
	}

	s.storeInteraction(persistContext, commonModels.Interaction{
		Id:        utils.GetNewUUID(),
		Text:      fmt.Sprintf("Question: %s\n\nAnswer: %s", question, answer),
		Type:      commonModels.FileTypeQAPair,
		Timestamp: time.Now().UTC(),
		Query:     question,
		Answer:    answer,
	})
}

func (s *service) storeInteraction(ctx context.Context, record commonModels.Interaction) {
	vector := s.embedder.GetEmbedding(ctx, record.Text)

	if _, err := s.vectorDB.Store(ctx, record, vector); err != nil {
		s.logger.Error("Failed to store interaction", "type", record.Type, "error", err)
	}
}
