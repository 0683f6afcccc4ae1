package services

import (
	"strings"
	"unicode/utf8"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
)

// systemPersona instructs the model to answer as the restaurant assistant.
const systemPersona = "Bạn là trợ lý nhà hàng. Trả lời ngắn gọn, rõ ràng về: " +
	"món ăn, giá, đặt món, hủy món."

// minResponseLength is the minimum useful generation length in runes.
// Anything shorter is discarded in favour of raw retrieval results.
const minResponseLength = 10

// maxResponseLength caps rendered generations; longer output is cut at a
// sentence boundary.
const maxResponseLength = 400

// buildChatMessages assembles the conversation sent to the generation
// service: persona, optional menu context, the last turn only (keeping the
// prompt small beats keeping the history), then the current query.
func buildChatMessages(context, query string, lastTurn *domain.Turn) []driven.ChatMessage {
	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPersona},
	}
	if context != "" {
		messages = append(messages, driven.ChatMessage{Role: "system", Content: "Menu: " + context})
	}
	if lastTurn != nil {
		messages = append(messages,
			driven.ChatMessage{Role: "user", Content: lastTurn.User},
			driven.ChatMessage{Role: "assistant", Content: lastTurn.Assistant},
		)
	}
	return append(messages, driven.ChatMessage{Role: "user", Content: query})
}

// chatMarkers are template artefacts some local models leak into output.
var chatMarkers = []string{
	"<|im_start|>user", "<|im_start|>system", "<|im_start|>assistant",
	"user:", "system:",
}

// endMarkers terminate useful output; everything after the first one is cut.
var endMarkers = []string{"<|im_end|>", "<|endoftext|>", "</s>"}

// cleanGeneration strips chat-template artefacts, deduplicates repeated
// lines and caps the length at a sentence boundary. Generated text is
// untrusted free text; callers still apply the minimum-length rule.
func cleanGeneration(response string) string {
	for _, marker := range endMarkers {
		if i := strings.Index(response, marker); i >= 0 {
			response = response[:i]
		}
	}
	for _, marker := range chatMarkers {
		response = strings.ReplaceAll(response, marker, "")
	}

	// Models looping on their own output repeat whole lines; keep the
	// first occurrence of each.
	var lines []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !seen[line] {
			lines = append(lines, line)
			seen[line] = true
		}
	}
	response = strings.Join(lines, "\n")

	if utf8.RuneCountInString(response) > maxResponseLength {
		response = truncateAtSentence(response, maxResponseLength)
	}
	return strings.TrimSpace(response)
}

// truncateAtSentence cuts text near limit runes, preferring a sentence
// boundary over a hard cut.
func truncateAtSentence(text string, limit int) string {
	var b strings.Builder
	var count int
	var lastSentenceEnd int
	for _, r := range text {
		b.WriteRune(r)
		count++
		if strings.ContainsRune(".!?。！？", r) && count > 20 {
			lastSentenceEnd = b.Len()
		}
		if count >= limit {
			break
		}
	}
	if lastSentenceEnd > 0 {
		return b.String()[:lastSentenceEnd]
	}
	return strings.TrimRight(b.String(), " ") + "..."
}

// usableGeneration reports whether cleaned model output is long enough to
// show to the user.
func usableGeneration(response string) bool {
	return utf8.RuneCountInString(response) >= minResponseLength
}
