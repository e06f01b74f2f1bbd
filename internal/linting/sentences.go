package linting

import (
	"regexp"
	"strings"
)

var (
	urlRe         = regexp.MustCompile(`https?://\S+`)
	sentenceEndRe = regexp.MustCompile(`[.!?]+`)
)

// urlDotMarker temporarily stands in for dots inside URLs so that
// "book.example.com" does not read as three sentences.
const urlDotMarker = "\x00"

// protectURLs masks dots inside URLs. Trailing punctuation after a URL is
// left unmasked so it still terminates the sentence.
func protectURLs(text string) string {
	return urlRe.ReplaceAllStringFunc(text, func(url string) string {
		trimmed := strings.TrimRight(url, ".,!?;:")
		suffix := url[len(trimmed):]
		return strings.ReplaceAll(trimmed, ".", urlDotMarker) + suffix
	})
}

func restoreURLs(text string) string {
	return strings.ReplaceAll(text, urlDotMarker, ".")
}

// splitParagraphs splits normalized text on blank lines.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitSentences splits one paragraph into sentences on terminal
// punctuation, treating URLs as atomic tokens.
func splitSentences(paragraph string) []string {
	var sentences []string
	for _, s := range sentenceEndRe.Split(protectURLs(paragraph), -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, restoreURLs(s))
		}
	}
	return sentences
}

// finalSentence returns the last sentence of the last paragraph, without
// its terminal punctuation. Empty text yields "".
func finalSentence(text string) string {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return ""
	}
	sentences := splitSentences(paragraphs[len(paragraphs)-1])
	if len(sentences) == 0 {
		return ""
	}
	return sentences[len(sentences)-1]
}

// countWords counts whitespace-separated words.
func countWords(text string) int {
	return len(strings.Fields(text))
}
