// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vault

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/pubmed-agent/internal/llm"
)

const (
	defaultMaxConcepts = 10
	conceptTextLimit   = 2000

	// Extraction wants deterministic lists; follow-ups can wander a bit.
	conceptTemperature  = 0.2
	followUpTemperature = 0.7
)

var (
	numberedPrefix = regexp.MustCompile(`^\d+[.)]*\s*`)
	wordPattern    = regexp.MustCompile(`\b[\w-]+\b`)
)

// commonPhrases are filler n-grams excluded from fallback extraction.
var commonPhrases = map[string]bool{
	"of the":  true,
	"in the":  true,
	"to the":  true,
	"and the": true,
	"for the": true,
	"is a":    true,
	"such as": true,
}

// ExtractConcepts asks the provider for the most significant concepts in
// text, suitable for knowledge-graph linking. On provider failure it
// falls back to frequency-based phrase extraction.
func ExtractConcepts(ctx context.Context, provider llm.Provider, text string, maxConcepts int) []string {
	if maxConcepts <= 0 {
		maxConcepts = defaultMaxConcepts
	}

	prompt := fmt.Sprintf(`Analyze the following text and extract the %d most significant concepts or terms.

Focus on multi-word expressions, technical terms, theoretical frameworks, and meaningful phrases
rather than common single words. Good examples would be "extraterrestrial life", "carbon-based life forms",
"metabolic processes", or "self-replicating systems".

Text to analyze:
%s

Return ONLY a numbered list with each concept on its own line, no explanations.
Do not use bullet points or any other formatting, just the concepts themselves.
Important: Make sure concepts are in a form useful for knowledge graph linking (proper nouns, technical terms, key phrases).`,
		maxConcepts, truncateRunes(text, conceptTextLimit))

	temperature := conceptTemperature
	resp, err := provider.Generate(ctx, llm.Request{Prompt: prompt, Temperature: &temperature})
	if err != nil {
		return conceptsFallback(text, maxConcepts)
	}

	var concepts []string
	for _, line := range strings.Split(resp.Text, "\n") {
		clean := strings.TrimSpace(numberedPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if len(clean) > 2 {
			concepts = append(concepts, clean)
		}
	}
	if len(concepts) == 0 {
		return conceptsFallback(text, maxConcepts)
	}
	if len(concepts) > maxConcepts {
		concepts = concepts[:maxConcepts]
	}
	return concepts
}

// conceptsFallback extracts the most frequent two- and three-word
// phrases when no provider answer is available.
func conceptsFallback(text string, maxConcepts int) []string {
	if maxConcepts <= 0 {
		maxConcepts = defaultMaxConcepts
	}
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]int)
	order := make(map[string]int)
	record := func(phrase string) {
		if _, seen := counts[phrase]; !seen {
			order[phrase] = len(order)
		}
		counts[phrase]++
	}
	for i := 0; i+1 < len(words); i++ {
		record(words[i] + " " + words[i+1])
	}
	for i := 0; i+2 < len(words); i++ {
		record(words[i] + " " + words[i+1] + " " + words[i+2])
	}

	phrases := make([]string, 0, len(counts))
	for phrase := range counts {
		if !commonPhrases[phrase] && len(phrase) > 5 {
			phrases = append(phrases, phrase)
		}
	}
	// Frequency order, first occurrence breaking ties.
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return order[phrases[i]] < order[phrases[j]]
	})

	if len(phrases) > maxConcepts {
		phrases = phrases[:maxConcepts]
	}
	return phrases
}

// FollowUpQuestions asks the provider for follow-up questions that
// deepen or extend the original query. The raw numbered list is
// returned as-is for inclusion in the note.
func FollowUpQuestions(ctx context.Context, provider llm.Provider, query, response string) (string, error) {
	prompt := fmt.Sprintf(`Based on the following query and response, generate 3 thoughtful follow-up questions
that would deepen understanding or explore related topics.

Original query: %s

Response: %s

Return ONLY the questions as a numbered list.`, query, response)

	temperature := followUpTemperature
	resp, err := provider.Generate(ctx, llm.Request{Prompt: prompt, Temperature: &temperature})
	if err != nil {
		return "", fmt.Errorf("generating follow-up questions: %w", err)
	}
	return resp.Text, nil
}
