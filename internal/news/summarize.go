package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"feedsanity/internal/llm"
	"feedsanity/internal/metrics"
)

const (
	summaryTemperature    = 0.3
	titleTemperature      = 0.2
	clickbaitTemperature  = 0.1
	maxSummaryLength      = 500
	maxPromptLength       = 10000
	clickbaitExcerptChars = 1000
	maxTitleLength        = 80

	fallbackTitle = "Article Summary"
)

const standardSummarySystem = "You are a professional news summarizer. " +
	"Provide clear, concise, and objective summaries of articles. " +
	"Focus on the key facts, main points, and important details. " +
	"Maintain a neutral, professional tone. " +
	"Keep summaries between 100-300 words."

const clickbaitSummarySystem = "This article shows signs of clickbait or sensationalism. " +
	"Provide an objective, factual summary that strips away dramatic language " +
	"and focuses on verifiable facts only. " +
	"If no substantial facts exist, state 'Clickbait article with no substantial content.' " +
	"Maintain a neutral, skeptical tone and avoid amplifying sensationalism."

const headlineSystem = "You are a professional headline writer. " +
	"Generate a clear, concise, and informative headline (max 80 characters) " +
	"based on the provided summary. " +
	"Do not use clickbait language or sensationalism."

const clickbaitDetectSystem = "You are a clickbait detection expert. " +
	"Analyze the article title and excerpt to determine if it is clickbait. " +
	"Clickbait indicators include: " +
	"- Sensationalized or exaggerated headlines " +
	"- Misleading titles that don't match the content " +
	"- Emotional manipulation tactics " +
	"- Exaggerated claims or promises " +
	"- 'You won't believe...', 'This one trick...', 'Shocking...' type language " +
	"- Withholding key information to force clicks " +
	"- Overly dramatic or provocative language " +
	"Respond with ONLY 'yes' if it is clickbait, or 'no' if it is not."

// Summary is the model output for one article.
type Summary struct {
	Text       string
	Title      string
	Clickbait  bool
	DetectedBy string
}

// Summarizer drives the language model calls for news articles.
type Summarizer struct {
	provider         llm.Provider
	model            string
	clickbaitAuthors map[string]struct{}
	maxSummary       int
	logger           *zap.Logger
}

// NewSummarizer builds a Summarizer. Articles by any listed author are
// treated as clickbait without asking the model. maxSummary caps the
// summary length in characters; zero falls back to 500.
func NewSummarizer(provider llm.Provider, model string, clickbaitAuthors []string, maxSummary int, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSummary <= 0 {
		maxSummary = maxSummaryLength
	}
	authors := make(map[string]struct{}, len(clickbaitAuthors))
	for _, a := range clickbaitAuthors {
		if a = strings.TrimSpace(a); a != "" {
			authors[a] = struct{}{}
		}
	}
	return &Summarizer{
		provider:         provider,
		model:            model,
		clickbaitAuthors: authors,
		maxSummary:       maxSummary,
		logger:           logger,
	}
}

// Summarize produces a summary and a generated headline for the
// article text, in the requested language. Clickbait is flagged by
// known author or by the model, and flagged articles get a stricter
// summarization prompt.
func (s *Summarizer) Summarize(ctx context.Context, text, title, author, language string) (Summary, error) {
	if strings.TrimSpace(text) == "" {
		return Summary{}, fmt.Errorf("no text to summarize")
	}
	byAuthor := s.knownClickbaitAuthor(author)
	byAI := false
	if title != "" {
		detected, err := s.DetectClickbait(ctx, title, text)
		if err != nil {
			s.logger.Warn("clickbait detection failed", zap.String("title", title), zap.Error(err))
		} else {
			byAI = detected
		}
	}

	result := Summary{Clickbait: byAuthor || byAI}
	switch {
	case byAuthor && byAI:
		result.DetectedBy = DetectedByBoth
	case byAuthor:
		result.DetectedBy = DetectedByAuthor
	case byAI:
		result.DetectedBy = DetectedByAI
	}

	system := standardSummarySystem
	if result.Clickbait {
		system = clickbaitSummarySystem
	}
	prompt := fmt.Sprintf("IMPORTANT: You MUST respond in %s. Summarize the following article:\n\n%s",
		languageOrDefault(language), truncateRunes(text, maxPromptLength))

	out, err := s.generate(ctx, system, prompt, summaryTemperature)
	if err != nil {
		return Summary{}, fmt.Errorf("generate summary: %w", err)
	}
	summary := strings.TrimSpace(out)
	if summary == "" {
		return Summary{}, fmt.Errorf("model returned an empty summary")
	}
	result.Text = clampSummary(summary, s.maxSummary)
	result.Title = s.GenerateTitle(ctx, result.Text, language)
	return result, nil
}

// GenerateTitle writes a headline for the summary. A failed or empty
// model call falls back to a fixed title so one bad response cannot
// sink the article.
func (s *Summarizer) GenerateTitle(ctx context.Context, summary, language string) string {
	prompt := fmt.Sprintf("IMPORTANT: You MUST respond in %s. Generate a headline for this summary:\n\n%s",
		languageOrDefault(language), summary)
	out, err := s.generate(ctx, headlineSystem, prompt, titleTemperature)
	if err != nil {
		s.logger.Warn("headline generation failed", zap.Error(err))
		return fallbackTitle
	}
	title := strings.Trim(strings.TrimSpace(out), `"'`)
	if title == "" {
		return fallbackTitle
	}
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength-3]) + "..."
	}
	return title
}

// DetectClickbait asks the model for a yes/no verdict on the title
// against an excerpt of the article body.
func (s *Summarizer) DetectClickbait(ctx context.Context, title, text string) (bool, error) {
	if title == "" || text == "" {
		return false, nil
	}
	prompt := fmt.Sprintf("Title: %s\n\nExcerpt: %s\n\nIs this clickbait?",
		title, truncateRunes(text, clickbaitExcerptChars))
	out, err := s.generate(ctx, clickbaitDetectSystem, prompt, clickbaitTemperature)
	if err != nil {
		return false, fmt.Errorf("detect clickbait: %w", err)
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(out)), "yes"), nil
}

func (s *Summarizer) generate(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	start := time.Now()
	out, err := s.provider.Generate(ctx, llm.GenerateRequest{
		Model:       s.model,
		System:      system,
		Prompt:      prompt,
		Temperature: temperature,
	})
	metrics.ObserveLLMRequest(s.provider.Name(), time.Since(start), err == nil)
	return out, err
}

func (s *Summarizer) knownClickbaitAuthor(author string) bool {
	if author == "" {
		return false
	}
	_, ok := s.clickbaitAuthors[author]
	return ok
}

// clampSummary trims an overlong summary back to its last complete
// sentence within the limit.
func clampSummary(summary string, limit int) string {
	runes := []rune(summary)
	if len(runes) <= limit {
		return summary
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, "."); idx >= 0 {
		return cut[:idx] + "."
	}
	return cut + "."
}

func languageOrDefault(language string) string {
	if strings.TrimSpace(language) == "" {
		return "English"
	}
	return language
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
