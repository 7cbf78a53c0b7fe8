package memory

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/voicebridge/translation-engine/internal/domain"
)

// wordConfidenceDiscount scales the base confidence for positionally
// aligned word pairs: alignment is a guess, the whole fragment is not.
const wordConfidenceDiscount = 0.8

// maxLearnableTokens bounds the source length for word alignment; longer
// fragments produce too many false pairings to be worth storing.
const maxLearnableTokens = 10

// maxTokenCountDiff is the largest source/target token-count difference
// that still counts as structurally similar enough to align.
const maxTokenCountDiff = 2

const tokenPunctuation = `.,!?;:"()[]`

// LearnFromPair folds one resolved translation into the store: the whole
// fragment at baseConfidence, then naive positional word pairs at a
// discounted confidence. The pair is learned only when the two sides are
// structurally similar (both short and close in token count); anything
// longer or more lopsided is too noisy to store at all.
// Errors are logged and never propagated; learning is advisory.
func (s *Service) LearnFromPair(ctx context.Context, sourceText, translatedText, src, dst string, baseConfidence float64) error {
	sourceText = domain.NormalizeText(sourceText)
	translatedText = strings.TrimSpace(translatedText)
	if sourceText == "" || translatedText == "" {
		return nil
	}

	srcTokens := tokenize(sourceText)
	dstTokens := tokenize(translatedText)
	if !alignable(srcTokens, dstTokens) {
		s.log.DebugContext(ctx, "pair not learnable",
			slog.Int("source_tokens", len(srcTokens)),
			slog.Int("target_tokens", len(dstTokens)),
		)
		return nil
	}

	if _, err := s.Upsert(ctx, UpsertInput{
		SourceLang: src,
		TargetLang: dst,
		SourceTerm: sourceText,
		TargetTerm: translatedText,
		Confidence: baseConfidence,
	}); err != nil {
		s.log.WarnContext(ctx, "learn fragment failed",
			slog.String("source", sourceText), slog.String("error", err.Error()))
		return nil
	}

	n := len(srcTokens)
	if len(dstTokens) < n {
		n = len(dstTokens)
	}

	wordConfidence := baseConfidence * wordConfidenceDiscount
	for i := 0; i < n; i++ {
		if _, err := s.Upsert(ctx, UpsertInput{
			SourceLang:     src,
			TargetLang:     dst,
			SourceTerm:     srcTokens[i],
			TargetTerm:     dstTokens[i],
			Confidence:     wordConfidence,
			ContextExample: sourceText,
		}); err != nil {
			s.log.WarnContext(ctx, "learn word pair failed",
				slog.String("word", srcTokens[i]), slog.String("error", err.Error()))
		}
	}

	return nil
}

// alignable reports whether two token sequences are similar enough for
// positional pairing: both short and close in length.
func alignable(src, dst []string) bool {
	if len(src) == 0 || len(dst) == 0 {
		return false
	}
	if len(src) > maxLearnableTokens {
		return false
	}
	diff := len(src) - len(dst)
	if diff < 0 {
		diff = -diff
	}
	return diff <= maxTokenCountDiff
}

// tokenize splits text on whitespace, strips edge punctuation, and drops
// tokens of one rune or less (articles survive, stray symbols do not).
func tokenize(text string) []string {
	var tokens []string
	for _, raw := range strings.Fields(text) {
		tok := strings.Trim(raw, tokenPunctuation)
		if utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
