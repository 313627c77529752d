package catalog

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizedSKU is the canonical form of a raw product identifier. Many raw
// identifiers map to one normalized key. It is used for cost-price lookup and
// analytics only, never for tenant isolation.
type NormalizedSKU string

// String returns the normalized key as a plain string
func (k NormalizedSKU) String() string {
	return string(k)
}

// UnknownSKU is returned for empty or unusable raw identifiers
const UnknownSKU NormalizedSKU = "UNKNOWN"

// NormalizerConfig tunes the normalization heuristics.
//
// The trailing-suffix rules are inherently approximate: marketplace sellers
// append batch or revision counters ("BLACK-100-1", "ICE BAG 02") that do not
// denote distinct products, but the same trailing digits can also be a pack
// size ("PAIR OF 5"). Stripping too eagerly merges distinct products,
// stripping too little splits one product across keys. The rules below only
// remove zero-padded trailing numbers, a single digit glued to a long word,
// and a short counter following another number, which keeps genuine pack
// sizes intact. Disable StripTrailingSuffixes to turn the heuristic off.
type NormalizerConfig struct {
	// StripTrailingSuffixes enables the batch/revision counter heuristics
	StripTrailingSuffixes bool
	// FillerWords are removed wherever they appear (packaging noise like
	// "PCS" or "PACK" that varies between listings of the same product)
	FillerWords []string
	// MaxLength truncates the normalized key; 0 means no truncation
	MaxLength int
}

// DefaultNormalizerConfig returns the configuration used when none is supplied
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		StripTrailingSuffixes: true,
		FillerWords:           []string{"PCS", "PACK", "UNIT", "UNITS", "PLY", "LAYER", "DISPOSABLE"},
		MaxLength:             50,
	}
}

// Normalizer canonicalizes raw product identifiers. Normalize is pure and
// total: it never fails, and unrecognized formats degrade to a best-effort
// cleaned form. It is idempotent and order-independent for composite
// identifiers: Normalize("A+B") == Normalize("B+A").
type Normalizer struct {
	cfg      NormalizerConfig
	fillerRe *regexp.Regexp
	upper    cases.Caser
}

var (
	separatorRunRe = regexp.MustCompile(`[-_/:.,!'"` + "`" + `;\\=]+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	zeroPaddedRe   = regexp.MustCompile(`\s+0+[0-9]*$`)
	gluedDigitRe   = regexp.MustCompile(`([A-Z]{4,})[0-9]$`)
	dupCounterRe   = regexp.MustCompile(`([0-9]+)\s+[0-9]{1,2}$`)
	comboSplitRe   = regexp.MustCompile(`[+,]`)
)

// NewNormalizer creates a normalizer with the given configuration
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	n := &Normalizer{
		cfg:   cfg,
		upper: cases.Upper(language.Und),
	}
	if len(cfg.FillerWords) > 0 {
		escaped := make([]string, len(cfg.FillerWords))
		for i, w := range cfg.FillerWords {
			escaped[i] = regexp.QuoteMeta(strings.ToUpper(w))
		}
		n.fillerRe = regexp.MustCompile(`\b(` + strings.Join(escaped, "|") + `)\b`)
	}
	return n
}

// Normalize canonicalizes a raw product identifier.
//
// Composite identifiers ("BLACK-25+BLUE-25", "black-50,pink-50") are split on
// the combo separator, each component normalized independently, and the
// components rejoined in lexicographic order so that component order never
// produces distinct keys.
func (n *Normalizer) Normalize(raw string) NormalizedSKU {
	text := strings.TrimSpace(raw)
	if text == "" {
		return UnknownSKU
	}

	if comboSplitRe.MatchString(text) {
		parts := comboSplitRe.Split(text, -1)
		normalized := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			if key := n.Normalize(part); key != UnknownSKU {
				normalized = append(normalized, key.String())
			}
		}
		if len(normalized) == 0 {
			return UnknownSKU
		}
		if len(normalized) == 1 {
			return NormalizedSKU(normalized[0])
		}
		sort.Strings(normalized)
		return NormalizedSKU(strings.Join(normalized, " + "))
	}

	text = n.upper.String(text)
	text = separatorRunRe.ReplaceAllString(text, " ")
	if n.fillerRe != nil {
		text = n.fillerRe.ReplaceAllString(text, " ")
	}
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	if n.cfg.StripTrailingSuffixes {
		text = stripSuffixes(text)
	}

	if n.cfg.MaxLength > 0 && len(text) > n.cfg.MaxLength {
		text = strings.TrimSpace(text[:n.cfg.MaxLength])
	}

	if len(text) < 3 {
		fallback := strings.TrimSpace(whitespaceRe.ReplaceAllString(n.upper.String(raw), " "))
		if fallback == "" {
			return UnknownSKU
		}
		if n.cfg.MaxLength > 0 && len(fallback) > n.cfg.MaxLength {
			fallback = strings.TrimSpace(fallback[:n.cfg.MaxLength])
		}
		return NormalizedSKU(fallback)
	}
	return NormalizedSKU(text)
}

// stripSuffixes applies the counter heuristics until the text stops changing,
// so that normalization reaches a fixpoint in a single call.
func stripSuffixes(text string) string {
	for {
		next := zeroPaddedRe.ReplaceAllString(text, "")
		next = gluedDigitRe.ReplaceAllString(next, "$1")
		next = dupCounterRe.ReplaceAllString(next, "$1")
		next = strings.TrimSpace(next)
		if next == text || next == "" {
			if next == "" {
				return text
			}
			return next
		}
		text = next
	}
}
