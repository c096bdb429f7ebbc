package knowledge

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// futureWorkHints flags sentences that announce follow-up research.
var futureWorkHints = regexp.MustCompile(`(?i)\b(future work|further (study|studies|research)|remains (unclear|unknown)|should (assess|evaluate|examine|investigate)|needed (to|for)|warrant(ed)?|longitudinal|long-term|next steps|in the future)\b`)

// futureWorkSections are the only sections scanned for intents.
var futureWorkSections = map[string]struct{}{
	"discussion":  {},
	"conclusion":  {},
	"future work": {},
	"limitations": {},
	"outlook":     {},
}

// confidenceCues raise an intent's score when present in its label.
var confidenceCues = []string{"assess", "investigate", "evaluate", "unknown", "longitudinal"}

var whitespaceRun = regexp.MustCompile(`\s+`)

const (
	maxFutureWorkItems = 12
	labelRunes         = 180
)

// ExtractFutureWork scans a paper's chunks for sentences announcing
// follow-up research and returns them as scored intents, deduplicated by
// normalized label.
func ExtractFutureWork(c *Corpus, pmcid string) []FutureWorkItem {
	items := make([]FutureWorkItem, 0)
	seen := make(map[string]struct{})

	for i := 0; i < c.Size(); i++ {
		chunk := c.ChunkAt(i)
		if chunk.PMCID != pmcid {
			continue
		}
		if !isFutureWorkChunk(chunk) {
			continue
		}

		for _, sent := range SplitSentences(chunk.ChunkText) {
			if !futureWorkHints.MatchString(sent) {
				continue
			}
			label := normalizeLabel(sent)
			key := strings.ToLower(label)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			items = append(items, FutureWorkItem{
				IntentID:    intentID(pmcid, key),
				Label:       label,
				Score:       intentConfidence(key),
				RawSentence: sent,
				Section:     chunk.Section,
				ChunkIndex:  i,
			})
			if len(items) >= maxFutureWorkItems {
				return items
			}
		}
	}
	return items
}

func isFutureWorkChunk(chunk Chunk) bool {
	sec := strings.ToLower(strings.TrimSpace(chunk.Section))
	if _, ok := futureWorkSections[sec]; !ok {
		return false
	}
	return futureWorkHints.MatchString(chunk.ChunkText)
}

// SplitSentences breaks text after terminal punctuation followed by
// whitespace, keeping the punctuation with the left part.
func SplitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j > i+1 {
			out = append(out, string(runes[start:i+1]))
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func normalizeLabel(s string) string {
	return Truncate(strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " ")), labelRunes)
}

// intentConfidence scores a normalized label: a 0.5 base plus 0.1 per cue
// word, capped at 0.95.
func intentConfidence(key string) float64 {
	conf := 0.5
	for _, cue := range confidenceCues {
		if strings.Contains(key, cue) {
			conf += 0.1
		}
	}
	if conf > 0.95 {
		conf = 0.95
	}
	return math.Round(conf*100) / 100
}

// intentID derives a stable id from the paper and the deduplication key.
func intentID(pmcid, key string) string {
	h := fnv.New32a()
	h.Write([]byte(pmcid))
	h.Write([]byte{0})
	h.Write([]byte(key))
	return fmt.Sprintf("fw_%08d", h.Sum32()%100000000)
}
