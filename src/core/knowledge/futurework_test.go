package knowledge_test

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"skynet/src/core/knowledge"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "single sentence",
			text: "Bone density decreased.",
			want: []string{"Bone density decreased."},
		},
		{
			name: "no terminal punctuation",
			text: "an unfinished thought",
			want: []string{"an unfinished thought"},
		},
		{
			name: "periods questions and exclamations",
			text: "Really? Yes! Done.",
			want: []string{"Really?", "Yes!", "Done."},
		},
		{
			name: "newline after period",
			text: "First result.\n\nSecond result.",
			want: []string{"First result.", "Second result."},
		},
		{
			name: "abbreviations split too",
			text: "Dr. Smith ran tests. Results pending.",
			want: []string{"Dr.", "Smith ran tests.", "Results pending."},
		},
		{
			name: "period inside a number is kept",
			text: "Density fell 3.5 percent. Mass was stable.",
			want: []string{"Density fell 3.5 percent.", "Mass was stable."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := knowledge.SplitSentences(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractFutureWork(t *testing.T) {
	chunks := []knowledge.Chunk{
		{
			ChunkID:   "chunk_000000",
			DocID:     "doc_PMC1",
			PMCID:     "PMC1",
			Section:   "discussion",
			Title:     "Bone Loss in Mice",
			URL:       "https://example.org/PMC1",
			ChunkText: "We measured bone density in mice. Future work should assess recovery after reloading.",
		},
		{
			ChunkID:   "chunk_000001",
			DocID:     "doc_PMC1",
			PMCID:     "PMC1",
			Section:   "methods",
			ChunkText: "Further studies were needed to calibrate the assay.",
		},
		{
			ChunkID:   "chunk_000002",
			DocID:     "doc_PMC2",
			PMCID:     "PMC2",
			Section:   "conclusion",
			ChunkText: "Future work should assess other species.",
		},
		{
			ChunkID:   "chunk_000003",
			DocID:     "doc_PMC1",
			PMCID:     "PMC1",
			Section:   "conclusion",
			ChunkText: "Future work should assess recovery after reloading. Long-term effects warrant longitudinal follow-up.",
		},
	}
	vectors := [][]float32{{1}, {1}, {1}, {1}}
	corpus := newTestCorpus(t, chunks, vectors)

	items := knowledge.ExtractFutureWork(corpus, "PMC1")
	if len(items) != 2 {
		t.Fatalf("ExtractFutureWork() returned %d items, want 2", len(items))
	}

	first := items[0]
	if first.Label != "Future work should assess recovery after reloading." {
		t.Errorf("items[0].Label = %q", first.Label)
	}
	if first.Section != "discussion" || first.ChunkIndex != 0 {
		t.Errorf("items[0] located at (%s, %d), want (discussion, 0)", first.Section, first.ChunkIndex)
	}
	if first.Score != 0.6 {
		t.Errorf("items[0].Score = %v, want 0.6", first.Score)
	}

	second := items[1]
	if second.Label != "Long-term effects warrant longitudinal follow-up." {
		t.Errorf("items[1].Label = %q", second.Label)
	}
	if second.Section != "conclusion" || second.ChunkIndex != 3 {
		t.Errorf("items[1] located at (%s, %d), want (conclusion, 3)", second.Section, second.ChunkIndex)
	}

	idPattern := regexp.MustCompile(`^fw_\d{8}$`)
	for i, item := range items {
		if !idPattern.MatchString(item.IntentID) {
			t.Errorf("items[%d].IntentID = %q, want fw_ followed by 8 digits", i, item.IntentID)
		}
	}

	again := knowledge.ExtractFutureWork(corpus, "PMC1")
	for i := range items {
		if again[i].IntentID != items[i].IntentID {
			t.Errorf("IntentID not stable across runs: %q vs %q", again[i].IntentID, items[i].IntentID)
		}
	}

	if got := knowledge.ExtractFutureWork(corpus, "PMC9"); len(got) != 0 {
		t.Errorf("ExtractFutureWork(unknown pmcid) returned %d items, want 0", len(got))
	}
}

func TestExtractFutureWorkConfidence(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     float64
	}{
		{
			name:     "no cue words",
			sentence: "More research is needed to confirm these findings.",
			want:     0.5,
		},
		{
			name:     "single cue word",
			sentence: "Future work should assess recovery.",
			want:     0.6,
		},
		{
			name:     "cap at 0.95",
			sentence: "Future work should assess, investigate and evaluate unknown longitudinal responses.",
			want:     0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := []knowledge.Chunk{
				{ChunkID: "chunk_000000", DocID: "doc_PMC1", PMCID: "PMC1", Section: "discussion", ChunkText: tt.sentence},
			}
			corpus := newTestCorpus(t, chunks, [][]float32{{1}})

			items := knowledge.ExtractFutureWork(corpus, "PMC1")
			if len(items) != 1 {
				t.Fatalf("ExtractFutureWork() returned %d items, want 1", len(items))
			}
			if items[0].Score != tt.want {
				t.Errorf("Score = %v, want %v", items[0].Score, tt.want)
			}
		})
	}
}

func TestExtractFutureWorkCapsItems(t *testing.T) {
	sentences := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		sentences = append(sentences, fmt.Sprintf("Future work should assess topic number %d.", i))
	}
	chunks := []knowledge.Chunk{
		{ChunkID: "chunk_000000", DocID: "doc_PMC1", PMCID: "PMC1", Section: "discussion", ChunkText: strings.Join(sentences, " ")},
	}
	corpus := newTestCorpus(t, chunks, [][]float32{{1}})

	items := knowledge.ExtractFutureWork(corpus, "PMC1")
	if len(items) != 12 {
		t.Errorf("ExtractFutureWork() returned %d items, want the 12 item cap", len(items))
	}
}

func TestExtractFutureWorkTruncatesLabel(t *testing.T) {
	long := "Future work should assess " + strings.Repeat("very ", 60) + "long experiments."
	chunks := []knowledge.Chunk{
		{ChunkID: "chunk_000000", DocID: "doc_PMC1", PMCID: "PMC1", Section: "limitations", ChunkText: long},
	}
	corpus := newTestCorpus(t, chunks, [][]float32{{1}})

	items := knowledge.ExtractFutureWork(corpus, "PMC1")
	if len(items) != 1 {
		t.Fatalf("ExtractFutureWork() returned %d items, want 1", len(items))
	}
	if got := len([]rune(items[0].Label)); got != 180 {
		t.Errorf("Label length = %d runes, want 180", got)
	}
	if items[0].RawSentence != long {
		t.Errorf("RawSentence should keep the full sentence, got %d runes", len([]rune(items[0].RawSentence)))
	}
}
