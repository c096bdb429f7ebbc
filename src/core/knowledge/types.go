package knowledge

// Chunk is one embedded passage of a publication. Field names follow the
// JSONL artifact written by the index build pipeline.
type Chunk struct {
	ChunkID   string `json:"chunk_id"`
	DocID     string `json:"doc_id"`
	PMCID     string `json:"pmcid"`
	Section   string `json:"section"`
	ChunkText string `json:"chunk_text"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

// ChunkHit is a scored corpus position. Index refers to the corpus slot
// the score was computed against.
type ChunkHit struct {
	Index int
	Score float64
}

// DocumentResult aggregates the chunk hits of a single publication.
// Chunks keep their hit order, strongest first.
type DocumentResult struct {
	DocID  string
	PMCID  string
	Title  string
	URL    string
	Score  float64
	Chunks []ChunkHit
}

// Turn is one message of the caller's conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DocumentSummary is the per-paper stage of the summarization pipeline.
type DocumentSummary struct {
	PMCID string
	Title string
	URL   string
	Score float64
	Text  string
}

// Summary is the consolidated answer plus the per-paper summaries it was
// built from.
type Summary struct {
	Text      string
	Documents []DocumentSummary
}

// DocumentPreview is a trending list entry.
type DocumentPreview struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	PMCID   string `json:"pmcid"`
	URL     string `json:"url"`
	Section string `json:"section"`
	Preview string `json:"preview"`
}

// FutureWorkItem is a follow-up research intent extracted from a paper.
type FutureWorkItem struct {
	IntentID    string  `json:"intent_id"`
	Label       string  `json:"label"`
	Score       float64 `json:"score"`
	RawSentence string  `json:"raw_sentence"`
	Section     string  `json:"section"`
	ChunkIndex  int     `json:"chunk_idx"`
}

// FutureWorkReport lists the extracted intents of one paper.
type FutureWorkReport struct {
	PMCID string           `json:"pmcid"`
	Title string           `json:"title"`
	URL   string           `json:"url"`
	Items []FutureWorkItem `json:"items"`
}

// FollowupMatch is a paper related to a future-work intent.
type FollowupMatch struct {
	PaperID   string  `json:"paper_id"`
	Title     string  `json:"title"`
	Relevance float64 `json:"relevance"`
	Evidence  string  `json:"evidence"`
	Link      string  `json:"link"`
}

// HealthStatus reports service readiness.
type HealthStatus struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	ChunksLoaded int    `json:"chunks_loaded,omitempty"`
	Dimension    int    `json:"dimension,omitempty"`
}

// DebugReport describes the runtime configuration without secret values.
type DebugReport struct {
	Status            string   `json:"status"`
	Provider          string   `json:"provider"`
	EmbedModel        string   `json:"embed_model"`
	ChatModel         string   `json:"chat_model"`
	APIKeySet         bool     `json:"openai_key_set"`
	ArtifactPath      string   `json:"artifact_path"`
	ArtifactDirExists bool     `json:"artifact_dir_exists"`
	ArtifactFiles     []string `json:"artifact_files"`
	ChunksLoaded      int      `json:"chunks_loaded"`
	Documents         int      `json:"documents"`
	Dimension         int      `json:"dimension"`
	LoadedAt          string   `json:"loaded_at,omitempty"`
}
