package knowledge

import (
	"os"
	"path/filepath"
	"time"
)

// ServiceName identifies this service in health responses.
const ServiceName = "skynet-api"

const (
	StatusHealthy = "healthy"
	StatusLoading = "loading"
)

// SystemInfo carries the static runtime facts reported by Describe.
type SystemInfo struct {
	Provider     string
	EmbedModel   string
	ChatModel    string
	APIKeySet    bool
	ArtifactPath string
}

type systemService struct {
	corpus *Handle
	info   SystemInfo
}

func NewSystemService(corpus *Handle, info SystemInfo) SystemService {
	return &systemService{
		corpus: corpus,
		info:   info,
	}
}

// CheckHealth reports readiness. The service is healthy once the corpus
// has been published.
func (s *systemService) CheckHealth() HealthStatus {
	corpus, err := s.corpus.Get()
	if err != nil {
		return HealthStatus{Status: StatusLoading, Service: ServiceName}
	}
	return HealthStatus{
		Status:       StatusHealthy,
		Service:      ServiceName,
		ChunksLoaded: corpus.Size(),
		Dimension:    corpus.Dimension(),
	}
}

// Describe reports configuration and artifact presence for debugging.
// Secret values never appear, only whether they are set.
func (s *systemService) Describe() DebugReport {
	report := DebugReport{
		Status:       StatusLoading,
		Provider:     s.info.Provider,
		EmbedModel:   s.info.EmbedModel,
		ChatModel:    s.info.ChatModel,
		APIKeySet:    s.info.APIKeySet,
		ArtifactPath: s.info.ArtifactPath,
	}

	dir := filepath.Dir(s.info.ArtifactPath)
	if entries, err := os.ReadDir(dir); err == nil {
		report.ArtifactDirExists = true
		files := make([]string, 0, len(entries))
		for _, e := range entries {
			files = append(files, e.Name())
		}
		report.ArtifactFiles = files
	}

	if corpus, err := s.corpus.Get(); err == nil {
		report.Status = StatusHealthy
		report.ChunksLoaded = corpus.Size()
		report.Documents = corpus.DocumentCount()
		report.Dimension = corpus.Dimension()
		report.LoadedAt = corpus.LoadedAt().Format(time.RFC3339)
	}
	return report
}
