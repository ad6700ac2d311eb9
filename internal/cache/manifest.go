package cache

// Cache file names
const (
	EvidenceFile   = "evidence_scores.json"
	EmbeddingsFile = "resume_bullet_embeddings.json"
	ManifestFile   = "manifest.json"
)

// EmbeddingsManifestVersion tags embedding manifests
const EmbeddingsManifestVersion = "resume_bullet_embeddings_manifest_v1"

// EvidenceManifest describes a cached evidence_scores.json
type EvidenceManifest struct {
	ResumeHash        string `json:"resume_hash"`
	RulesHash         string `json:"rules_hash"`
	CachedAt          string `json:"cached_at"`
	SourceRunID       string `json:"source_run_id,omitempty"`
	SourceGeneratedAt string `json:"source_generated_at,omitempty"`
}

// EmbeddingsManifest describes a cached resume_bullet_embeddings.json
type EmbeddingsManifest struct {
	Version           string `json:"version"`
	CachedAt          string `json:"cached_at"`
	MasterResumeHash  string `json:"master_resume_hash"`
	EmbedKeyHash      string `json:"embed_key_hash"`
	EmbeddingModel    string `json:"embedding_model"`
	Dims              int    `json:"dims"`
	PreprocessVersion string `json:"preprocess_version"`
	SourceRunID       string `json:"source_run_id,omitempty"`
}
