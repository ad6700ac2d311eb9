package types

// Artifact versions for the embedding stage
const (
	ResumeEmbeddingsVersion      = "resume_bullet_embeddings_v1"
	RequirementEmbeddingsVersion = "jd_requirement_embeddings_v1"
	RelevanceMatrixVersion       = "relevance_matrix_v1"
	RelevanceSummaryVersion      = "relevance_summary_v1"
)

// BulletEmbedding is one resume bullet vector
type BulletEmbedding struct {
	BulletID    string    `json:"bullet_id"`
	TextHash    string    `json:"text_hash"`
	TextPreview string    `json:"text_preview"`
	Vector      []float64 `json:"vector"`
}

// ResumeEmbeddings is the cached resume_bullet_embeddings.json artifact
type ResumeEmbeddings struct {
	Version           string            `json:"version"`
	MasterResumeHash  string            `json:"master_resume_hash"`
	EmbeddingModel    string            `json:"embedding_model"`
	Dims              int               `json:"dims"`
	PreprocessVersion string            `json:"preprocess_version"`
	CreatedAt         string            `json:"created_at,omitempty"`
	RunID             string            `json:"run_id,omitempty"`
	Bullets           []BulletEmbedding `json:"bullets"`
}

// VectorLookup maps bullet ids to vectors
func (r *ResumeEmbeddings) VectorLookup() map[string][]float64 {
	lookup := make(map[string][]float64, len(r.Bullets))
	for _, b := range r.Bullets {
		lookup[b.BulletID] = b.Vector
	}
	return lookup
}

// RequirementEmbedding is one requirement vector
type RequirementEmbedding struct {
	ReqID    string    `json:"req_id"`
	Type     string    `json:"type"`
	Weight   int       `json:"weight"`
	TextHash string    `json:"text_hash"`
	Text     string    `json:"text"`
	Vector   []float64 `json:"vector"`
}

// RequirementEmbeddings is the jd_requirement_embeddings.json artifact
type RequirementEmbeddings struct {
	Version           string                 `json:"version"`
	RunID             string                 `json:"run_id,omitempty"`
	JobExtractedHash  string                 `json:"job_extracted_hash,omitempty"`
	RubricHash        string                 `json:"rubric_hash"`
	EmbeddingModel    string                 `json:"embedding_model"`
	Dims              int                    `json:"dims"`
	PreprocessVersion string                 `json:"preprocess_version"`
	Requirements      []RequirementEmbedding `json:"requirements"`
}

// BulletScore is a bullet scored against one requirement
type BulletScore struct {
	BulletID string  `json:"bullet_id"`
	Score    float64 `json:"score"`
}

// RequirementScore is a requirement scored against one bullet
type RequirementScore struct {
	ReqID string  `json:"req_id"`
	Score float64 `json:"score"`
}

// RelevanceThresholds controls pruning of the relevance matrix
type RelevanceThresholds struct {
	MinScore           float64 `json:"min_score"`
	TopKPerRequirement int     `json:"top_k_per_requirement"`
	TopKPerBullet      int     `json:"top_k_per_bullet"`
}

// RelevanceMatrix is the relevance_matrix.json artifact: pruned rows and columns of
// the bullet x requirement cosine matrix.
type RelevanceMatrix struct {
	Version                  string                        `json:"version"`
	RunID                    string                        `json:"run_id,omitempty"`
	EmbeddingModel           string                        `json:"embedding_model,omitempty"`
	Dims                     int                           `json:"dims,omitempty"`
	Cosine                   bool                          `json:"cosine"`
	Thresholds               RelevanceThresholds           `json:"thresholds"`
	PerRequirementTopBullets map[string][]BulletScore      `json:"per_requirement_top_bullets"`
	PerBulletTopRequirements map[string][]RequirementScore `json:"per_bullet_top_requirements"`
}

// RelevanceSample shows the top bullets for one requirement
type RelevanceSample struct {
	ReqID      string        `json:"req_id"`
	TopBullets []BulletScore `json:"top_bullets"`
}

// RelevanceSummary is the relevance_summary.json artifact
type RelevanceSummary struct {
	Version           string              `json:"version"`
	RunID             string              `json:"run_id,omitempty"`
	BulletsCount      int                 `json:"bullets_count"`
	RequirementsCount int                 `json:"requirements_count"`
	Sample            *RelevanceSample    `json:"sample"`
	Thresholds        RelevanceThresholds `json:"thresholds"`
}
