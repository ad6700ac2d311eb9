package types

// Requirement types
const (
	RequirementMust = "must"
	RequirementNice = "nice"
)

// Requirement is a weighted job requirement supplied per run
type Requirement struct {
	ReqID       string `json:"req_id"`
	Type        string `json:"type"`
	Weight      int    `json:"weight"`
	Requirement string `json:"requirement"`
	Text        string `json:"text,omitempty"`
}

// Statement returns the requirement text, accepting either field name
func (r Requirement) Statement() string {
	if r.Requirement != "" {
		return r.Requirement
	}
	return r.Text
}

// IsMust reports whether the requirement is a must-have
func (r Requirement) IsMust() bool {
	return r.Type == RequirementMust
}

// JobMeta carries hashes of the job text the rubric was extracted from
type JobMeta struct {
	RawJobTextHash string `json:"raw_job_text_hash,omitempty"`
	RawTextHash    string `json:"raw_text_hash,omitempty"`
}

// Rubric is the jd_rubric.json artifact
type Rubric struct {
	Requirements []Requirement `json:"requirements"`
	JobMeta      *JobMeta      `json:"job_meta,omitempty"`
	RubricHash   string        `json:"rubric_hash,omitempty"`
}
