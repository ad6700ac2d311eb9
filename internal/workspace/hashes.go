package workspace

import (
	"bytes"
	"encoding/json"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/types"
)

// JobExtractedHash returns the job text hash recorded in the rubric, falling back to
// hashing job_extracted.txt. It is empty when neither is available.
func (d *Dir) JobExtractedHash(rubric *types.Rubric) string {
	if rubric != nil && rubric.JobMeta != nil {
		if rubric.JobMeta.RawJobTextHash != "" {
			return rubric.JobMeta.RawJobTextHash
		}
		if rubric.JobMeta.RawTextHash != "" {
			return rubric.JobMeta.RawTextHash
		}
	}
	data, err := d.ReadRaw(FileJobExtracted)
	if err != nil {
		return ""
	}
	return cache.Prefixed(cache.SHA256Hex(data))
}

// RubricHash returns the rubric's own hash or the sha256 of its compact JSON form
func RubricHash(rubric *types.Rubric, raw []byte) string {
	if rubric != nil && rubric.RubricHash != "" {
		return rubric.RubricHash
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return cache.Prefixed(cache.SHA256Hex(raw))
	}
	return cache.Prefixed(cache.SHA256Hex(buf.Bytes()))
}
