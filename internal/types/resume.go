package types

import (
	"encoding/json"
	"strings"
)

// MasterResume is the loose on-disk shape of a resume. Alternate field names are
// accepted here and resolved once by experience.Normalize.
type MasterResume struct {
	WorkExperience []ResumeEntry              `json:"work_experience,omitempty"`
	Experience     []ResumeEntry              `json:"experience,omitempty"`
	Projects       []ResumeEntry              `json:"projects,omitempty"`
	Awards         []ResumeAward              `json:"awards,omitempty"`
	Skills         map[string]json.RawMessage `json:"skills,omitempty"`
}

// ResumeEntry is a role or project as written in the master resume
type ResumeEntry struct {
	ID        string   `json:"id,omitempty"`
	Company   string   `json:"company,omitempty"`
	Role      string   `json:"role,omitempty"`
	Title     string   `json:"title,omitempty"`
	Name      string   `json:"name,omitempty"`
	Dates     string   `json:"dates,omitempty"`
	DateRange string   `json:"date_range,omitempty"`
	Date      string   `json:"date,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
	BulletIDs []string `json:"bullet_ids,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// ResumeAward is an award line; it may be written as a bare string
type ResumeAward struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

// UnmarshalJSON accepts either an object or a plain string
func (a *ResumeAward) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		a.Name = strings.TrimSpace(text)
		return nil
	}
	type alias ResumeAward
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*a = ResumeAward(decoded)
	return nil
}

// Resume is the strict internal form of a master resume
type Resume struct {
	Roles    []Role    `json:"roles"`
	Projects []Project `json:"projects"`
	Awards   []Award   `json:"awards"`
	Skills   []string  `json:"skills,omitempty"`
}

// Role is a work experience entry in baseline order (most recent first)
type Role struct {
	ID        string       `json:"id"`
	Company   string       `json:"company"`
	Title     string       `json:"title"`
	DateRange string       `json:"date_range"`
	Bullets   []BulletText `json:"bullets"`
}

// Project is a project entry in baseline order
type Project struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Date     string       `json:"date"`
	Bullets  []BulletText `json:"bullets"`
	Keywords []string     `json:"keywords,omitempty"`
}

// Award is an award line with a resolved identifier
type Award struct {
	ID string `json:"id"`
}

// BulletText is a bullet with its stable identifier
type BulletText struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ResumeBullet is a bullet together with its parent
type ResumeBullet struct {
	BulletID   string `json:"bullet_id"`
	ParentType string `json:"parent_type"`
	ParentID   string `json:"parent_id"`
	Text       string `json:"text"`
}
