package experience

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-selector/internal/types"
)

// Normalize resolves alternate field names and assigns stable ids.
// Roles come from work_experience, falling back to experience. A role without an id
// becomes experience_<n> and a project project_<n>. Bullet ids come from bullet_ids
// when it has one entry per bullet, otherwise <owner>_b<n>.
func Normalize(master *types.MasterResume) (*types.Resume, error) {
	if master == nil {
		return nil, &NormalizationError{Message: "master resume is nil"}
	}

	resume := &types.Resume{
		Roles:    []types.Role{},
		Projects: []types.Project{},
		Awards:   []types.Award{},
	}

	entries := master.WorkExperience
	if len(entries) == 0 {
		entries = master.Experience
	}
	for i, entry := range entries {
		id := ownerID(entry.ID, types.ParentExperience, i)
		resume.Roles = append(resume.Roles, types.Role{
			ID:        id,
			Company:   entry.Company,
			Title:     firstNonEmpty(entry.Role, entry.Title),
			DateRange: firstNonEmpty(entry.Dates, entry.DateRange),
			Bullets:   buildBullets(id, entry),
		})
	}

	for i, entry := range master.Projects {
		id := ownerID(entry.ID, types.ParentProject, i)
		keywords := make([]string, 0, len(entry.Keywords)+len(entry.Tags))
		keywords = append(keywords, entry.Keywords...)
		keywords = append(keywords, entry.Tags...)
		resume.Projects = append(resume.Projects, types.Project{
			ID:       id,
			Name:     entry.Name,
			Date:     firstNonEmpty(entry.Dates, entry.Date),
			Bullets:  buildBullets(id, entry),
			Keywords: keywords,
		})
	}

	for _, award := range master.Awards {
		resume.Awards = append(resume.Awards, types.Award{
			ID: firstNonEmpty(award.ID, award.Name, award.Title, "award"),
		})
	}

	resume.Skills = flattenSkills(master.Skills)

	if err := checkUniqueBulletIDs(resume); err != nil {
		return nil, err
	}
	return resume, nil
}

// Bullets lists every bullet, experience first then projects, in document order
func Bullets(resume *types.Resume) []types.ResumeBullet {
	var out []types.ResumeBullet
	for _, role := range resume.Roles {
		for _, b := range role.Bullets {
			out = append(out, types.ResumeBullet{
				BulletID:   b.ID,
				ParentType: types.ParentExperience,
				ParentID:   role.ID,
				Text:       b.Text,
			})
		}
	}
	for _, proj := range resume.Projects {
		for _, b := range proj.Bullets {
			out = append(out, types.ResumeBullet{
				BulletID:   b.ID,
				ParentType: types.ParentProject,
				ParentID:   proj.ID,
				Text:       b.Text,
			})
		}
	}
	return out
}

// ToolTerms returns resume-derived tool names: skills first, then project keywords and tags
func ToolTerms(resume *types.Resume) []string {
	terms := make([]string, 0, len(resume.Skills))
	for _, s := range resume.Skills {
		if s != "" {
			terms = append(terms, s)
		}
	}
	for _, proj := range resume.Projects {
		for _, k := range proj.Keywords {
			if k != "" {
				terms = append(terms, k)
			}
		}
	}
	return terms
}

func ownerID(id, parentType string, index int) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return fmt.Sprintf("%s_%d", parentType, index+1)
}

func buildBullets(ownerID string, entry types.ResumeEntry) []types.BulletText {
	bullets := make([]types.BulletText, 0, len(entry.Bullets))
	useProvided := len(entry.BulletIDs) == len(entry.Bullets)
	for i, text := range entry.Bullets {
		id := fmt.Sprintf("%s_b%d", ownerID, i+1)
		if useProvided && entry.BulletIDs[i] != "" {
			id = entry.BulletIDs[i]
		}
		bullets = append(bullets, types.BulletText{ID: id, Text: text})
	}
	return bullets
}

// flattenSkills collects every list-valued skill category; categories are
// visited in key order so the result does not depend on map iteration
func flattenSkills(skills map[string]json.RawMessage) []string {
	categories := make([]string, 0, len(skills))
	for k := range skills {
		categories = append(categories, k)
	}
	sort.Strings(categories)

	var out []string
	for _, category := range categories {
		var items []string
		if err := json.Unmarshal(skills[category], &items); err != nil {
			continue
		}
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func checkUniqueBulletIDs(resume *types.Resume) error {
	seen := make(map[string]string)
	for _, b := range Bullets(resume) {
		if owner, exists := seen[b.BulletID]; exists {
			return &NormalizationError{
				BulletID: b.BulletID,
				Message:  fmt.Sprintf("duplicate bullet id '%s' in '%s' and '%s'", b.BulletID, owner, b.ParentID),
			}
		}
		seen[b.BulletID] = b.ParentID
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
