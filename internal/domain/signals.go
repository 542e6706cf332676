package domain

import "strings"

// skillVocabulary is the curated list scanned against document text.
// Result order follows this list, not document order.
var skillVocabulary = []string{
	// Programming languages
	"Python", "JavaScript", "Java", "C++", "C#", "PHP", "Ruby", "Swift", "Kotlin", "Go", "Rust", "TypeScript",
	// Web technologies
	"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Django", "Flask", "Spring", "ASP.NET", "Express.js",
	// Databases
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "Oracle", "SQLite", "Redis", "Cassandra",
	// Cloud & DevOps
	"AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins", "Git", "CI/CD",
	// Data science
	"Machine Learning", "Deep Learning", "Data Analysis", "Pandas", "NumPy", "TensorFlow", "PyTorch", "scikit-learn",
	// Other
	"REST API", "GraphQL", "Microservices", "Agile", "Scrum", "TDD", "OOP", "Functional Programming",
}

var roleKeywords = []string{"developer", "engineer", "analyst", "specialist", "manager", "designer", "researcher"}

const (
	maxSkills         = 8
	maxExperiences    = 3
	companyLineMaxLen = 50
)

// ExtractSkills returns vocabulary terms whose lowercase form occurs as
// a substring of the lowercased text. Capped at maxSkills, deduplicated,
// deterministic for a given input.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	var skills []string
	seen := make(map[string]struct{}, maxSkills)
	for _, skill := range skillVocabulary {
		if !strings.Contains(lower, strings.ToLower(skill)) {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
		if len(skills) >= maxSkills {
			break
		}
	}
	return skills
}

// ExtractExperiences scans non-empty lines for role keywords. The line
// after an anchor becomes the company when it is short enough, otherwise
// a placeholder is used. Deduplicated by (title, company), capped at
// maxExperiences.
func ExtractExperiences(text string) []Experience {
	lines := nonEmptyLines(text)
	var out []Experience
	for i, line := range lines {
		lower := strings.ToLower(line)
		anchored := false
		for _, role := range roleKeywords {
			if strings.Contains(lower, role) {
				anchored = true
				break
			}
		}
		if !anchored {
			continue
		}
		company := "a company"
		if i+1 < len(lines) && len(lines[i+1]) < companyLineMaxLen {
			company = lines[i+1]
		}
		exp := Experience{Title: line, Company: company}
		if containsExperience(out, exp) {
			continue
		}
		out = append(out, exp)
		if len(out) >= maxExperiences {
			break
		}
	}
	return out
}

// ExtractProjects treats short lines mentioning "project" or "portfolio"
// as project anchors. The following line becomes the description when
// its length sits strictly between 10 and 200 characters. Deduplicated
// by name.
func ExtractProjects(text string) []Project {
	lines := nonEmptyLines(text)
	var out []Project
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "project") && !strings.Contains(lower, "portfolio") {
			continue
		}
		if len(strings.Fields(line)) >= 5 {
			continue
		}
		desc := ""
		if i+1 < len(lines) && len(lines[i+1]) > 10 && len(lines[i+1]) < 200 {
			desc = lines[i+1]
		}
		name := strings.TrimSpace(stripProjectLabel(line))
		if containsProject(out, name) {
			continue
		}
		out = append(out, Project{Name: name, Description: desc})
	}
	return out
}

// ExtractSignals derives the full signal set for a document.
func ExtractSignals(text string) SignalSet {
	return SignalSet{
		Skills:      ExtractSkills(text),
		Experiences: ExtractExperiences(text),
		Projects:    ExtractProjects(text),
	}
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func stripProjectLabel(line string) string {
	for _, label := range []string{"Project:", "project:"} {
		line = strings.ReplaceAll(line, label, "")
	}
	return line
}

func containsExperience(list []Experience, e Experience) bool {
	for _, x := range list {
		if x.Title == e.Title && x.Company == e.Company {
			return true
		}
	}
	return false
}

func containsProject(list []Project, name string) bool {
	for _, p := range list {
		if p.Name == name {
			return true
		}
	}
	return false
}
