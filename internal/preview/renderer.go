// Package preview projects the wizard draft into a printable resume document.
// Rendering is a pure function of the draft: no state, no side effects, safe
// to re-run on every draft change.
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/jonathan/resume-wizard/internal/types"
)

// Render produces the printable HTML document for a draft. Sections with no
// content are omitted; repeated sections render in exactly the order the user
// arranged them.
func Render(draft *types.ResumeDraft) (string, error) {
	if draft == nil {
		return "", fmt.Errorf("draft is nil")
	}
	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, newView(draft)); err != nil {
		return "", fmt.Errorf("failed to render resume: %w", err)
	}
	return buf.String(), nil
}

// view is the template model derived from the draft.
type view struct {
	Name      string
	JobTitle  string
	Contact   []string
	Socials   []socialView
	Summary   string
	Work      []types.WorkExperience
	Education []types.Education
	Projects  []types.Project
	Research  []types.ResearchPaper
	Skills    string
}

type socialView struct {
	Platform string
	URL      string
}

func newView(d *types.ResumeDraft) view {
	v := view{
		Name:      d.Personal.Name,
		JobTitle:  d.Personal.JobTitle,
		Summary:   d.Summary,
		Work:      d.WorkExperiences,
		Education: d.Educations,
		Projects:  d.Projects,
		Research:  d.ResearchPapers,
		Skills:    strings.Join(d.Skills, ", "),
	}
	for _, c := range []string{d.Personal.Email, d.Personal.Phone, d.Personal.Address} {
		if c != "" {
			v.Contact = append(v.Contact, c)
		}
	}
	// Map order is unspecified; sort platforms for a stable document.
	platforms := make([]string, 0, len(d.Personal.Socials))
	for p := range d.Personal.Socials {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	for _, p := range platforms {
		v.Socials = append(v.Socials, socialView{Platform: p, URL: d.Personal.Socials[p]})
	}
	return v
}

// dateRange formats a start/end pair; an empty end date means ongoing.
func dateRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	if end == "" {
		end = "Present"
	}
	if start == "" {
		return end
	}
	return start + " – " + end
}

var resumeTemplate = template.Must(template.New("resume").Funcs(template.FuncMap{
	"dates": dateRange,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Name}}{{.Name}} – Resume{{else}}Resume{{end}}</title>
<style>
  body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; color: #1a1a1a; }
  h1 { margin-bottom: 0; }
  h2 { border-bottom: 1px solid #999; padding-bottom: 2px; margin-top: 1.5rem; }
  .subtitle { color: #555; margin-top: 2px; }
  .contact { font-size: 0.9rem; color: #333; }
  .entry { margin-bottom: 0.75rem; }
  .entry-head { display: flex; justify-content: space-between; }
  .dates { color: #555; font-size: 0.9rem; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
{{if .Name}}<h1>{{.Name}}</h1>{{end}}
{{if .JobTitle}}<div class="subtitle">{{.JobTitle}}</div>{{end}}
{{if .Contact}}<div class="contact">{{range $i, $c := .Contact}}{{if $i}} · {{end}}{{$c}}{{end}}</div>{{end}}
{{if .Socials}}<div class="contact">{{range $i, $s := .Socials}}{{if $i}} · {{end}}{{$s.Platform}}: {{$s.URL}}{{end}}</div>{{end}}
{{if .Summary}}
<h2>Summary</h2>
<p>{{.Summary}}</p>
{{end}}
{{if .Work}}
<h2>Work Experience</h2>
{{range .Work}}
<div class="entry">
  <div class="entry-head"><strong>{{.Position}}{{if and .Position .Company}} — {{end}}{{.Company}}</strong><span class="dates">{{dates .StartDate .EndDate}}</span></div>
  {{if .Description}}<div>{{.Description}}</div>{{end}}
</div>
{{end}}
{{end}}
{{if .Education}}
<h2>Education</h2>
{{range .Education}}
<div class="entry">
  <div class="entry-head"><strong>{{.Degree}}{{if and .Degree .School}} — {{end}}{{.School}}</strong><span class="dates">{{dates .StartDate .EndDate}}</span></div>
  {{if .Marks}}<div>GPA: {{.Marks}}</div>{{end}}
</div>
{{end}}
{{end}}
{{if .Projects}}
<h2>Projects</h2>
{{range .Projects}}
<div class="entry">
  <div class="entry-head"><strong>{{.Title}}</strong><span class="dates">{{dates .StartDate .EndDate}}</span></div>
  {{if .Link}}<div class="contact">{{.Link}}</div>{{end}}
  {{if .Description}}<div>{{.Description}}</div>{{end}}
</div>
{{end}}
{{end}}
{{if .Research}}
<h2>Research</h2>
{{range .Research}}
<div class="entry">
  <div class="entry-head"><strong>{{.Title}}</strong><span class="dates">{{.Date}}</span></div>
  {{if .Venue}}<div class="contact">{{.Venue}}</div>{{end}}
  {{if .Description}}<div>{{.Description}}</div>{{end}}
</div>
{{end}}
{{end}}
{{if .Skills}}
<h2>Skills</h2>
<p>{{.Skills}}</p>
{{end}}
</body>
</html>
`))
