package site

import (
	"html/template"
	"regexp"
	"strings"
)

// shellTmpl is the shared page chrome: sidebar navigation plus content area.
var shellTmpl = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.RelPrefix}}assets/style.css"/>
</head>
<body>
  <div class="shell">
    <nav class="nav">
      <div class="brand">{{.Brand}}</div>
      <ul>
{{- range .Nav}}
        <li{{if .Active}} class="active"{{end}}><a href="{{.Href}}">{{.Label}}</a></li>
{{- end}}
      </ul>
    </nav>
    <main class="main"><div class="content">
{{.Body}}
    </div></main>
  </div>
</body>
</html>
`))

type navItem struct {
	Href   string
	Label  string
	Active bool
}

type shellData struct {
	Title     string
	Brand     string
	RelPrefix string
	Nav       []navItem
	Body      template.HTML
}

// styleCSS is the single stylesheet the built site ships with.
const styleCSS = `:root { --ink: #222; --paper: #fff; --accent: #1a5276; }
* { box-sizing: border-box; }
body { margin: 0; font: 16px/1.6 Georgia, serif; color: var(--ink); background: var(--paper); }
.shell { display: flex; min-height: 100vh; }
.nav { width: 240px; padding: 24px 16px; background: #f4f6f7; border-right: 1px solid #ddd; }
.nav .brand { font-weight: bold; margin-bottom: 16px; }
.nav ul { list-style: none; padding: 0; margin: 0; }
.nav li { margin: 6px 0; }
.nav li.active a { font-weight: bold; }
.nav a { color: var(--accent); text-decoration: none; }
.main { flex: 1; padding: 32px; }
.content { max-width: 760px; margin: 0 auto; }
h1, h2 { color: var(--accent); }
.meta { color: #666; font-size: 0.9em; }
.gallery { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 12px; }
.gallery figure { margin: 0; }
.gallery img { width: 100%; height: auto; border: 1px solid #ddd; }
figcaption { font-size: 0.8em; color: #666; }
`

// textToParagraphs converts extracted plain text to HTML: paragraphs split
// on blank lines, line breaks preserved within a paragraph, everything
// escaped.
func textToParagraphs(text string) template.HTML {
	var sb strings.Builder
	for _, para := range splitParagraphs(text) {
		sb.WriteString("<p>")
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			if i > 0 {
				sb.WriteString("<br/>")
			}
			sb.WriteString(template.HTMLEscapeString(line))
		}
		sb.WriteString("</p>\n")
	}
	return template.HTML(sb.String())
}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range blankLineRe.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a section title into a stable file name.
func slugify(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.ReplaceAll(t, "&", " and ")
	t = slugStripRe.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if t == "" {
		return "section"
	}
	return t
}
