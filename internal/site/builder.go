// Package site renders a resolved structure report into a static website:
// a home page built from the leading section, one page per top-level
// section, an appendix library, extracted figure galleries, and a
// diagnostics page for reviewing the resolver's decisions.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/reportsite/reportsite/internal/structure"
)

// Builder writes a static site from one structure report.
type Builder struct {
	log             *slog.Logger
	minFigurePixels int
	maxFigures      int
}

// NewBuilder configures a site builder. minFigurePixels and maxFigures
// bound figure extraction per section.
func NewBuilder(log *slog.Logger, minFigurePixels, maxFigures int) *Builder {
	return &Builder{
		log:             log,
		minFigurePixels: minFigurePixels,
		maxFigures:      maxFigures,
	}
}

// skip lists sections that are navigation noise rather than content.
var skipTitles = map[string]bool{
	"table of contents": true,
	"list of tables":    true,
	"list of figures":   true,
	"front matter":      true,
}

// Build renders the full site into outDir. pages supplies section text,
// figs supplies embedded images (nil disables figures). The report's
// section ordering drives both navigation and page order.
func (b *Builder) Build(pages structure.PageSource, figs ImageSource, report *structure.Report, outDir string) error {
	for _, dir := range []string{outDir, filepath.Join(outDir, "pages"), filepath.Join(outDir, "assets")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create site dir: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(outDir, "assets", "style.css"), []byte(styleCSS), 0o644); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}

	// Persist the report artifacts alongside the site for traceability.
	if err := writeArtifacts(report, outDir); err != nil {
		return err
	}

	main, appendices := splitSections(report.Root)
	if len(main) == 0 && len(appendices) == 0 && report.Root != nil {
		main = []*structure.Section{report.Root}
	}

	brand := report.Metadata.Title
	if brand == "" {
		brand = "Report"
	}

	nav := buildNav(main, len(appendices) > 0)

	// Home page: the leading main section doubles as the overview.
	if len(main) > 0 {
		if err := b.writeSectionPage(pages, figs, main[0], brand, nav, outDir, true); err != nil {
			return err
		}
	}
	for _, s := range main[1:] {
		if err := b.writeSectionPage(pages, figs, s, brand, nav, outDir, false); err != nil {
			return err
		}
	}
	if len(appendices) > 0 {
		if err := writeAppendixPage(appendices, brand, nav, outDir); err != nil {
			return err
		}
	}
	if err := writeDiagnosticsPage(report, brand, nav, outDir); err != nil {
		return err
	}

	b.log.Info("site built", "dir", outDir, "sections", len(main), "appendices", len(appendices))
	return nil
}

// splitSections separates the root's top-level children into main report
// sections and appendix entries, dropping navigation noise.
func splitSections(root *structure.Section) (main, appendices []*structure.Section) {
	if root == nil {
		return nil, nil
	}
	for _, s := range root.Children {
		title := strings.ToLower(strings.TrimSpace(s.Title))
		switch {
		case strings.HasPrefix(title, "appendix") || title == "appendices":
			appendices = append(appendices, s)
		case skipTitles[title]:
			// noise
		default:
			main = append(main, s)
		}
	}
	return main, appendices
}

func buildNav(main []*structure.Section, hasAppendices bool) []navItem {
	var nav []navItem
	for i, s := range main {
		href := "pages/" + slugify(s.Title) + ".html"
		if i == 0 {
			href = "index.html"
		}
		nav = append(nav, navItem{Href: href, Label: s.Title})
	}
	if hasAppendices {
		nav = append(nav, navItem{Href: "pages/appendices.html", Label: "Appendices"})
	}
	nav = append(nav, navItem{Href: "pages/structure.html", Label: "Structure"})
	return nav
}

func (b *Builder) writeSectionPage(pages structure.PageSource, figs ImageSource, s *structure.Section, brand string, nav []navItem, outDir string, home bool) error {
	slug := slugify(s.Title)
	text := extractText(pages, s.Start, s.End)

	figures, err := b.extractFigures(figs, slug, s.Start, s.End, outDir)
	if err != nil {
		return err
	}

	relPrefix := "../"
	if home {
		relPrefix = ""
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<h1>%s</h1>\n", template.HTMLEscapeString(s.Title))
	fmt.Fprintf(&body, "<p class=\"meta\">Pages %d–%d of the source report.</p>\n", s.Start, s.End)
	if len(figures) > 0 {
		body.WriteString("<h2>Figures</h2>\n<div class=\"gallery\">\n")
		for _, f := range figures {
			fmt.Fprintf(&body,
				"<figure><a href=\"%[1]s%[2]s\"><img src=\"%[1]s%[2]s\" alt=\"%[3]s\"/></a><figcaption>%[3]s</figcaption></figure>\n",
				relPrefix, f.Src, template.HTMLEscapeString(f.Caption))
		}
		body.WriteString("</div>\n")
	}
	body.WriteString(string(textToParagraphs(text)))

	path := filepath.Join(outDir, "pages", slug+".html")
	if home {
		path = filepath.Join(outDir, "index.html")
	}
	return renderShell(path, shellData{
		Title:     s.Title + " — " + brand,
		Brand:     brand,
		RelPrefix: relPrefix,
		Nav:       activateNav(nav, home, slug, relPrefix),
		Body:      template.HTML(body.String()),
	})
}

func writeAppendixPage(appendices []*structure.Section, brand string, nav []navItem, outDir string) error {
	var body strings.Builder
	body.WriteString("<h1>Appendices</h1>\n")
	body.WriteString("<p class=\"meta\">Evidence library from the source report.</p>\n<ul>\n")
	for _, a := range appendices {
		fmt.Fprintf(&body, "<li>%s (pages %d–%d)</li>\n", template.HTMLEscapeString(a.Title), a.Start, a.End)
		for _, c := range a.Children {
			fmt.Fprintf(&body, "<li class=\"meta\">— %s (starts p%d)</li>\n", template.HTMLEscapeString(c.Title), c.Start)
		}
	}
	body.WriteString("</ul>\n")

	return renderShell(filepath.Join(outDir, "pages", "appendices.html"), shellData{
		Title:     "Appendices — " + brand,
		Brand:     brand,
		RelPrefix: "../",
		Nav:       activateNav(nav, false, "appendices", "../"),
		Body:      template.HTML(body.String()),
	})
}

// writeDiagnosticsPage renders the markdown review artifact to HTML so the
// resolver's raw evidence is browsable next to the content it produced.
func writeDiagnosticsPage(report *structure.Report, brand string, nav []navItem, outDir string) error {
	var md bytes.Buffer
	if err := report.WriteMarkdown(&md); err != nil {
		return err
	}
	var rendered bytes.Buffer
	if err := goldmark.New().Convert(md.Bytes(), &rendered); err != nil {
		return fmt.Errorf("render diagnostics: %w", err)
	}
	return renderShell(filepath.Join(outDir, "pages", "structure.html"), shellData{
		Title:     "Structure — " + brand,
		Brand:     brand,
		RelPrefix: "../",
		Nav:       activateNav(nav, false, "structure", "../"),
		Body:      template.HTML(rendered.String()),
	})
}

func writeArtifacts(report *structure.Report, outDir string) error {
	jf, err := os.Create(filepath.Join(outDir, "structure.json"))
	if err != nil {
		return err
	}
	defer jf.Close()
	if err := report.WriteJSON(jf); err != nil {
		return fmt.Errorf("write structure.json: %w", err)
	}

	mf, err := os.Create(filepath.Join(outDir, "structure.md"))
	if err != nil {
		return err
	}
	defer mf.Close()
	if err := report.WriteMarkdown(mf); err != nil {
		return fmt.Errorf("write structure.md: %w", err)
	}
	return nil
}

// activateNav marks the current page and rewrites hrefs relative to it.
func activateNav(nav []navItem, home bool, slug, relPrefix string) []navItem {
	out := make([]navItem, len(nav))
	for i, item := range nav {
		out[i] = item
		switch {
		case home && item.Href == "index.html":
			out[i].Active = true
		case strings.HasSuffix(item.Href, "/"+slug+".html"):
			out[i].Active = true
		}
		if relPrefix == "../" {
			if item.Href == "index.html" {
				out[i].Href = "../index.html"
			} else {
				out[i].Href = strings.TrimPrefix(item.Href, "pages/")
			}
		}
	}
	return out
}

func renderShell(path string, data shellData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := shellTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// extractText joins the plain text of a page range, skipping unreadable
// pages and collapsing runs of blank lines.
func extractText(pages structure.PageSource, start, end int) string {
	var chunks []string
	for p := start; p <= end; p++ {
		page, err := pages.Page(p)
		if err != nil || page == nil {
			continue
		}
		if t := strings.TrimSpace(page.Text); t != "" {
			chunks = append(chunks, t)
		}
	}
	combined := strings.Join(chunks, "\n\n")
	return strings.TrimSpace(excessNewlines.ReplaceAllString(combined, "\n\n"))
}
