package opord

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Preview is the view model shared by the live preview and the print view.
type Preview struct {
	Title       string
	Meta        []PreviewField
	Rows        []ScheduledRow
	Attachments []PreviewAttachment
}

type PreviewField struct {
	Label string
	Value string
}

type PreviewAttachment struct {
	Number int
	Name   string
	Image  template.URL
}

// NewPreview builds the preview table for s laid out as l.
func NewPreview(s FormState, l Layout) Preview {
	title := s.Meta.Title
	if title == "" {
		title = "OPORD"
	}
	p := Preview{
		Title: title,
		Meta: []PreviewField{
			{Label: "Unit", Value: s.Meta.Unit},
			{Label: "OPORD #", Value: s.Meta.OpordNumber},
			{Label: "DTG", Value: s.Meta.DTGLocal},
			{Label: "Location", Value: s.Meta.Location},
			{Label: "Classification", Value: s.Meta.Classification},
		},
		Rows: l.Rows,
	}
	for i, a := range s.Attachments {
		p.Attachments = append(p.Attachments, PreviewAttachment{
			Number: i + 1,
			Name:   a.Name,
			Image:  imageURL(a.ImageDataURL),
		})
	}
	return p
}

// RenderPreview writes the preview table fragment.
func RenderPreview(w io.Writer, s FormState, l Layout) error {
	return views.ExecuteTemplate(w, "preview", NewPreview(s, l))
}

// PreviewHTML renders the preview fragment for embedding in another page.
func PreviewHTML(s FormState, l Layout) (template.HTML, error) {
	var buf bytes.Buffer
	if err := RenderPreview(&buf, s, l); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// RenderPrintView writes a standalone printable page that opens the print
// dialog once loaded.
func RenderPrintView(w io.Writer, s FormState, l Layout) error {
	return views.ExecuteTemplate(w, "print", NewPreview(s, l))
}

// imageURL only lets embedded image data URIs through to img src.
func imageURL(uri string) template.URL {
	if !strings.HasPrefix(uri, "data:image/") {
		return ""
	}
	return template.URL(uri)
}
