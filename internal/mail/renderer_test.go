package mail

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EmbeddedTemplates(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Render(TemplateApplicationAck, Vars{
		"Subject":     "Application Received: Go Developer",
		"CompanyName": "Acme",
		"Application": map[string]any{"FirstName": "Jane", "LastName": "Doe", "JobDetail": "Go Developer"},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Application Received: Go Developer</title>")
	assert.Contains(t, html, "Hello Jane Doe,")
	assert.Contains(t, html, "<strong>Go Developer</strong>")
	assert.Contains(t, html, "Acme")
}

func TestRenderer_NotificationTable(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Render(TemplateApplicationNotification, Vars{
		"CompanyName": "Acme",
		"Application": map[string]any{
			"FirstName":     "Jane",
			"PrimarySkills": "Go",
			"USCitizen":     "True",
			"Attachment":    map[string]any{"Filename": "cv.pdf"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>Go</td>")
	assert.Contains(t, html, "<code>cv.pdf</code>")
	assert.NotContains(t, html, "No resume attached.")
}

func TestRenderer_StripsScripts(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Render(TemplateInquiryNotification, Vars{
		"Inquiry": struct{ Name, Email, Subject, Message string }{
			Name:    "Eve",
			Email:   "eve@example.com",
			Subject: "Hi",
			Message: "<script>alert(1)</script>\n\n[click](javascript:alert(1)) <img src=x onerror=alert(1)>",
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "javascript:")
	assert.NotContains(t, html, "onerror")
	assert.Contains(t, html, "Message from Eve")
}

func TestRenderer_TableCellsKeepUserValues(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Render(TemplateApplicationNotification, Vars{
		"Application": map[string]any{
			"FirstName":          "Jane",
			"PrimarySkills":      "Go | Rust",
			"CurrentDesignation": "Lead\nVisa Sponsorship | forged",
			"VisaSponsorship":    "No",
		},
	})
	require.NoError(t, err)

	// Заголовок и шесть строк полей, лишних строк нет
	assert.Equal(t, 7, strings.Count(html, "<tr>"))
	assert.Contains(t, html, "<td>Go | Rust</td>")
	assert.Contains(t, html, "<td>Lead<br>Visa Sponsorship | forged</td>")
	assert.Contains(t, html, "<td>No</td>")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render("missing.md", Vars{})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestNewRendererFS_MissingLayout(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": &fstest.MapFile{Data: []byte("hello")},
	}

	_, err := NewRendererFS(fsys)
	assert.ErrorIs(t, err, ErrRenderFailed)
}
