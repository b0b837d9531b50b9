package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "acadpulse/internal/errors"
)

func TestHTMLRenderer_ConcernLetter(t *testing.T) {
	r := NewHTMLRenderer(testLetterhead(), fixedClock, testLogger())
	assert.Equal(t, FormatHTML, r.Format())

	out, err := r.Render(context.Background(), concernProfile())
	require.NoError(t, err)
	html := string(out)

	for _, want := range []string{
		"KL University",
		"Date: March 07, 2025",
		"<td>Student ID</td><td>2300001</td>",
		"<td>Branch</td><td>CSE</td>",
		`<td class="att-red">50.0%</td>`,
		`<td class="att-yellow">77.5%</td>`,
		`<td class="backlog">F</td>`,
		"Overall Attendance: 63.8%",
		"Previous Semester CGPA: 5.71",
		"Notice Regarding Low Attendance",
		"Data Structures (50.0%)",
		"Notice Regarding Backlogs",
		"సూచన",
		"Counselor / Mentor Details",
		"<td>Counselor Name</td><td>Dr. Rao</td>",
		"Areas of Concern",
		"Head of the Department\nCSE",
		"Anubothu Aravind",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "No Backlogs")
	assert.NotContains(t, html, "<td>Year</td>", "blank optional rows are skipped")
}

func TestHTMLRenderer_SatisfactoryLetter(t *testing.T) {
	r := NewHTMLRenderer(testLetterhead(), fixedClock, testLogger())

	out, err := r.Render(context.Background(), goodProfile())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "academic performance and attendance are satisfactory")
	assert.Contains(t, html, `<td class="att-green">100.0%</td>`)
	assert.NotContains(t, html, "Notice Regarding Low Attendance")
	assert.NotContains(t, html, "Areas of Concern")
	assert.NotContains(t, html, "Previous Semester Results", "no results section without results")
	assert.NotContains(t, html, "Counselor / Mentor Details")
}

func TestHTMLRenderer_TeluguNoticeDisabled(t *testing.T) {
	lh := testLetterhead()
	lh.TeluguNotice = false
	r := NewHTMLRenderer(lh, fixedClock, testLogger())

	out, err := r.Render(context.Background(), concernProfile())
	require.NoError(t, err)
	assert.Contains(t, string(out), "Notice Regarding Low Attendance")
	assert.NotContains(t, string(out), "సూచన")
}

func TestHTMLRenderer_EscapesStudentData(t *testing.T) {
	p := goodProfile()
	p.StudentName = `<script>alert("x")</script>`
	r := NewHTMLRenderer(testLetterhead(), fixedClock, nil)

	out, err := r.Render(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(out), "<script>"))
	assert.Contains(t, string(out), "&lt;script&gt;")
}

func TestPDFRenderer_MissingBrowser(t *testing.T) {
	html := NewHTMLRenderer(testLetterhead(), fixedClock, testLogger())
	r := NewPDFRenderer(html, "/nonexistent/chrome-binary", 0, testLogger())
	assert.Equal(t, FormatPDF, r.Format())
	assert.Equal(t, defaultPDFTimeout, r.timeout)

	_, err := r.Render(context.Background(), goodProfile())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeRender, appErr.Type)
	assert.Equal(t, "T-9", appErr.Context["student_id"])
}
