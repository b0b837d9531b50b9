package render

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "acadpulse/internal/errors"
	"acadpulse/pkg/contracts/domain"
)

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	docxDocumentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

	// A4 with narrow margins, in twentieths of a point
	docxDocumentClose = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="720" w:right="900" w:bottom="720" w:left="900" w:header="0" w:footer="0" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`

	// DocumentPart is the main part of a rendered DOCX package
	DocumentPart = "word/document.xml"
)

const (
	lowAttendanceNotice = "Notice Regarding Low Attendance: It is hereby brought to the notice of the parent/guardian " +
		"that the student's attendance is below the minimum required threshold of 75%% in the following subject(s): %s. " +
		"As per university regulations, students who fail to maintain 75%% attendance are liable for detention " +
		"and may be debarred from end-semester examinations."
	lowAttendanceNoticeTe = "సూచన: విద్యార్థి హాజరు శాతం పై పేర్కొన్న సబ్జెక్టు(ల)లో 75% కంటే తక్కువగా ఉన్నది. " +
		"విశ్వవిద్యాలయ నిబంధనల ప్రకారం 75% హాజరును నిర్వహించని విద్యార్థులు డిటెన్షన్‌కు గురవుతారు."
	backlogNotice = "Notice Regarding Backlogs: It is observed that the student has backlog(s) in the following " +
		"subject(s): %s. The student is advised to take dedicated academic effort to clear the above-mentioned " +
		"backlog(s) at the earliest."
	backlogNoticeTe = "సూచన: విద్యార్థికి పై పేర్కొన్న సబ్జెక్టు(ల)లో బ్యాక్‌లాగ్(లు) ఉన్నట్లు గమనించబడింది. " +
		"విద్యార్థి వీలైనంత త్వరగా క్లియర్ చేయడానికి అంకితమైన అకడమిక్ కృషి చేయాలని సూచించబడింది."
)

// DOCXRenderer renders the report letter as a Word document
type DOCXRenderer struct {
	letterhead Letterhead
	now        Clock
	logger     *slog.Logger
}

// NewDOCXRenderer creates a Word renderer. A nil clock uses time.Now.
func NewDOCXRenderer(letterhead Letterhead, now Clock, logger *slog.Logger) *DOCXRenderer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DOCXRenderer{
		letterhead: letterhead,
		now:        now,
		logger:     logger.With(slog.String("component", "docx_renderer")),
	}
}

// Format implements Renderer
func (r *DOCXRenderer) Format() Format { return FormatDOCX }

// Render implements Renderer
func (r *DOCXRenderer) Render(ctx context.Context, p *domain.StudentProfile) ([]byte, error) {
	body := documentXML(newReportView(r.letterhead, r.now(), p))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range []struct{ name, content string }{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{DocumentPart, body},
	} {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, apperrors.NewRenderError("failed to create document part", err).
				WithContext("student_id", p.StudentID)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, apperrors.NewRenderError("failed to write document part", err).
				WithContext("student_id", p.StudentID)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, apperrors.NewRenderError("failed to finish document", err).
			WithContext("student_id", p.StudentID)
	}

	r.logger.DebugContext(ctx, "Rendered DOCX report",
		slog.String("student_id", p.StudentID),
		slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func documentXML(v reportView) string {
	d := &docxBuilder{}
	d.b.WriteString(docxDocumentOpen)

	d.para(v.UniversityName, runStyle{bold: true, size: 44, color: colorBrand}, "center")
	if v.UniversityFullName != "" {
		d.para(v.UniversityFullName, runStyle{size: 20, color: "555555"}, "center")
	}
	d.para(v.DepartmentName, runStyle{bold: true, size: 26}, "center")
	d.para(v.Title, runStyle{bold: true, size: 28, color: colorBrand}, "center")
	d.para("Date: "+v.Date, runStyle{size: 20, color: "555555"}, "right")

	d.heading("Student Details")
	d.detailTable(v.Details)

	p := v.Student
	if len(p.AttendanceRecords) > 0 {
		d.heading("Current Semester Attendance")
		rows := make([][]docxCell, 0, len(p.AttendanceRecords))
		for _, a := range p.AttendanceRecords {
			rows = append(rows, []docxCell{
				{text: a.SubjectCode},
				{text: a.SubjectName},
				{text: fmt.Sprintf("%d", a.ClassesHeld)},
				{text: fmt.Sprintf("%d", a.ClassesAttended)},
				bandCell(fmt.Sprintf("%.1f%%", a.AttendancePercentage), a.Status),
			})
		}
		d.table([]string{"Subject Code", "Subject Name", "Classes Held", "Classes Attended", "Attendance %"}, rows)

		overall := bandCell("", domain.BandFor(p.OverallAttendance))
		d.para(fmt.Sprintf("Overall Attendance: %.1f%%", p.OverallAttendance),
			runStyle{bold: true, color: overall.color}, "")
		if len(v.LowAttendance) > 0 {
			names := make([]string, len(v.LowAttendance))
			for i, s := range v.LowAttendance {
				names[i] = fmt.Sprintf("%s (%.1f%%)", s.Name, s.Percentage)
			}
			d.para(fmt.Sprintf(lowAttendanceNotice, strings.Join(names, ", ")), runStyle{size: 20, color: colorRedText}, "")
			if v.TeluguNotice {
				d.para(lowAttendanceNoticeTe, runStyle{size: 20, italic: true, color: "555555"}, "")
			}
		}
	}

	if len(p.PreviousResults) > 0 {
		d.heading("Previous Semester Results")
		rows := make([][]docxCell, 0, len(p.PreviousResults))
		for _, res := range p.PreviousResults {
			grade := docxCell{text: res.Grade}
			if res.IsBacklog {
				grade = docxCell{text: res.Grade, bold: true, color: colorRedText, fill: colorRedFill}
			}
			rows = append(rows, []docxCell{
				{text: res.SubjectCode},
				{text: res.SubjectName},
				grade,
				{text: formatCredits(res.Credits)},
			})
		}
		d.table([]string{"Subject Code", "Subject Name", "Grade", "Credits"}, rows)

		if p.HasCGPA() {
			d.para(fmt.Sprintf("Previous Semester CGPA: %.2f", *p.CGPA), runStyle{bold: true, color: "1A237E"}, "")
		}
		if p.BacklogCount > 0 {
			d.para(fmt.Sprintf(backlogNotice, strings.Join(p.BacklogSubjects, ", ")), runStyle{size: 20, color: colorRedText}, "")
			if v.TeluguNotice {
				d.para(backlogNoticeTe, runStyle{size: 20, italic: true, color: "555555"}, "")
			}
		} else {
			d.para("No Backlogs - All Subjects Cleared", runStyle{bold: true, color: colorGreenText}, "")
		}
	}

	if len(v.Counselor) > 0 {
		d.heading("Counselor / Mentor Details")
		d.detailTable(v.Counselor)
	}

	if v.NeedsAttention {
		d.heading("Areas of Concern")
		for _, reason := range v.ConcernReasons {
			d.para("• "+reason, runStyle{}, "")
		}
	}

	for _, line := range strings.Split(v.Footer, "\n") {
		d.para(line, runStyle{}, "")
	}
	d.para(v.HODName, runStyle{bold: true, color: colorBrand}, "")
	d.para(v.DepartmentName, runStyle{color: "555555"}, "")

	d.b.WriteString(docxDocumentClose)
	return d.b.String()
}

// bandCell colors a cell by attendance band
func bandCell(text string, status domain.AttendanceStatus) docxCell {
	switch status {
	case domain.AttendanceRed:
		return docxCell{text: text, bold: true, color: colorRedText, fill: colorRedFill}
	case domain.AttendanceYellow:
		return docxCell{text: text, bold: true, color: colorYellowText, fill: colorYellowFill}
	default:
		return docxCell{text: text, bold: true, color: colorGreenText, fill: colorGreenFill}
	}
}

type runStyle struct {
	bold   bool
	italic bool
	size   int // half-points
	color  string
}

type docxCell struct {
	text  string
	bold  bool
	color string
	fill  string
}

// docxBuilder writes WordprocessingML body markup
type docxBuilder struct {
	b strings.Builder
}

func (d *docxBuilder) escaped(s string) {
	_ = xml.EscapeText(&d.b, []byte(s))
}

func (d *docxBuilder) run(text string, st runStyle) {
	d.b.WriteString("<w:r><w:rPr>")
	if st.bold {
		d.b.WriteString("<w:b/>")
	}
	if st.italic {
		d.b.WriteString("<w:i/>")
	}
	if st.color != "" {
		fmt.Fprintf(&d.b, `<w:color w:val="%s"/>`, st.color)
	}
	if st.size > 0 {
		fmt.Fprintf(&d.b, `<w:sz w:val="%d"/>`, st.size)
	}
	d.b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	d.escaped(text)
	d.b.WriteString("</w:t></w:r>")
}

func (d *docxBuilder) para(text string, st runStyle, align string) {
	d.b.WriteString("<w:p>")
	if align != "" {
		fmt.Fprintf(&d.b, `<w:pPr><w:jc w:val="%s"/></w:pPr>`, align)
	}
	if text != "" {
		d.run(text, st)
	}
	d.b.WriteString("</w:p>")
}

func (d *docxBuilder) heading(text string) {
	d.b.WriteString(`<w:p><w:pPr><w:spacing w:before="160" w:after="80"/>` +
		`<w:pBdr><w:left w:val="single" w:sz="24" w:space="4" w:color="` + colorBrand + `"/></w:pBdr></w:pPr>`)
	d.run(text, runStyle{bold: true, size: 24})
	d.b.WriteString("</w:p>")
}

func (d *docxBuilder) cell(c docxCell) {
	d.b.WriteString("<w:tc>")
	if c.fill != "" {
		fmt.Fprintf(&d.b, `<w:tcPr><w:shd w:val="clear" w:color="auto" w:fill="%s"/></w:tcPr>`, c.fill)
	}
	d.b.WriteString("<w:p>")
	d.run(c.text, runStyle{bold: c.bold, color: c.color, size: 20})
	d.b.WriteString("</w:p></w:tc>")
}

func (d *docxBuilder) openTable(cols int) {
	d.b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&d.b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="DDDDDD"/>`, edge)
	}
	d.b.WriteString("</w:tblBorders></w:tblPr><w:tblGrid>")
	width := 10000 / cols
	for i := 0; i < cols; i++ {
		fmt.Fprintf(&d.b, `<w:gridCol w:w="%d"/>`, width)
	}
	d.b.WriteString("</w:tblGrid>")
}

func (d *docxBuilder) table(header []string, rows [][]docxCell) {
	d.openTable(len(header))
	d.b.WriteString("<w:tr>")
	for _, h := range header {
		d.cell(docxCell{text: h, bold: true, color: "FFFFFF", fill: colorBrand})
	}
	d.b.WriteString("</w:tr>")
	for _, row := range rows {
		d.b.WriteString("<w:tr>")
		for _, c := range row {
			d.cell(c)
		}
		d.b.WriteString("</w:tr>")
	}
	d.b.WriteString("</w:tbl>")
}

func (d *docxBuilder) detailTable(rows []detailRow) {
	d.openTable(2)
	for _, r := range rows {
		d.b.WriteString("<w:tr>")
		d.cell(docxCell{text: r.Label, bold: true, fill: "FAFAFA"})
		d.cell(docxCell{text: r.Value})
		d.b.WriteString("</w:tr>")
	}
	d.b.WriteString("</w:tbl>")
}
