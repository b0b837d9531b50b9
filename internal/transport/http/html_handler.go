package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// landingPage is served when the web directory has no index.html
var landingPage = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        code { background: #f4f4f4; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>{{.Department}}</p>
    <h2>Upload</h2>
    <form action="/api/analyze" method="post" enctype="multipart/form-data">
        <p><label>Results file <input type="file" name="results_file" accept=".csv,.xlsx,.xls"></label></p>
        <p><label>Attendance file <input type="file" name="attendance_file" accept=".csv,.xlsx,.xls"></label></p>
        <p><button type="submit">Analyze</button></p>
    </form>
    <h2>Endpoints</h2>
    <ul>
        <li><code>GET /api/students</code></li>
        <li><code>GET /api/student/{id}</code></li>
        <li><code>GET /api/report/{id}/{pdf|xlsx|html|docx}</code></li>
        <li><code>POST /api/download-all-reports?format=pdf</code></li>
        <li><code>GET /api/health</code></li>
        <li><code>GET /ws</code></li>
    </ul>
</body>
</html>
`))

// ServeDashboard serves webDir/index.html, or a minimal upload page when
// the dashboard is not installed
func ServeDashboard(webDir, title, department string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setPageHeaders(w)

		indexPath := filepath.Join(webDir, "index.html")
		if _, err := os.Stat(indexPath); err == nil {
			http.ServeFile(w, r, indexPath)
			return
		}

		data := struct{ Title, Department string }{title, department}
		if err := landingPage.Execute(w, data); err != nil {
			logger.ErrorContext(r.Context(), "failed to render landing page",
				slog.String("error", err.Error()))
		}
	}
}

func setPageHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
