package render

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"acadpulse/pkg/contracts/domain"
)

// DefaultBundleName is the download name of a report bundle
const DefaultBundleName = "all_student_reports.zip"

// maxParallelRenders bounds concurrent renders; PDF renders each start a browser
const maxParallelRenders = 4

// WriteBundle renders every profile with r and writes the documents to w as a
// ZIP archive in profile order. Colliding file names get a numeric suffix.
// Any render failure aborts the bundle.
func WriteBundle(ctx context.Context, w io.Writer, r Renderer, ps []*domain.StudentProfile) error {
	docs := make([][]byte, len(ps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRenders)
	for i, p := range ps {
		g.Go(func() error {
			doc, err := r.Render(gctx, p)
			if err != nil {
				return fmt.Errorf("render %s: %w", p.StudentID, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	seen := make(map[string]int, len(ps))
	for i, p := range ps {
		name := uniqueName(ReportFilename(p, r.Format()), seen)
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to add %s to bundle: %w", name, err)
		}
		if _, err := fw.Write(docs[i]); err != nil {
			return fmt.Errorf("failed to write %s to bundle: %w", name, err)
		}
	}
	return zw.Close()
}

// uniqueName appends "_2", "_3", ... before the extension of repeated names
func uniqueName(name string, seen map[string]int) string {
	seen[name]++
	n := seen[name]
	if n == 1 {
		return name
	}
	ext := ""
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name, ext = name[:dot], name[dot:]
	}
	return fmt.Sprintf("%s_%d%s", name, n, ext)
}
