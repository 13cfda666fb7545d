// Command render-preview renders a résumé JSON file with one of the layouts
// so templates can be checked without the database or a subscription.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	infra "resume-builder/pkg/infrastructure"
)

func main() {
	in := flag.String("in", "resume.json", "ResumeData JSON file")
	tmpl := flag.String("template", "fresher", "layout: corporate, fresher, general, technical, internship")
	out := flag.String("out", "resume.html", "HTML output path")
	pdf := flag.String("pdf", "", "optional PDF output path (needs Chrome)")
	flag.Parse()

	if err := run(*in, *tmpl, *out, *pdf); err != nil {
		fmt.Fprintf(os.Stderr, "render-preview: %v\n", err)
		os.Exit(2)
	}
}

func run(in, tmpl, out, pdfPath string) error {
	kind, err := domain.ParseTemplateKind(tmpl)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	d, err := model.Decode(b)
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}

	html, err := render.HTML(kind, d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)

	if pdfPath == "" {
		return nil
	}
	r := infra.NewChromedpRenderer(os.Getenv("CHROME_PATH"), 60*time.Second)
	pdf, err := r.RenderHTMLToPDF(context.Background(), html)
	if err != nil {
		return fmt.Errorf("print pdf: %w", err)
	}
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", pdfPath, len(pdf))
	return nil
}
