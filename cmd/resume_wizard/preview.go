package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-wizard/internal/config"
	"github.com/jonathan/resume-wizard/internal/gateway"
	"github.com/jonathan/resume-wizard/internal/preview"
	"github.com/jonathan/resume-wizard/internal/types"
)

var (
	previewSessionID string
	previewOut       string
	previewPDF       bool
	previewVerbose   bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a session's resume preview",
	Long:  `Fetch a session's resume data and render the preview document without walking through the wizard.`,
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewSessionID, "session", "", "Session ID to render (required)")
	previewCmd.Flags().StringVar(&previewOut, "out", "resume.html", "Preview output path")
	previewCmd.Flags().BoolVar(&previewPDF, "pdf", false, "Also print the preview to PDF")
	previewCmd.Flags().BoolVar(&previewVerbose, "verbose", false, "Enable debug logging")
	_ = previewCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(previewVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	cfg := config.NewClientConfig()

	client, err := gateway.New(cfg.BaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	if err := authenticate(ctx, client); err != nil {
		return err
	}

	snap, err := client.ResumeData(ctx, previewSessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", previewSessionID, err)
	}
	return writePreview(ctx, snap.ToDraft(), previewOut, previewPDF)
}

// writePreview renders the draft and writes the HTML document, plus a PDF
// alongside it when requested.
func writePreview(ctx context.Context, draft *types.ResumeDraft, out string, pdf bool) error {
	html, err := preview.Render(draft)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	fmt.Printf("Wrote %s\n", out)

	if !pdf {
		return nil
	}
	bytes, err := preview.PrintPDF(ctx, html)
	if err != nil {
		return err
	}
	pdfPath := strings.TrimSuffix(out, ".html") + ".pdf"
	if err := os.WriteFile(pdfPath, bytes, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	fmt.Printf("Wrote %s\n", pdfPath)
	return nil
}
