// reportsite converts a large PDF technical report into a navigable static
// website: structure extraction first, then per-section pages with figures
// and an appendix library.
//
// Usage:
//
//	reportsite structure [-out <dir>] <file.pdf>
//	reportsite build [-out <dir>] <file.pdf>
//	reportsite serve [-dir <dir>]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/reportsite/reportsite/internal/config"
	"github.com/reportsite/reportsite/internal/pdfdoc"
	"github.com/reportsite/reportsite/internal/preview"
	"github.com/reportsite/reportsite/internal/site"
	"github.com/reportsite/reportsite/internal/structure"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "structure":
		err = runStructure(os.Args[2:], log)
	case "build":
		err = runBuild(os.Args[2:], log)
	case "serve":
		err = runServe(os.Args[2:], log)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`reportsite - turn a PDF report into a static website

Usage:
  reportsite structure [-out <dir>] <file.pdf>
  reportsite build [-out <dir>] <file.pdf>
  reportsite serve [-dir <dir>]

Commands:
  structure   Extract the section structure and write structure.json/.md
  build       Extract structure, then build the full static site
  serve       Serve a built site directory over local HTTP

Tunables are read from the environment (SCAN_WINDOW, HEADING_MARGIN,
MIN_GAP_PAGES, SCAN_WORKERS, PORT, ...).
`)
}

// parseArgs splits "-out value" style options from the positional argument.
func parseArgs(args []string, optName string) (opt, positional string, err error) {
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == optName:
			i++
			if i >= len(args) {
				return "", "", fmt.Errorf("%s requires an argument", optName)
			}
			opt = args[i]
		case len(args[i]) > 0 && args[i][0] == '-':
			return "", "", fmt.Errorf("unknown option: %s", args[i])
		default:
			positional = args[i]
		}
	}
	return opt, positional, nil
}

func extract(pdfPath string, cfg config.Config, log *slog.Logger) (*pdfdoc.Document, *structure.Report, error) {
	doc, err := pdfdoc.Open(pdfPath)
	if err != nil {
		return nil, nil, err
	}
	report, err := structure.Extract(context.Background(), doc, cfg.Pipeline(), log)
	if err != nil {
		doc.Close()
		return nil, nil, err
	}
	return doc, report, nil
}

func runStructure(args []string, log *slog.Logger) error {
	out, pdfPath, err := parseArgs(args, "-out")
	if err != nil {
		return err
	}
	if pdfPath == "" {
		return fmt.Errorf("no input file specified")
	}
	if out == "" {
		out = "."
	}

	cfg := config.Load()
	doc, report, err := extract(pdfPath, cfg, log)
	if err != nil {
		return err
	}
	defer doc.Close()

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	jf, err := os.Create(filepath.Join(out, "structure.json"))
	if err != nil {
		return err
	}
	defer jf.Close()
	if err := report.WriteJSON(jf); err != nil {
		return fmt.Errorf("write structure.json: %w", err)
	}
	mf, err := os.Create(filepath.Join(out, "structure.md"))
	if err != nil {
		return err
	}
	defer mf.Close()
	if err := report.WriteMarkdown(mf); err != nil {
		return fmt.Errorf("write structure.md: %w", err)
	}

	log.Info("structure written", "dir", out, "pages", report.PageCount)
	return nil
}

func runBuild(args []string, log *slog.Logger) error {
	out, pdfPath, err := parseArgs(args, "-out")
	if err != nil {
		return err
	}
	if pdfPath == "" {
		return fmt.Errorf("no input file specified")
	}
	if out == "" {
		out = "site"
	}

	cfg := config.Load()
	doc, report, err := extract(pdfPath, cfg, log)
	if err != nil {
		return err
	}
	defer doc.Close()

	builder := site.NewBuilder(log, cfg.MinFigurePixels, cfg.MaxFigures)
	if err := builder.Build(doc, doc, report, out); err != nil {
		return err
	}
	log.Info("site ready", "path", filepath.Join(out, "index.html"))
	return nil
}

func runServe(args []string, log *slog.Logger) error {
	dir, positional, err := parseArgs(args, "-dir")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = positional
	}
	if dir == "" {
		dir = "site"
	}

	cfg := config.Load()
	srv := preview.NewServer(dir, log)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("serving site", "dir", dir, "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
