// Command pdfutils adds text watermarks to PDF files and extracts page ranges.
//
// Usage:
//
//	pdfutils <command> [options] <args>
//
// Commands:
//
//	watermark  Draw a text stamp on every page of a PDF
//	extract    Copy a page range into a new PDF
//	preview    Render where the stamp lands on a page as PNG
//	version    Show version information
//	help       Show help message
//
// Examples:
//
//	# Stamp every page, rotated 45 degrees, red at 30% opacity
//	pdfutils watermark -text CONFIDENTIAL -rotation 45 -color red -alpha 0.3 in.pdf out.pdf
//
//	# Pages 5 to the end, written as report-5-13.pdf for a 13-page input
//	pdfutils extract -start 5 -end 999 report.pdf
package main

import (
	"os"

	"github.com/novvoo/go-pdf-utils/internal/cli"
)

// These variables are set at build time using ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/pdfutils
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cli.Version = version
	cli.BuildTime = buildTime

	os.Exit(cli.Run(os.Args[1:]))
}
