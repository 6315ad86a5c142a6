package cli

import (
	"fmt"
	"path/filepath"

	"github.com/novvoo/go-pdf-utils/pkg/extract"
	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
)

func extractCommand(args []string, e env) error {
	var (
		req        extract.Request
		configPath string
		dir        string
		verbose    bool
		logLevel   string
	)

	fs := newFlagSet("extract", e.stderr, "[options] <input.pdf> [output.pdf]",
		"Copy pages start..end (1-based, inclusive) into a new PDF.\n"+
			"Without an output path the file is named <input>-<start>-<end>.pdf.")
	fs.IntVar(&req.Start, "start", 1, "First page")
	fs.IntVar(&req.End, "end", 1, "Last page (clamped to the page count)")
	fs.StringVar(&req.Title, "title", "", "Document title")
	fs.StringVar(&req.Subject, "subject", "", "Document subject")
	fs.StringVar(&req.Author, "author", "", "Document author")
	fs.StringVar(&configPath, "config", "", "YAML profile with extraction defaults")
	fs.StringVar(&dir, "dir", ".", "Output directory when no output path is given")
	fs.BoolVar(&verbose, "v", false, "Verbose (debug) logging")
	fs.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, none")

	if err := parse(fs, args, 1, 2); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := applyLogFlags(verbose, logLevel); err != nil {
		return err
	}

	inPath := fs.Arg(0)
	if fs.NArg() == 2 {
		req.FileName = filepath.Base(fs.Arg(1))
	}
	cfg.Extract.Apply(&req)

	data, err := readInput(inPath)
	if err != nil {
		return err
	}
	res, err := extract.New().Extract(pdfdoc.NewBlob(data, filepath.Base(inPath)), req)
	if err != nil {
		return err
	}

	outPath := filepath.Join(dir, res.FileName)
	if fs.NArg() == 2 {
		outPath = fs.Arg(1)
	}
	if err := writeOutput(outPath, res.Data); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "Extracted %d page(s) -> %s\n", res.PageCount, outPath)
	return nil
}
