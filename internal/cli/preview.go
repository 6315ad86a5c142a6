package cli

import (
	"fmt"
	"os"

	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
	"github.com/novvoo/go-pdf-utils/pkg/preview"
)

func previewCommand(args []string, e env) (err error) {
	var (
		sf   stampFlags
		page int
		dpi  float64
	)

	fs := newFlagSet("preview", e.stderr, "[options] <input.pdf> <output.png>",
		"Render the page box and the stamp's bounding box as PNG.")
	sf.register(fs)
	fs.IntVar(&page, "page", 1, "Page to preview")
	fs.Float64Var(&dpi, "dpi", 72, "Output resolution")

	if err := parse(fs, args, 2, 2); err != nil {
		return err
	}

	spec, err := sf.spec(fs)
	if err != nil {
		return err
	}

	src, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	doc, err := pdfdoc.NewLoader().Load(src)
	if err != nil {
		return err
	}
	defer doc.Close()

	geom, err := doc.Page(page)
	if err != nil {
		return err
	}

	f, err := os.Create(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write output: %w", cerr)
		}
	}()

	if err := preview.NewRenderer(preview.Options{DPI: dpi}).WritePNG(f, geom, spec); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "Preview of page %d (%gx%g, rotate %d) -> %s\n",
		page, geom.Width, geom.Height, geom.Rotation, fs.Arg(1))
	return nil
}
