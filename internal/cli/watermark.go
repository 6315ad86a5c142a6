package cli

import (
	"fmt"

	"github.com/novvoo/go-pdf-utils/pkg/watermark"
)

func watermarkCommand(args []string, e env) error {
	var sf stampFlags
	fs := newFlagSet("watermark", e.stderr, "[options] <input.pdf> <output.pdf>",
		"Draw a text stamp on every page of a PDF.")
	sf.register(fs)

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
	out, err := watermark.New(spec).Watermark(src)
	if err != nil {
		return err
	}
	if err := writeOutput(fs.Arg(1), out); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "Watermarked %s -> %s\n", fs.Arg(0), fs.Arg(1))
	return nil
}
