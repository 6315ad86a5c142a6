package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/novvoo/go-pdf-utils/pkg/watermark"
)

// errUsage 参数错误，用法说明已经输出
var errUsage = errors.New("usage")

// propFlag 可重复的 -prop key=value
type propFlag map[string]string

func (p propFlag) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+p[k])
	}
	return strings.Join(parts, ",")
}

func (p propFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	p[strings.TrimSpace(k)] = v
	return nil
}

// stampFlags watermark 与 preview 共用的水印参数
type stampFlags struct {
	configPath string
	text       string
	font       string
	size       float64
	rotation   int
	color      string
	alpha      float64
	x, y       float64
	invertY    bool
	props      propFlag
	verbose    bool
	logLevel   string
}

func (s *stampFlags) register(fs *flag.FlagSet) {
	s.props = propFlag{}
	fs.StringVar(&s.configPath, "config", "", "YAML profile with watermark defaults")
	fs.StringVar(&s.text, "text", "", "Watermark text (empty leaves the document unchanged)")
	fs.StringVar(&s.font, "font", watermark.DefaultFontFamily, "Standard font name")
	fs.Float64Var(&s.size, "size", watermark.DefaultFontSize, "Font size in points")
	fs.IntVar(&s.rotation, "rotation", 0, "Additional text rotation in degrees")
	fs.StringVar(&s.color, "color", "#ffffff", "Fill color (#rrggbb, #rgb or a color name)")
	fs.Float64Var(&s.alpha, "alpha", watermark.DefaultAlpha, "Opacity in (0, 1], blended against white")
	fs.Float64Var(&s.x, "x", 0, "X position in points")
	fs.Float64Var(&s.y, "y", 0, "Y position in points")
	fs.BoolVar(&s.invertY, "invert-y", false, "Measure -y from the top of the page")
	fs.Var(s.props, "prop", "Watermark property key=value (repeatable), e.g. hex255Color=ff0000")
	fs.BoolVar(&s.verbose, "v", false, "Verbose (debug) logging")
	fs.StringVar(&s.logLevel, "log-level", "", "Log level: debug, info, warn, error, none")
}

// spec 依次应用配置文件、显式设置的命令行参数和 -prop
func (s *stampFlags) spec(fs *flag.FlagSet) (*watermark.Spec, error) {
	cfg, err := loadConfig(s.configPath)
	if err != nil {
		return nil, err
	}
	if err := applyLogFlags(s.verbose, s.logLevel); err != nil {
		return nil, err
	}

	b := cfg.Watermark.Builder()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "text":
			b.Text(s.text)
		case "font":
			b.FontFamily(s.font)
		case "size":
			b.FontSize(s.size)
		case "rotation":
			b.TextRotation(s.rotation)
		case "color":
			b.HexColor(s.color)
		case "alpha":
			b.Alpha(s.alpha)
		case "x":
			b.XPosition(s.x)
		case "y":
			b.YPosition(s.y)
		case "invert-y":
			b.InvertY(s.invertY)
		}
	})
	if len(s.props) > 0 {
		b.ApplyProperties(s.props)
	}
	return b.Build()
}

// parse 解析参数并检查位置参数个数
func parse(fs *flag.FlagSet, args []string, min, max int) error {
	// 出错时 FlagSet 已经输出了错误和用法
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if n := fs.NArg(); n < min || n > max {
		fs.Usage()
		return errUsage
	}
	return nil
}

func newFlagSet(name string, w io.Writer, synopsis, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() {
		fmt.Fprintf(w, "Usage: %s %s %s\n\n", program, name, synopsis)
		fmt.Fprintln(w, description)
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Options:")
		fs.PrintDefaults()
	}
	return fs
}
