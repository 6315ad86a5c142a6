package watermark

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
)

func TestDefaults(t *testing.T) {
	spec, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if spec.Text() != "" || !spec.IsNoop() {
		t.Error("default text should be empty")
	}
	if spec.FontFamily() != "Helvetica" {
		t.Errorf("FontFamily() = %q, want Helvetica", spec.FontFamily())
	}
	if spec.FontSize() != 36 {
		t.Errorf("FontSize() = %g, want 36", spec.FontSize())
	}
	if spec.Color() != White || spec.Alpha() != 1 {
		t.Errorf("default color = %v alpha %g, want white opaque", spec.Color(), spec.Alpha())
	}
	if spec.XPosition() != 0 || spec.YPosition() != 0 || spec.InvertY() {
		t.Errorf("unexpected default position: %v", spec)
	}
}

func TestBuilderFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Builder)
		check func(*Spec) bool
	}{
		{"字号 0 回退到 36", func(b *Builder) { b.FontSize(0) }, func(s *Spec) bool { return s.FontSize() == 36 }},
		{"字号 0.5 回退到 36", func(b *Builder) { b.FontSize(0.5) }, func(s *Spec) bool { return s.FontSize() == 36 }},
		{"字号 1 保留", func(b *Builder) { b.FontSize(1) }, func(s *Spec) bool { return s.FontSize() == 1 }},
		{"字号 +Inf 回退到 36", func(b *Builder) { b.FontSize(math.Inf(1)) }, func(s *Spec) bool { return s.FontSize() == 36 }},
		{"字号 NaN 回退到 36", func(b *Builder) { b.FontSize(math.NaN()) }, func(s *Spec) bool { return s.FontSize() == 36 }},
		{"x = +Inf 回退到 0", func(b *Builder) { b.XPosition(math.Inf(1)) }, func(s *Spec) bool { return s.XPosition() == 0 }},
		{"y = -Inf 回退到 0", func(b *Builder) { b.YPosition(math.Inf(-1)) }, func(s *Spec) bool { return s.YPosition() == 0 }},
		{"alpha +Inf", func(b *Builder) { b.Alpha(math.Inf(1)) }, func(s *Spec) bool { return s.Alpha() == 1 }},
		{"x = -5 回退到 0", func(b *Builder) { b.XPosition(-5) }, func(s *Spec) bool { return s.XPosition() == 0 }},
		{"y = -5 回退到 0", func(b *Builder) { b.YPosition(100).YPosition(-5) }, func(s *Spec) bool { return s.YPosition() == 0 }},
		{"alpha 超出范围", func(b *Builder) { b.Alpha(1.5) }, func(s *Spec) bool { return s.Alpha() == 1 }},
		{"alpha 为 0", func(b *Builder) { b.Alpha(0) }, func(s *Spec) bool { return s.Alpha() == 1 }},
		{"未知字体", func(b *Builder) { b.FontFamily("Comic Sans") }, func(s *Spec) bool { return s.FontFamily() == "Helvetica" }},
		{"空字体", func(b *Builder) { b.FontFamily("") }, func(s *Spec) bool { return s.FontFamily() == "Helvetica" }},
		{"字体忽略大小写", func(b *Builder) { b.FontFamily("courier-oblique") }, func(s *Spec) bool { return s.FontFamily() == "Courier-Oblique" }},
		{"空颜色回退到白色", func(b *Builder) { b.Color(RGB{1, 2, 3}).HexColor("") }, func(s *Spec) bool { return s.Color() == White }},
		{"旋转角度不限范围", func(b *Builder) { b.TextRotation(-405) }, func(s *Spec) bool { return s.TextRotation() == -405 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			spec, err := b.Build()
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if !tt.check(spec) {
				t.Errorf("unexpected spec: %v", spec)
			}
		})
	}
}

func TestBuilderMalformedColor(t *testing.T) {
	_, err := NewBuilder().Text("x").HexColor("#zzz").Build()

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "color" {
		t.Errorf("Field = %q, want color", cfgErr.Field)
	}
}

func TestSpecImmutable(t *testing.T) {
	b := NewBuilder().Text("first")
	spec, _ := b.Build()
	b.Text("second")

	if spec.Text() != "first" {
		t.Errorf("built spec changed after builder reuse: %q", spec.Text())
	}
}

func TestApplyProperties(t *testing.T) {
	spec, err := NewBuilder().ApplyProperties(map[string]string{
		"text":         "© Toto",
		"fontFamily":   "times-bold",
		"fontSize":     "12",
		"xPosition":    "200",
		"yPosition":    "300",
		"alphaColor":   "0.9",
		"invertY":      "true",
		"textRotation": "45",
		"hex255Color":  "#ff0000",
	}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := map[string]any{
		"text":     spec.Text(),
		"font":     spec.FontFamily(),
		"size":     spec.FontSize(),
		"x":        spec.XPosition(),
		"y":        spec.YPosition(),
		"alpha":    spec.Alpha(),
		"invertY":  spec.InvertY(),
		"rotation": spec.TextRotation(),
		"color":    spec.Color(),
	}
	want := map[string]any{
		"text":     "© Toto",
		"font":     "Times-Bold",
		"size":     12.0,
		"x":        200.0,
		"y":        300.0,
		"alpha":    0.9,
		"invertY":  true,
		"rotation": 45,
		"color":    RGB{255, 0, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ApplyProperties mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPropertiesErrors(t *testing.T) {
	_, err := NewBuilder().ApplyProperties(map[string]string{
		"fontSize": "big",
		"invertY":  "maybe",
		"opacity":  "0.5",
	}).Build()
	if err == nil {
		t.Fatal("expected configuration errors")
	}

	fields := map[string]bool{}
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var cfgErr *ConfigurationError
		if errors.As(e, &cfgErr) {
			fields[cfgErr.Field] = true
		}
	}
	for _, f := range []string{"fontSize", "invertY", "opacity"} {
		if !fields[f] {
			t.Errorf("missing ConfigurationError for %s (got %v)", f, fields)
		}
	}
}

func TestApplyPropertiesNumericFallback(t *testing.T) {
	// 越界数值静默回退，不是错误
	spec, err := NewBuilder().ApplyProperties(map[string]string{
		"fontSize":  "0",
		"xPosition": "-5",
	}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if spec.FontSize() != 36 || spec.XPosition() != 0 {
		t.Errorf("unexpected spec: %v", spec)
	}
}

func TestApplyPropertiesNonFinite(t *testing.T) {
	spec, err := NewBuilder().ApplyProperties(map[string]string{
		"text":         "x",
		"fontSize":     "+Inf",
		"xPosition":    "Inf",
		"yPosition":    "NaN",
		"alphaColor":   "-Inf",
		"textRotation": "Inf",
	}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if spec.FontSize() != 36 || spec.XPosition() != 0 || spec.YPosition() != 0 || spec.Alpha() != 1 || spec.TextRotation() != 0 {
		t.Errorf("unexpected spec: %v", spec)
	}

	// 写入内容流的数值都必须是有限值
	p, ok := Place(spec, pdfdoc.PageGeometry{Width: 612, Height: 792}, func(text, family string) float64 { return 500 })
	if !ok {
		t.Fatal("Place should succeed")
	}
	for _, v := range []float64{p.X, p.Y, p.Rotation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("non-finite placement: %+v", p)
		}
	}
}

func TestApplyPropertiesHugeRotation(t *testing.T) {
	spec, err := NewBuilder().ApplyProperties(map[string]string{"textRotation": "1e12"}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// 1e12 = 2777777777 * 360 + 280
	if got := spec.TextRotation(); got != 280 {
		t.Errorf("TextRotation() = %d, want 280", got)
	}
}
