package pdfdoc

import "testing"

func TestMatchStandardFont(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOk bool
	}{
		{"Helvetica", "Helvetica", true},
		{"helvetica", "Helvetica", true},
		{"times-roman", "Times-Roman", true},
		{"Courier_Bold", "Courier-Bold", true},
		{"Zapf Dingbats", "ZapfDingbats", true},
		{"Comic Sans", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := MatchStandardFont(tt.in)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("MatchStandardFont(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestStandardFonts(t *testing.T) {
	names := StandardFonts()
	if len(names) != 14 {
		t.Fatalf("expected 14 standard fonts, got %d: %v", len(names), names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("StandardFonts() not sorted: %v", names)
			break
		}
	}
	if !IsStandardFont(DefaultFont) {
		t.Errorf("default font %q should be standard", DefaultFont)
	}
}

func TestStringWidth(t *testing.T) {
	var m StandardMetrics

	// Courier 是等宽字体，每个字符 600 单位
	if got := m.StringWidth("abcd", "Courier"); !almostEqual(got, 2400) {
		t.Errorf("Courier width = %f, want 2400", got)
	}

	// 未知字体按 Helvetica 计算
	if m.StringWidth("Hello", "NoSuchFont") != m.StringWidth("Hello", "Helvetica") {
		t.Error("unknown font should fall back to Helvetica metrics")
	}

	if got := m.StringWidth("", "Helvetica"); got != 0 {
		t.Errorf("empty string width = %f, want 0", got)
	}
}
