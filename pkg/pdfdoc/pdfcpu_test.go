package pdfdoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/unicode"
)

func samplePages() []BlankPage {
	return []BlankPage{
		{Width: 612, Height: 792, Text: "page one"},
		{Width: 612, Height: 792, Rotation: 90, Text: "page two"},
		{Width: 595, Height: 842, Text: "page three"},
	}
}

func loadSample(t *testing.T) Document {
	t.Helper()
	doc, err := NewLoader().Load(NewRawPDF(samplePages(), Info{}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

func saveAndReload(t *testing.T, doc Document) Document {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reloaded, err := NewLoader().Load(buf.Bytes())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	t.Cleanup(func() { reloaded.Close() })
	return reloaded
}

func TestLoadGeometry(t *testing.T) {
	doc := loadSample(t)

	if doc.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, want 3", doc.PageCount())
	}

	want := []PageGeometry{
		{Width: 612, Height: 792},
		{Width: 612, Height: 792, Rotation: 90},
		{Width: 595, Height: 842},
	}
	for i, w := range want {
		g, err := doc.Page(i + 1)
		if err != nil {
			t.Fatalf("Page(%d) failed: %v", i+1, err)
		}
		if g != w {
			t.Errorf("Page(%d) = %+v, want %+v", i+1, g, w)
		}
	}

	if _, err := doc.Page(4); !IsDocumentIO(err) {
		t.Errorf("Page(4) should fail with DocumentIOError, got %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := NewLoader().Load([]byte("this is not a pdf"))
	if !IsDocumentIO(err) {
		t.Errorf("expected DocumentIOError, got %v", err)
	}
}

func TestLoadDoesNotMutateInput(t *testing.T) {
	src := NewRawPDF(samplePages(), Info{})
	orig := bytes.Clone(src)

	doc, err := NewLoader().Load(src)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer doc.Close()

	cs, _ := doc.NewContentStream(1)
	cs.BeginText()
	cs.SetFont("Helvetica", 12)
	cs.DrawString("x")
	cs.EndText()
	if err := cs.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := doc.Save(&bytes.Buffer{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !bytes.Equal(src, orig) {
		t.Error("input buffer was modified")
	}
}

func TestPageText(t *testing.T) {
	doc := loadSample(t)

	for i, want := range []string{"page one", "page two", "page three"} {
		text, err := doc.PageText(i + 1)
		if err != nil {
			t.Fatalf("PageText(%d) failed: %v", i+1, err)
		}
		if !strings.Contains(text, want) {
			t.Errorf("PageText(%d) = %q, want it to contain %q", i+1, text, want)
		}
	}
}

func TestContentStreamAppend(t *testing.T) {
	doc := loadSample(t)

	for n := 1; n <= doc.PageCount(); n++ {
		cs, err := doc.NewContentStream(n)
		if err != nil {
			t.Fatalf("NewContentStream(%d) failed: %v", n, err)
		}
		cs.BeginText()
		cs.SetFont("Helvetica-Bold", 36)
		cs.SetFillColor(255, 128, 128)
		cs.SetTextTransform(0.5, 100, 200)
		cs.DrawString("CONFIDENTIAL")
		cs.EndText()
		if err := cs.Close(); err != nil {
			t.Fatalf("Close(%d) failed: %v", n, err)
		}
	}

	reloaded := saveAndReload(t, doc)
	for n, original := range []string{"page one", "page two", "page three"} {
		text, err := reloaded.PageText(n + 1)
		if err != nil {
			t.Fatalf("PageText(%d) failed: %v", n+1, err)
		}
		if !strings.Contains(text, original) || !strings.Contains(text, "CONFIDENTIAL") {
			t.Errorf("page %d text = %q, want original text and stamp", n+1, text)
		}
		// 原有内容在前，水印在后
		if strings.Index(text, original) > strings.Index(text, "CONFIDENTIAL") {
			t.Errorf("page %d: stamp should be drawn after the original content: %q", n+1, text)
		}
	}
}

func TestContentStreamStickyError(t *testing.T) {
	doc := loadSample(t)

	cs, err := doc.NewContentStream(1)
	if err != nil {
		t.Fatalf("NewContentStream failed: %v", err)
	}
	cs.BeginText()
	cs.SetFont("Comic Sans", 12)
	cs.DrawString("ignored")
	cs.EndText()

	err = cs.Close()
	if !IsDocumentIO(err) {
		t.Fatalf("Close should report the first error as DocumentIOError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Comic Sans") {
		t.Errorf("error should name the font: %v", err)
	}

	// 失败的内容流不会写入页面
	text, _ := doc.PageText(1)
	if strings.Contains(text, "ignored") {
		t.Errorf("failed stream should not be committed: %q", text)
	}
}

func TestContentStreamDrawBeforeFont(t *testing.T) {
	doc := loadSample(t)

	cs, _ := doc.NewContentStream(2)
	cs.BeginText()
	cs.DrawString("x")
	cs.EndText()
	if err := cs.Close(); err == nil {
		t.Error("DrawString without SetFont should fail")
	}
}

func TestNewContentStreamOutOfRange(t *testing.T) {
	doc := loadSample(t)
	if _, err := doc.NewContentStream(0); !IsDocumentIO(err) {
		t.Errorf("page 0 should fail, got %v", err)
	}
}

func TestCopyPages(t *testing.T) {
	doc := loadSample(t)

	sub, err := doc.CopyPages(2, 3)
	if err != nil {
		t.Fatalf("CopyPages failed: %v", err)
	}
	defer sub.Close()

	if sub.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", sub.PageCount())
	}
	g, _ := sub.Page(1)
	if g.Rotation != 90 {
		t.Errorf("rotation of copied page = %d, want 90", g.Rotation)
	}
	text, _ := sub.PageText(2)
	if !strings.Contains(text, "page three") {
		t.Errorf("copied page text = %q", text)
	}
}

func TestCopyPagesAfterStamp(t *testing.T) {
	doc := loadSample(t)

	cs, _ := doc.NewContentStream(1)
	cs.BeginText()
	cs.SetFont("Courier", 10)
	cs.DrawString("STAMPED")
	cs.EndText()
	if err := cs.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	sub, err := doc.CopyPages(1, 1)
	if err != nil {
		t.Fatalf("CopyPages failed: %v", err)
	}
	defer sub.Close()

	text, _ := sub.PageText(1)
	if !strings.Contains(text, "STAMPED") {
		t.Errorf("copy should include content added before the copy: %q", text)
	}
}

func TestCopyPagesEmptyRange(t *testing.T) {
	doc := loadSample(t)

	sub, err := doc.CopyPages(3, 2)
	if err != nil {
		t.Fatalf("CopyPages failed: %v", err)
	}
	defer sub.Close()
	if sub.PageCount() != 0 {
		t.Errorf("PageCount() = %d, want 0", sub.PageCount())
	}
}

func TestCopyPagesKeepsInfo(t *testing.T) {
	pages := []BlankPage{{Width: 612, Height: 792}, {Width: 612, Height: 792}}
	doc, err := NewLoader().Load(NewRawPDF(pages, Info{Title: "Old", Author: "Keep"}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer doc.Close()

	for _, r := range [][2]int{{1, 2}, {2, 1}} {
		sub, err := doc.CopyPages(r[0], r[1])
		if err != nil {
			t.Fatalf("CopyPages(%d, %d) failed: %v", r[0], r[1], err)
		}
		got, err := sub.Info()
		if err != nil {
			t.Fatalf("Info failed: %v", err)
		}
		if got != (Info{Title: "Old", Author: "Keep"}) {
			t.Errorf("CopyPages(%d, %d) info = %+v", r[0], r[1], got)
		}
		sub.Close()
	}

	// 只覆盖非空字段，保存后重新加载仍然保留
	sub, err := doc.CopyPages(1, 2)
	if err != nil {
		t.Fatalf("CopyPages failed: %v", err)
	}
	defer sub.Close()
	if err := sub.SetInfo(Info{Title: "Résumé ✓", Subject: "s"}); err != nil {
		t.Fatalf("SetInfo failed: %v", err)
	}
	var buf bytes.Buffer
	if err := sub.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reloaded, err := NewLoader().Load(buf.Bytes())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	defer reloaded.Close()

	got, err := reloaded.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if want := (Info{Title: "Résumé ✓", Subject: "s", Author: "Keep"}); got != want {
		t.Errorf("Info() = %+v, want %+v", got, want)
	}
}

func TestDecodeTextString(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ASCII", []byte("Report"), "Report"},
		{"WinAnsi", []byte{'R', 0xE9, 's'}, "Rés"},
		{"UTF-16BE", []byte{0xFE, 0xFF, 0x00, 'R', 0x27, 0x13}, "R✓"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeTextString(tt.in); got != tt.want {
				t.Errorf("decodeTextString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetInfo(t *testing.T) {
	doc := loadSample(t)

	if err := doc.SetInfo(Info{Title: "Quarterly (draft)", Author: "Zoë"}); err != nil {
		t.Fatalf("SetInfo failed: %v", err)
	}

	reloaded := saveAndReload(t, doc).(*document)
	if reloaded.ctx.Info == nil {
		t.Fatal("saved document has no info dictionary")
	}
	info, err := reloaded.ctx.DereferenceDict(*reloaded.ctx.Info)
	if err != nil {
		t.Fatalf("DereferenceDict failed: %v", err)
	}

	checks := map[string]string{"Title": "Quarterly (draft)", "Author": "Zoë"}
	for key, want := range checks {
		obj, found := info.Find(key)
		if !found {
			t.Errorf("info dictionary has no %s", key)
			continue
		}
		if got := infoString(t, obj); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if _, found := info.Find("Subject"); found {
		t.Error("empty Subject should not be written")
	}
}

// infoString 解码信息字典中的文本字符串
func infoString(t *testing.T, obj types.Object) string {
	t.Helper()
	var raw []byte
	switch o := obj.(type) {
	case types.StringLiteral:
		raw, _ = readLiteral([]byte("("+string(o)+")"), 0)
	case types.HexLiteral:
		raw, _ = readHex([]byte("<"+string(o)+">"), 0)
	default:
		t.Fatalf("unexpected info value %T", obj)
	}
	if bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
		s, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(raw)
		if err != nil {
			t.Fatalf("decode UTF-16: %v", err)
		}
		return string(s)
	}
	return string(raw)
}

func TestEmpty(t *testing.T) {
	doc, err := NewLoader().Empty(Info{Title: "nothing"})
	if err != nil {
		t.Fatalf("Empty failed: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 0 {
		t.Errorf("PageCount() = %d, want 0", doc.PageCount())
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestClosedDocument(t *testing.T) {
	doc, err := NewLoader().Load(NewRawPDF(samplePages(), Info{}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cs, _ := doc.NewContentStream(1)

	if err := doc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	if err := doc.Save(&bytes.Buffer{}); !IsDocumentIO(err) {
		t.Errorf("Save after Close should fail, got %v", err)
	}
	if _, err := doc.Info(); !IsDocumentIO(err) {
		t.Errorf("Info after Close should fail, got %v", err)
	}
	cs.BeginText()
	cs.SetFont("Helvetica", 12)
	cs.DrawString("late")
	cs.EndText()
	if err := cs.Close(); !IsDocumentIO(err) {
		t.Errorf("committing to a closed document should fail, got %v", err)
	}
}
