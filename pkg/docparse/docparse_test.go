package docparse

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildPPTX(t *testing.T, slides map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range slides {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("创建 zip 条目失败: %v", err)
		}
		_, _ = w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("关闭 zip 失败: %v", err)
	}
	return buf.Bytes()
}

const slideTpl = `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`

func TestExtract_PPTXSlideOrder(t *testing.T) {
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide10.xml":           strings.Replace(slideTpl, "%s", "힙 정렬", 1),
		"ppt/slides/slide2.xml":            strings.Replace(slideTpl, "%s", "스택과 큐", 1),
		"ppt/slides/slide1.xml":            strings.Replace(slideTpl, "%s", "자료구조 개요", 1),
		"ppt/slides/_rels/slide1.xml.rels": "<Relationships/>",
		"ppt/notesSlides/notesSlide1.xml":  strings.Replace(slideTpl, "%s", "备注", 1),
	})

	text, err := Extract("lecture.PPTX", data)
	if err != nil {
		t.Fatalf("Extract 失败: %v", err)
	}
	if text != "자료구조 개요 스택과 큐 힙 정렬" {
		t.Errorf("幻灯片顺序或内容不符: %q", text)
	}
}

func TestExtract_HTML(t *testing.T) {
	data := []byte(`<html><head><style>p{}</style><script>alert(1)</script></head>
<body><h1>Chapter 1</h1><p>Binary   trees</p></body></html>`)

	text, err := Extract("notes.html", data)
	if err != nil {
		t.Fatalf("Extract 失败: %v", err)
	}
	if text != "Chapter 1 Binary trees" {
		t.Errorf("HTML 文本不符: %q", text)
	}
}

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract("todo.txt", []byte("  line one\n\nline\x00two  "))
	if err != nil {
		t.Fatalf("Extract 失败: %v", err)
	}
	if text != "line one line two" {
		t.Errorf("文本规范化不符: %q", text)
	}
}

func TestExtract_Errors(t *testing.T) {
	if _, err := Extract("image.png", []byte("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("期望 ErrUnsupportedType，实际 %v", err)
	}
	if _, err := Extract("empty.txt", []byte("   ")); !errors.Is(err, ErrNoText) {
		t.Errorf("期望 ErrNoText，实际 %v", err)
	}
	if _, err := Extract("broken.pdf", []byte("not a pdf")); err == nil {
		t.Error("非法 PDF 应返回错误")
	}
	if _, err := Extract("broken.pptx", []byte("not a zip")); err == nil {
		t.Error("非法 PPTX 应返回错误")
	}
}

func TestExtract_Truncates(t *testing.T) {
	long := strings.Repeat("가", MaxRunes+100)
	text, err := Extract("long.txt", []byte(long))
	if err != nil {
		t.Fatalf("Extract 失败: %v", err)
	}
	if n := len([]rune(text)); n != MaxRunes {
		t.Errorf("期望截断到 %d 字符，实际 %d", MaxRunes, n)
	}
}
