// Package docparse 从上传的学习资料中提取纯文本，供 AI 生成计划使用。
package docparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// MaxRunes 提取文本的最大字符数，超出部分截断
const MaxRunes = 20000

var (
	ErrUnsupportedType = errors.New("不支持的文件类型")
	ErrNoText          = errors.New("文件中未提取到文本")
)

// Extract 按文件扩展名选择解析方式
func Extract(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".pptx":
		text, err = extractPPTX(data)
	case ".html", ".htm":
		text, err = extractHTML(data)
	case ".txt", ".md", "":
		text = string(data)
	default:
		return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedType)
	}
	if err != nil {
		return "", err
	}

	text = normalizeText(text)
	if text == "" {
		return "", ErrNoText
	}
	return truncate(text, MaxRunes), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("打开 PDF 失败: %w", err)
	}
	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString(" ")
	}
	return buf.String(), nil
}

// extractPPTX 按幻灯片序号读取 ppt/slides/slideN.xml 中的 <a:t> 文本
func extractPPTX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("打开 PPTX 失败: %w", err)
	}

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		dir, name := path.Split(f.Name)
		if dir != "ppt/slides/" || !strings.HasPrefix(name, "slide") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "slide"), ".xml"))
		if err != nil {
			continue
		}
		slides = append(slides, slide{num: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var buf strings.Builder
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return "", fmt.Errorf("读取幻灯片 %d 失败: %w", s.num, err)
		}
		err = collectSlideText(rc, &buf)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("解析幻灯片 %d 失败: %w", s.num, err)
		}
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func collectSlideText(r io.Reader, buf *strings.Builder) error {
	dec := xml.NewDecoder(r)
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
				buf.WriteString(" ")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
}

func extractHTML(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("解析 HTML 失败: %w", err)
	}
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			buf.WriteString(node.Data)
			buf.WriteString(" ")
		case html.ElementNode:
			if node.Data == "script" || node.Data == "style" {
				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return buf.String(), nil
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = strings.ToValidUTF8(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
