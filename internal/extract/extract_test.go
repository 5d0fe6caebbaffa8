package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestFromBytes_TXT(t *testing.T) {
	text, err := FromBytes(context.Background(), []byte("  Jane Doe\nEngineer  "), "txt")
	if err != nil {
		t.Fatalf("FromBytes txt: %v", err)
	}
	if text != "Jane Doe\nEngineer" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestFromBytes_TXTRejectsBinary(t *testing.T) {
	if _, err := FromBytes(context.Background(), []byte{0xff, 0xfe, 0x00, 0x81}, "txt"); err == nil {
		t.Fatal("expected invalid UTF-8 error")
	}
}

func TestFromBytes_DOCX(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Engineer</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	text, err := FromBytes(context.Background(), data, "docx")
	if err != nil {
		t.Fatalf("FromBytes docx: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Engineer") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestFromBytes_DocFallsBackToDocx(t *testing.T) {
	doc := `<w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, doc)

	text, err := FromBytes(context.Background(), data, "doc")
	if err != nil {
		t.Fatalf("FromBytes doc: %v", err)
	}
	if !strings.Contains(text, "hello") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestFromBytes_UnsupportedType(t *testing.T) {
	_, err := FromBytes(context.Background(), []byte("x"), "zip")
	if err == nil {
		t.Fatal("expected unsupported file type error")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("unexpected error: %v", err)
	}
}
