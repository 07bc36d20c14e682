package e2e

import (
	"archive/zip"
	"bytes"
	"encoding/xml"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions lists the extensions exercised by the file-based
// e2e test. PDF is omitted: a minimal PDF with extractable text cannot be
// assembled by hand, and PDF parsing is covered in the extract package.
var SupportedFileExtensions = []string{
	".txt", ".md", ".rst", ".docx", ".xlsx",
}

// WriteMinimalFile returns file bytes of the given extension whose extracted
// text is exactly text. Plain types return the raw bytes; .docx and .xlsx
// wrap the text in a minimal valid package.
func WriteMinimalFile(ext, text string) ([]byte, error) {
	switch ext {
	case ".docx":
		return minimalDocx(text)
	case ".xlsx":
		return minimalXlsx(text)
	default:
		return []byte(text), nil
	}
}

func minimalDocx(text string) ([]byte, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	ct, err := w.Create("[Content_Types].xml")
	if err != nil {
		return nil, err
	}
	if _, err := ct.Write([]byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`)); err != nil {
		return nil, err
	}
	doc, err := w.Create("word/document.xml")
	if err != nil {
		return nil, err
	}
	if _, err := doc.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + escaped.String() + `</w:t></w:r></w:p></w:body></w:document>`)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func minimalXlsx(text string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetCellValue("Sheet1", "A1", text); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
