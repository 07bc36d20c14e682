package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// OOXML package layout.
const (
	contentTypesPart    = "[Content_Types].xml"
	wordMainPart        = "word/document.xml"
	wordMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

// extractDOCX extracts the text runs from a .docx package. The main
// document part is located through [Content_Types].xml (falling back to
// the conventional word/document.xml) and its WordprocessingML is walked
// as an XML token stream, which decodes entities correctly and keeps
// paragraph boundaries that attribute-blind regex matching loses.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse docx: not a zip: %w", err)
	}
	part := mainDocumentPart(zr)
	doc, err := readZipPart(zr, part)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	text, err := wordMLText(doc)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	return text, nil
}

// mainDocumentPart resolves the main document part name from
// [Content_Types].xml. Word always writes word/document.xml, but the
// package format allows any part name, so honor an Override that points
// elsewhere.
func mainDocumentPart(zr *zip.Reader) string {
	data, err := readZipPart(zr, contentTypesPart)
	if err != nil {
		return wordMainPart
	}
	var types struct {
		Overrides []struct {
			PartName    string `xml:"PartName,attr"`
			ContentType string `xml:"ContentType,attr"`
		} `xml:"Override"`
	}
	if xml.Unmarshal(data, &types) != nil {
		return wordMainPart
	}
	for _, o := range types.Overrides {
		if o.ContentType == wordMainContentType && o.PartName != "" {
			return strings.TrimPrefix(o.PartName, "/")
		}
	}
	return wordMainPart
}

// readZipPart returns the named file's bytes from the archive.
func readZipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", name)
}

// wordMLText collects the character data of <w:t> runs. Paragraph ends
// become newlines and explicit tabs and breaks become whitespace so text
// from adjacent runs does not fuse into one word.
func wordMLText(doc []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var b strings.Builder
	inRun := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inRun = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inRun {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
