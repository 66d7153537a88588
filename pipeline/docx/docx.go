// Package docx extracts paragraph text and table matrices from OOXML
// word-processing documents. A .docx file is a zip archive; the body
// lives in word/document.xml as interleaved w:p and w:tbl elements.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Document is the structured content of one source file: the non-blank
// paragraph texts in order, and each table as a row-by-cell matrix.
type Document struct {
	Paragraphs []string     `json:"paragraphs"`
	Tables     [][][]string `json:"tables"`
}

// Extract reads a .docx file from disk.
func Extract(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ExtractBytes(data)
}

// ExtractBytes parses a .docx archive held in memory.
func ExtractBytes(data []byte) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()
		return parseDocumentXML(rc)
	}

	return nil, fmt.Errorf("no word/document.xml in archive")
}

func parseDocumentXML(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	doc := &Document{
		Paragraphs: []string{},
		Tables:     [][][]string{},
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode document.xml: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "tbl":
			table, err := parseTable(decoder)
			if err != nil {
				return nil, err
			}
			doc.Tables = append(doc.Tables, table)
		case "p":
			text, err := parseParagraph(decoder, start)
			if err != nil {
				return nil, err
			}
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				doc.Paragraphs = append(doc.Paragraphs, trimmed)
			}
		}
	}

	return doc, nil
}

// parseParagraph consumes tokens until the matching end of a w:p element
// and concatenates its text runs. Tabs become a tab character so spacing
// between runs survives.
func parseParagraph(decoder *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return "", fmt.Errorf("unterminated paragraph element: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				text, err := readCharData(decoder)
				if err != nil {
					return "", err
				}
				sb.WriteString(text)
			case "tab":
				sb.WriteString("\t")
			case start.Name.Local:
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				depth--
			}
		}
	}

	return sb.String(), nil
}

// parseTable consumes a w:tbl subtree. Cell text joins the cell's
// paragraphs with newlines, matching how word processors render them.
func parseTable(decoder *xml.Decoder) ([][]string, error) {
	var table [][]string
	var row []string
	var cell []string
	var paragraph strings.Builder
	inCell := false

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("unterminated table element: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tr":
				row = []string{}
			case "tc":
				cell = []string{}
				inCell = true
			case "p":
				if inCell {
					paragraph.Reset()
				}
			case "t":
				if inCell {
					text, err := readCharData(decoder)
					if err != nil {
						return nil, err
					}
					paragraph.WriteString(text)
				}
			case "tbl":
				// Nested table: flatten its text into the current cell.
				nested, err := parseTable(decoder)
				if err != nil {
					return nil, err
				}
				if inCell {
					for _, nestedRow := range nested {
						cell = append(cell, strings.Join(nestedRow, " "))
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inCell {
					cell = append(cell, paragraph.String())
				}
			case "tc":
				row = append(row, strings.TrimSpace(strings.Join(cell, "\n")))
				inCell = false
			case "tr":
				table = append(table, row)
			case "tbl":
				return table, nil
			}
		}
	}
}

func readCharData(decoder *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		token, err := decoder.Token()
		if err != nil {
			return "", fmt.Errorf("unterminated text element: %w", err)
		}
		switch t := token.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}
