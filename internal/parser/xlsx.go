package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"github.com/shopspring/decimal"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads one worksheet of an XLSX workbook. The first row is the header.
// If opt.SheetName is empty and opt.SheetIndex <= 0, the first sheet is used.
// SheetIndex is 1-based (Sheet1 == 1).
func (xlsxParser) Parse(filename string, content []byte, opt Options) (*data.Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	sheets := parseWorkbook(readZipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))

	target := ""
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, opt.SheetName) {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			names := make([]string, len(sheets))
			for i, s := range sheets {
				names[i] = s.Name
			}
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'; available sheets: %s",
				opt.SheetName, filepath.Base(filename), strings.Join(names, ", "))
		}
	}
	if target == "" {
		idx := opt.SheetIndex
		if idx <= 0 {
			idx = 1
		}
		for _, s := range sheets {
			if s.SheetID == idx {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			target = path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx))
		}
	}
	sheetXML := readZipFile(zr, target)
	if sheetXML == nil {
		return nil, fmt.Errorf("open xlsx: worksheet %s missing from %s", target, filepath.Base(filename))
	}

	rr := newSheetRowReader(sheetXML, parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml")))
	t := data.NewTable()
	header, ok := rr.Next()
	if !ok {
		return t, nil
	}
	cols := make([]*data.Column, len(header))
	for i, h := range header {
		c, err := t.AddColumn(strings.TrimSpace(h.String()))
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		cols[i] = c
	}
	for rowNum := 2; ; rowNum++ {
		row, ok := rr.Next()
		if !ok {
			break
		}
		for j := len(cols); j < len(row); j++ {
			if !row[j].IsNull() {
				return nil, fmt.Errorf("row %d has a value in column %d, header has %d: %w", rowNum, j+1, len(cols), ErrColumnCount)
			}
		}
		for j, c := range cols {
			v := data.Null()
			if j < len(row) {
				v = row[j]
			}
			c.Values = append(c.Values, v)
		}
	}
	if err := rr.Err(); err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	return t, nil
}

type wbSheet struct {
	Name    string
	SheetID int
	RID     string
}

// parseWorkbook extracts sheet entries with names and relationship ids.
func parseWorkbook(b []byte) []wbSheet {
	if len(b) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(b))
	var sheets []wbSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var s wbSheet
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "name":
					s.Name = a.Value
				case "sheetId":
					s.SheetID = atoiSafe(a.Value)
				case "id":
					s.RID = a.Value // in r: namespace
				}
			}
			sheets = append(sheets, s)
		}
	}
}

// parseRelationships returns map[r:id]Target.
func parseRelationships(b []byte) map[string]string {
	out := map[string]string{}
	if len(b) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(b))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var id, target string
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "Id":
					id = a.Value
				case "Target":
					target = a.Value
				}
			}
			if id != "" && target != "" {
				out[id] = target
			}
		}
	}
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return b
		}
	}
	return nil
}

func parseSharedStrings(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(b))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write(se)
			}
		}
	}
}

// sheetRowReader streams typed rows out of a worksheet. Cells absent from a
// row are null.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	err    error
}

func newSheetRowReader(b []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(b)), shared: shared}
}

func (r *sheetRowReader) Next() ([]data.Value, bool) {
	var cur []data.Value
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.err = err
			}
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				inRow = true
				cur = nil
			}
			if inRow && se.Name.Local == "c" {
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				idx := colIndexFromRef(ref)
				if idx < 0 {
					idx = len(cur)
				}
				v, err := r.readCell(typ)
				if err != nil {
					r.err = err
					return nil, false
				}
				if len(cur) <= idx {
					grown := make([]data.Value, idx+1)
					copy(grown, cur)
					cur = grown
				}
				cur[idx] = v
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				return cur, true
			}
		}
	}
}

// Err reports a malformed worksheet encountered by Next.
func (r *sheetRowReader) Err() error { return r.err }

// readCell consumes tokens up to the end of the current <c> element and
// converts its <v> or inline <is><t> payload according to the cell type.
func (r *sheetRowReader) readCell(typ string) (data.Value, error) {
	var raw strings.Builder
	seen := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return data.Value{}, err
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				seen = true
			}
		case xml.CharData:
			if seen {
				raw.Write(se)
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "v", "t":
				seen = false
			case "c":
				return cellValue(typ, raw.String(), r.shared), nil
			}
		}
	}
}

func cellValue(typ, raw string, shared []string) data.Value {
	switch typ {
	case "s":
		idx := atoiSafe(raw)
		if idx >= 0 && idx < len(shared) {
			return data.Text(shared[idx])
		}
		return data.Null()
	case "inlineStr", "str", "e":
		return data.Text(raw)
	case "b":
		return data.Bool(strings.TrimSpace(raw) == "1")
	}
	if raw == "" {
		return data.Null()
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return data.Text(raw)
	}
	return data.Number(d)
}

// colIndexFromRef maps refs like "C12" to a 0-based column index; -1 when the
// ref has no column letters.
func colIndexFromRef(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// normalizeRelPath converts relationship targets to ZIP entry names.
// Targets may be absolute ("/xl/worksheets/sheet1.xml") or relative to xl/.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
