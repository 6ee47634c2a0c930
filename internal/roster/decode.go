package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Source kinds.
const (
	SourceCSV  = "csv"
	SourceXLSX = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SourceKind sniffs the decoding path by file extension.
func SourceKind(filename string) string {
	if strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), ".csv") {
		return SourceCSV
	}
	return SourceXLSX
}

// Decode reads the uploaded file into raw rows. The first row is the header.
func Decode(filename string, r io.Reader) ([][]string, error) {
	if r == nil {
		return nil, ErrEmptyFile
	}
	if SourceKind(filename) == SourceCSV {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return DecodeDelimited(data)
	}
	return DecodeSpreadsheet(r)
}

// DetectDelimiter returns tab when any tab appears in text, comma otherwise.
func DetectDelimiter(text []byte) rune {
	if bytes.IndexByte(text, '\t') >= 0 {
		return '\t'
	}
	return ','
}

// DecodeDelimited parses comma or tab separated text after stripping the BOM.
// Text that is not valid UTF-8 is read as Windows-1252, the encoding Excel uses
// for "CSV" exports on Spanish locale machines.
func DecodeDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
		}
		data = decoded
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	return rows, nil
}

// DecodeSpreadsheet reads the active sheet of an xlsx workbook, falling back to the first one.
func DecodeSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// ErrUnreadableSpreadsheet the workbook could not be opened.
var ErrUnreadableSpreadsheet = errors.New("roster: unreadable spreadsheet")
