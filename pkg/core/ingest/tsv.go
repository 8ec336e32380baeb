// Package ingest loads DART half-year filing exports into the statement
// tables. The exports are tab-separated text files whose encoding varies by
// download path (UTF-8, EUC-KR/CP949, or UTF-16), so decoding tries each in
// turn before parsing.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"agentic_finqa/pkg/core/statements"
)

// Missing values in the filings appear as empty fields or a bare dash.
func normalizeField(raw string) interface{} {
	v := strings.TrimSpace(raw)
	if v == "" || v == "-" {
		return nil
	}
	return v
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	reader := transform.NewReader(bytes.NewReader(raw), enc.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// DecodeBytes converts raw file bytes to a UTF-8 string.
// UTF-16 byte-order marks win outright; otherwise valid UTF-8 is taken as-is
// and EUC-KR (which covers the CP949 repertoire) is the final fallback.
func DecodeBytes(raw []byte) (string, error) {
	if len(raw) >= 2 {
		if (raw[0] == 0xFF && raw[1] == 0xFE) || (raw[0] == 0xFE && raw[1] == 0xFF) {
			return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), raw)
		}
	}

	if utf8.Valid(raw) {
		return string(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})), nil
	}

	if text, err := decodeWith(korean.EUCKR, raw); err == nil {
		return text, nil
	}

	// Last resort for BOM-less UTF-16LE exports.
	if text, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), raw); err == nil {
		return text, nil
	}

	return "", fmt.Errorf("unable to decode file with utf-8, euc-kr, or utf-16")
}

// ParseStats counts what happened to the lines of one file.
type ParseStats struct {
	Total   int
	Kept    int
	Skipped int
}

// requiredFieldIndexes are the positions of 회사명, 결산기준일, 항목명 in the
// shared column prefix. Rows missing any of them cannot satisfy the primary
// key and are dropped.
var requiredFieldIndexes = []int{2, 7, 11}

// ParseText splits decoded TSV content into insertable rows for the table.
// Header lines, blank lines, and rows with a missing key field are skipped;
// short rows are padded with NULLs and long rows truncated to the column count.
func ParseText(text string, t statements.StatementType) ([][]interface{}, ParseStats) {
	var rows [][]interface{}
	var stats ParseStats

	want := t.ColumnCount()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Total++

		fields := strings.Split(line, "\t")

		// The export's first line repeats the column names.
		if strings.TrimSpace(fields[0]) == "재무제표종류" {
			stats.Skipped++
			continue
		}

		row := make([]interface{}, want)
		for i := 0; i < want; i++ {
			if i < len(fields) {
				row[i] = normalizeField(fields[i])
			}
		}

		missingKey := false
		for _, idx := range requiredFieldIndexes {
			if row[idx] == nil {
				missingKey = true
				break
			}
		}
		if missingKey {
			stats.Skipped++
			continue
		}

		rows = append(rows, row)
		stats.Kept++
	}

	return rows, stats
}

// ParseBytes decodes and parses one export file.
func ParseBytes(raw []byte, t statements.StatementType) ([][]interface{}, ParseStats, error) {
	text, err := DecodeBytes(raw)
	if err != nil {
		return nil, ParseStats{}, err
	}
	rows, stats := ParseText(text, t)
	return rows, stats, nil
}
