package ingest

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/korean"

	"agentic_finqa/pkg/core/statements"
)

const headerLine = "재무제표종류\t종목코드\t회사명\t시장구분\t업종\t업종명\t결산월\t결산기준일\t보고서종류\t통화\t항목코드\t항목명\t당기_반기말\t전기말\t전전기말"

func dataLine(company, date, item, value string) string {
	return strings.Join([]string{
		"재무상태표", "[005930]", company, "유가증권시장상장법인", "264", "통신 및 방송 장비 제조업",
		"12", date, "반기보고서", "KRW", "ifrs-full_Assets", item, value, "448,424,507,000,000", "426,621,158,000,000",
	}, "\t")
}

func TestParseTextSkipsHeaderAndBlankLines(t *testing.T) {
	text := headerLine + "\n\n" + dataLine("삼성전자", "2024-06-30", "자산총계", "485,745,186,000,000") + "\n"

	rows, stats := ParseText(text, statements.BalanceSheet)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if stats.Skipped != 1 {
		t.Errorf("header line should count as skipped, got %d", stats.Skipped)
	}
	if rows[0][2] != "삼성전자" || rows[0][11] != "자산총계" {
		t.Errorf("key fields misplaced: %v", rows[0])
	}
	if rows[0][12] != "485,745,186,000,000" {
		t.Errorf("value column should keep comma formatting: %v", rows[0][12])
	}
}

func TestParseTextNormalizesMissingValues(t *testing.T) {
	line := dataLine("삼성전자", "2024-06-30", "자산총계", "-")
	rows, _ := ParseText(line, statements.BalanceSheet)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][12] != nil {
		t.Errorf("dash value should become NULL, got %v", rows[0][12])
	}
}

func TestParseTextPadsShortRows(t *testing.T) {
	// Row cut off after the 항목명 column.
	short := strings.Join(strings.Split(dataLine("삼성전자", "2024-06-30", "자산총계", "x"), "\t")[:12], "\t")
	rows, _ := ParseText(short, statements.BalanceSheet)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(rows[0]) != statements.BalanceSheet.ColumnCount() {
		t.Fatalf("row should be padded to %d fields, got %d", statements.BalanceSheet.ColumnCount(), len(rows[0]))
	}
	for i := 12; i < 15; i++ {
		if rows[0][i] != nil {
			t.Errorf("padded field %d should be NULL, got %v", i, rows[0][i])
		}
	}
}

func TestParseTextTruncatesLongRows(t *testing.T) {
	long := dataLine("삼성전자", "2024-06-30", "자산총계", "1") + "\textra\textra2"
	rows, _ := ParseText(long, statements.BalanceSheet)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(rows[0]) != 15 {
		t.Errorf("row should be truncated to 15 fields, got %d", len(rows[0]))
	}
}

func TestParseTextDropsRowsWithoutKeyFields(t *testing.T) {
	noCompany := dataLine("", "2024-06-30", "자산총계", "1")
	rows, stats := ParseText(noCompany, statements.BalanceSheet)

	if len(rows) != 0 {
		t.Fatalf("row without 회사명 must be dropped, got %v", rows)
	}
	if stats.Skipped != 1 {
		t.Errorf("dropped row should count as skipped, got %d", stats.Skipped)
	}
}

func TestDecodeBytesUTF8(t *testing.T) {
	text, err := DecodeBytes([]byte("회사명\t삼성전자"))
	if err != nil {
		t.Fatalf("utf-8 decode failed: %v", err)
	}
	if !strings.Contains(text, "삼성전자") {
		t.Errorf("unexpected decoded text: %q", text)
	}
}

func TestDecodeBytesEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte("회사명\t삼성전자"))
	if err != nil {
		t.Fatalf("failed to build euc-kr fixture: %v", err)
	}

	text, err := DecodeBytes(encoded)
	if err != nil {
		t.Fatalf("euc-kr decode failed: %v", err)
	}
	if !strings.Contains(text, "삼성전자") {
		t.Errorf("unexpected decoded text: %q", text)
	}
}

func TestDecodeBytesUTF16LE(t *testing.T) {
	// UTF-16LE with BOM: FF FE then little-endian code units.
	src := "회사명"
	raw := []byte{0xFF, 0xFE}
	for _, r := range src {
		raw = append(raw, byte(r&0xFF), byte(r>>8))
	}

	text, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("utf-16 decode failed: %v", err)
	}
	if text != src {
		t.Errorf("decoded %q, want %q", text, src)
	}
}
