package chat

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMentionedInFindsAliases(t *testing.T) {
	table := DefaultAliasTable()

	cases := []struct {
		text string
		want []string
	}{
		{"삼성전자와 SK하이닉스 매출 비교", []string{"삼성전자", "SK하이닉스"}},
		{"skt와 kt 영업수익 비교해줘", []string{"SK텔레콤", "케이티"}},
		{"하이닉스 실적 어때?", []string{"SK하이닉스"}},
		{"유플러스 가입자 수", []string{"LG유플러스"}},
		{"lg전자 세탁기 사업", []string{"LG전자"}},
		{"재무제표가 뭐야?", nil},
	}
	for _, c := range cases {
		got := table.MentionedIn(c.text)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("MentionedIn(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestCoveredInAttributesEachResultOnce(t *testing.T) {
	table := DefaultAliasTable()

	// One evidence item naming two companies counts only for the first
	// table entry that matches it.
	results := []string{"반복 1: 삼성전자 145조원, SK하이닉스 33조원"}
	got := table.CoveredIn(results)
	if !reflect.DeepEqual(got, []string{"삼성전자"}) {
		t.Errorf("Expected single attribution to 삼성전자, got %v", got)
	}
}

func TestCoveredInDeduplicates(t *testing.T) {
	table := DefaultAliasTable()

	results := []string{
		"반복 1: 삼성전자 매출액 145조원",
		"반복 2: 삼성전자 영업이익 6조원",
		"반복 3: SK텔레콤 영업수익 8조원",
	}
	got := table.CoveredIn(results)
	if !reflect.DeepEqual(got, []string{"삼성전자", "SK텔레콤"}) {
		t.Errorf("Expected deduplicated coverage, got %v", got)
	}
}

func TestRemainingPreservesMentionOrder(t *testing.T) {
	mentioned := []string{"삼성전자", "SK하이닉스", "케이티"}
	covered := []string{"SK하이닉스"}
	got := Remaining(mentioned, covered)
	if !reflect.DeepEqual(got, []string{"삼성전자", "케이티"}) {
		t.Errorf("Remaining = %v, want [삼성전자 케이티]", got)
	}

	if rest := Remaining(mentioned, mentioned); rest != nil {
		t.Errorf("Full coverage should leave nothing, got %v", rest)
	}
}

func TestLoadAliasTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.yaml")
	content := `entities:
  - canonical: 삼성전자
    aliases: [삼성]
  - canonical: 케이티
    aliases: [kt]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	table, err := LoadAliasTable(path)
	if err != nil {
		t.Fatalf("LoadAliasTable returned error: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("Expected 2 entities, got %d", len(table))
	}
	if table[0].Canonical != "삼성전자" || table[1].Canonical != "케이티" {
		t.Errorf("Entity order not preserved: %+v", table)
	}
	if got := table.MentionedIn("삼성 반도체"); !reflect.DeepEqual(got, []string{"삼성전자"}) {
		t.Errorf("Loaded aliases should match, got %v", got)
	}
}

func TestLoadAliasTableErrors(t *testing.T) {
	if _, err := LoadAliasTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("entities: []\n"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if _, err := LoadAliasTable(empty); err == nil {
		t.Error("Expected error for empty entity list")
	}
}
