package lookup

import (
	"fmt"

	"agentic_finqa/pkg/core/prompt"
)

// systemPrompt prefers a registry override, falling back to the built-in text.
// Overrides let prompt edits ship without a rebuild.
func systemPrompt(stage string, fallback string) string {
	if sp, err := prompt.GetLookupPrompt(stage); err == nil && sp != "" {
		return sp
	}
	return fallback
}

// sqlSystemPrompt renders the SQL-writer instructions for a dialect and row cap.
func sqlSystemPrompt(dialect string, topK int) string {
	return fmt.Sprintf(sqlSystemPromptTemplate, dialect, topK, topK, topK)
}

// sqlSystemPromptTemplate instructs the model to translate a Korean financial
// question into one SELECT statement. The rules encode hard-won quirks of the
// filing data: comma-formatted TEXT amounts, industry-specific revenue items,
// per-company net-income naming, and the JOIN recipes for ratio questions.
const sqlSystemPromptTemplate = `Given an input question, create a syntactically correct %s query to run to help find the answer.

**CRITICAL: LIMIT Rules**
The default LIMIT %d is ONLY for simple queries.
- If the question contains "모두", "전부", "모든", "추출", "전체", "all" or a filtering pattern like "~이면서 ~인 기업" → LIMIT 100
- If the user specifies an exact number ("상위 5개", "top 10") → use that number
- Otherwise → LIMIT %d

**CRITICAL: Range Conditions (범위 조건)**
When the user specifies ranges like "100억 이상 1000억 미만", use BOTH bounds:
- "이상" = >= (inclusive), "미만" = < (exclusive), "초과" = > (exclusive), "이하" = <= (inclusive)
- NEVER forget the upper bound.

Never query for all the columns from a specific table, only ask for the few
relevant columns given the question. Pay attention to use only the column names
that you can see in the schema description, and to which column is in which table.

## CRITICAL: Company Name Mapping (대표 회사명 우선)
- "kt", "KT", "케이티" → 회사명 = '케이티' (the parent company, NOT "KT밀리의서재" or other subsidiaries)
- "skt", "SKT", "sk텔레콤", "에스케이텔레콤" → 회사명 = 'SK텔레콤'
- "lgu+", "LG유플러스", "엘지유플러스" → 회사명 = 'LG유플러스'
- "삼성", "삼성전자" → 회사명 = '삼성전자' (not 삼성SDI, 삼성E&A)
- "lg전자", "LG" → 회사명 = '엘지전자' or 'LG전자'
- "sk하이닉스", "하이닉스" → 회사명 = 'SK하이닉스'
Rules:
1. Always use = (equals) for 회사명, NEVER LIKE. A pattern like '%%sk%%' matches 25 companies.
2. Only use LIKE for 항목명 (item names).
3. If entity info provides an exact company name, use it. If the name stays
   ambiguous, default to the most common listing ("삼성" → '삼성전자', "lg" → 'LG전자').

## CRITICAL: Financial Term Mapping (재무용어 매핑)
Balance sheet (balance_sheet, value column 당기_반기말):
- "자산" → 항목명 LIKE '%%자산총계%%', "부채" → '%%부채총계%%', "자본" → '%%자본총계%%'
- "유동자산"/"비유동자산" → matching 항목명 prefixes
Income statement (income_statement, value column 당기_반기_누적):
- "매출", "매출액": manufacturing (삼성전자, SK하이닉스 등) uses '매출액'; finance/telecom
  (SK텔레콤, 케이티, LG유플러스 등) uses '영업수익'. If unclear, try BOTH:
  (항목명 LIKE '%%매출액%%' OR 항목명 LIKE '%%영업수익%%')
- "영업이익" → 항목명 LIKE '%%영업이익%%' (covers '영업이익(손실)')
- "순이익", "당기순이익": company-specific! 케이티/LG유플러스/삼성전자/SK하이닉스 file
  '반기순이익', SK텔레콤 files '당기순이익'. ALWAYS use all patterns:
  (항목명 LIKE '%%반기순이익%%' OR 항목명 LIKE '%%당기순이익%%' OR 항목명 LIKE '%%순이익%%')
Some income items carry Roman numerals: 항목명 LIKE 'I. 매출%%' OR 항목명 LIKE 'Ⅰ. 매출%%'.

## CRITICAL: Numbers are stored as TEXT with commas!
Values like "11,361,329,000,000" are TEXT. Remove commas before any arithmetic:
- WHERE: CAST(REPLACE(당기_반기_누적, ',', '') AS NUMERIC) > 100000000000
- ORDER BY: ORDER BY CAST(REPLACE(당기_반기_누적, ',', '') AS NUMERIC) DESC
- Ratios: ROUND(CAST(REPLACE(a, ',', '') AS NUMERIC) * 100.0 / CAST(REPLACE(b, ',', '') AS NUMERIC), 2)
Unit reference: 1000억 = 100000000000, 1조 = 1000000000000.

## IMPORTANT: Period Columns
When the question mentions "상반기" or "반기", use the column 당기_반기_누적 from
income_statement. There is no period column to filter on; the column name is the period.
- 당기_반기_누적 = current half-year accumulated, 당기_반기_3개월 = current 3-month
- 전기_반기_누적 = previous half-year accumulated, 전기 = previous year, 전전기 = two years back
- balance_sheet uses 당기_반기말 (end of current half-year)

## CRITICAL: Financial Ratio Calculation (재무비율 계산)
The database does NOT have ratio columns. Calculate them in SQL:
- 영업이익률 = (영업이익 / 매출액 또는 영업수익) × 100
- 순이익률 = (순이익 / 매출액 또는 영업수익) × 100
- ROE = (순이익 / 자본총계) × 100, ROA = (순이익 / 자산총계) × 100 → JOIN balance_sheet!
- 부채비율 = (부채총계 / 자본총계) × 100 → both from balance_sheet
When filtering on a ratio ("영업이익률 20%% 이상"), compute the same expression in
WHERE, and use EXACT item matching to avoid partial matches such as
"건설계약으로 인한 매출액": (항목명 = '영업이익' OR 항목명 = '영업이익(손실)'),
(항목명 = '매출액' OR 항목명 = '영업수익').

Ratio example:
SELECT DISTINCT
    i_op.회사명,
    i_op.당기_반기_누적 as 영업이익,
    i_rev.당기_반기_누적 as 매출액,
    ROUND(CAST(REPLACE(i_op.당기_반기_누적, ',', '') AS NUMERIC) * 100.0 /
          CAST(REPLACE(i_rev.당기_반기_누적, ',', '') AS NUMERIC), 2) as 영업이익률
FROM income_statement i_op
JOIN income_statement i_rev
    ON i_op.회사명 = i_rev.회사명
    AND i_op.결산기준일 = i_rev.결산기준일
WHERE (i_op.항목명 = '영업이익' OR i_op.항목명 = '영업이익(손실)')
  AND (i_rev.항목명 = '매출액' OR i_rev.항목명 = '영업수익')
  AND (CAST(REPLACE(i_op.당기_반기_누적, ',', '') AS NUMERIC) * 100.0 /
       CAST(REPLACE(i_rev.당기_반기_누적, ',', '') AS NUMERIC)) >= 20
ORDER BY 영업이익률 DESC
LIMIT 100;

ROE example (JOIN across tables):
SELECT
    i.회사명,
    i.당기_반기_누적 as 순이익,
    b.당기_반기말 as 자본총계,
    ROUND(CAST(REPLACE(i.당기_반기_누적, ',', '') AS NUMERIC) * 100.0 /
          CAST(REPLACE(b.당기_반기말, ',', '') AS NUMERIC), 2) as ROE
FROM income_statement i
JOIN balance_sheet b
    ON i.회사명 = b.회사명 AND i.결산기준일 = b.결산기준일
    AND b.항목명 = '자본총계'
WHERE i.회사명 = 'SK텔레콤'
  AND (i.항목명 = '당기순이익' OR i.항목명 = '반기순이익')
LIMIT %d;

## Multiple Conditions Across Tables (복합 조건 쿼리)
Questions like "영업이익 1000억 넘고 자산 1조 이상인 기업":
1. Use SELECT DISTINCT to avoid duplicate rows
2. JOIN on both 회사명 AND 결산기준일, and put the 항목명 filter in the JOIN condition
3. Use meaningful aliases (as 영업이익, as 자산총계)
4. ORDER BY the most relevant value, with the LIMIT rules above

## Output Format
Respond ONLY with a JSON object containing the SQL query:
{"query": "SELECT ..."}`

// answerSystemPrompt turns a SQL result into a Korean answer. The number rules
// exist because models invent unit conversions: the answer must repeat amounts
// exactly as stored, commas included.
const answerSystemPrompt = `Given the following user question, corresponding SQL query, and SQL result, answer the user question in Korean.

**CRITICAL: ALWAYS show company name (회사명) for EVERY data point!**
- If the SQL result has multiple companies, group data by company name
- Format: '**[회사명]**: 매출액: X, 영업이익: Y, ROE: Z%'
- NEVER show numbers without company names

**CRITICAL: Financial Ratio - Check if Already Calculated in SQL!**
1. If the SQL result already has ratio columns (영업이익률, 순이익률, ROE 등), use the value AS IS and just add %. Do NOT recalculate.
2. If not, and the question asks for a ratio that the raw data supports, CALCULATE it:
   - Remove commas, divide, multiply by 100, round to 2 decimal places
   - Show the calculation: '영업이익률 = (47,289,352,211 ÷ 336,666,812,235) × 100 = 14.05%'
   - NEVER say the ratio is unavailable if you can calculate it from the result

**CRITICAL: Do NOT confuse 영업수익 vs 영업이익!**
- 영업수익 (operating revenue) = 매출액, 영업이익 (operating profit) = 영업수익 - 영업비용
- If the SQL result only has '영업수익' and NOT '영업이익', say:
  '영업수익은 X원입니다. 영업이익 정보는 제공되지 않았습니다.'

**CRITICAL: Number Formatting Rules**
- NEVER convert number units yourself - you make mistakes!
- Use the EXACT numbers from the SQL result with commas (e.g. 47,687,046,619원)
- DO NOT convert to 억, 조, 만 units

Other rules:
- When mentioning '상반기' data, explain it is the accumulated figure for the first half
- Be specific and concrete based on the actual SQL result
- Answer in Korean`
