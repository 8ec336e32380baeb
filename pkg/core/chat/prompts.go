package chat

import (
	"fmt"
	"strings"

	"agentic_finqa/pkg/core/prompt"
)

// apologyMessage is the fixed reply for an iterative turn that collected no
// evidence at all. The synthesis model is never consulted in that case.
const apologyMessage = "죄송합니다. 재무 데이터를 조회하지 못했습니다. 다시 질문해주시면 데이터베이스에서 정확한 정보를 조회하여 답변드리겠습니다."

// systemPrompt prefers a registry override, falling back to the built-in text.
func systemPrompt(stage string, fallback string) string {
	if sp, err := prompt.GetChatPrompt(stage); err == nil && sp != "" {
		return sp
	}
	return fallback
}

func joinOrDefault(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

// routerSystemPrompt carries the routing rubric. The three quoted labels are
// the only valid outputs; anything else falls back to single_shot_rag.
const routerSystemPrompt = `다음 중 하나를 선택해주세요:

1. "no_retrieval":
   - 일반적인 상식 질문 (예: "재무제표가 뭐야?", "손익계산서란?")
   - 단순한 정의나 설명 요청
   - LLM의 자체 지식으로 충분히 답변 가능한 질문

2. "single_shot_rag":
   - 특정 회사의 특정 재무 데이터 조회 (예: "삼성전자 2025년 매출액")
   - 단순한 웹 검색 질문 (예: "최근 AI 트렌드")
   - 한 번의 도구 호출로 답변 가능한 질문
   - **복합 조건이지만 SQL JOIN으로 한 번에 처리 가능** (예: "영업이익 1000억 넘고 자산 1조 이상 기업")

3. "iterative_rag":
   - **복잡한 비교 분석 (예: "삼성전자와 SK하이닉스 매출 비교하고 그 차이 원인 분석")**
   - **여러 회사의 재무 데이터를 비교하는 질문 (예: "삼성전자와 SK하이닉스의 재무 구조 비교")**
   - **"원인", "이유", "배경" 분석 질문 (예: "SK하이닉스 영업이익 상승의 원인")**
   - **"검색해줘", "찾아줘" 키워드가 있는 질문 (예: "삼성전자 최근 뉴스 검색해줘")**
   - 여러 단계의 계산이나 분석이 필요한 질문
   - 여러 도구를 순차적으로 사용해야 하는 복합 질문
   - **데이터 조회 후 추가 분석/해석이 필요한 질문**

**Important Rules:**
1. Multiple conditions can often be handled by single_shot_rag with complex SQL JOIN
2. **"비교", "비교 분석", "compare" 키워드 + 2개 이상 회사명 → MUST use iterative_rag**
3. **"A와 B의 X, Y, Z 비교" → MUST use iterative_rag** (여러 지표 비교)
4. **"원인", "이유", "배경", "검색해줘" 키워드 → MUST use iterative_rag** (DB + 웹 검색 필요)
5. Only use iterative_rag if analysis/interpretation is needed after data retrieval

답변은 반드시 "no_retrieval", "single_shot_rag", "iterative_rag" 중 하나만 출력해주세요.`

// buildRouterPrompt renders the question with a short history block when the
// conversation has one.
func buildRouterPrompt(contextBlock, question string) string {
	section := ""
	if contextBlock != "" {
		section = fmt.Sprintf("최근 대화 기록:\n%s\n\n", contextBlock)
	}
	return fmt.Sprintf("다음 사용자 질문을 분석하여 적절한 처리 방법을 결정해주세요:\n\n%s현재 질문: \"%s\"", section, question)
}

const directSystemPrompt = `다음 질문에 대해 재무/회계 전문 지식을 바탕으로 친절하고 정확하게 답변해주세요.

답변 시 다음 사항을 고려해주세요:
- 한국어로 답변
- 구체적이고 이해하기 쉽게 설명
- 필요시 예시를 포함
- 전문 용어는 간단히 설명`

func buildDirectPrompt(question string) string {
	return fmt.Sprintf("질문: %s", question)
}

// analysisSystemPrompt steers each step of the iterative loop. The coverage
// lines in the user prompt tell the model which mentioned companies still
// lack evidence; the rules force those to be queried before anything else.
const analysisSystemPrompt = `**CRITICAL RULES:**
1. **"아직 조회하지 않은 회사"가 있으면 반드시 그 회사를 먼저 조회하세요!**
   - 🔴로 표시된 회사가 있으면 **반드시 그 회사를 조회**해야 합니다
   - 이미 조회한 회사를 다시 조회하면 안 됩니다!
   - 예: 아직 조회하지 않은 회사: 삼성전자
     → 반드시: "선택: financial_query | 쿼리: 삼성전자 매출액, 영업이익, 순이익"

2. 재무 데이터(매출액, 영업이익, 순이익, 자산 등) 관련 질문은 **반드시 먼저 financial_query로 DB 조회**

3. **"비교 분석" 질문의 경우 - 매우 중요!:**
   - 질문에 언급된 **모든 회사**의 데이터를 조회해야 함
   - **아직 조회하지 않은 회사를 우선 조회할 것!**
   - 모든 회사 데이터가 수집되면 final_answer

4. **"원인", "이유", "배경" 질문의 경우:**
   - 먼저 관련 재무 데이터 조회 (financial_query)
   - 그 다음 웹에서 원인/이유 검색 (web_search) - **필수!**
   - 두 정보를 종합하여 final_answer

5. **"검색해줘", "찾아줘" 키워드가 있으면 반드시 web_search 사용!**

6. **산업별 항목명 차이 - 매우 중요!:**
   - **제조업 (삼성전자, SK하이닉스 등)**: "매출액" 사용
   - **금융/통신업 (SK텔레콤, 케이티, LG유플러스 등)**: "영업수익" 사용 (매출액 대신!)
   - **순이익**: 현재 반기 데이터이므로 "반기순이익" 사용 (당기순이익 아님!)
   - **쿼리 작성 시 반드시 두 가지 패턴 모두 포함:**
     - 매출: "매출액, 영업수익 조회"
     - 순이익: "반기순이익, 순이익 조회"

7. **재무 비율(영업이익률, 순이익률 등) 질문:**
   - 비율 컬럼은 DB에 없음! 직접 계산해야 함
   - 영업이익률 = 영업이익 / 매출액 (or 영업수익)
   - 순이익률 = 순이익 / 매출액 (or 영업수익)
   - **쿼리 예: "삼성전자 매출액, 영업이익, 순이익" (비율은 빼고!)**
   - **중요: 비율 컬럼을 직접 조회하지 말고, 기본 데이터만 조회!**

8. **절대로 LLM의 자체 지식으로 재무 데이터를 추정하지 마세요!**

9. 수집된 결과가 비어있으면 final_answer 선택 금지!

다음 중 하나를 선택해주세요:
1. "financial_query": 재무 데이터베이스에서 추가 정보 조회 (재무 데이터 필수!)
2. "web_search": 웹에서 추가 정보 검색 (원인/이유/배경/최신 뉴스 필수!)
3. "final_answer": 충분한 정보가 모였으므로 최종 답변 생성 (데이터가 있을 때만!)

**CRITICAL: One Step at a Time (한 번에 하나씩!)**
- **반드시 한 번에 하나의 선택만 하세요!**
- **여러 회사를 비교할 때도 한 번에 한 회사씩 조회하세요!**
- **절대로 한 번에 여러 "선택:"을 작성하지 마세요!**

**비교 분석 질문 예시:**
- "삼성전자와 SK하이닉스 매출액, 영업이익, 순이익 비교"
  → Step 1: "선택: financial_query | 쿼리: 삼성전자 매출액, 영업이익, 반기순이익"
  → Step 2: "선택: financial_query | 쿼리: SK하이닉스 매출액, 영업이익, 반기순이익"
  → Step 3: "선택: final_answer" (비율은 답변 생성 시 계산)

- "SK텔레콤, 케이티, LG유플러스 영업이익률 비교" (통신사 - 영업수익 사용!)
  → Step 1: "선택: financial_query | 쿼리: SK텔레콤 영업수익, 영업이익"
  → Step 2: "선택: financial_query | 쿼리: 케이티 영업수익, 영업이익"
  → Step 3: "선택: financial_query | 쿼리: LG유플러스 영업수익, 영업이익"
  → Step 4: "선택: final_answer" (영업이익률 = 영업이익/영업수익 계산)

**잘못된 예시 (하지 마세요!):**
❌ "선택: financial_query | 쿼리: 삼성전자... \n선택: financial_query | 쿼리: SK하이닉스..."
   (한 번에 두 개 선택 - 금지!)
❌ "쿼리: 케이티 매출액" → 케이티는 통신사이므로 "영업수익" 사용!
❌ "쿼리: 삼성전자 당기순이익" → 현재는 반기 데이터이므로 "반기순이익" 사용!

**올바른 예시:**
✅ "선택: financial_query | 쿼리: 삼성전자 매출액, 영업이익, 순이익"
   (한 번에 하나만!)

**원인/이유 분석 질문 예시:**
- "SK하이닉스 영업이익 상승의 원인에 대해서 검색해줘"
  → Step 1: "선택: financial_query | 쿼리: SK하이닉스 영업이익, 매출액"
  → Step 2: "선택: web_search | 쿼리: SK하이닉스 영업이익 상승 원인 2025" - **필수!**
  → Step 3: "선택: final_answer"

- "삼성전자 매출 감소 이유는?"
  → Step 1: "선택: financial_query | 쿼리: 삼성전자 매출액"
  → Step 2: "선택: web_search | 쿼리: 삼성전자 매출 감소 원인" - **필수!**
  → Step 3: "선택: final_answer"

**중요: 영업이익률, 순이익률 등 비율은 DB에 없으므로 쿼리에서 제외하고, 매출액과 영업이익(또는 순이익)만 조회하세요!**

선택과 함께 구체적인 쿼리도 함께 제시해주세요.
형식: "선택: [선택값] | 쿼리: [구체적인 쿼리]"`

// buildAnalysisPrompt renders the situation block for one iterative step.
func buildAnalysisPrompt(fullContext string, mentioned, covered, remaining, results []string, iteration, maxIterations int) string {
	resultsBlock := "아직 결과 없음"
	if len(results) > 0 {
		resultsBlock = strings.Join(results, "\n")
	}
	return fmt.Sprintf(`다음 복잡한 질문을 단계별로 분석하고 해결하기 위한 다음 단계를 결정해주세요:

%s

**질문에서 언급된 회사: %s**
**이미 조회한 회사: %s**
**🔴 아직 조회하지 않은 회사 (반드시 먼저 조회!): %s**

현재까지의 결과:
%s

현재 반복 횟수: %d/%d`,
		fullContext,
		joinOrDefault(mentioned, "없음"),
		joinOrDefault(covered, "없음"),
		joinOrDefault(remaining, "없음 - 모두 조회 완료"),
		resultsBlock,
		iteration+1, maxIterations)
}

// synthesisSystemPrompt binds the final answer to collected evidence only.
// The LaTeX prohibition exists because chat frontends render the reply as
// plain markdown.
const synthesisSystemPrompt = `**CRITICAL: 답변 규칙**
- **반드시 수집된 정보만 사용하세요!**
- **절대로 LLM의 자체 지식이나 추정치를 사용하지 마세요!**
- 수집된 정보에 없는 데이터는 "데이터 없음"으로 표시
- "약", "대략", "추정" 같은 표현 금지 (정확한 숫자만 사용)
- 비교 분석 시 반드시 실제 조회된 데이터 기반으로만 작성
- **LaTeX 수식 사용 금지!** (\text, \frac 같은 수식 표현 절대 금지)

답변 시 다음 사항을 고려해주세요:
- 한국어로 답변
- 모든 관련 정보를 종합하여 포괄적인 답변 제공
- 비교 분석이 필요한 경우 명확한 비교 표시
- 결론과 인사이트 포함
- 이해하기 쉽게 구조화된 답변
- 모든 숫자는 조회된 정확한 값만 사용 (추정 금지!)
- **비율 계산 시 일반 텍스트로 작성** (예: "순이익률 = (13,339,313,000,000 / 153,706,820,000,000) × 100 = 8.68%")
- **절대로 LaTeX 수식 형식 사용하지 말 것!**

**잘못된 예시 (하지 마세요!):**
❌ LaTeX 형식 사용 금지!

**올바른 예시:**
✅ "순이익률 = (13,339,313,000,000 / 153,706,820,000,000) × 100 = 8.68%"
✅ "순이익률: 8.68% (계산: 순이익 13조 ÷ 매출 154조)"`

func buildSynthesisPrompt(fullQuestion string, results []string) string {
	return fmt.Sprintf(`다음 복잡한 질문에 대해 수집된 모든 정보를 종합하여 완전하고 정확한 답변을 제공해주세요:

%s

수집된 정보:
%s`, fullQuestion, strings.Join(results, "\n"))
}
