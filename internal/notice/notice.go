// Package notice turns client failures into user-facing notices.
//
// Structured signals (client failure kind, envelope code) win. Otherwise the
// message text is matched against a prioritized rule list, because the
// backend does not yet send a category code for every failure.
package notice

import (
	"strings"

	"github.com/wonny/stockai/dashboard/internal/external/predictapi"
)

// Category 표시 분류
type Category string

const (
	CategoryNetwork        Category = "network"
	CategoryTimeout        Category = "timeout"
	CategoryDataCollection Category = "data_collection"
	CategoryAIPrediction   Category = "ai_prediction"
	CategoryGeneric        Category = "generic"
)

// Notice is what the dashboard shows for a failed action
type Notice struct {
	Category  Category `json:"category"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Remedy    string   `json:"remedy"`
	Retryable bool     `json:"retryable"`
	Code      string   `json:"code,omitempty"`
}

type presentation struct {
	title  string
	remedy string
}

var presentations = map[Category]presentation{
	CategoryNetwork: {
		title:  "네트워크 연결 오류",
		remedy: "인터넷 연결과 예측 서버 실행 여부를 확인해주세요.",
	},
	CategoryTimeout: {
		title:  "요청 시간 초과",
		remedy: "AI 모델 응답이 지연되고 있습니다. 잠시 기다려주세요.",
	},
	CategoryDataCollection: {
		title:  "데이터 수집 실패",
		remedy: "주식 데이터를 가져오지 못했습니다. 종목 코드와 시장 구분을 확인해주세요.",
	},
	CategoryAIPrediction: {
		title:  "AI 예측 실패",
		remedy: "일부 AI 모델이 응답하지 않았습니다. 다른 종목을 선택해보세요.",
	},
	CategoryGeneric: {
		title:  "오류가 발생했습니다",
		remedy: "문제가 계속되면 관리자에게 문의해주세요.",
	},
}

// Title returns the fixed title for c
func (c Category) Title() string {
	return presentations[c].title
}

// Remedy returns the fixed suggested remedy for c
func (c Category) Remedy() string {
	return presentations[c].remedy
}

// codeCategories maps envelope codes the backend is known to send
var codeCategories = map[string]Category{
	"RANKING_FETCH_FAILED":   CategoryDataCollection,
	"DATA_COLLECTION_FAILED": CategoryDataCollection,
	"DATA_NOT_FOUND":         CategoryDataCollection,
	"PREDICTION_FAILED":      CategoryAIPrediction,
	"AI_TIMEOUT":             CategoryTimeout,
	"TIMEOUT":                CategoryTimeout,
	"NETWORK_ERROR":          CategoryNetwork,
}

type rule struct {
	category Category
	patterns []string
}

// rules are checked in order; first match wins
var rules = []rule{
	{CategoryNetwork, []string{"네트워크", "network", "연결"}},
	{CategoryTimeout, []string{"시간 초과", "timeout", "timed out"}},
	{CategoryDataCollection, []string{"데이터", "data", "수집"}},
	{CategoryAIPrediction, []string{"예측", "ai", "prediction", "모델"}},
}

// Classify builds the notice for err. nil yields nil.
func Classify(err error) *Notice {
	if err == nil {
		return nil
	}

	n := &Notice{Message: err.Error()}

	category := CategoryGeneric
	if apiErr, ok := predictapi.AsError(err); ok {
		n.Retryable = apiErr.Retryable
		n.Code = apiErr.Code
		category = structured(apiErr)
	}
	if category == CategoryGeneric {
		category = CategorizeMessage(n.Message)
	}

	n.Category = category
	n.Title = category.Title()
	n.Remedy = category.Remedy()
	return n
}

// structured maps client failure kinds and envelope codes; generic when unknown
func structured(apiErr *predictapi.Error) Category {
	switch apiErr.Kind {
	case predictapi.KindNetwork:
		return CategoryNetwork
	case predictapi.KindTimeout:
		return CategoryTimeout
	}

	if c, ok := codeCategories[strings.ToUpper(apiErr.Code)]; ok {
		return c
	}
	return CategoryGeneric
}

// CategorizeMessage applies the substring rules to free text
func CategorizeMessage(message string) Category {
	lower := strings.ToLower(message)

	for _, r := range rules {
		for _, p := range r.patterns {
			if containsPattern(lower, p) {
				return r.category
			}
		}
	}
	return CategoryGeneric
}

// containsPattern matches short ASCII patterns ("ai") on word boundaries so
// that words like "said" or "failed" don't trigger them
func containsPattern(text, pattern string) bool {
	if len(pattern) > 2 || !isASCIIWord(pattern) {
		return strings.Contains(text, pattern)
	}

	for i := 0; ; {
		idx := strings.Index(text[i:], pattern)
		if idx < 0 {
			return false
		}
		start := i + idx
		end := start + len(pattern)
		if (start == 0 || !isASCIILetter(text[start-1])) && (end == len(text) || !isASCIILetter(text[end])) {
			return true
		}
		i = start + 1
	}
}

func isASCIIWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isASCIILetter(s[i]) {
			return false
		}
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
