package progression

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PassThreshold 测验与考试统一的及格百分比
const PassThreshold = 70

type Question struct {
	ID     uint
	Answer string
	Weight int
}

type Result struct {
	Obtained int           `json:"obtained"`
	Total    int           `json:"total"`
	Percent  int           `json:"percent"`
	Passed   bool          `json:"passed"`
	Correct  map[uint]bool `json:"correct"`
}

func Passed(percent int) bool {
	return percent >= PassThreshold
}

// Score 按权重计分，权重非正时按 1 计；未作答视为错误
func Score(questions []Question, submission map[uint]string) Result {
	res := Result{Correct: make(map[uint]bool, len(questions))}
	for _, q := range questions {
		w := q.Weight
		if w <= 0 {
			w = 1
		}
		res.Total += w

		got, ok := submission[q.ID]
		hit := ok && strings.TrimSpace(got) == strings.TrimSpace(q.Answer)
		res.Correct[q.ID] = hit
		if hit {
			res.Obtained += w
		}
	}
	if res.Total > 0 {
		res.Percent = int(math.Round(100 * float64(res.Obtained) / float64(res.Total)))
	}
	res.Passed = res.Total > 0 && Passed(res.Percent)
	return res
}

// NormalizeAnswer 把选项下标（数字）或字符串答案统一为字符串
func NormalizeAnswer(v interface{}) (string, bool) {
	switch a := v.(type) {
	case string:
		return a, true
	case json.Number:
		return NormalizeAnswer(string(a))
	case float64:
		if a == math.Trunc(a) {
			return strconv.FormatInt(int64(a), 10), true
		}
		return strconv.FormatFloat(a, 'f', -1, 64), true
	case int:
		return strconv.Itoa(a), true
	case int64:
		return strconv.FormatInt(a, 10), true
	case bool:
		return strconv.FormatBool(a), true
	default:
		return "", false
	}
}
