// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yepai/yepai/pkg/errors"
	"github.com/yepai/yepai/pkg/model"
	"github.com/yepai/yepai/pkg/stats"
)

// FairnessRequest 公平性分析请求
type FairnessRequest struct {
	Roster model.Roster `json:"roster"`
	Days   []string     `json:"days"`
}

// FairnessHandler 处理花名册公平性分析请求
func FairnessHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req FairnessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(err, errors.CodeInvalidInput, "请求体解析失败"))
		return
	}

	analyzer := stats.NewFairnessAnalyzer()
	writeJSON(w, http.StatusOK, analyzer.Analyze(req.Roster, req.Days))
}
