package ai

import (
	"bytes"
	"fmt"
	"text/template"

	"strategy-tester/internal/backtest"
)

const summaryTemplate = `
你是一个专业的量化策略分析师。请根据以下回测结果，对该交易策略给出简短点评。

回测标的: {{ .Symbol }}
策略名称: {{ .Strategy }}
回测区间: {{ .Start.Format "2006-01-02" }} 至 {{ .End.Format "2006-01-02" }}（共 {{ .Bars }} 根K线）

绩效指标：
- 累计收益（收益率加和）: {{ printf "%.4f" .Metrics.TotalPnL }}
- 年化夏普比率: {{ printf "%.2f" .Metrics.SharpeRatio }}
- 胜率: {{ printf "%.2f" .WinRatePercent }}%
- 最大回撤: {{ printf "%.2f" .DrawdownPercent }}%
- 调仓次数: {{ .Metrics.TradeCount }}
- 期初净值: {{ printf "%.2f" .InitialEquity }}
- 期末净值: {{ printf "%.2f" .FinalEquity }}
{{ if gt .Warnings.DataQuality 0 }}
数据质量提示：有 {{ .Warnings.DataQuality }} 处未定义仓位或非有限收益被替换为0，结果可信度需酌情打折。
{{ end }}{{ if .Warnings.ZeroVariance }}
退化提示：收益序列方差为零，夏普比率按约定回退为0。
{{ end }}
点评要求：
1. 先用一句话概括策略整体表现；
2. 指出风险收益特征中最值得注意的一点（如回撤、换手、胜率与盈亏比的关系）；
3. 给出一条具体的改进方向；
4. 控制在200字以内，直接输出正文，不要客套。
`

var tmpl = template.Must(template.New("summary").Parse(summaryTemplate))

type promptContext struct {
	backtest.Report
	WinRatePercent  float64
	DrawdownPercent float64
}

// BuildPrompt 将回测结果渲染成提示词字符串。
func BuildPrompt(report backtest.Report) (string, error) {
	ctx := promptContext{
		Report:          report,
		WinRatePercent:  report.Metrics.WinRate * 100,
		DrawdownPercent: report.Metrics.MaxDrawdown * 100,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("渲染提示词失败: %w", err)
	}

	return buf.String(), nil
}
