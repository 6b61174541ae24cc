package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/strategy-agent/internal/model"
)

// Compare renders a comparison across the named companies. Companies not
// yet researched are researched first, sequentially and in the given order;
// already-known companies reuse their stored plan without new provider
// calls.
func (a *Agent) Compare(ctx context.Context, companies []string, status StatusFunc) string {
	notify(status, "Comparing "+strings.Join(companies, ", ")+"...")

	points := make(map[string]model.PlanData, len(companies))
	for _, c := range companies {
		if _, ok := a.session.Plan(c); !ok {
			a.Research(ctx, c, nil)
		}
		if plan, ok := a.session.Plan(c); ok {
			points[c] = plan.Data
		}
	}

	payload, _ := json.Marshal(points)
	prompt := fmt.Sprintf("Compare these companies: %s. Output a Markdown table and key insights.", payload)
	return a.generate(ctx, "compare", prompt, defaultMaxTokens)
}
