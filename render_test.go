package tailgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRules(t *testing.T) {
	r := newTestRegistry(t)

	var rules []Rule
	for _, class := range []string{"md:p-4", "flex", "md:flex", "text-green-500"} {
		resolved, ok := r.Resolve(class)
		require.True(t, ok)
		rules = append(rules, resolved...)
	}
	SortRules(rules)

	want := `.flex {
  display: flex;
}
.text-green-500 {
  color: #22c55e;
}
@media (min-width: 768px) {
  .md\:flex {
    display: flex;
  }
  .md\:p-4 {
    padding: 1rem;
  }
}
`
	assert.Equal(t, want, RenderRules(rules, false))
}

func TestRenderRulesMinified(t *testing.T) {
	r := newTestRegistry(t)

	var rules []Rule
	for _, class := range []string{"truncate", "sm:hidden"} {
		resolved, ok := r.Resolve(class)
		require.True(t, ok)
		rules = append(rules, resolved...)
	}
	SortRules(rules)

	assert.Equal(t,
		`.truncate{overflow:hidden;text-overflow:ellipsis;white-space:nowrap}@media (min-width: 640px){.sm\:hidden{display:none}}`,
		RenderRules(rules, true))
}

func TestRenderRulesEmpty(t *testing.T) {
	assert.Empty(t, RenderRules(nil, false))
	assert.Empty(t, RenderRules(nil, true))
}

func TestPreflightRenders(t *testing.T) {
	css := RenderRules(preflight, false)
	assert.Contains(t, css, "*, ::before, ::after {\n  box-sizing: border-box;")
	assert.Contains(t, css, "[hidden] {\n  display: none;\n}\n")
}
