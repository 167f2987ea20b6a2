package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/trackr/internal/model"
)

func strPtr(s string) *string { return &s }

func TestFilterSemantics(t *testing.T) {
	all := ContainsAll("x", "y")
	assert.True(t, all.Match("axbyc"))
	assert.False(t, all.Match("only x here"))
	assert.True(t, ContainsAll().Match("anything"))

	anyOf := ContainsAny("x", "y")
	assert.True(t, anyOf.Match("just y"))
	assert.False(t, anyOf.Match("nothing"))
	assert.False(t, ContainsAny().Match("anything"))

	assert.True(t, Is("Inbox").Match("Inbox"))
	assert.False(t, Is("Inbox").Match("Inbox (3)"))

	assert.True(t, StartsWith("Foo").Match("Foobar"))
	assert.False(t, StartsWith("Foo").Match("xFoobar"))
	assert.False(t, StartsWith("Foobar!").Match("Foo"))

	assert.True(t, EndsWith("bar").Match("Foobar"))
	assert.False(t, EndsWith("bar").Match("barFoo"))
	assert.False(t, EndsWith("xFoobar").Match("bar"))
}

func TestRuleApplyClassWithFilters(t *testing.T) {
	r := rule{
		target: TargetClass,
		values: []string{"test-class"},
		filters: []Filter{
			ContainsAll("foo", "bar"),
			ContainsAny("baz"),
			EndsWith("end"),
			StartsWith("start"),
		},
	}

	assert.False(t, r.apply("r_name", "no", "no"))
	assert.True(t, r.apply("r_name", "test-class", "foo bar"))
	assert.True(t, r.apply("r_name", "test-class", "lolipop baz lightyear"))
	assert.True(t, r.apply("r_name", "test-class", "start BRRRAP"))
	assert.True(t, r.apply("r_name", "test-class", "BRRRAP end"))
	assert.False(t, r.apply("r_name", "test-class", "foo only"))
}

func TestRuleApplyWithoutFilters(t *testing.T) {
	r := rule{target: TargetName, values: []string{"Navigator", "Google-Chrome"}}
	assert.True(t, r.apply("Navigator", "firefox", "whatever"))
	assert.False(t, r.apply("navigator", "firefox", "whatever"), "values compare exactly")
}

func TestRuleApplyTitleIgnoresFilters(t *testing.T) {
	r := rule{
		target:  TargetTitle,
		values:  []string{"Title in question"},
		filters: []Filter{Is("something else")},
	}
	assert.True(t, r.apply("r_name", "test-class", "Title in question"))
	assert.False(t, r.apply("r_name", "test-class", "Another title"))
}

func codingConfig() *Config {
	return &Config{
		AFKTimeout: 75 * time.Second,
		Activities: []Activity{{
			Name:   "coding",
			Weight: 1,
			Rules: []Rule{{
				ForClass:         []string{"code-oss"},
				TitleContainsAny: []string{"draft"},
			}},
		}},
	}
}

func TestClassifyScenario(t *testing.T) {
	cfg := codingConfig().Compile()

	got := Classify(cfg, model.ActiveWindow("draft.rs", "Code", "code-oss"))
	assert.Equal(t, model.Productive("coding"), got)

	got = Classify(cfg, model.ActiveWindow("main.rs", "Code", "code-oss"))
	assert.Equal(t, model.Neutral(), got)

	assert.Equal(t, model.Neutral(), Classify(cfg, model.AFK()))
}

func TestClassifyLastMatchWins(t *testing.T) {
	match := []Rule{{ForName: []string{"Navigator"}}}
	window := model.ActiveWindow("news", "Navigator", "firefox")

	cfg := (&Config{Activities: []Activity{
		{Name: "research", Weight: 1, Rules: match},
		{Name: "browsing", Weight: -1, Rules: match},
	}}).Compile()
	assert.Equal(t, model.Leisure("browsing"), Classify(cfg, window))

	cfg = (&Config{Activities: []Activity{
		{Name: "browsing", Weight: -1, Rules: match},
		{Name: "research", Weight: 1, Rules: match},
	}}).Compile()
	assert.Equal(t, model.Productive("research"), Classify(cfg, window))
}

func TestClassifyLaterNonMatchKeepsEarlierMatch(t *testing.T) {
	cfg := (&Config{Activities: []Activity{
		{Name: "coding", Weight: 2, Rules: []Rule{{ForClass: []string{"code-oss"}}}},
		{Name: "games", Weight: -3, Rules: []Rule{{ForClass: []string{"steam"}}}},
	}}).Compile()

	got := Classify(cfg, model.ActiveWindow("x", "Code", "code-oss"))
	assert.Equal(t, model.Productive("coding"), got)
}

func TestClassifyZeroWeightIsNeutral(t *testing.T) {
	cfg := (&Config{Activities: []Activity{
		{Name: "coding", Weight: 1, Rules: []Rule{{ForClass: []string{"code-oss"}}}},
		{Name: "chat", Weight: 0, Rules: []Rule{{ForClass: []string{"code-oss"}}}},
	}}).Compile()

	got := Classify(cfg, model.ActiveWindow("x", "Code", "code-oss"))
	assert.Equal(t, model.Neutral(), got)
}

func TestClassifyEmptyConfig(t *testing.T) {
	assert.Equal(t, model.Neutral(), Classify((&Config{}).Compile(), model.ActiveWindow("a", "b", "c")))
	assert.Equal(t, model.Neutral(), Classify(nil, model.ActiveWindow("a", "b", "c")))
}

func TestCompileTargetPrecedenceAndDrops(t *testing.T) {
	cfg := &Config{Activities: []Activity{
		{Name: "", Weight: 1, Rules: []Rule{{ForName: []string{"x"}}}},
		{Name: "mixed", Weight: 1, Rules: []Rule{
			{TitleIs: strPtr("orphan")},
			{ForClass: []string{"cls"}, ForName: []string{"app"}, ForTitle: []string{"t"}},
		}},
	}}
	compiled := cfg.Compile()
	require.Equal(t, 1, compiled.Activities())
	require.Len(t, compiled.activities[0].rules, 1)
	assert.Equal(t, TargetClass, compiled.activities[0].rules[0].target)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "rule #1")
	assert.NoError(t, codingConfig().Validate())
}

func TestCompileFilterOrder(t *testing.T) {
	r, ok := compileRule(Rule{
		ForName:          []string{"n"},
		TitleEndsWith:    strPtr("e"),
		TitleIs:          strPtr("i"),
		TitleContainsAny: []string{"a"},
		TitleStartsWith:  strPtr("s"),
		TitleContainsAll: []string{"c"},
	})
	require.True(t, ok)
	var types []FilterType
	for _, f := range r.filters {
		types = append(types, f.Type)
	}
	assert.Equal(t, []FilterType{FilterContainsAll, FilterContainsAny, FilterIs, FilterStartsWith, FilterEndsWith}, types)
}

func TestExplain(t *testing.T) {
	cfg := (&Config{Activities: []Activity{
		{Name: "research", Weight: 1, Rules: []Rule{
			{ForClass: []string{"nope"}},
			{ForName: []string{"Navigator"}},
		}},
		{Name: "browsing", Weight: -1, Rules: []Rule{{ForName: []string{"Navigator"}}}},
	}}).Compile()

	matches := Explain(cfg, model.ActiveWindow("news", "Navigator", "firefox"))
	require.Len(t, matches, 2)
	assert.Equal(t, "research", matches[0].Activity)
	assert.Equal(t, 2, matches[0].Rule)
	assert.Equal(t, "name", matches[0].Target)
	assert.Equal(t, model.Leisure("browsing"), matches[1].Status)
	assert.Nil(t, Explain(cfg, model.AFK()))
}

func TestClassifierSwap(t *testing.T) {
	c := New(codingConfig())
	w := model.ActiveWindow("draft.rs", "Code", "code-oss")
	assert.Equal(t, model.Productive("coding"), c.Classify(w))
	assert.Equal(t, 75*time.Second, c.AFKTimeout())

	c.Swap(&Config{AFKTimeout: 30 * time.Second})
	assert.Equal(t, model.Neutral(), c.Classify(w))
	assert.Equal(t, 30*time.Second, c.AFKTimeout())
}

func TestConfigYAML(t *testing.T) {
	src := `
name: Home computer
afk_timeout: 90s
activities:
  - name: coding
    weight: 1
    rules:
      - for_class: [code-oss]
        title_contains_any: [rtrackr, frontend]
      - for_name: [Navigator, Google-Chrome]
        title_starts_with: "GitHub"
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(src), &cfg))
	assert.Equal(t, "Home computer", cfg.Name)
	assert.Equal(t, 90*time.Second, cfg.AFKTimeout)
	require.Len(t, cfg.Activities, 1)
	require.Len(t, cfg.Activities[0].Rules, 2)
	require.NotNil(t, cfg.Activities[0].Rules[1].TitleStartsWith)

	compiled := cfg.Compile()
	assert.Equal(t, model.Productive("coding"), Classify(compiled, model.ActiveWindow("GitHub - trackr", "Navigator", "firefox")))
	assert.Equal(t, model.Neutral(), Classify(compiled, model.ActiveWindow("Inbox - GitHub", "Navigator", "firefox")))
}
