// Package classifier assigns productivity statuses to activity kinds using
// user-defined activities and rules.
package classifier

import (
	"errors"
	"fmt"
	"time"
)

// Config is the user-facing classifier configuration, as read from YAML.
type Config struct {
	// Name identifies the machine the config belongs to.
	Name       string        `yaml:"name" json:"name"`
	AFKTimeout time.Duration `yaml:"afk_timeout" json:"afk_timeout"`
	Activities []Activity    `yaml:"activities" json:"activities"`
}

// Activity is a named group of rules. A positive weight marks matches as
// productive, a negative one as leisure, zero as neutral.
type Activity struct {
	Name   string `yaml:"name" json:"name"`
	Weight int    `yaml:"weight" json:"weight"`
	Rules  []Rule `yaml:"rules" json:"rules"`
}

// Rule selects windows by application name, class or title. When more than
// one of ForClass, ForName and ForTitle is set, ForClass wins, then ForName.
// The Title* fields are alternative title filters for name and class rules.
type Rule struct {
	ForName  []string `yaml:"for_name,omitempty" json:"for_name,omitempty"`
	ForClass []string `yaml:"for_class,omitempty" json:"for_class,omitempty"`
	ForTitle []string `yaml:"for_title,omitempty" json:"for_title,omitempty"`

	TitleContainsAll []string `yaml:"title_contains_all,omitempty" json:"title_contains_all,omitempty"`
	TitleContainsAny []string `yaml:"title_contains_any,omitempty" json:"title_contains_any,omitempty"`
	TitleIs          *string  `yaml:"title_is,omitempty" json:"title_is,omitempty"`
	TitleStartsWith  *string  `yaml:"title_starts_with,omitempty" json:"title_starts_with,omitempty"`
	TitleEndsWith    *string  `yaml:"title_ends_with,omitempty" json:"title_ends_with,omitempty"`
}

// Validate reports activities and rules that Compile would drop.
func (c *Config) Validate() error {
	var errs []error
	if c.AFKTimeout < 0 {
		errs = append(errs, fmt.Errorf("afk_timeout must not be negative, got %s", c.AFKTimeout))
	}
	for i, act := range c.Activities {
		if act.Name == "" {
			errs = append(errs, fmt.Errorf("activity #%d: name is required", i+1))
		}
		for j, r := range act.Rules {
			if r.ForClass == nil && r.ForName == nil && r.ForTitle == nil {
				errs = append(errs, fmt.Errorf("activity %q rule #%d: one of for_class, for_name, for_title is required", act.Name, j+1))
			}
		}
	}
	return errors.Join(errs...)
}

// Compile converts the configuration into its matching form. Activities
// without a name and rules without a target are skipped.
func (c *Config) Compile() *Compiled {
	out := &Compiled{
		Name:       c.Name,
		AFKTimeout: c.AFKTimeout,
	}
	for _, act := range c.Activities {
		if act.Name == "" {
			continue
		}
		compiled := compiledActivity{name: act.Name, weight: act.Weight}
		for _, r := range act.Rules {
			if cr, ok := compileRule(r); ok {
				compiled.rules = append(compiled.rules, cr)
			}
		}
		out.activities = append(out.activities, compiled)
	}
	return out
}

func compileRule(r Rule) (rule, bool) {
	var filters []Filter
	if r.TitleContainsAll != nil {
		filters = append(filters, ContainsAll(r.TitleContainsAll...))
	}
	if r.TitleContainsAny != nil {
		filters = append(filters, ContainsAny(r.TitleContainsAny...))
	}
	if r.TitleIs != nil {
		filters = append(filters, Is(*r.TitleIs))
	}
	if r.TitleStartsWith != nil {
		filters = append(filters, StartsWith(*r.TitleStartsWith))
	}
	if r.TitleEndsWith != nil {
		filters = append(filters, EndsWith(*r.TitleEndsWith))
	}

	switch {
	case r.ForClass != nil:
		return rule{target: TargetClass, values: r.ForClass, filters: filters}, true
	case r.ForName != nil:
		return rule{target: TargetName, values: r.ForName, filters: filters}, true
	case r.ForTitle != nil:
		return rule{target: TargetTitle, values: r.ForTitle, filters: filters}, true
	}
	return rule{}, false
}
