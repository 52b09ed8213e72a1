package config

// Validate reports the first fatal configuration problem. Optional
// settings are never validated here; they fall back to their documented
// defaults downstream.
func (c *Config) Validate() error {
	if len(c.Precedence) == 0 {
		return errMissingPrecedence
	}

	if len(c.DeepWork.Categories) == 0 {
		return errMissingCategories
	}

	for _, rules := range [][]RuleConfig{
		c.Rules.Apps,
		c.Rules.Titles,
		c.Rules.Domains,
	} {
		for _, r := range rules {
			if r.Label == "" {
				return errRuleWithoutLabel.Fmt(r.Pattern)
			}
		}
	}

	windows := []struct {
		name       string
		start, end int
	}{
		{"morning bonus", c.DeepWork.MorningBonusStart, c.DeepWork.MorningBonusEnd},
		{"post-lunch dip", c.DeepWork.PostLunchDipStart, c.DeepWork.PostLunchDipEnd},
	}

	for _, w := range windows {
		if w.start < 0 || w.end > 24 || w.start > w.end {
			return errInvalidHourWindow.Fmt(w.name)
		}
	}

	return nil
}
