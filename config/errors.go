package config

import "github.com/ayoisaiah/daybook/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidRulePattern = &apperr.Error{
		Message: "invalid classification rule pattern %q: %v",
	}

	errInvalidTimezone = &apperr.Error{
		Message: "unknown report timezone: %s",
	}

	errMissingPrecedence = &apperr.Error{
		Message: "precedence must list at least one category",
	}

	errMissingCategories = &apperr.Error{
		Message: "deep_work.categories must list at least one category",
	}

	errRuleWithoutLabel = &apperr.Error{
		Message: "classification rule %q has no label",
	}

	errInvalidHourWindow = &apperr.Error{
		Message: "%s window hours must satisfy 0 <= start <= end <= 24",
	}

	errInvalidDate = &apperr.Error{
		Message: "invalid date: %s",
	}
)
