package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/deepmap/oapi-codegen/pkg/types"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/tidepool-org/prescription-wizard/devices"
)

const msPerDay = 24 * 60 * 60 * 1000

var (
	errRequired     = validation.NewError("validation_required", "is required")
	errNotNumber    = validation.NewError("validation_not_number", "must be a number")
	errNotPositive  = validation.NewError("validation_not_positive", "must be greater than zero")
	errEmail        = validation.NewError("validation_email", "must be a valid email address")
	errEmailConfirm = validation.NewError("validation_email_confirm", "does not match the email address")
	errDate         = validation.NewError("validation_date", "must be a valid date in the format YYYY-MM-DD")
	errFutureDate   = validation.NewError("validation_future_date", "must be in the past")
	errPhoneNumber  = validation.NewError("validation_phone_number", "must be a valid 10 digit phone number")
	errReviewed     = validation.NewError("validation_reviewed", "must be confirmed")
	errSchedule     = validation.NewError("validation_schedule", "must contain at least one entry")
	errScheduleFrom = validation.NewError("validation_schedule_start", "must start at midnight")
	errScheduleStep = validation.NewError("validation_schedule_order", "start times must increase and stay within a day")
	errRangeOrder   = validation.NewError("validation_range_order", "low must not be greater than high")

	phoneDigits = regexp.MustCompile(`\d`)
	mrnPattern  = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// present fails only for values that were never entered. Unlike validation.Required it accepts zero.
var present = validation.By(func(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return errRequired
	case string:
		if v == "" {
			return errRequired
		}
	}
	return nil
})

func number(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// within checks a number against bounds. Absent values are left to the presence rule.
func within(bounds devices.Bounds) validation.Rule {
	return validation.By(func(value interface{}) error {
		if value == nil {
			return nil
		}
		n, ok := number(value)
		if !ok {
			return errNotNumber
		}
		if n < bounds.Minimum {
			return validation.NewError("validation_min", fmt.Sprintf("must be no less than %v", bounds.Minimum))
		}
		if bounds.Maximum != 0 && n > bounds.Maximum {
			return validation.NewError("validation_max", fmt.Sprintf("must be no greater than %v", bounds.Maximum))
		}
		return nil
	})
}

var positive = validation.By(func(value interface{}) error {
	if value == nil {
		return nil
	}
	n, ok := number(value)
	if !ok {
		return errNotNumber
	}
	if n <= 0 {
		return errNotPositive
	}
	return nil
})

var email = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := types.Email(s).MarshalJSON(); err != nil {
		return errEmail
	}
	return nil
})

func matches(expected *string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if expected == nil || s != *expected {
			return errEmailConfirm
		}
		return nil
	})
}

func pastDate(now time.Time) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		var date types.Date
		if err := date.UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
			return errDate
		}
		if !date.Time.Before(now) {
			return errFutureDate
		}
		return nil
	})
}

var phoneNumber = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if len(phoneDigits.FindAllString(s, -1)) != 10 {
		return errPhoneNumber
	}
	return nil
})

var confirmed = validation.By(func(value interface{}) error {
	if v, ok := value.(bool); !ok || !v {
		return errReviewed
	}
	return nil
})

// entryRules maps the keys of a schedule entry or range object to the rules of their values
type entryRules map[string][]validation.Rule

func (r entryRules) validate(entry map[string]interface{}) error {
	errs := validation.Errors{}
	for key, rules := range r {
		errs[key] = validation.Validate(entry[key], rules...)
	}
	return errs.Filter()
}

// schedule validates an array of entries starting at midnight with strictly increasing start times
func schedule(rules entryRules) validation.Rule {
	return validation.By(func(value interface{}) error {
		entries, ok := value.([]interface{})
		if !ok || len(entries) == 0 {
			return errSchedule
		}

		errs := validation.Errors{}
		previous := -1.0
		for i, item := range entries {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return errSchedule
			}
			start, ok := number(entry["start"])
			if !ok {
				errs[fmt.Sprint(i)] = errRequired
				continue
			}
			if i == 0 && start != 0 {
				errs[fmt.Sprint(i)] = errScheduleFrom
				continue
			}
			if start <= previous || start >= msPerDay {
				errs[fmt.Sprint(i)] = errScheduleStep
				continue
			}
			previous = start
			errs[fmt.Sprint(i)] = rules.validate(entry)
		}
		return errs.Filter()
	})
}

// lowHigh validates an object holding a low and high glucose value
func lowHigh(rules entryRules) validation.Rule {
	return validation.By(func(value interface{}) error {
		entry, ok := value.(map[string]interface{})
		if !ok {
			return errRequired
		}
		return rules.validate(entry)
	})
}

// ordered requires the low value of a range object not to exceed the high value
var ordered = validation.By(func(value interface{}) error {
	entry, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	low, lowOk := number(entry["low"])
	high, highOk := number(entry["high"])
	if lowOk && highOk && low > high {
		return errRangeOrder
	}
	return nil
})

var orderedEntries = validation.By(func(value interface{}) error {
	entries, _ := value.([]interface{})
	for _, entry := range entries {
		if err := ordered.Validate(entry); err != nil {
			return err
		}
	}
	return nil
})
