/**
 * @description
 * This file provides a small declarative validator. Handlers and services
 * describe field rules as a list; the first failing rule per field is
 * collected into a ValidationError.
 */

package app

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// FieldRule is one named field with its checks. Checks return a message for
// a failing value and "" otherwise.
type FieldRule struct {
	Name   string
	Checks []func() string
}

// Validate runs the rules and returns a ValidationError when any field fails.
func Validate(rules ...FieldRule) error {
	fields := map[string]string{}
	for _, rule := range rules {
		for _, check := range rule.Checks {
			if msg := check(); msg != "" {
				fields[rule.Name] = msg
				break
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Required fails on empty or whitespace-only strings.
func Required(value string) func() string {
	return func() string {
		if strings.TrimSpace(value) == "" {
			return "is required"
		}
		return ""
	}
}

// Email fails on syntactically invalid addresses. Empty values pass so the
// rule composes with Required.
func Email(value string) func() string {
	return func() string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		if _, err := mail.ParseAddress(value); err != nil {
			return "must be a valid email address"
		}
		return ""
	}
}

// MinLength fails on strings shorter than n runes.
func MinLength(value string, n int) func() string {
	return func() string {
		if value != "" && utf8.RuneCountInString(value) < n {
			return "is too short"
		}
		return ""
	}
}

// MaxLength fails on strings longer than n runes.
func MaxLength(value string, n int) func() string {
	return func() string {
		if utf8.RuneCountInString(value) > n {
			return "is too long"
		}
		return ""
	}
}

// Positive fails on amounts that are zero or negative.
func Positive(value int64) func() string {
	return func() string {
		if value <= 0 {
			return "must be greater than zero"
		}
		return ""
	}
}

// OneOf fails when value is not in the allowed set. Empty values pass so the
// rule composes with Required.
func OneOf(value string, allowed ...string) func() string {
	return func() string {
		if value == "" {
			return ""
		}
		for _, a := range allowed {
			if value == a {
				return ""
			}
		}
		return "is not a supported value"
	}
}
