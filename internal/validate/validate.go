// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package validate provides configuration validation utilities for churchsync.
package validate

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"net/mail"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"
)

// Error is one failed check.
type Error struct {
	Field   string
	Value   any // nil for secrets
	Message string
}

func (e Error) Error() string {
	return e.Field + ": " + e.Message
}

// Validator collects failed checks. Validators returned by In share the
// error list of their parent and prefix field names with the section.
type Validator struct {
	prefix string
	errs   *[]Error
}

// ValidationError is every failed check of one validation pass.
type ValidationError struct {
	errors []Error
}

// New returns an empty validator.
func New() *Validator {
	return &Validator{errs: new([]Error)}
}

// In returns a validator for the named config section.
func (v *Validator) In(section string) *Validator {
	return &Validator{prefix: v.field(section), errs: v.errs}
}

func (v *Validator) field(name string) string {
	if v.prefix == "" {
		return name
	}
	return v.prefix + "." + name
}

// AddError records a failed check on field.
func (v *Validator) AddError(field, message string, value any) {
	*v.errs = append(*v.errs, Error{Field: v.field(field), Value: value, Message: message})
}

// IsValid reports whether no check has failed so far.
func (v *Validator) IsValid() bool {
	return len(*v.errs) == 0
}

// Errors returns the failed checks in the order they were recorded.
func (v *Validator) Errors() []Error {
	return *v.errs
}

// Err returns a ValidationError, or nil when every check passed.
func (v *Validator) Err() error {
	if v.IsValid() {
		return nil
	}
	return ValidationError{errors: slices.Clone(*v.errs)}
}

// Errors returns the failed checks.
func (e ValidationError) Errors() []Error {
	return e.errors
}

func (e ValidationError) Error() string {
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Secret checks that a credential is set without keeping its value.
func (v *Validator) Secret(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "must be set", nil)
	}
}

// URL checks that value is an absolute URL with a host and, when schemes is
// not empty, one of those schemes.
func (v *Validator) URL(field, value string, schemes []string) {
	u, err := url.Parse(value)
	switch {
	case value == "":
		v.AddError(field, "must be set", value)
	case err != nil:
		v.AddError(field, "not a URL: "+err.Error(), value)
	case u.Host == "":
		v.AddError(field, "URL has no host", value)
	case len(schemes) > 0 && !slices.Contains(schemes, u.Scheme):
		v.AddError(field, fmt.Sprintf("scheme %q not in %v", u.Scheme, schemes), value)
	}
}

// Port checks a TCP port number.
func (v *Validator) Port(field string, port int) {
	between(v, field, port, 1, 65535)
}

// Range checks that value lies in [lo, hi].
func (v *Validator) Range(field string, value, lo, hi int) {
	between(v, field, value, lo, hi)
}

// DurationRange checks that value lies in [lo, hi].
func (v *Validator) DurationRange(field string, value, lo, hi time.Duration) {
	between(v, field, value, lo, hi)
}

func between[T cmp.Ordered](v *Validator, field string, value, lo, hi T) {
	if value < lo || value > hi {
		v.AddError(field, fmt.Sprintf("%v is outside [%v, %v]", value, lo, hi), value)
	}
}

// Directory checks that path is a directory. Unless mustExist is set, a
// missing directory is created.
func (v *Validator) Directory(field, path string, mustExist bool) {
	if path == "" {
		v.AddError(field, "must be set", path)
		return
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && mustExist:
		v.AddError(field, "directory does not exist", path)
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(path, 0o750); err != nil {
			v.AddError(field, "cannot create directory: "+err.Error(), path)
		}
	case err != nil:
		v.AddError(field, "cannot access directory: "+err.Error(), path)
	case !info.IsDir():
		v.AddError(field, "not a directory", path)
	}
}

// NotEmpty checks that value has non-blank content.
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "must be set", value)
	}
}

// OneOf checks value against a closed set.
func (v *Validator) OneOf(field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		v.AddError(field, fmt.Sprintf("%q is not one of %v", value, allowed), value)
	}
}

// Positive checks that value is greater than zero.
func (v *Validator) Positive(field string, value int) {
	if value <= 0 {
		v.AddError(field, fmt.Sprintf("%d is not positive", value), value)
	}
}

// Email validates a single RFC 5322 address.
func (v *Validator) Email(field, value string) {
	if value == "" {
		v.AddError(field, "address cannot be empty", value)
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v.AddError(field, fmt.Sprintf("invalid address: %v", err), value)
	}
}

// Location validates an IANA time zone name.
func (v *Validator) Location(field, value string) {
	if _, err := time.LoadLocation(value); err != nil {
		v.AddError(field, fmt.Sprintf("unknown time zone: %v", err), value)
	}
}
