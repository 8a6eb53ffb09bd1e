//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Benner.
//
// Benner is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Benner is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Benner. If not, see https://www.gnu.org/licenses/.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with messages for Config fields.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(yamlName)
	return &Validator{validate: v}
}

// Validate checks cfg and returns a ConfigError listing every failed field.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.validate.Struct(cfg); err != nil {
		return &ConfigError{Op: "validate", Err: formatValidationErrors(err)}
	}
	return nil
}

func formatValidationErrors(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, formatFieldError(e))
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// yamlName reports fields by their YAML key so messages match the config file.
func yamlName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
