// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides input validation for everything a user can
// create or change.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - FieldError: the first failing field, unwrapping to a sentinel error so
//     callers can branch with errors.Is.
//
// Structural rules (required fields, lengths, formats) are declared as
// `validate` tags on the models and checked by go-playground/validator.
// Rules that need more than one value, such as "not in the past" or
// "no duplicate subject name", are checked here in code.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
