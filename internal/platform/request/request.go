// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeOptionalJSON behaves like DecodeJSON but accepts an empty body,
leaving target untouched.
*/
func DecodeOptionalJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return nil
	}
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Index parses a named URL parameter as a non-negative positional index.

Returns:
  - int: The parsed index
  - error: apperr.ValidationError if the parameter is not a non-negative integer
*/
func Index(request *http.Request, name string) (int, error) {
	raw := Param(request, name)

	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, apperr.ValidationError("Invalid index", apperr.FieldError{
			Field:   name,
			Message: "Must be a non-negative integer",
		})
	}

	return index, nil
}
