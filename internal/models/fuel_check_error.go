package models

import (
	"bytes"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// FuelCheckError is the error returned for any non-success response from the
// FuelCheck API.
type FuelCheckError struct {
	StatusCode  int     `json:"-"`
	ErrorCode   *string `json:"error_code,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (e *FuelCheckError) Error() string {
	description := http.StatusText(e.StatusCode)
	if e.Description != nil {
		description = *e.Description
	}
	if e.ErrorCode != nil {
		return fmt.Sprintf("fuelcheck error %s (status %d): %s", *e.ErrorCode, e.StatusCode, description)
	}
	return fmt.Sprintf("fuelcheck error (status %d): %s", e.StatusCode, description)
}

type jsonShape int

const (
	shapeOther jsonShape = iota
	shapeList
	shapeObject
)

func shapeOf(raw []byte) jsonShape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return shapeOther
	}
	switch trimmed[0] {
	case '[':
		return shapeList
	case '{':
		return shapeObject
	}
	return shapeOther
}

// A list of details carries a description, a single object carries a message.
type errorDetailsEntry struct {
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

type errorDetailsObject struct {
	Code    *string `json:"code"`
	Message *string `json:"message"`
}

// DecodeFuelCheckError extracts the error code and description from an error
// response body. It never fails: anything it cannot make sense of leaves the
// raw body as the description.
func DecodeFuelCheckError(statusCode int, body []byte) *FuelCheckError {
	text := string(body)
	fallback := &FuelCheckError{StatusCode: statusCode, Description: &text}

	var obj map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return fallback
	}
	details, ok := obj["errorDetails"]
	if !ok {
		return fallback
	}

	switch shapeOf(details) {
	case shapeList:
		var entries []jsoniter.RawMessage
		if err := json.Unmarshal(details, &entries); err != nil || len(entries) == 0 {
			return fallback
		}
		if shapeOf(entries[0]) != shapeObject {
			return fallback
		}
		var first errorDetailsEntry
		if err := json.Unmarshal(entries[0], &first); err != nil {
			return fallback
		}
		return &FuelCheckError{StatusCode: statusCode, ErrorCode: first.Code, Description: first.Description}

	case shapeObject:
		var single errorDetailsObject
		if err := json.Unmarshal(details, &single); err != nil {
			return fallback
		}
		return &FuelCheckError{StatusCode: statusCode, ErrorCode: single.Code, Description: single.Message}
	}

	return fallback
}
