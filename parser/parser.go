// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package parser turns uploaded files into plain text for ingestion.
// Raw text formats (plain text, markdown, CSV) are supported; office
// formats are not.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedType indicates the file's format cannot be parsed.
var ErrUnsupportedType = errors.New("unsupported document type")

// mimeTypesByExtension maps supported filename extensions to mime types.
var mimeTypesByExtension = map[string]string{
	".md":  "text/markdown",
	".txt": "text/plain",
	".csv": "text/csv",
}

// IsFileSupported reports whether the filename's extension is parseable.
func IsFileSupported(filename string) bool {
	_, ok := mimeTypesByExtension[extension(filename)]
	return ok
}

// MimeType resolves the mime type from the filename's extension, or
// ErrUnsupportedType.
func MimeType(filename string) (string, error) {
	mimeType, ok := mimeTypesByExtension[extension(filename)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}
	return mimeType, nil
}

func extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx:])
}

// Parse extracts the text content of a file. The mime type wins when given;
// otherwise it is resolved from the filename's extension.
func Parse(data []byte, filename, mimeType string) (string, error) {
	if mimeType == "" {
		resolved, err := MimeType(filename)
		if err != nil {
			return "", err
		}
		mimeType = resolved
	}

	switch mimeType {
	case "text/plain", "text/markdown", "text/csv":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrUnsupportedType, filename)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}
