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


package core

import (
	"fmt"
	"regexp"
)

// documentIDPattern restricts document IDs to word characters and dashes.
// On-disk filenames are derived from document IDs, so this doubles as the
// path-traversal boundary: no separators, no dots, no '@'.
var documentIDPattern = regexp.MustCompile(`^[\w-]+$`)

// ValidateDocumentID validates a document ID according to domain rules.
//
// Validation rules:
//   - must not be empty
//   - only word characters (letters, digits, underscore) and dashes
//
// Every component that derives a filename or storage key from a document ID
// must validate it first; callers at the system boundary are expected to have
// validated already, so this is defense in depth.
func ValidateDocumentID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidDocumentID)
	}
	if !documentIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentID, id)
	}
	return nil
}
