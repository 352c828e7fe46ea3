// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"fmt"
	"strings"
	"unicode"

	"code.gitea.io/dispatcher/modules/util"
)

const (
	MaxTagLength = 255
	MaxTagCount  = 64
)

// ParseTags splits a tag list on commas and white space.
// Blank input means "no tags" and returns nil, never a slice holding an empty string.
// Duplicates are dropped, the first occurrence keeps its position.
func ParseTags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	return util.SliceUnique(fields)
}

// JoinTags is the inverse of ParseTags
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ValidateTags checks tags produced by ParseTags or decoded from a request
func ValidateTags(tags []string) error {
	if len(tags) > MaxTagCount {
		return ValidationError{Field: "tags", Message: fmt.Sprintf("at most %d tags are allowed, got %d", MaxTagCount, len(tags))}
	}
	for _, tag := range tags {
		switch {
		case tag == "":
			return ValidationError{Field: "tags", Message: "tag must not be empty"}
		case len(tag) > MaxTagLength:
			return ValidationError{Field: "tags", Message: fmt.Sprintf("tag %q is longer than %d characters", tag[:16]+"...", MaxTagLength)}
		case strings.ContainsFunc(tag, func(r rune) bool { return r == ',' || unicode.IsSpace(r) || unicode.IsControl(r) }):
			return ValidationError{Field: "tags", Message: fmt.Sprintf("tag %q contains a separator or control character", tag)}
		}
	}
	return nil
}
