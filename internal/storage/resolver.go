// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package storage

import (
	"net/url"
	"strings"

	"github.com/lehoangminh/folio/internal/platform/constants"
)

// ResolvePath extracts the object path from a public storage URL.
//
// # Algorithm
//
// The escaped URL path is scanned for the first segment equal to the "o"
// marker. Everything between that marker and the query string is
// percent-decoded and returned. The function reports false when:
//
//   - the URL cannot be parsed,
//   - no marker segment exists,
//   - the marker is the final path segment, or
//   - the remainder is not valid percent-encoding.
//
// ResolvePath never panics on malformed input and is a pure function:
// identical input always yields identical output.
func ResolvePath(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	// Work on the escaped form so %2F sequences inside the object path
	// do not split into extra segments.
	segments := strings.Split(parsed.EscapedPath(), "/")

	for index, segment := range segments {
		if segment != constants.StorageObjectMarker {
			continue
		}

		// Marker as the final segment carries no object path.
		if index == len(segments)-1 {
			return "", false
		}

		encoded := strings.Join(segments[index+1:], "/")
		if encoded == "" {
			return "", false
		}

		decoded, err := url.PathUnescape(encoded)
		if err != nil {
			return "", false
		}

		return decoded, true
	}

	return "", false
}
