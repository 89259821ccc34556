package sheets

import "regexp"

// sheetIDPattern captures the document ID embedded between "/d/" and the
// next path segment of a Google Sheets URL.
var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// ExtractSheetID parses a Google Sheets URL and returns the document ID.
// Returns ErrInvalidURL when the URL does not contain a "/d/<id>" segment.
func ExtractSheetID(url string) (string, error) {
	m := sheetIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", ErrInvalidURL
	}
	return m[1], nil
}
