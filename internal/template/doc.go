// Package template implements the placeholder substitution engine used to
// personalize draft emails from spreadsheet rows.
//
// Templates use single-brace placeholders such as {name} or {company}. A
// placeholder name is any run of characters that does not contain a closing
// brace. Rendering replaces every occurrence of each known placeholder with
// the row's value for that column; placeholders that do not match a column
// are left in the output untouched so the user can spot them in the draft.
//
// A combined template stores subject and body in a single string joined by
// the "\n---\n" separator. Split and Join convert between the combined wire
// format and the (subject, body) pair.
package template
