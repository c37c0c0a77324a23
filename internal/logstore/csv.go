package logstore

import "strings"

// escapeField applies minimal CSV quoting: a field is quoted only when it
// contains a comma, quote, or line break, and embedded quotes are doubled.
// encoding/csv is deliberately not used here; its quoting and strict-parse
// semantics differ from the files already on disk.
func escapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// splitLine splits one CSV line into fields, honoring quoted fields with
// embedded delimiters and doubled-quote escapes.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
