package library

import "strings"

// EncodeRecord renders fields as one comma-delimited line. A field is
// wrapped in double quotes, with inner quotes doubled, only when it contains
// a comma or a quote. Fields with embedded line breaks are rejected: the
// store is line-oriented and a raw newline would corrupt line counting.
func EncodeRecord(fields []string) (string, error) {
	var sb strings.Builder
	for i, f := range fields {
		if strings.ContainsAny(f, "\n\r") {
			return "", &FormatError{Msg: "field contains a line break"}
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		if strings.ContainsAny(f, ",\"") {
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
			sb.WriteByte('"')
		} else {
			sb.WriteString(f)
		}
	}
	return sb.String(), nil
}

// DecodeRecord splits one line into its fields. Outside quotes a comma ends
// the current field; inside quotes a doubled quote decodes to one literal
// quote and any other quote closes the quoted run. An unterminated quote
// runs to the end of the line, which is not an error.
func DecodeRecord(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cur.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				cur.WriteByte(c)
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case ',':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
