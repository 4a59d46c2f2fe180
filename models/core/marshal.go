package core

import (
	"encoding/xml"
	"strings"
)

// marshalIndented marshals v to XML, indenting each nested level by indent
// spaces. indent <= 0 produces unindented output. Every outbound protocol
// message's CreateXMLDocument delegates here so the indentation behavior
// is one code path.
func marshalIndented(v interface{}, indent int) ([]byte, error) {
	if indent <= 0 {
		return xml.Marshal(v)
	}

	var buf strings.Builder
	enc := xml.NewEncoder(&buf)
	enc.Indent("", strings.Repeat(" ", indent))
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
