package nexacro

import (
	"bytes"
	"encoding/xml"
	"io"
)

// Namespace is the XML namespace of Nexacro platform dataset documents
const Namespace = "http://www.nexacroplatform.com/platform/dataset"

// ContentType is the content type the portal expects for dataset requests
const ContentType = "text/xml"

// Encode serializes a parameter set into a Nexacro request document.
// Parameters are written in insertion order; keys and values are XML-escaped.
func Encode(params *Parameters) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer never fail
	_ = WriteParameters(&buf, params)
	return buf.Bytes()
}

// WriteParameters writes the Nexacro request document for the given parameter set to w
func WriteParameters(w io.Writer, params *Parameters) error {
	ew := &errWriter{w: w}
	ew.writeString(xml.Header)
	ew.writeString(`<Root xmlns="` + Namespace + `">`)
	ew.writeString("<Parameters>")
	params.Each(func(key, value string) {
		ew.writeString(`<Parameter id="`)
		ew.escape(key)
		ew.writeString(`">`)
		ew.escape(value)
		ew.writeString("</Parameter>")
	})
	ew.writeString("</Parameters>")
	ew.writeString("</Root>")
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) writeString(str string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, str)
}

func (ew *errWriter) escape(str string) {
	if ew.err != nil {
		return
	}
	ew.err = xml.EscapeText(ew.w, []byte(str))
}
