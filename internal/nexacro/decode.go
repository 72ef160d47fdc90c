package nexacro

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	// ErrMalformedXML is matched by every DecodeError
	ErrMalformedXML = errors.New("malformed XML document")

	errNoRootElement     = errors.New("document has no root element")
	errMultipleRoots     = errors.New("document has more than one root element")
	errTextOutsideOfRoot = errors.New("document has text outside of its root element")
)

// DecodeError is returned whenever a response body is not a well-formed XML document
type DecodeError struct {
	Cause error
}

func (err *DecodeError) Error() string {
	return "nexacro: " + ErrMalformedXML.Error() + ": " + err.Cause.Error()
}

// Is reports whether target is ErrMalformedXML
func (err *DecodeError) Is(target error) bool {
	return target == ErrMalformedXML
}

func (err *DecodeError) Unwrap() error {
	return err.Cause
}

// Decode parses a Nexacro response document
func Decode(body []byte) (*Response, error) {
	return DecodeReader(bytes.NewReader(body))
}

// DecodeReader parses a Nexacro response document read from r.
// Namespace prefixes are ignored for every element, so 'ns:Row' and 'Row' are treated alike.
// A well-formed document without any dataset structure yields an empty response.
func DecodeReader(r io.Reader) (*Response, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	res := &Response{
		Parameters: NewParameters(),
		Datasets:   []*Dataset{},
	}

	var (
		stack        []string
		sawRoot      bool
		dataset      *Dataset
		datasetDepth int
		row          Row
		rowDepth     int
		field        *textField
		param        *textField
	)

	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DecodeError{Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if sawRoot && len(stack) == 0 {
				return nil, &DecodeError{Cause: errMultipleRoots}
			}
			name := t.Name.Local
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, name)
			depth := len(stack)
			sawRoot = true

			switch {
			case name == "Dataset" && dataset == nil:
				id, _ := attr(t, "id")
				dataset = &Dataset{ID: id, Rows: Rows{}}
				datasetDepth = depth
				res.Datasets = append(res.Datasets, dataset)
			case name == "Row" && parent == "Rows" && dataset != nil && depth == datasetDepth+2:
				row = Row{}
				rowDepth = depth
			case name == "Col" && parent == "Row" && row != nil && depth == rowDepth+1:
				id, ok := attr(t, "id")
				field = &textField{id: id, hasID: ok, depth: depth}
			case name == "Parameter" && parent == "Parameters" && depth == 3:
				id, ok := attr(t, "id")
				param = &textField{id: id, hasID: ok, depth: depth}
			}

		case xml.CharData:
			depth := len(stack)
			if depth == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, &DecodeError{Cause: errTextOutsideOfRoot}
				}
				continue
			}
			if field != nil && depth == field.depth {
				field.text.Write(t)
			} else if param != nil && depth == param.depth {
				param.text.Write(t)
			}

		case xml.EndElement:
			depth := len(stack)
			if depth > 0 {
				stack = stack[:depth-1]
			}

			switch {
			case field != nil && depth == field.depth:
				if field.hasID {
					row[field.id] = field.text.String()
				}
				field = nil
			case param != nil && depth == param.depth:
				if param.hasID {
					res.Parameters.Set(param.id, param.text.String())
				}
				param = nil
			case row != nil && depth == rowDepth:
				dataset.Rows = append(dataset.Rows, row)
				row = nil
			case dataset != nil && depth == datasetDepth:
				dataset = nil
			}
		}
	}

	if !sawRoot {
		return nil, &DecodeError{Cause: errNoRootElement}
	}
	return res, nil
}

type textField struct {
	id    string
	hasID bool
	depth int
	text  strings.Builder
}

func attr(elem xml.StartElement, name string) (string, bool) {
	for _, a := range elem.Attr {
		if a.Name.Local == name && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}
