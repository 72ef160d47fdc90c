package nexacro

import (
	"fmt"
	"strconv"
	"strings"
)

// Response represents a decoded Nexacro response document
type Response struct {
	// Parameters holds the root-level parameters (i.e. 'ErrorCode' and 'ErrorMsg')
	Parameters *Parameters

	// Datasets holds every dataset in document order
	Datasets []*Dataset
}

// Dataset represents a single named dataset of a response
type Dataset struct {
	ID   string
	Rows Rows
}

// Dataset returns the first dataset with the given ID or nil if there is none
func (res *Response) Dataset(id string) *Dataset {
	for _, dataset := range res.Datasets {
		if dataset.ID == id {
			return dataset
		}
	}
	return nil
}

// Rows returns the rows of all datasets concatenated in document order
func (res *Response) Rows() Rows {
	return SelectAll(res)
}

// ServerError represents a negative 'ErrorCode' reported by the portal inside an otherwise successful response
type ServerError struct {
	Code    int
	Message string
}

func (err *ServerError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("portal reported error code %d", err.Code)
	}
	return fmt.Sprintf("portal reported error code %d: %s", err.Code, err.Message)
}

// Err returns a *ServerError if the response carries a negative 'ErrorCode' parameter and nil otherwise
func (res *Response) Err() error {
	raw, ok := res.Parameters.Get("ErrorCode")
	if !ok {
		return nil
	}
	code, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || code >= 0 {
		return nil
	}
	msg, _ := res.Parameters.Get("ErrorMsg")
	return &ServerError{
		Code:    code,
		Message: msg,
	}
}

// Selector picks the rows a caller is interested in out of a decoded response
type Selector func(res *Response) Rows

// SelectAll concatenates the rows of all datasets in document order
func SelectAll(res *Response) Rows {
	rows := Rows{}
	for _, dataset := range res.Datasets {
		rows = append(rows, dataset.Rows...)
	}
	return rows
}

// SelectLast returns the rows of the last dataset only
func SelectLast(res *Response) Rows {
	if len(res.Datasets) == 0 {
		return Rows{}
	}
	return res.Datasets[len(res.Datasets)-1].Rows
}

// SelectDataset returns a selector picking the rows of the dataset with the given ID
func SelectDataset(id string) Selector {
	return func(res *Response) Rows {
		dataset := res.Dataset(id)
		if dataset == nil {
			return Rows{}
		}
		return dataset.Rows
	}
}
