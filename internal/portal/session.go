package portal

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
)

// Cookie represents a single name-value pair of a portal session
type Cookie struct {
	Name  string
	Value string
}

// Session represents the cookies of an authenticated portal identity.
// A session is only valid if it carries the marker cookie; the portal enforces its expiry on its own.
type Session struct {
	Cookies []Cookie
}

// NewSession creates a session out of a plain cookie map.
// As maps are unordered, the cookies are sorted by name.
func NewSession(cookies map[string]string) *Session {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	ses := &Session{Cookies: make([]Cookie, 0, len(names))}
	for _, name := range names {
		ses.Cookies = append(ses.Cookies, Cookie{Name: name, Value: cookies[name]})
	}
	return ses
}

// Get returns the value of a cookie and whether it is present
func (ses *Session) Get(name string) (string, bool) {
	if ses == nil {
		return "", false
	}
	for _, cookie := range ses.Cookies {
		if cookie.Name == name {
			return cookie.Value, true
		}
	}
	return "", false
}

// Valid checks if the session carries the given marker cookie
func (ses *Session) Valid(marker string) bool {
	_, ok := ses.Get(marker)
	return ok
}

// Map returns the cookies as a plain map
func (ses *Session) Map() map[string]string {
	res := make(map[string]string)
	if ses == nil {
		return res
	}
	for _, cookie := range ses.Cookies {
		res[cookie.Name] = cookie.Value
	}
	return res
}

// MarshalJSON encodes the session as a JSON object mapping cookie names to their values, keeping the cookie order
func (ses *Session) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cookie := range ses.Cookies {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(cookie.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(cookie.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object mapping cookie names to their values.
// The cookies keep the order of the object's keys; a repeated key replaces the earlier value.
func (ses *Session) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	tok, err := decoder.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*ses = Session{Cookies: []Cookie{}}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("portal: session cookies have to be a JSON object")
	}

	res := Session{Cookies: []Cookie{}}
	index := make(map[string]int)
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return errors.New("portal: invalid session cookie name")
		}
		var value string
		if err := decoder.Decode(&value); err != nil {
			return err
		}
		if i, ok := index[name]; ok {
			res.Cookies[i].Value = value
			continue
		}
		index[name] = len(res.Cookies)
		res.Cookies = append(res.Cookies, Cookie{Name: name, Value: value})
	}
	if _, err := decoder.Token(); err != nil {
		return err
	}
	*ses = res
	return nil
}
