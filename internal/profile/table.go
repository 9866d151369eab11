// Package profile loads the gn args library and resolves it into the
// argument string for one build target.
//
// The args library is a JSON document whose top-level keys are scopes
// ("common", an OS name, an architecture, a build type) and whose values are
// flat objects of gn flags. Key order is significant: resolved arguments are
// emitted in the order they first appear.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("part", "profile")

// CommonScope is merged first for every target and must be present.
const CommonScope = "common"

// Table is the parsed args library.
type Table struct {
	names  []string
	scopes map[string]*Scope
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{scopes: make(map[string]*Scope)}
}

// Add registers scope under name, replacing any previous scope of that name.
func (t *Table) Add(name string, scope *Scope) {
	if _, ok := t.scopes[name]; !ok {
		t.names = append(t.names, name)
	}
	t.scopes[name] = scope
}

// Scope returns the scope registered under name.
func (t *Table) Scope(name string) (*Scope, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t.scopes[name]
	return s, ok
}

// Names returns the scope names in file order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Literal is a scalar from the args library that is neither a string nor a
// boolean. It is kept so resolution can report it by key.
type Literal struct {
	Kind string
	Text string
}

func (l Literal) String() string {
	return l.Text
}

// Load reads and parses the args library at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigurationError{Reason: ReasonLoad, Message: fmt.Sprintf("args library %s not found", path), Err: err}
		}
		return nil, &ConfigurationError{Reason: ReasonLoad, Message: fmt.Sprintf("reading args library %s", path), Err: err}
	}
	table, err := Parse(data)
	if err != nil {
		var cerr *ConfigurationError
		if errors.As(err, &cerr) {
			cerr.Message = path + ": " + cerr.Message
		}
		return nil, err
	}
	log.Debugf("loaded %d scopes from %s", len(table.names), path)
	return table, nil
}

// Parse decodes an args library document. The document must be strict JSON;
// it is walked token by token so scope and key order survive.
func Parse(data []byte) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, configErrorf(ReasonMalformed, "args library is empty")
	}
	if !json.Valid(data) {
		var doc any
		err := json.Unmarshal(data, &doc)
		return nil, &ConfigurationError{Reason: ReasonMalformed, Message: "cannot decode args library", Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if !expectDelim(dec, '{') {
		return nil, configErrorf(ReasonMalformed, "args library must be an object of scopes")
	}

	table := NewTable()
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		if !expectDelim(dec, '{') {
			cerr := configErrorf(ReasonMalformed, "scope %q must be an object of flags", name)
			cerr.Scope = name
			return nil, cerr
		}
		scope := NewScope()
		for dec.More() {
			key, err := objectKey(dec)
			if err != nil {
				return nil, err
			}
			value, cerr := scalarValue(dec)
			if cerr != nil {
				cerr.Scope, cerr.Key = name, key
				cerr.Message = fmt.Sprintf("scope %q key %q: %s", name, key, cerr.Message)
				return nil, cerr
			}
			scope.Set(key, value)
		}
		if !expectDelim(dec, '}') {
			return nil, configErrorf(ReasonMalformed, "scope %q is not closed", name)
		}
		table.Add(name, scope)
	}
	return table, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) bool {
	tok, err := dec.Token()
	if err != nil {
		return false
	}
	d, ok := tok.(json.Delim)
	return ok && d == want
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", &ConfigurationError{Reason: ReasonMalformed, Message: "cannot decode args library", Err: err}
	}
	key, ok := tok.(string)
	if !ok {
		return "", configErrorf(ReasonMalformed, "unexpected %v where a key was expected", tok)
	}
	return key, nil
}

func scalarValue(dec *json.Decoder) (any, *ConfigurationError) {
	tok, err := dec.Token()
	if err != nil {
		return nil, &ConfigurationError{Reason: ReasonMalformed, Message: "cannot decode value", Err: err}
	}
	switch v := tok.(type) {
	case string:
		return v, nil
	case bool:
		return v, nil
	case json.Number:
		kind := "int"
		if strings.ContainsAny(v.String(), ".eE") {
			kind = "float"
		}
		return Literal{Kind: kind, Text: v.String()}, nil
	case nil:
		return Literal{Kind: "null", Text: "null"}, nil
	default:
		return nil, configErrorf(ReasonMalformed, "nested values are not supported")
	}
}
