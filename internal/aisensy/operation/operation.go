// Package operation describes upstream endpoints declaratively and runs them.
//
// Each endpoint is an Operation: a method, a path template and a list of
// Params saying where every argument goes. A Runner validates arguments,
// builds an apiclient.Request and sends it; Tool exposes an Operation to the
// tool registry.
package operation

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// In says where a parameter is placed in the request.
type In string

const (
	InBody  In = "body"
	InPath  In = "path"
	InQuery In = "query"
	InForm  In = "form" // multipart text field
	InFile  In = "file" // local file path uploaded as the multipart file part
)

// Type is the JSON type of a parameter.
type Type string

const (
	String  Type = "string"
	Integer Type = "integer"
	Number  Type = "number"
	Boolean Type = "boolean"
	Array   Type = "array"
	Object  Type = "object"
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Type        Type
	Description string
	Required    bool
	In          In     // defaults to InBody
	Key         string // wire name, dotted for nested body keys; defaults to Name
	Default     any    // sent when the argument is absent
	Items       Type   // element type for arrays
	Enum        []string
}

func (p Param) in() In {
	if p.In == "" {
		return InBody
	}
	return p.In
}

func (p Param) key() string {
	if p.Key != "" {
		return p.Key
	}
	if p.in() == InFile {
		return "file"
	}
	return p.Name
}

// Operation is one upstream endpoint exposed as a tool.
type Operation struct {
	Name        string
	Description string
	Category    string
	Tags        []string

	Method string
	// Path is relative to the credential base URL. Placeholders are
	// {partner_id} and {business_id} from the credential, or {<param>} for
	// InPath parameters.
	Path string

	Params []Param
	// AtLeastOne lists parameter names of which at least one must be supplied.
	AtLeastOne []string
}

// CredentialIDs are the path placeholders filled from the credential.
var CredentialIDs = []string{"partner_id", "business_id"}

var placeholderRE = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

func (op Operation) placeholders() []string {
	var names []string
	for _, m := range placeholderRE.FindAllStringSubmatch(op.Path, -1) {
		names = append(names, m[1])
	}
	return names
}

// Param returns the parameter with the given name.
func (op Operation) Param(name string) (Param, bool) {
	for _, p := range op.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (op Operation) multipart() bool {
	for _, p := range op.Params {
		if in := p.in(); in == InForm || in == InFile {
			return true
		}
	}
	return false
}

// Validate checks that the descriptor is internally consistent.
func (op Operation) Validate() error {
	if op.Name == "" {
		return fmt.Errorf("operation: empty name")
	}
	switch op.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return fmt.Errorf("operation %s: unsupported method %q", op.Name, op.Method)
	}
	if !strings.HasPrefix(op.Path, "/") {
		return fmt.Errorf("operation %s: path %q must start with /", op.Name, op.Path)
	}

	seen := map[string]bool{}
	files := 0
	for _, p := range op.Params {
		if p.Name == "" {
			return fmt.Errorf("operation %s: parameter with empty name", op.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("operation %s: duplicate parameter %s", op.Name, p.Name)
		}
		seen[p.Name] = true
		switch p.Type {
		case String, Integer, Number, Boolean, Array, Object:
		default:
			return fmt.Errorf("operation %s: parameter %s has unknown type %q", op.Name, p.Name, p.Type)
		}
		switch p.in() {
		case InBody, InQuery, InForm:
		case InPath:
			if !p.Required {
				return fmt.Errorf("operation %s: path parameter %s must be required", op.Name, p.Name)
			}
			if !strings.Contains(op.Path, "{"+p.Name+"}") {
				return fmt.Errorf("operation %s: path parameter %s not in %s", op.Name, p.Name, op.Path)
			}
		case InFile:
			files++
		default:
			return fmt.Errorf("operation %s: parameter %s has unknown location %q", op.Name, p.Name, p.In)
		}
	}
	if files > 1 {
		return fmt.Errorf("operation %s: at most one file parameter", op.Name)
	}

	for _, name := range op.placeholders() {
		if p, ok := op.Param(name); ok && p.in() == InPath {
			continue
		}
		if !isCredentialID(name) {
			return fmt.Errorf("operation %s: placeholder {%s} has no source", op.Name, name)
		}
	}
	for _, name := range op.AtLeastOne {
		if !seen[name] {
			return fmt.Errorf("operation %s: at-least-one field %s is not a parameter", op.Name, name)
		}
	}
	return nil
}

func isCredentialID(name string) bool {
	for _, id := range CredentialIDs {
		if id == name {
			return true
		}
	}
	return false
}
