package promptcraft

import (
	"maps"
	"slices"
	"strings"
)

// SchemaReport lists what CheckJSONSchema found. Problems make a schema
// unusable for structured output; Hints do not.
type SchemaReport struct {
	Problems []string `json:"problems,omitempty"`
	Hints    []string `json:"hints,omitempty"`
}

// OK reports whether the schema has no problems.
func (r SchemaReport) OK() bool {
	return len(r.Problems) == 0
}

// CheckJSONSchema inspects the subset of JSON schema that OutputSchema
// produces: typed nodes, object properties and required lists, array items.
// Every entry is prefixed with the dotted path of the offending node.
func CheckJSONSchema(schema map[string]any) SchemaReport {
	var c schemaChecker
	if schema != nil {
		c.node(schema, nil)
	}
	return c.report
}

type schemaChecker struct {
	report SchemaReport
}

func (c *schemaChecker) problem(path []string, msg string) {
	c.report.Problems = append(c.report.Problems, located(path, msg))
}

func (c *schemaChecker) hint(path []string, msg string) {
	c.report.Hints = append(c.report.Hints, located(path, msg))
}

func located(path []string, msg string) string {
	if len(path) == 0 {
		return msg
	}
	return strings.Join(path, ".") + ": " + msg
}

func (c *schemaChecker) node(n map[string]any, path []string) {
	raw, present := n[SchemaKeyType]
	if !present {
		c.problem(path, ErrMsgSchemaMissingType)
		return
	}
	typ, isString := raw.(string)
	if !isString {
		c.problem(path, ErrMsgSchemaInvalidType)
		return
	}

	switch typ {
	case SchemaTypeObject:
		c.object(n, path)
	case SchemaTypeArray:
		if items, ok := n[SchemaKeyItems].(map[string]any); ok {
			c.node(items, append(slices.Clip(path), SchemaKeyItems))
		}
	case SchemaTypeString, SchemaTypeNumber, SchemaTypeInteger, SchemaTypeBoolean:
	default:
		c.problem(path, ErrMsgSchemaUnknownType+": "+typ)
	}
}

func (c *schemaChecker) object(n map[string]any, path []string) {
	raw, present := n[SchemaKeyProperties]
	if !present {
		c.problem(path, ErrMsgSchemaMissingProps)
		return
	}
	props, isMap := raw.(map[string]any)
	switch {
	case !isMap:
		c.problem(path, ErrMsgSchemaInvalidProps)
		return
	case len(props) == 0:
		c.problem(path, ErrMsgSchemaMissingProps)
	}

	if _, set := n[SchemaKeyAdditionalProperties]; !set {
		c.hint(path, ErrMsgSchemaNoAdditional)
	}

	if raw, set := n[SchemaKeyRequired]; set {
		names, wellFormed := stringList(raw)
		if !wellFormed {
			c.problem(path, ErrMsgSchemaInvalidReq)
		}
		for _, name := range names {
			if _, declared := props[name]; !declared {
				c.problem(path, ErrMsgSchemaUnknownReq+": "+name)
			}
		}
	}

	// sorted so reports are stable
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if child, ok := props[name].(map[string]any); ok {
			c.node(child, append(slices.Clip(path), name))
		}
	}
}

// stringList accepts []string as well as the []any JSON decoding yields.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return out, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// StrictJSONSchema returns a deep copy of schema where every object node sets
// additionalProperties to false, as strict structured-output modes demand.
func StrictJSONSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	out := deepCopy(schema).(map[string]any)
	forEachObject(out, func(obj map[string]any) {
		obj[SchemaKeyAdditionalProperties] = false
	})
	return out
}

// forEachObject calls fn for every object node reachable through properties and items.
func forEachObject(n map[string]any, fn func(map[string]any)) {
	if n[SchemaKeyType] == SchemaTypeObject {
		fn(n)
	}
	if props, ok := n[SchemaKeyProperties].(map[string]any); ok {
		for _, child := range props {
			if m, ok := child.(map[string]any); ok {
				forEachObject(m, fn)
			}
		}
	}
	if items, ok := n[SchemaKeyItems].(map[string]any); ok {
		forEachObject(items, fn)
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, child := range t {
			m[k] = deepCopy(child)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, child := range t {
			s[i] = deepCopy(child)
		}
		return s
	case []string:
		return slices.Clone(t)
	}
	return v
}
