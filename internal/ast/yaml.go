package ast

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"pyfront/internal/token"
)

// EncodeYAML writes node as a YAML document. Every node becomes a mapping
// whose "node" key names its type; fields holding their zero value are left
// out, except literal values.
func EncodeYAML(w io.Writer, node Node) error {
	doc := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{yamlValue(reflect.ValueOf(node))},
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

var (
	positionType = reflect.TypeOf(token.Position{})
	kindType     = reflect.TypeOf(token.Kind(0))
)

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlValue(v reflect.Value) *yaml.Node {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return scalar("!!null", "null")
		}
		return yamlValue(v.Elem())
	}

	switch v.Type() {
	case positionType:
		return scalar("!!str", v.Interface().(token.Position).String())
	case kindType:
		return scalar("!!str", v.Interface().(token.Kind).String())
	}

	switch v.Kind() {
	case reflect.Struct:
		m := &yaml.Node{Kind: yaml.MappingNode}
		m.Content = append(m.Content, scalar("!!str", "node"), scalar("!!str", v.Type().Name()))
		yamlFields(m, v)
		return m
	case reflect.Slice:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i := 0; i < v.Len(); i++ {
			seq.Content = append(seq.Content, yamlValue(v.Index(i)))
		}
		return seq
	case reflect.String:
		return scalar("!!str", v.String())
	case reflect.Bool:
		return scalar("!!bool", strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int64:
		return scalar("!!int", strconv.FormatInt(v.Int(), 10))
	case reflect.Float64:
		return scalar("!!float", strconv.FormatFloat(v.Float(), 'g', -1, 64))
	}
	return scalar("!!str", fmt.Sprint(v.Interface()))
}

func yamlFields(m *yaml.Node, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f, fv := t.Field(i), v.Field(i)
		if f.Anonymous {
			// ExprBase
			yamlFields(m, fv)
			continue
		}
		if fv.IsZero() && !(f.Name == "Value" && isBasic(fv.Kind())) {
			continue
		}
		key := strings.ToLower(f.Name[:1]) + f.Name[1:]
		m.Content = append(m.Content, scalar("!!str", key), yamlValue(fv))
	}
}

func isBasic(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String, reflect.Int, reflect.Int64, reflect.Float64:
		return true
	}
	return false
}
