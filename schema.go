// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/tidwall/pretty"
)

// Schema node types
const (
	NodeTypeContainer   = "CONTAINER"
	NodeTypeList        = "LIST"
	NodeTypeListElement = "LIST_ELEMENT"
	NodeTypeLeaf        = "LEAF"
	NodeTypeLeafList    = "LEAF_LIST"
)

// Leaf types with structured rendering
const (
	LeafTypeEnumeration = "ENUMERATION"
	LeafTypeUnion       = "UNION"

	enumerationValidator = "ENUMERATION_VALIDATOR"
)

// descriptionWidth is the line width for wrapped descriptions at depth 0
const descriptionWidth = 70

// SchemaRenderer prints a schema tree as an indented listing
//
// Each level of nesting indents by two spaces. Containers print their name;
// lists print "name (list)" followed by the fields of their element at one
// level deeper; leaves print "name : type".
//
// Example output:
//
//	controller/core
//	  switch (list)
//	    name : string
//	    fabric-role : enum { leaf, spine }
//	    interface-name : list of string
//
// Example:
//
//	r := bigdb.NewSchemaRenderer(os.Stdout, bigdb.MaxDepth(1))
//	if err := r.Render(schema, "controller/core"); err != nil {
//	    log.Fatal(err)
//	}
type SchemaRenderer struct {
	out      io.Writer
	maxDepth int
	verbose  bool

	nameColor *color.Color
	typeColor *color.Color
	noteColor *color.Color
	colorize  bool
}

// NewSchemaRenderer creates a renderer writing to w
func NewSchemaRenderer(w io.Writer, opts ...func(*SchemaRenderer)) *SchemaRenderer {
	r := &SchemaRenderer{
		out:       w,
		maxDepth:  -1,
		nameColor: color.New(color.Bold),
		typeColor: color.New(color.FgCyan),
		noteColor: color.New(color.FgHiBlack),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.colorize {
		r.nameColor.EnableColor()
		r.typeColor.EnableColor()
		r.noteColor.EnableColor()
	} else {
		r.nameColor.DisableColor()
		r.typeColor.DisableColor()
		r.noteColor.DisableColor()
	}
	return r
}

// MaxDepth limits rendering to nodes at depth <= depth (the root is depth 0)
//
// A negative depth means no limit (the default).
func MaxDepth(depth int) func(*SchemaRenderer) {
	return func(r *SchemaRenderer) {
		r.maxDepth = depth
	}
}

// Verbose adds descriptions and "(config)" annotations (default: false)
func Verbose(enabled bool) func(*SchemaRenderer) {
	return func(r *SchemaRenderer) {
		r.verbose = enabled
	}
}

// Colorize enables ANSI colors in the output (default: false)
func Colorize(enabled bool) func(*SchemaRenderer) {
	return func(r *SchemaRenderer) {
		r.colorize = enabled
	}
}

// Render writes the listing for node, printed under name
//
// Returns *SchemaVocabularyError if any reached node has an unknown
// nodeType. Output written before the error is left in place.
func (r *SchemaRenderer) Render(node *AttrMap, name string) error {
	w := bufio.NewWriter(r.out)
	err := r.traverse(w, node, 0, name)
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	return err
}

// RenderRaw writes node as indented JSON
func (r *SchemaRenderer) RenderRaw(node *AttrMap) error {
	data, err := node.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	out := pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: "    "})
	if r.colorize {
		out = pretty.Color(out, nil)
	}
	_, err = r.out.Write(out)
	return err
}

// traverse renders node at depth and recurses into its children
func (r *SchemaRenderer) traverse(w io.Writer, node *AttrMap, depth int, name string) error {
	if r.maxDepth >= 0 && depth > r.maxDepth {
		return nil
	}

	var description []string
	if r.verbose && node.Has("description") {
		description = wrapDescription(node.String("description"), depth)
	}

	config := ""
	if r.verbose && isConfig(node) {
		config = r.noteColor.Sprint("(config)")
	}

	nodeType := node.String("nodeType")
	switch nodeType {
	case NodeTypeContainer, NodeTypeListElement:
		if nodeType == NodeTypeContainer {
			writeLine(w, depth, description, r.nameColor.Sprint(name))
		}
		children := node.Map("childNodes")
		var err error
		children.Range(func(childName string, value any) bool {
			child, ok := value.(*AttrMap)
			if !ok {
				err = fmt.Errorf("bigdb: schema child %q of %q is not an object", childName, name)
				return false
			}
			err = r.traverse(w, child, depth+1, childName)
			return err == nil
		})
		return err

	case NodeTypeList:
		writeLine(w, depth, description, r.nameColor.Sprint(name), r.noteColor.Sprint("(list)"))
		element := node.Map("listElementSchemaNode")
		if element == nil {
			return fmt.Errorf("bigdb: schema list %q has no listElementSchemaNode", name)
		}
		return r.traverse(w, element, depth, name)

	case NodeTypeLeaf:
		typ, err := PrettyType(node)
		if err != nil {
			return err
		}
		writeLine(w, depth, description, r.nameColor.Sprint(name), ":", r.typeColor.Sprint(typ), config)
		return nil

	case NodeTypeLeafList:
		leaf := node.Map("leafSchemaNode")
		if leaf == nil {
			return fmt.Errorf("bigdb: schema leaf-list %q has no leafSchemaNode", name)
		}
		typ, err := PrettyType(leaf)
		if err != nil {
			return err
		}
		writeLine(w, depth, description, r.nameColor.Sprint(name), ":", "list of", r.typeColor.Sprint(typ), config)
		return nil

	default:
		return &SchemaVocabularyError{NodeType: nodeType, Name: name}
	}
}

// PrettyType renders the type of a leaf schema node
//
// Without a typeSchemaNode the node's own leafType is used, lowercased.
// Enumerations render as "enum { a, b }" from the first
// ENUMERATION_VALIDATOR, unions as "union { t1, t2 }" from the member
// names; any other type is lowercased.
func PrettyType(node *AttrMap) (string, error) {
	t := node.Map("typeSchemaNode")
	if t == nil {
		return strings.ToLower(node.String("leafType")), nil
	}

	switch t.String("leafType") {
	case LeafTypeEnumeration:
		for _, v := range t.List("typeValidator") {
			validator, ok := v.(*AttrMap)
			if !ok || validator.String("type") != enumerationValidator {
				continue
			}
			return "enum { " + strings.Join(stringList(validator.List("names")), ", ") + " }", nil
		}
		return "", fmt.Errorf("bigdb: enumeration type %q has no %s", t.String("name"), enumerationValidator)
	case LeafTypeUnion:
		var names []string
		for _, v := range t.List("typeSchemaNodes") {
			if member, ok := v.(*AttrMap); ok {
				names = append(names, member.String("name"))
			}
		}
		return "union { " + strings.Join(names, ", ") + " }", nil
	default:
		return strings.ToLower(t.String("leafType")), nil
	}
}

// isConfig reports whether "config" is one of the node's dataSources
func isConfig(node *AttrMap) bool {
	for _, source := range node.List("dataSources") {
		if s, ok := source.(string); ok && s == "config" {
			return true
		}
	}
	return false
}

// wrapDescription collapses whitespace and wraps text into comment lines
//
// Lines are at most 70-2*depth columns wide including the
// "<indent>  # " prefix. Words longer than a line are hard-broken.
func wrapDescription(text string, depth int) []string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return nil
	}
	prefix := strings.Repeat(" ", depth*2) + "  # "
	width := descriptionWidth - depth*2 - len(prefix)
	if width < 1 {
		width = 1
	}
	lines := strings.Split(wordwrap.WrapString(breakLongWords(collapsed, width), uint(width)), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return lines
}

// breakLongWords splits words longer than width into width-sized pieces
func breakLongWords(text string, width int) string {
	words := strings.Split(text, " ")
	for i, word := range words {
		runes := []rune(word)
		if len(runes) <= width {
			continue
		}
		pieces := make([]string, 0, len(runes)/width+1)
		for len(runes) > width {
			pieces = append(pieces, string(runes[:width]))
			runes = runes[width:]
		}
		if len(runes) > 0 {
			pieces = append(pieces, string(runes))
		}
		words[i] = strings.Join(pieces, " ")
	}
	return strings.Join(words, " ")
}

// writeLine writes the indented, space-joined non-empty parts followed by
// any description lines
func writeLine(w io.Writer, depth int, description []string, parts ...string) {
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	fmt.Fprintln(w, strings.Repeat(" ", depth*2)+strings.Join(fields, " "))
	for _, line := range description {
		fmt.Fprintln(w, line)
	}
}

// stringList converts a decoded JSON array to strings
func stringList(values []any) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			result = append(result, s)
		} else {
			result = append(result, fmt.Sprint(v))
		}
	}
	return result
}
