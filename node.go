// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"context"
	"fmt"
)

// RootPath is the top-level segment of every data path
const RootPath = "controller"

// Node is a potential resource location in the controller's data tree
//
// A Node is a path plus the Executor that will serve it. Building a Node
// never performs I/O: Attr, Index, Filter and Match return new Nodes and
// leave the receiver untouched. Only the terminal verbs (Get, Value, Post,
// Put, Patch, Delete, Schema) issue requests.
//
// Example:
//
//	iface := client.Root().
//	    Attr("core").
//	    Attr("switch_config").
//	    Attr("interface")
//	// iface.Path() == "controller/core/switch-config/interface"
type Node struct {
	path string
	exec Executor
}

// NewNode creates a Node for path served by exec
func NewNode(path string, exec Executor) Node {
	return Node{path: path, exec: exec}
}

// Path returns the node's path
func (n Node) Path() string {
	return n.path
}

// String implements fmt.Stringer
func (n Node) String() string {
	return n.path
}

// Attr returns the child node for name
//
// Underscores in name are converted to dashes.
func (n Node) Attr(name string) Node {
	return Node{path: n.path + "/" + NormalizeKey(name), exec: n.exec}
}

// Index returns the child node for name
//
// Index is the subscript form of Attr and normalizes name the same way. It
// exists for names that are computed at runtime.
func (n Node) Index(name string) Node {
	return n.Attr(name)
}

// Filter returns a node narrowed by a predicate built from template
//
// References of the form $name or ${name} are replaced with the Literal
// rendering of values[name]; "$$" produces a literal dollar sign. The
// predicate is wrapped in brackets and appended directly to the path.
//
// Returns a *TemplateError if template references a name missing from
// values or contains a malformed placeholder such as "${x" or "$ ". No
// request is made.
//
// Example:
//
//	sw, err := switches.Filter("dpid=$dpid", map[string]any{"dpid": "00:00:00:00:00:00:00:01"})
//	// controller/core/switch[dpid="00:00:00:00:00:00:00:01"]
func (n Node) Filter(template string, values map[string]any) (Node, error) {
	predicate, err := expandTemplate(template, values)
	if err != nil {
		return Node{}, err
	}
	return Node{path: n.path + "[" + predicate + "]", exec: n.exec}, nil
}

// Match returns a node narrowed by key=value equality predicates
//
// Arguments are alternating keys and values. Each pair is applied in order
// as a separate predicate on the node produced by the previous pair, so the
// predicates combine with AND. Keys are normalized to dash spelling.
//
// Example:
//
//	node, err := switches.Match("name", "leaf1", "fabric_role", "leaf")
//	// controller/core/switch[name="leaf1"][fabric-role="leaf"]
func (n Node) Match(keysAndValues ...any) (Node, error) {
	if len(keysAndValues)%2 != 0 {
		return Node{}, &TemplateError{
			Template: fmt.Sprint(keysAndValues...),
			Reason:   "odd number of match arguments",
		}
	}
	result := n
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok || key == "" {
			return Node{}, &TemplateError{
				Template: fmt.Sprint(keysAndValues[i]),
				Reason:   fmt.Sprintf("match key at index %d must be a non-empty string", i),
			}
		}
		var err error
		result, err = result.Filter(NormalizeKey(key)+"=$x", map[string]any{"x": keysAndValues[i+1]})
		if err != nil {
			return Node{}, err
		}
	}
	return result, nil
}

// Scope calls fn with the node and returns its error
//
// There is nothing to acquire or release; Scope only gives a long chain a
// short name inside a block.
//
// Example:
//
//	err := root.Attr("core").Attr("switch").Scope(func(sw bigdb.Node) error {
//	    _, err := sw.Get(ctx)
//	    return err
//	})
func (n Node) Scope(fn func(Node) error) error {
	return fn(n)
}

// Get retrieves the data at the node's path
func (n Node) Get(ctx context.Context, mods ...func(*Req)) (Res, error) {
	if err := n.check(); err != nil {
		return Res{}, err
	}
	return n.exec.Get(ctx, n.path, mods...)
}

// Value retrieves the data at the node's path and returns the decoded value
//
// The result is an *AttrMap, a []any or a scalar.
func (n Node) Value(ctx context.Context, mods ...func(*Req)) (any, error) {
	res, err := n.Get(ctx, mods...)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Post sends data to the node's path with POST
func (n Node) Post(ctx context.Context, data any, mods ...func(*Req)) (Res, error) {
	if err := n.check(); err != nil {
		return Res{}, err
	}
	return n.exec.Post(ctx, n.path, data, mods...)
}

// Put sends data to the node's path with PUT
func (n Node) Put(ctx context.Context, data any, mods ...func(*Req)) (Res, error) {
	if err := n.check(); err != nil {
		return Res{}, err
	}
	return n.exec.Put(ctx, n.path, data, mods...)
}

// Patch sends data to the node's path with PATCH
func (n Node) Patch(ctx context.Context, data any, mods ...func(*Req)) (Res, error) {
	if err := n.check(); err != nil {
		return Res{}, err
	}
	return n.exec.Patch(ctx, n.path, data, mods...)
}

// Delete removes the data at the node's path
func (n Node) Delete(ctx context.Context, mods ...func(*Req)) (Res, error) {
	if err := n.check(); err != nil {
		return Res{}, err
	}
	return n.exec.Delete(ctx, n.path, mods...)
}

// Schema retrieves the schema tree rooted at the node's path
func (n Node) Schema(ctx context.Context, mods ...func(*Req)) (*AttrMap, error) {
	if err := n.check(); err != nil {
		return nil, err
	}
	return n.exec.Schema(ctx, n.path, mods...)
}

func (n Node) check() error {
	if n.exec == nil {
		return fmt.Errorf("bigdb: node %q has no executor", n.path)
	}
	return nil
}
