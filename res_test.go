// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"fmt"
	"testing"
	"time"
)

// newRes builds a Res the way the client does
func newRes(t *testing.T, status int, raw string) Res {
	t.Helper()
	res := Res{StatusCode: status, Raw: raw}
	if raw != "" {
		v, err := FromJSON([]byte(raw))
		if err != nil {
			t.Fatalf("FromJSON() error = %v", err)
		}
		res.Value = v
	}
	return res
}

// TestResGetValue tests gjson path access
func TestResGetValue(t *testing.T) {
	res := newRes(t, 200, `[
		{"name":"leaf1","fabric-role":"leaf","interface":[{"name":"ethernet1"},{"name":"ethernet2"}]},
		{"name":"spine1","fabric-role":"spine"}
	]`)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"first element", "0.name", "leaf1"},
		{"count", "#", "2"},
		{"all names", "#.name", `["leaf1","spine1"]`},
		{"query", "#(name==spine1).fabric-role", "spine"},
		{"nested", "0.interface.1.name", "ethernet2"},
		{"missing", "5.name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := res.GetValue(tt.path).String(); got != tt.want {
				t.Errorf("GetValue(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if (Res{}).GetValue("0").Exists() {
		t.Error("GetValue on empty body should not exist")
	}
}

// TestResOK tests status classification
func TestResOK(t *testing.T) {
	for _, tt := range []struct {
		status int
		want   bool
	}{
		{200, true}, {201, true}, {204, true}, {299, true},
		{199, false}, {301, false}, {401, false}, {500, false},
	} {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := (Res{StatusCode: tt.status}).OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestResShapes tests Map, List and Maps
func TestResShapes(t *testing.T) {
	obj := newRes(t, 200, `{"name":"leaf1"}`)
	if m, ok := obj.Map(); !ok || m.String("name") != "leaf1" {
		t.Errorf("Map() = %v, %v", m, ok)
	}
	if _, ok := obj.List(); ok {
		t.Error("List() ok for an object body")
	}
	if got := obj.Maps(); len(got) != 0 {
		t.Errorf("Maps() for object = %v", got)
	}

	list := newRes(t, 200, `[{"name":"a"},"skip",{"name":"b"}]`)
	if l, ok := list.List(); !ok || len(l) != 3 {
		t.Errorf("List() = %v, %v", l, ok)
	}
	maps := list.Maps()
	if len(maps) != 2 || maps[0].String("name") != "a" || maps[1].String("name") != "b" {
		t.Errorf("Maps() = %v", maps)
	}

	empty := newRes(t, 204, "")
	if _, ok := empty.Map(); ok {
		t.Error("Map() ok for an empty body")
	}
}

// TestRequestModifiers tests Timeout and Query
func TestRequestModifiers(t *testing.T) {
	req := newReq([]func(*Req){
		Query("select", "name"),
		Query("select", "dpid"),
		Query("config", "true"),
		Timeout(5*time.Second),
		Timeout(7*time.Second),
	})

	if got := req.Params["select"]; len(got) != 2 || got[0] != "name" || got[1] != "dpid" {
		t.Errorf("select params = %v", got)
	}
	if req.Params.Get("config") != "true" {
		t.Errorf("config param = %q", req.Params.Get("config"))
	}
	if req.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want last modifier to win", req.Timeout)
	}

	bare := &Req{}
	Query("a", "b")(bare)
	if bare.Params.Get("a") != "b" {
		t.Error("Query should initialize Params")
	}

	if empty := newReq(nil); empty.Params == nil || len(empty.Params) != 0 || empty.Timeout != 0 {
		t.Errorf("newReq(nil) = %+v", empty)
	}
}
