// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package bigdb provides a simple, fluent API for the data and schema API of
// a BigDB network controller (a RESTCONF-like JSON API over HTTPS).
//
// The library is built around three pieces: a Client that logs in and
// discovers the controller's management endpoint, a Node that addresses a
// location in the controller's data tree without performing any I/O until a
// terminal verb is called, and AttrMap, the decoded form of every JSON object
// returned by the controller.
//
// # Quick Start
//
//	client, err := bigdb.Connect(ctx, "192.168.1.1",
//	    bigdb.Username("admin"),
//	    bigdb.Password("secret"),
//	    bigdb.VerifyCertificate(false),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	switches := client.Root().Attr("core").Attr("switch")
//	res, err := switches.Get(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.GetValue("0.name").String())
//
// # Paths and Filters
//
// Attribute names are normalized from underscore to dash spelling, so
// Attr("switch_config") and Attr("switch-config") address the same path.
// Filters append a bracketed predicate; substituted values are rendered as
// quoted literals so they cannot terminate the predicate early:
//
//	node, err := switches.Match("name", "leaf1", "fabric_role", "leaf")
//	// controller/core/switch[name="leaf1"][fabric-role="leaf"]
//
//	node, err = switches.Filter("dpid=$dpid", map[string]any{"dpid": dpid})
//
// # Attribute Maps
//
// Decoded objects accept either key spelling:
//
//	sw := res.Value.(*bigdb.AttrMap)
//	role := sw.String("fabric_role") // same slot as "fabric-role"
//
// # Request Bodies
//
// Write verbs accept an AttrMap, any JSON-encodable Go value, or a Body
// built with sjson paths:
//
//	body := bigdb.Body{}.
//	    Set("name", "leaf1").
//	    Set("fabric_role", "leaf")
//	_, err = switches.Post(ctx, body)
//
// # Schema Rendering
//
// SchemaRenderer prints the schema tree returned by Node.Schema as an
// indented listing:
//
//	schema, err := client.Root().Attr("core").Schema(ctx)
//	r := bigdb.NewSchemaRenderer(os.Stdout, bigdb.Verbose(true), bigdb.MaxDepth(2))
//	if err := r.Render(schema, "controller/core"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError (carrying the server's
// description when present), connectivity failures as *TransportError, and
// failed logins as *AuthenticationError. No operation is retried.
//
// # Thread Safety
//
// Client is safe for concurrent use. Node values are immutable. AttrMap is
// not synchronized and must not be mutated from multiple goroutines.
package bigdb
