// Package scenario runs YAML-described to-do flows against a Driver and records a trace.
//
// A scenario has three phases: setup steps establish the list, flow steps exercise the
// behaviour under test, and assertions check the final page:
//
//	name: complete_then_filter
//	description: completed filter shows only the toggled item
//	setup:
//	  - add: A
//	  - add: B
//	flow:
//	  - toggle: 0
//	  - filter: completed
//	  - expect_count: 1
//	assertions:
//	  - type: item_contains
//	    index: 0
//	    text: A
//
// *harness.Session implements Driver; tests use an in-memory driver and compare traces with
// golden files under testdata/golden.
package scenario
