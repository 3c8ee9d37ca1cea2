/*
Package schema declares the expected shape of a world's Vars blackboard.

A Schema maps a Vars key to a Type. Scenario files declare one under `schema:`
using type names:

	schema:
	  clicks: int
	  screen: string
	  tags: "[string]"

Validate reports every missing or mistyped key at once, in key order. Numbers
decoded from JSON or YAML as float64 are accepted as int when they are whole.
*/
package schema
