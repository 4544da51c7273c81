// Package transform provides predefined value transformers and a named
// registry for them.
//
// Apart from ValueMapping, every transformer passes nil through unchanged in
// both directions, so an explicit null in the tree decodes to the property
// default. Failures are reported as mantle.Issues with code invalid_input.
//
// Example:
//
//	t := mantle.Type("Item").
//		Property("count", mantle.DefaultValue(int64(1))).
//		Transform("count", transform.Integer()).
//		MustBuild()
package transform
