package mantle

// Package mantle maps between generic external trees (decoded JSON or YAML)
// and typed models:
//
// - ModelType declares a property catalog, a key-path map, per-property
//   transformers and validation and merge hooks (built with Type(...).Build())
// - Adapter decodes trees into Models and encodes Models back into trees
// - Class-cluster bases pick a concrete type per input (Resolve / Discriminator)
// - A stable error model via Issues (JSON Pointer, code, property, message)
//
// Design policy:
// - Keep the public API in the root package; predefined transformers live
//   under transform/, JSON and YAML plumbing under wire/, Prometheus counters
//   under metrics/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  user := mantle.Type("User").
//      Property("name").
//      Property("age").
//      KeyPath("name", "profile.name").
//      KeyPath("age", "profile.age").
//      Transform("age", transform.Integer()).
//      Mandatory("name").
//      MustBuild()
//
//  tree, err := wire.DecodeJSON(data)
//  d, err := mantle.MustNewAdapter(user).Decode(ctx, tree)
//  out, err := mantle.Encode(ctx, d.Model)
//
