// Package property resolves named logical fields on arbitrary records.
//
// A field name such as "created_at" is camelized to the suffix "CreatedAt"
// and the accessors GetCreatedAt, IsCreatedAt and HasCreatedAt are probed in
// that order. The first accessor that exists wins and is invoked with no
// arguments.
//
// Records expose accessors in one of two ways:
//
//   - by implementing MethodSet, returning the accessor for a method name
//   - by having accessors for their concrete type registered in a Registry
//     at startup (see Register)
//
// Key-value records (map[string]any or any Mapping) are checked for direct
// key presence first, including keys whose value is nil, before accessor
// probing. Records implementing Lazy are loaded before anything is probed.
//
// Resolution never mutates the record apart from the idempotent Lazy load.
package property
