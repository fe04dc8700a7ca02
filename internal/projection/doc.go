// Package projection turns a sparse set of caller-supplied parameters into a
// request object.
//
// The package has three pieces:
//   - ParameterSet: ordered parameters, each remembering whether the caller
//     bound it explicitly.
//   - Field and Node: a flat field catalog and the tree it describes, where each
//     field carries the dotted path of its request member.
//   - Project and Request: a tree walk that writes only bound leaves into a JSON
//     document and decodes it into the typed request.
//
// Interior structures never appear in the output unless a leaf below them was
// bound, so an update request that sets nothing under SourceParameters carries
// no SourceParameters member at all.
package projection
