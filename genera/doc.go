// Package genera implements a small generic-dispatch object model with
// validity enforcement. Hosts embed it by registering, in order:
//   - Classes via `DefineClass`: a named, typed attribute schema with at most
//     one parent class and an optional validity predicate.
//   - Generics via `DefineGeneric`: named polymorphic operations with a fixed
//     formal parameter list shared by every implementation.
//   - Methods via `DefineMethod`: one implementation per (generic, class)
//     pair, with the root class ANY acting as the wildcard fallback.
//
// Instances come only from `New`, which checks the effective schema, the
// declared attribute types, and the nearest validity predicate before any
// object exists. `Call` resolves a generic against the receiver's class by
// walking the parent chain and picking the most specific implementation.
//
// A second, deliberately separate class system (`DefineRefClass`, `NewRef`)
// provides pass-by-reference objects whose mutations are visible to every
// holder of the handle. All registration is expected to finish before
// construction and dispatch begin; the registry itself is not synchronized.
package genera
