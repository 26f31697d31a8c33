// Package plan runs one resolution over a set of mapping documents.
//
// Resolution pipeline:
//  1. Discover descriptor files (doublestar globs)
//  2. Load and decode every file, concurrently
//  3. In input order, for each document:
//     - derive its binding context from the configured defaults
//     - register its classes with the hierarchy builder
//     - bind its queries, result sets and definitions into the registry
//  4. Build the entity hierarchies once all documents are seen
//  5. Emit diagnostics (load failures and mapping errors)
package plan
