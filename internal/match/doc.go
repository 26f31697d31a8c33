// Package match ranks known mapping names by their similarity to a name
// that could not be resolved, to suggest likely intended references.
//
// Key functions:
//   - NormalizeName: normalizes entity and class names for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Rank: ranks known names against an unresolved one
//   - Suggest: returns the few names worth mentioning in an error
package match
