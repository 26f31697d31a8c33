// Package diagnostic provides the typed mapping resolution error and
// structured diagnostics for hbm-source.
//
// Key capabilities:
//   - MappingError: one error type for every resolution failure, carrying a
//     Kind and the Origin (document and element) it was detected at
//   - Kind sentinels usable with errors.Is
//   - Diagnostics: a coded collector for callers that gather several
//     failures before aborting
package diagnostic
