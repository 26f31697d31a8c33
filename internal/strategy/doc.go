// Package strategy holds the pure decision functions that derive fetch
// timing, fetch style, cascade styles and default column naming from the
// optional (and partly deprecated) descriptor attributes.
//
// None of the functions here have side effects. Errors are returned as
// *UnknownTokenError so callers can attach their own origin.
//
// # Fetch timing
//
//	lazy unset:  fetch="join" or outer-join="true"  -> IMMEDIATE
//	             outer-join="false"                 -> DELAYED
//	             otherwise                           -> associations-lazy default
//	lazy set:    extra                               -> EXTRA_DELAYED
//	             true | proxy | no-proxy             -> DELAYED
//	             false                               -> IMMEDIATE
//
// # Fetch style
//
//	fetch unset: outer-join="auto" -> SELECT if associations are lazy, else JOIN
//	             outer-join="true" -> JOIN
//	             otherwise         -> SELECT
//	fetch set:   subselect -> SUBSELECT, join -> JOIN, otherwise SELECT
//
// For plural attributes a SELECT result becomes BATCH when batch-size > 1.
package strategy
