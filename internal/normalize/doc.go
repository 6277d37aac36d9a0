// Package normalize turns irregular runtime attribute structures into the
// stable shapes served by the API. Every function degrades to a documented
// default on malformed input and never returns an error.
package normalize
