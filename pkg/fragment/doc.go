// Package fragment defines the closed set of output units shared by the
// template renderer, the page composer and the byte-level renderers: plain
// Text, navigable *Label references and nested Sequence values. Rich values
// travel through template contexts untouched so renderers can decide how a
// label is presented (anchor pair in HTML, "name [type]" in text).
package fragment
