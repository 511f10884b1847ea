// Package controls implements typed LDAP control values.
//
// The Simple Paged Results control (RFC 2696, OID 1.2.840.113556.1.4.319)
// lets a client read search results in pages. The client sends a page size
// and an empty cookie; the server answers with a size estimate and a cookie
// that the client echoes to get the next page. An empty cookie from the
// server ends the search.
//
//	ctrl, err := controls.NewPagedResultsControl(100, nil)
//	// attach ctrl to the search request ...
//	pr, found, err := controls.FindPagedResults(response.Controls)
//
// Codec does the work against any ber.Engine. Decode never panics: every
// structural problem is returned as a *MalformedControlError matching
// ErrMalformedControl, so a bad control from a peer can be rejected without
// affecting other operations.
//
// Registry decodes whole control lists. Critical controls with bad values
// fail the call, non-critical ones are logged and left undecoded.
package controls
