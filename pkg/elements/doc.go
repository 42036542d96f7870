// Package elements provides types and interfaces for working with formula
// templates and formula instances of the Cloud Elements v2 API.
//
// # Overview
//
// The package defines the domain types (Formula, FormulaInstance), the batch
// and outcome types produced while sweeping instances, and the FormulasClient
// interface. A concrete implementation is provided by internal/client, which
// wires the HTTP transport and authentication.
//
// # Errors
//
// Any non-2xx response is returned as *APIError carrying the HTTP status, the
// upstream message and the request id. Use errors.As or the IsNotFound helper
// to inspect it:
//
//	formula, err := formulas.Get(ctx, "1234")
//	if elements.IsNotFound(err) {
//	  // template does not exist
//	}
package elements
