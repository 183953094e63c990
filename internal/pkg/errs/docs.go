// Package errs provides standardized error types for the parcel tracking service.
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() for errors.Is support
//
// The HTTP adapter classifies failures by these sentinels, so domain and
// store code should return them instead of ad-hoc errors.
package errs
