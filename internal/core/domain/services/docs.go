// Package services provides the domain services of the parcel lifecycle.
//
// The package includes:
//   - ParcelLifecycle: decides every status transition and returns the
//     state to persist together with the notification and publication intents
//   - VerifyQRCode: checks scanned label data against a parcel
//
// Nothing here performs I/O; the application layer persists the outcome and
// runs the intents after commit.
package services
