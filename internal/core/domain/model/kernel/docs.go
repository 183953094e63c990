// Package kernel provides the value objects shared by every aggregate of the
// parcel domain.
//
// The package includes:
//   - UUID: identifier for parcels, deliveries and users
//   - GeoPoint: a validated latitude/longitude pair with haversine distance
//   - TrackingNumber: the label identifier that is also the QR payload
//
// All values are immutable and their zero values fail Validate.
package kernel
