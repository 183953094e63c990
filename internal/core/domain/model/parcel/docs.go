// Package parcel provides the Parcel aggregate and its lifecycle rules.
//
// The package includes:
//   - Parcel: the aggregate root holding the lifecycle status, itinerary and pricing
//   - Status: the lifecycle state and its scan transitions
//   - Type and PaymentMethod: classification used for pricing and collection
//   - Address: pickup and delivery points with optional coordinates
//
// Key business rules:
//   - A booked parcel starts Pending with an estimated delivery date three days out
//   - Pickup requires Pending; delivery requires a prior pickup and the bound agent
//   - The actual delivery date exists exactly while the status is Delivered
//   - Shipping cost is the base cost of the type plus 2 per kilometre
package parcel
