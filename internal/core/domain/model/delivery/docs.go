// Package delivery provides the Delivery entity: the agent's execution record
// for a parcel, including its append-only GPS route.
package delivery
