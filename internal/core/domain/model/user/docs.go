// Package user models the parties of the parcel lifecycle and the verified
// actor identity attached to every command.
package user
