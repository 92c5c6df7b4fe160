// Package status defines the integer status codes returned across the
// foreign-call boundary and the tagged error type that produces them.
//
// Every failure inside the bridge is an error value. At the boundary the
// error is reduced to a [Code] by [CodeOf]; the formatted message goes to the
// last-error slot. Errors are grouped into the categories a caller can act
// upon:
//
//   - [Validation]: malformed input record or out-of-range enumerator,
//     rejected before any SDK call
//   - [SDKFailure]: the SDK refused the operation
//   - [Internal]: anything unexpected, including recovered panics
//   - [Duplicate], [NotFound]: event handler registry conditions
//   - [NotInitialized], [AlreadyInitialized]: session lifecycle conditions
package status
