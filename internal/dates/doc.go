// Package dates turns the heterogeneous date representations found in stored
// documents into a single [time.Time].
//
// A stored date is either a store-native timestamp (seconds plus nanoseconds
// since the Unix epoch) or a date string. Both travel as [Raw] across the JSON
// boundary and are resolved by [Normalize], which never fails: values that
// cannot be interpreted simply yield no instant.
package dates
