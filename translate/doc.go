// Package translate converts between SDK domain values and abi records.
//
// Each type pair has a [Translator]. ToExternal fills a record from a domain
// value, allocating every string and array through an [abi.Arena].
// ToInternal reads a record back into a fresh domain value.
//
// Absent optional fields take a default when exported:
//
//	strings                 ""
//	max video forwarding    25
//	spatial audio style     disabled
//	participant type        none
//	participant status      inactive
//	booleans                false
//
// Imported records always produce present optionals, so a round trip of a
// value with absent fields yields the same value with the defaults filled in.
//
// Enumerations go through an [EnumTable]. An integer outside the table is a
// validation error, never a silent cast. Translation performs no I/O and
// does not log; it fails only on enumerations, capacity and allocation.
package translate
