// Package id generates and validates 128-bit identifiers.
//
// Two variants are supported. Random identifiers use the version 4 layout
// with 122 random bits. Time-ordered identifiers use the version 7 layout,
// carrying a big-endian Unix millisecond timestamp in the leading 48 bits so
// that lexicographic order follows creation order. Both render in the
// canonical lowercase 8-4-4-4-12 hexadecimal form.
package id
