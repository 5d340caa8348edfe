// Package register describes the addressable data registers of a control
// device and converts their raw values between the wire representation and
// unsigned integers.
//
// Register values travel as hex strings in device byte order (least
// significant byte first). Converting to an integer swaps the byte pairs and
// parses the result as base 16:
//
//	raw "6400" -> swap "0064" -> 100
//
// The reverse direction pads the hex form of the integer to twice the
// register size before swapping, so a 2-byte register holding 100 is sent
// as "6400".
//
// All operator input goes through the Parse functions, which return a
// *ValidationError instead of letting malformed text reach the backend.
package register
