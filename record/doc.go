// Package record implements the binary codec for the entries of a value table.
//
// Every record is a 6-byte header followed by a payload, all integers
// little-endian:
//
//	[u32 payload_len][u16 disc][payload_len bytes]
//
// The discriminator distinguishes the three record variants:
//
//	DiscChar (0x8000)  one UTF-16 code unit, payload_len == 2
//	DiscNull (0x8001)  null, payload_len == 0
//	anything else      string; disc is the folded UTF-16 length, payload is UTF-8
//
// The UTF-16 length is only used as a cheap prefilter when scanning for a
// string; decoding relies on payload_len alone.
package record
