// Package section defines the binary layout of a storage slot.
//
// Every record inside a block starts with a 16-byte SlotHeader followed by its
// payload, padded to a 16-byte boundary:
//
//	+-------+----------+------+-------------------+-------+=============+
//	| flags | refcount | size | uncompressed size | index |  payload... |
//	|  u16  |   u16    | u32  |        u32        |  u32  | (usable)    |
//	+-------+----------+------+-------------------+-------+=============+
//
// The flags word is a Flag bit-set: in-use, reference, bitmap sub-mode and a
// three-bit compression kind (see format.CompressionType). A free slot has
// flags == 0 and its size is the whole usable hole.
//
// Slots tile a block exactly, so the next slot always starts FullSize(size)
// bytes after the current one. Headers are encoded with an explicit
// endian.EndianEngine rather than by reinterpreting memory.
//
// # Example
//
//	h := section.SlotHeader{
//	    Flags:            section.FlagUsed | section.FlagCompression(format.CompressionRLEDiff),
//	    Size:             120,
//	    UncompressedSize: 1024,
//	    Index:            3,
//	}
//	h.Put(mem[off:], endian.GetLittleEndianEngine())
package section
