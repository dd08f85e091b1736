// Package slp implements a decoder for SLP sprites as stored in DRS archives.
//
// An SLP file holds an ordered set of frames. Each frame has a table of row
// edges (the transparent margins at the left and right of every scanline) and
// a byte-code command stream that reconstructs the visible part of every row
// as 8-bit palette indices.
//
// Some commands draw in "player color": the literal indices they carry are
// shifted by 0x10*(slot+1) for each of the eight player slots. A sprite using
// any such command is dynamic, and each of its frames decodes into nine
// images: one per player slot, followed by the neutral (unshifted) image.
//
// Turning indices into pixels is left to the caller; see Image.Paletted and
// Image.RGBA.
package slp
