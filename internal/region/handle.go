// Package region implements RegionHandle packing (spec.md §6.5): the
// 64-bit value that identifies a simulator by its position in the
// world grid.
package region

// Pack builds a RegionHandle from grid coordinates. The high 32 bits
// carry gridY*256, the low 32 bits carry gridX*256 — purely arithmetic,
// independent of the field's own little-endian wire encoding.
func Pack(gridX, gridY uint32) uint64 {
	return uint64(gridY)*256<<32 | uint64(gridX)*256
}

// Unpack recovers the grid coordinates packed into a RegionHandle.
func Unpack(handle uint64) (gridX, gridY uint32) {
	gridY = uint32(handle>>32) / 256
	gridX = uint32(handle&0xFFFFFFFF) / 256
	return gridX, gridY
}
