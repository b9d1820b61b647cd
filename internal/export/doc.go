// Package export serializes point clouds to third-party interchange formats.
//
// Supported formats:
//
//   - PLY: ASCII or binary little-endian, optional uchar RGB
//   - LAS 1.2: point data record format 0 (XYZ) or 2 (XYZ + RGB)
//   - LAZ: the LAS byte layout under a .laz name (see below)
//   - OBJ: point list or a coarse triangle mesh
//   - FBX: minimal 7.4 ASCII container with one Geometry node
//
// Encoders write to an [io.Writer] and return [Stats]. [ExportFile] and
// [ExportHighDensity] are the call boundary for front ends: they never
// return an error and instead report failures in a [Result] so a failed
// export cannot disturb previously generated clouds.
//
// # Known limitations
//
// LAZ output is NOT compressed. The writer emits uncompressed LAS bytes
// with a .laz extension and says so in the result message; readers that
// require LASzip data will reject it.
//
// The mesh option is a naive heuristic: consecutive vertex triples become a
// triangle when every edge is shorter than half the export scale. It is not
// a surface reconstruction and typically yields sparse, inconsistent
// meshes. Use dedicated meshing software on an exported point cloud when a
// real surface is needed.
package export
