// SPDX-License-Identifier: MPL-2.0

// Package plcproj reads the metadata fields of a TwinCAT PLC project file
// (.plcproj) and classifies input paths by file kind.
package plcproj
