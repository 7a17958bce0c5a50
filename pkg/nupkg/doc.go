// SPDX-License-Identifier: MPL-2.0

// Package nupkg assembles an exported PLC library and the metadata of its
// project into a NuGet package archive (.nupkg).
//
// A package is an Open Packaging Conventions zip holding the manifest
// ({id}.nuspec), the staged library under a fixed directory, the package
// relationships, the content types and a core-properties part. The archive is
// built fully in memory and only then written to the output directory, so a
// failed build never leaves a partial package behind.
package nupkg
