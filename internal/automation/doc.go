// SPDX-License-Identifier: MPL-2.0

// Package automation drives the TwinCAT XAE automation interface to export a
// PLC project as a compiled library.
//
// The automation interface is a COM server with single-threaded apartment
// affinity. A Session therefore runs every call against it on one dedicated
// goroutine locked to its OS thread for the whole export, and hands the result
// back to the caller over a channel. Solution resolution, when needed, runs
// concurrently on its own goroutine and is awaited inside the worker right
// before the first automation call.
//
// There is no timeout around the export: a hung IDE blocks ExportLibrary.
package automation
