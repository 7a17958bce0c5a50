// SPDX-License-Identifier: MPL-2.0

// Package pack turns a TwinCAT PLC project into a NuGet package.
//
// A Packer dispatches on the kind of the source file. Project files are
// exported as a library through an automation.Session, packaged by a
// nupkg.Assembler and the intermediate library is removed again, whatever
// the outcome. Manifest-only inputs are not supported yet and files of any
// other kind pass through untouched.
package pack
