// SPDX-License-Identifier: MPL-2.0

// Package observe defines the event sink every packing component reports to.
//
// Components accept an Observer instead of a logger. A nil Observer is replaced
// with Nop, so call sites never need to check for one. Logger adapts a
// charmbracelet/log logger, and Recorder captures events for tests.
package observe
