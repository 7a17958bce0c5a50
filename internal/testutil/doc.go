// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by the twinget tests: error-checked
// filesystem and environment helpers (MustChdir, MustSetenv, MustWriteFile),
// a sample TwinCAT workspace generator (NewWorkspace) and a scriptable fake of
// the automation interface (FakeAutomation).
package testutil
