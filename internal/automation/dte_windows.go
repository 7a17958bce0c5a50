// SPDX-License-Identifier: MPL-2.0

//go:build windows

package automation

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ahuca/twinget/pkg/plcproj"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const (
	// hrSFalse is returned by CoInitializeEx when COM is already initialized
	// on the calling thread.
	hrSFalse = 0x00000001
	// hrCallRejected is RPC_E_CALL_REJECTED.
	hrCallRejected = 0x80010001
	// hrRetryLater is RPC_E_SERVERCALL_RETRYLATER.
	hrRetryLater = 0x8001010A

	// plcRootItem is the tree path of the PLC node in a TwinCAT system manager.
	plcRootItem = "TIPC"
)

type (
	dteCapability struct {
		opts DTEOptions
	}

	dteHandle struct {
		dte    *ole.IDispatch
		policy retryPolicy
	}
)

func newDTE(opts DTEOptions) Capability {
	return &dteCapability{opts: opts}
}

// Open initializes a single-threaded COM apartment on the calling thread and
// starts the automation server.
func (c *dteCapability) Open() (Handle, error) {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != hrSFalse {
			return nil, fmt.Errorf("failed to initialize COM: %w", err)
		}
	}

	unknown, err := oleutil.CreateObject(c.opts.ProgID)
	if err != nil {
		ole.CoUninitialize()
		return nil, fmt.Errorf("failed to create %s: %w", c.opts.ProgID, err)
	}
	dte, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		ole.CoUninitialize()
		return nil, fmt.Errorf("failed to query %s dispatch interface: %w", c.opts.ProgID, err)
	}

	h := &dteHandle{dte: dte, policy: defaultRetryPolicy(c.opts.RetryAttempts)}
	if c.opts.SuppressUI {
		// Cosmetic; a shell that refuses these still exports fine.
		_ = h.put(dte, "SuppressUI", true)
		if mainWindow, err := h.dispatch(dte, "MainWindow"); err == nil {
			_ = h.put(mainWindow, "Visible", false)
			mainWindow.Release()
		}
	}
	_ = h.put(dte, "UserControl", false)

	return h, nil
}

// SaveLibrary opens the solution, finds the PLC project and saves it as a
// library named after the project file.
func (h *dteHandle) SaveLibrary(projectPath, outputDir, solutionPath string) (string, error) {
	solution, err := h.dispatch(h.dte, "Solution")
	if err != nil {
		return "", fmt.Errorf("failed to get solution object: %w", err)
	}
	defer solution.Release()

	if _, err := h.call(solution, "Open", solutionPath); err != nil {
		return "", fmt.Errorf("failed to open solution %s: %w", solutionPath, err)
	}

	plc, err := h.findPlcProject(solution, plcproj.ProjectName(projectPath))
	if err != nil {
		return "", err
	}
	defer plc.Release()

	artifact := filepath.Join(outputDir, plcproj.LibraryFileName(projectPath))
	if _, err := h.call(plc, "SaveAsLibrary", artifact, false); err != nil {
		return "", fmt.Errorf("SaveAsLibrary %s: %w", artifact, err)
	}
	return artifact, nil
}

// Close quits the automation server and leaves the COM apartment.
func (h *dteHandle) Close() error {
	defer ole.CoUninitialize()
	defer h.dte.Release()

	if _, err := h.call(h.dte, "Quit"); err != nil {
		return fmt.Errorf("failed to quit automation server: %w", err)
	}
	return nil
}

// findPlcProject walks the system managers of every solution project and
// returns the nested PLC project item named projectName.
func (h *dteHandle) findPlcProject(solution *ole.IDispatch, projectName string) (*ole.IDispatch, error) {
	projects, err := h.dispatch(solution, "Projects")
	if err != nil {
		return nil, fmt.Errorf("failed to list solution projects: %w", err)
	}
	defer projects.Release()

	count, err := h.intProperty(projects, "Count")
	if err != nil {
		return nil, fmt.Errorf("failed to count solution projects: %w", err)
	}

	for i := 1; i <= count; i++ {
		item, err := h.call(projects, "Item", i)
		if err != nil {
			continue
		}
		project := item.ToIDispatch()
		sysManager, err := h.dispatch(project, "Object")
		project.Release()
		if err != nil {
			continue
		}

		plc, found := h.lookupPlc(sysManager, projectName)
		sysManager.Release()
		if found {
			return plc, nil
		}
	}
	return nil, fmt.Errorf("PLC project %s not found in solution", projectName)
}

// lookupPlc searches the TIPC node of one system manager.
func (h *dteHandle) lookupPlc(sysManager *ole.IDispatch, projectName string) (*ole.IDispatch, bool) {
	root, err := h.call(sysManager, "LookupTreeItem", plcRootItem)
	if err != nil {
		return nil, false
	}
	tipc := root.ToIDispatch()
	defer tipc.Release()

	children, err := h.intProperty(tipc, "ChildCount")
	if err != nil {
		return nil, false
	}

	for i := 1; i <= children; i++ {
		childVar, err := h.get(tipc, "Child", i)
		if err != nil {
			continue
		}
		child := childVar.ToIDispatch()
		name, err := h.stringProperty(child, "Name")
		child.Release()
		if err != nil {
			continue
		}

		nested, err := h.call(sysManager, "LookupTreeItem", plcRootItem+"^"+name+"^"+projectName+" Project")
		if err == nil {
			return nested.ToIDispatch(), true
		}
	}
	return nil, false
}

func (h *dteHandle) call(disp *ole.IDispatch, method string, params ...any) (result *ole.VARIANT, err error) {
	err = h.policy.retry(isCallRejected, func() error {
		result, err = oleutil.CallMethod(disp, method, params...)
		return err
	})
	return result, err
}

func (h *dteHandle) get(disp *ole.IDispatch, name string, params ...any) (result *ole.VARIANT, err error) {
	err = h.policy.retry(isCallRejected, func() error {
		result, err = oleutil.GetProperty(disp, name, params...)
		return err
	})
	return result, err
}

func (h *dteHandle) put(disp *ole.IDispatch, name string, value any) error {
	return h.policy.retry(isCallRejected, func() error {
		_, err := oleutil.PutProperty(disp, name, value)
		return err
	})
}

func (h *dteHandle) dispatch(disp *ole.IDispatch, name string) (*ole.IDispatch, error) {
	v, err := h.get(disp, name)
	if err != nil {
		return nil, err
	}
	d := v.ToIDispatch()
	if d == nil {
		return nil, fmt.Errorf("property %s is not an object", name)
	}
	return d, nil
}

func (h *dteHandle) intProperty(disp *ole.IDispatch, name string) (int, error) {
	v, err := h.get(disp, name)
	if err != nil {
		return 0, err
	}
	defer func() { _ = v.Clear() }()
	return int(v.Val), nil
}

func (h *dteHandle) stringProperty(disp *ole.IDispatch, name string) (string, error) {
	v, err := h.get(disp, name)
	if err != nil {
		return "", err
	}
	defer func() { _ = v.Clear() }()
	return v.ToString(), nil
}

// isCallRejected reports whether the server refused the call because it was
// busy; such calls succeed when retried.
func isCallRejected(err error) bool {
	var oleErr *ole.OleError
	if !errors.As(err, &oleErr) {
		return false
	}
	switch oleErr.Code() {
	case hrCallRejected, hrRetryLater:
		return true
	default:
		return false
	}
}
