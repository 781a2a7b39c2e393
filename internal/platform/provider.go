package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Reader          Reader
	Inputter        Inputter
	WindowManager   WindowManager
	ActionPerformer ActionPerformer
	ValueSetter     ValueSetter
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("desktop-invoke has no accessibility driver for %s/%s", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific driver packages via init().
var NewProviderFunc func() (*Provider, error)

// RequestPermissionsFunc is set by platform-specific packages via init().
// It triggers OS permission prompts (e.g. accessibility) at startup.
var RequestPermissionsFunc func()

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
