// Package utils contains small helpers shared by the ioplus packages.
package utils

// Guard runs a cleanup function when a constructor returns early with an error, and skips it
// once the constructor declares success.
//
//	guard := NewGuard(func() { handle.Close() })
//	defer guard.OnFail()
//	if err != nil { return nil, err }
//	guard.Success()
//	return s, nil
type Guard struct {
	OnFail  func()
	success bool
}

// NewGuard returns a Guard that calls onFailCleanup unless Success is called first.
func NewGuard(onFailCleanup func()) *Guard {
	ret := &Guard{}
	ret.OnFail = func() {
		if !ret.success {
			onFailCleanup()
		}
	}
	return ret
}

// Success marks the guarded function as succeeded.
func (guard *Guard) Success() {
	guard.success = true
}
