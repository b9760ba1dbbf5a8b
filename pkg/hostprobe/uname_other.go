//go:build !linux

package hostprobe

func unameMachine() string {
	return ""
}
