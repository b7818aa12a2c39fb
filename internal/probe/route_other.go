//go:build !linux

package probe

func defaultRouteInterface() (string, bool) { return "", false }

func linkSpeed(string) *float64 { return nil }
