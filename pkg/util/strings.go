// Package util provides small string helpers shared by the client and the CLI.
package util

// MaxLogBodySize is the default maximum body size for logging (2KB).
const MaxLogBodySize = 2 * 1024

// TruncateBody truncates a response body to maxSize bytes for logging,
// appending "...(truncated)" if truncated. If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data []byte, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return string(data[:maxSize]) + "...(truncated)"
	}
	return string(data)
}

// Truncate shortens s to at most n runes for display, ending it with "..."
// when it was cut. n below 4 leaves no room for text and cuts without dots.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 4 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-3]) + "..."
}
