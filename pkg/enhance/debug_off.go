//go:build !enhancedebug

package enhance

const debugBounds = false
