//go:build enhancedebug

package enhance

// Builds tagged enhancedebug check every Plane.Index call against the plane
// bounds.
const debugBounds = true
