// Package stdimg: authoritative registry of engine commands.
//
// This file mirrors the commands implemented in ApplyCommandContext in
// pkg/stdimg/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, docs, help text) can read a single
// source of truth.

package stdimg

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "enum", "string", etc.
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

// Commands is the authoritative list of commands implemented by the engine.
// Keep this synchronized with ApplyCommandContext in pkg/stdimg/engine.go.
var Commands = []CommandSpec{
	{
		Name:        "equalizeLocal",
		Args:        []ArgSpec{{"radius", "int", true, "8", "window radius; the window is 2*radius+1 pixels wide"}, {"mode", "enum", false, "auto", "auto, naive, inner or parallel"}, {"workers", "int", false, "0", "parallel workers (0 = all CPUs)"}},
		Usage:       "equalizeLocal <radius> [mode] [workers]",
		Description: "Local histogram equalization of the luminance.",
	},
	{
		Name:        "equalize",
		Args:        []ArgSpec{},
		Usage:       "equalize",
		Description: "Global histogram equalization of the luminance.",
	},
	{
		Name:        "normalize",
		Args:        []ArgSpec{},
		Usage:       "normalize",
		Description: "Stretch the luminance extremes to the full range.",
	},
	{
		Name:        "negate",
		Args:        []ArgSpec{},
		Usage:       "negate",
		Description: "Invert the luminance.",
	},
	{
		Name:        "grayscale",
		Args:        []ArgSpec{},
		Usage:       "grayscale",
		Description: "Convert to Rec.709 luminance (16-bit sources stay 16-bit).",
	},
	{
		Name:        "histogram",
		Args:        []ArgSpec{{"bins", "int", false, "256", "number of bins"}},
		Usage:       "histogram [bins]",
		Description: "Render the luminance histogram as an image.",
	},
	{
		Name:        "identify",
		Args:        []ArgSpec{},
		Usage:       "identify",
		Description: "Print image info (no image change).",
	},
}

// Lookup returns the command named name.
func Lookup(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
