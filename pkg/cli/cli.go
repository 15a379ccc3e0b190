package cli

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Fepozopo/localeq/pkg/stdimg"
)

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  /  - select and apply command")
	fmt.Println("  o  - open another image at runtime")
	fmt.Println("  s  - save current image")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
	fmt.Println()
	fmt.Println("Batch mode: localeq <input> <output> [radius] [mode]")
}

// RunCLI is the program entry point. With two or more arguments it runs in
// batch mode and exits; otherwise it starts the interactive editor, loading
// the image named by the first argument if any.
func RunCLI() {
	cfg, cfgErr := LoadConfig()
	InitLogger(cfg.Debug || cfg.PreviewDebug)
	if cfgErr != nil {
		log.WithError(cfgErr).Fatal("invalid configuration")
	}
	ConfigurePreview(cfg)
	log.WithFields(logrus.Fields{"version": Version, "radius": cfg.Radius, "workers": cfg.Workers}).Debug("starting")

	args := os.Args[1:]
	if len(args) >= 2 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := RunBatch(ctx, cfg, args); err != nil {
			log.WithError(err).Error("batch run failed")
			stop()
			os.Exit(1)
		}
		return
	}
	var path string
	if len(args) == 1 {
		path = args[0]
	}
	runInteractive(cfg, path)
}

// RunBatch equalizes args[0] into args[1]. Optional args[2] and args[3] set
// the radius and mode; the radius defaults to cfg.Radius and the mode to auto.
func RunBatch(ctx context.Context, cfg Config, args []string) error {
	if len(args) < 2 || len(args) > 4 {
		return fmt.Errorf("usage: localeq <input> <output> [radius] [mode]")
	}
	store := NewCommandStore(stdimg.Commands)
	raw := make([]string, 3)
	copy(raw, args[2:])
	raw = applyDefaults(cfg, "equalizeLocal", raw)
	norm, err := store.Normalize("equalizeLocal", raw)
	if err != nil {
		return err
	}

	img, format, err := LoadImage(args[0])
	if err != nil {
		return err
	}
	start := time.Now()
	out, err := stdimg.ApplyCommandContext(ctx, img, "equalizeLocal", norm)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"input":   args[0],
		"format":  format,
		"radius":  norm[0],
		"mode":    norm[1],
		"elapsed": time.Since(start).String(),
	}).Info("equalized")
	return SaveImage(args[1], out)
}

// applyDefaults fills empty args of cmdName from the configuration.
func applyDefaults(cfg Config, cmdName string, raw []string) []string {
	c, ok := stdimg.Lookup(cmdName)
	if !ok {
		return raw
	}
	out := make([]string, len(c.Args))
	copy(out, raw)
	for i, a := range c.Args {
		if strings.TrimSpace(out[i]) != "" {
			continue
		}
		switch a.Name {
		case "radius":
			out[i] = strconv.Itoa(cfg.Radius)
		case "workers":
			if cfg.Workers > 0 {
				out[i] = strconv.Itoa(cfg.Workers)
			}
		}
	}
	return out
}

// session is the state of the interactive editor.
type session struct {
	cfg    Config
	store  *CommandStore
	cur    image.Image
	path   string
	format string
}

func (s *session) open(path string) error {
	img, format, err := LoadImage(path)
	if err != nil {
		return err
	}
	s.cur, s.path, s.format = img, path, format
	s.show()
	return nil
}

func (s *session) show() {
	if err := PreviewImage(s.cur, s.format); err != nil {
		debugf("preview: %v", err)
	}
	if info, err := GetImageInfoImage(s.cur); err == nil {
		fmt.Println(info)
	}
}

func runInteractive(cfg Config, path string) {
	s := &session{cfg: cfg, store: NewCommandStore(stdimg.Commands)}
	if path != "" {
		if err := s.open(path); err != nil {
			log.WithError(err).WithField("path", path).Fatal("failed to read image")
		}
	}

	fmt.Println("Local Histogram Equalizer")
	usage()

	for {
		line, err := PromptLine("> ")
		if err != nil {
			fmt.Println()
			return
		}
		if line == "" {
			continue
		}
		switch line[0] {
		case '/':
			if s.cur == nil {
				fmt.Println("No image loaded. Press 'o' to open an image first, or provide an image path as the first argument.")
				continue
			}
			name, ok := selectCommand()
			if !ok {
				continue
			}
			if err := s.apply(name); err != nil {
				log.WithError(err).WithField("command", name).Error("command failed")
			}

		case 's':
			if s.cur == nil {
				fmt.Println("No image loaded.")
				continue
			}
			out, _ := PromptLine("Enter output filename: ")
			if out == "" {
				fmt.Println("no filename provided")
				continue
			}
			if err := SaveImage(out, s.cur); err != nil {
				log.WithError(err).Error("failed to write image")
				continue
			}
			fmt.Printf("Saved to %s\n", out)

		case 'o':
			newPath, selErr := SelectFileWithFzf(".")
			if selErr != nil || newPath == "" {
				newPath, _ = PromptLine("Enter path to image to open (leave empty to cancel): ")
				if newPath == "" {
					fmt.Println("open cancelled")
					continue
				}
			}
			if err := s.open(newPath); err != nil {
				log.WithError(err).WithField("path", newPath).Error("failed to read image")
				continue
			}
			fmt.Printf("Opened %s\n", newPath)

		case 'u':
			if err := CheckForUpdates(context.Background(), cfg.UpdateRepo); err != nil {
				log.WithError(err).Error("update check error")
			}

		case 'h':
			usage()

		case 'q':
			fmt.Println("Exiting...")
			return
		}
	}
}

// selectCommand picks a command with fzf, or from a numbered list when fzf
// is unavailable.
func selectCommand() (string, bool) {
	if name, err := SelectCommandWithFzfStd(stdimg.Commands); err == nil && name != "" {
		return name, true
	}
	fmt.Println("Command selection (fallback):")
	for i, c := range stdimg.Commands {
		fmt.Printf("  %d) %s - %s\n", i+1, c.Name, c.Description)
	}
	selection, _ := PromptLine("Enter number or command name (leave empty to cancel): ")
	if selection == "" {
		fmt.Println("selection cancelled")
		return "", false
	}
	name, err := resolveCommand(stdimg.Commands, selection)
	if err != nil {
		fmt.Println(err)
		return "", false
	}
	return name, true
}

// resolveCommand accepts a 1-based index, a full command name or an
// unambiguous prefix, all case-insensitive.
func resolveCommand(cmds []stdimg.CommandSpec, selection string) (string, error) {
	if idx, err := strconv.Atoi(selection); err == nil {
		if idx < 1 || idx > len(cmds) {
			return "", fmt.Errorf("invalid selection")
		}
		return cmds[idx-1].Name, nil
	}
	sel := strings.ToLower(selection)
	var matches []string
	for _, c := range cmds {
		name := strings.ToLower(c.Name)
		if name == sel {
			return c.Name, nil
		}
		if strings.HasPrefix(name, sel) {
			matches = append(matches, c.Name)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown command: %s", selection)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("ambiguous selection, candidates: %s", strings.Join(matches, ", "))
}

// apply prompts for the arguments of name, runs it on the current image and
// previews the result. Ctrl-C cancels a running command.
func (s *session) apply(name string) error {
	help, _, err := s.store.Help(name)
	if err != nil {
		return err
	}
	fmt.Println("\n" + help + "\n")

	c, _ := stdimg.Lookup(name)
	raw := make([]string, len(c.Args))
	for i, p := range c.Args {
		label := p.Type
		if p.Default != "" {
			label += ", default " + p.Default
		}
		raw[i], _ = PromptLine(fmt.Sprintf("%s (%s): ", p.Name, label))
	}
	norm, err := s.store.Normalize(name, applyDefaults(s.cfg, name, raw))
	if err != nil {
		return fmt.Errorf("input validation: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	start := time.Now()
	out, err := stdimg.ApplyCommandContext(ctx, s.cur, name, norm)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"command": name, "args": norm, "elapsed": time.Since(start).String()}).Debug("applied")

	if name == "identify" {
		if s.path != "" {
			fmt.Printf("Path: %s\nFormat: %s\n", s.path, s.format)
		}
		if info, err := GetImageInfoImage(s.cur); err == nil {
			fmt.Println(info)
		}
		return nil
	}
	if name == "histogram" {
		// shown, not kept
		if err := PreviewImage(out, "png"); err != nil {
			debugf("preview: %v", err)
		}
		return nil
	}
	s.cur = out
	fmt.Printf("Applied %s\n", name)
	s.show()
	return nil
}
