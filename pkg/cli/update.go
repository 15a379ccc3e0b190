package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/sirupsen/logrus"
)

// githubRelease is the subset of the GitHub releases payload we use.
type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// releaseVersion finds a semantic version in the tag, or failing that in the
// release name.
func releaseVersion(r githubRelease) (semver.Version, bool) {
	for _, s := range []string{r.TagName, r.Name} {
		if m := semverRe.FindString(s); m != "" {
			if v, err := semver.Parse(strings.TrimPrefix(m, "v")); err == nil {
				return v, true
			}
		}
	}
	return semver.Version{}, false
}

// releaseAsset prefers the asset built for this OS and architecture, then any
// asset that names an OS or architecture, then the first asset.
func releaseAsset(r githubRelease) string {
	best, rank := "", -1
	for _, a := range r.Assets {
		n := strings.ToLower(a.Name)
		score := 0
		if strings.Contains(n, runtime.GOOS) && strings.Contains(n, runtime.GOARCH) {
			score = 2
		} else if strings.Contains(n, "darwin") || strings.Contains(n, "linux") || strings.Contains(n, "windows") ||
			strings.Contains(n, "amd64") || strings.Contains(n, "arm64") {
			score = 1
		}
		if score > rank {
			best, rank = a.BrowserDownloadURL, score
		}
	}
	return best
}

// pickRelease returns the highest published, non-prerelease release with a
// parseable version.
func pickRelease(releases []githubRelease) (*selfupdate.Release, bool) {
	var best *selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v, ok := releaseVersion(r)
		if !ok {
			continue
		}
		if best == nil || v.GT(best.Version) {
			best = &selfupdate.Release{Version: v, AssetURL: releaseAsset(r)}
		}
	}
	return best, best != nil
}

// detectLatest queries the GitHub releases API for repo ("owner/name"). It
// tolerates tag names that merely contain a version.
func detectLatest(ctx context.Context, repo string) (*selfupdate.Release, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("https://api.github.com/repos/%s/releases", repo), nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, string(body))
	}
	var releases []githubRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}
	latest, found := pickRelease(releases)
	return latest, found, nil
}

// CheckForUpdates compares Version with the latest release of repo and, after
// confirmation, replaces the running binary and restarts it.
func CheckForUpdates(ctx context.Context, repo string) error {
	fmt.Printf("Current version: %s\n", Version)
	latest, found, err := detectLatest(ctx, repo)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found {
		fmt.Printf("No releases found for %s.\n", repo)
		return nil
	}
	fmt.Printf("Latest version: %s\n", latest.Version)

	current, perr := semver.Parse(strings.TrimPrefix(Version, "v"))
	if perr != nil {
		log.WithField("version", Version).Warnf("could not parse current version: %v", perr)
	} else if latest.Version.LTE(current) {
		fmt.Printf("You are already running the latest version: %s.\n", current)
		return nil
	}
	if latest.AssetURL == "" {
		fmt.Printf("A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		fmt.Println("Please visit the project releases page to download the new version.")
		return nil
	}

	answer, err := PromptLine(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		fmt.Println("Update cancelled.")
		return nil
	}

	fmt.Println("Updating...")
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	log.WithFields(logrus.Fields{"from": Version, "to": latest.Version.String()}).Info("binary updated")
	restart(exe)
	return nil
}

// restart replaces the current process with exe. If exec fails the new binary
// is started as a child and this process exits.
func restart(exe string) {
	argv := append([]string{exe}, os.Args[1:]...)
	err := syscall.Exec(exe, argv, os.Environ())
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if startErr := cmd.Start(); startErr != nil {
		log.Errorf("updated, but failed to restart automatically: %v; fallback start error: %v", err, startErr)
		fmt.Println("Please restart the application manually.")
		return
	}
	os.Exit(0)
}
