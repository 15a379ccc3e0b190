package cli

import (
	"encoding/json"
	"fmt"
	"runtime"
	"testing"
)

const releasesJSON = `[
  {"tag_name": "v1.3.0-rc1", "prerelease": true, "assets": [{"name": "x", "browser_download_url": "u-rc"}]},
  {"tag_name": "release-1.2.0", "assets": [
    {"name": "checksums.txt", "browser_download_url": "u-sums"},
    {"name": "localeq_windows_386.zip", "browser_download_url": "u-win"},
    {"name": "localeq_%s_%s.tar.gz", "browser_download_url": "u-native"}
  ]},
  {"tag_name": "nightly", "name": "Build 1.1.9", "assets": []},
  {"tag_name": "v2.0.0", "draft": true},
  {"tag_name": "latest"}
]`

func TestPickRelease(t *testing.T) {
	var releases []githubRelease
	payload := fmt.Sprintf(releasesJSON, runtime.GOOS, runtime.GOARCH)
	if err := json.Unmarshal([]byte(payload), &releases); err != nil {
		t.Fatal(err)
	}
	best, ok := pickRelease(releases)
	if !ok {
		t.Fatalf("expected a release")
	}
	if best.Version.String() != "1.2.0" {
		t.Fatalf("picked %s, want 1.2.0", best.Version)
	}
	if best.AssetURL != "u-native" {
		t.Fatalf("picked asset %q, want the native build", best.AssetURL)
	}

	if _, ok := pickRelease(releases[2:3]); !ok {
		t.Fatalf("version in release name should be accepted")
	}
	if _, ok := pickRelease(releases[3:]); ok {
		t.Fatalf("drafts and unversioned tags must be ignored")
	}
}
