package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAccountCommandDownloadsNewItems(t *testing.T) {
	server := newFakeInstagram(t, []fakePost{
		{code: "v1", mediaType: 2, duration: 30},
		{code: "v2", mediaType: 2, duration: 45},
	})
	env := setupCLITestEnv(t, server.URL)

	out, _, err := runCLI(t, []string{"account", "someuser"}, env.configPath)
	if err != nil {
		t.Fatalf("account command: %v\noutput: %s", err, out)
	}

	requireContains(t, out, "Found 2 new items matching criteria")
	requireContains(t, out, "Downloaded v1")
	requireContains(t, out, "Downloaded v2")

	accountDir := filepath.Join(env.downloadDir, "instagram", "someuser")
	for _, name := range []string{
		"someuser_2024-05-01_10-00-00_v1.mp4",
		"someuser_2024-05-01_10-00-00_v1.txt",
		"someuser_2024-05-01_10-00-00_v2.mp4",
		"someuser_2024-05-01_10-00-00_v2.txt",
	} {
		if _, err := os.Stat(filepath.Join(accountDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestAccountCommandHonorsCriteriaFlags(t *testing.T) {
	server := newFakeInstagram(t, []fakePost{
		{code: "short", mediaType: 2, duration: 10},
		{code: "long", mediaType: 2, duration: 300},
	})
	env := setupCLITestEnv(t, server.URL)

	out, _, err := runCLI(t, []string{"account", "someuser", "--min-duration", "60"}, env.configPath)
	if err != nil {
		t.Fatalf("account command: %v\noutput: %s", err, out)
	}

	requireContains(t, out, "Found 1 new items matching criteria (already downloaded: 0, skipped: 1)")
	requireContains(t, out, "Downloaded long")

	accountDir := filepath.Join(env.downloadDir, "instagram", "someuser")
	if _, err := os.Stat(filepath.Join(accountDir, "someuser_2024-05-01_10-00-00_short.mp4")); err == nil {
		t.Error("item below the duration threshold was downloaded")
	}
}

func TestAccountCommandSecondRunDownloadsNothing(t *testing.T) {
	server := newFakeInstagram(t, []fakePost{
		{code: "v1", mediaType: 2, duration: 30},
	})
	env := setupCLITestEnv(t, server.URL)

	if out, _, err := runCLI(t, []string{"account", "someuser"}, env.configPath); err != nil {
		t.Fatalf("first run: %v\noutput: %s", err, out)
	}

	out, _, err := runCLI(t, []string{"account", "someuser"}, env.configPath)
	if err != nil {
		t.Fatalf("second run: %v\noutput: %s", err, out)
	}
	requireContains(t, out, "Found 0 new items matching criteria (already downloaded: 1, skipped: 0)")
}

func TestAccountCommandRejectsUnknownPlatform(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, []string{"account", "someuser", "--platform", "myspace"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown platform")
	}
	requireContains(t, err.Error(), "unsupported platform")
}
