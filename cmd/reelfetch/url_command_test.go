package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestURLCommandDownloadsItem(t *testing.T) {
	server := newFakeInstagram(t, []fakePost{
		{code: "Cabc123", mediaType: 2, duration: 30},
	})
	env := setupCLITestEnv(t, server.URL)

	out, _, err := runCLI(t, []string{"url", "https://www.instagram.com/reel/Cabc123/"}, env.configPath)
	if err != nil {
		t.Fatalf("url command: %v\noutput: %s", err, out)
	}
	requireContains(t, out, "Downloaded Cabc123")

	mediaPath := filepath.Join(env.downloadDir, "instagram", "someuser", "someuser_2024-05-01_10-00-00_Cabc123.mp4")
	if _, err := os.Stat(mediaPath); err != nil {
		t.Fatalf("expected media file: %v", err)
	}
}

func TestURLCommandSecondInvocationSkips(t *testing.T) {
	server := newFakeInstagram(t, []fakePost{
		{code: "Cabc123", mediaType: 2, duration: 30},
	})
	env := setupCLITestEnv(t, server.URL)

	if out, _, err := runCLI(t, []string{"url", "https://www.instagram.com/reel/Cabc123/"}, env.configPath); err != nil {
		t.Fatalf("first run: %v\noutput: %s", err, out)
	}

	out, _, err := runCLI(t, []string{"url", "https://www.instagram.com/reel/Cabc123/"}, env.configPath)
	if err != nil {
		t.Fatalf("second run: %v\noutput: %s", err, out)
	}
	requireContains(t, out, "already downloaded")
}

func TestURLCommandFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	env := setupCLITestEnv(t, server.URL)

	_, _, err := runCLI(t, []string{"url", "https://www.instagram.com/reel/Cgone/"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when the item cannot be resolved")
	}
}

func TestURLCommandRejectsForeignURL(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, []string{"url", "https://www.youtube.com/watch?v=abc"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for a non-instagram URL")
	}
}
