package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	downloadDir string
	historyFile string
}

// setupCLITestEnv writes a self-contained configuration rooted in a temp
// directory. baseURL points the platform client at a test server; empty keeps
// the default.
func setupCLITestEnv(t *testing.T, baseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "config.toml"),
		downloadDir: filepath.Join(base, "downloads"),
		historyFile: filepath.Join(base, "history.json"),
	}

	content := fmt.Sprintf(`[paths]
download_dir = %q
history_file = %q
log_dir = %q

[pacing]
delay_seconds = 1.0
max_retries = 2

[instagram]
session_id = "test-session"
`,
		env.downloadDir,
		env.historyFile,
		filepath.Join(base, "logs"),
	)
	if baseURL != "" {
		content += fmt.Sprintf("base_url = %q\n", baseURL)
	}

	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// fakePost seeds one item on the fake Instagram server.
type fakePost struct {
	code      string
	mediaType int
	duration  float64
}

// newFakeInstagram serves just enough of the Instagram web API for the CLI:
// a single feed page, per-post metadata documents, and the media bytes.
func newFakeInstagram(t *testing.T, posts []fakePost) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/feed/user/", func(w http.ResponseWriter, r *http.Request) {
		items := make([]string, 0, len(posts))
		for _, post := range posts {
			items = append(items, fmt.Sprintf(
				`{"code":%q,"media_type":%d,"taken_at":1714557600}`, post.code, post.mediaType))
		}
		fmt.Fprintf(w, `{"items":[%s],"more_available":false,"next_max_id":""}`, strings.Join(items, ","))
	})

	for _, post := range posts {
		mux.HandleFunc("/p/"+post.code+"/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"graphql":{"shortcode_media":{
				"shortcode":%q,
				"is_video":true,
				"owner":{"username":"someuser"},
				"video_url":%q,
				"video_duration":%g,
				"taken_at_timestamp":1714557600,
				"edge_media_preview_like":{"count":7},
				"edge_media_to_caption":{"edges":[{"node":{"text":"caption"}}]}
			}}}`, post.code, server.URL+"/media/"+post.code+".mp4", post.duration)
		})
		mux.HandleFunc("/media/"+post.code+".mp4", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "payload-%s", post.code)
		})
	}

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
