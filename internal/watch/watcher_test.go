package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arnestad/mdxpress/internal/manifest"
	"github.com/arnestad/mdxpress/internal/push"
	"github.com/arnestad/mdxpress/internal/storage"
	"github.com/arnestad/mdxpress/internal/testutil"
)

// watcherTestEnv sets up source/destination trees, a manifest, and a pusher.
func watcherTestEnv(t *testing.T) (string, string, storage.Provider, *manifest.DB, *push.Pusher) {
	t.Helper()
	srcDir, src := testutil.TestTree(t)
	dstDir, dst := testutil.TestTree(t)
	man := testutil.TestManifest(t)
	p := push.New(src, dst, man, testLogger(), push.Config{})
	return srcDir, dstDir, src, man, p
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewFilePushed(t *testing.T) {
	srcDir, dstDir, src, man, p := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, p, man, src, "", testLogger(), func(kind, path string) {
		mu.Lock()
		events = append(events, kind+":"+path)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(srcDir, "new.md"), []byte("# New\n\ntext\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Stat(filepath.Join(dstDir, "new.mdx"))
		return err == nil
	}, "new file not pushed by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "pushed:new.md" {
				return true
			}
		}
		return false
	}, "expected pushed:new.md callback")
}

func TestWatcher_NewDirWatchedAndCopied(t *testing.T) {
	srcDir, dstDir, src, man, p := watcherTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, p, man, src, "", testLogger(), nil)

	time.Sleep(100 * time.Millisecond)

	subDir := filepath.Join(srcDir, "images")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(200 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(subDir, "pic.png"), []byte{1, 2, 3}, 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Stat(filepath.Join(dstDir, "images", "pic.png"))
		return err == nil
	}, "file in new subdir not copied by watcher")
}

func TestWatcher_RemoveDropsManifestEntry(t *testing.T) {
	srcDir, _, src, man, p := watcherTestEnv(t)

	_ = os.WriteFile(filepath.Join(srcDir, "gone.md"), []byte("# Gone\n"), 0o644)
	if _, err := p.PushFolder(context.Background(), ""); err != nil {
		t.Fatalf("seed push: %v", err)
	}
	if cs, _ := man.GetChecksum("gone.md"); cs == "" {
		t.Fatal("seed push did not record manifest entry")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, p, man, src, "", testLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Remove(filepath.Join(srcDir, "gone.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := man.GetChecksum("gone.md")
		return cs == ""
	}, "manifest entry not dropped after remove")
}
