package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeExtension writes a shell script extension into dir.
func writeExtension(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, "mcap-"+name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("Failed to write extension: %v", err)
	}
}

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	writeExtension(t, dir, "hello", `echo "$@ $`+EnvCacheDir+`" > `+out+"\n")
	writeExtension(t, dir, "fail", "exit 3\n")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found || code != 0 {
		t.Fatalf("RunExtension(hello) = %v, %d want true, 0", found, code)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "a b " + *cacheDir; strings.TrimSpace(string(got)) != want {
		t.Errorf("extension received %q want %q", strings.TrimSpace(string(got)), want)
	}

	if found, code := RunExtension("fail", nil); !found || code != 3 {
		t.Errorf("RunExtension(fail) = %v, %d want true, 3", found, code)
	}
	if found, _ := RunExtension("missing", nil); found {
		t.Error("RunExtension(missing) found a missing extension")
	}
}
