package kubeconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePathPrefersExplicit(t *testing.T) {
	got := resolvePath("/explicit/path")
	if got != "/explicit/path" {
		t.Errorf("got %q, want /explicit/path", got)
	}
}

func TestResolvePathFallsBackToKubeconfigEnv(t *testing.T) {
	t.Setenv("KUBECONFIG", "/env/path:/ignored/second/path")
	got := resolvePath("")
	if got != "/env/path" {
		t.Errorf("got %q, want first entry of KUBECONFIG", got)
	}
}

func TestResolvePathFallsBackToHome(t *testing.T) {
	t.Setenv("KUBECONFIG", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	got := resolvePath("")
	want := filepath.Join(home, ".kube", "config")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadPodConfigAbsentWhenNoServiceAccount(t *testing.T) {
	// ServiceAccountDir is a constant pointing at a path that won't
	// exist on a test machine, so loadPodConfig should cleanly report
	// "not present" rather than erroring.
	if _, err := os.Stat(ServiceAccountDir); err == nil {
		t.Skip("test host unexpectedly has a mounted service account")
	}
	pod, ok, err := loadPodConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || pod != nil {
		t.Errorf("expected no pod config, got %+v", pod)
	}
}
