package hooks

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestDiscoverRepo_Valid(t *testing.T) {
	t.Parallel()

	// Create a temp directory with a git repo
	tmpDir := t.TempDir()

	// Resolve symlinks (macOS /var -> /private/var)
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}

	// Initialize a git repo
	cmd := exec.Command("git", "init")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	repo, err := DiscoverRepo(t.Context(), tmpDir)
	if err != nil {
		t.Fatalf("DiscoverRepo() error = %v", err)
	}

	if repo.RootDir != tmpDir {
		t.Errorf("RootDir = %q, want %q", repo.RootDir, tmpDir)
	}

	expectedGitDir := filepath.Join(tmpDir, ".git")
	if repo.GitDir != expectedGitDir {
		t.Errorf("GitDir = %q, want %q", repo.GitDir, expectedGitDir)
	}
}

func TestDiscoverRepo_NotARepo(t *testing.T) {
	t.Parallel()

	// Create a temp directory without a git repo
	tmpDir := t.TempDir()

	_, err := DiscoverRepo(t.Context(), tmpDir)
	if !errors.Is(err, ErrNotGitRepo) {
		t.Errorf("DiscoverRepo() error = %v, want %v", err, ErrNotGitRepo)
	}
	// Error should include the path for debugging context
	if err != nil && err.Error() == ErrNotGitRepo.Error() {
		t.Error("DiscoverRepo() error should include path context")
	}
}

func TestDiscoverRepo_Subdirectory(t *testing.T) {
	t.Parallel()

	// Create a temp directory with a git repo
	tmpDir := t.TempDir()

	// Resolve symlinks (macOS /var -> /private/var)
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}

	// Initialize a git repo
	cmd := exec.Command("git", "init")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	// Create a subdirectory
	subDir := filepath.Join(tmpDir, "subdir", "nested")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	// Find repo from subdirectory
	repo, err := DiscoverRepo(t.Context(), subDir)
	if err != nil {
		t.Fatalf("DiscoverRepo() error = %v", err)
	}

	if repo.RootDir != tmpDir {
		t.Errorf("RootDir = %q, want %q", repo.RootDir, tmpDir)
	}
}

func TestGitRepo_HooksPath_Default(t *testing.T) {
	t.Parallel()

	// Create a temp directory with a git repo
	tmpDir := t.TempDir()

	// Resolve symlinks (macOS /var -> /private/var)
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}

	// Initialize a git repo
	cmd := exec.Command("git", "init")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	repo, err := DiscoverRepo(t.Context(), tmpDir)
	if err != nil {
		t.Fatalf("DiscoverRepo() error = %v", err)
	}

	expectedHooksPath := filepath.Join(tmpDir, ".git", "hooks")
	if repo.HooksPath() != expectedHooksPath {
		t.Errorf("HooksPath() = %q, want %q", repo.HooksPath(), expectedHooksPath)
	}

	if repo.HasCustomHooksPath() {
		t.Error("HasCustomHooksPath() = true, want false")
	}
}

func TestGitRepo_HooksPath_CustomPath(t *testing.T) {
	t.Parallel()

	// Create a temp directory with a git repo
	tmpDir := t.TempDir()

	// Resolve symlinks (macOS /var -> /private/var)
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}

	// Initialize a git repo
	cmd := exec.Command("git", "init")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	// Set custom hooks path
	customPath := ".githooks"
	cmd = exec.Command("git", "config", "core.hooksPath", customPath)
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git config failed: %v", err)
	}

	repo, err := DiscoverRepo(t.Context(), tmpDir)
	if err != nil {
		t.Fatalf("DiscoverRepo() error = %v", err)
	}

	expectedHooksPath := filepath.Join(tmpDir, customPath)
	if repo.HooksPath() != expectedHooksPath {
		t.Errorf("HooksPath() = %q, want %q", repo.HooksPath(), expectedHooksPath)
	}

	if !repo.HasCustomHooksPath() {
		t.Error("HasCustomHooksPath() = false, want true")
	}
}

func TestGitRepo_HooksPath_AbsoluteCustomPath(t *testing.T) {
	t.Parallel()

	// Create a temp directory with a git repo
	tmpDir := t.TempDir()

	// Resolve symlinks (macOS /var -> /private/var)
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}

	// Initialize a git repo
	cmd := exec.Command("git", "init")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	// Set absolute custom hooks path
	customPath := filepath.Join(tmpDir, "custom-hooks")
	cmd = exec.Command("git", "config", "core.hooksPath", customPath)
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("git config failed: %v", err)
	}

	repo, err := DiscoverRepo(t.Context(), tmpDir)
	if err != nil {
		t.Fatalf("DiscoverRepo() error = %v", err)
	}

	if repo.HooksPath() != customPath {
		t.Errorf("HooksPath() = %q, want %q", repo.HooksPath(), customPath)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Skipf("git init failed: %v", err)
	}
	return dir
}

func TestResolveHooksDir(t *testing.T) {
	t.Parallel()

	repoDir := initRepo(t)
	repo, err := DiscoverRepo(t.Context(), repoDir)
	if err != nil {
		t.Fatalf("DiscoverRepo() error = %v", err)
	}
	outside := t.TempDir()
	absolute := filepath.Join(t.TempDir(), "shared-hooks")

	tests := []struct {
		name     string
		repo     *GitRepo
		dir      string
		override string
		want     string
	}{
		{
			name: "repository default",
			repo: repo,
			dir:  repoDir,
			want: filepath.Join(repoDir, ".git", "hooks"),
		},
		{
			name:     "relative override in repository",
			repo:     repo,
			dir:      repoDir,
			override: ".githooks",
			want:     filepath.Join(repoDir, ".githooks"),
		},
		{
			name:     "absolute override",
			repo:     repo,
			dir:      repoDir,
			override: absolute,
			want:     absolute,
		},
		{
			name: "outside a repository",
			dir:  outside,
			want: "",
		},
		{
			name:     "override outside a repository",
			dir:      outside,
			override: "hooks",
			want:     filepath.Join(outside, "hooks"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveHooksDir(tt.repo, tt.dir, tt.override)
			if err != nil {
				t.Fatalf("ResolveHooksDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveHooksDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveHooksDir_Subdirectory(t *testing.T) {
	t.Parallel()

	repoDir := initRepo(t)
	subDir := filepath.Join(repoDir, "pkg", "inner")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	repo, err := DiscoverRepo(t.Context(), subDir)
	if err != nil {
		t.Fatalf("DiscoverRepo() error = %v", err)
	}

	got, err := ResolveHooksDir(repo, subDir, ".githooks")
	if err != nil {
		t.Fatalf("ResolveHooksDir() error = %v", err)
	}
	if want := filepath.Join(repoDir, ".githooks"); got != want {
		t.Errorf("ResolveHooksDir() = %q, want %q", got, want)
	}
}
