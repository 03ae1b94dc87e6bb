package testutil

import (
	"fmt"
	"testing"
)

// LinearHistory creates a repo with n sequential commits on the default branch.
func LinearHistory(t *testing.T, n int) *TestRepo {
	t.Helper()
	repo := NewTestRepo(t)
	for i := 1; i <= n; i++ {
		repo.Commit(
			fmt.Sprintf("commit %d", i),
			map[string]string{
				fmt.Sprintf("file%d.txt", i): fmt.Sprintf("content %d", i),
			},
		)
	}
	return repo
}
