package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		repo, branch string
		want         RepoRef
	}{
		{"acme/shop", "", RepoRef{"acme", "shop", "main"}},
		{" acme/shop ", "dev", RepoRef{"acme", "shop", "dev"}},
		{"https://github.com/facebook/react", "", RepoRef{"facebook", "react", "main"}},
		{"https://github.com/facebook/react.git", "feature/x", RepoRef{"facebook", "react", "feature/x"}},
		{"github.com/vercel/next.js/tree/canary", "canary", RepoRef{"vercel", "next.js", "canary"}},
	}
	for _, tt := range tests {
		got, err := ParseRepoRef(tt.repo, tt.branch)
		require.NoError(t, err, tt.repo)
		assert.Equal(t, tt.want, got, tt.repo)
	}
}

func TestParseRepoRefRejectsMalformedInput(t *testing.T) {
	for _, tc := range []struct{ repo, branch string }{
		{"", ""},
		{"just-a-name", ""},
		{"a/b/c", ""},
		{"-bad/shop", ""},
		{"acme/shop", "../etc"},
		{"acme/shop", "has space"},
	} {
		_, err := ParseRepoRef(tc.repo, tc.branch)
		assert.ErrorIs(t, err, ErrInvalidInput, "%q@%q", tc.repo, tc.branch)
	}
}

func TestNewRepoRef(t *testing.T) {
	ref, err := NewRepoRef("acme", "shop", "")
	require.NoError(t, err)
	assert.Equal(t, "acme/shop@main", ref.String())

	_, err = NewRepoRef("acme", "sh op", "main")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
