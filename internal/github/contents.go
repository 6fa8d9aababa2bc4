package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/ahmednasr/contexthub/internal/models"
)

// binaryExtensions are served as a download URL instead of decoded text.
var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {}, ".webp": {},
	".pdf": {}, ".zip": {}, ".tar": {}, ".gz": {}, ".rar": {}, ".7z": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {},
	".mp3": {}, ".mp4": {}, ".mov": {}, ".avi": {}, ".wav": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
}

// readmeCandidates are tried in order by FetchREADME.
var readmeCandidates = []string{"README.md", "README", "readme.md", "Readme.md"}

// IsBinaryPath reports whether p has a known binary extension.
func IsBinaryPath(p string) bool {
	_, ok := binaryExtensions[strings.ToLower(path.Ext(p))]
	return ok
}

type contentResponse struct {
	Type        string `json:"type"`
	Path        string `json:"path"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
	DownloadURL string `json:"download_url"`
}

// FetchRepoTree resolves heads/<branch> and returns the recursive tree.
func (c *Client) FetchRepoTree(ctx context.Context, owner, repo, branch string) ([]models.TreeItem, error) {
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if err := c.get(ctx, c.repoURL(owner, repo, "git", "ref", "heads", branch), nil, &ref); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("repository %s/%s not found or branch %q doesn't exist: %w", owner, repo, branch, err)
		}
		return nil, fmt.Errorf("resolve branch %s: %w", branch, err)
	}

	var tree struct {
		Tree      []models.TreeItem `json:"tree"`
		Truncated bool              `json:"truncated"`
	}
	q := url.Values{"recursive": {"1"}}
	if err := c.get(ctx, c.repoURL(owner, repo, "git", "trees", ref.Object.SHA), q, &tree); err != nil {
		return nil, fmt.Errorf("fetch tree %s: %w", ref.Object.SHA, err)
	}
	if tree.Truncated {
		log.Printf("[GitHub] tree for %s/%s@%s was truncated (%d entries)", owner, repo, branch, len(tree.Tree))
	}
	return tree.Tree, nil
}

// fallbackBranches are tried in order when a file is missing on "main".
var fallbackBranches = []string{"master", "develop"}

// FetchFileContent returns the decoded contents of a single file. A 404 on
// branch "main" is retried on each of fallbackBranches.
func (c *Client) FetchFileContent(ctx context.Context, owner, repo, filePath, branch string) (models.FileContent, error) {
	clean := strings.Trim(filePath, "/")
	if clean == "" {
		return models.FileContent{}, fmt.Errorf("empty file path")
	}

	fc, err := c.fetchContent(ctx, owner, repo, clean, branch)
	if branch == "main" {
		for _, fb := range fallbackBranches {
			if err == nil || !IsNotFound(err) {
				break
			}
			log.Printf("[GitHub] %s not found, retrying on %s", clean, fb)
			fc, err = c.fetchContent(ctx, owner, repo, clean, fb)
		}
	}
	if err != nil {
		return models.FileContent{}, fmt.Errorf("fetch %s: %w", clean, err)
	}
	return fc, nil
}

func (c *Client) fetchContent(ctx context.Context, owner, repo, clean, branch string) (models.FileContent, error) {
	segments := strings.Split(clean, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := c.repoURL(owner, repo, "contents", strings.Join(segments, "/"))

	var raw json.RawMessage
	if err := c.get(ctx, u, url.Values{"ref": {branch}}, &raw); err != nil {
		return models.FileContent{}, err
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return models.FileContent{}, fmt.Errorf("%s is a directory, not a file", clean)
	}

	var res contentResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return models.FileContent{}, err
	}
	if res.Type != "" && res.Type != "file" {
		return models.FileContent{}, fmt.Errorf("%s is a %s, not a file", clean, res.Type)
	}

	if IsBinaryPath(clean) {
		return models.FileContent{Path: clean, Binary: true, DownloadURL: res.DownloadURL}, nil
	}

	text := res.Content
	if res.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(res.Content, "\n", ""))
		if err != nil {
			return models.FileContent{}, fmt.Errorf("decode %s: %w", clean, err)
		}
		text = string(decoded)
	}
	return models.FileContent{Path: clean, Content: text, DownloadURL: res.DownloadURL}, nil
}

// FetchREADME tries the usual README file names and returns the first hit.
func (c *Client) FetchREADME(ctx context.Context, owner, repo, branch string) (models.FileContent, error) {
	for _, name := range readmeCandidates {
		fc, err := c.FetchFileContent(ctx, owner, repo, name, branch)
		if err == nil {
			return fc, nil
		}
		if !IsNotFound(err) {
			return models.FileContent{}, err
		}
	}
	return models.FileContent{}, fmt.Errorf("README not found in %s/%s: %w", owner, repo, ErrNotFound)
}
