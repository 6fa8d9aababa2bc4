package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error classes the HTTP layer maps onto status codes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

var (
	githubNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,99}$`)
	branchRe     = regexp.MustCompile(`^[A-Za-z0-9._/-]{1,255}$`)
	repoURLRe    = regexp.MustCompile(`^(?:https?://)?(?:www\.)?github\.com/([^/\s]+)/([^/\s#?]+)`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("github_name", func(fl validator.FieldLevel) bool {
		return githubNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("branch", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return branchRe.MatchString(s) && !strings.Contains(s, "..") &&
			!strings.HasPrefix(s, "/") && !strings.HasSuffix(s, "/")
	})
	return v
}

// RepoRef names a repository at a branch.
type RepoRef struct {
	Owner  string `json:"owner"  validate:"required,github_name"`
	Name   string `json:"name"   validate:"required,github_name"`
	Branch string `json:"branch" validate:"required,branch"`
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name + "@" + r.Branch }

// ParseRepoRef accepts "owner/repo" or a github.com URL (optionally ending in
// .git). An empty branch defaults to "main".
func ParseRepoRef(repo, branch string) (RepoRef, error) {
	repo = strings.TrimSpace(repo)
	var owner, name string
	if m := repoURLRe.FindStringSubmatch(repo); m != nil {
		owner, name = m[1], m[2]
	} else if parts := strings.Split(strings.Trim(repo, "/"), "/"); len(parts) == 2 {
		owner, name = parts[0], parts[1]
	} else {
		return RepoRef{}, fmt.Errorf("%w: expected owner/repo or a github.com URL, got %q", ErrInvalidInput, repo)
	}

	if branch = strings.TrimSpace(branch); branch == "" {
		branch = "main"
	}
	ref := RepoRef{Owner: owner, Name: strings.TrimSuffix(name, ".git"), Branch: branch}
	if err := validateStruct(ref); err != nil {
		return RepoRef{}, err
	}
	return ref, nil
}

// NewRepoRef validates an owner/name pair taken from a route.
func NewRepoRef(owner, name, branch string) (RepoRef, error) {
	if branch == "" {
		branch = "main"
	}
	ref := RepoRef{Owner: owner, Name: name, Branch: branch}
	if err := validateStruct(ref); err != nil {
		return RepoRef{}, err
	}
	return ref, nil
}

// validateStruct runs struct validation and folds failures into ErrInvalidInput.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, ", "))
}
