package luabot

import (
	"context"
	"regexp"
	"strings"
)

// AutoResponse is a canned reply posted when a message mentions one of
// its triggers.
type AutoResponse struct {
	Name     string   `json:"-"`
	Triggers []string `json:"triggers"`
	Response string   `json:"response"`
	Embed    bool     `json:"embed"`
}

// Validate returns an error if the auto-response contains invalid fields.
func (a *AutoResponse) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return Errorf(EINVALID, "auto-response name required")
	}
	if len(a.Triggers) == 0 {
		return Errorf(EINVALID, "auto-response %q needs at least one trigger", a.Name)
	}
	if strings.TrimSpace(a.Response) == "" {
		return Errorf(EINVALID, "auto-response %q needs a response", a.Name)
	}
	return nil
}

// Matches reports whether content contains one of the triggers as whole
// words, ignoring case.
func (a *AutoResponse) Matches(content string) bool {
	lower := strings.ToLower(content)
	for _, trigger := range a.Triggers {
		trigger = strings.ToLower(strings.TrimSpace(trigger))
		if trigger == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(trigger) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// AutoResponseService manages auto-responses.
type AutoResponseService interface {
	// ListAutoResponses returns every auto-response ordered by name.
	ListAutoResponses(ctx context.Context) ([]*AutoResponse, error)

	// SaveAutoResponse creates or replaces the auto-response with the same name.
	SaveAutoResponse(ctx context.Context, a *AutoResponse) error

	// DeleteAutoResponse removes an auto-response.
	// Returns ENOTFOUND if it does not exist.
	DeleteAutoResponse(ctx context.Context, name string) error
}

// MatchAutoResponse returns the first auto-response triggered by content,
// or nil.
func MatchAutoResponse(responses []*AutoResponse, content string) *AutoResponse {
	for _, a := range responses {
		if a.Matches(content) {
			return a
		}
	}
	return nil
}

// ParseTriggers splits a "|"-separated trigger list, dropping blanks.
func ParseTriggers(s string) []string {
	var triggers []string
	for _, t := range strings.Split(s, "|") {
		if t = strings.TrimSpace(t); t != "" {
			triggers = append(triggers, t)
		}
	}
	return triggers
}

// DefaultAutoResponses returns the auto-responses a new store is seeded with.
func DefaultAutoResponses() []*AutoResponse {
	return []*AutoResponse{
		{
			Name:     "getting_started",
			Triggers: []string{"getting started", "how to use", "first script"},
			Response: "To get started with ScheduleLua, follow our Getting Started guide: https://ifbars.github.io/ScheduleLua-Docs/guide/getting-started.html",
			Embed:    true,
		},
		{
			Name:     "install",
			Triggers: []string{"how to install", "installation", "setup guide"},
			Response: "To install ScheduleLua, check out our installation guide: https://ifbars.github.io/ScheduleLua-Docs/guide/installation.html",
			Embed:    true,
		},
	}
}
