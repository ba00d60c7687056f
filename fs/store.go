package fs

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/schedulelua/luabot"
)

// Ensure the stores implement their luabot interfaces at compile time.
var (
	_ luabot.VersionStore        = (*VersionStore)(nil)
	_ luabot.AutoResponseService = (*AutoResponseService)(nil)
	_ luabot.RuleService         = (*RuleService)(nil)
	_ luabot.QuoteService        = (*QuoteService)(nil)
)

// VersionStore keeps the VersionRecord in a single JSON object.
type VersionStore struct {
	path string
	mu   sync.Mutex

	// Logger receives a warning when the file cannot be read. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// NewVersionStore returns a VersionStore backed by dataDir/VersionFile.
func NewVersionStore(dataDir string) *VersionStore {
	return &VersionStore{path: filepath.Join(dataDir, VersionFile)}
}

func (s *VersionStore) LoadVersionRecord(ctx context.Context) (*luabot.VersionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec luabot.VersionRecord
	if _, err := readJSON(s.path, &rec); err != nil {
		if luabot.ErrorCode(err) != luabot.EPARSE {
			return nil, err
		}
		// Treat a corrupt file as no record.
		s.logger().Warn("ignoring version record", "path", s.path, "error", err)
		return &luabot.VersionRecord{}, nil
	}
	return &rec, nil
}

func (s *VersionStore) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *VersionStore) SaveVersionRecord(ctx context.Context, rec *luabot.VersionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path, rec)
}

// AutoResponseService keeps auto-responses in a JSON object keyed by name.
// A missing or empty file is seeded with luabot.DefaultAutoResponses.
type AutoResponseService struct {
	path string
	mu   sync.Mutex
}

// NewAutoResponseService returns a service backed by dataDir/AutoResponsesFile.
func NewAutoResponseService(dataDir string) *AutoResponseService {
	return &AutoResponseService{path: filepath.Join(dataDir, AutoResponsesFile)}
}

func (s *AutoResponseService) ListAutoResponses(ctx context.Context) ([]*luabot.AutoResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	list := make([]*luabot.AutoResponse, 0, len(m))
	for _, a := range m {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (s *AutoResponseService) SaveAutoResponse(ctx context.Context, a *luabot.AutoResponse) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[a.Name] = a
	return writeJSON(s.path, m)
}

func (s *AutoResponseService) DeleteAutoResponse(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[name]; !ok {
		return luabot.Errorf(luabot.ENOTFOUND, "Auto-response '%s' not found.", name)
	}
	delete(m, name)
	return writeJSON(s.path, m)
}

func (s *AutoResponseService) load() (map[string]*luabot.AutoResponse, error) {
	m := make(map[string]*luabot.AutoResponse)
	ok, err := readJSON(s.path, &m)
	if err != nil {
		return nil, err
	}
	if !ok || len(m) == 0 {
		m = make(map[string]*luabot.AutoResponse)
		for _, a := range luabot.DefaultAutoResponses() {
			m[a.Name] = a
		}
		if err := writeJSON(s.path, m); err != nil {
			return nil, err
		}
	}
	for name, a := range m {
		a.Name = name
	}
	return m, nil
}

// RuleService keeps the rules as a JSON array. A missing or empty file is
// seeded with luabot.DefaultRules.
type RuleService struct {
	path string
	mu   sync.Mutex
}

// NewRuleService returns a service backed by dataDir/RulesFile.
func NewRuleService(dataDir string) *RuleService {
	return &RuleService{path: filepath.Join(dataDir, RulesFile)}
}

func (s *RuleService) ListRules(ctx context.Context) ([]*luabot.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *RuleService) SetRule(ctx context.Context, number int, rule *luabot.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.load()
	if err != nil {
		return err
	}
	rules, err = luabot.SetRuleAt(rules, number, rule)
	if err != nil {
		return err
	}
	return writeJSON(s.path, rules)
}

func (s *RuleService) ReplaceRule(ctx context.Context, number int, rule *luabot.Rule) (*luabot.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.load()
	if err != nil {
		return nil, err
	}
	prev, err := luabot.ReplaceRuleAt(rules, number, rule)
	if err != nil {
		return nil, err
	}
	return prev, writeJSON(s.path, rules)
}

func (s *RuleService) DeleteRule(ctx context.Context, number int) (*luabot.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.load()
	if err != nil {
		return nil, err
	}
	rules, removed, err := luabot.RemoveRuleAt(rules, number)
	if err != nil {
		return nil, err
	}
	return removed, writeJSON(s.path, rules)
}

func (s *RuleService) load() ([]*luabot.Rule, error) {
	var rules []*luabot.Rule
	ok, err := readJSON(s.path, &rules)
	if err != nil {
		return nil, err
	}
	if !ok || len(rules) == 0 {
		rules = luabot.DefaultRules()
		if err := writeJSON(s.path, rules); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// QuoteService reads quotes from a {"quotes": [...]} JSON file.
type QuoteService struct {
	path string
}

// NewQuoteService returns a service backed by dataDir/QuotesFile.
func NewQuoteService(dataDir string) *QuoteService {
	return &QuoteService{path: filepath.Join(dataDir, QuotesFile)}
}

// ListQuotes returns the quotes, or ENOTFOUND when the file is missing.
func (s *QuoteService) ListQuotes(ctx context.Context) ([]string, error) {
	var data struct {
		Quotes []string `json:"quotes"`
	}
	ok, err := readJSON(s.path, &data)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, luabot.Errorf(luabot.ENOTFOUND, "Quotes file not found.")
	}
	return data.Quotes, nil
}
