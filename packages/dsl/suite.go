package dsl

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/abdul-hamid-achik/hitdoc/packages/core/config"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	hhttp "github.com/abdul-hamid-achik/hitdoc/packages/http"
	"github.com/abdul-hamid-achik/hitdoc/packages/output"
)

// ErrNoApp is returned when neither an App nor a BaseURL is configured.
var ErrNoApp = errors.New("no app or base URL configured")

// Suite is a set of documented resources.
type Suite struct {
	cfg    *config.Config
	groups []*Group
	views  []*document.View

	transportOnce sync.Once
	transportImpl hhttp.Transport
	transportErr  error
}

// NewSuite creates a suite. A nil cfg uses config.Default(); unset fields
// fall back to the package defaults.
func NewSuite(cfg *config.Config) *Suite {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Suite{cfg: config.DefaultConfig().Merge(cfg)}
}

func (s *Suite) Config() *config.Config {
	return s.cfg
}

// Resource declares a top-level group documented under name.
func (s *Suite) Resource(name string, fn func(g *Group)) *Group {
	g := newGroup(s, nil, name)
	g.meta[document.KeyResourceName] = name
	g.meta[document.KeyDocument] = document.FlagOn()
	s.groups = append(s.groups, g)
	if fn != nil {
		fn(g)
	}
	return g
}

// Err returns every definition error in the suite.
func (s *Suite) Err() error {
	var errs []error
	for _, g := range s.groups {
		if err := g.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run executes every example as a subtest, outer group examples before
// nested groups. When OutputDir is configured the collected records are
// written to RecordsPath afterwards.
func (s *Suite) Run(t *testing.T) {
	t.Helper()
	if err := s.Err(); err != nil {
		t.Fatalf("invalid documentation: %v", err)
	}
	for _, g := range s.groups {
		s.runGroup(t, g)
	}
	if s.cfg.OutputDir != "" {
		if err := s.WriteRecords(); err != nil {
			t.Errorf("writing records: %v", err)
		}
	}
}

func (s *Suite) runGroup(t *testing.T, g *Group) {
	t.Run(g.description, func(t *testing.T) {
		for _, def := range g.examples {
			s.runExample(t, g, def)
		}
		for _, child := range g.children {
			s.runGroup(t, child)
		}
	})
}

func (s *Suite) runExample(t *testing.T, g *Group, def *exampleDef) {
	t.Run(def.description, func(t *testing.T) {
		e := newExample(t, g, def)
		defer func() {
			e.skipped = t.Skipped()
			s.views = append(s.views, document.NewView(e))
		}()
		if def.pending {
			t.Skip(def.pendingReason)
		}
		for _, hook := range g.beforeHooks() {
			hook(e)
		}
		if def.fn != nil {
			def.fn(e)
		}
	})
}

// Views returns a view of every example run so far, in run order.
func (s *Suite) Views() []*document.View {
	return s.views
}

// Sections returns the documented views grouped by resource.
func (s *Suite) Sections() []document.Section {
	return document.Sections(document.Documented(s.views, s.cfg.Filters()))
}

// WriteRecords writes every view to the configured records file.
func (s *Suite) WriteRecords() error {
	if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return output.WriteRecordsFile(s.cfg.RecordsPath(), s.views)
}

func (s *Suite) transport() (hhttp.Transport, error) {
	s.transportOnce.Do(func() {
		switch {
		case s.cfg.BaseURL != "":
			opts := []hhttp.ClientOption{
				hhttp.WithTimeout(s.cfg.TimeoutDuration()),
				hhttp.WithFollowRedirects(s.cfg.GetFollowRedirects()),
				hhttp.WithValidateSSL(s.cfg.GetValidateSSL()),
			}
			if s.cfg.MaxRedirects > 0 {
				opts = append(opts, hhttp.WithMaxRedirects(s.cfg.MaxRedirects))
			}
			if s.cfg.Proxy != "" {
				opts = append(opts, hhttp.WithProxy(s.cfg.Proxy))
			}
			s.transportImpl, s.transportErr = hhttp.NewClient(s.cfg.BaseURL, opts...)
		case s.cfg.App != nil:
			s.transportImpl = hhttp.NewHandlerTransport(s.cfg.App, s.cfg.Host)
		default:
			s.transportErr = ErrNoApp
		}
	})
	return s.transportImpl, s.transportErr
}
