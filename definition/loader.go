package definition

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/logging"
)

//go:embed templates
var embedded embed.FS

// Embedded returns the built-in template store rooted at the kind directories.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err) // embedded layout is fixed at build time
	}
	return sub
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// FS is the resource store; defaults to Embedded().
	FS fs.FS
	// DisableCache re-reads resources on every call.
	DisableCache bool
	Logger       logging.Logger
}

// Loader reads, parses and renders definition resources. Parsed resources
// are cached; resources are treated as immutable for the loader lifetime.
// A Loader is safe for concurrent use.
type Loader struct {
	fsys    fs.FS
	noCache bool
	logger  logging.Logger

	mu    sync.RWMutex
	cache map[string]*document
}

// NewLoader constructs a Loader.
func NewLoader(optFns ...func(o *LoaderOptions)) *Loader {
	opts := LoaderOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.FS == nil {
		opts.FS = Embedded()
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Loader{
		fsys:    opts.FS,
		noCache: opts.DisableCache,
		logger:  opts.Logger,
		cache:   map[string]*document{},
	}
}

// LoadAgent renders the agent definition for (domain, agentType).
func (l *Loader) LoadAgent(domain, agentType string, params map[string]any) (*AgentDefinition, error) {
	doc, err := l.document(KindAgent, domain, agentType)
	if err != nil {
		return nil, err
	}

	p := doc.mergeParams(params)

	return &AgentDefinition{
		Role:      doc.render("role", p),
		Goal:      doc.render("goal", p),
		Backstory: doc.render("backstory", p),
		Meta:      cloneMeta(doc.meta),
	}, nil
}

// LoadTask renders the task definition for (domain, taskType).
func (l *Loader) LoadTask(domain, taskType string, params map[string]any) (*TaskDefinition, error) {
	doc, err := l.document(KindTask, domain, taskType)
	if err != nil {
		return nil, err
	}

	p := doc.mergeParams(params)

	return &TaskDefinition{
		Description:    doc.render("description", p),
		ExpectedOutput: doc.render("expected_output", p),
		Meta:           cloneMeta(doc.meta),
	}, nil
}

// Meta returns the front matter of a resource without rendering it.
func (l *Loader) Meta(kind Kind, domain, typ string) (Meta, error) {
	doc, err := l.document(kind, domain, typ)
	if err != nil {
		return Meta{}, err
	}

	return cloneMeta(doc.meta), nil
}

// Exists reports whether a resource is present.
func (l *Loader) Exists(kind Kind, domain, typ string) bool {
	_, err := l.document(kind, domain, typ)
	return err == nil
}

// Types lists the resource types per domain for kind, sorted by name.
func (l *Loader) Types(kind Kind) (map[string][]string, error) {
	out := map[string][]string{}

	err := fs.WalkDir(l.fsys, string(kind), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}

		rel := strings.TrimPrefix(p, string(kind)+"/")
		domain, file, ok := strings.Cut(rel, "/")
		if !ok || strings.Contains(file, "/") {
			return nil
		}

		out[domain] = append(out[domain], strings.TrimSuffix(file, ".md"))

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	for _, types := range out {
		sort.Strings(types)
	}

	return out, nil
}

func (l *Loader) document(kind Kind, domain, typ string) (*document, error) {
	if !nameRe.MatchString(domain) || !nameRe.MatchString(typ) {
		return nil, fmt.Errorf("%w: definition name %q/%q", core.ErrInvalidArgument, domain, typ)
	}

	key := path.Join(string(kind), domain, typ+".md")

	if !l.noCache {
		l.mu.RLock()
		doc, ok := l.cache[key]
		l.mu.RUnlock()
		if ok {
			return doc, nil
		}
	}

	data, err := fs.ReadFile(l.fsys, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s definition %s/%s", core.ErrNotFound, strings.TrimSuffix(string(kind), "s"), domain, typ)
		}
		return nil, fmt.Errorf("read definition %s: %w", key, err)
	}

	doc, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse definition %s: %w", key, err)
	}

	l.logger.Debug("definition.loaded", "resource", key, "sections", len(doc.sections))

	if !l.noCache {
		l.mu.Lock()
		l.cache[key] = doc
		l.mu.Unlock()
	}

	return doc, nil
}
