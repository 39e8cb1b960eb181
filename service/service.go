package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/agentnet/artifact"
	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/definition"
	"github.com/hupe1980/agentnet/domain"
	"github.com/hupe1980/agentnet/engine"
	"github.com/hupe1980/agentnet/factory"
	"github.com/hupe1980/agentnet/logging"
	"github.com/hupe1980/agentnet/network"
)

// AdhocNetworkID is the archive key of runs started through Execute.
const AdhocNetworkID = "adhoc"

// Options configures a Service.
type Options struct {
	// Engine runs crews. Defaults to engine.New().
	Engine *engine.Engine
	// Reports archives run results. Defaults to an in-memory store.
	Reports artifact.Store
	// Loader supplies definition front matter for the catalogue. Defaults
	// to the embedded definitions.
	Loader *definition.Loader
	// DefaultDomain is used for nodes without a domain.
	DefaultDomain string
	// Now supplies report timestamps. Defaults to time.Now.
	Now    func() time.Time
	Logger logging.Logger
}

// Service owns a set of named networks.
type Service struct {
	registry *factory.Registry
	opts     Options
	validate *validator.Validate

	mu       sync.RWMutex
	networks map[string]*entry
}

type entry struct {
	mu  sync.Mutex
	net *network.Network
}

// New creates a Service whose networks resolve types through registry.
func New(registry *factory.Registry, optFns ...func(o *Options)) *Service {
	opts := Options{
		DefaultDomain: network.DefaultDomain,
		Now:           time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Engine == nil {
		opts.Engine = engine.New(func(o *engine.Options) { o.Logger = opts.Logger })
	}

	if opts.Reports == nil {
		opts.Reports = artifact.NewInMemoryStore()
	}

	if opts.Loader == nil {
		opts.Loader = definition.NewLoader()
	}

	return &Service{
		registry: registry,
		opts:     opts,
		validate: newValidator(),
		networks: map[string]*entry{},
	}
}

// Registry returns the factory registry networks are built against.
func (s *Service) Registry() *factory.Registry { return s.registry }

// Engine returns the engine used for runs.
func (s *Service) Engine() *engine.Engine { return s.opts.Engine }

// NewNetwork returns an empty network bound to the service registry. It is
// not registered with the service.
func (s *Service) NewNetwork(id string) *network.Network {
	n := network.New(func(o *network.Options) {
		o.Registry = s.registry
		o.DefaultDomain = s.opts.DefaultDomain
		o.Logger = s.opts.Logger
	})
	n.ID = id

	return n
}

func (s *Service) build(id string, d *network.Description) (*network.Network, error) {
	if err := s.validateDescription(d); err != nil {
		return nil, err
	}

	n := s.NewNetwork(id)
	if err := n.Apply(d); err != nil {
		return nil, err
	}

	return n, nil
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.networks[id]
	if !ok {
		return nil, fmt.Errorf("%w: network %s", core.ErrNotFound, id)
	}

	return e, nil
}

// CreateNetwork registers an empty network. An empty id is replaced by
// "network_<n>" with n one past the number of known networks, skipping ids
// already taken.
func (s *Service) CreateNetwork(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		for n := len(s.networks) + 1; ; n++ {
			id = fmt.Sprintf("network_%d", n)
			if _, taken := s.networks[id]; !taken {
				break
			}
		}
	} else if _, exists := s.networks[id]; exists {
		return "", fmt.Errorf("%w: network %s", core.ErrAlreadyExists, id)
	}

	s.networks[id] = &entry{net: s.NewNetwork(id)}

	s.opts.Logger.Info("service.network.created", "network_id", id)

	return id, nil
}

// UpdateNetwork replaces the content of an existing network with d. The
// previous network stays in place when d is invalid.
func (s *Service) UpdateNetwork(id string, d *network.Description) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	n, err := s.build(id, d)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.net = n
	e.mu.Unlock()

	s.opts.Logger.Info("service.network.updated", "network_id", id, "agents", len(d.Agents), "tasks", len(d.Tasks))

	return nil
}

// SaveNetwork returns the description of a network and, when path is not
// empty, writes it as an indented JSON file.
func (s *Service) SaveNetwork(id, path string) (*network.Description, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if path != "" {
		if err := e.net.Save(path); err != nil {
			return nil, err
		}
		s.opts.Logger.Info("service.network.saved", "network_id", id, "path", path)
	}

	return e.net.Describe(), nil
}

// LoadNetwork builds a network from the file at path, or from d when path
// is empty, and stores it under id. Unknown ids are created.
func (s *Service) LoadNetwork(id, path string, d *network.Description) error {
	if id == "" {
		return fmt.Errorf("%w: network id is required", core.ErrInvalidArgument)
	}

	if path != "" {
		var err error
		if d, err = network.ReadDescription(path); err != nil {
			return err
		}
	}

	if d == nil {
		return fmt.Errorf("%w: no description or path provided", core.ErrInvalidArgument)
	}

	n, err := s.build(id, d)
	if err != nil {
		return err
	}

	s.mu.Lock()
	e, ok := s.networks[id]
	if !ok {
		s.networks[id] = &entry{net: n}
	}
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.net = n
		e.mu.Unlock()
	}

	s.opts.Logger.Info("service.network.loaded", "network_id", id, "path", path)

	return nil
}

// DeleteNetwork forgets a network. Archived reports are kept.
func (s *Service) DeleteNetwork(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.networks[id]; !ok {
		return fmt.Errorf("%w: network %s", core.ErrNotFound, id)
	}

	delete(s.networks, id)

	return nil
}

// NetworkIDs returns the known network ids, sorted.
func (s *Service) NetworkIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.networks))
	for id := range s.networks {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Describe returns the description of a network.
func (s *Service) Describe(id string) (*network.Description, error) {
	return s.SaveNetwork(id, "")
}

// Order returns the execution order of a network's tasks without
// instantiating anything.
func (s *Service) Order(id string) ([]string, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.net.Order()
}

// RunNetwork executes a network. An empty name becomes "Crew <id>".
//
// Configuration problems (unknown types, cycles, missing definitions) are
// returned as errors. Once execution started, failures are reported in the
// returned RunResult with status "failed" and a nil error.
func (s *Service) RunNetwork(ctx context.Context, id, name, description string) (*RunResult, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = "Crew " + id
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return s.run(ctx, id, e.net, name, description)
}

// Execute builds a throwaway network from d and runs it. Reports are
// archived under AdhocNetworkID.
func (s *Service) Execute(ctx context.Context, d *network.Description) (*RunResult, error) {
	n, err := s.build(AdhocNetworkID, d)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, AdhocNetworkID, n, "", "")
}

// Run executes a network built by the caller. Reports are archived under
// n.ID, or AdhocNetworkID when the network has no id.
func (s *Service) Run(ctx context.Context, n *network.Network, name, description string) (*RunResult, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: network is nil", core.ErrInvalidArgument)
	}

	id := n.ID
	if id == "" {
		id = AdhocNetworkID
	}

	return s.run(ctx, id, n, name, description)
}

// Report returns an archived run.
func (s *Service) Report(networkID, runID string) (*RunResult, error) {
	data, err := s.opts.Reports.Get(networkID, runID)
	if err != nil {
		return nil, err
	}

	var res RunResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}

	return &res, nil
}

// Runs lists the archived run ids of a network.
func (s *Service) Runs(networkID string) ([]string, error) {
	return s.opts.Reports.List(networkID)
}

// Catalogue lists every registered domain with its agent and task types.
func (s *Service) Catalogue() ([]domain.Info, error) {
	return domain.Catalogue(s.registry, s.opts.Loader)
}

// AgentTypes returns the agent types per domain.
func (s *Service) AgentTypes() map[string][]string {
	out := map[string][]string{}
	for _, d := range s.registry.Domains() {
		out[d] = s.registry.AgentTypes(d)
	}
	return out
}

// TaskTypes returns the task types per domain.
func (s *Service) TaskTypes() map[string][]string {
	out := map[string][]string{}
	for _, d := range s.registry.Domains() {
		out[d] = s.registry.TaskTypes(d)
	}
	return out
}

// AgentParams returns the parameter names an agent type understands.
func (s *Service) AgentParams(domainName, agentType string) ([]string, error) {
	return s.params(definition.KindAgent, domainName, agentType)
}

// TaskParams returns the parameter names a task type understands.
func (s *Service) TaskParams(domainName, taskType string) ([]string, error) {
	return s.params(definition.KindTask, domainName, taskType)
}

func (s *Service) params(kind definition.Kind, domainName, typ string) ([]string, error) {
	if domainName == "" || typ == "" {
		return nil, fmt.Errorf("%w: domain and type are required", core.ErrInvalidArgument)
	}

	ti, err := domain.Describe(s.registry, s.opts.Loader, kind, domainName, typ)
	if err != nil {
		return nil, err
	}

	return ti.Params, nil
}

func (s *Service) now() time.Time { return s.opts.Now() }
