package app

import (
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/dshills/pagetree/internal/engine"
)

// Result reports what a dispatched action produced. NodeIndex is the new
// structure node for splitStructure, insertStructure and breakParagraph.
type Result struct {
	PageID    string
	NodeIndex int
}

// Change is delivered to subscribers after an action is applied.
type Change struct {
	Action  Action
	Result  Result
	Summary engine.Summary
}

// Subscriber receives changes. It runs on the dispatching goroutine after
// the store lock is released and must not block.
type Subscriber func(Change)

// Store holds loaded pages keyed by id and applies actions to them one at
// a time.
type Store struct {
	mu          sync.Mutex
	pages       map[string]*engine.Page
	order       []string // load order
	verify      bool
	pageOptions []engine.Option
	logger      *Logger
	metrics     *Metrics

	subMu       sync.RWMutex
	subscribers map[uint64]Subscriber
	nextSub     uint64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the dispatch metrics collector.
func WithMetrics(m *Metrics) StoreOption {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithVerify makes the store validate both trees after every edit.
func WithVerify(verify bool) StoreOption {
	return func(s *Store) {
		s.verify = verify
	}
}

// WithPageOptions sets options applied to every page the store loads,
// before the options of the load itself.
func WithPageOptions(opts ...engine.Option) StoreOption {
	return func(s *Store) {
		s.pageOptions = append(s.pageOptions, opts...)
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		pages:       make(map[string]*engine.Page),
		logger:      NullLogger,
		metrics:     NewMetrics(),
		subscribers: make(map[uint64]Subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("store")
	return s
}

// Metrics returns the dispatch metrics collector.
func (s *Store) Metrics() *Metrics { return s.metrics }

// SetVerify toggles post-edit validation.
func (s *Store) SetVerify(verify bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verify = verify
}

// SetPageOptions replaces the options used for pages loaded from now on.
func (s *Store) SetPageOptions(opts ...engine.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageOptions = slices.Clone(opts)
}

// Load creates a page from text and structure records. An empty id is
// replaced by a generated one; the page id is returned.
func (s *Store) Load(id, text string, records []engine.Record, opts ...engine.Option) (string, error) {
	res, err := s.Dispatch(Action{Type: ActionLoad, PageID: id, Text: text, Structure: records}, opts...)
	return res.PageID, err
}

// Unload removes a page.
func (s *Store) Unload(id string) error {
	_, err := s.Dispatch(Action{Type: ActionUnload, PageID: id})
	return err
}

// Has reports whether a page is loaded under id.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pages[id]
	return ok
}

// IDs returns the loaded page ids in load order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// Snapshot returns a deep copy of a page that later edits do not touch.
func (s *Store) Snapshot(id string) (*engine.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, NewOperationError("snapshot", id, ErrPageNotFound)
	}
	return p.Snapshot(), nil
}

// View calls fn with the live page while holding the store lock. fn must
// not retain the page or call back into the store.
func (s *Store) View(id string, fn func(*engine.Page) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return NewOperationError("view", id, ErrPageNotFound)
	}
	return fn(p)
}

// Subscribe registers fn for changes and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Dispatch applies one action and returns an *OperationError if it is
// rejected. Page operations check their arguments before mutating, so a
// rejected edit leaves the page unchanged. With verify on, the page is also
// restored when the edit fails its invariant check or panics; without it a
// recovered panic may leave the page partly edited. Extra page options apply
// to load only.
func (s *Store) Dispatch(a Action, opts ...engine.Option) (Result, error) {
	log := s.logger.WithFields(map[string]any{"action": a.Type, "page": a.PageID})
	log.Debug("dispatch")

	start := time.Now()
	s.mu.Lock()
	change, err := s.apply(a, opts)
	s.mu.Unlock()
	s.metrics.RecordDispatch(time.Since(start), err)

	if err != nil {
		log.Warn("rejected: %v", err)
		return Result{}, err
	}
	if a.Type != ActionLoad && change.Result.NodeIndex != engine.NoNode {
		s.metrics.RecordStructureNode()
	}
	s.notify(change)
	return change.Result, nil
}

// DispatchAll applies actions in order. It stops at the first failure
// unless keepGoing is set, in which case every failure is collected into
// an *ErrorList.
func (s *Store) DispatchAll(actions []Action, keepGoing bool) ([]Result, error) {
	results := make([]Result, 0, len(actions))
	errs := NewErrorList()
	for k, a := range actions {
		res, err := s.Dispatch(a)
		if err != nil {
			if !keepGoing {
				return results, fmt.Errorf("action %d: %w", k, err)
			}
			errs.Add(fmt.Errorf("action %d: %w", k, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs.AsError()
}

func (s *Store) apply(a Action, opts []engine.Option) (change Change, err error) {
	var before *engine.Page
	defer func() {
		if r := recover(); r != nil {
			err = NewOperationError(string(a.Type), a.PageID, NewRecoveredPanicError(r, string(debug.Stack())))
			s.restore(a.PageID, before)
		}
	}()

	if a.Type == ActionLoad {
		return s.load(a, opts)
	}

	p, ok := s.pages[a.PageID]
	if !ok {
		return Change{}, NewOperationError(string(a.Type), a.PageID, ErrPageNotFound)
	}

	if s.verify && a.Type != ActionUnload {
		before = p.Snapshot()
	}

	res := Result{PageID: a.PageID, NodeIndex: engine.NoNode}
	switch a.Type {
	case ActionUnload:
		delete(s.pages, a.PageID)
		s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == a.PageID })
		s.logger.WithField("page", a.PageID).Info("unloaded")
		return Change{Action: a, Result: res}, nil
	case ActionInsert:
		err = p.Insert(a.Offset, a.Text, a.StructureNodeIndex)
	case ActionDelete:
		err = p.Delete(a.StartOffset, a.EndOffset)
	case ActionReplace:
		err = p.Replace(a.StartOffset, a.EndOffset, a.Text, a.StructureNodeIndex)
	case ActionSplitStructure:
		res.NodeIndex, err = p.SplitStructure(a.NodeIndex, a.NodeContentOffset, a.LocalContentOffset)
	case ActionInsertStructure:
		res.NodeIndex, err = p.InsertStructure(a.Node)
	case ActionBreakParagraph:
		res.NodeIndex, err = p.BreakParagraph(a.Offset, a.StructureNodeIndex)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	if err != nil {
		s.restore(a.PageID, before)
		return Change{}, NewOperationError(string(a.Type), a.PageID, err)
	}

	if s.verify {
		if verr := p.Validate(); verr != nil {
			s.logger.WithField("page", a.PageID).Error("invariant check failed after %s: %v", a.Type, verr)
			s.restore(a.PageID, before)
			return Change{}, NewOperationError(string(a.Type), a.PageID, fmt.Errorf("%w: %w", ErrVerifyFailed, verr))
		}
	}
	return Change{Action: a, Result: res, Summary: p.Summary()}, nil
}

func (s *Store) load(a Action, opts []engine.Option) (Change, error) {
	if a.PageID != "" {
		if _, ok := s.pages[a.PageID]; ok {
			return Change{}, NewOperationError(string(a.Type), a.PageID, ErrPageExists)
		}
	}

	all := slices.Clone(s.pageOptions)
	if a.Newline != "" {
		nl, err := engine.ParseNewline(a.Newline)
		if err != nil {
			return Change{}, NewOperationError(string(a.Type), a.PageID, err)
		}
		all = append(all, engine.WithNewline(nl))
	}
	all = append(all, opts...)
	if a.PageID != "" {
		all = append(all, engine.WithID(a.PageID))
	}
	all = append(all, engine.WithStructure(a.Structure))

	p, err := engine.NewPage(a.Text, all...)
	if err != nil {
		return Change{}, NewOperationError(string(a.Type), a.PageID, err)
	}
	if _, ok := s.pages[p.ID()]; ok {
		return Change{}, NewOperationError(string(a.Type), p.ID(), ErrPageExists)
	}
	if s.verify {
		if verr := p.Validate(); verr != nil {
			return Change{}, NewOperationError(string(a.Type), p.ID(), fmt.Errorf("%w: %w", ErrVerifyFailed, verr))
		}
	}

	s.pages[p.ID()] = p
	s.order = append(s.order, p.ID())
	sum := p.Summary()
	s.logger.WithFields(map[string]any{"page": p.ID(), "length": sum.Length, "nodes": sum.StructureNodes}).Info("loaded")
	return Change{Action: a, Result: Result{PageID: p.ID(), NodeIndex: engine.NoNode}, Summary: sum}, nil
}

// restore puts back the copy taken before a failed edit. A nil copy means
// none was taken.
func (s *Store) restore(id string, before *engine.Page) {
	if before != nil {
		s.pages[id] = before
	}
}

func (s *Store) notify(c Change) {
	s.subMu.RLock()
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(c)
	}
}
