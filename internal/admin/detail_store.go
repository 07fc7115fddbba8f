package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrSuperseded is returned by a load whose result was dropped because a
	// newer load for another id was started after it
	ErrSuperseded = errors.New("superseded by a newer request")

	// ErrNotReconciled is returned by Update when the server accepted the
	// change but did not echo the record and there is no selected copy of it
	// to merge the patch into
	ErrNotReconciled = errors.New("update applied but record not available locally")
)

// DetailState is a snapshot of a DetailStore. Selected keeps the last
// successful load while a new one is in flight or after it failed, so stale
// data may be shown next to Error.
type DetailState[T any] struct {
	SelectedID    string                     `json:"selected_id,omitempty"`
	Selected      *T                         `json:"selected"`
	RelatedID     string                     `json:"related_id,omitempty"`
	Related       map[string]json.RawMessage `json:"related"`
	LoadingDetail bool                       `json:"loading_detail"`
	Loading       map[string]bool            `json:"loading"`
	Error         string                     `json:"error,omitempty"`
	RelatedErrors map[string]string          `json:"related_errors,omitempty"`
}

// DetailStore loads one entity of a resource and its related panels. Each
// related fetch runs in parallel and has its own loading flag and error.
// Reset tears the store down and cancels every request still in flight.
type DetailStore[T any] struct {
	api      API
	resource Resource

	mu       sync.Mutex
	state    DetailState[T]
	gen      uint64
	detailID string // id of the most recent LoadDetail
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDetailStore creates a store for a resource
func NewDetailStore[T any](api API, resource Resource) *DetailStore[T] {
	s := &DetailStore[T]{api: api, resource: resource}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.state = emptyState[T]()
	return s
}

func emptyState[T any]() DetailState[T] {
	return DetailState[T]{
		Related:       map[string]json.RawMessage{},
		Loading:       map[string]bool{},
		RelatedErrors: map[string]string{},
	}
}

// Resource returns the resource the store loads
func (s *DetailStore[T]) Resource() Resource {
	return s.resource
}

// begin returns a request context bound to both the caller and the store,
// plus the generation it belongs to
func (s *DetailStore[T]) begin(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	s.mu.Lock()
	storeCtx, gen := s.ctx, s.gen
	s.mu.Unlock()

	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(storeCtx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}, gen
}

// LoadDetail fetches the primary record. On failure the previously loaded
// record stays selected and Error is set. Only the most recently requested
// id may land; an older response returns ErrSuperseded.
func (s *DetailStore[T]) LoadDetail(ctx context.Context, id string) (*T, error) {
	reqCtx, done, gen := s.begin(ctx)
	defer done()

	s.mu.Lock()
	if gen == s.gen {
		s.detailID = id
		s.state.LoadingDetail = true
	}
	s.mu.Unlock()

	data, err := s.api.Get(reqCtx, s.resource.DetailPath(id))

	var record *T
	if err == nil {
		record, err = decode[T](data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, context.Canceled
	}
	if s.detailID != id {
		return nil, ErrSuperseded
	}
	s.state.LoadingDetail = false
	if err != nil {
		s.state.Error = err.Error()
		return nil, err
	}
	s.state.SelectedID = id
	s.state.Selected = record
	s.state.Error = ""
	return record, nil
}

// LoadRelated fetches every related panel in parallel and waits for all of
// them. Failures are recorded per panel and joined into the returned error.
func (s *DetailStore[T]) LoadRelated(ctx context.Context, id string) error {
	if len(s.resource.Related) == 0 {
		return nil
	}

	reqCtx, done, gen := s.begin(ctx)
	defer done()

	s.mu.Lock()
	if gen == s.gen {
		// panels of another entity must not leak into this one
		if s.state.RelatedID != id {
			s.state.RelatedID = id
			s.state.Related = map[string]json.RawMessage{}
			s.state.RelatedErrors = map[string]string{}
		}
		for _, rel := range s.resource.Related {
			s.state.Loading[rel.Name] = true
		}
	}
	s.mu.Unlock()

	errs := make([]error, len(s.resource.Related))
	var wg sync.WaitGroup
	for i, rel := range s.resource.Related {
		wg.Add(1)
		go func(i int, rel Related) {
			defer wg.Done()
			data, err := s.api.Get(reqCtx, s.resource.RelatedPath(id, rel))

			s.mu.Lock()
			defer s.mu.Unlock()
			if gen != s.gen || s.state.RelatedID != id {
				errs[i] = context.Canceled
				return
			}
			s.state.Loading[rel.Name] = false
			if err != nil {
				s.state.RelatedErrors[rel.Name] = err.Error()
				errs[i] = fmt.Errorf("%s: %w", rel.Name, err)
				return
			}
			delete(s.state.RelatedErrors, rel.Name)
			s.state.Related[rel.Name] = data
		}(i, rel)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Load fetches the record and its related panels concurrently. The record
// is available in the state as soon as it resolves.
func (s *DetailStore[T]) Load(ctx context.Context, id string) (*T, error) {
	var (
		record     *T
		detailErr  error
		relatedErr error
		wg         sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		record, detailErr = s.LoadDetail(ctx, id)
	}()
	go func() {
		defer wg.Done()
		relatedErr = s.LoadRelated(ctx, id)
	}()
	wg.Wait()

	if detailErr != nil {
		return nil, detailErr
	}
	return record, relatedErr
}

// Update sends a partial update. When the server echoes the record it
// replaces the selected one, otherwise the patch is merged into it. Without
// an echo or a selected copy of id, ErrNotReconciled is returned.
func (s *DetailStore[T]) Update(ctx context.Context, id string, patch interface{}) (*T, error) {
	reqCtx, done, gen := s.begin(ctx)
	defer done()

	data, err := s.api.Put(reqCtx, s.resource.DetailPath(id), patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, context.Canceled
	}

	var updated *T
	switch {
	case data != nil:
		updated, err = decode[T](data)
	case s.state.SelectedID == id && s.state.Selected != nil:
		updated, err = mergePatch(s.state.Selected, patch)
	default:
		return nil, ErrNotReconciled
	}
	if err != nil {
		return nil, err
	}

	if s.state.SelectedID == id {
		s.state.Selected = updated
	}
	return updated, nil
}

// Delete deletes the record. If it is the selected one the store is
// cleared.
func (s *DetailStore[T]) Delete(ctx context.Context, id string) error {
	reqCtx, done, gen := s.begin(ctx)
	defer done()

	if err := s.api.Delete(reqCtx, s.resource.DetailPath(id)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.state.SelectedID == id {
		s.state = emptyState[T]()
	}
	return nil
}

// Reset clears the store and cancels outstanding requests. Results of
// requests started before Reset are discarded.
func (s *DetailStore[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.gen++
	s.detailID = ""
	s.state = emptyState[T]()
}

// Snapshot returns a copy of the current state
func (s *DetailStore[T]) Snapshot() DetailState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	out.Related = make(map[string]json.RawMessage, len(s.state.Related))
	for k, v := range s.state.Related {
		out.Related[k] = v
	}
	out.Loading = make(map[string]bool, len(s.state.Loading))
	for k, v := range s.state.Loading {
		out.Loading[k] = v
	}
	out.RelatedErrors = make(map[string]string, len(s.state.RelatedErrors))
	for k, v := range s.state.RelatedErrors {
		out.RelatedErrors[k] = v
	}
	return out
}

func decode[T any](data json.RawMessage) (*T, error) {
	if data == nil {
		return nil, errors.New("empty response")
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &out, nil
}

// mergePatch overlays the JSON fields of patch onto current
func mergePatch[T any](current *T, patch interface{}) (*T, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}

	overlay, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	changes := map[string]json.RawMessage{}
	if err := json.Unmarshal(overlay, &changes); err != nil {
		return nil, fmt.Errorf("patch must be an object: %w", err)
	}
	for k, v := range changes {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return decode[T](merged)
}
