package cart

import "context"

// Subscribe registers fn and returns a func that removes it. fn runs on the
// dispatching goroutine after every action.
func (s *Store) Subscribe(fn Listener) func() {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.subsMu.Unlock()

	var once bool
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if once {
			return
		}
		once = true
		delete(s.listeners, id)
	}
}

// Select calls fn with the selected value whenever an action changes it, so a
// view bound to one aggregate ignores actions that leave it alone.
func Select[T comparable](s *Store, selector func(State) T, fn func(T)) func() {
	last := selector(s.Snapshot())
	return s.Subscribe(func(state State) {
		next := selector(state)
		if next == last {
			return
		}
		last = next
		fn(next)
	})
}

// Watch streams states until ctx is done. The channel holds only the latest
// state: a slow reader skips intermediate ones.
func (s *Store) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)
	unsubscribe := s.Subscribe(func(state State) {
		for {
			select {
			case ch <- state.Clone():
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})
	go func() {
		<-ctx.Done()
		// Listeners only run under dispatchMu, so holding it makes the close safe.
		s.dispatchMu.Lock()
		unsubscribe()
		close(ch)
		s.dispatchMu.Unlock()
	}()
	return ch
}

func (s *Store) notify(state State) {
	s.subsMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.subsMu.Unlock()

	for _, fn := range listeners {
		fn(state.Clone())
	}
}
