package claim

import "sync"

// Sentinel is a scoped claim on a Flag.
type Sentinel struct {
	flag      *Flag
	owned     bool
	completed bool
	once      sync.Once
}

// Claim tries to claim f without blocking. The returned Sentinel reports
// whether the claim succeeded; Release must be deferred either way.
func Claim(f *Flag) *Sentinel {
	return &Sentinel{
		flag:  f,
		owned: f.CheckAndSet(),
	}
}

// Owned reports whether this sentinel holds the flag.
func (s *Sentinel) Owned() bool {
	return s.owned
}

// Complete records a successful outcome. The flag is released as Completed
// instead of Free.
func (s *Sentinel) Complete() {
	s.completed = true
}

// Release releases the flag if this sentinel owns it. Only the first call
// has an effect.
func (s *Sentinel) Release() {
	if !s.owned {
		return
	}
	s.once.Do(func() {
		if s.completed {
			s.flag.release(Completed)
			return
		}
		s.flag.Unset()
	})
}
