// Package claim provides a one-shot claim flag.
//
// A Flag lets exactly one caller at a time own a critical section such as a
// TLS handshake. Callers that lose the race may wait for the owner to
// release the flag and then inspect how the owner finished:
//
//	s := claim.Claim(&flag)
//	if !s.Owned() {
//	    state, err := flag.Wait(ctx)
//	    ...
//	}
//	defer s.Release()
//	...
//	s.Complete() // release as Completed instead of Free
//
// The Sentinel is the only sanctioned way to claim a flag from application
// code; deferring Release guarantees the flag is released on every exit path.
package claim
