// Package waitlist provides a concurrency-safe registry of people moving
// through two ordered states: waiting and treated.
//
// # Basic Usage
//
//	reg := waitlist.New()
//	reg.Add("Jane Doe")
//	reg.Treat("Jane Doe", waitlist.NewDate(2025, 1, 15))
//
//	status, err := reg.Status("Jane Doe")
//	if errors.Is(err, waitlist.ErrNotFound) {
//	    // never added, or treated and purged
//	}
//	fmt.Println(status) // Output: treated
//
// # State Machine
//
// Each name follows Waiting -> Treated -> purged. Treat moves the first
// waiting record with an exactly matching name; Purge deletes treated records
// dated strictly before a cutoff. Treat and Purge are silent no-ops when they
// match nothing.
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. A single sync.RWMutex
// guards both lists, so every method is linearizable and Status sees both
// lists as of the same instant. Waiting, Treated, and TreatedRecords return
// freshly allocated copies that later mutations never touch.
//
// # Ownership
//
// A Registry must not be copied after first use (go vet reports copies of the
// embedded lock). Use Take or MoveFrom to transfer records between registries;
// the source is left empty and remains usable.
package waitlist
