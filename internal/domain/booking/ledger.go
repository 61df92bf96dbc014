package booking

// Ledger is a doctor's per-date booking state: each date key (formatted
// "DD_MM_YYYY") maps to the ordered list of time strings already taken on
// that date. A time appears at most once per date.
type Ledger map[string][]string

// IsFree reports whether the (date, time) slot is not yet booked.
func IsFree(ledger Ledger, date, time string) bool {
	for _, t := range ledger[date] {
		if t == time {
			return false
		}
	}
	return true
}

// Reserve returns a copy of the ledger with the slot added. It fails with
// ErrSlotConflict if the slot is already taken. The input ledger is never
// mutated; callers persist the returned copy.
func Reserve(ledger Ledger, date, time string) (Ledger, error) {
	if !IsFree(ledger, date, time) {
		return nil, ErrSlotConflict
	}
	next := cloneLedger(ledger)
	next[date] = append(next[date], time)
	return next, nil
}

// Release returns a copy of the ledger with the slot removed. Releasing a
// slot that is not booked is a no-op, so repeated or out-of-order
// cancellations are harmless.
func Release(ledger Ledger, date, time string) Ledger {
	next := cloneLedger(ledger)
	times, ok := next[date]
	if !ok {
		return next
	}
	filtered := make([]string, 0, len(times))
	for _, t := range times {
		if t != time {
			filtered = append(filtered, t)
		}
	}
	next[date] = filtered
	return next
}

func cloneLedger(ledger Ledger) Ledger {
	next := make(Ledger, len(ledger))
	for date, times := range ledger {
		cp := make([]string, len(times))
		copy(cp, times)
		next[date] = cp
	}
	return next
}
