package main

// eventLog keeps the most recent lines, oldest first
type eventLog struct {
	lines []string
	limit int
	total int
}

func newEventLog(limit int) *eventLog {
	return &eventLog{lines: make([]string, 0, limit), limit: limit}
}

func (l *eventLog) add(s string) {
	l.total++
	if len(l.lines) >= l.limit {
		copy(l.lines, l.lines[1:])
		l.lines = l.lines[:l.limit-1]
	}
	l.lines = append(l.lines, s)
}

// tail returns at most n of the newest lines
func (l *eventLog) tail(n int) []string {
	if n <= 0 {
		return nil
	}
	if n >= len(l.lines) {
		return l.lines
	}
	return l.lines[len(l.lines)-n:]
}
