package domain

// Bug is a single defect reported by upstream detection.
type Bug struct {
	BugType     string
	Description string
}

// BugReport is the detection output for one code sample.
type BugReport struct {
	BugsFound []Bug
}
