package utterance

// Mode is the verb that verb-bearing templates start with.
type Mode int

const (
	// SelectMode is the default: "select column ..."
	SelectMode Mode = iota
	// CreateMode renders assignment targets: "create column ..."
	CreateMode
	// BareMode drops the verb inside arithmetic and comparison phrases,
	// leaving the separating space: " column ...".
	BareMode
)

func (m Mode) verb() string {
	switch m {
	case CreateMode:
		return "create"
	case BareMode:
		return ""
	}

	return "select"
}

func (m Mode) String() string {
	if m == BareMode {
		return "bare"
	}

	return m.verb()
}
