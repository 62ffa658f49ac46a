package model

// IntroduceResult describes a completed introduction.
type IntroduceResult struct {
	Path        Path
	Content     []byte
	Name        string
	Declaration string
	// DeclarationSpan covers the inserted assignment statement.
	DeclarationSpan Span
	// References are the spans of every expression now reading the variable.
	References []Span
	// Caret is where an editor should place its caret after the edit.
	Caret     int
	InitPlace InitPlace
}

// Suggestion is the analysis shown by the suggest command.
type Suggestion struct {
	Path        Path
	Target      Candidate
	Occurrences []Candidate
	AnchorLine  int
	Names       []string
	Type        string
}

// Site is a repeated expression worth introducing a variable for.
type Site struct {
	Expression string `json:"expression" yaml:"expression"`
	Count      int    `json:"count"      yaml:"count"`
	Scope      string `json:"scope"      yaml:"scope"`
	Line       int    `json:"line"       yaml:"line"`
	Name       string `json:"name"       yaml:"name"`
}

// ScanReport lists the sites of one file.
type ScanReport struct {
	Path  Path   `json:"path"            yaml:"path"`
	Sites []Site `json:"sites"           yaml:"sites"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
