package model

// ChoiceKind identifies the question a paused refactoring is asking.
type ChoiceKind string

const (
	// ChooseTarget asks which of several nested expressions at the caret to use.
	ChooseTarget ChoiceKind = "choose-target"
	// ChooseOccurrences asks whether to replace every occurrence or only the selected one.
	ChooseOccurrences ChoiceKind = "choose-occurrences"
	// ConfirmName asks for the name, replace-all flag and placement at once.
	ConfirmName ChoiceKind = "confirm-name"
)

// Candidate is a selectable expression shown to the user.
type Candidate struct {
	Text string
	Span Span
	Line int
}

// ChoiceRequest is what a paused session needs answered before it can go on.
type ChoiceRequest struct {
	Kind        ChoiceKind
	Path        Path
	Targets     []Candidate
	Occurrences []Candidate
	Names       []string
	InitPlaces  []InitPlace
	// ReplaceAll is the current default for ConfirmName.
	ReplaceAll bool
}

// Choice answers a ChoiceRequest. Only the fields relevant to the request
// kind are read.
type Choice struct {
	Target     int
	ReplaceAll bool
	Name       string
	InitPlace  InitPlace
}
