package models

// FileStatus records how far a source file got through loading.
type FileStatus string

const (
	FileStatusParsed FileStatus = "parsed"
	FileStatusFailed FileStatus = "failed"
)

// SourceFile describes one flow file read for a project.
type SourceFile struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// Project is the in-memory input of one validation run: the flows plus the
// lookup tables their nodes reference.
type Project struct {
	Name         string         `json:"name,omitempty"`
	Flows        []FlowDocument `json:"flows"                  validate:"dive"`
	Schemas      []string       `json:"schemas,omitempty"`
	ErrorCodes   []string       `json:"errorCodes,omitempty"`
	Events       []string       `json:"events,omitempty"`
	Integrations []string       `json:"integrations,omitempty"`

	// Files lists flow files that were read, including the ones that failed
	// to parse and therefore have no entry in Flows.
	Files []SourceFile `json:"files,omitempty"`
}
