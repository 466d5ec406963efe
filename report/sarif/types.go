package sarif

// Report is the top level SARIF log
type Report struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []*Run `json:"runs"`
}

// Run describes a single run of an analysis tool and its results
type Run struct {
	Tool    *Tool     `json:"tool"`
	Results []*Result `json:"results"`
}

// Tool is the analysis tool that was run
type Tool struct {
	Driver *ToolComponent `json:"driver"`
}

// ToolComponent is a component of the tool, here its driver
type ToolComponent struct {
	Name            string                 `json:"name"`
	Version         string                 `json:"version,omitempty"`
	SemanticVersion string                 `json:"semanticVersion,omitempty"`
	InformationURI  string                 `json:"informationUri,omitempty"`
	GUID            string                 `json:"guid,omitempty"`
	Rules           []*ReportingDescriptor `json:"rules,omitempty"`
}

// ReportingDescriptor describes a rule
type ReportingDescriptor struct {
	ID                   string                    `json:"id"`
	Name                 string                    `json:"name,omitempty"`
	GUID                 string                    `json:"guid,omitempty"`
	HelpURI              string                    `json:"helpUri,omitempty"`
	ShortDescription     *MultiformatMessageString `json:"shortDescription,omitempty"`
	FullDescription      *MultiformatMessageString `json:"fullDescription,omitempty"`
	Help                 *MultiformatMessageString `json:"help,omitempty"`
	DefaultConfiguration *ReportingConfiguration   `json:"defaultConfiguration,omitempty"`
	Properties           *PropertyBag              `json:"properties,omitempty"`
}

// ReportingConfiguration holds the default level of a rule
type ReportingConfiguration struct {
	Level Level `json:"level,omitempty"`
}

// PropertyBag holds free properties, here the tags of a rule
type PropertyBag struct {
	Tags []string `json:"tags,omitempty"`
}

// MultiformatMessageString is a message in plain text and optionally markdown
type MultiformatMessageString struct {
	Text     string `json:"text"`
	Markdown string `json:"markdown,omitempty"`
}

// Message is a result message
type Message struct {
	Text     string `json:"text,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// Result is a single finding
type Result struct {
	RuleID       string            `json:"ruleId"`
	RuleIndex    int               `json:"ruleIndex"`
	Level        Level             `json:"level,omitempty"`
	Message      *Message          `json:"message"`
	Locations    []*Location       `json:"locations,omitempty"`
	Suppressions []*Suppression    `json:"suppressions,omitempty"`
	Fixes        []*Fix            `json:"fixes,omitempty"`
	Fingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

// Fix is a proposed fix of a result
type Fix struct {
	Description *Message `json:"description,omitempty"`
}

// Location is where a result was found
type Location struct {
	PhysicalLocation *PhysicalLocation `json:"physicalLocation,omitempty"`
}

// PhysicalLocation is a region of a file
type PhysicalLocation struct {
	ArtifactLocation *ArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *Region           `json:"region,omitempty"`
}

// ArtifactLocation identifies a file
type ArtifactLocation struct {
	URI string `json:"uri,omitempty"`
}

// Region is a range of lines and columns. Columns are 1-based.
type Region struct {
	StartLine   int `json:"startLine,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// Suppression records why a result is not a problem
type Suppression struct {
	Kind          string `json:"kind"`
	Status        string `json:"status,omitempty"`
	Justification string `json:"justification,omitempty"`
}
