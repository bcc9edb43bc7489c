package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"grindscan/internal/diag"
	"grindscan/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool               `json:"tool"`
	Invocations       []sarifInvocation       `json:"invocations,omitempty"`
	AutomationDetails sarifAutomation         `json:"automationDetails"`
	OriginalURIs      map[string]sarifBaseURI `json:"originalUriBaseIds,omitempty"`
	Results           []sarifResult           `json:"results"`
}

type sarifBaseURI struct {
	URI string `json:"uri"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	ShortDescription     sarifMessage   `json:"shortDescription"`
	DefaultConfiguration sarifRuleLevel `json:"defaultConfiguration"`
}

type sarifRuleLevel struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
	Properties       map[string]any  `json:"properties,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type sarifRegion struct {
	StartLine uint32 `json:"startLine"`
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0).
// Каталог правил попадает в tool.driver.rules целиком, заметки становятся relatedLocations.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	log := buildSarif(bag, fs, meta, uuid.NewString())
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}

func buildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta, guid string) sarifLog {
	codes := diag.Rules()
	ruleIndex := make(map[string]int, len(codes))
	rules := make([]sarifRule, 0, len(codes))
	addRule := func(id, name, title string, sev diag.Severity) int {
		if idx, ok := ruleIndex[id]; ok {
			return idx
		}
		ruleIndex[id] = len(rules)
		rules = append(rules, sarifRule{
			ID:                   id,
			Name:                 name,
			ShortDescription:     sarifMessage{Text: title},
			DefaultConfiguration: sarifRuleLevel{Level: sarifLevel(sev)},
		})
		return ruleIndex[id]
	}
	for _, c := range codes {
		addRule(c.ID(), c.Kind(), c.Title(), c.DefaultSeverity())
	}

	mode := PathModeRelative
	baseID := ""
	var originals map[string]sarifBaseURI
	if meta.BaseDir != "" {
		fs.SetBaseDir(meta.BaseDir)
		baseID = "PROJECTROOT"
		if abs, err := source.AbsolutePath(meta.BaseDir); err == nil {
			originals = map[string]sarifBaseURI{baseID: {URI: "file://" + abs + "/"}}
		}
	}

	items := bag.Items()
	results := make([]sarifResult, 0, len(items))
	hasErrors := false
	for i := range items {
		d := &items[i]
		if d.Severity == diag.SevError {
			hasErrors = true
		}
		id := d.Code.ID()
		name := d.Code.Kind()
		title := d.Code.Title()
		if d.Code == diag.UnknownCode {
			id, name, title = d.RuleKey(), d.RuleKey(), d.RuleKey()
		}
		res := sarifResult{
			RuleID:    id,
			RuleIndex: addRule(id, name, title, d.Severity),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
		}
		if !d.Primary.IsZero() {
			res.Locations = []sarifLocation{sarifLoc(fs, d.Primary, mode, baseID)}
		}
		for j, note := range d.Notes {
			loc := sarifLoc(fs, note.Loc, mode, baseID)
			loc.ID = j + 1
			loc.Message = &sarifMessage{Text: note.Msg}
			res.RelatedLocations = append(res.RelatedLocations, loc)
		}
		if d.Kind != "" {
			res.Properties = map[string]any{"kind": d.Kind}
		}
		results = append(results, res)
	}

	name := meta.ToolName
	if name == "" {
		name = "grindscan"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    name,
			Version: meta.ToolVersion,
			Rules:   rules,
		}},
		AutomationDetails: sarifAutomation{GUID: guid},
		OriginalURIs:      originals,
		Results:           results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: !hasErrors,
		}}
	}
	return sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}}
}

func sarifLoc(fs *source.FileSet, loc diag.Location, mode PathMode, baseID string) sarifLocation {
	uri := formatPath(fs, loc.Path, mode)
	art := sarifArtifactLocation{URI: uri}
	if baseID != "" && !filepath.IsAbs(uri) {
		art.URIBaseID = baseID
	}
	out := sarifLocation{PhysicalLocation: sarifPhysicalLocation{ArtifactLocation: art}}
	if loc.Line > 0 {
		out.PhysicalLocation.Region = &sarifRegion{StartLine: loc.Line}
	}
	return out
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}
