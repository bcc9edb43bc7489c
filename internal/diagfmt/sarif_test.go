package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"grindscan/internal/diag"
	"grindscan/internal/source"
)

func TestSarifLog(t *testing.T) {
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.HelRace, diag.Location{Path: "/proj/src/worker.c", Line: 40}, "Possible data race")
	d = d.WithNote(diag.Location{Path: "/proj/src/main.c", Line: 5}, "0x9: main (main.c:5)")
	bag.Add(d)
	bag.Add(diag.New(diag.SevError, diag.RepMalformed, diag.Location{Path: "/proj/valgrind-reports/r.xml"}, "broken"))

	meta := SarifRunMeta{ToolName: "grindscan", ToolVersion: "1.0.0", InvocationArgs: []string{"scan"}, BaseDir: "/proj"}
	log := buildSarif(bag, source.NewFileSet(), meta, "fixed-guid")

	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if run.AutomationDetails.GUID != "fixed-guid" {
		t.Errorf("guid = %q", run.AutomationDetails.GUID)
	}
	if len(run.Tool.Driver.Rules) < len(diag.Rules()) {
		t.Errorf("expected the whole catalog in rules, got %d", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}

	race := run.Results[0]
	if race.RuleID != "HEL2001" || race.Level != "error" {
		t.Errorf("unexpected result: %+v", race)
	}
	if got := run.Tool.Driver.Rules[race.RuleIndex].ID; got != race.RuleID {
		t.Errorf("ruleIndex points at %q, want %q", got, race.RuleID)
	}
	loc := race.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/worker.c" || loc.ArtifactLocation.URIBaseID != "PROJECTROOT" {
		t.Errorf("unexpected artifact location: %+v", loc.ArtifactLocation)
	}
	if loc.Region == nil || loc.Region.StartLine != 40 {
		t.Errorf("unexpected region: %+v", loc.Region)
	}
	if len(race.RelatedLocations) != 1 || race.RelatedLocations[0].Message.Text != "0x9: main (main.c:5)" {
		t.Errorf("unexpected related locations: %+v", race.RelatedLocations)
	}

	malformed := run.Results[1]
	if malformed.RuleID != "REP4001" {
		t.Errorf("ruleId = %q", malformed.RuleID)
	}
	if malformed.Locations[0].PhysicalLocation.Region != nil {
		t.Error("report-level results carry no region")
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Error("errors mean the execution was not successful")
	}
}

func TestSarifWritesGUID(t *testing.T) {
	var buf bytes.Buffer
	if err := Sarif(&buf, diag.NewBag(1), source.NewFileSet(), SarifRunMeta{}); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if _, err := uuid.Parse(log.Runs[0].AutomationDetails.GUID); err != nil {
		t.Errorf("guid is not a UUID: %v", err)
	}
	if log.Runs[0].Tool.Driver.Name != "grindscan" {
		t.Errorf("default tool name = %q", log.Runs[0].Tool.Driver.Name)
	}
	if log.Runs[0].Results == nil {
		t.Error("results must be an empty array, not null")
	}
}
