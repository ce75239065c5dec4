package graph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// CaseID derives the canonical case identifier from a title: hex of the
// first 8 bytes of sha256 over the lowercased, whitespace-collapsed title.
// The hash is process independent, so the same title maps to the same id on
// every run; a collision surfaces as a uniqueness conflict at create time.
func CaseID(title string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(title), " "))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:8])
}

const createCaseCypher = `CREATE (c:Case {
	id: $id, caseTitle: $caseTitle, firNumber: $firNumber,
	caseDetails: $caseDetails, caseStatus: $caseStatus, crimeType: $crimeType,
	wantedLevel: $wantedLevel, officerName: $officerName,
	modusOperandi: $modusOperandi, evidenceCollected: $evidenceCollected,
	familyTies: $familyTies, suspectName: $suspectName,
	fatherName: $fatherName, motherName: $motherName, suspectAge: $suspectAge,
	suspectGender: $suspectGender, suspectDOB: $suspectDOB,
	AadhaarNumber: $AadhaarNumber, PhoneNumber: $PhoneNumber,
	BailDetails: $BailDetails, createdAt: $createdAt,
	suspectPhoto: '', evidencePhoto: '', crimeScenePhoto: ''
}) RETURN c.id AS id`

func (in CaseInput) validate() error {
	if strings.TrimSpace(in.CaseTitle) == "" {
		return fmt.Errorf("%w: caseTitle is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.FIRNumber) == "" {
		return fmt.Errorf("%w: firNumber is required", ErrInvalidInput)
	}
	return nil
}

// CreateCase creates exactly one Case node and returns its derived id. The
// three photo properties start empty regardless of caller input. A case
// whose derived id already exists is a conflict, never an overwrite.
func (g *GraphStore) CreateCase(ctx context.Context, in CaseInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	id := CaseID(in.CaseTitle)
	params := map[string]any{
		"id":                id,
		"caseTitle":         in.CaseTitle,
		"firNumber":         in.FIRNumber,
		"caseDetails":       in.CaseDetails,
		"caseStatus":        in.CaseStatus,
		"crimeType":         in.CrimeType,
		"wantedLevel":       in.WantedLevel,
		"officerName":       in.OfficerName,
		"modusOperandi":     in.ModusOperandi,
		"evidenceCollected": in.EvidenceCollected,
		"familyTies":        in.FamilyTies,
		"suspectName":       in.SuspectName,
		"fatherName":        in.FatherName,
		"motherName":        in.MotherName,
		"suspectAge":        in.SuspectAge,
		"suspectGender":     in.SuspectGender,
		"suspectDOB":        in.SuspectDOB,
		"AadhaarNumber":     in.AadhaarNumber,
		"PhoneNumber":       in.PhoneNumber,
		"BailDetails":       in.BailDetails,
		"createdAt":         time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := g.write(ctx, createCaseCypher, params); err != nil {
		return "", err
	}
	return id, nil
}

// GetCase looks up one case by its exact id.
func (g *GraphStore) GetCase(ctx context.Context, id string) (Case, error) {
	if id == "" {
		return Case{}, fmt.Errorf("%w: empty case id", ErrInvalidInput)
	}
	records, err := g.run(ctx, `MATCH (c:Case {id: $id}) RETURN c`, map[string]any{"id": id})
	if err != nil {
		return Case{}, err
	}
	if len(records) == 0 {
		return Case{}, fmt.Errorf("%w: case %s", ErrNotFound, id)
	}
	node, _, err := neo4j.GetRecordValue[dbtype.Node](records[0], "c")
	if err != nil {
		return Case{}, fmt.Errorf("%w: %v", ErrStatementFailed, err)
	}
	return caseFromProps(node.Props), nil
}

// ListCases returns the most recently created cases.
func (g *GraphStore) ListCases(ctx context.Context, limit int) ([]Case, error) {
	if limit <= 0 {
		limit = 50
	}
	cypher := `MATCH (c:Case) RETURN c ORDER BY c.createdAt DESC LIMIT $limit`
	records, err := g.run(ctx, cypher, map[string]any{"limit": int64(limit)})
	if err != nil {
		return nil, err
	}
	cases := make([]Case, 0, len(records))
	for _, rec := range records {
		node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "c")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStatementFailed, err)
		}
		cases = append(cases, caseFromProps(node.Props))
	}
	return cases, nil
}

// SetCaseStatus updates the status of an existing case.
func (g *GraphStore) SetCaseStatus(ctx context.Context, id, status string) error {
	if id == "" || strings.TrimSpace(status) == "" {
		return fmt.Errorf("%w: case id and status are required", ErrInvalidInput)
	}
	cypher := `MATCH (c:Case {id: $id}) SET c.caseStatus = $status RETURN c.id AS id`
	records, err := g.write(ctx, cypher, map[string]any{"id": id, "status": status})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: case %s", ErrNotFound, id)
	}
	return nil
}

func caseFromProps(props map[string]any) Case {
	return Case{
		ID:                strProp(props, "id"),
		CaseTitle:         strProp(props, "caseTitle"),
		FIRNumber:         strProp(props, "firNumber"),
		CaseDetails:       strProp(props, "caseDetails"),
		CaseStatus:        strProp(props, "caseStatus"),
		CrimeType:         strProp(props, "crimeType"),
		WantedLevel:       strProp(props, "wantedLevel"),
		OfficerName:       strProp(props, "officerName"),
		ModusOperandi:     strProp(props, "modusOperandi"),
		EvidenceCollected: strProp(props, "evidenceCollected"),
		FamilyTies:        strProp(props, "familyTies"),
		SuspectName:       strProp(props, "suspectName"),
		FatherName:        strProp(props, "fatherName"),
		MotherName:        strProp(props, "motherName"),
		SuspectAge:        intProp(props, "suspectAge"),
		SuspectGender:     strProp(props, "suspectGender"),
		SuspectDOB:        strProp(props, "suspectDOB"),
		AadhaarNumber:     strProp(props, "AadhaarNumber"),
		PhoneNumber:       strProp(props, "PhoneNumber"),
		BailDetails:       strProp(props, "BailDetails"),
		SuspectPhoto:      strProp(props, "suspectPhoto"),
		EvidencePhoto:     strProp(props, "evidencePhoto"),
		CrimeScenePhoto:   strProp(props, "crimeScenePhoto"),
		CreatedAt:         strProp(props, "createdAt"),
	}
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intProp(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
