// Package graph provides the Neo4j-backed case graph store for investigative
// case records: schema constraints, case creation and lookup, and evidentiary
// image attachment.
package graph

// Case is the central record for one investigation as stored on the Case node.
type Case struct {
	ID                string `json:"id"`
	CaseTitle         string `json:"caseTitle"`
	FIRNumber         string `json:"firNumber"`
	CaseDetails       string `json:"caseDetails"`
	CaseStatus        string `json:"caseStatus"`
	CrimeType         string `json:"crimeType"`
	WantedLevel       string `json:"wantedLevel"`
	OfficerName       string `json:"officerName"`
	ModusOperandi     string `json:"modusOperandi"`
	EvidenceCollected string `json:"evidenceCollected"`
	FamilyTies        string `json:"familyTies"`

	SuspectName   string `json:"suspectName"`
	FatherName    string `json:"fatherName"`
	MotherName    string `json:"motherName"`
	SuspectAge    int    `json:"suspectAge"`
	SuspectGender string `json:"suspectGender"`
	SuspectDOB    string `json:"suspectDOB"`
	AadhaarNumber string `json:"AadhaarNumber"`
	PhoneNumber   string `json:"PhoneNumber"`
	BailDetails   string `json:"BailDetails"`

	// Photo paths are empty until an image is attached to the slot.
	SuspectPhoto    string `json:"suspectPhoto"`
	EvidencePhoto   string `json:"evidencePhoto"`
	CrimeScenePhoto string `json:"crimeScenePhoto"`

	CreatedAt string `json:"createdAt"`
}

// CaseInput holds every field a caller may supply when creating a case.
// The id and the three photo paths are never caller-controlled.
type CaseInput struct {
	CaseTitle         string `json:"caseTitle"`
	FIRNumber         string `json:"firNumber"`
	CaseDetails       string `json:"caseDetails"`
	CaseStatus        string `json:"caseStatus"`
	CrimeType         string `json:"crimeType"`
	WantedLevel       string `json:"wantedLevel"`
	OfficerName       string `json:"officerName"`
	ModusOperandi     string `json:"modusOperandi"`
	EvidenceCollected string `json:"evidenceCollected"`
	FamilyTies        string `json:"familyTies"`

	SuspectName   string `json:"suspectName"`
	FatherName    string `json:"fatherName"`
	MotherName    string `json:"motherName"`
	SuspectAge    int    `json:"suspectAge"`
	SuspectGender string `json:"suspectGender"`
	SuspectDOB    string `json:"suspectDOB"`
	AadhaarNumber string `json:"AadhaarNumber"`
	PhoneNumber   string `json:"PhoneNumber"`
	BailDetails   string `json:"BailDetails"`
}
