package extraction

import (
	"encoding/json"
	"fmt"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
)

// Stage names, used in logs and metrics.
const (
	stageDocumentReader = "document_reader"
	stageRuleExtraction = "rule_extraction"
	stageValidation     = "validation"
	stageNormalization  = "normalization"
)

// documentPayload is the expected JSON shape of the document-reader stage.
// The seven sections are verbatim lifts from the announcement; the identity
// fields ride along because fingerprinting and the expiry check need them.
type documentPayload struct {
	Education          *string `json:"education"`
	Age                *string `json:"age"`
	Physical           *string `json:"physical"`
	Selection          *string `json:"selection"`
	Dates              *string `json:"dates"`
	Location           *string `json:"location"`
	Notes              *string `json:"notes"`
	Title              string  `json:"title"`
	AdvertisementNo    string  `json:"advertisement_no"`
	ApplicationEndDate string  `json:"application_end_date"`
}

func (p documentPayload) rawSections() *domain.RawSections {
	return &domain.RawSections{
		Education: p.Education,
		Age:       p.Age,
		Physical:  p.Physical,
		Selection: p.Selection,
		Dates:     p.Dates,
		Location:  p.Location,
		Notes:     p.Notes,
	}
}

// rulesPayload is the expected JSON shape of the rule-extraction stage.
type rulesPayload struct {
	Qualification    string                   `json:"qualification"`
	Age              domain.AgeLimits         `json:"age"`
	Physical         domain.PhysicalStandards `json:"physical"`
	SelectionProcess []string                 `json:"selection_process"`
	JobType          string                   `json:"job_type"`
	AdvertisementNo  string                   `json:"advertisement_no"`
}

// validationPayload is the expected JSON shape of the validation stage.
type validationPayload struct {
	Status string   `json:"status"`
	Issues []string `json:"issues"`
}

const validationStatusValid = "valid"

// normalizationPayload is the expected JSON shape of the normalization stage.
type normalizationPayload struct {
	SimpleExplanation string   `json:"simple_explanation"`
	WhoShouldApply    []string `json:"who_should_apply"`
	WhoShouldNotApply []string `json:"who_should_not_apply"`
	Roadmap           []string `json:"roadmap"`
	HindiSummary      string   `json:"hindi_summary"`
}

const documentReaderSystem = `You read Indian government job announcements. You extract text verbatim. You never summarize, never paraphrase, and never invent content. You respond with JSON only, no prose.`

const documentReaderPromptFmt = `Extract the following sections from this job announcement, copying the text VERBATIM. Use null for any section that is not present.

Respond with exactly this JSON shape:
{
  "education": string|null,   // educational qualification section
  "age": string|null,         // age limit section
  "physical": string|null,    // physical standards section
  "selection": string|null,   // selection process section
  "dates": string|null,       // important dates section
  "location": string|null,    // posting location section
  "notes": string|null,       // other notable conditions
  "title": string,            // the announcement's own title, or "" if absent
  "advertisement_no": string, // advertisement/notification number, or "" if absent
  "application_end_date": string // last date to apply as printed, or "" if absent
}

Announcement text:
%s`

const ruleExtractionSystem = `You convert Indian government job announcement sections into structured eligibility rules. You respond with JSON only, no prose.`

const ruleExtractionPromptFmt = `Convert these announcement sections into structured eligibility rules.

Rules:
- Age limits are integers in years. If the text defers to "as per government rules" for category relaxation, apply the standard table: OBC = general + 3, SC/ST = general + 5.
- job_type is one of: "central", "state", "psu", "defence", "police", "banking", "railway", "teaching", "other".
- selection_process entries are from: "written_exam", "interview", "physical_test", "skill_test", "document_verification", "medical_exam", "merit_list".

Respond with exactly this JSON shape:
{
  "qualification": string,
  "age": {"min": int, "max_general": int, "max_obc": int, "max_sc_st": int},
  "physical": {"height": string, "chest": string, "vision": string, "details": string},
  "selection_process": [string],
  "job_type": string,
  "advertisement_no": string
}

Sections:
%s`

const validationSystem = `You audit structured job eligibility data for errors. You respond with JSON only, no prose.`

const validationPromptFmt = `Audit this structured eligibility data. Flag unrealistic values (age bands outside 14-70, inverted min/max), missing critical fields (qualification, age), and mismatches between qualification and job type.

Respond with exactly this JSON shape:
{"status": "valid"|"invalid", "issues": [string]}

Data:
%s`

const normalizationSystem = `You explain Indian government job announcements to first-generation aspirants in simple language. You respond with JSON only, no prose.`

const normalizationPromptFmt = `Using this structured announcement data, write guidance for aspirants.

Respond with exactly this JSON shape:
{
  "simple_explanation": string,      // 2-3 plain sentences on what this job is
  "who_should_apply": [string],      // concrete profiles that should apply
  "who_should_not_apply": [string],  // concrete profiles that should not
  "roadmap": [string],               // 3-5 short steps to prepare, in order
  "hindi_summary": string            // 2-3 sentence summary in Hindi
}

Data:
%s`

func documentReaderPrompt(rawText string) string {
	return fmt.Sprintf(documentReaderPromptFmt, rawText)
}

func ruleExtractionPrompt(doc documentPayload) string {
	return fmt.Sprintf(ruleExtractionPromptFmt, mustJSON(doc))
}

func validationPrompt(rules rulesPayload) string {
	return fmt.Sprintf(validationPromptFmt, mustJSON(rules))
}

func normalizationPrompt(structured domain.StructuredExtraction) string {
	return fmt.Sprintf(normalizationPromptFmt, mustJSON(structured))
}

// mustJSON marshals stage inputs for prompt embedding. The payload types are
// all plain data, so a marshal failure is a programming error.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal prompt payload: %v", err))
	}
	return string(b)
}
