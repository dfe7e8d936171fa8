// internal/workers/enrichment/summarize/models.go
package summarize

import (
	"encoding/json"
	"strings"

	"prospect-enricher/internal/models"
)

type Input struct {
	Name        string                   `json:"name"`
	Title       string                   `json:"title"`
	Institution string                   `json:"institution"`
	Bundle      *models.EnrichmentBundle `json:"bundle"`
}

// Summary is what gets persisted for one contact.
type Summary struct {
	ResearchSummary string      `json:"prospect_research_summary"`
	AnalysisJSON    string      `json:"analysis_json"`
	DataQuality     DataQuality `json:"data_quality"`
	Analysis        *Analysis   `json:"-"`
}

type DataQuality struct {
	Confidence string   `json:"confidence"`
	Sources    []string `json:"sources"`
	Timestamp  string   `json:"timestamp"`
}

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Text accepts any JSON scalar. Models drift between strings, numbers and
// booleans for fields like email numbers and calendar flags.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		raw = ""
	}
	*t = Text(raw)
	return nil
}

// TextList accepts an array or a single value.
type TextList []Text

func (l *TextList) UnmarshalJSON(b []byte) error {
	var items []Text
	if err := json.Unmarshal(b, &items); err == nil {
		*l = items
		return nil
	}
	var single Text
	if err := json.Unmarshal(b, &single); err != nil {
		return err
	}
	if single == "" {
		*l = nil
		return nil
	}
	*l = TextList{single}
	return nil
}

func (l TextList) Join(sep string) string {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = string(t)
	}
	return strings.Join(parts, sep)
}

// Analysis is the structured strategy returned by the model. When the
// response cannot be decoded only Error and Raw are set.
type Analysis struct {
	ContactProfile        *ContactProfile        `json:"contact_profile,omitempty"`
	PersonaAnalysis       *PersonaAnalysis       `json:"persona_analysis,omitempty"`
	ToneStrategy          *ToneStrategy          `json:"tone_strategy,omitempty"`
	EvidenceSummary       *EvidenceSummary       `json:"evidence_summary,omitempty"`
	PainPointAnalysis     *PainPointAnalysis     `json:"pain_point_analysis,omitempty"`
	ServicePrioritization *ServicePrioritization `json:"service_prioritization,omitempty"`
	EmailStrategy         *EmailStrategy         `json:"email_by_email_strategy,omitempty"`
	SpecificReferences    *SpecificReferences    `json:"specific_references,omitempty"`
	ObjectionAnticipation *ObjectionAnticipation `json:"objection_anticipation,omitempty"`
	SubjectLines          *SubjectLines          `json:"subject_line_suggestions,omitempty"`
	ExecutiveSummary      Text                   `json:"executive_summary,omitempty"`

	Error string `json:"error,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

type ContactProfile struct {
	ScopeLevel       Text     `json:"scope_level"`
	Division         Text     `json:"division"`
	RelevantPrograms TextList `json:"relevant_programs"`
	ScopeReasoning   Text     `json:"scope_reasoning"`
}

type PersonaAnalysis struct {
	LeaderType               Text     `json:"leader_type"`
	PersonaEvidence          Text     `json:"persona_evidence"`
	LikelyPriorities         TextList `json:"likely_priorities"`
	CommunicationPreferences Text     `json:"communication_preferences"`
}

type ToneStrategy struct {
	RecommendedTone Text     `json:"recommended_tone"`
	FormalityLevel  Text     `json:"formality_level"`
	TechnicalDepth  Text     `json:"technical_depth"`
	UrgencyLevel    Text     `json:"urgency_level"`
	ToneReasoning   Text     `json:"tone_reasoning"`
	PhrasesToUse    TextList `json:"phrases_to_use"`
	PhrasesToAvoid  TextList `json:"phrases_to_avoid"`
}

type EvidenceSummary struct {
	ConfirmedFacts   TextList `json:"confirmed_facts"`
	InferredInsights TextList `json:"inferred_insights"`
	DataGaps         TextList `json:"data_gaps"`
	NewsAboutContact Text     `json:"news_about_contact_personally"`
}

type PainPoint struct {
	Pain           Text `json:"pain"`
	Evidence       Text `json:"evidence"`
	Solution       Text `json:"allcampus_solution"`
	EmailToMention Text `json:"email_to_mention"`
}

type PainPointAnalysis struct {
	Primary   *PainPoint `json:"primary_pain,omitempty"`
	Secondary *PainPoint `json:"secondary_pain,omitempty"`
	Tertiary  *PainPoint `json:"tertiary_pain,omitempty"`
}

type ServicePrioritization struct {
	PrimaryService *struct {
		Service    Text `json:"service"`
		WhyPrimary Text `json:"why_primary"`
		ProofPoint Text `json:"proof_point"`
	} `json:"primary_service,omitempty"`
	SecondaryService *struct {
		Service       Text `json:"service"`
		WhyRelevant   Text `json:"why_relevant"`
		WhenToMention Text `json:"when_to_mention"`
	} `json:"secondary_service,omitempty"`
	ServicesToAvoid         TextList `json:"services_to_avoid"`
	CourseDesignAppropriate Text     `json:"course_design_appropriate"`
}

// EmailPlan carries the union of the per-email fields; each email uses a
// subset.
type EmailPlan struct {
	Purpose           Text `json:"purpose"`
	WordCount         Text `json:"word_count"`
	LeadWith          Text `json:"lead_with,omitempty"`
	Angle             Text `json:"angle,omitempty"`
	ToneNote          Text `json:"tone_note,omitempty"`
	PivotTo           Text `json:"pivot_to,omitempty"`
	CaseStudy         Text `json:"case_study,omitempty"`
	Connection        Text `json:"connection,omitempty"`
	ServiceFocus      Text `json:"service_focus,omitempty"`
	ValueProp         Text `json:"value_prop,omitempty"`
	NewAngle          Text `json:"new_angle,omitempty"`
	DetailToReference Text `json:"detail_to_reference,omitempty"`
	CircleBackTo      Text `json:"circle_back_to,omitempty"`
	EasyOut           Text `json:"easy_out,omitempty"`
	IncludeCalendar   Text `json:"include_calendar,omitempty"`
}

type EmailStrategy struct {
	Email1 *EmailPlan `json:"email_1,omitempty"`
	Email2 *EmailPlan `json:"email_2,omitempty"`
	Email3 *EmailPlan `json:"email_3,omitempty"`
	Email4 *EmailPlan `json:"email_4,omitempty"`
	Email5 *EmailPlan `json:"email_5,omitempty"`
}

type SpecificReferences struct {
	MustMention   TextList `json:"must_mention"`
	GoodToMention TextList `json:"good_to_mention"`
	DoNotMention  TextList `json:"do_not_mention"`
}

type Objection struct {
	Objection       Text `json:"objection"`
	CounterApproach Text `json:"counter_approach"`
}

type ObjectionAnticipation struct {
	LikelyObjections []Objection `json:"likely_objections"`
	TrustBuilders    TextList    `json:"trust_builders"`
}

type SubjectLines struct {
	Email1 Text `json:"email_1"`
	Email4 Text `json:"email_4"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string `json:"model"`
	MaxCompletionTokens int    `json:"max_completion_tokens"`
	ResponseFormat      struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
