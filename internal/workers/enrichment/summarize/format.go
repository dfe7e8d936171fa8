// internal/workers/enrichment/summarize/format.go
package summarize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const boxWidth = 78

type lineWriter struct {
	lines []string
}

func (w *lineWriter) add(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func (w *lineWriter) line(s string) {
	w.lines = append(w.lines, s)
}

func (w *lineWriter) blank() {
	w.lines = append(w.lines, "")
}

func (w *lineWriter) banner(title string) {
	w.line("╔" + strings.Repeat("═", boxWidth) + "╗")
	w.line("║" + center(title, boxWidth) + "║")
	w.line("╚" + strings.Repeat("═", boxWidth) + "╝")
	w.blank()
}

func (w *lineWriter) section(title string) {
	w.line("┌" + strings.Repeat("─", boxWidth) + "┐")
	w.line("│ " + pad(title, boxWidth-1) + "│")
	w.line("└" + strings.Repeat("─", boxWidth) + "┘")
}

func (w *lineWriter) bullets(heading, marker string, items TextList) {
	if len(items) == 0 {
		return
	}
	w.line(heading)
	for _, item := range items {
		w.add("  %s %s", marker, item)
	}
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// FormatStrategicSummary renders the analysis as the plain-text brief stored
// on the CRM record. Sections missing from the analysis are left out.
func FormatStrategicSummary(a *Analysis, company string) string {
	w := &lineWriter{}
	w.banner(strings.ToUpper(company) + " - STRATEGIC OUTREACH PLAN")

	if a == nil {
		return strings.Join(w.lines, "\n")
	}
	if a.Error != "" {
		w.add("Analysis unavailable: %s", a.Error)
		w.blank()
	}

	if a.ExecutiveSummary != "" {
		w.section("📋 EXECUTIVE SUMMARY")
		w.line(string(a.ExecutiveSummary))
		w.blank()
	}

	if p := a.ContactProfile; p != nil {
		w.section("🎯 CONTACT SCOPE")
		w.add("Scope Level: %s", p.ScopeLevel)
		w.add("Division: %s", p.Division)
		if len(p.RelevantPrograms) > 0 {
			w.add("Relevant Programs: %s", p.RelevantPrograms.Join(", "))
		}
		w.blank()
	}

	if p := a.PersonaAnalysis; p != nil {
		w.section("👤 PERSONA ANALYSIS")
		w.add("Leader Type: %s", p.LeaderType)
		if p.PersonaEvidence != "" {
			w.add("Evidence: %s", p.PersonaEvidence)
		}
		w.bullets("Likely Priorities:", "•", p.LikelyPriorities)
		if p.CommunicationPreferences != "" {
			w.add("Communication Style: %s", p.CommunicationPreferences)
		}
		w.blank()
	}

	if t := a.ToneStrategy; t != nil {
		w.section("🎨 TONE & COMMUNICATION STRATEGY")
		w.add("Recommended Tone: %s", t.RecommendedTone)
		w.add("Formality: %s | Technical Depth: %s | Urgency: %s", t.FormalityLevel, t.TechnicalDepth, t.UrgencyLevel)
		if t.ToneReasoning != "" {
			w.add("Reasoning: %s", t.ToneReasoning)
		}
		if len(t.PhrasesToUse) > 0 {
			w.add("✓ Phrases to Use: %s", t.PhrasesToUse.Join(" | "))
		}
		if len(t.PhrasesToAvoid) > 0 {
			w.add("✗ Phrases to Avoid: %s", t.PhrasesToAvoid.Join(" | "))
		}
		w.blank()
	}

	if e := a.EvidenceSummary; e != nil {
		w.section("📊 EVIDENCE SUMMARY")
		w.bullets("Confirmed Facts:", "✓", e.ConfirmedFacts)
		w.bullets("Inferred Insights:", "→", e.InferredInsights)
		if e.NewsAboutContact != "" {
			w.blank()
			w.add("⚠️ NEWS ABOUT CONTACT: %s", e.NewsAboutContact)
			w.line(`   USE "YOUR" NOT THEIR NAME WHEN REFERENCING`)
		}
		w.bullets("Data Gaps:", "?", e.DataGaps)
		w.blank()
	}

	if p := a.PainPointAnalysis; p != nil {
		w.section("🔥 PAIN POINT ANALYSIS (Ranked)")
		writePain(w, "#1 PRIMARY", p.Primary)
		writePain(w, "#2 SECONDARY", p.Secondary)
		writePain(w, "#3 TERTIARY", p.Tertiary)
	}

	if s := a.ServicePrioritization; s != nil {
		w.section("🛠️ SERVICE PRIORITIZATION")
		if p := s.PrimaryService; p != nil {
			w.add("#1 %s", p.Service)
			w.add("   Why: %s", p.WhyPrimary)
			w.add("   Proof Point: %s", p.ProofPoint)
		}
		if p := s.SecondaryService; p != nil {
			w.add("#2 %s", p.Service)
			w.add("   Why: %s", p.WhyRelevant)
			w.add("   Mention in: Email %s", p.WhenToMention)
		}
		if len(s.ServicesToAvoid) > 0 {
			w.add("✗ Avoid: %s", s.ServicesToAvoid.Join(", "))
		}
		w.add("Course Design Appropriate: %s", s.CourseDesignAppropriate)
		w.blank()
	}

	if e := a.EmailStrategy; e != nil {
		w.section("📧 EMAIL-BY-EMAIL STRATEGY")
		if m := e.Email1; m != nil {
			w.add("EMAIL 1: %s (%s words)", m.Purpose, m.WordCount)
			w.add("  Lead with: %s", m.LeadWith)
			w.add("  Angle: %s", m.Angle)
			if m.ToneNote != "" {
				w.add("  Tone: %s", m.ToneNote)
			}
			w.blank()
		}
		if m := e.Email2; m != nil {
			w.add("EMAIL 2: %s (%s words)", m.Purpose, m.WordCount)
			w.add("  Pivot to: %s", m.PivotTo)
			w.add("  Case Study: %s", m.CaseStudy)
			w.add("  Connection: %s", m.Connection)
			w.blank()
		}
		if m := e.Email3; m != nil {
			w.add("EMAIL 3: %s (%s words)", m.Purpose, m.WordCount)
			w.add("  Lead with: %s", m.LeadWith)
			w.add("  Service Focus: %s", m.ServiceFocus)
			w.add("  Value Prop: %s", m.ValueProp)
			w.line("  [Include calendar link]")
			w.blank()
		}
		if m := e.Email4; m != nil {
			w.add("EMAIL 4: %s (%s words) - NEW THREAD", m.Purpose, m.WordCount)
			w.add("  New Angle: %s", m.NewAngle)
			w.add("  Reference: %s", m.DetailToReference)
			w.add("  Service Focus: %s", m.ServiceFocus)
			w.line("  [Include calendar link]")
			w.blank()
		}
		if m := e.Email5; m != nil {
			w.add("EMAIL 5: %s (%s words)", m.Purpose, m.WordCount)
			w.add("  Circle back to: %s", m.CircleBackTo)
			w.add("  Easy out: %s", m.EasyOut)
			w.line("  [Include calendar link]")
			w.blank()
		}
	}

	if r := a.SpecificReferences; r != nil {
		w.section("📌 SPECIFIC REFERENCES")
		w.bullets("MUST Mention:", "★", r.MustMention)
		w.bullets("Good to Mention:", "○", r.GoodToMention)
		w.bullets("DO NOT Mention:", "✗", r.DoNotMention)
		w.blank()
	}

	if o := a.ObjectionAnticipation; o != nil {
		w.section("⚠️ OBJECTION ANTICIPATION")
		for _, obj := range o.LikelyObjections {
			w.add(`Objection: "%s"`, obj.Objection)
			w.add("  → Counter: %s", obj.CounterApproach)
		}
		if len(o.TrustBuilders) > 0 {
			w.blank()
			w.bullets("Trust Builders:", "•", o.TrustBuilders)
		}
		w.blank()
	}

	if s := a.SubjectLines; s != nil {
		w.section("✉️ SUBJECT LINE SUGGESTIONS")
		if s.Email1 != "" {
			w.add(`Email 1: "%s"`, s.Email1)
		}
		if s.Email4 != "" {
			w.add(`Email 4: "%s"`, s.Email4)
		}
		w.blank()
	}

	return strings.Join(w.lines, "\n")
}

func writePain(w *lineWriter, label string, p *PainPoint) {
	if p == nil {
		return
	}
	w.add("%s: %s", label, p.Pain)
	w.add("   Evidence: %s", p.Evidence)
	w.add("   Solution: %s", p.Solution)
	w.add("   Use in Email: %s", p.EmailToMention)
	w.blank()
}
