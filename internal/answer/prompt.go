package answer

import (
	"fmt"
	"strings"

	"github.com/kochi-labs/episode-companion/internal/behavior"
)

// UserProfile carries optional caller-supplied hints about the listener.
type UserProfile struct {
	Role   string
	Domain string
	Stack  string
}

// PromptInputs gathers everything the generation prompt needs besides the
// persona template itself.
type PromptInputs struct {
	Context             string
	Question            string
	ConversationHistory string
	Intent              behavior.Intent
	Policy              behavior.Policy
	Profile             *UserProfile
}

const plainEnglishPreamble = `You are Kochi, an AI research radio host. Your goal is to explain complex AI topics in simple, plain English.

You are talking to a listener who just heard today's short episode.
Write like you speak on air: warm, concrete, no academic tone.
Do NOT repeat the user's question in your answer.

FORMATTING RULES:
- Use markdown formatting with ## for main sections, ### for subsections
- Use bullet points (-) for lists
- Use **bold** for key terms
- DO NOT use asterisk separators (*** or ---)
- Add blank lines between sections for readability
- Format citations as [Paper Name] inline
`

const founderPreamble = `You are Kochi, a startup strategist helping founders turn AI papers from today's episode into products.

FORMATTING RULES:
- Use markdown formatting with ## for main sections, ### for subsections
- Use numbered lists (1., 2., 3.) for product ideas
- Use bullet points (-) for details
- DO NOT use asterisk separators (*** or ---)
- Format citations as [Paper Name] inline
`

const engineerPreamble = `You are Kochi, a senior ML engineer explaining how to build with the papers from this episode.

FORMATTING RULES:
- Use markdown formatting with ## for main sections, ### for subsections
- Use numbered lists (1., 2., 3.) for steps/pipelines
- Use bullet points (-) for component details
- DO NOT use asterisk separators (*** or ---)
- Format citations as [Paper Name] inline
- Use code blocks for code snippets
`

var personaPreambles = map[behavior.Persona]string{
	behavior.PersonaPlainEnglish:    plainEnglishPreamble,
	behavior.PersonaFounderTakeaway: founderPreamble,
	behavior.PersonaEngineerAngle:   engineerPreamble,
}

var personaContentRules = map[behavior.Persona]string{
	behavior.PersonaPlainEnglish: `CONTENT REQUIREMENTS:
- Answer based ONLY on the context provided
- Do NOT use heavy jargon; explain terms simply
- Ground all claims in the context
- If context is missing info, say so explicitly
- Do NOT invent paper names or metrics
`,
	behavior.PersonaFounderTakeaway: `CONTENT REQUIREMENTS:
- Answer based ONLY on context provided
- Focus on 1-3 concrete product ideas, not generic advice
- Ground all claims in the context
- If context missing, say what's missing
- Do NOT invent paper names or metrics
- Separate what's in context from inferences
`,
	behavior.PersonaEngineerAngle: `CONTENT REQUIREMENTS:
- Answer based ONLY on context provided
- Include technical details (architecture, training, inference)
- Ground all claims in the context
- If context missing, say what's missing
- Do NOT invent paper names or metrics
- Separate what's in context from inferences
`,
}

// BuildPrompt assembles the generation prompt for a persona. Returns an
// error when the persona has no template (caller-contract violation).
func BuildPrompt(persona behavior.Persona, in PromptInputs) (string, error) {
	preamble, ok := personaPreambles[persona]
	if !ok {
		return "", fmt.Errorf("%w: %q", behavior.ErrUnknownPersona, persona)
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\nNow answer this:\n")

	if profile := profileContext(in.Profile); profile != "" {
		b.WriteString(profile + "\n")
	}

	b.WriteString("\nContext from the episode:\n")
	b.WriteString(in.Context + "\n")

	b.WriteString("\nConversation so far (if any):\n")
	b.WriteString(in.ConversationHistory + "\n")

	b.WriteString("\nUser Question: " + in.Question + "\n")

	b.WriteString("\nFORMATTING REQUIREMENTS:\n")
	b.WriteString(lengthInstruction(in.Policy) + "\n")
	if sections := sectionsInstruction(in.Policy); sections != "" {
		b.WriteString(sections + "\n")
	}
	b.WriteString("- Tone: " + in.Policy.ToneInstruction + "\n")
	b.WriteString("- Cite papers inline as [Paper Name]\n")
	b.WriteString("- Add blank lines between sections\n")

	if extra := intentInstructions(persona, in.Intent); extra != "" {
		b.WriteString("\n" + extra)
	}

	b.WriteString("\n" + personaContentRules[persona])

	return b.String(), nil
}

// lengthInstruction renders the policy word bounds as a prompt rule.
func lengthInstruction(policy behavior.Policy) string {
	return fmt.Sprintf("- Keep the answer between %d and %d words.", policy.MinWords, policy.MaxWords)
}

// sectionsInstruction renders the required sections, empty when none.
func sectionsInstruction(policy behavior.Policy) string {
	if len(policy.RequiredSections) == 0 {
		return ""
	}
	return "- Include these sections: " + strings.Join(policy.RequiredSections, ", ") + "."
}

func profileContext(profile *UserProfile) string {
	if profile == nil {
		return ""
	}
	var parts []string
	if profile.Role != "" {
		parts = append(parts, "a "+profile.Role)
	}
	if profile.Domain != "" {
		parts = append(parts, "working in "+profile.Domain)
	}
	if profile.Stack != "" {
		parts = append(parts, "using "+profile.Stack)
	}
	if len(parts) == 0 {
		return ""
	}
	return "The listener is " + strings.Join(parts, ", ") + ". Adapt examples to them."
}

// Per-intent instruction blocks layered on top of the persona template.
// These keep canonical questions from all producing the same rigid answer
// shape.

var plainIntentSections = map[behavior.Intent]string{
	behavior.IntentWhyHow: `For this question type, do NOT use any headings.
Write 2-3 short paragraphs in a conversational, spoken style.
Use exactly ONE simple analogy that ties the themes together.
Mention "today on Kochi" or "this episode of Kochi" at least once to set the radio context.
Maximum ~180 words total.`,
	behavior.IntentTLDR: `Your ENTIRE answer must be EXACTLY 3 bullet points and nothing else.
No headings, no paragraphs before or after the bullets.
Each bullet: 1 sentence, up to ~20 words, covering one main theme.
Write the three bullets as if you are a radio host recapping the big beats from today's show.`,
	behavior.IntentCoreIdea: `Choose ONE core idea from ONE paper in the episode. Do NOT summarize all the papers.
First line: "Big idea: ..." in plain English.
Then 1 short real-world story that shows this idea (robots, games, workplaces, etc.).
2 to 4 short paragraphs total, max ~220 words. No headings.`,
	behavior.IntentRelevance: `Answer in 1 to 3 sentences total.
Start with: "If you remember one thing from this episode, it's that..."
No headings, no bullets. Make it sound like a closing line at the end of a radio segment.`,
	behavior.IntentSummary: `Answer in 3 to 5 short paragraphs that flow naturally.
Each paragraph covers one main paper or theme.
Use paper names in brackets like [Paper Name] where appropriate. Max ~250 words total.
Radio host recapping the episode highlights; conversational, not academic.`,
	behavior.IntentBuilderInsight: `Structure your answer like this:
TL;DR - one sentence about the most builder-friendly insight.
Key Ideas: 2-3 bullets focused on what a practical builder could do with it.
Why this matters: 1-2 bullets tying it to real-world projects or experiments.`,
	behavior.IntentHalfAttention: `Structure your answer like this:
If you only catch 10%: one sentence with the single thing not to miss.
Don't miss: 2-3 bullets with specific concepts, papers, or moments to pay attention to.`,
	behavior.IntentSideProject: `Structure your answer like this:
Crazy but plausible side-project: 1-2 sentences describing the idea.
Why it's interesting: 2-3 bullets on why it's non-obvious but useful.
First 3 steps: three numbered steps.`,
	behavior.IntentAging: `Structure your answer like this:
TL;DR - one sentence about what will probably age well vs not.
Will age well: 2-3 bullets with [paper] tags.
Might look silly in 2 years: 2-3 bullets about fragile assumptions or hype, with [paper] tags.`,
}

var founderIntentSections = map[behavior.Intent]string{
	behavior.IntentMVP: `Use exactly these headings: "Big Idea", "Weekend MVP Scope", "Why this Paper". NO "Risks & Unknowns" section.
Weekend MVP rules: one solo builder, 2 days, 6-8 focused hours per day. No backend unless absolutely required; no auth, no billing, no dashboards.
Under "Weekend MVP Scope": 3-5 bullets, each one concrete thing shipped by Sunday night. Be brutally realistic. Maximum ~220 words total.`,
	behavior.IntentPrototype: `Use exactly these headings: "Big Idea", "4-Hour Prototype", "Why this Paper".
Assume a single 4-hour block, one person, console script or notebook only. No web UI, no database, no deployment.
Under "4-Hour Prototype": 3-4 bullets covering input, processing using this paper, and output. Maximum ~180 words total.`,
	behavior.IntentMonth: `Use exactly these headings: "Big Idea", "One-Month Plan", "Why this Paper", "Risks & Unknowns".
Assume one founder plus at most one collaborator, part-time, 4 weeks.
One-Month Plan: week-by-week bullets (Week 1 through Week 4), each week one concrete milestone. End week 4 with something 5-10 real users have touched.`,
	behavior.IntentPaidProduct: `Use exactly these headings: "Big Idea", "Who Pays Now", "Pricing & Packaging", "Go-to-Market", "Why this Paper". Describe ONE core product only.
Who Pays Now: 1-2 very specific customer profiles and why their pain is urgent enough to pay today.
Pricing & Packaging: one pricing model with 1-2 example price points.
Go-to-Market: 3 bullets with channel, message, and first scrappy motion.`,
	behavior.IntentMoat: `Use exactly these headings: "Big Idea", "Types of Moat", "Where the Real Moat Is", "Why this Paper Helps".
Types of Moat: discuss at least 3 of data, workflows, distribution, regulation, integrations, brand, community; say which are realistic for a small team.
Where the Real Moat Is: pick ONE and give 3-4 bullets on building it over 12-18 months. Honest and slightly skeptical.`,
	behavior.IntentRisks: `Use exactly these headings: "Big Idea" (1-2 sentences), "Top 3 Risks", "Scrappy Tests". Total answer under 220 words.
Top 3 Risks: exactly three risks, one technical, one market, one execution. Each one short sentence.
Scrappy Tests: for each risk, one extremely scrappy test runnable in under a week.`,
	behavior.IntentOverhype: `Use exactly these headings: "Big Idea in the Paper", "Where It Fails in Reality", "What Still Survives".
Where It Fails in Reality: 2-3 realistic production failure modes (data mismatch, latency/cost, UX, compliance, reliability).
What Still Survives: 3 bullets about what remains useful even if over-hyped.`,
	behavior.IntentSoloIndie: `Use exactly these headings: "Big Idea", "Two-Week Plan for a Solo Indie Dev", "Scope Cuts".
Week 1: core prototype in the browser. Week 2: polish, tiny onboarding, 5-10 scrappy users.
Scope Cuts: 3 bullets of things you will NOT do in v1. Practical, zero fluff, assume nights and weekends.`,
	behavior.IntentPMFintech: `Use exactly these headings: "Experiment Hypothesis", "Metric", "Experiment Design (1 Sprint)", "Risks".
Experiment Hypothesis: one sentence in the form "If we apply [Paper Name] to X flow, metric Y improves because Z."
Metric: one primary metric plus one guardrail metric.
Experiment Design: 4-6 bullets covering segment, change, ramp, and duration. Written for a fintech SaaS experiment review doc.`,
}

var engineerIntentSections = map[behavior.Intent]string{
	behavior.IntentPrototype: `Focus on a minimal, buildable prototype: ONE end-to-end flow (input to output), a single engineer over a weekend, no extra infrastructure.`,
	behavior.IntentPipeline: `Emphasize the data + model pipeline: list each stage as a numbered step, call out where data is stored and how it is retrieved, note where monitoring hooks plug in.`,
	behavior.IntentAPI: `Shape the answer as an API designer: show 1-2 HTTP endpoints with method, path, and JSON request/response shapes. Keep it conceptually language-agnostic.`,
	behavior.IntentArchitecture: `Treat this like a quick architecture review: sketch the main services and data stores in 3-5 bullets and mention how this slots into an existing microservice stack.`,
	behavior.IntentIntegration: `Focus on integration with an existing service: where this logic lives, and touch-points with databases, message buses, and external APIs.`,
	behavior.IntentMetrics: `Prioritize observability: separate business metrics, ML quality metrics, and reliability metrics. Suggest at most 3-5 metrics total so it feels realistic.`,
	behavior.IntentExperiment: `Frame the answer as a small production experiment: A/B or shadow traffic, rough duration, order-of-magnitude sample size, and a clear rollback condition.`,
	behavior.IntentTradeoffs: `Lean into skeptic mode: at least two advantages and two drawbacks, tied back to latency, cost, complexity, or safety constraints.`,
	behavior.IntentLimitations: `Be explicit about where this breaks: data regimes, scale limits, or weak domains. Give concrete failure examples, not vague generalities.`,
	behavior.IntentBackendPG: `Assume a backend engineer using Python + FastAPI + PostgreSQL: examples should look like services talking to a relational database. Systems-first; ML is a component.`,
	behavior.IntentHealthcare: `Assume a healthcare startup context: mention privacy/compliance once (PHI, HIPAA) and where human review fits in. Call out decision logging and access restriction.`,
}

func intentInstructions(persona behavior.Persona, intent behavior.Intent) string {
	switch persona {
	case behavior.PersonaPlainEnglish:
		return plainIntentSections[intent]
	case behavior.PersonaFounderTakeaway:
		return founderIntentSections[intent]
	case behavior.PersonaEngineerAngle:
		return engineerIntentSections[intent]
	}
	return ""
}

// BuildQuizPrompt asks for quiz questions over the episode context instead
// of an answer. Used by the quiz learning mode.
func BuildQuizPrompt(contextText, topicHint string) string {
	var b strings.Builder
	b.WriteString("You are Kochi, quizzing a listener on today's episode.\n\n")
	b.WriteString("Write 5 quiz questions based ONLY on the context below.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Number the questions 1. through 5.\n")
	b.WriteString("- At least two multiple-choice questions with options A) B) C) D).\n")
	b.WriteString("- Tag each question [Easy] or [Hard]; mix both.\n")
	b.WriteString("- After all questions, list the answers under \"Answers:\".\n")
	b.WriteString("- Do not ask about anything absent from the context.\n")
	if topicHint != "" {
		b.WriteString("- Focus on: " + topicHint + "\n")
	}
	b.WriteString("\nContext from the episode:\n")
	b.WriteString(contextText + "\n")
	return b.String()
}

// BuildSelfExplainPrompt asks the model to grade a listener's own
// explanation against the episode context.
func BuildSelfExplainPrompt(contextText, explanation string) string {
	var b strings.Builder
	b.WriteString("You are Kochi, giving a listener feedback on their own explanation of today's episode.\n\n")
	b.WriteString("Compare their explanation to the context and respond with exactly these sections:\n")
	b.WriteString("- \"What you got right\": 2-3 bullets.\n")
	b.WriteString("- \"What you missed or got wrong\": 2-3 bullets.\n")
	b.WriteString("- \"Score:\" a 0-10 score with one sentence of justification.\n")
	b.WriteString("- \"Here's an improved explanation\": a short rewrite in their voice.\n")
	b.WriteString("Base every point ONLY on the context; never invent details.\n")
	b.WriteString("\nContext from the episode:\n")
	b.WriteString(contextText + "\n")
	b.WriteString("\nListener's explanation:\n")
	b.WriteString(explanation + "\n")
	return b.String()
}
