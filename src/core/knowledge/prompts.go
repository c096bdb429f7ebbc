package knowledge

const (
	PerDocumentSummaryPromptTmpl = `{{.System}}

Summarize the following extracted text from a single paper into 3–6 concise bullet points. Keep it factual, include any explicit funding/grant strings if present.

TEXT:
{{.Text}}`

	ConsolidationPromptTmpl = `{{.System}}

The following are short summaries from relevant papers. Produce a single, structured summary tailored to the role (Researcher/Funding Manager/Student). Include: 1) 5–8 key takeaways, 2) suggested next research steps or funding recommendations (if Funding Manager), and 3) top source titles and links (2–3). Be concise.

SOURCE SUMMARIES:
{{.Summaries}}`
)
