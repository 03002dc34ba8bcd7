package enrich

import (
	"fmt"
	"strings"
)

// truncateContent caps content at maxChars before it is sent to the model.
func truncateContent(content string, maxChars int) string {
	runes := []rune(content)
	if len(runes) <= maxChars {
		return content
	}
	return string(runes[:maxChars])
}

// BuildSummaryPrompt creates the prompt for the stylized 2-3 sentence deal
// summary. The announcement date is supplied only as disambiguating context
// and the model is told not to repeat it as a prefix.
func BuildSummaryPrompt(content, dateStr string, maxChars int) string {
	var prompt strings.Builder

	prompt.WriteString("You are an expert M&A and corporate development analyst.\n\n")
	prompt.WriteString("Write ONE concise news-style summary of the following M&A press release, in the style of a professional deals newsletter.\n\n")

	prompt.WriteString("CONTEXT (not for display):\n")
	prompt.WriteString(fmt.Sprintf("- The announcement date is: %s\n", dateStr))
	prompt.WriteString("- The date will be displayed separately in the newsletter layout.\n\n")

	prompt.WriteString("STRUCTURE:\n")
	prompt.WriteString("- The output MUST be 2 or 3 sentences in total.\n")
	prompt.WriteString(fmt.Sprintf("- DO NOT begin the text with a date like %q.\n", dateStr))
	prompt.WriteString("- Prefer to start the first sentence with the main company or buyer name.\n")
	prompt.WriteString("  Example pattern: \"Altimetrik completed the acquisition of SLK Software, creating ...\"\n")
	prompt.WriteString("- First sentence: clearly classify the transaction (e.g., acquisition, strategic investment, merger, buyback, joint venture) and name the key parties and the sector or space.\n")
	prompt.WriteString("- Second and (if needed) third sentence: describe scale and strategic rationale:\n")
	prompt.WriteString("  * scale examples: number of employees, countries, customers, segments, or (only if in the text) deal value\n")
	prompt.WriteString("  * rationale examples: expanding into new markets, strengthening AI/digital capabilities, deepening presence in specific verticals, improving operational efficiency, providing liquidity to employees, etc.\n\n")

	prompt.WriteString("NUMBERS AND DEAL VALUE:\n")
	prompt.WriteString("- ONLY mention a specific financial amount (e.g., \"USD 240 million\") if that exact or equivalent value is explicitly stated in the article text.\n")
	prompt.WriteString("- If there is no clear deal value mentioned, DO NOT invent or approximate any number.\n")
	prompt.WriteString("- DO NOT use placeholders like \"$X million\" or \"an undisclosed amount\".\n\n")

	prompt.WriteString("STYLE:\n")
	prompt.WriteString("- Tone: analytical, concise, business-like (no hype, no marketing adjectives).\n")
	prompt.WriteString("- Do NOT mention \"/PRNewswire/\", cities, or phrases like \"according to the press release\".\n")
	prompt.WriteString("- No bullet points; keep everything as continuous prose in 2-3 sentences.\n\n")

	prompt.WriteString("Press release:\n")
	prompt.WriteString(fmt.Sprintf("\"\"\"%s\"\"\"\n", truncateContent(content, maxChars)))

	return prompt.String()
}

// BuildMetadataPrompt creates the prompt that asks the model for the
// structured party and executive fields as a strict JSON object.
func BuildMetadataPrompt(content string, maxChars int) string {
	var prompt strings.Builder

	prompt.WriteString("You are an M&A analyst. Read the following press release and identify the key firms and their senior representatives.\n\n")
	prompt.WriteString("Return ONLY a JSON object with this exact shape:\n\n")
	prompt.WriteString(`{
  "investor_or_pe": "...",
  "buyer": "...",
  "seller": "...",
  "advisor_firm": "...",
  "buyer_lead_name": "...",
  "buyer_lead_role": "...",
  "investor_lead_name": "...",
  "investor_lead_role": "...",
  "seller_lead_name": "...",
  "seller_lead_role": "..."
}`)
	prompt.WriteString("\n\nDefinitions and rules:\n")
	prompt.WriteString("- \"investor_or_pe\" = private equity or VC firm(s). If multiple, join with \" & \".\n")
	prompt.WriteString("- \"buyer\" = acquiring company. If multiple, join with \" & \".\n")
	prompt.WriteString("- \"seller\" = target company. If multiple, join with \" & \".\n")
	prompt.WriteString("- \"advisor_firm\" = investment bank / advisory firm(s). If multiple, join with \" & \".\n")
	prompt.WriteString("- \"buyer_lead_name\" = main quoted executive for the buyer (e.g., CEO, Founder, Managing Director).\n")
	prompt.WriteString("- \"buyer_lead_role\" = that person's role EXACTLY as written (e.g., \"CEO\", \"Partner\", \"Founder & CEO\", \"Managing Partner\"). DO NOT change or normalize the role.\n")
	prompt.WriteString("- \"investor_lead_name\" = main quoted executive for the investor/PE (if any).\n")
	prompt.WriteString("- \"investor_lead_role\" = their role EXACTLY as written.\n")
	prompt.WriteString("- \"seller_lead_name\" = main quoted executive for the seller/target (if any).\n")
	prompt.WriteString("- \"seller_lead_role\" = their role EXACTLY as written.\n")
	prompt.WriteString("- If something is not clearly available, use \"NA\".\n\n")

	prompt.WriteString("Important:\n")
	prompt.WriteString("- DO NOT upgrade or relabel roles. For example, if the text says \"Partner\", keep \"Partner\" (do NOT change it to \"CEO\").\n")
	prompt.WriteString("- Values must be short, clean names or titles (no surrounding sentences, no labels like \"CEO of\", no company names mixed in).\n")
	prompt.WriteString("- If unsure, use \"NA\".\n\n")

	prompt.WriteString("Press release:\n")
	prompt.WriteString(fmt.Sprintf("\"\"\"%s\"\"\"\n", truncateContent(content, maxChars)))

	return prompt.String()
}
