package enrich

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"dealwire/internal/core"
)

// Proposal is the raw, untrusted metadata object proposed by the model.
// Nothing in it is believed until ValidateMetadata has attested each field
// against the source content.
type Proposal struct {
	InvestorOrPE     string `json:"investor_or_pe"`
	Buyer            string `json:"buyer"`
	Seller           string `json:"seller"`
	AdvisorFirm      string `json:"advisor_firm"`
	BuyerLeadName    string `json:"buyer_lead_name"`
	BuyerLeadRole    string `json:"buyer_lead_role"`
	InvestorLeadName string `json:"investor_lead_name"`
	InvestorLeadRole string `json:"investor_lead_role"`
	SellerLeadName   string `json:"seller_lead_name"`
	SellerLeadRole   string `json:"seller_lead_role"`
}

// jsonSpanRe locates the first '{' through the last '}' in a raw model
// response, tolerating prose or code fences around the object.
var jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)

// orgSplitRe splits multi-party org values like "Acme & Foo, Bar and Baz".
var orgSplitRe = regexp.MustCompile(`&|,|/| and `)

// roleSplitRe tokenizes role strings like "Founder & CEO" or "Co-Founder".
var roleSplitRe = regexp.MustCompile(`[\s/&,-]+`)

// ParseProposal extracts and decodes the JSON object from a raw model
// response. The caller treats any error as an all-NA proposal.
func ParseProposal(raw string) (Proposal, error) {
	span := jsonSpanRe.FindString(raw)
	if span == "" {
		return Proposal{}, fmt.Errorf("no JSON object found in response")
	}

	var p Proposal
	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return Proposal{}, fmt.Errorf("failed to decode metadata JSON: %w", err)
	}
	return p, nil
}

// Clean normalizes every proposed value: empty or whitespace-only values
// become the NA sentinel, everything else is trimmed.
func (p Proposal) Clean() Proposal {
	return Proposal{
		InvestorOrPE:     cleanValue(p.InvestorOrPE),
		Buyer:            cleanValue(p.Buyer),
		Seller:           cleanValue(p.Seller),
		AdvisorFirm:      cleanValue(p.AdvisorFirm),
		BuyerLeadName:    cleanValue(p.BuyerLeadName),
		BuyerLeadRole:    cleanValue(p.BuyerLeadRole),
		InvestorLeadName: cleanValue(p.InvestorLeadName),
		InvestorLeadRole: cleanValue(p.InvestorLeadRole),
		SellerLeadName:   cleanValue(p.SellerLeadName),
		SellerLeadRole:   cleanValue(p.SellerLeadRole),
	}
}

func cleanValue(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return core.NA
	}
	return s
}

// ValidateMetadata is the hallucination firewall: each proposed field
// survives only if it is textually attested in the source content, and the
// deal advisor is resolved from whatever survived. The proposer is fully
// untrusted; plausible-looking but unattested values are downgraded to NA.
func ValidateMetadata(p Proposal, content string) core.DealMetadata {
	contentNorm := strings.ToLower(collapseWhitespace(content))

	meta := core.DealMetadata{
		InvestorOrPE:     validateOrg(p.InvestorOrPE, contentNorm),
		Buyer:            validateOrg(p.Buyer, contentNorm),
		Seller:           validateOrg(p.Seller, contentNorm),
		BuyerLeadName:    validatePerson(p.BuyerLeadName, contentNorm),
		BuyerLeadRole:    validateRole(p.BuyerLeadRole, contentNorm),
		InvestorLeadName: validatePerson(p.InvestorLeadName, contentNorm),
		InvestorLeadRole: validateRole(p.InvestorLeadRole, contentNorm),
		SellerLeadName:   validatePerson(p.SellerLeadName, contentNorm),
		SellerLeadRole:   validateRole(p.SellerLeadRole, contentNorm),
	}

	advisorFirm := validateOrg(p.AdvisorFirm, contentNorm)
	meta.DealAdvisor = ResolveAdvisor(meta.InvestorOrPE, advisorFirm, meta.Buyer, meta.Seller)
	return meta
}

// validateOrg accepts an org-like value iff at least one of its parts
// (split on &, comma, slash or " and ") appears verbatim in the content.
func validateOrg(name, contentNorm string) string {
	if name == core.NA {
		return core.NA
	}
	for _, part := range orgSplitRe.Split(name, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(contentNorm, strings.ToLower(part)) {
			return name
		}
	}
	return core.NA
}

// validatePerson accepts a person name iff any non-trivial token (>2 chars)
// appears in the content.
func validatePerson(name, contentNorm string) string {
	if name == core.NA {
		return core.NA
	}
	for _, token := range strings.Fields(name) {
		if len(token) <= 2 {
			continue
		}
		if strings.Contains(contentNorm, strings.ToLower(token)) {
			return name
		}
	}
	return core.NA
}

// validateRole accepts a role iff any non-trivial token appears in the
// content, so "Partner" cannot silently become "CEO".
func validateRole(role, contentNorm string) string {
	if role == core.NA {
		return core.NA
	}
	for _, token := range roleSplitRe.Split(role, -1) {
		if len(token) <= 2 {
			continue
		}
		if strings.Contains(contentNorm, strings.ToLower(token)) {
			return role
		}
	}
	return core.NA
}

// ResolveAdvisor picks the single deal advisor label by fixed priority:
// investor_or_pe, then advisor_firm, then buyer, then seller. The first
// non-NA value wins, so no tie is possible.
func ResolveAdvisor(investorOrPE, advisorFirm, buyer, seller string) string {
	for _, candidate := range []string{investorOrPE, advisorFirm, buyer, seller} {
		if candidate != core.NA {
			return candidate
		}
	}
	return core.NA
}
