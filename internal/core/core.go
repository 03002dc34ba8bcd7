package core

import "time"

// NA is the sentinel for a field whose value is unknown or could not be
// verified against the source text. It is distinct from the empty string,
// which marks fields that are simply absent (e.g. an unparseable date).
const NA = "NA"

// Article represents one raw press-release record from a batch source.
type Article struct {
	Title      string   `json:"title"`     // Headline of the press release
	Content    string   `json:"content"`   // Full body text (may be empty)
	URL        string   `json:"url"`       // Canonical URL of the release
	Timestamps []string `json:"timestamp"` // Free-text date mentions, first is authoritative
}

// DealMetadata holds the validated party and executive fields for one deal.
// Every field is either NA or attested by at least one token in the source
// content.
type DealMetadata struct {
	DealAdvisor      string `json:"deal_advisor"`       // Resolved advisor label (priority pick)
	InvestorOrPE     string `json:"investor_or_pe"`     // Private equity / VC firm(s)
	Buyer            string `json:"buyer"`              // Acquiring company
	Seller           string `json:"seller"`             // Target company
	BuyerLeadName    string `json:"buyer_lead_name"`    // Quoted executive for the buyer
	BuyerLeadRole    string `json:"buyer_lead_role"`    // Role exactly as written in the release
	InvestorLeadName string `json:"investor_lead_name"` // Quoted executive for the investor/PE
	InvestorLeadRole string `json:"investor_lead_role"` // Role exactly as written
	SellerLeadName   string `json:"seller_lead_name"`   // Quoted executive for the seller
	SellerLeadRole   string `json:"seller_lead_role"`   // Role exactly as written
}

// EnrichedDeal is an Article augmented with normalized date, chosen summary,
// extracted deal value and validated metadata. Created once per article,
// never mutated afterwards.
type EnrichedDeal struct {
	ID         string `json:"id"`          // Unique identifier for the enriched record
	Title      string `json:"title"`       // Copied from the source article
	URL        string `json:"url"`         // Copied from the source article
	PrettyDate string `json:"pretty_date"` // Normalized "Mon D, YYYY" or empty
	Context    string `json:"context"`     // Chosen summary (generative or deterministic)
	DealValue  string `json:"deal_value"`  // Amount string like "USD 240 million", or NA

	DealMetadata

	ModelUsed    string    `json:"model_used"`    // Generative model configured for the run
	DateEnriched time.Time `json:"date_enriched"` // Timestamp when enrichment completed
}

// Issue identifies one newsletter issue for rendering and delivery.
type Issue struct {
	Number string `json:"number"` // Zero-padded issue number, e.g. "0001"
	Date   string `json:"date"`   // Display date, e.g. "November 26, 2025"
}

// EmptyMetadata returns a DealMetadata with every field set to NA.
func EmptyMetadata() DealMetadata {
	return DealMetadata{
		DealAdvisor:      NA,
		InvestorOrPE:     NA,
		Buyer:            NA,
		Seller:           NA,
		BuyerLeadName:    NA,
		BuyerLeadRole:    NA,
		InvestorLeadName: NA,
		InvestorLeadRole: NA,
		SellerLeadName:   NA,
		SellerLeadRole:   NA,
	}
}
