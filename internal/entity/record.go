package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Record represents a single company dossier in the intelligence catalogue.
// Identifiers follow the CORP-NNNN scheme and are assigned by the store.
type Record struct {
	ID                 string                        `json:"id"`
	Status             string                        `json:"status,omitempty"`
	Level              string                        `json:"level,omitempty"`
	LastAccessed       string                        `json:"lastAccessed,omitempty"`
	Subject            string                        `json:"subject,omitempty"`
	Details            string                        `json:"details,omitempty"`
	RequiredClearance  string                        `json:"requiredClearance,omitempty"`
	Name               string                        `json:"name"`
	Address            string                        `json:"address,omitempty"`
	ZipCode            string                        `json:"zipCode,omitempty"`
	City               string                        `json:"city,omitempty"`
	Country            string                        `json:"country,omitempty"`
	Logo               string                        `json:"logo,omitempty"`
	Images             []string                      `json:"images,omitempty"`
	Categories         []string                      `json:"category,omitempty"`
	Tags               []Tag                         `json:"tags,omitempty"`
	SocialMedia        SocialMedia                   `json:"socialMedia"`
	Description        string                        `json:"description,omitempty"`
	SourceFound        string                        `json:"sourceFound,omitempty"`
	CEO                string                        `json:"ceo,omitempty"`
	PreviousCEOs       []string                      `json:"previousCEOs,omitempty"`
	Languages          []string                      `json:"language,omitempty"`
	TaxID              string                        `json:"taxId,omitempty"`
	Metrics            *CompanyMetrics               `json:"metrics,omitempty"`
	VerificationStatus map[string]*FieldVerification `json:"verificationStatus,omitempty"`
	CreatedAt          time.Time                     `json:"createdAt,omitempty"`
	UpdatedAt          time.Time                     `json:"updatedAt,omitempty"`
}

// SocialMedia holds the handful of networks tracked per record.
type SocialMedia struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// HasPresence reports whether at least one network is populated.
func (s SocialMedia) HasPresence() bool {
	return s.Twitter != "" || s.LinkedIn != ""
}

// Tag labels a record. A plain tag carries only a name; a sourced tag also
// records where the label came from. Seed and import data use both shapes
// (bare string or {name, source, description}), so the JSON codec accepts
// either and re-emits plain tags as bare strings.
type Tag struct {
	Name        string `json:"name"`
	Source      string `json:"source,omitempty"`
	Description string `json:"description,omitempty"`
}

// PlainTag builds a tag with no provenance metadata.
func PlainTag(name string) Tag {
	return Tag{Name: name}
}

// DisplayName returns the label shown for the tag.
func (t Tag) DisplayName() string {
	return t.Name
}

// IsPlain reports whether the tag carries no provenance metadata.
func (t Tag) IsPlain() bool {
	return t.Source == "" && t.Description == ""
}

// UnmarshalJSON accepts either a bare string or a structured tag object.
func (t *Tag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty tag payload")
	}
	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return fmt.Errorf("decode plain tag: %w", err)
		}
		*t = Tag{Name: name}
		return nil
	}

	type sourcedTag Tag
	var decoded sourcedTag
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return fmt.Errorf("decode sourced tag: %w", err)
	}
	*t = Tag(decoded)
	return nil
}

// MarshalJSON emits plain tags as bare strings for compatibility with the
// original seed format.
func (t Tag) MarshalJSON() ([]byte, error) {
	if t.IsPlain() {
		return json.Marshal(t.Name)
	}
	type sourcedTag Tag
	return json.Marshal(sourcedTag(t))
}

// TagNames flattens a tag list to display names, preserving order.
func TagNames(tags []Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.DisplayName())
	}
	return names
}

// TopProduct describes one of the company's flagship offerings.
type TopProduct struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	URL           string  `json:"url,omitempty"`
	AnnualRevenue float64 `json:"annualRevenue,omitempty"`
}

// CompanyMetrics carries the numeric KPIs attached to a record.
type CompanyMetrics struct {
	TrustScore         float64      `json:"trustScore"`
	DealProbability    float64      `json:"dealProbability"`
	AnnualRevenue      float64      `json:"annualRevenue"`
	YearOverYearGrowth float64      `json:"yearOverYearGrowth"`
	MarketShare        float64      `json:"marketShare"`
	TopProducts        []TopProduct `json:"topProducts,omitempty"`
}

// VerificationAction enumerates the ledger actions accepted per field.
type VerificationAction string

const (
	ActionVerify VerificationAction = "verify"
	ActionFlag   VerificationAction = "flag"
)

// Valid reports whether the action is one of the known ledger actions.
func (a VerificationAction) Valid() bool {
	return a == ActionVerify || a == ActionFlag
}

// VerificationEntry is one immutable line in a field's verification ledger.
type VerificationEntry struct {
	Timestamp  time.Time          `json:"timestamp"`
	Action     VerificationAction `json:"action"`
	FieldName  string             `json:"fieldName"`
	Info       string             `json:"info,omitempty"`
	VerifiedBy string             `json:"verifiedBy"`
}

// FieldVerification tracks the latest status and the full ledger for one
// record field. Verified and flagged are mutually exclusive: applying a
// verify clears the flag and vice versa.
type FieldVerification struct {
	Verified    bool                `json:"verified"`
	Flagged     bool                `json:"flagged,omitempty"`
	LastChecked time.Time           `json:"lastChecked"`
	VerifiedBy  string              `json:"verifiedBy"`
	Entries     []VerificationEntry `json:"entries,omitempty"`
}

// Apply appends the entry to the ledger and updates the latest status.
func (f *FieldVerification) Apply(entry VerificationEntry) {
	f.Entries = append(f.Entries, entry)
	switch entry.Action {
	case ActionVerify:
		f.Verified = true
		f.Flagged = false
	case ActionFlag:
		f.Flagged = true
		f.Verified = false
	}
	f.LastChecked = entry.Timestamp
	f.VerifiedBy = entry.VerifiedBy
}

// Clone returns a deep copy so store snapshots never alias ledger state.
func (f *FieldVerification) Clone() *FieldVerification {
	if f == nil {
		return nil
	}
	dup := *f
	if len(f.Entries) > 0 {
		dup.Entries = append([]VerificationEntry(nil), f.Entries...)
	}
	return &dup
}

// Clone returns a deep copy of the record. Analytical reads operate on
// snapshots, so copies must not share slices or maps with stored state.
func (r Record) Clone() Record {
	dup := r
	dup.Images = append([]string(nil), r.Images...)
	dup.Categories = append([]string(nil), r.Categories...)
	dup.Tags = append([]Tag(nil), r.Tags...)
	dup.PreviousCEOs = append([]string(nil), r.PreviousCEOs...)
	dup.Languages = append([]string(nil), r.Languages...)
	if r.Metrics != nil {
		metrics := *r.Metrics
		metrics.TopProducts = append([]TopProduct(nil), r.Metrics.TopProducts...)
		dup.Metrics = &metrics
	}
	if r.VerificationStatus != nil {
		dup.VerificationStatus = make(map[string]*FieldVerification, len(r.VerificationStatus))
		for field, status := range r.VerificationStatus {
			dup.VerificationStatus[field] = status.Clone()
		}
	}
	return dup
}
